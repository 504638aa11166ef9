package http

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	shared "github.com/davicafu/agrofarm/internal/shared/domain"
	"github.com/davicafu/agrofarm/pkg/logger"
	"github.com/davicafu/agrofarm/pkg/utils"
)

const (
	HeaderUserID    = "X-User-Id"
	HeaderUserRole  = "X-User-Role"
	HeaderRequestID = "X-Request-Id"

	actorKey = "actor"
)

// RequestID propaga X-Request-Id al contexto; si no llega se genera uno.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(HeaderRequestID, reqID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), reqID))
		c.Next()
	}
}

// RequireActor lee la identidad de las cabeceras. Sin actor válido responde 401.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(HeaderUserID))
		if err != nil || id == uuid.Nil {
			utils.SendUnauthorized(c, "missing or invalid "+HeaderUserID+" header")
			return
		}
		role, ok := shared.ParseRole(c.GetHeader(HeaderUserRole))
		if !ok {
			utils.SendUnauthorized(c, "missing or invalid "+HeaderUserRole+" header")
			return
		}
		c.Set(actorKey, shared.Actor{ID: id, Role: role})
		c.Next()
	}
}

func actorFrom(c *gin.Context) shared.Actor {
	actor, _ := c.MustGet(actorKey).(shared.Actor)
	return actor
}
