package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

func TestRetry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, 2*time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = Retry(context.Background(), 2, time.Millisecond, time.Millisecond, func() error {
		calls++
		return errors.New("down")
	})
	assert.EqualError(t, err, "down")
	assert.Equal(t, 2, calls)
}

func TestRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 5, time.Hour, time.Hour, func() error { return errors.New("down") })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSendDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dup := shared.Violation{Code: "Name.Duplicate", Message: "Name is already in use."}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   shared.Kind
		wantMsg    string
	}{
		{"validation", shared.Validation(dup), http.StatusBadRequest, shared.KindValidation, dup.Message},
		{"not found", fmt.Errorf("load: %w", shared.NotFound(dup)), http.StatusNotFound, shared.KindNotFound, dup.Message},
		{"forbidden", shared.Forbidden(dup), http.StatusForbidden, shared.KindForbidden, dup.Message},
		{"conflict", shared.Conflict(dup, errors.New("stale")), http.StatusConflict, shared.KindConflict, dup.Message},
		{"unexpected hides detail", errors.New("pq: password leaked"), http.StatusInternalServerError, shared.KindUnexpected, "An unexpected error occurred."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			SendDomainError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body struct {
				Error ErrorResponse `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body.Error.Kind)
			assert.Equal(t, tt.wantMsg, body.Error.Message)
			assert.NotContains(t, w.Body.String(), "password")
		})
	}
}
