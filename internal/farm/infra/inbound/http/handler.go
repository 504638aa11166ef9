package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/agrofarm/internal/farm/application"
	"github.com/davicafu/agrofarm/internal/farm/domain"
	shared "github.com/davicafu/agrofarm/internal/shared/domain"
	"github.com/davicafu/agrofarm/internal/shared/platform/query"
	"github.com/davicafu/agrofarm/pkg/logger"
	"github.com/davicafu/agrofarm/pkg/utils"
)

// OutboxStats lo implementa el repositorio del outbox.
type OutboxStats interface {
	CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int, error)
}

// FarmHandler encapsula los endpoints HTTP de propiedades, parcelas y sensores
type FarmHandler struct {
	service *application.FarmService
	outbox  OutboxStats
	log     *zap.Logger
}

func NewFarmHandler(service *application.FarmService, outbox OutboxStats, log *zap.Logger) *FarmHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &FarmHandler{service: service, outbox: outbox, log: log}
}

// ---------------- Requests ----------------

type propertyRequest struct {
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Country      string   `json:"country"`
	AreaHectares float64  `json:"areaHectares"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

func (r propertyRequest) input() domain.PropertyInput {
	return domain.PropertyInput{
		Name:         r.Name,
		Address:      r.Address,
		City:         r.City,
		State:        r.State,
		Country:      r.Country,
		AreaHectares: r.AreaHectares,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
	}
}

type plotRequest struct {
	Name         string  `json:"name"`
	CropType     string  `json:"cropType"`
	AreaHectares float64 `json:"areaHectares"`
}

func (r plotRequest) input() domain.PlotInput {
	return domain.PlotInput{Name: r.Name, CropType: r.CropType, AreaHectares: r.AreaHectares}
}

type cropTypeRequest struct {
	CropType string `json:"cropType"`
}

type sensorRequest struct {
	Type  string  `json:"type"`
	Label *string `json:"label"`
}

type labelRequest struct {
	Label *string `json:"label"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// listRequest recoge los parámetros comunes de los listados. Los ids
// opcionales se leen aparte en bindList.
type listRequest struct {
	PageNumber    int    `form:"pageNumber"`
	PageSize      int    `form:"pageSize"`
	SortBy        string `form:"sortBy"`
	SortDirection string `form:"sortDirection"`
	Filter        string `form:"filter"`
	CropType      string `form:"cropType"`
	Type          string `form:"type"`
	Status        string `form:"status"`
}

func (r listRequest) page() query.PageRequest {
	return query.PageRequest{
		PageNumber:    r.PageNumber,
		PageSize:      r.PageSize,
		SortBy:        r.SortBy,
		SortDirection: r.SortDirection,
	}
}

// ---------------- Helpers ----------------

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// bindList lee la query string y los ids opcionales; cualquier error es 400.
func bindList(c *gin.Context, req *listRequest, ids map[string]**uuid.UUID) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		utils.SendBadRequest(c, "invalid query parameters")
		return false
	}
	for name, dest := range ids {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.SendBadRequest(c, "invalid "+name)
			return false
		}
		*dest = &id
	}
	return true
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.SendBadRequest(c, "malformed request body")
		return false
	}
	return true
}

// respond escribe el resultado o traduce el error a su código HTTP.
func respond[V any](h *FarmHandler, c *gin.Context, status int, view V, err error) {
	if err != nil {
		if shared.IsKind(err, shared.KindUnexpected) {
			logger.WithRequestID(c.Request.Context(), h.log).Error("❌ Request failed",
				zap.String("path", c.FullPath()), zap.Error(err))
		}
		utils.SendDomainError(c, err)
		return
	}
	c.JSON(status, view)
}

// ---------------- Properties ----------------

// CreateProperty endpoint POST /properties
func (h *FarmHandler) CreateProperty(c *gin.Context) {
	var req propertyRequest
	if !bind(c, &req) {
		return
	}
	view, err := h.service.CreateProperty(c.Request.Context(),
		application.CreatePropertyCommand{PropertyInput: req.input()}, actorFrom(c))
	respond(h, c, http.StatusCreated, view, err)
}

// GetProperty endpoint GET /properties/:id
func (h *FarmHandler) GetProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.service.GetProperty(c.Request.Context(), id)
	respond(h, c, http.StatusOK, view, err)
}

// UpdateProperty endpoint PUT /properties/:id
func (h *FarmHandler) UpdateProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req propertyRequest
	if !bind(c, &req) {
		return
	}
	view, err := h.service.UpdateProperty(c.Request.Context(),
		application.UpdatePropertyCommand{PropertyID: id, PropertyInput: req.input()}, actorFrom(c))
	respond(h, c, http.StatusOK, view, err)
}

func (h *FarmHandler) ActivateProperty(c *gin.Context) {
	h.propertyLifecycle(c, h.service.ActivateProperty)
}

func (h *FarmHandler) DeactivateProperty(c *gin.Context) {
	h.propertyLifecycle(c, h.service.DeactivateProperty)
}

func (h *FarmHandler) propertyLifecycle(c *gin.Context, run func(context.Context, application.PropertyLifecycleCommand, shared.Actor) (application.PropertyView, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := run(c.Request.Context(), application.PropertyLifecycleCommand{PropertyID: id}, actorFrom(c))
	respond(h, c, http.StatusOK, view, err)
}

// GetPropertyList endpoint GET /properties
func (h *FarmHandler) GetPropertyList(c *gin.Context) {
	var req listRequest
	q := application.GetPropertyListQuery{}
	if !bindList(c, &req, map[string]**uuid.UUID{"ownerId": &q.OwnerID}) {
		return
	}
	q.PageRequest, q.Filter = req.page(), req.Filter
	page, err := h.service.GetPropertyList(c.Request.Context(), q, actorFrom(c))
	respond(h, c, http.StatusOK, page, err)
}

// ---------------- Plots ----------------

// CreatePlot endpoint POST /properties/:id/plots
func (h *FarmHandler) CreatePlot(c *gin.Context) {
	propertyID, ok := parseID(c)
	if !ok {
		return
	}
	var req plotRequest
	if !bind(c, &req) {
		return
	}
	view, err := h.service.CreatePlot(c.Request.Context(),
		application.CreatePlotCommand{PropertyID: propertyID, PlotInput: req.input()}, actorFrom(c))
	respond(h, c, http.StatusCreated, view, err)
}

func (h *FarmHandler) GetPlot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.service.GetPlot(c.Request.Context(), id)
	respond(h, c, http.StatusOK, view, err)
}

func (h *FarmHandler) UpdatePlot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req plotRequest
	if !bind(c, &req) {
		return
	}
	view, err := h.service.UpdatePlot(c.Request.Context(),
		application.UpdatePlotCommand{PlotID: id, PlotInput: req.input()}, actorFrom(c))
	respond(h, c, http.StatusOK, view, err)
}

// ChangePlotCropType endpoint PATCH /plots/:id/crop-type
func (h *FarmHandler) ChangePlotCropType(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req cropTypeRequest
	if !bind(c, &req) {
		return
	}
	view, err := h.service.ChangePlotCropType(c.Request.Context(),
		application.ChangePlotCropTypeCommand{PlotID: id, CropType: req.CropType}, actorFrom(c))
	respond(h, c, http.StatusOK, view, err)
}

func (h *FarmHandler) ActivatePlot(c *gin.Context) {
	h.plotLifecycle(c, h.service.ActivatePlot)
}

func (h *FarmHandler) DeactivatePlot(c *gin.Context) {
	h.plotLifecycle(c, h.service.DeactivatePlot)
}

func (h *FarmHandler) plotLifecycle(c *gin.Context, run func(context.Context, application.PlotLifecycleCommand, shared.Actor) (application.PlotView, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := run(c.Request.Context(), application.PlotLifecycleCommand{PlotID: id}, actorFrom(c))
	respond(h, c, http.StatusOK, view, err)
}

// GetPlotList endpoint GET /plots
func (h *FarmHandler) GetPlotList(c *gin.Context) {
	var req listRequest
	q := application.GetPlotListQuery{}
	if !bindList(c, &req, map[string]**uuid.UUID{"propertyId": &q.PropertyID}) {
		return
	}
	q.PageRequest, q.Filter, q.CropType = req.page(), req.Filter, req.CropType
	page, err := h.service.GetPlotList(c.Request.Context(), q, actorFrom(c))
	respond(h, c, http.StatusOK, page, err)
}

// ListPlotsFromProperty endpoint GET /properties/:id/plots
func (h *FarmHandler) ListPlotsFromProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req listRequest
	if !bindList(c, &req, nil) {
		return
	}
	page, err := h.service.ListPlotsFromProperty(c.Request.Context(), application.ListPlotsFromPropertyQuery{
		PropertyID:  id,
		PageRequest: req.page(),
		Filter:      req.Filter,
		CropType:    req.CropType,
	}, actorFrom(c))
	respond(h, c, http.StatusOK, page, err)
}

// ---------------- Sensors ----------------

// RegisterSensor endpoint POST /plots/:id/sensors
func (h *FarmHandler) RegisterSensor(c *gin.Context) {
	plotID, ok := parseID(c)
	if !ok {
		return
	}
	var req sensorRequest
	if !bind(c, &req) {
		return
	}
	view, err := h.service.RegisterSensor(c.Request.Context(),
		application.RegisterSensorCommand{PlotID: plotID, Type: req.Type, Label: req.Label}, actorFrom(c))
	respond(h, c, http.StatusCreated, view, err)
}

func (h *FarmHandler) GetSensor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.service.GetSensor(c.Request.Context(), id)
	respond(h, c, http.StatusOK, view, err)
}

// UpdateSensorLabel endpoint PATCH /sensors/:id/label. Un label null la elimina.
func (h *FarmHandler) UpdateSensorLabel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req labelRequest
	if !bind(c, &req) {
		return
	}
	view, err := h.service.UpdateSensorLabel(c.Request.Context(),
		application.UpdateSensorLabelCommand{SensorID: id, Label: req.Label}, actorFrom(c))
	respond(h, c, http.StatusOK, view, err)
}

func (h *FarmHandler) ChangeSensorStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req statusRequest
	if !bind(c, &req) {
		return
	}
	view, err := h.service.ChangeSensorStatus(c.Request.Context(),
		application.ChangeSensorStatusCommand{SensorID: id, Status: req.Status}, actorFrom(c))
	respond(h, c, http.StatusOK, view, err)
}

func (h *FarmHandler) ActivateSensor(c *gin.Context) {
	h.sensorLifecycle(c, h.service.ActivateSensor)
}

func (h *FarmHandler) DeactivateSensor(c *gin.Context) {
	h.sensorLifecycle(c, h.service.DeactivateSensor)
}

func (h *FarmHandler) sensorLifecycle(c *gin.Context, run func(context.Context, application.SensorLifecycleCommand, shared.Actor) (application.SensorView, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := run(c.Request.Context(), application.SensorLifecycleCommand{SensorID: id}, actorFrom(c))
	respond(h, c, http.StatusOK, view, err)
}

// GetSensorList endpoint GET /sensors
func (h *FarmHandler) GetSensorList(c *gin.Context) {
	var req listRequest
	q := application.GetSensorListQuery{}
	if !bindList(c, &req, map[string]**uuid.UUID{"plotId": &q.PlotID, "propertyId": &q.PropertyID}) {
		return
	}
	q.PageRequest, q.Filter, q.Type, q.Status = req.page(), req.Filter, req.Type, req.Status
	page, err := h.service.GetSensorList(c.Request.Context(), q, actorFrom(c))
	respond(h, c, http.StatusOK, page, err)
}

// ListSensorsFromPlot endpoint GET /plots/:id/sensors
func (h *FarmHandler) ListSensorsFromPlot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req listRequest
	if !bindList(c, &req, nil) {
		return
	}
	page, err := h.service.ListSensorsFromPlot(c.Request.Context(), application.ListSensorsFromPlotQuery{
		PlotID:      id,
		PageRequest: req.page(),
		Filter:      req.Filter,
		Type:        req.Type,
		Status:      req.Status,
	}, actorFrom(c))
	respond(h, c, http.StatusOK, page, err)
}

// ---------------- Health ----------------

// Health endpoint GET /health. Incluye el estado del outbox si hay repositorio.
func (h *FarmHandler) Health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.outbox != nil {
		counts, err := h.outbox.CountByStatus(c.Request.Context())
		if err != nil {
			h.log.Warn("⚠️ Outbox stats unavailable", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		body["outbox"] = counts
	}
	c.JSON(http.StatusOK, body)
}
