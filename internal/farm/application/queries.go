package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/agrofarm/internal/farm/domain"
	shared "github.com/davicafu/agrofarm/internal/shared/domain"
	"github.com/davicafu/agrofarm/internal/shared/platform/query"
)

// ---------------- Queries de listado ----------------

// GetPropertyListQuery lista propiedades. Para un no admin OwnerID se ignora
// y se fuerza el del actor.
type GetPropertyListQuery struct {
	query.PageRequest
	Filter  string
	OwnerID *uuid.UUID
}

type GetPlotListQuery struct {
	query.PageRequest
	Filter     string
	PropertyID *uuid.UUID
	CropType   string
}

type ListPlotsFromPropertyQuery struct {
	PropertyID uuid.UUID
	query.PageRequest
	Filter   string
	CropType string
}

type GetSensorListQuery struct {
	query.PageRequest
	Filter     string
	PlotID     *uuid.UUID
	PropertyID *uuid.UUID
	Type       string
	Status     string
}

type ListSensorsFromPlotQuery struct {
	PlotID uuid.UUID
	query.PageRequest
	Filter string
	Type   string
	Status string
}

type (
	PropertyPage = query.Page[domain.PropertySummary]
	PlotPage     = query.Page[domain.PlotSummary]
	SensorPage   = query.Page[domain.SensorSummary]
)

// ownerScope limita los listados a lo que el actor gestiona. Admin ve todo.
func ownerScope(actor shared.Actor, requested *uuid.UUID) *uuid.UUID {
	if actor.Role == shared.RoleAdmin {
		return requested
	}
	id := actor.ID
	return &id
}

func idKey(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// ---------------- Properties ----------------

func (s *FarmService) GetPropertyList(ctx context.Context, q GetPropertyListQuery, actor shared.Actor) (PropertyPage, error) {
	page := q.PageRequest.Normalize("name", "asc")
	filter := domain.PropertyFilter{OwnerID: ownerScope(actor, q.OwnerID), Text: q.Filter}
	key := domain.ListCacheKey(domain.PropertiesCacheTag, page.PageNumber, page.PageSize, page.SortBy, page.SortDirection,
		filter.Text, idKey(filter.OwnerID))

	s.log.Debug("Getting property list", zap.Int("page", page.PageNumber), zap.Int("size", page.PageSize), zap.String("filter", filter.Text))
	return cached(ctx, s, key, func() (PropertyPage, error) {
		items, total, err := s.reader.ListProperties(ctx, filter, page)
		if err != nil {
			return PropertyPage{}, err
		}
		return query.NewPage(items, total, page), nil
	})
}

// ---------------- Plots ----------------

func (s *FarmService) GetPlotList(ctx context.Context, q GetPlotListQuery, actor shared.Actor) (PlotPage, error) {
	return s.listPlots(ctx, q.PageRequest, domain.PlotFilter{
		PropertyID: q.PropertyID,
		OwnerID:    ownerScope(actor, nil),
		CropType:   q.CropType,
		Text:       q.Filter,
	})
}

// ListPlotsFromProperty exige que la propiedad exista y que el actor la gestione.
func (s *FarmService) ListPlotsFromProperty(ctx context.Context, q ListPlotsFromPropertyQuery, actor shared.Actor) (PlotPage, error) {
	property, err := loadProperty(ctx, s.reader, q.PropertyID)
	if err != nil {
		return PlotPage{}, err
	}
	if err := authorize(actor, property); err != nil {
		return PlotPage{}, err
	}
	id := property.ID()
	return s.listPlots(ctx, q.PageRequest, domain.PlotFilter{PropertyID: &id, CropType: q.CropType, Text: q.Filter})
}

func (s *FarmService) listPlots(ctx context.Context, req query.PageRequest, filter domain.PlotFilter) (PlotPage, error) {
	page := req.Normalize("name", "asc")
	key := domain.ListCacheKey(domain.PlotsCacheTag, page.PageNumber, page.PageSize, page.SortBy, page.SortDirection,
		filter.Text, idKey(filter.PropertyID), idKey(filter.OwnerID), filter.CropType)

	s.log.Debug("Getting plot list", zap.Int("page", page.PageNumber), zap.Int("size", page.PageSize), zap.String("property_id", idKey(filter.PropertyID)))
	return cached(ctx, s, key, func() (PlotPage, error) {
		items, total, err := s.reader.ListPlots(ctx, filter, page)
		if err != nil {
			return PlotPage{}, err
		}
		return query.NewPage(items, total, page), nil
	})
}

// ---------------- Sensors ----------------

func (s *FarmService) GetSensorList(ctx context.Context, q GetSensorListQuery, actor shared.Actor) (SensorPage, error) {
	return s.listSensors(ctx, q.PageRequest, domain.SensorFilter{
		PlotID:     q.PlotID,
		PropertyID: q.PropertyID,
		OwnerID:    ownerScope(actor, nil),
		Type:       q.Type,
		Status:     q.Status,
		Text:       q.Filter,
	})
}

func (s *FarmService) ListSensorsFromPlot(ctx context.Context, q ListSensorsFromPlotQuery, actor shared.Actor) (SensorPage, error) {
	plot, err := loadManagedPlot(ctx, s.reader, actor, q.PlotID)
	if err != nil {
		return SensorPage{}, err
	}
	id := plot.ID()
	return s.listSensors(ctx, q.PageRequest, domain.SensorFilter{PlotID: &id, Type: q.Type, Status: q.Status, Text: q.Filter})
}

func (s *FarmService) listSensors(ctx context.Context, req query.PageRequest, filter domain.SensorFilter) (SensorPage, error) {
	page := req.Normalize("installedAt", "desc")
	key := domain.ListCacheKey(domain.SensorsCacheTag, page.PageNumber, page.PageSize, page.SortBy, page.SortDirection,
		filter.Text, idKey(filter.PlotID), idKey(filter.PropertyID), idKey(filter.OwnerID), filter.Type, filter.Status)

	s.log.Debug("Getting sensor list", zap.Int("page", page.PageNumber), zap.Int("size", page.PageSize), zap.String("plot_id", idKey(filter.PlotID)))
	return cached(ctx, s, key, func() (SensorPage, error) {
		items, total, err := s.reader.ListSensors(ctx, filter, page)
		if err != nil {
			return SensorPage{}, err
		}
		return query.NewPage(items, total, page), nil
	})
}
