package application

import (
	"github.com/davicafu/agrofarm/internal/farm/domain"
	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

// translateFarmEvent es la tabla de traducción dominio -> integración.
// Los eventos sin entrada (SensorLabelUpdated) son internos y se descartan.
func translateFarmEvent(evt shared.DomainEvent) (string, any, bool) {
	switch e := evt.(type) {
	case domain.PropertyEvent:
		return translatePropertyEvent(e)
	case domain.PlotEvent:
		return translatePlotEvent(e)
	case domain.SensorEvent:
		return translateSensorEvent(e)
	default:
		return "", nil, false
	}
}

func translatePropertyEvent(evt domain.PropertyEvent) (string, any, bool) {
	switch e := evt.(type) {
	case domain.PropertyCreated:
		return domain.PropertyCreatedEvent, domain.PropertyPayload{
			PropertyID:   e.ID,
			OwnerID:      e.OwnerID,
			Name:         e.Name,
			Address:      e.Address,
			City:         e.City,
			State:        e.State,
			Country:      e.Country,
			Latitude:     e.Latitude,
			Longitude:    e.Longitude,
			AreaHectares: e.AreaHectares,
		}, true
	case domain.PropertyUpdated:
		return domain.PropertyUpdatedEvent, domain.PropertyPayload{
			PropertyID:   e.ID,
			Name:         e.Name,
			Address:      e.Address,
			City:         e.City,
			State:        e.State,
			Country:      e.Country,
			Latitude:     e.Latitude,
			Longitude:    e.Longitude,
			AreaHectares: e.AreaHectares,
		}, true
	case domain.PropertyDeactivated:
		return domain.PropertyDeactivatedEvent, domain.LifecyclePayload{ID: e.ID, IsActive: false}, true
	case domain.PropertyActivated:
		return domain.PropertyActivatedEvent, domain.LifecyclePayload{ID: e.ID, IsActive: true}, true
	default:
		return "", nil, false
	}
}

func translatePlotEvent(evt domain.PlotEvent) (string, any, bool) {
	switch e := evt.(type) {
	case domain.PlotCreated:
		return domain.PlotCreatedEvent, domain.PlotPayload{
			PlotID:       e.ID,
			PropertyID:   e.PropertyID,
			Name:         e.Name,
			CropType:     e.CropType,
			AreaHectares: e.AreaHectares,
		}, true
	case domain.PlotUpdated:
		return domain.PlotUpdatedEvent, domain.PlotPayload{
			PlotID:       e.ID,
			Name:         e.Name,
			CropType:     e.CropType,
			AreaHectares: e.AreaHectares,
		}, true
	case domain.PlotCropTypeChanged:
		return domain.PlotCropTypeChangedEvent, domain.PlotCropTypePayload{
			PlotID:           e.ID,
			PreviousCropType: e.PreviousCropType,
			CropType:         e.CropType,
		}, true
	case domain.PlotDeactivated:
		return domain.PlotDeactivatedEvent, domain.LifecyclePayload{ID: e.ID, IsActive: false}, true
	case domain.PlotActivated:
		return domain.PlotActivatedEvent, domain.LifecyclePayload{ID: e.ID, IsActive: true}, true
	default:
		return "", nil, false
	}
}

func translateSensorEvent(evt domain.SensorEvent) (string, any, bool) {
	switch e := evt.(type) {
	case domain.SensorRegistered:
		return domain.SensorRegisteredEvent, domain.SensorRegisteredPayload{
			SensorID:    e.ID,
			PlotID:      e.PlotID,
			Type:        e.Type,
			Status:      e.Status,
			Label:       e.Label,
			InstalledAt: e.At,
		}, true
	case domain.SensorLabelUpdated:
		return "", nil, false
	case domain.SensorStatusChanged:
		return domain.SensorStatusChangedEvent, domain.SensorStatusPayload{
			SensorID:       e.ID,
			PreviousStatus: e.PreviousStatus,
			Status:         e.Status,
		}, true
	case domain.SensorDeactivated:
		return domain.SensorDeactivatedEvent, domain.LifecyclePayload{ID: e.ID, IsActive: false}, true
	case domain.SensorActivated:
		return domain.SensorActivatedEvent, domain.LifecyclePayload{ID: e.ID, IsActive: true}, true
	default:
		return "", nil, false
	}
}
