package domain

import (
	"time"

	"github.com/google/uuid"

	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

// Tipos de evento de integración publicados por la finca.
const (
	PropertyCreatedEvent     = "property.created"
	PropertyUpdatedEvent     = "property.updated"
	PropertyDeactivatedEvent = "property.deactivated"
	PropertyActivatedEvent   = "property.activated"

	PlotCreatedEvent         = "plot.created"
	PlotUpdatedEvent         = "plot.updated"
	PlotCropTypeChangedEvent = "plot.crop-type-changed"
	PlotDeactivatedEvent     = "plot.deactivated"
	PlotActivatedEvent       = "plot.activated"

	SensorRegisteredEvent    = "sensor.registered"
	SensorStatusChangedEvent = "sensor.status-changed"
	SensorDeactivatedEvent   = "sensor.deactivated"
	SensorActivatedEvent     = "sensor.activated"
)

const FarmTopic = "farm-events"

func NewEventRegistry() map[string]shared.EventMetadata {
	registry := make(map[string]shared.EventMetadata)
	for _, t := range []string{
		PropertyCreatedEvent, PropertyUpdatedEvent, PropertyDeactivatedEvent, PropertyActivatedEvent,
		PlotCreatedEvent, PlotUpdatedEvent, PlotCropTypeChangedEvent, PlotDeactivatedEvent, PlotActivatedEvent,
		SensorRegisteredEvent, SensorStatusChangedEvent, SensorDeactivatedEvent, SensorActivatedEvent,
	} {
		registry[t] = shared.EventMetadata{Topic: FarmTopic}
	}
	return registry
}

// ---------------- Payloads ----------------

type PropertyPayload struct {
	PropertyID   uuid.UUID `json:"propertyId"`
	OwnerID      uuid.UUID `json:"ownerId"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	AreaHectares float64   `json:"areaHectares"`
}

type PlotPayload struct {
	PlotID       uuid.UUID `json:"plotId"`
	PropertyID   uuid.UUID `json:"propertyId"`
	Name         string    `json:"name"`
	CropType     string    `json:"cropType"`
	AreaHectares float64   `json:"areaHectares"`
}

type PlotCropTypePayload struct {
	PlotID           uuid.UUID `json:"plotId"`
	PreviousCropType string    `json:"previousCropType"`
	CropType         string    `json:"cropType"`
}

type SensorRegisteredPayload struct {
	SensorID    uuid.UUID    `json:"sensorId"`
	PlotID      uuid.UUID    `json:"plotId"`
	Type        SensorType   `json:"type"`
	Status      SensorStatus `json:"status"`
	Label       *string      `json:"label,omitempty"`
	InstalledAt time.Time    `json:"installedAt"`
}

type SensorStatusPayload struct {
	SensorID       uuid.UUID    `json:"sensorId"`
	PreviousStatus SensorStatus `json:"previousStatus"`
	Status         SensorStatus `json:"status"`
}

// LifecyclePayload sirve para las altas y bajas lógicas.
type LifecyclePayload struct {
	ID       uuid.UUID `json:"id"`
	IsActive bool      `json:"isActive"`
}
