package domain

import (
	"time"

	"github.com/google/uuid"
)

// ---------------- Filtros de listado ----------------

// PropertyFilter filtra el listado de propiedades. Text busca en nombre,
// ciudad, estado y país.
type PropertyFilter struct {
	OwnerID *uuid.UUID
	Text    string
}

// PlotFilter lista solo parcelas activas. OwnerID restringe a las parcelas de
// propiedades de ese dueño.
type PlotFilter struct {
	PropertyID *uuid.UUID
	OwnerID    *uuid.UUID
	CropType   string
	Text       string
}

// SensorFilter lista solo sensores activos. Text busca en la etiqueta.
type SensorFilter struct {
	PlotID     *uuid.UUID
	PropertyID *uuid.UUID
	OwnerID    *uuid.UUID
	Type       string
	Status     string
	Text       string
}

// ---------------- Filas de listado ----------------

type PropertySummary struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"ownerId"`
	Name         string    `json:"name"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	AreaHectares float64   `json:"areaHectares"`
	IsActive     bool      `json:"isActive"`
	PlotCount    int       `json:"plotCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type PlotSummary struct {
	ID           uuid.UUID `json:"id"`
	PropertyID   uuid.UUID `json:"propertyId"`
	PropertyName string    `json:"propertyName"`
	Name         string    `json:"name"`
	CropType     string    `json:"cropType"`
	AreaHectares float64   `json:"areaHectares"`
	IsActive     bool      `json:"isActive"`
	SensorCount  int       `json:"sensorCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SensorSummary struct {
	ID           uuid.UUID `json:"id"`
	PlotID       uuid.UUID `json:"plotId"`
	PlotName     string    `json:"plotName"`
	PropertyID   uuid.UUID `json:"propertyId"`
	PropertyName string    `json:"propertyName"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	Label        *string   `json:"label,omitempty"`
	InstalledAt  time.Time `json:"installedAt"`
}
