package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/davicafu/agrofarm/internal/farm/domain"
)

// PropertyView es la proyección que devuelven comandos y consultas.
type PropertyView struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"ownerId"`
	Name         string     `json:"name"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	Country      string     `json:"country"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	AreaHectares float64    `json:"areaHectares"`
	IsActive     bool       `json:"isActive"`
	Version      int        `json:"version"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

func newPropertyView(p *domain.Property) PropertyView {
	return PropertyView{
		ID:           p.ID(),
		OwnerID:      p.OwnerID(),
		Name:         p.Name().String(),
		Address:      p.Location().Address(),
		City:         p.Location().City(),
		State:        p.Location().State(),
		Country:      p.Location().Country(),
		Latitude:     p.Location().Latitude(),
		Longitude:    p.Location().Longitude(),
		AreaHectares: p.Area().Hectares(),
		IsActive:     p.IsActive(),
		Version:      p.Version(),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}
}

type PlotView struct {
	ID           uuid.UUID  `json:"id"`
	PropertyID   uuid.UUID  `json:"propertyId"`
	Name         string     `json:"name"`
	CropType     string     `json:"cropType"`
	AreaHectares float64    `json:"areaHectares"`
	IsActive     bool       `json:"isActive"`
	Version      int        `json:"version"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

func newPlotView(p *domain.Plot) PlotView {
	return PlotView{
		ID:           p.ID(),
		PropertyID:   p.PropertyID(),
		Name:         p.Name().String(),
		CropType:     p.CropType().String(),
		AreaHectares: p.Area().Hectares(),
		IsActive:     p.IsActive(),
		Version:      p.Version(),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}
}

type SensorView struct {
	ID          uuid.UUID  `json:"id"`
	PlotID      uuid.UUID  `json:"plotId"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Label       string     `json:"label,omitempty"`
	InstalledAt time.Time  `json:"installedAt"`
	IsActive    bool       `json:"isActive"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func newSensorView(s *domain.Sensor) SensorView {
	return SensorView{
		ID:          s.ID(),
		PlotID:      s.PlotID(),
		Type:        string(s.Type()),
		Status:      string(s.Status()),
		Label:       s.Label(),
		InstalledAt: s.InstalledAt(),
		IsActive:    s.IsActive(),
		Version:     s.Version(),
		CreatedAt:   s.CreatedAt(),
		UpdatedAt:   s.UpdatedAt(),
	}
}
