package application

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/davicafu/agrofarm/internal/farm/domain"
	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

// Lecturas y comprobaciones compartidas por las etapas Validate.

func loadProperty(ctx context.Context, reader domain.Reader, id uuid.UUID) (*domain.Property, error) {
	p, err := reader.FindProperty(ctx, id)
	if errors.Is(err, shared.ErrRecordNotFound) {
		return nil, shared.NotFound(domain.ErrPropertyNotFound)
	}
	return p, err
}

func loadPlot(ctx context.Context, reader domain.Reader, id uuid.UUID) (*domain.Plot, error) {
	p, err := reader.FindPlot(ctx, id)
	if errors.Is(err, shared.ErrRecordNotFound) {
		return nil, shared.NotFound(domain.ErrPlotNotFound)
	}
	return p, err
}

func loadSensor(ctx context.Context, reader domain.Reader, id uuid.UUID) (*domain.Sensor, error) {
	s, err := reader.FindSensor(ctx, id)
	if errors.Is(err, shared.ErrRecordNotFound) {
		return nil, shared.NotFound(domain.ErrSensorNotFound)
	}
	return s, err
}

// loadActiveProperty trata una propiedad dada de baja como inexistente.
func loadActiveProperty(ctx context.Context, reader domain.Reader, id uuid.UUID) (*domain.Property, error) {
	p, err := loadProperty(ctx, reader, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, shared.NotFound(domain.ErrPropertyNotFound)
	}
	return p, nil
}

func loadActivePlot(ctx context.Context, reader domain.Reader, id uuid.UUID) (*domain.Plot, error) {
	p, err := loadPlot(ctx, reader, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, shared.NotFound(domain.ErrPlotNotFound)
	}
	return p, nil
}

func authorize(actor shared.Actor, property *domain.Property) error {
	if !actor.CanManage(property.OwnerID()) {
		return shared.Forbidden(domain.ErrPropertyNotAuthorized)
	}
	return nil
}

// authorizePlot resuelve la propiedad padre con una lectura explícita.
func authorizePlot(ctx context.Context, reader domain.Reader, actor shared.Actor, plot *domain.Plot) error {
	property, err := loadProperty(ctx, reader, plot.PropertyID())
	if err != nil {
		return err
	}
	return authorize(actor, property)
}

func ensureUnique(ctx context.Context, reader domain.Reader, kind string, criteria shared.Criteria, v shared.Violation) error {
	taken, err := reader.ExistsWhere(ctx, kind, criteria)
	if err != nil {
		return err
	}
	if taken {
		return shared.Validation(v)
	}
	return nil
}
