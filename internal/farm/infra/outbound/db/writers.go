package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/davicafu/agrofarm/internal/farm/domain"
	shared "github.com/davicafu/agrofarm/internal/shared/domain"
	"github.com/davicafu/agrofarm/internal/shared/infra/platform/db/sqlstore"
)

// Writers registra un RowWriter por tipo de agregado.
func Writers() map[string]sqlstore.RowWriter {
	return map[string]sqlstore.RowWriter{
		domain.PropertyKind: propertyWriter{},
		domain.PlotKind:     plotWriter{},
		domain.SensorKind:   sensorWriter{},
	}
}

// La versión persistida es la que tendrá el agregado tras MarkCommitted.

// ---------------- Property ----------------

type propertyWriter struct{}

func (propertyWriter) Conflict() shared.Violation { return domain.ErrPropertyConcurrentUpdate }

func asProperty(agg shared.Aggregate) (*domain.Property, error) {
	p, ok := agg.(*domain.Property)
	if !ok {
		return nil, fmt.Errorf("expected *domain.Property, got %T", agg)
	}
	return p, nil
}

func (propertyWriter) Insert(ctx context.Context, tx sqlstore.Execer, d sqlstore.Dialect, agg shared.Aggregate) error {
	p, err := asProperty(agg)
	if err != nil {
		return err
	}
	s := p.Snapshot()
	_, err = tx.ExecContext(ctx, d.Rebind(
		`INSERT INTO properties (id, owner_id, name, name_key, search_key, address, city, state, country, latitude, longitude, area_hectares, is_active, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		s.ID.String(), s.OwnerID.String(), s.Name, domain.NameKey(s.Name), propertySearchKey(s), s.Address, s.City, s.State, s.Country,
		nullFloat(s.Latitude), nullFloat(s.Longitude), s.AreaHectares,
		s.IsActive, s.Version+1, s.CreatedAt, nullTime(s.UpdatedAt),
	)
	return err
}

func (propertyWriter) Update(ctx context.Context, tx sqlstore.Execer, d sqlstore.Dialect, agg shared.Aggregate) (sql.Result, error) {
	p, err := asProperty(agg)
	if err != nil {
		return nil, err
	}
	s := p.Snapshot()
	return tx.ExecContext(ctx, d.Rebind(
		`UPDATE properties
		 SET name = ?, name_key = ?, search_key = ?, address = ?, city = ?, state = ?, country = ?, latitude = ?, longitude = ?,
		     area_hectares = ?, is_active = ?, version = ?, updated_at = ?
		 WHERE id = ? AND version = ?`),
		s.Name, domain.NameKey(s.Name), propertySearchKey(s), s.Address, s.City, s.State, s.Country, nullFloat(s.Latitude), nullFloat(s.Longitude),
		s.AreaHectares, s.IsActive, s.Version+1, nullTime(s.UpdatedAt),
		s.ID.String(), s.Version,
	)
}

// ---------------- Plot ----------------

type plotWriter struct{}

func (plotWriter) Conflict() shared.Violation { return domain.ErrPlotConcurrentUpdate }

func asPlot(agg shared.Aggregate) (*domain.Plot, error) {
	p, ok := agg.(*domain.Plot)
	if !ok {
		return nil, fmt.Errorf("expected *domain.Plot, got %T", agg)
	}
	return p, nil
}

func (plotWriter) Insert(ctx context.Context, tx sqlstore.Execer, d sqlstore.Dialect, agg shared.Aggregate) error {
	p, err := asPlot(agg)
	if err != nil {
		return err
	}
	s := p.Snapshot()
	_, err = tx.ExecContext(ctx, d.Rebind(
		`INSERT INTO plots (id, property_id, name, name_key, search_key, crop_type, crop_type_key, area_hectares, is_active, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		s.ID.String(), s.PropertyID.String(), s.Name, domain.NameKey(s.Name), plotSearchKey(s), s.CropType, domain.NameKey(s.CropType), s.AreaHectares,
		s.IsActive, s.Version+1, s.CreatedAt, nullTime(s.UpdatedAt),
	)
	return err
}

func (plotWriter) Update(ctx context.Context, tx sqlstore.Execer, d sqlstore.Dialect, agg shared.Aggregate) (sql.Result, error) {
	p, err := asPlot(agg)
	if err != nil {
		return nil, err
	}
	s := p.Snapshot()
	return tx.ExecContext(ctx, d.Rebind(
		`UPDATE plots
		 SET name = ?, name_key = ?, search_key = ?, crop_type = ?, crop_type_key = ?, area_hectares = ?, is_active = ?, version = ?, updated_at = ?
		 WHERE id = ? AND version = ?`),
		s.Name, domain.NameKey(s.Name), plotSearchKey(s), s.CropType, domain.NameKey(s.CropType), s.AreaHectares, s.IsActive, s.Version+1, nullTime(s.UpdatedAt),
		s.ID.String(), s.Version,
	)
}

// ---------------- Sensor ----------------

type sensorWriter struct{}

func (sensorWriter) Conflict() shared.Violation { return domain.ErrSensorConcurrentUpdate }

func asSensor(agg shared.Aggregate) (*domain.Sensor, error) {
	s, ok := agg.(*domain.Sensor)
	if !ok {
		return nil, fmt.Errorf("expected *domain.Sensor, got %T", agg)
	}
	return s, nil
}

func (sensorWriter) Insert(ctx context.Context, tx sqlstore.Execer, d sqlstore.Dialect, agg shared.Aggregate) error {
	sensor, err := asSensor(agg)
	if err != nil {
		return err
	}
	s := sensor.Snapshot()
	_, err = tx.ExecContext(ctx, d.Rebind(
		`INSERT INTO sensors (id, plot_id, type, status, label, label_key, installed_at, is_active, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		s.ID.String(), s.PlotID.String(), string(s.Type), string(s.Status), nullString(s.Label), labelKey(s.Label), s.InstalledAt,
		s.IsActive, s.Version+1, s.CreatedAt, nullTime(s.UpdatedAt),
	)
	return err
}

func (sensorWriter) Update(ctx context.Context, tx sqlstore.Execer, d sqlstore.Dialect, agg shared.Aggregate) (sql.Result, error) {
	sensor, err := asSensor(agg)
	if err != nil {
		return nil, err
	}
	s := sensor.Snapshot()
	return tx.ExecContext(ctx, d.Rebind(
		`UPDATE sensors
		 SET status = ?, label = ?, label_key = ?, is_active = ?, version = ?, updated_at = ?
		 WHERE id = ? AND version = ?`),
		string(s.Status), nullString(s.Label), labelKey(s.Label), s.IsActive, s.Version+1, nullTime(s.UpdatedAt),
		s.ID.String(), s.Version,
	)
}

func labelKey(label *string) sql.NullString {
	if label == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: domain.NameKey(*label), Valid: true}
}

// searchKey une los campos filtrables por texto en una sola columna plegada.
func searchKey(fields ...string) string {
	return domain.NameKey(strings.Join(fields, "\n"))
}

func propertySearchKey(s domain.PropertySnapshot) string {
	return searchKey(s.Name, s.City, s.State, s.Country)
}

func plotSearchKey(s domain.PlotSnapshot) string {
	return searchKey(s.Name, s.CropType)
}
