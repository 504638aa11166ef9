package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/davicafu/agrofarm/internal/farm/domain"
	shared "github.com/davicafu/agrofarm/internal/shared/domain"
	"github.com/davicafu/agrofarm/internal/shared/infra/platform/db/sqlstore"
)

// FarmRepository es el lado de lectura de propiedades, parcelas y sensores.
// Las escrituras pasan siempre por la unidad de trabajo de sqlstore.
type FarmRepository struct {
	db      *sql.DB
	dialect sqlstore.Dialect
}

func NewFarmRepository(db *sql.DB, dialect sqlstore.Dialect) *FarmRepository {
	return &FarmRepository{db: db, dialect: dialect}
}

var _ domain.Reader = (*FarmRepository)(nil)

var tables = map[string]string{
	domain.PropertyKind: "properties",
	domain.PlotKind:     "plots",
	domain.SensorKind:   "sensors",
}

func (r *FarmRepository) FindProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		`SELECT id, owner_id, name, address, city, state, country, latitude, longitude, area_hectares,
		        is_active, version, created_at, updated_at
		 FROM properties WHERE id = ?`), id.String())

	var s domain.PropertySnapshot
	var lat, lon sql.NullFloat64
	var updatedAt sql.NullTime
	err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Address, &s.City, &s.State, &s.Country, &lat, &lon, &s.AreaHectares,
		&s.IsActive, &s.Version, &s.CreatedAt, &updatedAt)
	if err != nil {
		return nil, notFound(err, "property", id)
	}
	s.Latitude = floatPtr(lat)
	s.Longitude = floatPtr(lon)
	s.UpdatedAt = timePtr(updatedAt)
	return domain.RestoreProperty(s), nil
}

func (r *FarmRepository) FindPlot(ctx context.Context, id uuid.UUID) (*domain.Plot, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		`SELECT id, property_id, name, crop_type, area_hectares, is_active, version, created_at, updated_at
		 FROM plots WHERE id = ?`), id.String())

	var s domain.PlotSnapshot
	var updatedAt sql.NullTime
	err := row.Scan(&s.ID, &s.PropertyID, &s.Name, &s.CropType, &s.AreaHectares, &s.IsActive, &s.Version, &s.CreatedAt, &updatedAt)
	if err != nil {
		return nil, notFound(err, "plot", id)
	}
	s.UpdatedAt = timePtr(updatedAt)
	return domain.RestorePlot(s), nil
}

func (r *FarmRepository) FindSensor(ctx context.Context, id uuid.UUID) (*domain.Sensor, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		`SELECT id, plot_id, type, status, label, installed_at, is_active, version, created_at, updated_at
		 FROM sensors WHERE id = ?`), id.String())

	var s domain.SensorSnapshot
	var sensorType, status string
	var label sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(&s.ID, &s.PlotID, &sensorType, &status, &label, &s.InstalledAt, &s.IsActive, &s.Version, &s.CreatedAt, &updatedAt)
	if err != nil {
		return nil, notFound(err, "sensor", id)
	}
	s.Type = domain.SensorType(sensorType)
	s.Status = domain.SensorStatus(status)
	if label.Valid {
		v := label.String
		s.Label = &v
	}
	s.UpdatedAt = timePtr(updatedAt)
	return domain.RestoreSensor(s), nil
}

// ExistsWhere responde a las comprobaciones de unicidad de Validate.
func (r *FarmRepository) ExistsWhere(ctx context.Context, kind string, criteria shared.Criteria) (bool, error) {
	table, ok := tables[kind]
	if !ok {
		return false, fmt.Errorf("unknown aggregate kind %q", kind)
	}
	where, args, err := sqlstore.BuildWhere(criteria)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s %s)`, table, where)
	var exists bool
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists %s: %w", table, err)
	}
	return exists, nil
}

// ------------------ Helpers ------------------

func notFound(err error, what string, id uuid.UUID) error {
	if errors.Is(err, sql.ErrNoRows) {
		return shared.ErrRecordNotFound
	}
	return fmt.Errorf("find %s %s: %w", what, id, err)
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
