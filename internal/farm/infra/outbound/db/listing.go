package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/davicafu/agrofarm/internal/farm/domain"
	shared "github.com/davicafu/agrofarm/internal/shared/domain"
	"github.com/davicafu/agrofarm/internal/shared/infra/platform/db/sqlstore"
	"github.com/davicafu/agrofarm/internal/shared/platform/query"
)

// ---------------- Criterios de listado ----------------

// cond es un criterio de una sola condición con la columna ya cualificada.
type cond shared.Criterion

func (c cond) ToConditions() []shared.Criterion { return []shared.Criterion{shared.Criterion(c)} }

func eqID(field string, id *uuid.UUID) shared.Criteria {
	if id == nil {
		return nil
	}
	return cond{Field: field, Op: shared.OpEq, Value: id.String()}
}

func eqText(field, value string) shared.Criteria {
	if value == "" {
		return nil
	}
	return cond{Field: field, Op: shared.OpEq, Value: value}
}

func contains(field, text string) shared.Criteria {
	if text == "" {
		return nil
	}
	return cond{Field: field, Op: shared.OpContains, Value: text}
}

func active(alias string) shared.Criteria {
	return cond{Field: alias + ".is_active", Op: shared.OpEq, Value: true}
}

// canonicalSensorType devuelve el valor del catálogo o el texto tal cual, que
// no coincidirá con ninguna fila.
func canonicalSensorType(raw string) string {
	if raw == "" {
		return ""
	}
	if t, err := domain.ParseSensorType(raw); err == nil {
		return string(t)
	}
	return raw
}

func canonicalSensorStatus(raw string) string {
	if raw == "" {
		return ""
	}
	if s, err := domain.ParseSensorStatus(raw); err == nil {
		return string(s)
	}
	return raw
}

// ---------------- Ordenación ----------------

var (
	propertySortColumns = map[string]string{
		"name":         "p.name_key",
		"city":         "p.city",
		"state":        "p.state",
		"areahectares": "p.area_hectares",
		"createdat":    "p.created_at",
	}
	plotSortColumns = map[string]string{
		"name":         "pl.name_key",
		"croptype":     "pl.crop_type_key",
		"areahectares": "pl.area_hectares",
		"createdat":    "pl.created_at",
	}
	sensorSortColumns = map[string]string{
		"type":        "s.type",
		"status":      "s.status",
		"label":       "COALESCE(s.label_key, '')",
		"installedat": "s.installed_at",
	}
)

func orderBy(sort query.Sort, tieBreaker string) string {
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, %s", sort.Field, dir, tieBreaker)
}

// ---------------- Listados ----------------

func (r *FarmRepository) ListProperties(ctx context.Context, filter domain.PropertyFilter, page query.PageRequest) ([]domain.PropertySummary, int, error) {
	where, args, err := sqlstore.BuildWhere(shared.And(
		eqID("p.owner_id", filter.OwnerID),
		contains("p.search_key", domain.NameKey(filter.Text)),
	))
	if err != nil {
		return nil, 0, err
	}
	sort := page.ResolveSort(propertySortColumns, query.Sort{Field: "p.created_at", Desc: true})

	total, err := r.count(ctx, `FROM properties p `+where, args)
	if err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}

	rows, err := r.page(ctx, fmt.Sprintf(
		`SELECT p.id, p.owner_id, p.name, p.city, p.state, p.country, p.area_hectares, p.is_active, p.created_at,
		        (SELECT COUNT(*) FROM plots pl WHERE pl.property_id = p.id AND pl.is_active = ?) AS plot_count
		 FROM properties p %s %s`, where, orderBy(sort, "p.id")), append([]any{true}, args...), page)
	if err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var out []domain.PropertySummary
	for rows.Next() {
		var s domain.PropertySummary
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Name, &s.City, &s.State, &s.Country, &s.AreaHectares,
			&s.IsActive, &s.CreatedAt, &s.PlotCount); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *FarmRepository) ListPlots(ctx context.Context, filter domain.PlotFilter, page query.PageRequest) ([]domain.PlotSummary, int, error) {
	where, args, err := sqlstore.BuildWhere(shared.And(
		active("pl"),
		eqID("pl.property_id", filter.PropertyID),
		eqID("pr.owner_id", filter.OwnerID),
		eqText("pl.crop_type_key", domain.NameKey(filter.CropType)),
		contains("pl.search_key", domain.NameKey(filter.Text)),
	))
	if err != nil {
		return nil, 0, err
	}
	sort := page.ResolveSort(plotSortColumns, query.Sort{Field: "pl.name_key"})
	from := `FROM plots pl JOIN properties pr ON pr.id = pl.property_id ` + where

	total, err := r.count(ctx, from, args)
	if err != nil {
		return nil, 0, fmt.Errorf("count plots: %w", err)
	}

	rows, err := r.page(ctx, fmt.Sprintf(
		`SELECT pl.id, pl.property_id, pr.name, pl.name, pl.crop_type, pl.area_hectares, pl.is_active, pl.created_at,
		        (SELECT COUNT(*) FROM sensors s WHERE s.plot_id = pl.id AND s.is_active = ?) AS sensor_count
		 %s %s`, from, orderBy(sort, "pl.id")), append([]any{true}, args...), page)
	if err != nil {
		return nil, 0, fmt.Errorf("list plots: %w", err)
	}
	defer rows.Close()

	var out []domain.PlotSummary
	for rows.Next() {
		var s domain.PlotSummary
		if err := rows.Scan(&s.ID, &s.PropertyID, &s.PropertyName, &s.Name, &s.CropType, &s.AreaHectares,
			&s.IsActive, &s.CreatedAt, &s.SensorCount); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *FarmRepository) ListSensors(ctx context.Context, filter domain.SensorFilter, page query.PageRequest) ([]domain.SensorSummary, int, error) {
	where, args, err := sqlstore.BuildWhere(shared.And(
		active("s"),
		eqID("s.plot_id", filter.PlotID),
		eqID("pl.property_id", filter.PropertyID),
		eqID("pr.owner_id", filter.OwnerID),
		eqText("s.type", canonicalSensorType(filter.Type)),
		eqText("s.status", canonicalSensorStatus(filter.Status)),
		contains("s.label_key", domain.NameKey(filter.Text)),
	))
	if err != nil {
		return nil, 0, err
	}
	sort := page.ResolveSort(sensorSortColumns, query.Sort{Field: "s.installed_at", Desc: true})
	from := `FROM sensors s
		 JOIN plots pl ON pl.id = s.plot_id
		 JOIN properties pr ON pr.id = pl.property_id ` + where

	total, err := r.count(ctx, from, args)
	if err != nil {
		return nil, 0, fmt.Errorf("count sensors: %w", err)
	}

	rows, err := r.page(ctx, fmt.Sprintf(
		`SELECT s.id, s.plot_id, pl.name, pl.property_id, pr.name, s.type, s.status, s.label, s.installed_at
		 %s %s`, from, orderBy(sort, "s.id")), args, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list sensors: %w", err)
	}
	defer rows.Close()

	var out []domain.SensorSummary
	for rows.Next() {
		var s domain.SensorSummary
		var label sql.NullString
		if err := rows.Scan(&s.ID, &s.PlotID, &s.PlotName, &s.PropertyID, &s.PropertyName, &s.Type, &s.Status,
			&label, &s.InstalledAt); err != nil {
			return nil, 0, err
		}
		if label.Valid {
			v := label.String
			s.Label = &v
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// ------------------ Helpers ------------------

func (r *FarmRepository) count(ctx context.Context, from string, args []any) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT COUNT(*) `+from), args...).Scan(&total)
	return total, err
}

func (r *FarmRepository) page(ctx context.Context, stmt string, args []any, page query.PageRequest) (*sql.Rows, error) {
	offset := page.Offset()
	return r.db.QueryContext(ctx, r.dialect.Rebind(stmt+` LIMIT ? OFFSET ?`), append(args, offset.Limit, offset.Offset)...)
}
