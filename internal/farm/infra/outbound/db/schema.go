package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/davicafu/agrofarm/internal/shared/infra/platform/db/sqlstore"
)

// InitSchema crea las tablas de la finca y la outbox si no existen.
// Los índices únicos parciales respaldan en base de datos las reglas de nombre
// y etiqueta que Validate comprueba antes. Van sobre name_key/label_key, que se
// normalizan en Go para que la comparación no dependa del LOWER() del motor.
// search_key y crop_type_key sirven a los filtros de los listados.
func InitSchema(ctx context.Context, db *sql.DB, d sqlstore.Dialect) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS properties (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			name_key TEXT NOT NULL,
			search_key TEXT NOT NULL,
			address TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			country TEXT NOT NULL,
			latitude %[1]s NULL,
			longitude %[1]s NULL,
			area_hectares %[1]s NOT NULL,
			is_active %[2]s NOT NULL,
			version INTEGER NOT NULL,
			created_at %[3]s NOT NULL,
			updated_at %[3]s NULL
		)`, d.FloatType, d.BoolType, d.TimestampType),
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_properties_owner_name
			ON properties (owner_id, name_key) WHERE is_active = TRUE`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS plots (
			id TEXT PRIMARY KEY,
			property_id TEXT NOT NULL REFERENCES properties(id),
			name TEXT NOT NULL,
			name_key TEXT NOT NULL,
			search_key TEXT NOT NULL,
			crop_type TEXT NOT NULL,
			crop_type_key TEXT NOT NULL,
			area_hectares %[1]s NOT NULL,
			is_active %[2]s NOT NULL,
			version INTEGER NOT NULL,
			created_at %[3]s NOT NULL,
			updated_at %[3]s NULL
		)`, d.FloatType, d.BoolType, d.TimestampType),
		`CREATE INDEX IF NOT EXISTS idx_plots_property ON plots (property_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_plots_property_name
			ON plots (property_id, name_key) WHERE is_active = TRUE`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS sensors (
			id TEXT PRIMARY KEY,
			plot_id TEXT NOT NULL REFERENCES plots(id),
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			label TEXT NULL,
			label_key TEXT NULL,
			installed_at %[2]s NOT NULL,
			is_active %[1]s NOT NULL,
			version INTEGER NOT NULL,
			created_at %[2]s NOT NULL,
			updated_at %[2]s NULL
		)`, d.BoolType, d.TimestampType),
		`CREATE INDEX IF NOT EXISTS idx_sensors_plot ON sensors (plot_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_sensors_plot_label
			ON sensors (plot_id, label_key) WHERE is_active = TRUE AND label_key IS NOT NULL`,
	}
	if err := sqlstore.Exec(ctx, db, stmts...); err != nil {
		return err
	}
	return sqlstore.InitOutbox(ctx, db, d)
}
