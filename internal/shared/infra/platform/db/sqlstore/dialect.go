package sqlstore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect recoge lo poco que cambia entre SQLite y Postgres: placeholders,
// tipos de columna y cómo se reconoce una violación de unicidad.
type Dialect struct {
	Name          string
	Driver        string
	BoolType      string
	TimestampType string
	FloatType     string
	JSONType      string

	numbered bool
}

var (
	SQLite = Dialect{
		Name:          "sqlite",
		Driver:        "sqlite",
		BoolType:      "BOOLEAN",
		TimestampType: "DATETIME",
		FloatType:     "REAL",
		JSONType:      "TEXT",
	}
	Postgres = Dialect{
		Name:          "postgres",
		Driver:        "pgx",
		BoolType:      "BOOLEAN",
		TimestampType: "TIMESTAMPTZ",
		FloatType:     "DOUBLE PRECISION",
		JSONType:      "JSONB",
		numbered:      true,
	}
)

// DialectFor resuelve el valor de STORE_DRIVER.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported store driver %q", name)
	}
}

// Rebind convierte los '?' en $1, $2... cuando el motor lo necesita.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsUniqueViolation detecta choques con índices UNIQUE o PRIMARY KEY.
func (d Dialect) IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
