package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	shared "github.com/davicafu/agrofarm/internal/shared/domain"
	"github.com/davicafu/agrofarm/internal/shared/platform/query"
)

// Reader es el lado de lectura que usan las etapas Validate y las consultas.
// FindX devuelve shared.ErrRecordNotFound si no existe la fila.
type Reader interface {
	FindProperty(ctx context.Context, id uuid.UUID) (*Property, error)
	FindPlot(ctx context.Context, id uuid.UUID) (*Plot, error)
	FindSensor(ctx context.Context, id uuid.UUID) (*Sensor, error)
	ExistsWhere(ctx context.Context, kind string, criteria shared.Criteria) (bool, error)

	// Los listados devuelven la página pedida y el total sin paginar.
	ListProperties(ctx context.Context, filter PropertyFilter, page query.PageRequest) ([]PropertySummary, int, error)
	ListPlots(ctx context.Context, filter PlotFilter, page query.PageRequest) ([]PlotSummary, int, error)
	ListSensors(ctx context.Context, filter SensorFilter, page query.PageRequest) ([]SensorSummary, int, error)
}

// ---------------- Cache keys ----------------

const (
	PropertiesCacheTag = "properties"
	PlotsCacheTag      = "plots"
	SensorsCacheTag    = "sensors"
)

func CacheKeyByID(kind string, id uuid.UUID) string {
	switch kind {
	case PropertyKind:
		return fmt.Sprintf("%s:by-id:%s", PropertiesCacheTag, id)
	case PlotKind:
		return fmt.Sprintf("%s:by-id:%s", PlotsCacheTag, id)
	case SensorKind:
		return fmt.Sprintf("%s:by-id:%s", SensorsCacheTag, id)
	default:
		return fmt.Sprintf("%s:by-id:%s", kind, id)
	}
}

// ListCachePrefix agrupa todas las páginas cacheadas de un tag.
func ListCachePrefix(tag string) string {
	return tag + ":list:"
}

// ListCacheKey compone la clave de una página con todos sus parámetros.
func ListCacheKey(tag string, parts ...any) string {
	values := make([]string, len(parts))
	for i, p := range parts {
		values[i] = fmt.Sprint(p)
	}
	return ListCachePrefix(tag) + strings.Join(values, "|")
}

// ListTagsAffectedBy devuelve los listados que cambian al escribir un agregado:
// los listados muestran nombres y recuentos de sus padres e hijos.
func ListTagsAffectedBy(kind string) []string {
	switch kind {
	case PropertyKind:
		return []string{PropertiesCacheTag, PlotsCacheTag, SensorsCacheTag}
	case PlotKind:
		return []string{PropertiesCacheTag, PlotsCacheTag, SensorsCacheTag}
	case SensorKind:
		return []string{PlotsCacheTag, SensorsCacheTag}
	default:
		return nil
	}
}
