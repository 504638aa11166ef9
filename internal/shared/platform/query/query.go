package query

import "strings"

// ---------- Tipos de filtrado / paginación / ordenamiento ----------

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// OffsetPagination para paginación clásica
type OffsetPagination struct {
	Limit  int
	Offset int
}

// Sort indica columna y dirección.
type Sort struct {
	Field string // columna ya resuelta, ej. "p.name_key"
	Desc  bool
}

// PageRequest es lo que piden los listados: página 1-based, orden por nombre
// lógico ("name", "createdAt") y dirección "asc"/"desc".
type PageRequest struct {
	PageNumber    int
	PageSize      int
	SortBy        string
	SortDirection string
}

// Normalize aplica los valores por defecto y recorta el tamaño de página.
func (p PageRequest) Normalize(defaultSortBy, defaultDirection string) PageRequest {
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	p.SortBy = strings.TrimSpace(p.SortBy)
	if p.SortBy == "" {
		p.SortBy = defaultSortBy
		if strings.TrimSpace(p.SortDirection) == "" {
			p.SortDirection = defaultDirection
		}
	}
	p.SortDirection = strings.ToLower(strings.TrimSpace(p.SortDirection))
	if p.SortDirection != "desc" {
		p.SortDirection = "asc"
	}
	return p
}

func (p PageRequest) Offset() OffsetPagination {
	return OffsetPagination{Limit: p.PageSize, Offset: (p.PageNumber - 1) * p.PageSize}
}

// ResolveSort traduce SortBy con una lista blanca de columnas. Un campo
// desconocido cae en fallback.
func (p PageRequest) ResolveSort(columns map[string]string, fallback Sort) Sort {
	column, ok := columns[strings.ToLower(p.SortBy)]
	if !ok {
		return fallback
	}
	return Sort{Field: column, Desc: p.SortDirection == "desc"}
}

// Page es la respuesta paginada de los listados.
type Page[T any] struct {
	Items       []T  `json:"items"`
	TotalCount  int  `json:"totalCount"`
	PageNumber  int  `json:"pageNumber"`
	PageSize    int  `json:"pageSize"`
	HasNextPage bool `json:"hasNextPage"`
}

func NewPage[T any](items []T, total int, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		TotalCount:  total,
		PageNumber:  req.PageNumber,
		PageSize:    req.PageSize,
		HasNextPage: req.PageNumber*req.PageSize < total,
	}
}
