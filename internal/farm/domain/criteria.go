package domain

import (
	"github.com/google/uuid"

	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

// ---------------- Criterios de la finca ----------------

// NameCriteria compara nombres sin distinguir mayúsculas contra name_key.
type NameCriteria struct {
	Name string
}

func (c NameCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{{Field: "name_key", Op: shared.OpEq, Value: NameKey(c.Name)}}
}

type LabelCriteria struct {
	Label string
}

func (c LabelCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{{Field: "label_key", Op: shared.OpEq, Value: NameKey(c.Label)}}
}

type OwnerCriteria struct {
	OwnerID uuid.UUID
}

func (c OwnerCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{{Field: "owner_id", Op: shared.OpEq, Value: c.OwnerID.String()}}
}

type PropertyCriteria struct {
	PropertyID uuid.UUID
}

func (c PropertyCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{{Field: "property_id", Op: shared.OpEq, Value: c.PropertyID.String()}}
}

type PlotCriteria struct {
	PlotID uuid.UUID
}

func (c PlotCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{{Field: "plot_id", Op: shared.OpEq, Value: c.PlotID.String()}}
}

// ExcludeIDCriteria deja fuera al propio agregado en comprobaciones de unicidad.
type ExcludeIDCriteria struct {
	ID uuid.UUID
}

func (c ExcludeIDCriteria) ToConditions() []shared.Criterion {
	if c.ID == uuid.Nil {
		return nil
	}
	return []shared.Criterion{{Field: "id", Op: shared.OpNeq, Value: c.ID.String()}}
}

type ActiveCriteria struct{}

func (ActiveCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{{Field: "is_active", Op: shared.OpEq, Value: true}}
}

// ---------------- Combinaciones de unicidad ----------------

func PropertyNameTaken(ownerID uuid.UUID, name string, exclude uuid.UUID) shared.Criteria {
	return shared.And(OwnerCriteria{OwnerID: ownerID}, NameCriteria{Name: name}, ExcludeIDCriteria{ID: exclude}, ActiveCriteria{})
}

func PlotNameTaken(propertyID uuid.UUID, name string, exclude uuid.UUID) shared.Criteria {
	return shared.And(PropertyCriteria{PropertyID: propertyID}, NameCriteria{Name: name}, ExcludeIDCriteria{ID: exclude}, ActiveCriteria{})
}

func SensorLabelTaken(plotID uuid.UUID, label string, exclude uuid.UUID) shared.Criteria {
	return shared.And(PlotCriteria{PlotID: plotID}, LabelCriteria{Label: label}, ExcludeIDCriteria{ID: exclude}, ActiveCriteria{})
}
