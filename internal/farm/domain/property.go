package domain

import (
	"fmt"

	"github.com/google/uuid"

	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

const PropertyKind = "property"

// PropertyInput son los datos crudos de alta o edición de una propiedad.
type PropertyInput struct {
	Name         string
	Address      string
	City         string
	State        string
	Country      string
	AreaHectares float64
	Latitude     *float64
	Longitude    *float64
}

type propertyFields struct {
	name     Name
	location Location
	area     Area
}

func parsePropertyInput(in PropertyInput) (propertyFields, error) {
	var errs shared.Violations

	name, err := NewName(in.Name)
	errs.Merge(err)
	location, err := NewLocation(in.Address, in.City, in.State, in.Country, in.Latitude, in.Longitude)
	errs.Merge(err)
	area, err := NewArea(in.AreaHectares)
	errs.Merge(err)

	if err := errs.Err(); err != nil {
		return propertyFields{}, err
	}
	return propertyFields{name: name, location: location, area: area}, nil
}

// ValidatePropertyInput comprueba las entradas sin construir nada.
func ValidatePropertyInput(in PropertyInput) error {
	_, err := parsePropertyInput(in)
	return err
}

// Property es una finca perteneciente a un productor.
type Property struct {
	shared.Root
	ownerID  uuid.UUID
	name     Name
	location Location
	area     Area
}

func (p *Property) Kind() string       { return PropertyKind }
func (p *Property) OwnerID() uuid.UUID { return p.ownerID }
func (p *Property) Name() Name         { return p.name }
func (p *Property) Location() Location { return p.location }
func (p *Property) Area() Area         { return p.area }

// ---------------- Events ----------------

// PropertyEvent es el conjunto cerrado de eventos de Property.
//
//sumtype:decl
type PropertyEvent interface {
	shared.DomainEvent
	isPropertyEvent()
}

type PropertyCreated struct {
	shared.EventHeader
	OwnerID      uuid.UUID `json:"ownerId"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	AreaHectares float64   `json:"areaHectares"`
}

type PropertyUpdated struct {
	shared.EventHeader
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Country      string   `json:"country"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	AreaHectares float64  `json:"areaHectares"`
}

type PropertyDeactivated struct {
	shared.EventHeader
}

type PropertyActivated struct {
	shared.EventHeader
}

func (PropertyCreated) EventName() string     { return "PropertyCreated" }
func (PropertyUpdated) EventName() string     { return "PropertyUpdated" }
func (PropertyDeactivated) EventName() string { return "PropertyDeactivated" }
func (PropertyActivated) EventName() string   { return "PropertyActivated" }

func (PropertyCreated) isPropertyEvent()     {}
func (PropertyUpdated) isPropertyEvent()     {}
func (PropertyDeactivated) isPropertyEvent() {}
func (PropertyActivated) isPropertyEvent()   {}

// ---------------- Factory & commands ----------------

// CreateProperty valida todo y, solo si no hay errores, emite PropertyCreated.
func CreateProperty(in PropertyInput, ownerID uuid.UUID) (*Property, error) {
	var errs shared.Violations

	fields, err := parsePropertyInput(in)
	errs.Merge(err)
	if ownerID == uuid.Nil {
		errs.Add(ErrPropertyOwnerRequired)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	p := &Property{}
	p.raise(PropertyCreated{
		EventHeader:  shared.NewEventHeader(uuid.New()),
		OwnerID:      ownerID,
		Name:         fields.name.String(),
		Address:      fields.location.Address(),
		City:         fields.location.City(),
		State:        fields.location.State(),
		Country:      fields.location.Country(),
		Latitude:     fields.location.Latitude(),
		Longitude:    fields.location.Longitude(),
		AreaHectares: fields.area.Hectares(),
	})
	return p, nil
}

func (p *Property) Update(in PropertyInput) error {
	fields, err := parsePropertyInput(in)
	if err != nil {
		return err
	}
	if fields.name.String() == p.name.String() &&
		fields.location.Equal(p.location) &&
		fields.area == p.area {
		return shared.Validation(ErrPropertyUnchanged)
	}

	p.raise(PropertyUpdated{
		EventHeader:  shared.NewEventHeader(p.ID()),
		Name:         fields.name.String(),
		Address:      fields.location.Address(),
		City:         fields.location.City(),
		State:        fields.location.State(),
		Country:      fields.location.Country(),
		Latitude:     fields.location.Latitude(),
		Longitude:    fields.location.Longitude(),
		AreaHectares: fields.area.Hectares(),
	})
	return nil
}

func (p *Property) Deactivate() error {
	if !p.IsActive() {
		return shared.Validation(ErrPropertyAlreadyDeactivated)
	}
	p.raise(PropertyDeactivated{EventHeader: shared.NewEventHeader(p.ID())})
	return nil
}

func (p *Property) Activate() error {
	if p.IsActive() {
		return shared.Validation(ErrPropertyAlreadyActivated)
	}
	p.raise(PropertyActivated{EventHeader: shared.NewEventHeader(p.ID())})
	return nil
}

// ---------------- Event application ----------------

func (p *Property) raise(e PropertyEvent) {
	p.Record(e)
	p.apply(e)
}

// apply es el único punto que modifica campos. Sirve igual para eventos nuevos y para replay.
func (p *Property) apply(e PropertyEvent) {
	switch e := e.(type) {
	case PropertyCreated:
		p.Born(e.ID, e.At)
		p.ownerID = e.OwnerID
		p.name = nameFrom(e.Name)
		p.location = locationFrom(e.Address, e.City, e.State, e.Country, e.Latitude, e.Longitude)
		p.area = areaFrom(e.AreaHectares)
	case PropertyUpdated:
		p.name = nameFrom(e.Name)
		p.location = locationFrom(e.Address, e.City, e.State, e.Country, e.Latitude, e.Longitude)
		p.area = areaFrom(e.AreaHectares)
		p.Touch(e.At)
	case PropertyDeactivated:
		p.MarkActive(false)
		p.Touch(e.At)
	case PropertyActivated:
		p.MarkActive(true)
		p.Touch(e.At)
	default:
		panic(fmt.Sprintf("property: unhandled event %T", e))
	}
}

// ReplayProperty reconstruye una propiedad aplicando su historial en orden.
func ReplayProperty(history ...PropertyEvent) *Property {
	p := &Property{}
	for _, e := range history {
		p.apply(e)
	}
	return p
}

// ---------------- Persistence ----------------

type PropertySnapshot struct {
	shared.RootSnapshot
	OwnerID      uuid.UUID
	Name         string
	Address      string
	City         string
	State        string
	Country      string
	Latitude     *float64
	Longitude    *float64
	AreaHectares float64
}

func (p *Property) Snapshot() PropertySnapshot {
	return PropertySnapshot{
		RootSnapshot: shared.RootSnapshot{
			ID:        p.ID(),
			Version:   p.Version(),
			IsActive:  p.IsActive(),
			CreatedAt: p.CreatedAt(),
			UpdatedAt: p.UpdatedAt(),
		},
		OwnerID:      p.ownerID,
		Name:         p.name.String(),
		Address:      p.location.Address(),
		City:         p.location.City(),
		State:        p.location.State(),
		Country:      p.location.Country(),
		Latitude:     p.location.Latitude(),
		Longitude:    p.location.Longitude(),
		AreaHectares: p.area.Hectares(),
	}
}

// RestoreProperty rehidrata desde una fila ya persistida.
func RestoreProperty(s PropertySnapshot) *Property {
	p := &Property{
		ownerID:  s.OwnerID,
		name:     nameFrom(s.Name),
		location: locationFrom(s.Address, s.City, s.State, s.Country, s.Latitude, s.Longitude),
		area:     areaFrom(s.AreaHectares),
	}
	p.Restore(s.RootSnapshot)
	return p
}
