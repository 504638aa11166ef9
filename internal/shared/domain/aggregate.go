package domain

import (
	"time"

	"github.com/google/uuid"
)

// Aggregate es lo que el pipeline de comandos necesita de una raíz.
type Aggregate interface {
	ID() uuid.UUID
	Kind() string
	Version() int
	UncommittedEvents() []DomainEvent
	MarkCommitted()
}

// Root agrupa el estado común de todas las raíces: identidad, ciclo de vida
// y la lista de eventos pendientes. Los setters solo deben llamarse desde
// los handlers de aplicación de eventos de cada agregado.
type Root struct {
	id          uuid.UUID
	version     int
	isActive    bool
	createdAt   time.Time
	updatedAt   *time.Time
	uncommitted []DomainEvent
}

func (r *Root) ID() uuid.UUID         { return r.id }
func (r *Root) Version() int          { return r.version }
func (r *Root) IsActive() bool        { return r.isActive }
func (r *Root) CreatedAt() time.Time  { return r.createdAt }
func (r *Root) UpdatedAt() *time.Time { return r.updatedAt }
func (r *Root) HasUncommitted() bool  { return len(r.uncommitted) > 0 }

// UncommittedEvents devuelve una copia.
func (r *Root) UncommittedEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.uncommitted))
	copy(out, r.uncommitted)
	return out
}

// MarkCommitted se llama tras un commit correcto: vacía los eventos y avanza la versión.
func (r *Root) MarkCommitted() {
	r.uncommitted = nil
	r.version++
}

// Record añade el evento a la lista pendiente.
func (r *Root) Record(e DomainEvent) {
	r.uncommitted = append(r.uncommitted, e)
}

// Born fija identidad y alta a partir de un evento de creación.
func (r *Root) Born(id uuid.UUID, at time.Time) {
	r.id = id
	r.createdAt = at
	r.isActive = true
}

func (r *Root) Touch(at time.Time) {
	t := at
	r.updatedAt = &t
}

func (r *Root) MarkActive(active bool) {
	r.isActive = active
}

// RootSnapshot es el estado común tal como se persiste.
type RootSnapshot struct {
	ID        uuid.UUID
	Version   int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Restore rehidrata desde almacenamiento sin generar eventos.
func (r *Root) Restore(s RootSnapshot) {
	r.id = s.ID
	r.version = s.Version
	r.isActive = s.IsActive
	r.createdAt = s.CreatedAt
	r.updatedAt = s.UpdatedAt
	r.uncommitted = nil
}
