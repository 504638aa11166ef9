package application

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/davicafu/agrofarm/internal/farm/domain"
	sharedApp "github.com/davicafu/agrofarm/internal/shared/application"
	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

type CreatePropertyCommand struct {
	domain.PropertyInput
}

type UpdatePropertyCommand struct {
	PropertyID uuid.UUID
	domain.PropertyInput
}

// PropertyLifecycleCommand sirve para Activate y Deactivate.
type PropertyLifecycleCommand struct {
	PropertyID uuid.UUID
}

type newProperty = sharedApp.Fresh[*domain.Property]

// propertyChange es el trabajo de un comando sobre una propiedad existente.
type propertyChange struct {
	id       uuid.UUID
	input    domain.PropertyInput
	property *domain.Property
}

func (w *propertyChange) Target() shared.Aggregate { return w.property }

// ---------------- CreateProperty ----------------

func newCreatePropertyHandler(reader domain.Reader) *sharedApp.CommandHandler[CreatePropertyCommand, newProperty, PropertyView] {
	return &sharedApp.CommandHandler[CreatePropertyCommand, newProperty, PropertyView]{
		Name: "CreatePropertyCommandHandler",
		Map: func(cmd CreatePropertyCommand, actor shared.Actor) (newProperty, error) {
			p, err := domain.CreateProperty(cmd.PropertyInput, actor.ID)
			if err != nil {
				return newProperty{}, err
			}
			return newProperty{Root: p}, nil
		},
		Validate: func(ctx context.Context, w newProperty, actor shared.Actor) error {
			p := w.Root
			return ensureUnique(ctx, reader, domain.PropertyKind,
				domain.PropertyNameTaken(p.OwnerID(), p.Name().String(), uuid.Nil), domain.ErrNameDuplicate)
		},
		PublishIntegrationEvents: sharedApp.MapIntegrationEvents[newProperty](translateFarmEvent),
		BuildResponse: func(w newProperty) PropertyView {
			return newPropertyView(w.Root)
		},
	}
}

// ---------------- UpdateProperty ----------------

func newUpdatePropertyHandler(reader domain.Reader) *sharedApp.CommandHandler[UpdatePropertyCommand, *propertyChange, PropertyView] {
	return &sharedApp.CommandHandler[UpdatePropertyCommand, *propertyChange, PropertyView]{
		Name: "UpdatePropertyCommandHandler",
		Map: func(cmd UpdatePropertyCommand, _ shared.Actor) (*propertyChange, error) {
			if err := domain.ValidatePropertyInput(cmd.PropertyInput); err != nil {
				return nil, err
			}
			return &propertyChange{id: cmd.PropertyID, input: cmd.PropertyInput}, nil
		},
		Validate: func(ctx context.Context, w *propertyChange, actor shared.Actor) error {
			p, err := loadProperty(ctx, reader, w.id)
			if err != nil {
				return err
			}
			if err := authorize(actor, p); err != nil {
				return err
			}
			if err := ensureUnique(ctx, reader, domain.PropertyKind,
				domain.PropertyNameTaken(p.OwnerID(), strings.TrimSpace(w.input.Name), p.ID()), domain.ErrNameDuplicate); err != nil {
				return err
			}
			if err := p.Update(w.input); err != nil {
				return err
			}
			w.property = p
			return nil
		},
		PublishIntegrationEvents: sharedApp.MapIntegrationEvents[*propertyChange](translateFarmEvent),
		BuildResponse: func(w *propertyChange) PropertyView {
			return newPropertyView(w.property)
		},
	}
}

// ---------------- Activate / Deactivate ----------------

// activePropertyNameTaken busca otra propiedad activa del mismo dueño con el nombre.
func activePropertyNameTaken(p *domain.Property) shared.Criteria {
	return domain.PropertyNameTaken(p.OwnerID(), p.Name().String(), p.ID())
}

// newPropertyLifecycleHandler recibe taken solo en Activate: reactivar vuelve
// a meter el nombre en el ámbito de unicidad.
func newPropertyLifecycleHandler(reader domain.Reader, name string, transition func(*domain.Property) error, taken func(*domain.Property) shared.Criteria) *sharedApp.CommandHandler[PropertyLifecycleCommand, *propertyChange, PropertyView] {
	return &sharedApp.CommandHandler[PropertyLifecycleCommand, *propertyChange, PropertyView]{
		Name: name,
		Map: func(cmd PropertyLifecycleCommand, _ shared.Actor) (*propertyChange, error) {
			return &propertyChange{id: cmd.PropertyID}, nil
		},
		Validate: func(ctx context.Context, w *propertyChange, actor shared.Actor) error {
			p, err := loadProperty(ctx, reader, w.id)
			if err != nil {
				return err
			}
			if err := authorize(actor, p); err != nil {
				return err
			}
			if taken != nil && !p.IsActive() {
				if err := ensureUnique(ctx, reader, domain.PropertyKind, taken(p), domain.ErrNameDuplicate); err != nil {
					return err
				}
			}
			if err := transition(p); err != nil {
				return err
			}
			w.property = p
			return nil
		},
		PublishIntegrationEvents: sharedApp.MapIntegrationEvents[*propertyChange](translateFarmEvent),
		BuildResponse: func(w *propertyChange) PropertyView {
			return newPropertyView(w.property)
		},
	}
}
