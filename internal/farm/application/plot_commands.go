package application

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/davicafu/agrofarm/internal/farm/domain"
	sharedApp "github.com/davicafu/agrofarm/internal/shared/application"
	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

type CreatePlotCommand struct {
	PropertyID uuid.UUID
	domain.PlotInput
}

type UpdatePlotCommand struct {
	PlotID uuid.UUID
	domain.PlotInput
}

type ChangePlotCropTypeCommand struct {
	PlotID   uuid.UUID
	CropType string
}

type PlotLifecycleCommand struct {
	PlotID uuid.UUID
}

type newPlot = sharedApp.Fresh[*domain.Plot]

type plotChange struct {
	id       uuid.UUID
	input    domain.PlotInput
	cropType string
	plot     *domain.Plot
}

func (w *plotChange) Target() shared.Aggregate { return w.plot }

// loadManagedPlot carga la parcela y comprueba permisos sobre su propiedad.
func loadManagedPlot(ctx context.Context, reader domain.Reader, actor shared.Actor, id uuid.UUID) (*domain.Plot, error) {
	plot, err := loadPlot(ctx, reader, id)
	if err != nil {
		return nil, err
	}
	if err := authorizePlot(ctx, reader, actor, plot); err != nil {
		return nil, err
	}
	return plot, nil
}

// ---------------- CreatePlot ----------------

func newCreatePlotHandler(reader domain.Reader) *sharedApp.CommandHandler[CreatePlotCommand, newPlot, PlotView] {
	return &sharedApp.CommandHandler[CreatePlotCommand, newPlot, PlotView]{
		Name: "CreatePlotCommandHandler",
		Map: func(cmd CreatePlotCommand, _ shared.Actor) (newPlot, error) {
			p, err := domain.CreatePlot(cmd.PropertyID, cmd.PlotInput)
			if err != nil {
				return newPlot{}, err
			}
			return newPlot{Root: p}, nil
		},
		Validate: func(ctx context.Context, w newPlot, actor shared.Actor) error {
			plot := w.Root
			property, err := loadActiveProperty(ctx, reader, plot.PropertyID())
			if err != nil {
				return err
			}
			if err := authorize(actor, property); err != nil {
				return err
			}
			return ensureUnique(ctx, reader, domain.PlotKind,
				domain.PlotNameTaken(plot.PropertyID(), plot.Name().String(), uuid.Nil), domain.ErrNameDuplicate)
		},
		PublishIntegrationEvents: sharedApp.MapIntegrationEvents[newPlot](translateFarmEvent),
		BuildResponse: func(w newPlot) PlotView {
			return newPlotView(w.Root)
		},
	}
}

// ---------------- UpdatePlot ----------------

func newUpdatePlotHandler(reader domain.Reader) *sharedApp.CommandHandler[UpdatePlotCommand, *plotChange, PlotView] {
	return &sharedApp.CommandHandler[UpdatePlotCommand, *plotChange, PlotView]{
		Name: "UpdatePlotCommandHandler",
		Map: func(cmd UpdatePlotCommand, _ shared.Actor) (*plotChange, error) {
			if err := domain.ValidatePlotInput(cmd.PlotInput); err != nil {
				return nil, err
			}
			return &plotChange{id: cmd.PlotID, input: cmd.PlotInput}, nil
		},
		Validate: func(ctx context.Context, w *plotChange, actor shared.Actor) error {
			plot, err := loadManagedPlot(ctx, reader, actor, w.id)
			if err != nil {
				return err
			}
			if err := ensureUnique(ctx, reader, domain.PlotKind,
				domain.PlotNameTaken(plot.PropertyID(), strings.TrimSpace(w.input.Name), plot.ID()), domain.ErrNameDuplicate); err != nil {
				return err
			}
			if err := plot.Update(w.input); err != nil {
				return err
			}
			w.plot = plot
			return nil
		},
		PublishIntegrationEvents: sharedApp.MapIntegrationEvents[*plotChange](translateFarmEvent),
		BuildResponse: func(w *plotChange) PlotView {
			return newPlotView(w.plot)
		},
	}
}

// ---------------- ChangePlotCropType ----------------

func newChangePlotCropTypeHandler(reader domain.Reader) *sharedApp.CommandHandler[ChangePlotCropTypeCommand, *plotChange, PlotView] {
	return &sharedApp.CommandHandler[ChangePlotCropTypeCommand, *plotChange, PlotView]{
		Name: "ChangePlotCropTypeCommandHandler",
		Map: func(cmd ChangePlotCropTypeCommand, _ shared.Actor) (*plotChange, error) {
			if _, err := domain.NewCropType(cmd.CropType); err != nil {
				return nil, err
			}
			return &plotChange{id: cmd.PlotID, cropType: cmd.CropType}, nil
		},
		Validate: func(ctx context.Context, w *plotChange, actor shared.Actor) error {
			plot, err := loadManagedPlot(ctx, reader, actor, w.id)
			if err != nil {
				return err
			}
			if err := plot.ChangeCropType(w.cropType); err != nil {
				return err
			}
			w.plot = plot
			return nil
		},
		PublishIntegrationEvents: sharedApp.MapIntegrationEvents[*plotChange](translateFarmEvent),
		BuildResponse: func(w *plotChange) PlotView {
			return newPlotView(w.plot)
		},
	}
}

// ---------------- Activate / Deactivate ----------------

func activePlotNameTaken(p *domain.Plot) shared.Criteria {
	return domain.PlotNameTaken(p.PropertyID(), p.Name().String(), p.ID())
}

func newPlotLifecycleHandler(reader domain.Reader, name string, transition func(*domain.Plot) error, taken func(*domain.Plot) shared.Criteria) *sharedApp.CommandHandler[PlotLifecycleCommand, *plotChange, PlotView] {
	return &sharedApp.CommandHandler[PlotLifecycleCommand, *plotChange, PlotView]{
		Name: name,
		Map: func(cmd PlotLifecycleCommand, _ shared.Actor) (*plotChange, error) {
			return &plotChange{id: cmd.PlotID}, nil
		},
		Validate: func(ctx context.Context, w *plotChange, actor shared.Actor) error {
			plot, err := loadManagedPlot(ctx, reader, actor, w.id)
			if err != nil {
				return err
			}
			if taken != nil && !plot.IsActive() {
				if err := ensureUnique(ctx, reader, domain.PlotKind, taken(plot), domain.ErrNameDuplicate); err != nil {
					return err
				}
			}
			if err := transition(plot); err != nil {
				return err
			}
			w.plot = plot
			return nil
		},
		PublishIntegrationEvents: sharedApp.MapIntegrationEvents[*plotChange](translateFarmEvent),
		BuildResponse: func(w *plotChange) PlotView {
			return newPlotView(w.plot)
		},
	}
}
