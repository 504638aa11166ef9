package application

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/davicafu/agrofarm/internal/farm/domain"
	sharedApp "github.com/davicafu/agrofarm/internal/shared/application"
	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

type RegisterSensorCommand struct {
	PlotID uuid.UUID
	Type   string
	Label  *string
}

type UpdateSensorLabelCommand struct {
	SensorID uuid.UUID
	Label    *string
}

type ChangeSensorStatusCommand struct {
	SensorID uuid.UUID
	Status   string
}

type SensorLifecycleCommand struct {
	SensorID uuid.UUID
}

type newSensor = sharedApp.Fresh[*domain.Sensor]

type sensorChange struct {
	id     uuid.UUID
	label  *string
	status domain.SensorStatus
	sensor *domain.Sensor
}

func (w *sensorChange) Target() shared.Aggregate { return w.sensor }

// loadManagedSensor sube por parcela y propiedad para comprobar permisos.
func loadManagedSensor(ctx context.Context, reader domain.Reader, actor shared.Actor, id uuid.UUID) (*domain.Sensor, error) {
	sensor, err := loadSensor(ctx, reader, id)
	if err != nil {
		return nil, err
	}
	plot, err := loadPlot(ctx, reader, sensor.PlotID())
	if err != nil {
		return nil, err
	}
	if err := authorizePlot(ctx, reader, actor, plot); err != nil {
		return nil, err
	}
	return sensor, nil
}

// ---------------- RegisterSensor ----------------

func newRegisterSensorHandler(reader domain.Reader) *sharedApp.CommandHandler[RegisterSensorCommand, newSensor, SensorView] {
	return &sharedApp.CommandHandler[RegisterSensorCommand, newSensor, SensorView]{
		Name: "RegisterSensorCommandHandler",
		Map: func(cmd RegisterSensorCommand, _ shared.Actor) (newSensor, error) {
			s, err := domain.RegisterSensor(cmd.PlotID, cmd.Type, cmd.Label)
			if err != nil {
				return newSensor{}, err
			}
			return newSensor{Root: s}, nil
		},
		Validate: func(ctx context.Context, w newSensor, actor shared.Actor) error {
			sensor := w.Root
			plot, err := loadActivePlot(ctx, reader, sensor.PlotID())
			if err != nil {
				return err
			}
			if err := authorizePlot(ctx, reader, actor, plot); err != nil {
				return err
			}
			if sensor.Label() == "" {
				return nil
			}
			return ensureUnique(ctx, reader, domain.SensorKind,
				domain.SensorLabelTaken(plot.ID(), sensor.Label(), uuid.Nil), domain.ErrLabelDuplicate)
		},
		PublishIntegrationEvents: sharedApp.MapIntegrationEvents[newSensor](translateFarmEvent),
		BuildResponse: func(w newSensor) SensorView {
			return newSensorView(w.Root)
		},
	}
}

// ---------------- UpdateSensorLabel ----------------

func newUpdateSensorLabelHandler(reader domain.Reader) *sharedApp.CommandHandler[UpdateSensorLabelCommand, *sensorChange, SensorView] {
	return &sharedApp.CommandHandler[UpdateSensorLabelCommand, *sensorChange, SensorView]{
		Name: "UpdateSensorLabelCommandHandler",
		Map: func(cmd UpdateSensorLabelCommand, _ shared.Actor) (*sensorChange, error) {
			if cmd.Label != nil {
				if _, err := domain.NewName(*cmd.Label); err != nil {
					return nil, err
				}
			}
			return &sensorChange{id: cmd.SensorID, label: cmd.Label}, nil
		},
		Validate: func(ctx context.Context, w *sensorChange, actor shared.Actor) error {
			sensor, err := loadManagedSensor(ctx, reader, actor, w.id)
			if err != nil {
				return err
			}
			if w.label != nil {
				if err := ensureUnique(ctx, reader, domain.SensorKind,
					domain.SensorLabelTaken(sensor.PlotID(), strings.TrimSpace(*w.label), sensor.ID()), domain.ErrLabelDuplicate); err != nil {
					return err
				}
			}
			if err := sensor.UpdateLabel(w.label); err != nil {
				return err
			}
			w.sensor = sensor
			return nil
		},
		PublishIntegrationEvents: sharedApp.MapIntegrationEvents[*sensorChange](translateFarmEvent),
		BuildResponse: func(w *sensorChange) SensorView {
			return newSensorView(w.sensor)
		},
	}
}

// ---------------- ChangeSensorStatus ----------------

func newChangeSensorStatusHandler(reader domain.Reader) *sharedApp.CommandHandler[ChangeSensorStatusCommand, *sensorChange, SensorView] {
	return &sharedApp.CommandHandler[ChangeSensorStatusCommand, *sensorChange, SensorView]{
		Name: "ChangeSensorStatusCommandHandler",
		Map: func(cmd ChangeSensorStatusCommand, _ shared.Actor) (*sensorChange, error) {
			status, err := domain.ParseSensorStatus(cmd.Status)
			if err != nil {
				return nil, err
			}
			return &sensorChange{id: cmd.SensorID, status: status}, nil
		},
		Validate: func(ctx context.Context, w *sensorChange, actor shared.Actor) error {
			sensor, err := loadManagedSensor(ctx, reader, actor, w.id)
			if err != nil {
				return err
			}
			if err := sensor.ChangeStatus(w.status); err != nil {
				return err
			}
			w.sensor = sensor
			return nil
		},
		PublishIntegrationEvents: sharedApp.MapIntegrationEvents[*sensorChange](translateFarmEvent),
		BuildResponse: func(w *sensorChange) SensorView {
			return newSensorView(w.sensor)
		},
	}
}

// ---------------- Activate / Deactivate ----------------

// activeSensorLabelTaken devuelve nil para sensores sin etiqueta.
func activeSensorLabelTaken(s *domain.Sensor) shared.Criteria {
	if s.Label() == "" {
		return nil
	}
	return domain.SensorLabelTaken(s.PlotID(), s.Label(), s.ID())
}

func newSensorLifecycleHandler(reader domain.Reader, name string, transition func(*domain.Sensor) error, taken func(*domain.Sensor) shared.Criteria) *sharedApp.CommandHandler[SensorLifecycleCommand, *sensorChange, SensorView] {
	return &sharedApp.CommandHandler[SensorLifecycleCommand, *sensorChange, SensorView]{
		Name: name,
		Map: func(cmd SensorLifecycleCommand, _ shared.Actor) (*sensorChange, error) {
			return &sensorChange{id: cmd.SensorID}, nil
		},
		Validate: func(ctx context.Context, w *sensorChange, actor shared.Actor) error {
			sensor, err := loadManagedSensor(ctx, reader, actor, w.id)
			if err != nil {
				return err
			}
			if taken != nil && !sensor.IsActive() {
				if criteria := taken(sensor); criteria != nil {
					if err := ensureUnique(ctx, reader, domain.SensorKind, criteria, domain.ErrLabelDuplicate); err != nil {
						return err
					}
				}
			}
			if err := transition(sensor); err != nil {
				return err
			}
			w.sensor = sensor
			return nil
		},
		PublishIntegrationEvents: sharedApp.MapIntegrationEvents[*sensorChange](translateFarmEvent),
		BuildResponse: func(w *sensorChange) SensorView {
			return newSensorView(w.sensor)
		},
	}
}
