package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/agrofarm/internal/farm/domain"
	sharedApp "github.com/davicafu/agrofarm/internal/shared/application"
	shared "github.com/davicafu/agrofarm/internal/shared/domain"
	sharedCache "github.com/davicafu/agrofarm/internal/shared/infra/platform/cache"
)

// FarmService expone los comandos de propiedades, parcelas y sensores, y las
// consultas por id y los listados paginados con caché.
type FarmService struct {
	reader        domain.Reader
	newUnitOfWork sharedApp.UnitOfWorkFactory
	cache         sharedCache.Cache
	cacheTTL      int
	log           *zap.Logger

	createProperty     *sharedApp.CommandHandler[CreatePropertyCommand, newProperty, PropertyView]
	updateProperty     *sharedApp.CommandHandler[UpdatePropertyCommand, *propertyChange, PropertyView]
	deactivateProperty *sharedApp.CommandHandler[PropertyLifecycleCommand, *propertyChange, PropertyView]
	activateProperty   *sharedApp.CommandHandler[PropertyLifecycleCommand, *propertyChange, PropertyView]

	createPlot         *sharedApp.CommandHandler[CreatePlotCommand, newPlot, PlotView]
	updatePlot         *sharedApp.CommandHandler[UpdatePlotCommand, *plotChange, PlotView]
	changePlotCropType *sharedApp.CommandHandler[ChangePlotCropTypeCommand, *plotChange, PlotView]
	deactivatePlot     *sharedApp.CommandHandler[PlotLifecycleCommand, *plotChange, PlotView]
	activatePlot       *sharedApp.CommandHandler[PlotLifecycleCommand, *plotChange, PlotView]

	registerSensor     *sharedApp.CommandHandler[RegisterSensorCommand, newSensor, SensorView]
	updateSensorLabel  *sharedApp.CommandHandler[UpdateSensorLabelCommand, *sensorChange, SensorView]
	changeSensorStatus *sharedApp.CommandHandler[ChangeSensorStatusCommand, *sensorChange, SensorView]
	deactivateSensor   *sharedApp.CommandHandler[SensorLifecycleCommand, *sensorChange, SensorView]
	activateSensor     *sharedApp.CommandHandler[SensorLifecycleCommand, *sensorChange, SensorView]
}

func NewFarmService(reader domain.Reader, newUnitOfWork sharedApp.UnitOfWorkFactory, cache sharedCache.Cache, cacheTTL time.Duration, log *zap.Logger) *FarmService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FarmService{
		reader:        reader,
		newUnitOfWork: newUnitOfWork,
		cache:         cache,
		cacheTTL:      int(cacheTTL.Seconds()),
		log:           log,

		createProperty:     newCreatePropertyHandler(reader).WithLogger(log),
		updateProperty:     newUpdatePropertyHandler(reader).WithLogger(log),
		deactivateProperty: newPropertyLifecycleHandler(reader, "DeactivatePropertyCommandHandler", (*domain.Property).Deactivate, nil).WithLogger(log),
		activateProperty:   newPropertyLifecycleHandler(reader, "ActivatePropertyCommandHandler", (*domain.Property).Activate, activePropertyNameTaken).WithLogger(log),

		createPlot:         newCreatePlotHandler(reader).WithLogger(log),
		updatePlot:         newUpdatePlotHandler(reader).WithLogger(log),
		changePlotCropType: newChangePlotCropTypeHandler(reader).WithLogger(log),
		deactivatePlot:     newPlotLifecycleHandler(reader, "DeactivatePlotCommandHandler", (*domain.Plot).Deactivate, nil).WithLogger(log),
		activatePlot:       newPlotLifecycleHandler(reader, "ActivatePlotCommandHandler", (*domain.Plot).Activate, activePlotNameTaken).WithLogger(log),

		registerSensor:     newRegisterSensorHandler(reader).WithLogger(log),
		updateSensorLabel:  newUpdateSensorLabelHandler(reader).WithLogger(log),
		changeSensorStatus: newChangeSensorStatusHandler(reader).WithLogger(log),
		deactivateSensor:   newSensorLifecycleHandler(reader, "DeactivateSensorCommandHandler", (*domain.Sensor).Deactivate, nil).WithLogger(log),
		activateSensor:     newSensorLifecycleHandler(reader, "ActivateSensorCommandHandler", (*domain.Sensor).Activate, activeSensorLabelTaken).WithLogger(log),
	}
}

// run ejecuta un handler con una unidad de trabajo nueva y, si hubo commit,
// invalida la clave por id y los listados afectados.
func run[C any, W sharedApp.Work, R any](ctx context.Context, s *FarmService, h *sharedApp.CommandHandler[C, W, R], cmd C, actor shared.Actor, kind string, id func(R) uuid.UUID) (R, error) {
	resp, err := h.Execute(ctx, s.newUnitOfWork(), cmd, actor)
	if err != nil {
		return resp, err
	}
	sharedCache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByID(kind, id(resp)), s.log)
	sharedCache.AsyncCacheDeletePrefix(ctx, s.cache, listPrefixes(kind), s.log)
	return resp, nil
}

func listPrefixes(kind string) []string {
	tags := domain.ListTagsAffectedBy(kind)
	prefixes := make([]string, len(tags))
	for i, tag := range tags {
		prefixes[i] = domain.ListCachePrefix(tag)
	}
	return prefixes
}

func propertyID(v PropertyView) uuid.UUID { return v.ID }
func plotID(v PlotView) uuid.UUID         { return v.ID }
func sensorID(v SensorView) uuid.UUID     { return v.ID }

// ---------------- Properties ----------------

func (s *FarmService) CreateProperty(ctx context.Context, cmd CreatePropertyCommand, actor shared.Actor) (PropertyView, error) {
	return run(ctx, s, s.createProperty, cmd, actor, domain.PropertyKind, propertyID)
}

func (s *FarmService) UpdateProperty(ctx context.Context, cmd UpdatePropertyCommand, actor shared.Actor) (PropertyView, error) {
	return run(ctx, s, s.updateProperty, cmd, actor, domain.PropertyKind, propertyID)
}

func (s *FarmService) DeactivateProperty(ctx context.Context, cmd PropertyLifecycleCommand, actor shared.Actor) (PropertyView, error) {
	return run(ctx, s, s.deactivateProperty, cmd, actor, domain.PropertyKind, propertyID)
}

func (s *FarmService) ActivateProperty(ctx context.Context, cmd PropertyLifecycleCommand, actor shared.Actor) (PropertyView, error) {
	return run(ctx, s, s.activateProperty, cmd, actor, domain.PropertyKind, propertyID)
}

// ---------------- Plots ----------------

func (s *FarmService) CreatePlot(ctx context.Context, cmd CreatePlotCommand, actor shared.Actor) (PlotView, error) {
	return run(ctx, s, s.createPlot, cmd, actor, domain.PlotKind, plotID)
}

func (s *FarmService) UpdatePlot(ctx context.Context, cmd UpdatePlotCommand, actor shared.Actor) (PlotView, error) {
	return run(ctx, s, s.updatePlot, cmd, actor, domain.PlotKind, plotID)
}

func (s *FarmService) ChangePlotCropType(ctx context.Context, cmd ChangePlotCropTypeCommand, actor shared.Actor) (PlotView, error) {
	return run(ctx, s, s.changePlotCropType, cmd, actor, domain.PlotKind, plotID)
}

func (s *FarmService) DeactivatePlot(ctx context.Context, cmd PlotLifecycleCommand, actor shared.Actor) (PlotView, error) {
	return run(ctx, s, s.deactivatePlot, cmd, actor, domain.PlotKind, plotID)
}

func (s *FarmService) ActivatePlot(ctx context.Context, cmd PlotLifecycleCommand, actor shared.Actor) (PlotView, error) {
	return run(ctx, s, s.activatePlot, cmd, actor, domain.PlotKind, plotID)
}

// ---------------- Sensors ----------------

func (s *FarmService) RegisterSensor(ctx context.Context, cmd RegisterSensorCommand, actor shared.Actor) (SensorView, error) {
	return run(ctx, s, s.registerSensor, cmd, actor, domain.SensorKind, sensorID)
}

func (s *FarmService) UpdateSensorLabel(ctx context.Context, cmd UpdateSensorLabelCommand, actor shared.Actor) (SensorView, error) {
	return run(ctx, s, s.updateSensorLabel, cmd, actor, domain.SensorKind, sensorID)
}

func (s *FarmService) ChangeSensorStatus(ctx context.Context, cmd ChangeSensorStatusCommand, actor shared.Actor) (SensorView, error) {
	return run(ctx, s, s.changeSensorStatus, cmd, actor, domain.SensorKind, sensorID)
}

func (s *FarmService) DeactivateSensor(ctx context.Context, cmd SensorLifecycleCommand, actor shared.Actor) (SensorView, error) {
	return run(ctx, s, s.deactivateSensor, cmd, actor, domain.SensorKind, sensorID)
}

func (s *FarmService) ActivateSensor(ctx context.Context, cmd SensorLifecycleCommand, actor shared.Actor) (SensorView, error) {
	return run(ctx, s, s.activateSensor, cmd, actor, domain.SensorKind, sensorID)
}

// ---------------- Queries ----------------

func (s *FarmService) GetProperty(ctx context.Context, id uuid.UUID) (PropertyView, error) {
	return cached(ctx, s, domain.CacheKeyByID(domain.PropertyKind, id), func() (PropertyView, error) {
		p, err := loadProperty(ctx, s.reader, id)
		if err != nil {
			return PropertyView{}, err
		}
		return newPropertyView(p), nil
	})
}

func (s *FarmService) GetPlot(ctx context.Context, id uuid.UUID) (PlotView, error) {
	return cached(ctx, s, domain.CacheKeyByID(domain.PlotKind, id), func() (PlotView, error) {
		p, err := loadPlot(ctx, s.reader, id)
		if err != nil {
			return PlotView{}, err
		}
		return newPlotView(p), nil
	})
}

func (s *FarmService) GetSensor(ctx context.Context, id uuid.UUID) (SensorView, error) {
	return cached(ctx, s, domain.CacheKeyByID(domain.SensorKind, id), func() (SensorView, error) {
		sensor, err := loadSensor(ctx, s.reader, id)
		if err != nil {
			return SensorView{}, err
		}
		return newSensorView(sensor), nil
	})
}

// cached aplica cache-aside: intenta la caché y si falla va al repositorio.
func cached[V any](ctx context.Context, s *FarmService, key string, load func() (V, error)) (V, error) {
	var view V
	if s.cache != nil {
		found, err := s.cache.Get(ctx, key, &view)
		if err != nil {
			s.log.Warn("Cache get failed", zap.String("key", key), zap.Error(err))
		} else if found {
			return view, nil
		}
	}

	view, err := load()
	if err != nil {
		var dErr *shared.Error
		if !errors.As(err, &dErr) {
			s.log.Error("Failed to load from repository", zap.String("key", key), zap.Error(err))
			return view, shared.Unexpected(err)
		}
		return view, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, key, view, s.cacheTTL, s.log)
	return view, nil
}
