package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/agrofarm/internal/farm/domain"
	shared "github.com/davicafu/agrofarm/internal/shared/domain"
	"github.com/davicafu/agrofarm/internal/shared/infra/platform/db/sqlstore"
)

func setupDB(t *testing.T) (*FarmRepository, *sqlstore.Store) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, InitSchema(context.Background(), db, sqlstore.SQLite))
	return NewFarmRepository(db, sqlstore.SQLite), sqlstore.NewStore(db, sqlstore.SQLite, Writers(), zap.NewNop())
}

func save(t *testing.T, store *sqlstore.Store, agg shared.Aggregate) {
	t.Helper()
	uow := store.NewUnitOfWork()
	require.NoError(t, uow.Track(context.Background(), agg))
	require.NoError(t, uow.Commit(context.Background()))
	agg.MarkCommitted()
}

func ptr[T any](v T) *T { return &v }

func newProperty(t *testing.T, owner uuid.UUID, name string) *domain.Property {
	t.Helper()
	p, err := domain.CreateProperty(domain.PropertyInput{
		Name:         name,
		Address:      "Camino Real 12",
		City:         "Córdoba",
		State:        "Andalucía",
		Country:      "España",
		AreaHectares: 120.5,
		Latitude:     ptr(37.88),
		Longitude:    ptr(-4.77),
	}, owner)
	require.NoError(t, err)
	return p
}

func TestFarmRepository_PropertyRoundTrip(t *testing.T) {
	// ARRANGE
	repo, store := setupDB(t)
	ctx := context.Background()
	p := newProperty(t, uuid.New(), "Finca El Olivar")
	save(t, store, p)

	// ACT
	got, err := repo.FindProperty(ctx, p.ID())

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, p.ID(), got.ID())
	assert.Equal(t, p.OwnerID(), got.OwnerID())
	assert.Equal(t, "Finca El Olivar", got.Name().String())
	assert.True(t, p.Location().Equal(got.Location()))
	assert.Equal(t, 120.5, got.Area().Hectares())
	assert.Equal(t, 1, got.Version())
	assert.True(t, got.IsActive())
	assert.Nil(t, got.UpdatedAt())
	assert.Empty(t, got.UncommittedEvents())
}

func TestFarmRepository_UpdateBumpsVersion(t *testing.T) {
	repo, store := setupDB(t)
	ctx := context.Background()
	p := newProperty(t, uuid.New(), "Finca Norte")
	save(t, store, p)

	loaded, err := repo.FindProperty(ctx, p.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.Deactivate())
	save(t, store, loaded)

	again, err := repo.FindProperty(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, again.Version())
	assert.False(t, again.IsActive())
	assert.NotNil(t, again.UpdatedAt())
}

func TestFarmRepository_PlotAndSensorRoundTrip(t *testing.T) {
	repo, store := setupDB(t)
	ctx := context.Background()
	p := newProperty(t, uuid.New(), "Finca Sur")
	save(t, store, p)

	plot, err := domain.CreatePlot(p.ID(), domain.PlotInput{Name: "Parcela 1", CropType: "Olivo", AreaHectares: 10})
	require.NoError(t, err)
	save(t, store, plot)

	sensor, err := domain.RegisterSensor(plot.ID(), "soilmoisture", ptr("Sonda A"))
	require.NoError(t, err)
	save(t, store, sensor)

	gotPlot, err := repo.FindPlot(ctx, plot.ID())
	require.NoError(t, err)
	assert.Equal(t, p.ID(), gotPlot.PropertyID())
	assert.Equal(t, "Olivo", gotPlot.CropType().String())

	gotSensor, err := repo.FindSensor(ctx, sensor.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.SensorSoilMoisture, gotSensor.Type())
	assert.Equal(t, domain.StatusActive, gotSensor.Status())
	assert.Equal(t, "Sonda A", gotSensor.Label())
	assert.True(t, sensor.InstalledAt().Equal(gotSensor.InstalledAt()))
}

func TestFarmRepository_NotFound(t *testing.T) {
	repo, _ := setupDB(t)
	ctx := context.Background()

	_, err := repo.FindProperty(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrRecordNotFound)
	_, err = repo.FindPlot(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrRecordNotFound)
	_, err = repo.FindSensor(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrRecordNotFound)
}

func TestFarmRepository_ExistsWhere(t *testing.T) {
	repo, store := setupDB(t)
	ctx := context.Background()
	owner := uuid.New()
	p := newProperty(t, owner, "Finca Alta")
	save(t, store, p)

	tests := []struct {
		name     string
		criteria shared.Criteria
		want     bool
	}{
		{"same name other case", domain.PropertyNameTaken(owner, "FINCA ALTA", uuid.Nil), true},
		{"excluding itself", domain.PropertyNameTaken(owner, "Finca Alta", p.ID()), false},
		{"other owner", domain.PropertyNameTaken(uuid.New(), "Finca Alta", uuid.Nil), false},
		{"other name", domain.PropertyNameTaken(owner, "Finca Baja", uuid.Nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ExistsWhere(ctx, domain.PropertyKind, tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := repo.ExistsWhere(ctx, "barn", nil)
	assert.Error(t, err)
}

func TestFarmRepository_DeactivatedNameIsFree(t *testing.T) {
	repo, store := setupDB(t)
	ctx := context.Background()
	owner := uuid.New()
	p := newProperty(t, owner, "Finca Vieja")
	save(t, store, p)
	require.NoError(t, p.Deactivate())
	save(t, store, p)

	taken, err := repo.ExistsWhere(ctx, domain.PropertyKind, domain.PropertyNameTaken(owner, "finca vieja", uuid.Nil))
	require.NoError(t, err)
	assert.False(t, taken)

	// El índice parcial permite reutilizar el nombre.
	save(t, store, newProperty(t, owner, "Finca Vieja"))
}

func TestFarmRepository_NameKeyFoldsAccents(t *testing.T) {
	repo, store := setupDB(t)
	ctx := context.Background()
	owner := uuid.New()
	save(t, store, newProperty(t, owner, "Fazenda água"))

	taken, err := repo.ExistsWhere(ctx, domain.PropertyKind, domain.PropertyNameTaken(owner, "FAZENDA ÁGUA", uuid.Nil))
	require.NoError(t, err)
	assert.True(t, taken)

	uow := store.NewUnitOfWork()
	require.NoError(t, uow.Track(ctx, newProperty(t, owner, "FAZENDA ÁGUA")))
	err = uow.Commit(ctx)
	assert.True(t, shared.IsKind(err, shared.KindConflict), "the unique index works on the folded key")
}

func TestFarmRepository_UniqueIndexBacksValidation(t *testing.T) {
	_, store := setupDB(t)
	owner := uuid.New()
	save(t, store, newProperty(t, owner, "Finca Doble"))

	uow := store.NewUnitOfWork()
	require.NoError(t, uow.Track(context.Background(), newProperty(t, owner, "finca doble")))
	err := uow.Commit(context.Background())

	assert.True(t, shared.IsKind(err, shared.KindConflict))
}
