package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davicafu/agrofarm/internal/farm/domain"
	"github.com/davicafu/agrofarm/internal/shared/infra/platform/db/sqlstore"
	"github.com/davicafu/agrofarm/internal/shared/platform/query"
)

func newPlot(t *testing.T, store *sqlstore.Store, propertyID uuid.UUID, name, crop string) *domain.Plot {
	t.Helper()
	plot, err := domain.CreatePlot(propertyID, domain.PlotInput{Name: name, CropType: crop, AreaHectares: 3})
	require.NoError(t, err)
	save(t, store, plot)
	return plot
}

func newSensor(t *testing.T, store *sqlstore.Store, plotID uuid.UUID, sensorType string, label *string) *domain.Sensor {
	t.Helper()
	s, err := domain.RegisterSensor(plotID, sensorType, label)
	require.NoError(t, err)
	save(t, store, s)
	return s
}

func byName(dir string, number, size int) query.PageRequest {
	return query.PageRequest{PageNumber: number, PageSize: size, SortBy: "name", SortDirection: dir}.Normalize("name", "asc")
}

func TestFarmRepository_ListProperties(t *testing.T) {
	// ARRANGE
	repo, store := setupDB(t)
	ctx := context.Background()
	owner := uuid.New()
	alta := newProperty(t, owner, "Finca Alta")
	save(t, store, alta)
	save(t, store, newProperty(t, owner, "Finca Baja"))
	save(t, store, newProperty(t, owner, "Huerta Ñandú"))
	save(t, store, newProperty(t, uuid.New(), "Finca Otra"))

	newPlot(t, store, alta.ID(), "Parcela Viva", "Olivo")
	dead := newPlot(t, store, alta.ID(), "Parcela Muerta", "Olivo")
	require.NoError(t, dead.Deactivate())
	save(t, store, dead)

	// ACT
	first, total, err := repo.ListProperties(ctx, domain.PropertyFilter{OwnerID: &owner}, byName("asc", 1, 2))
	require.NoError(t, err)
	second, _, err := repo.ListProperties(ctx, domain.PropertyFilter{OwnerID: &owner}, byName("asc", 2, 2))
	require.NoError(t, err)

	// ASSERT
	assert.Equal(t, 3, total)
	require.Len(t, first, 2)
	assert.Equal(t, "Finca Alta", first[0].Name)
	assert.Equal(t, 1, first[0].PlotCount, "only active plots are counted")
	assert.Equal(t, "Córdoba", first[0].City)
	assert.Equal(t, "Finca Baja", first[1].Name)
	require.Len(t, second, 1)
	assert.Equal(t, "Huerta Ñandú", second[0].Name)

	desc, _, err := repo.ListProperties(ctx, domain.PropertyFilter{OwnerID: &owner}, byName("desc", 1, 10))
	require.NoError(t, err)
	assert.Equal(t, "Huerta Ñandú", desc[0].Name)
}

func TestFarmRepository_ListProperties_TextFilterFoldsAccents(t *testing.T) {
	repo, store := setupDB(t)
	ctx := context.Background()
	owner := uuid.New()
	save(t, store, newProperty(t, owner, "Huerta Ñandú"))
	save(t, store, newProperty(t, owner, "Finca Cien"))

	tests := []struct {
		name string
		text string
		want int
	}{
		{"accented name in upper case", "ÑANDÚ", 1},
		{"accented city", "CÓRDOBA", 2},
		{"country", "españa", 2},
		{"like wildcards are literal", "%", 0},
		{"no match", "Sevilla", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := repo.ListProperties(ctx, domain.PropertyFilter{Text: tt.text}, byName("asc", 1, 10))
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestFarmRepository_ListPlots(t *testing.T) {
	repo, store := setupDB(t)
	ctx := context.Background()
	owner := uuid.New()
	p := newProperty(t, owner, "Finca Parcelada")
	save(t, store, p)

	a := newPlot(t, store, p.ID(), "Parcela A", "Olivo")
	newPlot(t, store, p.ID(), "Parcela B", "Trigo")
	c := newPlot(t, store, p.ID(), "Parcela C", "Olivo")
	require.NoError(t, c.Deactivate())
	save(t, store, c)
	newSensor(t, store, a.ID(), "Ph", nil)

	items, total, err := repo.ListPlots(ctx, domain.PlotFilter{PropertyID: ptr(p.ID())}, byName("asc", 1, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, total, "inactive plots are not listed")
	require.Len(t, items, 2)
	assert.Equal(t, "Finca Parcelada", items[0].PropertyName)
	assert.Equal(t, 1, items[0].SensorCount)

	olive, total, err := repo.ListPlots(ctx, domain.PlotFilter{CropType: "OLIVO"}, byName("asc", 1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, a.ID(), olive[0].ID)

	_, total, err = repo.ListPlots(ctx, domain.PlotFilter{OwnerID: ptr(uuid.New())}, byName("asc", 1, 10))
	require.NoError(t, err)
	assert.Zero(t, total)

	_, total, err = repo.ListPlots(ctx, domain.PlotFilter{OwnerID: &owner, Text: "trigo"}, byName("asc", 1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestFarmRepository_ListSensors(t *testing.T) {
	repo, store := setupDB(t)
	ctx := context.Background()
	p := newProperty(t, uuid.New(), "Finca Sensórica")
	save(t, store, p)
	plot := newPlot(t, store, p.ID(), "Parcela Sensores", "Maíz")

	newSensor(t, store, plot.ID(), "Temperature", ptr("Sonda Norte"))
	newSensor(t, store, plot.ID(), "Humidity", nil)
	repair := newSensor(t, store, plot.ID(), "Rainfall", ptr("Pluviómetro"))
	require.NoError(t, repair.SetMaintenance())
	save(t, store, repair)
	gone := newSensor(t, store, plot.ID(), "Ph", ptr("Retirado"))
	require.NoError(t, gone.Deactivate())
	save(t, store, gone)

	page := query.PageRequest{}.Normalize("installedAt", "desc")
	tests := []struct {
		name   string
		filter domain.SensorFilter
		want   int
	}{
		{"active sensors of the property", domain.SensorFilter{PropertyID: ptr(p.ID())}, 3},
		{"by plot", domain.SensorFilter{PlotID: ptr(plot.ID())}, 3},
		{"type is case insensitive", domain.SensorFilter{Type: "temperature"}, 1},
		{"status", domain.SensorFilter{Status: "MAINTENANCE"}, 1},
		{"unknown type matches nothing", domain.SensorFilter{Type: "Radar"}, 0},
		{"label text", domain.SensorFilter{Text: "PLUVIÓ"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := repo.ListSensors(ctx, tt.filter, page)
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
		})
	}

	byLabel := query.PageRequest{SortBy: "label"}.Normalize("installedAt", "desc")
	items, _, err := repo.ListSensors(ctx, domain.SensorFilter{PlotID: ptr(plot.ID())}, byLabel)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Nil(t, items[0].Label, "unlabeled sensors sort first")
	assert.Equal(t, "Parcela Sensores", items[0].PlotName)
	assert.Equal(t, "Finca Sensórica", items[0].PropertyName)
	assert.Equal(t, p.ID(), items[0].PropertyID)
}
