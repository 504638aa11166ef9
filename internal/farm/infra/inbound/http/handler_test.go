package http

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/agrofarm/internal/farm/application"
	farmdb "github.com/davicafu/agrofarm/internal/farm/infra/outbound/db"
	shared "github.com/davicafu/agrofarm/internal/shared/domain"
	"github.com/davicafu/agrofarm/internal/shared/infra/platform/cache"
	"github.com/davicafu/agrofarm/internal/shared/infra/platform/db/sqlstore"
)

type apiError struct {
	Error struct {
		Kind       string             `json:"kind"`
		Message    string             `json:"message"`
		Violations []shared.Violation `json:"violations"`
	} `json:"error"`
}

type testAPI struct {
	router *gin.Engine
	owner  uuid.UUID
}

func newTestAPI(t *testing.T) testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, farmdb.InitSchema(context.Background(), db, sqlstore.SQLite))

	memCache := cache.NewInMemoryCache(time.Minute, 0)
	t.Cleanup(memCache.Stop)

	store := sqlstore.NewStore(db, sqlstore.SQLite, farmdb.Writers(), zap.NewNop())
	svc := application.NewFarmService(farmdb.NewFarmRepository(db, sqlstore.SQLite), store.NewUnitOfWork, memCache, time.Minute, zap.NewNop())

	r := gin.New()
	RegisterFarmRoutes(r, NewFarmHandler(svc, sqlstore.NewOutboxRepo(db, sqlstore.SQLite), zap.NewNop()))
	return testAPI{router: r, owner: uuid.New()}
}

func (a testAPI) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a testAPI) asOwner(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	return a.do(t, method, path, body, map[string]string{
		HeaderUserID:   a.owner.String(),
		HeaderUserRole: "Producer",
	})
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

var propertyBody = map[string]any{
	"name":         "Finca El Olivar",
	"address":      "Camino Real 3",
	"city":         "Úbeda",
	"state":        "Jaén",
	"country":      "España",
	"areaHectares": 120,
}

func TestRequireActor(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"no headers", nil},
		{"bad id", map[string]string{HeaderUserID: "nope", HeaderUserRole: "Admin"}},
		{"unknown role", map[string]string{HeaderUserID: uuid.NewString(), HeaderUserRole: "Root"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodPost, "/properties", propertyBody, tt.headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestPropertyFlow(t *testing.T) {
	api := newTestAPI(t)

	w := api.asOwner(t, http.MethodPost, "/properties", propertyBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[application.PropertyView](t, w)
	assert.Equal(t, api.owner, created.OwnerID)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	w = api.asOwner(t, http.MethodGet, "/properties/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Finca El Olivar", decode[application.PropertyView](t, w).Name)

	w = api.asOwner(t, http.MethodPost, "/properties/"+created.ID.String()+"/deactivate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[application.PropertyView](t, w).IsActive)

	w = api.asOwner(t, http.MethodPost, "/properties/"+created.ID.String()+"/deactivate", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[apiError](t, w)
	assert.Equal(t, "VALIDATION", body.Error.Kind)
	require.Len(t, body.Error.Violations, 1)
	assert.Equal(t, "Property.AlreadyDeactivated", body.Error.Violations[0].Code)
}

func TestErrorMapping(t *testing.T) {
	api := newTestAPI(t)
	w := api.asOwner(t, http.MethodPost, "/properties", propertyBody)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[application.PropertyView](t, w).ID.String()

	t.Run("validation accumulates", func(t *testing.T) {
		w := api.asOwner(t, http.MethodPost, "/properties", map[string]any{"name": "x", "areaHectares": 0})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Greater(t, len(decode[apiError](t, w).Error.Violations), 3)
	})

	t.Run("not found", func(t *testing.T) {
		w := api.asOwner(t, http.MethodGet, "/plots/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", decode[apiError](t, w).Error.Kind)
	})

	t.Run("forbidden", func(t *testing.T) {
		w := api.do(t, http.MethodPut, "/properties/"+id, propertyBody, map[string]string{
			HeaderUserID:   uuid.NewString(),
			HeaderUserRole: "Producer",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := api.asOwner(t, http.MethodGet, "/sensors/42", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/properties", bytes.NewBufferString("{"))
		req.Header.Set(HeaderUserID, api.owner.String())
		req.Header.Set(HeaderUserRole, "Producer")
		w := httptest.NewRecorder()
		api.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPlotAndSensorFlow(t *testing.T) {
	api := newTestAPI(t)
	w := api.asOwner(t, http.MethodPost, "/properties", propertyBody)
	require.Equal(t, http.StatusCreated, w.Code)
	propertyID := decode[application.PropertyView](t, w).ID

	w = api.asOwner(t, http.MethodPost, "/properties/"+propertyID.String()+"/plots",
		map[string]any{"name": "Parcela Sur", "cropType": "Olive", "areaHectares": 12.5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	plot := decode[application.PlotView](t, w)

	w = api.asOwner(t, http.MethodPatch, "/plots/"+plot.ID.String()+"/crop-type", map[string]any{"cropType": "Wheat"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Wheat", decode[application.PlotView](t, w).CropType)

	w = api.asOwner(t, http.MethodPost, "/plots/"+plot.ID.String()+"/sensors",
		map[string]any{"type": "soilmoisture", "label": "Sonda 1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sensor := decode[application.SensorView](t, w)

	w = api.asOwner(t, http.MethodPatch, "/sensors/"+sensor.ID.String()+"/status", map[string]any{"status": "maintenance"})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.asOwner(t, http.MethodPatch, "/sensors/"+sensor.ID.String()+"/label", map[string]any{"label": nil})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.asOwner(t, http.MethodGet, "/sensors/"+sensor.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHealth_ReportsOutbox(t *testing.T) {
	api := newTestAPI(t)
	w := api.asOwner(t, http.MethodPost, "/properties", propertyBody)
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status string         `json:"status"`
		Outbox map[string]int `json:"outbox"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 1, body.Outbox["pending"])
}

func TestListEndpoints(t *testing.T) {
	api := newTestAPI(t)
	var propertyID uuid.UUID
	for _, name := range []string{"Finca El Olivar", "Finca La Vega", "Finca Los Robles"} {
		body := map[string]any{}
		for k, v := range propertyBody {
			body[k] = v
		}
		body["name"] = name
		w := api.asOwner(t, http.MethodPost, "/properties", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		propertyID = decode[application.PropertyView](t, w).ID
	}

	w := api.asOwner(t, http.MethodPost, "/properties/"+propertyID.String()+"/plots",
		map[string]any{"name": "Parcela Alta", "cropType": "Olive", "areaHectares": 8})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	plotID := decode[application.PlotView](t, w).ID
	w = api.asOwner(t, http.MethodPost, "/plots/"+plotID.String()+"/sensors", map[string]any{"type": "Ph", "label": "Sonda Ph"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("properties paged", func(t *testing.T) {
		w := api.asOwner(t, http.MethodGet, "/properties?pageSize=2&sortBy=name&sortDirection=desc", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		page := decode[application.PropertyPage](t, w)
		assert.Equal(t, 3, page.TotalCount)
		assert.Equal(t, 2, page.PageSize)
		assert.True(t, page.HasNextPage)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "Finca Los Robles", page.Items[0].Name)
	})

	t.Run("plots of a property", func(t *testing.T) {
		w := api.asOwner(t, http.MethodGet, "/properties/"+propertyID.String()+"/plots", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		page := decode[application.PlotPage](t, w)
		require.Len(t, page.Items, 1)
		assert.Equal(t, 1, page.Items[0].SensorCount)
	})

	t.Run("plots filtered by property", func(t *testing.T) {
		w := api.asOwner(t, http.MethodGet, "/plots?propertyId="+propertyID.String()+"&cropType=olive", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 1, decode[application.PlotPage](t, w).TotalCount)
	})

	t.Run("sensors of a plot", func(t *testing.T) {
		w := api.asOwner(t, http.MethodGet, "/plots/"+plotID.String()+"/sensors?filter=sonda", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		page := decode[application.SensorPage](t, w)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Parcela Alta", page.Items[0].PlotName)
	})

	t.Run("sensors by status", func(t *testing.T) {
		w := api.asOwner(t, http.MethodGet, "/sensors?status=Inactive", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Zero(t, decode[application.SensorPage](t, w).TotalCount)
	})

	t.Run("bad query parameters", func(t *testing.T) {
		for _, path := range []string{
			"/properties?pageSize=abc",
			"/plots?propertyId=nope",
			"/sensors?plotId=42",
			"/properties/42/plots",
		} {
			w := api.asOwner(t, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, path)
		}
	})

	t.Run("stranger", func(t *testing.T) {
		headers := map[string]string{HeaderUserID: uuid.NewString(), HeaderUserRole: "Producer"}
		w := api.do(t, http.MethodGet, "/properties/"+propertyID.String()+"/plots", nil, headers)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = api.do(t, http.MethodGet, "/properties", nil, headers)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, decode[application.PropertyPage](t, w).TotalCount)
	})
}
