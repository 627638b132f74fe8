package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/services"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/dto"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/events"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/handlers"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/platform/config"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/repositories/database/migrations"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/repositories/database/sqlite"
	"github.com/LakshyaPuripanda/fenmo-expense-tracker/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(t.TempDir(), "expenses.db")
	require.NoError(t, migrations.RunSQLite(dbPath))
	db, err := database.NewSQLiteDB(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	container := services.NewServiceContainer(sqlite.NewRepositoryProvider(db), events.NoopPublisher{})
	r := gin.New()
	handlers.RegisterRoutes(r, &config.Config{IsProduction: true}, container)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func listIDs(t *testing.T, r *gin.Engine, query string) []string {
	t.Helper()
	w := serve(r, http.MethodGet, "/expenses"+query, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []dto.ExpenseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	ids := make([]string, len(list))
	for i, e := range list {
		ids[i] = e.ID
	}
	return ids
}

func TestRoutes_IdempotentCreateOverHTTP(t *testing.T) {
	r := newSQLiteRouter(t)
	body := `{"amount":12.5,"category":"Food","date":"2024-03-01","idempotencyKey":"K"}`

	first := serve(r, http.MethodPost, "/expenses", body)
	require.Equal(t, http.StatusOK, first.Code)

	retry := serve(r, http.MethodPost, "/expenses", `{"amount":99,"category":"Other","date":"2024-01-01","idempotencyKey":"K"}`)
	require.Equal(t, http.StatusOK, retry.Code)
	assert.Equal(t, "true", retry.Header().Get(handlers.IdempotentReplayedHeader))
	assert.JSONEq(t, first.Body.String(), retry.Body.String())

	var created dto.ExpenseResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &created))
	assert.Equal(t, "K", created.ID)
	assert.Equal(t, int64(1250), created.Amount)
	assert.Equal(t, "", created.Description)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`, created.CreatedAt)

	assert.Equal(t, []string{"K"}, listIDs(t, r, ""))
}

func TestRoutes_MissingFieldLeavesStoreUntouched(t *testing.T) {
	r := newSQLiteRouter(t)

	w := serve(r, http.MethodPost, "/expenses", `{"category":"Food","date":"2024-03-01"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "amount")
	assert.Empty(t, listIDs(t, r, ""))
}

func TestRoutes_ListFilterSortUpdateDelete(t *testing.T) {
	r := newSQLiteRouter(t)

	for _, body := range []string{
		`{"amount":1,"category":"Food","date":"2024-01-01","idempotencyKey":"a"}`,
		`{"amount":2,"category":"Travel","date":"2024-03-01","idempotencyKey":"b"}`,
		`{"amount":3,"category":"Food","date":"2024-02-01","idempotencyKey":"c"}`,
	} {
		require.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/expenses", body).Code)
	}

	assert.Equal(t, []string{"a", "b", "c"}, listIDs(t, r, ""))
	assert.Equal(t, []string{"b", "c", "a"}, listIDs(t, r, "?sort=date_desc"))
	assert.Equal(t, []string{"c", "a"}, listIDs(t, r, "?category=Food&sort=date_desc"))

	w := serve(r, http.MethodGet, "/expenses/summary?category=Food", "")
	assert.JSONEq(t, `{"count":2,"total":400}`, w.Body.String())

	w = serve(r, http.MethodPut, "/expenses/a", `{"amount":0.1,"category":"Travel","date":"2024-01-05"}`)
	assert.JSONEq(t, `{"updated":1}`, w.Body.String())
	w = serve(r, http.MethodPut, "/expenses/missing", `{"amount":0.1,"category":"Travel","date":"2024-01-05"}`)
	assert.JSONEq(t, `{"updated":0}`, w.Body.String())

	w = serve(r, http.MethodGet, "/expenses/a", "")
	require.Equal(t, http.StatusOK, w.Code)
	var updated dto.ExpenseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, int64(10), updated.Amount)
	assert.Equal(t, "Travel", updated.Category)

	w = serve(r, http.MethodDelete, "/expenses/b", "")
	assert.JSONEq(t, `{"deleted":1}`, w.Body.String())
	w = serve(r, http.MethodDelete, "/expenses/b", "")
	assert.JSONEq(t, `{"deleted":0}`, w.Body.String())

	assert.Equal(t, []string{"a", "c"}, listIDs(t, r, ""))
}

func TestRoutes_HomeAndHealth(t *testing.T) {
	r := newSQLiteRouter(t)

	w := serve(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, handlers.HomeBanner, w.Body.String())

	w = serve(r, http.MethodGet, "/health", "")
	assert.Equal(t, "OK", w.Body.String())

	w = serve(r, http.MethodGet, "/swagger/index.html", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
