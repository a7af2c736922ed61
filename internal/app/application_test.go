package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-cms-backend/internal/config"
	"storefront-cms-backend/internal/handlers"
	"storefront-cms-backend/internal/repository"
	"storefront-cms-backend/internal/service"
	"storefront-cms-backend/pkg/cache"
)

type listOnlyService struct{ name string }

func (s listOnlyService) Name() string { return s.name }

func (s listOnlyService) List(context.Context) ([]map[string]any, error) {
	return []map[string]any{{"collection": s.name}}, nil
}

func (s listOnlyService) Get(context.Context, string) (map[string]any, error) {
	return nil, repository.ErrNotFound
}

func (s listOnlyService) Create(_ context.Context, payload map[string]any) (map[string]any, error) {
	return payload, nil
}

func (s listOnlyService) Replace(context.Context, string, map[string]any) (map[string]any, error) {
	return nil, repository.ErrNotFound
}

func (s listOnlyService) Delete(context.Context, string) error { return nil }

type staticHero struct{}

func (staticHero) Get(context.Context) (map[string]any, error) {
	return map[string]any{"title": "Welcome to Our Store"}, nil
}

func (staticHero) Update(_ context.Context, payload map[string]any) (map[string]any, error) {
	return payload, nil
}

func newTestApplication(t *testing.T, cfg *config.Config, ping error) *Application {
	t.Helper()
	gin.SetMode(gin.TestMode)

	disabled, err := cache.NewCache("", false, time.Minute)
	require.NoError(t, err)

	a := &Application{cfg: cfg, cache: disabled}
	a.services = serviceContainer{
		Auth:     service.NewAuthService("admin", "", "secret", time.Minute, time.Hour),
		Page:     listOnlyService{name: repository.PagesCollection},
		Product:  listOnlyService{name: repository.ProductsCollection},
		Category: listOnlyService{name: repository.CategoriesCollection},
		Coupon:   listOnlyService{name: repository.CouponsCollection},
		Theme:    listOnlyService{name: repository.ThemesCollection},
		Story:    listOnlyService{name: repository.StoriesCollection},
		Hero:     staticHero{},
	}
	a.initHandlers()
	a.handlers.Health = handlers.PingFunc(func(context.Context) error { return ping })

	require.NoError(t, a.initRouter())
	return a
}

func testConfig() *config.Config {
	return &config.Config{CORSOrigins: []string{"http://localhost:3000"}}
}

func request(a *Application, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

func TestRoutesReachEveryCollection(t *testing.T) {
	a := newTestApplication(t, testConfig(), nil)

	for path, collection := range map[string]string{
		"/api/pages":      repository.PagesCollection,
		"/api/products":   repository.ProductsCollection,
		"/api/categories": repository.CategoriesCollection,
		"/api/coupons":    repository.CouponsCollection,
		"/api/themes":     repository.ThemesCollection,
		"/api/stories":    repository.StoriesCollection,
	} {
		rec := request(a, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), collection, path)
	}

	rec := request(a, http.MethodGet, "/api/hero", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome to Our Store")
}

func TestTrailingSlashRedirects(t *testing.T) {
	a := newTestApplication(t, testConfig(), nil)

	rec := request(a, http.MethodGet, "/api/pages/", "")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/api/pages", rec.Header().Get("Location"))
}

func TestUnknownRouteIsJSON(t *testing.T) {
	a := newTestApplication(t, testConfig(), nil)

	rec := request(a, http.MethodGet, "/api/widgets", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "Route not found", "path": "/api/widgets"}`, rec.Body.String())
}

func TestHealthReportsDatabaseState(t *testing.T) {
	rec := request(newTestApplication(t, testConfig(), nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"up"`)

	rec = request(newTestApplication(t, testConfig(), errors.New("no reachable servers")), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"down"`)
}

func TestRequireAuthProtectsWrites(t *testing.T) {
	cfg := testConfig()
	cfg.RequireAuth = true
	a := newTestApplication(t, cfg, nil)

	assert.Equal(t, http.StatusOK, request(a, http.MethodGet, "/api/pages", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(a, http.MethodPost, "/api/pages", `{}`).Code)
	assert.Equal(t, http.StatusUnauthorized, request(a, http.MethodPut, "/api/hero", `{}`).Code)
}

func TestOpenWritesByDefault(t *testing.T) {
	a := newTestApplication(t, testConfig(), nil)

	rec := request(a, http.MethodPost, "/api/pages", `{"name": "Home"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, http.StatusNoContent, request(a, http.MethodDelete, "/api/pages/abc", "").Code)
}

func TestCacheRouteOnlyWithRedis(t *testing.T) {
	a := newTestApplication(t, testConfig(), nil)

	assert.Equal(t, http.StatusNotFound, request(a, http.MethodDelete, "/api/cache", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	a := newTestApplication(t, testConfig(), nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/pages", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
