package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/tirechange-hub/internal/catalog"
	appconfig "github.com/wolfman30/tirechange-hub/internal/config"
	"github.com/wolfman30/tirechange-hub/pkg/logging"
)

const xmlVendorDoc = `{
  "info": {"title": "London tire workshop", "version": "1.0"},
  "host": "localhost:9003",
  "basePath": "/api/v1",
  "paths": {
    "/tire-change-times/available": {"get": {"consumes": ["text/xml"]}},
    "/tire-change-times/{uuid}/booking": {"put": {"consumes": ["text/xml"]}}
  }
}`

func servicesDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "london_doc.json"), []byte(xmlVendorDoc), 0o600))
	return dir
}

func TestBuildRedisClient_Disabled(t *testing.T) {
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{}, logging.Discard(), true))
	assert.Nil(t, BuildRedisClient(context.Background(), nil, logging.Discard(), true))
}

func TestBuildRedisClient_VerifiesConnection(t *testing.T) {
	mr := miniredis.RunT(t)
	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, logging.Discard(), true)
	require.NotNil(t, client)
	_ = client.Close()

	addr := mr.Addr()
	mr.Close()
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: addr}, logging.Discard(), true))
}

func TestBuildAvailabilityCache_RequiresTTL(t *testing.T) {
	mr := miniredis.RunT(t)

	cache, client := BuildAvailabilityCache(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, logging.Discard())
	assert.Nil(t, cache)
	assert.Nil(t, client)

	cache, client = BuildAvailabilityCache(context.Background(), &appconfig.Config{RedisAddr: mr.Addr(), AvailabilityCacheTTL: time.Minute}, logging.Discard())
	require.NotNil(t, cache)
	require.NotNil(t, client)
	_ = client.Close()
}

func TestBuild_WiresHealthAndLocations(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &appconfig.Config{
		ServicesDir:          servicesDir(t),
		ServiceInfoFile:      "service_info.yaml",
		RedisAddr:            mr.Addr(),
		AvailabilityCacheTTL: time.Minute,
	}

	rt, err := Build(context.Background(), cfg, logging.Discard(), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	assert.Equal(t, 1, rt.Catalog.Len())

	rr := httptest.NewRecorder()
	rt.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","vendors":1}`, rr.Body.String())

	rr = httptest.NewRecorder()
	rt.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/locations", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), catalog.DefaultAddress)
}

func TestBuild_MissingServicesDir(t *testing.T) {
	cfg := &appconfig.Config{ServicesDir: filepath.Join(t.TempDir(), "missing")}
	_, err := Build(context.Background(), cfg, logging.Discard(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrServicesDirNotFound)
}
