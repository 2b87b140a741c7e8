package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/breedfetch/observe"
	"github.com/jonwraymond/breedfetch/secret"
)

// isolate points every config lookup location at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://dog.ceo/api", cfg.Catalog.BaseURL)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.Server.Auth.Enabled())
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Source)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(filepath.Join("testdata", "full.yaml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("testdata", "full.yaml"), cfg.Source)
	assert.Equal(t, "http://localhost:9000/api", cfg.Catalog.BaseURL)
	assert.True(t, cfg.Catalog.DisableFallback)
	assert.Equal(t, 2*time.Second, cfg.Catalog.Resilience.Timeout)
	assert.Equal(t, 3, cfg.Catalog.Resilience.MaxFailures)
	assert.Equal(t, time.Minute, cfg.Catalog.Resilience.ResetTimeout)
	// Untouched keys keep their defaults.
	assert.Equal(t, 5, cfg.Catalog.Resilience.Burst)
	assert.Equal(t, "breedfetch", cfg.Observe.ServiceName)
	assert.True(t, cfg.Observe.Metrics.Enabled)

	assert.True(t, cfg.Cache.SingleFlight)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	require.Len(t, cfg.Server.Auth.APIKeys, 1)
	assert.Equal(t, []string{"breeds:read"}, cfg.Server.Auth.APIKeys[0].Scopes)
	assert.True(t, cfg.Server.Auth.Enabled())
	assert.Equal(t, "none", cfg.Observe.Metrics.Exporter)
	assert.Equal(t, "debug", cfg.Observe.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(filepath.Join("testdata", "broken.yaml"))
	assert.Error(t, err)
}

func TestLocate(t *testing.T) {
	dir := isolate(t)

	_, ok := Locate()
	assert.False(t, ok)

	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  single_flight: true\n"), 0o600))
	got, ok := Locate()
	require.True(t, ok)
	assert.Equal(t, path, got)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Cache.SingleFlight)

	t.Setenv(EnvPath, "/explicit/breedfetch.yaml")
	got, ok = Locate()
	require.True(t, ok)
	assert.Equal(t, "/explicit/breedfetch.yaml", got)
}

func TestResolve(t *testing.T) {
	isolate(t)
	t.Setenv("BREEDFETCH_TEST_TOKEN", "catalog-token")
	t.Setenv("BREEDFETCH_TEST_KEY", "api-key-1")

	cfg, err := Load(filepath.Join("testdata", "full.yaml"))
	require.NoError(t, err)

	r, err := secret.NewBuiltinResolver(secret.DefaultRegistry)
	require.NoError(t, err)
	require.NoError(t, cfg.Resolve(context.Background(), r))

	assert.Equal(t, "catalog-token", cfg.Catalog.Token)
	assert.Equal(t, "api-key-1", cfg.Server.Auth.APIKeys[0].Key)
	assert.NoError(t, cfg.Validate())
}

func TestResolve_MissingEnv(t *testing.T) {
	isolate(t)

	cfg, err := Load(filepath.Join("testdata", "full.yaml"))
	require.NoError(t, err)

	err = cfg.Resolve(context.Background(), secret.NewResolver(true, secret.NewEnvProvider("")))
	assert.ErrorIs(t, err, secret.ErrMissingEnv)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	isolate(t)

	cfg, err := Load(filepath.Join("testdata", "invalid.yaml"))
	require.NoError(t, err)

	err = cfg.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, observe.ErrInvalidTracingExporter)
	for _, want := range []string{"catalog.base_url", "limits must not be negative", "server.addr", "api_keys[0]"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestConversions(t *testing.T) {
	cfg := Defaults()

	rc := cfg.ResilienceConfig()
	assert.Equal(t, 10*time.Second, rc.Timeout)
	assert.Equal(t, 8, rc.MaxConcurrent)

	oc := cfg.ObserveConfig()
	assert.Equal(t, "breedfetch", oc.ServiceName)
	assert.Equal(t, "prometheus", oc.Metrics.Exporter)
	assert.True(t, oc.Logging.Enabled)
}
