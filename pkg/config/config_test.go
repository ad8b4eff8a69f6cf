package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atriumhq/atrium/pkg/observability"
)

// TestGetEnv tests the getEnv helper function
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}
			assert.Equal(t, tt.want, getEnv(tt.key, tt.defaultValue))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "250ms")
	assert.Equal(t, 250*time.Millisecond, getEnvDuration("TEST_DURATION", time.Second))

	t.Setenv("TEST_DURATION_BAD", "not-a-duration")
	assert.Equal(t, time.Second, getEnvDuration("TEST_DURATION_BAD", time.Second))

	assert.Equal(t, time.Second, getEnvDuration("TEST_DURATION_UNSET", time.Second))
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("TEST_LIST", "https://a.example.com, https://b.example.com")
	assert.Equal(t,
		[]string{"https://a.example.com", "https://b.example.com"},
		getEnvList("TEST_LIST", []string{"*"}))

	assert.Equal(t, []string{"*"}, getEnvList("TEST_LIST_UNSET", []string{"*"}))
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, 500*time.Millisecond, cfg.Session.SimulatedLatency)
	assert.Equal(t, 5*time.Second, cfg.Session.ToastTTL)
	assert.NotEmpty(t, cfg.Session.StorePath)
	assert.Empty(t, cfg.Seed.File)
	assert.Equal(t, observability.InfoLevel, cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.MetricsEnabled)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ATRIUM_PORT", "8888")
	t.Setenv("ATRIUM_LOG_LEVEL", "debug")
	t.Setenv("ATRIUM_SIMULATED_LATENCY", "0s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8888", cfg.Server.Port)
	assert.Equal(t, observability.DebugLevel, cfg.Observability.LogLevel)
	assert.Zero(t, cfg.Session.SimulatedLatency)
}

func TestValidateRejectsPortClash(t *testing.T) {
	t.Setenv("ATRIUM_PORT", "9090")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be different")
}

func TestValidateSeedFile(t *testing.T) {
	t.Setenv("ATRIUM_SEED_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("organizations: []\n"), 0o644))
	t.Setenv("ATRIUM_SEED_FILE", path)

	_, err = LoadConfig()
	assert.NoError(t, err)
}
