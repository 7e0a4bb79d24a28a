package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPPort)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "jobdesk.db", cfg.SQLitePath)
	assert.Equal(t, "ORG", cfg.ReferencePrefix)
	assert.Equal(t, "HOD", cfg.DecisionActor)
	assert.Equal(t, "Digital Comms Team", cfg.TeamActor)
	assert.Equal(t, time.Minute, cfg.MonitorInterval)
	assert.False(t, cfg.StrictTransitions)
	assert.False(t, cfg.EventsEnabled)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", " Memory ")
	t.Setenv("REFERENCE_PREFIX", "QIU")
	t.Setenv("STRICT_TRANSITIONS", "true")
	t.Setenv("MONITOR_INTERVAL", "30s")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "QIU", cfg.ReferencePrefix)
	assert.True(t, cfg.StrictTransitions)
	assert.Equal(t, 30*time.Second, cfg.MonitorInterval)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestParseRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"driver":   {"STORE_DRIVER", "mongo"},
		"prefix":   {"REFERENCE_PREFIX", " "},
		"interval": {"MONITOR_INTERVAL", "0s"},
		"duration": {"MONITOR_INTERVAL", "soon"},
		"timezone": {"TIMEZONE", "Mars/Olympus"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("JOBDESK_TEST_KEY=from-file\n"), 0o600))
	t.Setenv("JOBDESK_TEST_KEY", "")
	require.NoError(t, os.Unsetenv("JOBDESK_TEST_KEY"))

	n, err := LoadEnv([]string{path, filepath.Join(dir, ".env.local")})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "from-file", os.Getenv("JOBDESK_TEST_KEY"))

	n, err = LoadEnv([]string{filepath.Join(dir, "nope")})
	require.NoError(t, err)
	assert.Zero(t, n)
}
