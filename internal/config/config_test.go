package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "data/packages.csv", cfg.Data.Packages)
	assert.Equal(t, 16, cfg.Fleet.Capacity)
	assert.InDelta(t, 18.0, cfg.Fleet.SpeedMPH, 1e-9)
	assert.Equal(t, 9, cfg.Loading.MinEarlyLoad)
	assert.Equal(t, "09:05", cfg.Loading.EarlyReturnCutoff)
	assert.Equal(t, "9", cfg.Correction.PackageID)
	assert.Equal(t, "410 S State St", cfg.Correction.Address().Street)
	assert.Equal(t, "8080", cfg.Server.Port)

	start, err := cfg.Day.StartTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC), start)
}

func TestLoadYAMLWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "config.yaml", `store:
  backend: sqlite
  dsn: /tmp/records.db
day:
  date: "2024-03-15"
  start: "07:30"
fleet:
  capacity: 12
loading:
  min_early_load: 8
  early_return_cutoff: "9:30 am"
correction:
  disabled: true
`)
	t.Setenv("DRS_FLEET__SPEED_MPH", "25")
	t.Setenv("DRS_SERVER__PORT", "9000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/records.db", cfg.Store.DSN)
	assert.Equal(t, 12, cfg.Fleet.Capacity)
	assert.InDelta(t, 25.0, cfg.Fleet.SpeedMPH, 1e-9)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 8, cfg.Loading.MinEarlyLoad)
	assert.True(t, cfg.Correction.Disabled)
	assert.Empty(t, cfg.Correction.PackageID)

	start, err := cfg.Day.StartTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 7, 30, 0, 0, time.UTC), start)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"store": {"backend": "redis", "redis_addr": "cache:6379"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	assert.Equal(t, "delivery:package_records", cfg.Store.RedisKey)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{name: "unknown backend", file: "c.yaml", data: "store:\n  backend: mongo\n"},
		{name: "postgres without dsn", file: "c.yaml", data: "store:\n  backend: postgres\n"},
		{name: "bad date", file: "c.yaml", data: "day:\n  date: yesterday\n"},
		{name: "shared truck ids", file: "c.yaml", data: "fleet:\n  early_truck: 2\n"},
		{name: "bad cutoff", file: "c.yaml", data: "loading:\n  early_return_cutoff: soon\n"},
		{name: "bad correction time", file: "c.yaml", data: "correction:\n  at: later\n"},
		{name: "unsupported format", file: "c.toml", data: "x = 1\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.file, tc.data))
			assert.Error(t, err)
		})
	}
}

func TestGet(t *testing.T) {
	t.Setenv("DRS_TEST_SEED", " seeds.csv ")
	assert.Equal(t, "seeds.csv", Get("DRS_TEST_SEED", "x"))
	assert.Equal(t, "fallback", Get("DRS_TEST_MISSING", "fallback"))
}
