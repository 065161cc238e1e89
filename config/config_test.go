package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	cfg, err := Load(writeConfig(t, "server:\n  port: 9000\n"))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.CacheTTL)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "cafe.db", cfg.Database.DSN)
	assert.Equal(t, 6, cfg.Venue.DeviceCount)
	assert.Equal(t, 10.0, cfg.Venue.HourlyRate)
	assert.Equal(t, time.Local, cfg.Venue.Location)
	assert.Equal(t, "development", cfg.Logging.Environment)
	assert.Equal(t, []string{"venue.device_count", "venue.hourly_rate"}, cfg.Defaulted)
}

func TestLoad_NothingDefaulted(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	cfg, err := Load(writeConfig(t, "venue:\n  device_count: 8\n  hourly_rate: 12.5\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Venue.DeviceCount)
	assert.Empty(t, cfg.Defaulted)
}

func TestLoad_EnvOverridesDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "host=db user=cafe dbname=cafe")
	cfg, err := Load(writeConfig(t, "database:\n  driver: postgres\n  dsn: ignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "host=db user=cafe dbname=cafe", cfg.Database.DSN)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	testCases := []struct {
		name string
		body string
	}{
		{name: "unknown driver", body: "database:\n  driver: oracle\n"},
		{name: "postgres without dsn", body: "database:\n  driver: postgres\n"},
		{name: "tax rate out of range", body: "venue:\n  tax_rate: 1.5\n"},
		{name: "bad timezone", body: "venue:\n  timezone: Mars/Olympus\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
