package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, filepath.Join(dir, "holdings.yaml"), cfg.HoldingsFile)
	assert.Equal(t, filepath.Join(dir, "market.json"), cfg.MarketDataFile)
	assert.Equal(t, "0 18 * * 1-5", cfg.RefreshSchedule)
	assert.Equal(t, "friday", cfg.SnapshotWeekday)
	assert.Equal(t, 52, cfg.SnapshotHistoryLimit)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 35.0, cfg.FallbackFXRate)
	assert.False(t, cfg.Backup.Enabled())
	assert.Equal(t, "portfolio-dashboard/", cfg.Backup.Prefix)
	assert.Equal(t, filepath.Join(dir, "portfolio.db"), cfg.DatabasePath())
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("PORT", "9090")
	t.Setenv("HOLDINGS_FILE", "/etc/portfolio/holdings.toml")
	t.Setenv("REFRESH_SCHEDULE", "")
	t.Setenv("SNAPSHOT_WEEKDAY", "any")
	t.Setenv("FALLBACK_FX_RATE", "38.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://dash.example.com")
	t.Setenv("S3_BUCKET", "backups")
	t.Setenv("S3_PREFIX", "nightly")
	t.Setenv("BACKUP_SCHEDULE", "@daily")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/etc/portfolio/holdings.toml", cfg.HoldingsFile)
	assert.Empty(t, cfg.RefreshSchedule, "an explicitly empty schedule disables refreshes")
	assert.Equal(t, "any", cfg.SnapshotWeekday)
	assert.Equal(t, 38.5, cfg.FallbackFXRate)
	assert.Equal(t, []string{"http://localhost:3000", "https://dash.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Backup.Enabled())
	assert.Equal(t, "nightly/", cfg.Backup.Prefix)
	assert.Equal(t, "@daily", cfg.Backup.Schedule)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:                 8001,
			SnapshotWeekday:      "friday",
			SnapshotHistoryLimit: 52,
			FetchTimeout:         time.Second,
			FallbackFXRate:       35,
			RefreshSchedule:      "0 18 * * 1-5",
			Backup:               &BackupConfig{},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Port = 0 }, "PORT"},
		{"bad fx", func(c *Config) { c.FallbackFXRate = 0 }, "FALLBACK_FX_RATE"},
		{"short history", func(c *Config) { c.SnapshotHistoryLimit = 1 }, "SNAPSHOT_HISTORY_LIMIT"},
		{"bad weekday", func(c *Config) { c.SnapshotWeekday = "someday" }, "SNAPSHOT_WEEKDAY"},
		{"bad cron", func(c *Config) { c.RefreshSchedule = "every day" }, "REFRESH_SCHEDULE"},
		{"backup without bucket", func(c *Config) { c.Backup.Schedule = "@daily" }, "S3_BUCKET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
