// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/snapshots"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/utils"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	DataDir        string // Base directory for the snapshot database (always absolute)
	Port           int
	LogLevel       string
	LogPretty      bool
	AllowedOrigins []string

	HoldingsFile   string // Resolved against DataDir when relative
	MarketDataFile string // Resolved against DataDir when relative

	RefreshSchedule      string // cron expression, empty disables scheduled refreshes
	SnapshotWeekday      string
	SnapshotHistoryLimit int
	FetchTimeout         time.Duration
	FallbackFXRate       float64

	Backup *BackupConfig
}

// BackupConfig holds S3 backup configuration
type BackupConfig struct {
	Schedule        string // cron expression, empty disables scheduled backups
	Bucket          string
	Endpoint        string // Custom endpoint for S3-compatible stores (R2, MinIO)
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

// Enabled reports whether backups can run at all
func (b *BackupConfig) Enabled() bool {
	return b != nil && b.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir, err := filepath.Abs(getEnv("DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:              dataDir,
		Port:                 getEnvAsInt("PORT", 8001),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogPretty:            getEnvAsBool("LOG_PRETTY", true),
		AllowedOrigins:       utils.ParseCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		HoldingsFile:         resolvePath(dataDir, getEnv("HOLDINGS_FILE", "holdings.yaml")),
		MarketDataFile:       resolvePath(dataDir, getEnv("MARKET_DATA_FILE", "market.json")),
		RefreshSchedule:      os.Getenv("REFRESH_SCHEDULE"),
		SnapshotWeekday:      getEnv("SNAPSHOT_WEEKDAY", "friday"),
		SnapshotHistoryLimit: getEnvAsInt("SNAPSHOT_HISTORY_LIMIT", snapshots.DefaultHistoryLimit),
		FetchTimeout:         time.Duration(getEnvAsInt("FETCH_TIMEOUT", 30)) * time.Second,
		FallbackFXRate:       getEnvAsFloat("FALLBACK_FX_RATE", 35.0),
		Backup:               loadBackupConfig(),
	}
	if _, ok := os.LookupEnv("REFRESH_SCHEDULE"); !ok {
		cfg.RefreshSchedule = "0 18 * * 1-5"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DatabasePath returns the path of the snapshot database
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "portfolio.db")
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.FallbackFXRate <= 0 {
		return fmt.Errorf("FALLBACK_FX_RATE must be positive, got %g", c.FallbackFXRate)
	}
	if c.SnapshotHistoryLimit < 2 {
		return fmt.Errorf("SNAPSHOT_HISTORY_LIMIT must be at least 2, got %d", c.SnapshotHistoryLimit)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if _, err := snapshots.ParseWeekday(c.SnapshotWeekday); err != nil {
		return fmt.Errorf("invalid SNAPSHOT_WEEKDAY: %w", err)
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for key, spec := range map[string]string{
		"REFRESH_SCHEDULE": c.RefreshSchedule,
		"BACKUP_SCHEDULE":  c.Backup.Schedule,
	} {
		if spec == "" {
			continue
		}
		if _, err := parser.Parse(spec); err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, spec, err)
		}
	}

	if c.Backup.Schedule != "" && !c.Backup.Enabled() {
		return fmt.Errorf("BACKUP_SCHEDULE is set but S3_BUCKET is empty")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func loadBackupConfig() *BackupConfig {
	prefix := getEnv("S3_PREFIX", "portfolio-dashboard/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &BackupConfig{
		Schedule:        os.Getenv("BACKUP_SCHEDULE"),
		Bucket:          os.Getenv("S3_BUCKET"),
		Endpoint:        os.Getenv("S3_ENDPOINT"),
		Region:          getEnv("S3_REGION", "auto"),
		AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		Prefix:          prefix,
	}
}
