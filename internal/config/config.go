package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		Database
		Auth
		Activity
		Recommendations
		Tasks
		Maintenance
		Logging
		Global
	}

	Database struct {
		Driver          string // "sqlite" or "postgres"
		URL             string // file path for sqlite, DSN for postgres
		MaxIdleConns    int
		MaxOpenConns    int
		ConnMaxLifetime time.Duration
		LogQueries      bool // Log every SQL statement (noisy, dev only)
	}
	Auth struct {
		BcryptCost        int
		MinPasswordLength int
	}
	Activity struct {
		RetentionDays int // Days to keep user activity and audit rows (default: 90)
	}
	Recommendations struct {
		TTL       time.Duration // Cached recommendations older than this are stale
		MaxTracks int           // Upper bound on cached track IDs per user
	}
	Tasks struct {
		Enabled         bool
		DBPath          string // Queue database file; empty derives it from the main database
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Maintenance struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
	Logging struct {
		Level  string // trace, debug, info, warn, error
		Format string // "console" or "json"
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("shutdown_timeout_in_seconds", 30)

	// Database defaults
	v.SetDefault("database_driver", DefaultDatabaseDriver)
	v.SetDefault("database_url", DefaultDatabasePath)
	v.SetDefault("database_max_idle_conns", 10)
	v.SetDefault("database_max_open_conns", 100)
	v.SetDefault("database_conn_max_lifetime", "1h")
	v.SetDefault("database_log_queries", false)

	// Auth defaults
	v.SetDefault("auth_bcrypt_cost", 12) // bcrypt cost factor
	v.SetDefault("auth_min_password_length", 8)

	// Activity retention defaults
	v.SetDefault("activity_retention_days", 90)

	// Recommendations cache defaults
	v.SetDefault("recommendations_ttl", "60m")
	v.SetDefault("recommendations_max_tracks", 25)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_db_path", "")
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Maintenance schedule defaults
	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", "0 * * * *") // Hourly at :00

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	return &Config{
		Database: Database{
			Driver:          v.GetString("DATABASE_DRIVER"),
			URL:             v.GetString("DATABASE_URL"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
			LogQueries:      v.GetBool("DATABASE_LOG_QUERIES"),
		},
		Auth: Auth{
			BcryptCost:        v.GetInt("AUTH_BCRYPT_COST"),
			MinPasswordLength: v.GetInt("AUTH_MIN_PASSWORD_LENGTH"),
		},
		Activity: Activity{
			RetentionDays: v.GetInt("ACTIVITY_RETENTION_DAYS"),
		},
		Recommendations: Recommendations{
			TTL:       v.GetDuration("RECOMMENDATIONS_TTL"),
			MaxTracks: v.GetInt("RECOMMENDATIONS_MAX_TRACKS"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			DBPath:          v.GetString("TASK_DB_PATH"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Maintenance: Maintenance{
			Enabled:  v.GetBool("MAINTENANCE_ENABLED"),
			Schedule: v.GetString("MAINTENANCE_SCHEDULE"),
		},
		Logging: Logging{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
