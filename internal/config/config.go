package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Auth
		Tasks
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Auth struct {
		SessionLifetime time.Duration
		SecureCookies   bool // Set to false for local dev without HTTPS
		CSRFSecret      string
		PinIterations   int // PBKDF2 work factor; 0 selects the default
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8388)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	v.SetDefault("auth_session_lifetime", "12h")
	v.SetDefault("auth_secure_cookies", false)
	v.SetDefault("auth_csrf_secret", "")
	v.SetDefault("auth_pin_iterations", 0)

	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "30s")
	v.SetDefault("task_timeout", "2m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("port"),
			Host: v.GetString("host"),
		},
		Database: Database{
			Path: v.GetString("database_path"),
		},
		Auth: Auth{
			SessionLifetime: v.GetDuration("auth_session_lifetime"),
			SecureCookies:   v.GetBool("auth_secure_cookies"),
			CSRFSecret:      v.GetString("auth_csrf_secret"),
			PinIterations:   v.GetInt("auth_pin_iterations"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("tasks_enabled"),
			Workers:           v.GetInt("task_workers"),
			MaxRetries:        v.GetInt("task_max_retries"),
			RetryDelay:        v.GetDuration("task_retry_delay"),
			TaskTimeout:       v.GetDuration("task_timeout"),
			ReleaseAfter:      v.GetDuration("task_release_after"),
			CleanupInterval:   v.GetDuration("task_cleanup_interval"),
			RetentionDuration: v.GetDuration("task_retention_duration"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("shutdown_timeout_in_seconds"),
		},
	}
}
