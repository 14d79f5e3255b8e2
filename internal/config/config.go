package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Admin
		Scraping
		Tasks
		Dashboard
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Auth struct {
		SecretKey         string
		Algorithm         string
		AccessTokenExpiry time.Duration
		BcryptCost        int
	}
	Admin struct {
		Username string
		Email    string
		Password string
	}
	Scraping struct {
		BaseURL      string
		CSVPath      string
		SyncEnabled  bool
		SyncSchedule string
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Dashboard struct {
		Port     int32
		CacheTTL time.Duration
	}
)

func NewConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults. The signing secret has no default on purpose: the server
	// refuses to start without one.
	v.SetDefault("secret_key", "")
	v.SetDefault("algorithm", "HS256")
	v.SetDefault("access_token_expire_minutes", 30)
	v.SetDefault("bcrypt_cost", 12)

	// Scraping defaults
	v.SetDefault("scrape_base_url", DefaultScrapeBaseURL)
	v.SetDefault("books_csv_path", DefaultCSVPath)
	v.SetDefault("scrape_sync_enabled", false)
	v.SetDefault("scrape_sync_schedule", "0 6 * * *") // Daily at 06:00

	// Task queue defaults. A single worker serializes concurrent reload
	// triggers so two overwrite runs cannot interleave delete and insert.
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Dashboard defaults
	v.SetDefault("dashboard_port", 8501)
	v.SetDefault("dashboard_cache_ttl", "10m")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			SecretKey:         v.GetString("SECRET_KEY"),
			Algorithm:         v.GetString("ALGORITHM"),
			AccessTokenExpiry: time.Duration(v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES")) * time.Minute,
			BcryptCost:        v.GetInt("BCRYPT_COST"),
		},
		Admin: Admin{
			Username: v.GetString("INIT_ADMIN_USERNAME"),
			Email:    v.GetString("INIT_ADMIN_EMAIL"),
			Password: v.GetString("INIT_ADMIN_PASSWORD"),
		},
		Scraping: Scraping{
			BaseURL:      v.GetString("SCRAPE_BASE_URL"),
			CSVPath:      v.GetString("BOOKS_CSV_PATH"),
			SyncEnabled:  v.GetBool("SCRAPE_SYNC_ENABLED"),
			SyncSchedule: v.GetString("SCRAPE_SYNC_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Dashboard: Dashboard{
			Port:     v.GetInt32("DASHBOARD_PORT"),
			CacheTTL: v.GetDuration("DASHBOARD_CACHE_TTL"),
		},
	}
}
