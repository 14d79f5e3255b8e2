package entrypoint

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bookscape/catalog/internal/config"
	"github.com/bookscape/catalog/internal/database"
	"github.com/bookscape/catalog/internal/database/books"
	"github.com/bookscape/catalog/internal/database/users"
	http_controllers "github.com/bookscape/catalog/internal/http"
	"github.com/bookscape/catalog/internal/loader"
	"github.com/bookscape/catalog/internal/scheduler"
	"github.com/bookscape/catalog/internal/scraper"
	"github.com/bookscape/catalog/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until interrupted, then shuts down gracefully.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		logrus.Infof("starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("listen: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Infof("shutting down server, waiting up to %v", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background workers before the listener so in-flight loads finish.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("server shutdown: %v", err)
	}

	logrus.Info("server exiting")
}

// Run wires the whole API process together and serves it.
func Run(cfg *config.Config, version string) {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.Infof("starting catalog API v%s", version)

	if cfg.Auth.SecretKey == "" {
		logrus.Fatal("SECRET_KEY is not set; refusing to start without a token signing secret")
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logrus.Fatalf("failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logrus.Errorf("error closing database: %v", err)
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB, cfg.Auth.BcryptCost)
	csvLoader := loader.New(bookRepo, cfg.Scraping.CSVPath)

	// Task queue for admin-triggered background loads.
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			logrus.Fatalf("failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				logrus.Errorf("error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewLoadBooksQueue(csvLoader))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Optional periodic scrape-and-reload.
	scrapeScheduler := scheduler.NewScrapeSyncScheduler(
		scraper.New(cfg.Scraping.BaseURL),
		csvLoader,
		cfg.Scraping,
	)
	if err := scrapeScheduler.Start(); err != nil {
		logrus.Fatalf("failed to start scrape scheduler: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:   db,
		Books:      bookRepo,
		Users:      userRepo,
		AuthConfig: cfg.Auth,
		TaskClient: taskClient,
	})

	onShutdown := func(ctx context.Context) {
		scrapeScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
