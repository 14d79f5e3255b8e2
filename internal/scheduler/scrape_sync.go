// Package scheduler runs the periodic scrape-and-reload job.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/bookscape/catalog/internal/config"
	"github.com/bookscape/catalog/internal/loader"
	"github.com/bookscape/catalog/internal/scraper"
)

// ScrapeSyncScheduler refreshes the CSV snapshot from the source site and
// reloads the catalog on a cron schedule.
type ScrapeSyncScheduler struct {
	scraper *scraper.Scraper
	loader  *loader.Loader
	cfg     config.Scraping

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
	isSyncing bool
}

// NewScrapeSyncScheduler creates a scheduler instance.
func NewScrapeSyncScheduler(s *scraper.Scraper, l *loader.Loader, cfg config.Scraping) *ScrapeSyncScheduler {
	return &ScrapeSyncScheduler{
		scraper: s,
		loader:  l,
		cfg:     cfg,
		cron:    cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler when sync is enabled.
func (s *ScrapeSyncScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.SyncEnabled {
		logrus.Info("scrape sync scheduler: disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.SyncSchedule, s.runSync)
	if err != nil {
		return fmt.Errorf("failed to schedule scrape sync %q: %w", s.cfg.SyncSchedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	logrus.WithField("schedule", s.cfg.SyncSchedule).Info("scrape sync scheduler started")
	return nil
}

// Stop halts the scheduler. A sync already in flight runs to completion.
func (s *ScrapeSyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	s.cron.Stop()
	s.isRunning = false
	logrus.Info("scrape sync scheduler stopped")
}

// runSync scrapes the site, rewrites the snapshot, and reloads the table in
// overwrite mode. Failures are logged, never raised to a caller.
func (s *ScrapeSyncScheduler) runSync() {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		logrus.Warn("scrape sync already in progress, skipping")
		return
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	records, err := s.scraper.ScrapeAll(context.Background())
	if err != nil {
		logrus.WithError(err).Error("scheduled scrape failed")
		return
	}

	if err := scraper.WriteCSV(records, s.cfg.CSVPath); err != nil {
		logrus.WithError(err).Error("scheduled scrape: writing snapshot failed")
		return
	}

	if _, err := s.loader.Load(true); err != nil {
		logrus.WithError(err).Error("scheduled reload failed")
	}
}
