package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/sirupsen/logrus"

	"github.com/bookscape/catalog/internal/loader"
)

// LoadBooksTask loads the CSV snapshot into the books table.
type LoadBooksTask struct {
	Overwrite bool `json:"overwrite"`
}

// Config returns the queue configuration for catalog load tasks.
// MaxAttempts is 1: a failed load is observable through the task status and
// is never retried automatically.
func (t LoadBooksTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "load_books",
		MaxAttempts: 1,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// LoadBooksProcessor creates a processor that runs the CSV loader.
func LoadBooksProcessor(l *loader.Loader) backlite.QueueProcessor[LoadBooksTask] {
	return func(ctx context.Context, task LoadBooksTask) error {
		if l == nil {
			return fmt.Errorf("loader not configured")
		}

		result, err := l.Load(task.Overwrite)
		if err != nil {
			return fmt.Errorf("load books (overwrite=%t): %w", task.Overwrite, err)
		}

		if result.Skipped {
			logrus.Info("[task] load skipped, table already populated")
		} else {
			logrus.WithField("books", result.Loaded).Info("[task] load completed")
		}
		return nil
	}
}

// NewLoadBooksQueue creates the backlite queue for catalog load tasks.
func NewLoadBooksQueue(l *loader.Loader) backlite.Queue {
	return backlite.NewQueue(LoadBooksProcessor(l))
}
