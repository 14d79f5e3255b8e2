// Package loader bulk-inserts the scraped CSV snapshot into the catalog.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bookscape/catalog/internal/entities"
)

// BookStore is the slice of the books repository the loader writes through.
type BookStore interface {
	Count() (int64, error)
	InsertAll(books []entities.Book) error
	ReplaceAll(books []entities.Book) error
}

// Result reports what a load run did.
type Result struct {
	Loaded  int  `json:"loaded"`
	Skipped bool `json:"skipped"`
}

// Loader reads the CSV snapshot and populates the books table.
type Loader struct {
	store   BookStore
	csvPath string
}

// New creates a loader reading from csvPath.
func New(store BookStore, csvPath string) *Loader {
	return &Loader{store: store, csvPath: csvPath}
}

// Load populates the books table from the CSV snapshot. When the table
// already has rows and overwrite is false, the run is an idempotent no-op.
// With overwrite, existing rows are cleared and the snapshot inserted in one
// transaction. Any caller-supplied id column is dropped so the store assigns
// identifiers itself.
func (l *Loader) Load(overwrite bool) (*Result, error) {
	rows, err := l.readCSV()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		logrus.WithField("path", l.csvPath).Warn("the CSV file is empty, no data to populate")
		return &Result{Skipped: true}, nil
	}

	existing, err := l.store.Count()
	if err != nil {
		return nil, fmt.Errorf("count existing books: %w", err)
	}

	if existing > 0 && !overwrite {
		logrus.Warn("database already populated, use overwrite to reload data; skipping data population")
		return &Result{Skipped: true}, nil
	}

	if overwrite {
		logrus.Info("overwrite mode enabled, clearing existing data")
		if err := l.store.ReplaceAll(rows); err != nil {
			return nil, fmt.Errorf("replace books: %w", err)
		}
	} else {
		if err := l.store.InsertAll(rows); err != nil {
			return nil, fmt.Errorf("insert books: %w", err)
		}
	}

	logrus.WithField("books", len(rows)).Info("database population completed")
	return &Result{Loaded: len(rows)}, nil
}

func (l *Loader) readCSV() ([]entities.Book, error) {
	file, err := os.Open(l.csvPath)
	if err != nil {
		return nil, fmt.Errorf("CSV file not found at path %s: %w", l.csvPath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	headerIndex := make(map[string]int)
	for i, name := range header {
		headerIndex[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"title", "category", "product_url"} {
		if _, ok := headerIndex[required]; !ok {
			return nil, fmt.Errorf("csv is missing required column %q", required)
		}
	}

	var rows []entities.Book
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		get := func(column string) string {
			idx, ok := headerIndex[column]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		productURL := get("product_url")
		if productURL == "" {
			logrus.WithField("line", line).Warn("skipping row without product_url")
			continue
		}

		// The id column, when present, is intentionally ignored.
		book := entities.Book{
			Title:        get("title"),
			Price:        parseFloatField(get("price")),
			Rating:       parseIntField(get("rating")),
			Availability: parseIntField(get("availability")),
			Category:     get("category"),
			ProductURL:   productURL,
		}
		if imageURL := get("image_url"); imageURL != "" {
			book.ImageURL = &imageURL
		}
		rows = append(rows, book)
	}

	return rows, nil
}

func parseFloatField(value string) *float64 {
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseIntField(value string) *int {
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &parsed
}
