// Package dashboard serves an HTML view of the catalog with summary
// figures, charts and a browsable table. It reads the books table
// directly and caches a full snapshot for a configurable TTL so page
// loads do not hammer the database.
package dashboard

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/bookscape/catalog/internal/entities"
)

// BookSource provides the rows the dashboard renders.
type BookSource interface {
	Count() (int64, error)
	ListBooks(skip, limit int) ([]entities.Book, error)
}

// CategoryCount is a category paired with how many books it holds.
type CategoryCount struct {
	Category string
	Count    int
}

// Snapshot is one cached read of the whole catalog plus the aggregates
// the dashboard pages display.
type Snapshot struct {
	Books   []entities.Book
	TakenAt time.Time

	TotalBooks    int
	AveragePrice  float64
	AverageRating float64
	CategoryCount int

	// PriceBuckets holds counts for [0,10), [10,20) ... [50,60+].
	PriceBuckets []int
	PriceLabels  []string
	// RatingCounts[i] is the number of books rated i+1.
	RatingCounts  [5]int
	TopCategories []CategoryCount
}

const (
	priceBucketWidth = 10.0
	priceBucketCount = 6
	topCategoryLimit = 15
)

// Cache hands out snapshots, rebuilding one when the previous read is
// older than the TTL.
type Cache struct {
	source BookSource
	ttl    time.Duration

	mu   sync.Mutex
	snap *Snapshot
}

func NewCache(source BookSource, ttl time.Duration) *Cache {
	return &Cache{source: source, ttl: ttl}
}

// Snapshot returns the cached snapshot, refreshing it first when stale.
func (c *Cache) Snapshot() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap != nil && time.Since(c.snap.TakenAt) < c.ttl {
		return c.snap, nil
	}

	snap, err := c.build()
	if err != nil {
		// Serve the stale snapshot rather than an error page when we have one.
		if c.snap != nil {
			return c.snap, nil
		}
		return nil, err
	}

	c.snap = snap
	return snap, nil
}

// Invalidate drops the cached snapshot so the next read hits the database.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
}

func (c *Cache) build() (*Snapshot, error) {
	total, err := c.source.Count()
	if err != nil {
		return nil, err
	}

	books, err := c.source.ListBooks(0, int(total))
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Books:        books,
		TakenAt:      time.Now(),
		TotalBooks:   len(books),
		PriceBuckets: make([]int, priceBucketCount),
		PriceLabels:  priceLabels(),
	}

	var priceSum float64
	var priced int
	var ratingSum int
	var rated int
	categories := make(map[string]int)

	for _, b := range books {
		if b.Category != "" {
			categories[b.Category]++
		}
		if b.Price != nil {
			priceSum += *b.Price
			priced++
			snap.PriceBuckets[priceBucket(*b.Price)]++
		}
		if b.Rating != nil && *b.Rating >= 1 && *b.Rating <= 5 {
			ratingSum += *b.Rating
			rated++
			snap.RatingCounts[*b.Rating-1]++
		}
	}

	if priced > 0 {
		snap.AveragePrice = round2(priceSum / float64(priced))
	}
	if rated > 0 {
		snap.AverageRating = round2(float64(ratingSum) / float64(rated))
	}
	snap.CategoryCount = len(categories)
	snap.TopCategories = topCategories(categories, topCategoryLimit)

	return snap, nil
}

func priceBucket(price float64) int {
	idx := int(price / priceBucketWidth)
	if idx < 0 {
		return 0
	}
	if idx >= priceBucketCount {
		return priceBucketCount - 1
	}
	return idx
}

func priceLabels() []string {
	labels := make([]string, priceBucketCount)
	for i := 0; i < priceBucketCount; i++ {
		lo := int(float64(i) * priceBucketWidth)
		hi := int(float64(i+1) * priceBucketWidth)
		if i == priceBucketCount-1 {
			labels[i] = fmt.Sprintf("£%d+", lo)
		} else {
			labels[i] = fmt.Sprintf("£%d-%d", lo, hi)
		}
	}
	return labels
}

func topCategories(counts map[string]int, limit int) []CategoryCount {
	out := make([]CategoryCount, 0, len(counts))
	for category, count := range counts {
		out = append(out, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
