// Package books provides database operations for the book catalog.
//
// All reads are side-effect free. Bulk writes (InsertAll, ReplaceAll) run in
// a single transaction so a failed load never leaves a partial table behind.
package books

import (
	"database/sql"
	"math"

	"gorm.io/gorm"

	"github.com/bookscape/catalog/internal/entities"
)

// StatsOverview summarizes the whole catalog.
type StatsOverview struct {
	TotalBooks         int64                `json:"total_books"`
	AveragePrice       float64              `json:"average_price"`
	RatingDistribution []RatingDistribution `json:"rating_distribution"`
}

// RatingDistribution is the book count for one rating value.
type RatingDistribution struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

// CategoryStats aggregates one category.
type CategoryStats struct {
	Category     string   `json:"category"`
	BookCount    int64    `json:"book_count"`
	AveragePrice *float64 `json:"average_price"`
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetBookByID retrieves a single book. Returns gorm.ErrRecordNotFound on miss.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// ListBooks returns books in insertion order with offset/limit pagination.
func (r *Repository) ListBooks(skip, limit int) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("id").Offset(skip).Limit(limit).Find(&books).Error
	return books, err
}

// SearchBooks filters by partial, case-insensitive title and/or category.
// Both filters combine with AND when both are given. A query matching nothing
// returns an empty slice, not an error.
func (r *Repository) SearchBooks(title, category string, limit int) ([]entities.Book, error) {
	query := r.db.Model(&entities.Book{})
	if title != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+title+"%")
	}
	if category != "" {
		query = query.Where("LOWER(category) LIKE LOWER(?)", "%"+category+"%")
	}

	var books []entities.Book
	err := query.Order("id").Limit(limit).Find(&books).Error
	return books, err
}

// GetCategories returns the distinct category names, alphabetically.
func (r *Repository) GetCategories() ([]string, error) {
	var categories []string
	err := r.db.Model(&entities.Book{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

// GetStatsOverview computes the total count, the average price rounded to two
// decimals (0.0 when no priced rows exist), and the per-rating histogram
// excluding NULL ratings.
func (r *Repository) GetStatsOverview() (*StatsOverview, error) {
	var total int64
	if err := r.db.Model(&entities.Book{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var avgPrice sql.NullFloat64
	row := r.db.Model(&entities.Book{}).Select("AVG(price)").Row()
	if err := row.Scan(&avgPrice); err != nil {
		return nil, err
	}

	var distribution []RatingDistribution
	err := r.db.Model(&entities.Book{}).
		Select("rating, COUNT(*) AS count").
		Where("rating IS NOT NULL").
		Group("rating").
		Order("rating").
		Scan(&distribution).Error
	if err != nil {
		return nil, err
	}

	overview := &StatsOverview{
		TotalBooks:         total,
		RatingDistribution: distribution,
	}
	if avgPrice.Valid {
		overview.AveragePrice = round2(avgPrice.Float64)
	}
	return overview, nil
}

// GetCategoryStats returns book count and average price per category, ordered
// by descending book count.
func (r *Repository) GetCategoryStats() ([]CategoryStats, error) {
	var stats []CategoryStats
	err := r.db.Model(&entities.Book{}).
		Select("category, COUNT(id) AS book_count, AVG(price) AS average_price").
		Group("category").
		Order("book_count DESC").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	for i := range stats {
		if stats[i].AveragePrice != nil {
			rounded := round2(*stats[i].AveragePrice)
			stats[i].AveragePrice = &rounded
		}
	}
	return stats, nil
}

// GetTopRatedBooks returns up to limit books by descending rating.
func (r *Repository) GetTopRatedBooks(limit int) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("rating DESC").Limit(limit).Find(&books).Error
	return books, err
}

// GetBooksByPriceRange returns books whose price falls within the inclusive
// range, ordered by ascending price.
func (r *Repository) GetBooksByPriceRange(minPrice, maxPrice float64, limit int) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("price BETWEEN ? AND ?", minPrice, maxPrice).
		Order("price").
		Limit(limit).
		Find(&books).Error
	return books, err
}

// GetMLFeatures returns books with both a price and a rating, the rows usable
// as model features.
func (r *Repository) GetMLFeatures(limit int) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("price IS NOT NULL AND rating IS NOT NULL").
		Order("id").
		Limit(limit).
		Find(&books).Error
	return books, err
}

// Count returns the number of books in the catalog.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// InsertAll bulk-inserts books in one transaction. Caller-supplied identifiers
// are discarded so the store assigns its own.
func (r *Repository) InsertAll(books []entities.Book) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return insertBatches(tx, books)
	})
}

// ReplaceAll clears the table and bulk-inserts the given books in the same
// transaction, so readers observe either the old rows or the new ones.
func (r *Repository) ReplaceAll(books []entities.Book) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&entities.Book{}).Error
		if err != nil {
			return err
		}
		return insertBatches(tx, books)
	})
}

func insertBatches(tx *gorm.DB, books []entities.Book) error {
	if len(books) == 0 {
		return nil
	}
	for i := range books {
		books[i].ID = 0
	}
	return tx.CreateInBatches(books, 200).Error
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
