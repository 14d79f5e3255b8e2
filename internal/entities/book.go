package entities

import "time"

// Book is a single catalog entry scraped from the source site.
// Rows are created by the bulk loader only; the API never writes them.
// Price, Rating, Availability and ImageURL are nullable because the source
// site omits them for some listings.
type Book struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"index;size:512" json:"title"`
	Price        *float64  `json:"price"`
	Rating       *int      `json:"rating"`
	Availability *int      `json:"availability"`
	Category     string    `gorm:"index;size:256" json:"category"`
	ImageURL     *string   `gorm:"size:2048" json:"image_url"`
	ProductURL   string    `gorm:"uniqueIndex;size:2048" json:"product_url"`
	CreatedAt    time.Time `json:"created_at"`
}
