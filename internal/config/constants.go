package config

const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./books-catalog.db"

	// DefaultCSVPath is where the scraper writes and the loader reads the snapshot
	DefaultCSVPath = "./data/books.csv"

	// DefaultScrapeBaseURL is the catalog site the scraper walks
	DefaultScrapeBaseURL = "https://books.toscrape.com/"
)
