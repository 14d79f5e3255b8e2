// Package scraper walks the source catalog site and produces the CSV snapshot
// consumed by the loader.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

const userAgent = "CatalogScraper/1.0 (+https://github.com/bookscape/catalog)"

var (
	ratingWords = map[string]int{
		"One": 1, "Two": 2, "Three": 3, "Four": 4, "Five": 5,
	}
	nonPriceChars = regexp.MustCompile(`[^\d.]`)
	firstNumber   = regexp.MustCompile(`\d+`)
)

// Record is one scraped listing. The identifier is intentionally absent: the
// store assigns identifiers, never the ingestion path.
type Record struct {
	Title        string
	Price        *float64
	Rating       *int
	Availability *int
	Category     string
	ImageURL     string
	ProductURL   string
}

// Scraper fetches and parses the catalog site.
type Scraper struct {
	client  *http.Client
	baseURL string
}

// New creates a scraper rooted at the given site URL.
func New(baseURL string) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
	}
}

type category struct {
	Name string
	URL  string
}

// ScrapeAll walks every category and every listing page within it. Any HTTP
// failure aborts the whole run.
func (s *Scraper) ScrapeAll(ctx context.Context) ([]Record, error) {
	categories, err := s.extractCategories(ctx)
	if err != nil {
		return nil, err
	}

	var all []Record
	for _, cat := range categories {
		logrus.WithField("category", cat.Name).Info("scraping category")
		records, err := s.scrapeCategory(ctx, cat)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", cat.Name, err)
		}
		all = append(all, records...)
	}

	logrus.WithField("books", len(all)).Info("scraping completed")
	return all, nil
}

func (s *Scraper) extractCategories(ctx context.Context) ([]category, error) {
	doc, err := s.fetchDocument(ctx, s.baseURL)
	if err != nil {
		return nil, err
	}

	var categories []category
	doc.Find(".side_categories ul li ul li a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		categories = append(categories, category{
			Name: strings.TrimSpace(sel.Text()),
			URL:  resolveURL(s.baseURL, href),
		})
	})
	return categories, nil
}

// scrapeCategory paginates through a category's listing pages following the
// "next" link until it is absent.
func (s *Scraper) scrapeCategory(ctx context.Context, cat category) ([]Record, error) {
	var records []Record
	nextURL := cat.URL

	for nextURL != "" {
		doc, err := s.fetchDocument(ctx, nextURL)
		if err != nil {
			return nil, err
		}

		pageURL := nextURL
		doc.Find("article.product_pod").Each(func(_ int, sel *goquery.Selection) {
			records = append(records, s.extractBook(sel, cat.Name, pageURL))
		})

		nextURL = ""
		if href, ok := doc.Find("li.next a").Attr("href"); ok {
			nextURL = resolveURL(pageURL, href)
		}
	}

	return records, nil
}

func (s *Scraper) extractBook(sel *goquery.Selection, categoryName, pageURL string) Record {
	record := Record{Category: categoryName}

	link := sel.Find("h3 a")
	record.Title = strings.TrimSpace(link.AttrOr("title", ""))
	if href, ok := link.Attr("href"); ok {
		record.ProductURL = resolveURL(pageURL, href)
	}

	record.Price = parsePrice(sel.Find("p.price_color").Text())
	record.Rating = parseRating(sel.Find("p.star-rating"))
	record.Availability = parseAvailability(sel.Find("p.instock.availability").Text())

	if src, ok := sel.Find("div.image_container img").Attr("src"); ok {
		record.ImageURL = resolveURL(pageURL, src)
	}

	return record
}

func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// parsePrice strips currency symbols and keeps digits and the decimal point.
func parsePrice(text string) *float64 {
	cleaned := nonPriceChars.ReplaceAllString(strings.TrimSpace(text), "")
	if cleaned == "" {
		return nil
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &price
}

// parseRating maps the word in the star-rating class list to 1-5.
func parseRating(sel *goquery.Selection) *int {
	classes := strings.Fields(sel.AttrOr("class", ""))
	for _, class := range classes {
		if rating, ok := ratingWords[class]; ok {
			return &rating
		}
	}
	return nil
}

// parseAvailability extracts the unit count from text like
// "In stock (19 available)". Text without a number yields nil.
func parseAvailability(text string) *int {
	match := firstNumber.FindString(text)
	if match == "" {
		return nil
	}
	count, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &count
}

func resolveURL(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
