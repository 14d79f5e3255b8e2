package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bookscape/catalog/internal/database/books"
)

// searchTermMinLength is the shortest accepted search filter.
const searchTermMinLength = 3

// defaultListLimit matches the original pagination default.
const defaultListLimit = 100

type BooksController struct {
	repo *books.Repository
}

func NewBooksController(repo *books.Repository) *BooksController {
	return &BooksController{repo: repo}
}

// ListBooks handles GET /api/v1/books with skip/limit pagination.
func (controller *BooksController) ListBooks(c *gin.Context) {
	skip, ok := parseIntQuery(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := parseIntQuery(c, "limit", defaultListLimit)
	if !ok {
		return
	}

	list, err := controller.repo.ListBooks(skip, limit)
	if err != nil {
		respondInternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetBook handles GET /api/v1/books/:id.
func (controller *BooksController) GetBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid book id")
		return
	}

	book, err := controller.repo.GetBookByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "Book not found")
			return
		}
		respondInternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// SearchBooks handles GET /api/v1/books/search?title=&category=.
// At least one filter is required (400), filters must be 3+ characters (422),
// and an empty result is reported as 404.
func (controller *BooksController) SearchBooks(c *gin.Context) {
	title := strings.TrimSpace(c.Query("title"))
	category := strings.TrimSpace(c.Query("category"))

	if title == "" && category == "" {
		respondBadRequest(c, "Please provide at least one search criterion (title or category).")
		return
	}
	if title != "" && len(title) < searchTermMinLength {
		respondUnprocessable(c, "The 'title' must be at least 3 characters long.")
		return
	}
	if category != "" && len(category) < searchTermMinLength {
		respondUnprocessable(c, "The 'category' must be at least 3 characters long.")
		return
	}

	list, err := controller.repo.SearchBooks(title, category, defaultListLimit)
	if err != nil {
		respondInternalError(c, err)
		return
	}
	if len(list) == 0 {
		respondNotFound(c, "No books were found that matched these criteria.")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetCategories handles GET /api/v1/categories.
func (controller *BooksController) GetCategories(c *gin.Context) {
	categories, err := controller.repo.GetCategories()
	if err != nil {
		respondInternalError(c, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, categories)
}
