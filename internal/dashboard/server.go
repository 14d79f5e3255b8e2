package dashboard

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxTableRows = 200

var templateFuncs = template.FuncMap{
	"deref":    func(p *float64) float64 { return *p },
	"derefInt": func(p *int) int { return *p },
}

var indexTemplate = template.Must(template.New("index").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Bookscape Dashboard</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
.cards { display: flex; gap: 1em; margin-bottom: 2em; }
.card { border: 1px solid #ddd; border-radius: 6px; padding: 1em 2em; }
.card .value { font-size: 1.8em; font-weight: bold; }
.card .label { color: #666; }
table { border-collapse: collapse; width: 100%; }
th, td { border-bottom: 1px solid #ddd; padding: 0.4em 0.8em; text-align: left; }
th { background: #f5f5f5; }
.muted { color: #999; }
</style>
</head>
<body>
<h1>Bookscape Dashboard</h1>
<p><a href="/charts">Charts</a> · snapshot taken {{.TakenAt.Format "15:04:05"}}</p>
<div class="cards">
  <div class="card"><div class="value">{{.TotalBooks}}</div><div class="label">Books</div></div>
  <div class="card"><div class="value">£{{printf "%.2f" .AveragePrice}}</div><div class="label">Average price</div></div>
  <div class="card"><div class="value">{{printf "%.2f" .AverageRating}}</div><div class="label">Average rating</div></div>
  <div class="card"><div class="value">{{.CategoryCount}}</div><div class="label">Categories</div></div>
</div>
<table>
<tr><th>ID</th><th>Title</th><th>Category</th><th>Price</th><th>Rating</th><th>Availability</th></tr>
{{range .Rows}}
<tr>
  <td>{{.ID}}</td>
  <td><a href="{{.ProductURL}}">{{.Title}}</a></td>
  <td>{{.Category}}</td>
  <td>{{if .Price}}£{{printf "%.2f" (deref .Price)}}{{else}}<span class="muted">n/a</span>{{end}}</td>
  <td>{{if .Rating}}{{derefInt .Rating}}{{else}}<span class="muted">n/a</span>{{end}}</td>
  <td>{{if .Availability}}{{derefInt .Availability}}{{else}}<span class="muted">n/a</span>{{end}}</td>
</tr>
{{end}}
</table>
{{if .Truncated}}<p class="muted">Showing the first {{len .Rows}} of {{.TotalBooks}} books.</p>{{end}}
</body>
</html>`))

// Server exposes the dashboard pages over a gin router.
type Server struct {
	cache *Cache
}

func NewServer(cache *Cache) *Server {
	return &Server{cache: cache}
}

// Router builds the dashboard's route table.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.GET("/", s.Index)
	router.GET("/charts", s.Charts)
	return router
}

// Index renders the summary cards and the book table.
func (s *Server) Index(c *gin.Context) {
	snap, err := s.cache.Snapshot()
	if err != nil {
		logrus.WithError(err).Error("dashboard: building snapshot failed")
		c.String(http.StatusInternalServerError, "failed to load catalog data")
		return
	}

	rows := snap.Books
	truncated := false
	if len(rows) > maxTableRows {
		rows = rows[:maxTableRows]
		truncated = true
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	err = indexTemplate.Execute(c.Writer, gin.H{
		"TakenAt":       snap.TakenAt,
		"TotalBooks":    snap.TotalBooks,
		"AveragePrice":  snap.AveragePrice,
		"AverageRating": snap.AverageRating,
		"CategoryCount": snap.CategoryCount,
		"Rows":          rows,
		"Truncated":     truncated,
	})
	if err != nil {
		logrus.WithError(err).Error("dashboard: rendering index failed")
	}
}

// Charts renders the go-echarts page.
func (s *Server) Charts(c *gin.Context) {
	snap, err := s.cache.Snapshot()
	if err != nil {
		logrus.WithError(err).Error("dashboard: building snapshot failed")
		c.String(http.StatusInternalServerError, "failed to load catalog data")
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := RenderCharts(c.Writer, snap); err != nil {
		logrus.WithError(err).Error("dashboard: rendering charts failed")
	}
}
