// Standalone dashboard binary. Serves HTML views of the catalog on its
// own port so the API process can stay headless.
package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bookscape/catalog/internal/config"
	"github.com/bookscape/catalog/internal/dashboard"
	"github.com/bookscape/catalog/internal/database"
	"github.com/bookscape/catalog/internal/database/books"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.NewConfig()

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logrus.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	cache := dashboard.NewCache(books.NewRepository(db.DB), cfg.Dashboard.CacheTTL)
	server := dashboard.NewServer(cache)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.Dashboard.Port)
	logrus.Infof("starting dashboard at %s", addr)
	if err := server.Router().Run(addr); err != nil {
		logrus.Fatalf("dashboard server: %v", err)
	}
}
