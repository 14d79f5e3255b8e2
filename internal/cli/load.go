package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/bookscape/catalog/internal/config"
	"github.com/bookscape/catalog/internal/database"
	"github.com/bookscape/catalog/internal/database/books"
	"github.com/bookscape/catalog/internal/loader"
)

// LoadCommand bulk-inserts the CSV snapshot into the database.
type LoadCommand struct {
	DatabasePath string
	CSVPath      string
	Overwrite    bool
}

func NewLoadCommand() *LoadCommand {
	return &LoadCommand{}
}

func (cmd *LoadCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("load", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.StringVar(&cmd.CSVPath, "csv", config.DefaultCSVPath, "Path to the CSV snapshot to load")
	fs.BoolVar(&cmd.Overwrite, "overwrite", false, "Clear existing rows before loading")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s load [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Load the scraped CSV snapshot into the books table. When the table\n")
		fmt.Fprintf(os.Stderr, "already has rows the load is skipped unless -overwrite is given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *LoadCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repo := books.NewRepository(db.DB)
	result, err := loader.New(repo, cmd.CSVPath).Load(cmd.Overwrite)
	if err != nil {
		return err
	}

	if result.Skipped {
		logrus.Info("nothing loaded")
	} else {
		logrus.WithField("books", result.Loaded).Info("load completed")
	}
	return nil
}
