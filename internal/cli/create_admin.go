package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/bookscape/catalog/internal/auth"
	"github.com/bookscape/catalog/internal/config"
	"github.com/bookscape/catalog/internal/database"
	"github.com/bookscape/catalog/internal/database/users"
)

// CreateAdminCommand creates the initial admin user from the environment.
type CreateAdminCommand struct {
	DatabasePath string
	cfg          *config.Config
}

func NewCreateAdminCommand() *CreateAdminCommand {
	return &CreateAdminCommand{}
}

func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the catalog database file (defaults to DATABASE_PATH)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create the initial admin account from INIT_ADMIN_USERNAME,\n")
		fmt.Fprintf(os.Stderr, "INIT_ADMIN_EMAIL and INIT_ADMIN_PASSWORD. Does nothing when the\n")
		fmt.Fprintf(os.Stderr, "username or email already exists.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.cfg = config.NewConfig()
	if cmd.DatabasePath == "" {
		cmd.DatabasePath = cmd.cfg.Database.Path
	}
	return nil
}

func (cmd *CreateAdminCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repo := users.NewRepository(db.DB, cmd.cfg.Auth.BcryptCost)
	_, err = auth.CreateInitialAdmin(repo, cmd.cfg.Admin)
	return err
}
