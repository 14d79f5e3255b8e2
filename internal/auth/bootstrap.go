package auth

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/bookscape/catalog/internal/config"
	"github.com/bookscape/catalog/internal/entities"
)

// BootstrapStore is the slice of the users repository needed to create the
// initial admin.
type BootstrapStore interface {
	GetUserByUsername(username string) (*entities.User, error)
	GetUserByEmail(email string) (*entities.User, error)
	CreateUser(username, email, password string, isAdmin bool) (*entities.User, error)
}

// CreateInitialAdmin creates the first privileged user from the configured
// credentials. It is idempotent: when the username or email already exists,
// nothing happens.
func CreateInitialAdmin(store BootstrapStore, cfg config.Admin) (*entities.User, error) {
	if cfg.Username == "" || cfg.Email == "" || cfg.Password == "" {
		return nil, errors.New("INIT_ADMIN_USERNAME, INIT_ADMIN_EMAIL and INIT_ADMIN_PASSWORD must be set")
	}

	if existing, err := lookupExisting(store, cfg); err != nil {
		return nil, err
	} else if existing != nil {
		logrus.WithField("username", existing.Username).
			Warn("admin user or email already exists, no action taken")
		return existing, nil
	}

	admin, err := store.CreateUser(cfg.Username, cfg.Email, cfg.Password, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"username": admin.Username,
		"email":    admin.Email,
	}).Info("admin user created")

	return admin, nil
}

func lookupExisting(store BootstrapStore, cfg config.Admin) (*entities.User, error) {
	user, err := store.GetUserByUsername(cfg.Username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err = store.GetUserByEmail(cfg.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return nil, nil
}
