package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookscape/catalog/internal/config"
	"github.com/bookscape/catalog/internal/entities"
)

type stubStore struct {
	byUsername map[string]*entities.User
	byEmail    map[string]*entities.User
	created    []*entities.User
}

func newStubStore() *stubStore {
	return &stubStore{
		byUsername: map[string]*entities.User{},
		byEmail:    map[string]*entities.User{},
	}
}

func (s *stubStore) GetUserByUsername(username string) (*entities.User, error) {
	if user, ok := s.byUsername[username]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStore) GetUserByEmail(email string) (*entities.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStore) CreateUser(username, email, password string, isAdmin bool) (*entities.User, error) {
	user := &entities.User{ID: uint(len(s.created) + 1), Username: username, Email: email, IsAdmin: isAdmin}
	s.byUsername[username] = user
	s.byEmail[email] = user
	s.created = append(s.created, user)
	return user, nil
}

func adminConfig() config.Admin {
	return config.Admin{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "changeme",
	}
}

func TestCreateInitialAdmin_CreatesUser(t *testing.T) {
	store := newStubStore()

	admin, err := CreateInitialAdmin(store, adminConfig())

	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, "admin", admin.Username)
	assert.Len(t, store.created, 1)
}

func TestCreateInitialAdmin_IdempotentOnUsername(t *testing.T) {
	store := newStubStore()
	existing := &entities.User{ID: 7, Username: "admin", Email: "old@example.com"}
	store.byUsername["admin"] = existing

	admin, err := CreateInitialAdmin(store, adminConfig())

	require.NoError(t, err)
	assert.Equal(t, existing.ID, admin.ID)
	assert.Empty(t, store.created)
}

func TestCreateInitialAdmin_IdempotentOnEmail(t *testing.T) {
	store := newStubStore()
	existing := &entities.User{ID: 8, Username: "other", Email: "admin@example.com"}
	store.byEmail["admin@example.com"] = existing

	admin, err := CreateInitialAdmin(store, adminConfig())

	require.NoError(t, err)
	assert.Equal(t, existing.ID, admin.ID)
	assert.Empty(t, store.created)
}

func TestCreateInitialAdmin_MissingCredentials(t *testing.T) {
	store := newStubStore()

	_, err := CreateInitialAdmin(store, config.Admin{Username: "admin"})

	assert.Error(t, err)
	assert.Empty(t, store.created)
}
