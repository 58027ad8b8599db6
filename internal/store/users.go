package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/mbtrace/mbcheckgo/internal/models"
	"github.com/mbtrace/mbcheckgo/internal/utils"
)

// UserStore reads the externally owned users JSON file. The file is the
// source of truth and is re-read on demand; the station never writes it.
type UserStore struct {
	path string
}

// NewUserStore creates a store for the given users file path.
func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

// Path returns the users file path.
func (s *UserStore) Path() string { return s.path }

// Load reads the full user collection. A missing file is ErrNotFound;
// session start treats that as fatal, the users endpoint as a 404.
func (s *UserStore) Load() ([]models.User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("user store %s: %w", s.path, ErrNotFound)
		}
		return nil, fmt.Errorf("user store %s: %w", s.path, err)
	}
	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("user store %s: %w", s.path, err)
	}
	for _, u := range users {
		if !u.Role.Valid() {
			// Unknown roles carry no capabilities, so a typo can only
			// lose access, never grant it
			log.Printf("⚠️ User %q has unknown role %q", u.Username, u.Role)
		}
	}
	return users, nil
}

// Authenticate finds the user matching the supplied credentials. The
// station UI historically logs in by badge secret alone, so username is
// optional; when present it must match as well.
func (s *UserStore) Authenticate(username, password string) (*models.User, error) {
	users, err := s.Load()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if username != "" && users[i].Username != username {
			continue
		}
		if utils.CheckPassword(password, users[i].Password) {
			return &users[i], nil
		}
	}
	return nil, nil
}
