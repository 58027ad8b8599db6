package pocket

import (
	"path/filepath"
	"testing"

	"github.com/mbtrace/mbcheckgo/internal/models"
	"github.com/mbtrace/mbcheckgo/internal/store"
)

func TestManagerLifecycle(t *testing.T) {
	st := store.New(t.TempDir(), t.TempDir(), filepath.Join(t.TempDir(), "users.json"))
	m := NewManager(st)

	s := m.Create(models.User{Username: "anna", Role: models.RoleSupervisor})
	if s.ID == "" {
		t.Fatal("Session should get an id")
	}
	if got := m.Get(s.ID); got != s {
		t.Error("Get should return the created session")
	}

	other := m.Create(models.User{Username: "bob", Role: models.RoleOperator})
	if other.ID == s.ID {
		t.Error("Sessions must get distinct ids")
	}

	m.Drop(s.ID)
	if m.Get(s.ID) != nil {
		t.Error("Dropped session should be gone")
	}
	if m.Get(other.ID) == nil {
		t.Error("Other sessions survive a drop")
	}
}
