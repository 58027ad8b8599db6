package store

import (
	"errors"
	"strings"
	"time"

	"github.com/mbtrace/mbcheckgo/internal/models"
)

// Sentinel errors surfaced across the storage layer. Handlers map these to
// HTTP statuses; everything else is a wrapped I/O error.
var (
	ErrNotFound        = errors.New("record not found")
	ErrMalformedRecord = errors.New("malformed program record")
	ErrIndexOutOfRange = errors.New("pouch index out of range for record")
)

// Store bundles the three on-disk collaborators of the verification
// workflow: program record files, per-day audit logs and the user store.
type Store struct {
	Programs *ProgramStore
	Audit    *AuditLog
	Users    *UserStore
}

// New wires a Store from resolved directory paths.
func New(recordsDir, logsDir, usersFile string) *Store {
	return &Store{
		Programs: NewProgramStore(recordsDir),
		Audit:    NewAuditLog(logsDir),
		Users:    NewUserStore(usersFile),
	}
}

// UpdateRecord rewrites one pocket line of a program record and appends the
// matching entry to today's audit trail. The record write completes before
// the log write is attempted; on any failure the caller observes an error
// and no partial state.
//
// When oldBarcode is empty the entry falls back to the previous line
// content, delimiter-stripped and trimmed.
func (s *Store) UpdateRecord(programID string, pouchIndex int, newBarcode, oldBarcode, user string, role models.Role) (*models.AuditLogEntry, error) {
	previous, err := s.Programs.WritePocketLine(programID, pouchIndex, newBarcode)
	if err != nil {
		return nil, err
	}

	if oldBarcode == "" {
		oldBarcode = strings.TrimSpace(strings.ReplaceAll(previous, "|", ""))
	}

	entry := &models.AuditLogEntry{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		User:       user,
		Role:       role,
		Program:    programID,
		Pouch:      pouchIndex + 1,
		OldBarcode: oldBarcode,
		NewBarcode: newBarcode,
		Action:     models.ActionUpdate,
	}

	if err := s.Audit.Append(entry); err != nil {
		return nil, err
	}
	return entry, nil
}
