// Package pocket implements the per-pocket update engine: the state machine
// that takes a scanned barcode through validation, role policy, persistence
// and audit for one pocket of a loaded program.
package pocket

import (
	"errors"
	"sync"

	"github.com/mbtrace/mbcheckgo/internal/barcode"
	"github.com/mbtrace/mbcheckgo/internal/models"
	"github.com/mbtrace/mbcheckgo/internal/store"
)

var (
	// ErrNoProgram means the scanned string does not have program-barcode
	// shape. Recoverable: the station re-prompts.
	ErrNoProgram = errors.New("no program in barcode")

	// ErrNoProgramLoaded means a submit arrived before any program scan.
	ErrNoProgramLoaded = errors.New("no program loaded")

	// ErrUnknownPocket means the pocket index is outside the loaded
	// program's pouch count.
	ErrUnknownPocket = errors.New("unknown pocket index")

	// ErrBusy means another submit for the same pocket is in flight.
	ErrBusy = errors.New("submit already in flight")

	// ErrPermissionDenied means an operator tried to overwrite a pocket
	// already committed this session.
	ErrPermissionDenied = errors.New("no permission to rescan")

	// ErrEmptyInput and ErrTooShort are local validation failures; no I/O
	// is attempted for either.
	ErrEmptyInput = errors.New("empty barcode")
	ErrTooShort   = errors.New("barcode shorter than 10 characters")
)

// Status is the lifecycle of one pocket within a session.
type Status int

const (
	StatusEmpty Status = iota
	StatusEditable
	StatusLocked
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusEditable:
		return "editable"
	case StatusLocked:
		return "locked"
	}
	return "unknown"
}

// Pocket is the in-session state of one pouch slot. The backing file line
// is the durable truth; this tracks only edits made since the program was
// loaded.
type Pocket struct {
	Index int

	mu       sync.Mutex // in-flight submit guard
	stateMu  sync.Mutex
	status   Status
	value    string
	accepted bool
}

// Status returns the pocket's current state.
func (p *Pocket) Status() Status {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.status
}

// Value returns the barcode committed this session, or "" when none.
func (p *Pocket) Value() string {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.value
}

// Accepted reports the advisory reference-match result of the last commit.
func (p *Pocket) Accepted() bool {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.accepted
}

func (p *Pocket) commit(value string, accepted bool) {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	p.value = value
	p.accepted = accepted
	p.status = StatusLocked
}

// unlock re-opens a locked pocket for editing. Only reachable through an
// elevated-role submit.
func (p *Pocket) unlock() {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	if p.status == StatusLocked {
		p.status = StatusEditable
	}
}

// markEditable records an unsuccessful submit attempt: the pocket has been
// touched but holds no new commit. Locked pockets are left alone.
func (p *Pocket) markEditable() {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	if p.status == StatusEmpty {
		p.status = StatusEditable
	}
}

// Result is returned to the caller after a successful submit.
type Result struct {
	// Barcode is the canonical (truncated) value that was persisted; the
	// UI echoes it back into the pocket field.
	Barcode string
	// Masked is the mask extraction of Barcode.
	Masked string
	// Accepted is the advisory reference-set verdict; it never gated the
	// write.
	Accepted bool
	// Entry is the audit trail entry produced by the update.
	Entry *models.AuditLogEntry
}

// Session is one operator's stretch at a station: created at login,
// discarded at logout or reload. It owns the currently loaded program and
// its pocket states.
type Session struct {
	ID   string
	User models.User

	store *store.Store

	mu      sync.Mutex
	program *models.ProgramRecord
	pockets []*Pocket
}

// NewSession creates a session for an authenticated user.
func NewSession(id string, user models.User, st *store.Store) *Session {
	return &Session{ID: id, User: user, store: st}
}

// LoadProgram classifies a scanned program barcode, loads its record fresh
// from disk and instantiates one pocket per pouch.
//
// Every pocket starts empty and unlocked even when the backing file already
// holds a committed value from an earlier shift. That matches the station's
// observed behavior: the file is the durable truth, but each program load
// starts a clean re-verification pass, so a prior value is silently
// re-editable by an operator. Deliberate, if surprising.
func (s *Session) LoadProgram(raw string) (*models.ProgramRecord, error) {
	id, ok := barcode.ClassifyProgram(raw)
	if !ok {
		return nil, ErrNoProgram
	}

	rec, err := s.store.Programs.Load(id)
	if err != nil {
		return nil, err
	}

	pockets := make([]*Pocket, rec.PouchCount)
	for i := range pockets {
		pockets[i] = &Pocket{Index: i}
	}

	s.mu.Lock()
	s.program = rec
	s.pockets = pockets
	s.mu.Unlock()

	return rec, nil
}

// Reset discards the loaded program and all pocket state.
func (s *Session) Reset() {
	s.mu.Lock()
	s.program = nil
	s.pockets = nil
	s.mu.Unlock()
}

// Program returns the currently loaded record, or nil.
func (s *Session) Program() *models.ProgramRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.program
}

// Pocket returns the state for a pocket index.
func (s *Session) Pocket(index int) (*Pocket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.program == nil {
		return nil, ErrNoProgramLoaded
	}
	if index < 0 || index >= len(s.pockets) {
		return nil, ErrUnknownPocket
	}
	return s.pockets[index], nil
}

// Submit runs one scan through the full pocket update pipeline:
//
//  1. in-flight guard (ErrBusy when a submit for this pocket is racing)
//  2. role policy (locked pocket + non-elevated role = ErrPermissionDenied)
//  3. local validation (ErrEmptyInput, ErrTooShort), no I/O on failure
//  4. truncation to the canonical 10-character value
//  5. for an elevated rescan, the lock re-opens only now
//  6. persisted record update + audit entry, record strictly before log
//  7. state commit and advisory mask matching
//
// On failure nothing is committed: an untouched pocket moves at most from
// empty to editable, and a denied or invalid rescan leaves the lock in
// place.
func (s *Session) Submit(pocketIndex int, scannedRaw string) (*Result, error) {
	s.mu.Lock()
	program := s.program
	if program == nil {
		s.mu.Unlock()
		return nil, ErrNoProgramLoaded
	}
	if pocketIndex < 0 || pocketIndex >= len(s.pockets) {
		s.mu.Unlock()
		return nil, ErrUnknownPocket
	}
	p := s.pockets[pocketIndex]
	s.mu.Unlock()

	if !p.mu.TryLock() {
		return nil, ErrBusy
	}
	defer p.mu.Unlock()

	wasLocked := p.Status() == StatusLocked
	if wasLocked && !s.User.Role.CanOverwriteLocked() {
		// Denied rescan leaves the pocket exactly as it was
		return nil, ErrPermissionDenied
	}

	if scannedRaw == "" {
		p.markEditable()
		return nil, ErrEmptyInput
	}
	if len(scannedRaw) < barcode.PocketCodeLen {
		p.markEditable()
		return nil, ErrTooShort
	}
	scanned := barcode.NormalizePocketCode(scannedRaw)

	// The lock holds until the elevated rescan has passed validation; a
	// supervisor's empty or short scan must not open the pocket
	if wasLocked {
		p.unlock()
	}

	entry, err := s.store.UpdateRecord(program.ID, pocketIndex, scanned, p.Value(), s.User.Username, s.User.Role)
	if err != nil {
		p.markEditable()
		return nil, err
	}

	masked := barcode.ApplyMask(scanned, program.Mask)
	accepted := barcode.IsAccepted(masked, program.References)
	p.commit(scanned, accepted)

	return &Result{
		Barcode:  scanned,
		Masked:   masked,
		Accepted: accepted,
		Entry:    entry,
	}, nil
}

// ValidateScan applies the engine's local input rules without touching any
// session state: empty check, length check, truncation. The legacy update
// endpoint uses it for callers that keep pocket state on their side.
func ValidateScan(scannedRaw string) (string, error) {
	if scannedRaw == "" {
		return "", ErrEmptyInput
	}
	if len(scannedRaw) < barcode.PocketCodeLen {
		return "", ErrTooShort
	}
	return barcode.NormalizePocketCode(scannedRaw), nil
}
