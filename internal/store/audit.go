package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mbtrace/mbcheckgo/internal/models"
)

// AuditLog keeps one JSON collection per calendar day under the logs
// directory. Appends are whole-collection read-modify-writes, serialized
// per day file.
type AuditLog struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewAuditLog creates an audit log rooted at dir.
func NewAuditLog(dir string) *AuditLog {
	return &AuditLog{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

// Dir returns the log directory root.
func (l *AuditLog) Dir() string { return l.dir }

func (l *AuditLog) dayLock(date string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[date]
	if !ok {
		m = &sync.Mutex{}
		l.locks[date] = m
	}
	return m
}

func (l *AuditLog) path(date string) string {
	return filepath.Join(l.dir, date+".json")
}

// Append adds one entry to the current day's collection, creating the file
// when absent.
func (l *AuditLog) Append(entry *models.AuditLogEntry) error {
	date := time.Now().UTC().Format("2006-01-02")

	lock := l.dayLock(date)
	lock.Lock()
	defer lock.Unlock()

	entries, err := l.read(date)
	if err != nil {
		return err
	}
	entries = append(entries, *entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("audit log %s: %w", date, err)
	}
	if err := writeFileAtomic(l.path(date), data); err != nil {
		return fmt.Errorf("audit log %s: %w", date, err)
	}
	return nil
}

// Entries returns the collection for an ISO date (YYYY-MM-DD). A missing
// day reads as empty, not as an error: days with no activity have no file.
func (l *AuditLog) Entries(date string) ([]models.AuditLogEntry, error) {
	lock := l.dayLock(date)
	lock.Lock()
	defer lock.Unlock()
	return l.read(date)
}

func (l *AuditLog) read(date string) ([]models.AuditLogEntry, error) {
	data, err := os.ReadFile(l.path(date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("audit log %s: %w", date, err)
	}
	var entries []models.AuditLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("audit log %s: %w", date, err)
	}
	return entries, nil
}
