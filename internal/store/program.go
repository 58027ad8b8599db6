package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/mbtrace/mbcheckgo/internal/models"
)

// ProgramStore reads and rewrites MBCheck_<id>.txt record files. Every
// rewrite is a whole-file read-modify-write, so updates to the same record
// are serialized by a per-record mutex; different records proceed
// independently.
type ProgramStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewProgramStore creates a store rooted at dir.
func NewProgramStore(dir string) *ProgramStore {
	return &ProgramStore{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

// Dir returns the record directory root.
func (s *ProgramStore) Dir() string { return s.dir }

// Path returns the file path for a program id.
func (s *ProgramStore) Path(id string) string {
	return filepath.Join(s.dir, "MBCheck_"+id+".txt")
}

func (s *ProgramStore) recordLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// Load reads and parses the record for a program id. Records are loaded
// fresh on every call; nothing is cached across scans.
func (s *ProgramStore) Load(id string) (*models.ProgramRecord, error) {
	content, err := os.ReadFile(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("program %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("program %s: %w", id, err)
	}
	return parseRecord(id, string(content))
}

func parseRecord(id, content string) (*models.ProgramRecord, error) {
	rawLines := strings.Split(content, "\n")
	lines := make([]string, len(rawLines))
	for i, l := range rawLines {
		lines[i] = strings.TrimSpace(l)
	}

	if len(lines) < 2 {
		return nil, fmt.Errorf("program %s: missing header lines: %w", id, ErrMalformedRecord)
	}

	count, err := strconv.Atoi(lines[0])
	if err != nil {
		return nil, fmt.Errorf("program %s: pouch count %q: %w", id, lines[0], ErrMalformedRecord)
	}
	if count < 0 {
		return nil, fmt.Errorf("program %s: negative pouch count %d: %w", id, count, ErrMalformedRecord)
	}

	rec := &models.ProgramRecord{
		ID:         id,
		PouchCount: count,
		Mask:       lines[1],
	}

	if len(lines) > models.FirstPocketLine {
		for _, l := range lines[models.FirstPocketLine:] {
			rec.References = append(rec.References, strings.ReplaceAll(l, "|", ""))
		}
	}
	for i := 0; i < count; i++ {
		idx := models.FirstPocketLine + i
		if idx >= len(lines) {
			break
		}
		rec.Pockets = append(rec.Pockets, strings.ReplaceAll(lines[idx], "|", ""))
	}

	return rec, nil
}

// WritePocketLine rewrites line 10+pouchIndex of the record to the barcode
// followed by the '|' delimiter and returns the previous line content. All
// other lines survive byte-for-byte. The rewrite goes through a temp file
// and rename so a failed write never leaves a half-written record.
func (s *ProgramStore) WritePocketLine(id string, pouchIndex int, barcode string) (previous string, err error) {
	lock := s.recordLock(id)
	lock.Lock()
	defer lock.Unlock()

	path := s.Path(id)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("program %s: %w", id, ErrNotFound)
		}
		return "", fmt.Errorf("program %s: %w", id, err)
	}

	lines := strings.Split(string(content), "\n")
	lineIndex := models.FirstPocketLine + pouchIndex
	if pouchIndex < 0 || lineIndex >= len(lines) {
		// The declared pouch count promises a line the file does not have.
		// Surface the inconsistency instead of padding the record.
		return "", fmt.Errorf("program %s: pouch %d maps to line %d of %d: %w",
			id, pouchIndex, lineIndex, len(lines), ErrIndexOutOfRange)
	}

	previous = lines[lineIndex]
	lines[lineIndex] = barcode + "|"

	if err := writeFileAtomic(path, []byte(strings.Join(lines, "\n"))); err != nil {
		return "", fmt.Errorf("program %s: %w", id, err)
	}
	return previous, nil
}

// writeFileAtomic writes via a sibling temp file and rename.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".mbcheck-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
