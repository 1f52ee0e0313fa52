// Package state implements the persisted fingerprint store.
package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/zerr"

	"github.com/alex-iam/smk/internal/core/domain"
	"github.com/alex-iam/smk/internal/core/ports"
)

const stateFileName = "state.json"

var _ ports.FingerprintStore = (*Store)(nil)

// Store implements ports.FingerprintStore using a flat JSON file.
// Writes are persisted immediately via an atomic temp-write-then-rename
// so a crash mid-run never leaves a torn record. Unknown JSON fields
// are ignored on load, keeping the format forward compatible.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.Fingerprint
}

// Open creates a Store backed by the state file under dir.
func Open(dir string) (*Store, error) {
	s := &Store{
		path:  filepath.Join(filepath.Clean(dir), stateFileName),
		cache: make(map[string]domain.Fingerprint),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read fingerprint store")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.Wrap(err, "failed to unmarshal fingerprint store")
	}

	return nil
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal fingerprint store")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for fingerprint store")
	}

	// Atomic replace: readers never observe a partially written file.
	tmp, err := os.CreateTemp(dir, stateFileName+".tmp-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp state file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to write temp state file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to close temp state file")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to replace fingerprint store")
	}

	return nil
}

// Get retrieves the fingerprint for a key. Returns nil, nil if not found.
func (s *Store) Get(key string) (*domain.Fingerprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fp, ok := s.cache[key]
	if !ok {
		return nil, nil
	}
	return &fp, nil
}

// Put stores a fingerprint and persists the store immediately, so an
// interrupted run can still resume from partial progress.
func (s *Store) Put(fp domain.Fingerprint) error {
	s.mu.Lock()
	s.cache[fp.Path] = fp
	s.mu.Unlock()

	return s.save()
}
