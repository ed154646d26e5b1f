package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// ErrNotFound is returned by Load when no sidecar exists at the path.
var ErrNotFound = errors.New("metadata file not found")

// Metadata is the sidecar record of one review.
type Metadata struct {
	// Original is the diff exactly as downloaded.
	Original string `json:"original"`
	// Submitted is the epoch second of the last submission, nil if never.
	Submitted *uint64 `json:"submitted"`
	// CommitID is the PR head commit when the review file was created.
	CommitID *string `json:"commit_id"`
}

// New returns the record for a freshly downloaded diff.
func New(original, commitID string) Metadata {
	return Metadata{Original: original, CommitID: &commitID}
}

// WithSubmitted returns a copy of m marked as submitted at t.
func (m Metadata) WithSubmitted(t time.Time) Metadata {
	secs := uint64(t.Unix())
	m.Submitted = &secs
	return m
}

// IsSubmitted reports whether the review was ever submitted.
func (m Metadata) IsSubmitted() bool {
	return m.Submitted != nil
}

// SubmittedAt returns the submission time, or the zero time.
func (m Metadata) SubmittedAt() time.Time {
	if m.Submitted == nil {
		return time.Time{}
	}
	return time.Unix(int64(*m.Submitted), 0)
}

// Commit returns the recorded commit id, or "" for sidecars that predate it.
func (m Metadata) Commit() string {
	if m.CommitID == nil {
		return ""
	}
	return *m.CommitID
}

// Store reads and writes sidecars on a filesystem.
type Store struct {
	fs afero.Fs
}

// NewStore returns a Store backed by fsys.
func NewStore(fsys afero.Fs) *Store {
	return &Store{fs: fsys}
}

// Load reads the sidecar at path.
func (s *Store) Load(path string) (Metadata, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Metadata{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Metadata{}, fmt.Errorf("reading metadata file: %w", err)
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return Metadata{}, fmt.Errorf("parsing metadata file %s: %w", path, err)
	}
	return m, nil
}

// Save writes m to path, creating parent directories.
func (s *Store) Save(path string, m Metadata) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metadata directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("writing metadata file: %w", err)
	}
	return nil
}

// Remove deletes the sidecar at path. A missing file is not an error.
func (s *Store) Remove(path string) error {
	if err := s.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing metadata file: %w", err)
	}
	return nil
}

// Exists reports whether a sidecar exists at path.
func (s *Store) Exists(path string) (bool, error) {
	ok, err := afero.Exists(s.fs, path)
	if err != nil {
		return false, fmt.Errorf("checking metadata file: %w", err)
	}
	return ok, nil
}
