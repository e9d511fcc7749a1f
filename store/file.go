package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// recordJSON mirrors the on-disk layout:
// {"<user_id>": {"latitude": 51.5|null, "longitude": -0.1|null}}
type recordJSON struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// FileStore persists the snapshot as a single JSON document on disk.
// Saves go through a temporary file followed by a rename, so a crash
// mid-write never leaves a half-written snapshot behind.
type FileStore struct {
	path string
}

// NewFile creates a file-backed record store at the given path.
// The file is created lazily on the first Save; a missing file loads as an
// empty snapshot.
func NewFile(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and decodes the snapshot file.
func (s *FileStore) Load() (map[string]Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file: read %s: %w: %w", s.path, ErrStorageRead, err)
	}

	var raw map[string]recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("file: decode %s: %w: %w", s.path, ErrStorageRead, err)
	}

	records := make(map[string]Record, len(raw))
	for userID, r := range raw {
		records[userID] = Record{
			UserID:    userID,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		}
	}
	return records, nil
}

// Save atomically replaces the snapshot file with the given records.
func (s *FileStore) Save(records map[string]Record) error {
	raw := make(map[string]recordJSON, len(records))
	for userID, r := range records {
		raw[userID] = recordJSON{Latitude: r.Latitude, Longitude: r.Longitude}
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("file: encode snapshot: %w: %w", ErrStorageWrite, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("file: create temp file: %w: %w", ErrStorageWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("file: write temp file: %w: %w", ErrStorageWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file: close temp file: %w: %w", ErrStorageWrite, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file: replace %s: %w: %w", s.path, ErrStorageWrite, err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}
