package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreMissingFileLoadsEmpty(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "user_data.json"))

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Got %d records, want 0", len(records))
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "user_data.json"))

	lat, lng := 37.7749, -122.4194
	saved := map[string]Record{
		"42":  {UserID: "42", Latitude: &lat, Longitude: &lng},
		"007": {UserID: "007"}, // known user, no fix yet
	}
	if err := s.Save(saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Got %d records, want 2", len(records))
	}

	rec := records["42"]
	if !rec.HasFix() || *rec.Latitude != lat || *rec.Longitude != lng {
		t.Errorf("Got record %+v, want (%v, %v)", rec, lat, lng)
	}
	if records["007"].HasFix() {
		t.Error("Record without a fix must round-trip with nil fields")
	}
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "user_data.json"))

	lat, lng := 1.0, 2.0
	if err := s.Save(map[string]Record{"a": {UserID: "a", Latitude: &lat, Longitude: &lng}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save(map[string]Record{"b": {UserID: "b", Latitude: &lat, Longitude: &lng}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := records["a"]; ok {
		t.Error("Save must replace the whole snapshot, stale record survived")
	}
	if _, ok := records["b"]; !ok {
		t.Error("Latest snapshot missing its record")
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := NewFile(path).Load()
	if !errors.Is(err, ErrStorageRead) {
		t.Errorf("Got error %v, want ErrStorageRead", err)
	}
}

func TestFileStoreUnwritableMedium(t *testing.T) {
	// A path inside a directory that does not exist cannot be written.
	s := NewFile(filepath.Join(t.TempDir(), "missing", "user_data.json"))

	err := s.Save(map[string]Record{})
	if !errors.Is(err, ErrStorageWrite) {
		t.Errorf("Got error %v, want ErrStorageWrite", err)
	}
}

func TestFileStoreFailedSaveKeepsPreviousSnapshot(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions do not restrict root")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "user_data.json")
	s := NewFile(path)

	lat, lng := 1.0, 2.0
	if err := s.Save(map[string]Record{"a": {UserID: "a", Latitude: &lat, Longitude: &lng}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Make the directory read-only so the temp file cannot be created.
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	if err := s.Save(map[string]Record{"b": {UserID: "b"}}); !errors.Is(err, ErrStorageWrite) {
		t.Fatalf("Got error %v, want ErrStorageWrite", err)
	}

	os.Chmod(dir, 0o755)
	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := records["a"]; !ok {
		t.Error("Failed save corrupted the previous snapshot")
	}
}
