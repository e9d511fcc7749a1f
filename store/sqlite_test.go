package store

import (
	"path/filepath"
	"testing"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "whereabouts.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreEmptyLoad(t *testing.T) {
	s := newTestSQLite(t)

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Got %d records, want 0", len(records))
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := newTestSQLite(t)

	lat, lng := 35.6762, 139.6503
	saved := map[string]Record{
		"42":  {UserID: "42", Latitude: &lat, Longitude: &lng},
		"007": {UserID: "007"},
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
		t.Error("Record without a fix must round-trip as NULL columns")
	}
}

func TestSQLiteStoreSaveReplacesSnapshot(t *testing.T) {
	s := newTestSQLite(t)

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
