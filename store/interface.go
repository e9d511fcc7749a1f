package store

import "errors"

var (
	// ErrStorageRead indicates the durable snapshot is unreadable or corrupt.
	// Callers typically recover by treating the snapshot as empty.
	ErrStorageRead = errors.New("store: snapshot unreadable")

	// ErrStorageWrite indicates the durable snapshot could not be written.
	// The write may be retried on the next full-snapshot Save.
	ErrStorageWrite = errors.New("store: snapshot write failed")
)

// Record is the durable unit of location state for one user.
// Latitude and Longitude are either both set or both nil; a record with nil
// fields means the user is known but has no fix on file. Presence is carried
// by the pointers, never by comparing the values to zero; (0, 0) is a real
// place.
type Record struct {
	UserID    string
	Latitude  *float64
	Longitude *float64
}

// HasFix reports whether the record carries a complete coordinate pair.
func (r Record) HasFix() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// RecordStore defines the interface for durable location record storage.
//
// The store works at whole-snapshot granularity: Load returns every record
// and Save replaces them all. Callers own serializing their load-mutate-save
// cycles; the store only guarantees that a Save either fully applies or
// leaves the previous snapshot readable.
type RecordStore interface {
	// Load returns all records keyed by user ID. A store with no durable
	// state yet returns an empty map. Malformed or otherwise unreadable
	// state fails with an error wrapping ErrStorageRead.
	Load() (map[string]Record, error)

	// Save replaces the durable snapshot with the given records. Fails with
	// an error wrapping ErrStorageWrite if the medium is unwritable; a
	// failed Save must not corrupt the previously saved snapshot.
	Save(records map[string]Record) error

	// Close releases any resources held by the store.
	Close() error
}
