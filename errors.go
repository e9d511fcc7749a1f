package whereabouts

import (
	"errors"

	"github.com/aadithya-v/whereabouts/store"
)

var (
	// ErrInvalidLocation is returned when an inbound fix is missing its
	// latitude or longitude. No session or store state is mutated.
	ErrInvalidLocation = errors.New("whereabouts: incomplete location fix")

	// ErrStorageRead is returned by stores when the durable snapshot is
	// unreadable or corrupt. The tracker recovers by treating the snapshot
	// as empty and logging the failure.
	ErrStorageRead = store.ErrStorageRead

	// ErrStorageWrite is returned when a write-through could not be
	// persisted. The in-memory session still reflects the update; the next
	// accepted mutation retries the full-snapshot save.
	ErrStorageWrite = store.ErrStorageWrite
)
