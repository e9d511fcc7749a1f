// Package whereabouts manages the live-location lifecycle for chat-bot
// users: one-time and time-bounded ("live") location fixes, lazy expiry of
// stale live data, and write-through persistence of the latest known
// coordinate per user.
package whereabouts

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aadithya-v/whereabouts/store"
)

// Tracker is the live-location lifecycle engine. It owns every user's
// in-memory session state, applies incoming location events, and writes each
// accepted mutation through to the record store before returning.
type Tracker struct {
	config  Config
	records store.RecordStore
	log     *zap.Logger

	// mu serializes every load-mutate-save cycle against the store. The
	// store works at whole-snapshot granularity, so two interleaved cycles
	// for different users would overwrite each other's records. The lock is
	// held across the mutate+persist section only, never across reply
	// delivery.
	mu       sync.RWMutex
	sessions map[string]*SessionState

	// now is swapped out in tests to make expiry deterministic.
	now func() time.Time
}

// New creates a Tracker with the given configuration.
// If RecordStore is not provided, a JSON file store at Config.StorePath is
// used.
func New(cfg Config) (*Tracker, error) {
	cfg.applyDefaults()

	t := &Tracker{
		config:   cfg,
		log:      cfg.Logger,
		sessions: make(map[string]*SessionState),
		now:      time.Now,
	}

	if cfg.RecordStore != nil {
		t.records = cfg.RecordStore
	} else {
		t.records = store.NewFile(cfg.StorePath)
	}

	return t, nil
}

// Close releases the underlying record store.
func (t *Tracker) Close() error {
	return t.records.Close()
}

// InitSession loads or creates the user's durable record and binds a fresh
// session to it. First-time users get an empty record persisted immediately.
// A live window from a previous process is never resurrected: the session
// starts with no live expiry.
//
// A persist failure for a first-time user still leaves the session usable;
// the returned error wraps ErrStorageWrite.
func (t *Tracker) InitSession(userID string) (SessionState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	records := t.loadRecordsLocked()
	rec, ok := records[userID]

	var saveErr error
	if !ok {
		rec = store.Record{UserID: userID}
		records[userID] = rec
		if err := t.records.Save(records); err != nil {
			saveErr = fmt.Errorf("whereabouts: persist new record for %s: %w", userID, err)
		}
	}

	session := &SessionState{}
	if rec.HasFix() {
		session.Coordinate = &Coordinate{Latitude: *rec.Latitude, Longitude: *rec.Longitude}
	}
	t.sessions[userID] = session

	return session.snapshot(), saveErr
}

// ApplyFix records a fresh location fix for the user. A livePeriod > 0 opens
// a live window expiring at now+livePeriod; zero or negative means a
// one-time fix and clears any previous window. The fix is validated first
// and nothing is mutated when it is incomplete.
//
// A session that was never initialized is rebuilt from the store on the fly,
// so a location event arriving before any start interaction is not dropped.
//
// Write-through failures do not roll back the session: the returned Reply
// still reflects the accepted fix and the error wraps ErrStorageWrite so the
// caller can log it. The next accepted mutation retries persistence of the
// full snapshot.
func (t *Tracker) ApplyFix(userID string, fix Fix, livePeriod time.Duration) (Reply, error) {
	coord, err := fix.Validate()
	if err != nil {
		return Reply{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	session := t.sessionLocked(userID)
	session.Coordinate = &coord

	reply := Reply{Kind: OneTimeAccepted, Coordinate: coord}
	if livePeriod > 0 {
		expiry := t.now().Add(livePeriod)
		session.LiveExpiry = &expiry
		reply.Kind = LiveAccepted
		reply.LivePeriod = livePeriod
	} else {
		session.LiveExpiry = nil
	}

	if err := t.writeThroughLocked(userID, session); err != nil {
		return reply, err
	}
	return reply, nil
}

// ApplyEditedFix refreshes the user's coordinate from an edited
// live-location message. The live window is left untouched: an edit moves
// the pin, it does not restart the clock. Validation and write-through
// behave exactly like ApplyFix.
func (t *Tracker) ApplyEditedFix(userID string, fix Fix) (Reply, error) {
	coord, err := fix.Validate()
	if err != nil {
		return Reply{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	session := t.sessionLocked(userID)
	session.Coordinate = &coord

	reply := Reply{Kind: EditAccepted, Coordinate: coord}
	if err := t.writeThroughLocked(userID, session); err != nil {
		return reply, err
	}
	return reply, nil
}

// CurrentView reports the user's location state without mutating session or
// store. A live window that has elapsed is reported as StatusExpired;
// clearing the stale data is left to ExpireIfNeeded. Users with no session
// in this process report StatusUnset.
func (t *Tracker) CurrentView(userID string) View {
	t.mu.RLock()
	defer t.mu.RUnlock()

	session, ok := t.sessions[userID]
	if !ok {
		return View{Status: StatusUnset}
	}
	return t.viewOf(session)
}

// Session returns a copy of the user's in-memory session state and whether
// one exists.
func (t *Tracker) Session(userID string) (SessionState, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	session, ok := t.sessions[userID]
	if !ok {
		return SessionState{}, false
	}
	return session.snapshot(), true
}

// ExpireIfNeeded clears the user's location once its live window has
// elapsed, writing the cleared record through to the store. It reports
// whether anything was cleared; the caller owns telling the user their live
// share expired. Sessions that are not expired are left alone with no store
// access.
//
// When clearing is needed but the write-through fails, the in-memory session
// is still cleared and the error wraps ErrStorageWrite.
func (t *Tracker) ExpireIfNeeded(userID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	session := t.sessionLocked(userID)
	if view := t.viewOf(session); view.Status != StatusExpired {
		return false, nil
	}

	session.Coordinate = nil
	session.LiveExpiry = nil

	if err := t.writeThroughLocked(userID, session); err != nil {
		return true, err
	}
	return true, nil
}

// viewOf computes the point-in-time view of a session. Callers must hold mu.
func (t *Tracker) viewOf(session *SessionState) View {
	copied := session.snapshot()

	if copied.LiveExpiry != nil && t.now().After(*copied.LiveExpiry) {
		return View{Coordinate: copied.Coordinate, Status: StatusExpired}
	}
	if copied.Coordinate != nil {
		return View{Coordinate: copied.Coordinate, Status: StatusActive}
	}
	return View{Status: StatusUnset}
}

// sessionLocked returns the user's session, lazily rebuilding it from the
// store when no session exists yet. Callers must hold mu for writing.
func (t *Tracker) sessionLocked(userID string) *SessionState {
	if session, ok := t.sessions[userID]; ok {
		return session
	}

	session := &SessionState{}
	if rec, ok := t.loadRecordsLocked()[userID]; ok && rec.HasFix() {
		session.Coordinate = &Coordinate{Latitude: *rec.Latitude, Longitude: *rec.Longitude}
	}
	t.sessions[userID] = session
	return session
}

// loadRecordsLocked returns the current durable snapshot, treating an
// unreadable snapshot as empty so one corrupt file cannot wedge every
// session. Callers must hold mu.
func (t *Tracker) loadRecordsLocked() map[string]store.Record {
	records, err := t.records.Load()
	if err != nil {
		t.log.Warn("record store unreadable, treating snapshot as empty", zap.Error(err))
		return map[string]store.Record{}
	}
	if records == nil {
		records = map[string]store.Record{}
	}
	return records
}

// writeThroughLocked persists the session's coordinate for one user by
// rewriting the full snapshot. Callers must hold mu for writing.
func (t *Tracker) writeThroughLocked(userID string, session *SessionState) error {
	records := t.loadRecordsLocked()

	rec := store.Record{UserID: userID}
	if session.Coordinate != nil {
		lat, lng := session.Coordinate.Latitude, session.Coordinate.Longitude
		rec.Latitude, rec.Longitude = &lat, &lng
	}
	records[userID] = rec

	if err := t.records.Save(records); err != nil {
		return fmt.Errorf("whereabouts: write-through for %s: %w", userID, err)
	}
	return nil
}
