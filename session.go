package whereabouts

import "time"

// Coordinate is a complete latitude/longitude fix.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Fix is a coordinate as it arrives from the transport. Either field may be
// absent; Validate turns a complete Fix into a Coordinate.
type Fix struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// NewFix builds a complete Fix from a coordinate pair.
func NewFix(lat, lng float64) Fix {
	return Fix{Latitude: &lat, Longitude: &lng}
}

// Validate returns the coordinate carried by the fix, or ErrInvalidLocation
// when either field is missing.
func (f Fix) Validate() (Coordinate, error) {
	if f.Latitude == nil || f.Longitude == nil {
		return Coordinate{}, ErrInvalidLocation
	}
	return Coordinate{Latitude: *f.Latitude, Longitude: *f.Longitude}, nil
}

// SessionState is one user's in-memory location state for the lifetime of
// the process. Coordinate is nil until a fix is recorded; (0, 0) is a valid
// fix and is distinguished from "no fix" by the pointer, never by comparing
// the value to zero. LiveExpiry is set only while a live sharing window is
// declared.
type SessionState struct {
	Coordinate *Coordinate
	LiveExpiry *time.Time
}

// snapshot returns a deep copy so callers can hold the state without racing
// the tracker.
func (s *SessionState) snapshot() SessionState {
	var out SessionState
	if s.Coordinate != nil {
		c := *s.Coordinate
		out.Coordinate = &c
	}
	if s.LiveExpiry != nil {
		e := *s.LiveExpiry
		out.LiveExpiry = &e
	}
	return out
}

// Status classifies a session's location state at a point in time.
type Status int

const (
	// StatusUnset means no coordinate has been recorded.
	StatusUnset Status = iota

	// StatusActive means a coordinate is present and not expired.
	StatusActive

	// StatusExpired means the most recent fix opened a live window that has
	// since elapsed. The data is stale and due to be cleared; this state is
	// detected lazily on reads and never persisted.
	StatusExpired
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusExpired:
		return "expired"
	default:
		return "unset"
	}
}

// View is a point-in-time, read-only observation of a session.
type View struct {
	Coordinate *Coordinate
	Status     Status
}

// ReplyKind tells the transport which acknowledgement an accepted location
// event deserves.
type ReplyKind int

const (
	// OneTimeAccepted acknowledges a single fix with no live window.
	OneTimeAccepted ReplyKind = iota

	// LiveAccepted acknowledges a fix that opened a live tracking window.
	LiveAccepted

	// EditAccepted acknowledges a refreshed coordinate on an existing live
	// share. The live window is untouched.
	EditAccepted
)

// Reply describes the acknowledgement for an accepted location event.
type Reply struct {
	Kind       ReplyKind
	Coordinate Coordinate

	// LivePeriod is the declared live window. Set only for LiveAccepted.
	LivePeriod time.Duration
}
