package whereabouts

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Reply texts for location events and the last-resort safety net.
const (
	replyGreeting = "Hi! Please share your live location to get started.\n" +
		"Note: For continuous tracking, please use the 'Share Live Location' feature."

	replyInvalidLocation = "Invalid location data received."

	replyEditFailed = "Failed to process location update. Please try again."

	replyApology = "Sorry, something went wrong. Please try again or contact support."
)

// Event is an inbound transport event. The transport adapter owns delivery,
// retries, and rate limits; the bot only turns events into reply text for
// the same user.
type Event interface {
	isEvent()
}

// SessionStart is delivered when a user begins interacting with the bot.
type SessionStart struct {
	UserID string
}

// LocationReceived carries a fresh location share. LivePeriod is zero for a
// one-time fix.
type LocationReceived struct {
	UserID     string
	Fix        Fix
	LivePeriod time.Duration
}

// LocationEdited carries a coordinate refresh on an existing live share.
type LocationEdited struct {
	UserID string
	Fix    Fix
}

// TextReceived carries a free-text message.
type TextReceived struct {
	UserID string
	Text   string
}

func (SessionStart) isEvent()     {}
func (LocationReceived) isEvent() {}
func (LocationEdited) isEvent()   {}
func (TextReceived) isEvent()     {}

// Bot dispatches transport events to the tracker and responder and formats
// the user-facing reply for each one. A panic while processing a single
// event is recovered, logged, and answered with a generic apology so one
// user's failure cannot take down the shared process or another user's
// in-flight update.
type Bot struct {
	tracker   *Tracker
	responder *Responder
	log       *zap.Logger
}

// NewBot creates a Bot from a configured Tracker.
func NewBot(t *Tracker) *Bot {
	return &Bot{
		tracker:   t,
		responder: NewResponder(t, t.config.Classifier),
		log:       t.log,
	}
}

// Handle processes one inbound event and returns the reply text the
// transport should deliver back to the same user.
func (b *Bot) Handle(ev Event) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("recovered from event handler panic",
				zap.String("user_id", userOf(ev)),
				zap.Any("panic", r))
			reply = replyApology
		}
	}()

	switch e := ev.(type) {
	case SessionStart:
		return b.handleStart(e)
	case LocationReceived:
		return b.handleLocation(e)
	case LocationEdited:
		return b.handleEdited(e)
	case TextReceived:
		return b.handleText(e)
	default:
		b.log.Warn("unknown event type", zap.Any("event", ev))
		return replyApology
	}
}

func (b *Bot) handleStart(e SessionStart) string {
	if _, err := b.tracker.InitSession(e.UserID); err != nil {
		b.log.Warn("session init write-through failed",
			zap.String("user_id", e.UserID), zap.Error(err))
	}
	return replyGreeting
}

func (b *Bot) handleLocation(e LocationReceived) string {
	reply, err := b.tracker.ApplyFix(e.UserID, e.Fix, e.LivePeriod)
	if errors.Is(err, ErrInvalidLocation) {
		return replyInvalidLocation
	}
	if err != nil {
		// The fix is held in memory and the next mutation retries the
		// snapshot save, so the user still gets the acceptance reply.
		b.log.Warn("location write-through failed",
			zap.String("user_id", e.UserID), zap.Error(err))
	}
	return formatAccepted(reply)
}

func (b *Bot) handleEdited(e LocationEdited) string {
	reply, err := b.tracker.ApplyEditedFix(e.UserID, e.Fix)
	if errors.Is(err, ErrInvalidLocation) {
		return replyEditFailed
	}
	if err != nil {
		b.log.Warn("edited location write-through failed",
			zap.String("user_id", e.UserID), zap.Error(err))
	}
	return formatAccepted(reply)
}

func (b *Bot) handleText(e TextReceived) string {
	reply, err := b.responder.Respond(e.UserID, e.Text)
	if err != nil {
		b.log.Warn("expiry write-through failed",
			zap.String("user_id", e.UserID), zap.Error(err))
	}
	return reply
}

// formatAccepted renders the acknowledgement text for an accepted fix.
func formatAccepted(r Reply) string {
	switch r.Kind {
	case LiveAccepted:
		return fmt.Sprintf("Live location received and tracking!\nLatitude: %v\nLongitude: %v\n"+
			"Updates will continue for %d seconds.",
			r.Coordinate.Latitude, r.Coordinate.Longitude, int(r.LivePeriod.Seconds()))
	case EditAccepted:
		return fmt.Sprintf("Live location updated!\nLatitude: %v\nLongitude: %v",
			r.Coordinate.Latitude, r.Coordinate.Longitude)
	default:
		return fmt.Sprintf("One-time location received!\nLatitude: %v\nLongitude: %v",
			r.Coordinate.Latitude, r.Coordinate.Longitude)
	}
}

// userOf extracts the user ID for logging without touching handler logic.
func userOf(ev Event) string {
	switch e := ev.(type) {
	case SessionStart:
		return e.UserID
	case LocationReceived:
		return e.UserID
	case LocationEdited:
		return e.UserID
	case TextReceived:
		return e.UserID
	}
	return ""
}
