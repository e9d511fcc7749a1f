package whereabouts

import "fmt"

// Reply texts sent back over the transport for text messages.
const (
	replyExpired = "Your live location has expired. Please share your location again."

	replyNoLocation = "I haven't received your location yet. Please share your location " +
		"using the attachment menu and select 'Location'. For continuous tracking, " +
		"use 'Share Live Location'."

	replyGenericPrompt = "Please ask about your location or share your live location."
)

// Responder answers free-text messages. Location questions consult the
// tracker with lazy expiry applied first; anything else gets a generic
// prompt.
type Responder struct {
	tracker    *Tracker
	classifier Classifier
}

// NewResponder creates a Responder on top of a Tracker. A nil classifier
// falls back to the default RegexClassifier.
func NewResponder(t *Tracker, c Classifier) *Responder {
	if c == nil {
		c = NewRegexClassifier()
	}
	return &Responder{tracker: t, classifier: c}
}

// Respond produces the reply text for one inbound text message. When a live
// share is found to have just expired, the expiry notice is returned and the
// session is left cleared; any write-through failure from the clearing is
// returned alongside for the caller to log.
func (r *Responder) Respond(userID, text string) (string, error) {
	if r.classifier.Classify(text) != IntentLocationQuery {
		return replyGenericPrompt, nil
	}

	expired, err := r.tracker.ExpireIfNeeded(userID)
	if expired {
		return replyExpired, err
	}

	view := r.tracker.CurrentView(userID)
	if view.Status == StatusActive {
		return fmt.Sprintf("Your latest location:\nLatitude: %v\nLongitude: %v",
			view.Coordinate.Latitude, view.Coordinate.Longitude), nil
	}
	return replyNoLocation, nil
}
