package whereabouts

import "regexp"

// Intent is the coarse classification of inbound free text.
type Intent int

const (
	// IntentOther covers everything that is not a location question.
	IntentOther Intent = iota

	// IntentLocationQuery marks text asking where the user is.
	IntentLocationQuery
)

// Classifier decides the intent of a free-text message. Implementations must
// be safe for concurrent use. Classification never touches session state, so
// swapping in a smarter classifier cannot affect the lifecycle logic.
type Classifier interface {
	Classify(text string) Intent
}

// RegexClassifier matches "where am I" style questions with a single
// case-insensitive pattern.
type RegexClassifier struct {
	pattern *regexp.Regexp
}

// NewRegexClassifier creates the default location-question classifier.
func NewRegexClassifier() *RegexClassifier {
	return &RegexClassifier{
		pattern: regexp.MustCompile(`(?i)(where.*(am|i|my)|location)`),
	}
}

// Classify reports IntentLocationQuery when the text looks like a location
// question.
func (c *RegexClassifier) Classify(text string) Intent {
	if c.pattern.MatchString(text) {
		return IntentLocationQuery
	}
	return IntentOther
}
