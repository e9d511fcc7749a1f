package whereabouts

import (
	"go.uber.org/zap"

	"github.com/aadithya-v/whereabouts/store"
)

// Config contains configuration options for the Tracker.
type Config struct {
	// RecordStore is the durable backend for location records.
	// Default: JSON file store at StorePath.
	RecordStore store.RecordStore

	// StorePath is the path for the default JSON file store.
	// Only used if RecordStore is nil.
	// Default: "user_data.json".
	StorePath string

	// Classifier decides whether free text is asking for the user's
	// location. Default: RegexClassifier.
	Classifier Classifier

	// Logger receives storage failures and recovered event panics.
	// Default: zap.NewNop().
	Logger *zap.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		StorePath: "user_data.json",
	}
}

// applyDefaults fills in default values for zero-value fields.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.StorePath == "" {
		c.StorePath = defaults.StorePath
	}
	if c.Classifier == nil {
		c.Classifier = NewRegexClassifier()
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}
