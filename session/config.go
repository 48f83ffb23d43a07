package session

// Default conversation bounds.
const (
	DefaultMaxHistoryLength = 20
	DefaultSystemMessage    = "You are Sahayak, a helpful loan application assistant. " +
		"Keep responses concise and friendly. You can also analyze images and documents."
)

// Config holds conversation store parameters.
type Config struct {
	// MaxHistoryLength caps the number of non-system turns retained per
	// session. Total session length is MaxHistoryLength + 1.
	MaxHistoryLength int `json:"max_history_length,omitempty"`
	// SystemMessage seeds every new session at index 0.
	SystemMessage string `json:"system_message,omitempty"`
}

// DefaultConfig returns the default conversation configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLength: DefaultMaxHistoryLength,
		SystemMessage:    DefaultSystemMessage,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.MaxHistoryLength > 0 {
		c.MaxHistoryLength = source.MaxHistoryLength
	}
	if source.SystemMessage != "" {
		c.SystemMessage = source.SystemMessage
	}
}

// New creates a Store from configuration.
func New(cfg *Config) (Store, error) {
	return NewMemoryStore(*cfg), nil
}
