package bot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sahayak-labs/sahayak/agent"
	"github.com/sahayak-labs/sahayak/decision"
	"github.com/sahayak-labs/sahayak/httpapi"
	"github.com/sahayak-labs/sahayak/session"
	"github.com/sahayak-labs/sahayak/transport"
)

const defaultMediaDir = "media"

// Config holds initialization parameters for all bot subsystems. Each
// section delegates to that subsystem's config-driven constructor.
type Config struct {
	Agent    agent.Config         `json:"agent"`
	Session  session.Config       `json:"session"`
	Decision decision.Policy      `json:"decision"`
	NATS     transport.NATSConfig `json:"nats"`
	HTTP     httpapi.Config       `json:"http"`
	// MediaDir is the root directory for stored attachments.
	MediaDir string `json:"media_dir,omitempty"`
	// CatalogPath points to a YAML loan catalog. Empty uses the built-in
	// catalog.
	CatalogPath string `json:"catalog_path,omitempty"`
}

// DefaultConfig returns a Config with defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Agent:    agent.DefaultConfig(),
		Session:  session.DefaultConfig(),
		Decision: decision.DefaultPolicy(),
		NATS:     transport.DefaultNATSConfig(),
		HTTP:     httpapi.DefaultConfig(),
		MediaDir: defaultMediaDir,
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Agent.Merge(&source.Agent)
	c.Session.Merge(&source.Session)
	c.Decision.Merge(&source.Decision)
	c.NATS.Merge(&source.NATS)
	c.HTTP.Merge(&source.HTTP)

	if source.MediaDir != "" {
		c.MediaDir = source.MediaDir
	}
	if source.CatalogPath != "" {
		c.CatalogPath = source.CatalogPath
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
