// Package agent provides the reasoning client: an OpenAI-compatible HTTP
// agent that sends conversation history with declared tools and transcribes
// audio. Retried with exponential backoff; errors are classified as
// transient or fatal so callers can decide what is worth retrying.
package agent

import (
	"context"

	"github.com/sahayak-labs/sahayak/core/protocol"
	"github.com/sahayak-labs/sahayak/core/response"
)

// Agent is the reasoning boundary. Tools issues one chat-completions call
// exposing the given tool schemas; Transcribe converts an audio file to
// text.
type Agent interface {
	Tools(ctx context.Context, messages []protocol.Message, tools []protocol.Tool) (*response.ToolsResponse, error)
	Transcribe(ctx context.Context, audioPath string) (*response.AudioResponse, error)
}

// Config holds agent initialization parameters.
type Config struct {
	// BaseURL is the OpenAI-compatible API root. Defaults to the OpenAI
	// endpoint; point it at a proxy or local server for other backends.
	BaseURL string `json:"base_url,omitempty"`
	// Model is the chat model used for reasoning calls.
	Model string `json:"model,omitempty"`
	// AudioModel is the transcription model.
	AudioModel string `json:"audio_model,omitempty"`
	// MaxTokens caps the response length of every reasoning call.
	MaxTokens int `json:"max_tokens,omitempty"`
	// TimeoutSeconds bounds a single HTTP attempt. Retries get a fresh
	// budget.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`
}

// DefaultConfig returns the default agent configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://api.openai.com/v1",
		Model:          "gpt-4o-mini",
		AudioModel:     "whisper-1",
		MaxTokens:      500,
		TimeoutSeconds: 180,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.AudioModel != "" {
		c.AudioModel = source.AudioModel
	}
	if source.MaxTokens > 0 {
		c.MaxTokens = source.MaxTokens
	}
	if source.TimeoutSeconds > 0 {
		c.TimeoutSeconds = source.TimeoutSeconds
	}
}

// New creates an Agent from configuration.
func New(cfg *Config, opts ...Option) (Agent, error) {
	return newHTTPAgent(cfg, opts...)
}
