package response

import (
	"encoding/json"
	"fmt"
)

// AudioResponse is a parsed audio transcription response.
// Language and Duration are populated only for verbose response formats.
type AudioResponse struct {
	Task     string  `json:"task,omitempty"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Text     string  `json:"text"`
}

// Content returns the transcribed text.
func (r *AudioResponse) Content() string {
	return r.Text
}

// ParseAudio parses a JSON audio transcription response body.
func ParseAudio(body []byte) (*AudioResponse, error) {
	var resp AudioResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse audio response: %w", err)
	}
	return &resp, nil
}
