// Package protocol defines the canonical conversation types shared across
// the assistant: message roles, multimodal content parts, tool call records,
// and tool schemas. Types marshal to the OpenAI-compatible wire format.
package protocol

import (
	"encoding/json"
	"strings"
	"time"
)

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall represents a tool invocation returned by the model.
// Fields are flat (ID, Name, Arguments) for direct use in the orchestrator.
// Marshalling round-trips through the nested wire format
// ({type, function: {name, arguments}}) so provider responses decode directly.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewToolCall creates a ToolCall with the given id, tool name, and
// JSON-encoded arguments.
func NewToolCall(id, name, arguments string) ToolCall {
	return ToolCall{ID: id, Name: name, Arguments: arguments}
}

// MarshalJSON serializes to the nested wire format.
func (tc ToolCall) MarshalJSON() ([]byte, error) {
	type function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	}
	return json.Marshal(struct {
		ID       string   `json:"id"`
		Type     string   `json:"type"`
		Function function `json:"function"`
	}{
		ID:       tc.ID,
		Type:     "function",
		Function: function{Name: tc.Name, Arguments: tc.Arguments},
	})
}

// UnmarshalJSON accepts both the nested wire format ({function: {name,
// arguments}}) and the flat form ({name, arguments}).
func (tc *ToolCall) UnmarshalJSON(data []byte) error {
	var nested struct {
		ID       string `json:"id"`
		Function struct {
			Name      string `json:"name"`
			Arguments string `json:"arguments"`
		} `json:"function"`
	}
	if err := json.Unmarshal(data, &nested); err != nil {
		return err
	}

	if nested.Function.Name != "" {
		tc.ID = nested.ID
		tc.Name = nested.Function.Name
		tc.Arguments = nested.Function.Arguments
		return nil
	}

	type plain ToolCall
	return json.Unmarshal(data, (*plain)(tc))
}

// Message is a single conversation turn. Content is either a plain string
// or an ordered []Part for multimodal turns (text segments plus inlined
// images). Timestamp records when the turn was stored; it never goes over
// the wire.
//
// Assistant messages may carry ToolCalls; tool result messages carry a
// ToolCallID correlating back to the request.
type Message struct {
	Role       Role       `json:"role"`
	Content    any        `json:"content"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	Timestamp  time.Time  `json:"-"`
}

// NewMessage creates a Message with the given role and content.
func NewMessage(role Role, content any) Message {
	return Message{Role: role, Content: content}
}

// Text flattens the message content to plain text. Multimodal parts
// contribute their text segments joined by newlines; image parts are
// skipped.
func (m Message) Text() string {
	switch c := m.Content.(type) {
	case string:
		return c
	case []Part:
		var segments []string
		for _, p := range c {
			if p.Type == PartText {
				segments = append(segments, p.Text)
			}
		}
		return strings.Join(segments, "\n")
	default:
		return ""
	}
}
