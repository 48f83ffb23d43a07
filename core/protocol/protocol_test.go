package protocol_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/sahayak-labs/sahayak/core/protocol"
)

func TestNewMessage_StringContent(t *testing.T) {
	msg := protocol.NewMessage(protocol.RoleUser, "Hello, world!")

	if msg.Role != protocol.RoleUser {
		t.Errorf("got role %q, want %q", msg.Role, protocol.RoleUser)
	}

	content, ok := msg.Content.(string)
	if !ok {
		t.Fatalf("content is %T, want string", msg.Content)
	}
	if content != "Hello, world!" {
		t.Errorf("got content %q, want %q", content, "Hello, world!")
	}
}

func TestMessage_Text(t *testing.T) {
	tests := []struct {
		name     string
		message  protocol.Message
		expected string
	}{
		{
			"plain string",
			protocol.NewMessage(protocol.RoleUser, "hello"),
			"hello",
		},
		{
			"single text part",
			protocol.NewMessage(protocol.RoleUser, []protocol.Part{
				protocol.TextPart("from a part"),
			}),
			"from a part",
		},
		{
			"text and image parts",
			protocol.NewMessage(protocol.RoleUser, []protocol.Part{
				protocol.TextPart("first"),
				protocol.ImagePart("image/png", "aGVsbG8="),
				protocol.TextPart("second"),
			}),
			"first\nsecond",
		},
		{
			"nil content",
			protocol.Message{Role: protocol.RoleUser},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.message.Text(); got != tt.expected {
				t.Errorf("Text() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestImagePart_DataURL(t *testing.T) {
	part := protocol.ImagePart("image/jpeg", "QUJD")

	if part.Type != protocol.PartImage {
		t.Errorf("got type %q, want %q", part.Type, protocol.PartImage)
	}
	if part.ImageURL == nil {
		t.Fatal("ImageURL is nil")
	}
	if part.ImageURL.URL != "data:image/jpeg;base64,QUJD" {
		t.Errorf("got URL %q, want data URL", part.ImageURL.URL)
	}
}

func TestToolCall_MarshalNestedFormat(t *testing.T) {
	tc := protocol.NewToolCall("call_1", "submit_application", `{"loan_type":"gold_loan"}`)

	data, err := json.Marshal(tc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	out := string(data)
	for _, want := range []string{`"type":"function"`, `"name":"submit_application"`, `"id":"call_1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("marshalled %s missing %s", out, want)
		}
	}
}

func TestToolCall_UnmarshalBothFormats(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			"nested wire format",
			`{"id":"call_1","type":"function","function":{"name":"submit_application","arguments":"{}"}}`,
		},
		{
			"flat format",
			`{"id":"call_1","name":"submit_application","arguments":"{}"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tc protocol.ToolCall
			if err := json.Unmarshal([]byte(tt.raw), &tc); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if tc.ID != "call_1" {
				t.Errorf("got ID %q, want %q", tc.ID, "call_1")
			}
			if tc.Name != "submit_application" {
				t.Errorf("got name %q, want %q", tc.Name, "submit_application")
			}
			if tc.Arguments != "{}" {
				t.Errorf("got arguments %q, want %q", tc.Arguments, "{}")
			}
		})
	}
}

func TestToolCall_RoundTrip(t *testing.T) {
	original := protocol.NewToolCall("call_9", "submit_application", `{"a":1}`)

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded protocol.ToolCall
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded != original {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMessage_TimestampNotSerialized(t *testing.T) {
	msg := protocol.NewMessage(protocol.RoleUser, "hi")
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "Timestamp") || strings.Contains(string(data), "timestamp") {
		t.Errorf("timestamp leaked into wire format: %s", data)
	}
}
