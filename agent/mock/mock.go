// Package mock provides a scriptable Agent for tests. Responses are served
// in order; the mock also records every call so tests can assert on the
// messages the caller sent.
package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/sahayak-labs/sahayak/core/protocol"
	"github.com/sahayak-labs/sahayak/core/response"
)

// ToolsCall records one Tools invocation.
type ToolsCall struct {
	Messages []protocol.Message
	Tools    []protocol.Tool
}

// Agent is a scriptable mock reasoning agent.
type Agent struct {
	mu sync.Mutex

	responses []*response.ToolsResponse
	errs      []error
	calls     []ToolsCall

	transcript    string
	transcribeErr error
}

// New creates an empty mock agent. Script it with Queue and QueueError.
func New() *Agent {
	return &Agent{}
}

// Queue appends a response to be returned by the next unserved Tools call.
func (a *Agent) Queue(resp *response.ToolsResponse) *Agent {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses = append(a.responses, resp)
	a.errs = append(a.errs, nil)
	return a
}

// QueueError appends an error to be returned by the next unserved Tools call.
func (a *Agent) QueueError(err error) *Agent {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses = append(a.responses, nil)
	a.errs = append(a.errs, err)
	return a
}

// WithTranscript sets the text returned by Transcribe.
func (a *Agent) WithTranscript(text string) *Agent {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.transcript = text
	return a
}

// WithTranscribeError makes Transcribe fail.
func (a *Agent) WithTranscribeError(err error) *Agent {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.transcribeErr = err
	return a
}

func (a *Agent) Tools(_ context.Context, messages []protocol.Message, tools []protocol.Tool) (*response.ToolsResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	call := ToolsCall{
		Messages: append([]protocol.Message(nil), messages...),
		Tools:    append([]protocol.Tool(nil), tools...),
	}
	a.calls = append(a.calls, call)

	i := len(a.calls) - 1
	if i >= len(a.responses) {
		return nil, errors.New("mock agent: no more responses queued")
	}
	return a.responses[i], a.errs[i]
}

func (a *Agent) Transcribe(_ context.Context, _ string) (*response.AudioResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.transcribeErr != nil {
		return nil, a.transcribeErr
	}
	return &response.AudioResponse{Text: a.transcript}, nil
}

// Calls returns all recorded Tools invocations.
func (a *Agent) Calls() []ToolsCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ToolsCall(nil), a.calls...)
}

// TextResponse builds a ToolsResponse carrying plain assistant text.
func TextResponse(content string) *response.ToolsResponse {
	return &response.ToolsResponse{
		Model: "mock",
		Choices: []response.Choice{{
			Message:      response.ChoiceMessage{Role: "assistant", Content: content},
			FinishReason: "stop",
		}},
	}
}

// ToolCallResponse builds a ToolsResponse carrying tool invocations.
func ToolCallResponse(calls ...protocol.ToolCall) *response.ToolsResponse {
	return &response.ToolsResponse{
		Model: "mock",
		Choices: []response.Choice{{
			Message:      response.ChoiceMessage{Role: "assistant", ToolCalls: calls},
			FinishReason: "tool_calls",
		}},
	}
}

// EmptyResponse builds a ToolsResponse with neither text nor tool calls.
func EmptyResponse() *response.ToolsResponse {
	return &response.ToolsResponse{
		Model: "mock",
		Choices: []response.Choice{{
			Message: response.ChoiceMessage{Role: "assistant"},
		}},
	}
}
