// Package orchestrator runs the slot-filling conversation loop: it sends
// the session history to the reasoning agent with the finalize tool
// declared, and when the model finalizes an application it scores the
// submission and asks the model to phrase the outcome for the customer.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sahayak-labs/sahayak/agent"
	"github.com/sahayak-labs/sahayak/catalog"
	"github.com/sahayak-labs/sahayak/core/protocol"
	"github.com/sahayak-labs/sahayak/core/response"
	"github.com/sahayak-labs/sahayak/decision"
	"github.com/sahayak-labs/sahayak/observability"
	"github.com/sahayak-labs/sahayak/session"
)

// FallbackReply is returned when the model produces neither text nor a
// tool call. The customer always gets some answer.
const FallbackReply = "Sorry, I could not process your request."

// ClosedReply is returned for any turn after the session was closed by a
// submission. The guard is mechanical; it does not rely on the model
// honoring the prompt instruction to stop.
const ClosedReply = "Your application has already been submitted. Our team will review it and contact you shortly."

// Event types emitted by the orchestrator.
const (
	EventFinalizeInvoked observability.EventType = "orchestrator.finalize.invoked"
	EventVerdictReached  observability.EventType = "orchestrator.verdict.reached"
	EventFallbackUsed    observability.EventType = "orchestrator.fallback.used"
)

// Evaluator scores a finalized submission. decision.Evaluator is the
// production implementation.
type Evaluator interface {
	Evaluate(sub decision.Submission) (decision.Verdict, error)
}

// StateStore records application-progress stages per user. session.Store is
// the production implementation. The orchestrator is the only writer.
type StateStore interface {
	State(user string) session.State
	SetState(user string, state session.State)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver sets the observer receiving orchestrator events.
func WithObserver(obs observability.Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithStates enables the explicit session state machine: new sessions move
// GREETING -> COLLECTING on their first reasoning turn, a scored submission
// moves to SUBMITTED and then CLOSED once its summary is produced, and
// closed sessions get ClosedReply without a reasoning call. Without a state
// store no transitions are tracked and nothing is refused.
func WithStates(states StateStore) Option {
	return func(o *Orchestrator) { o.states = states }
}

// Orchestrator drives one reasoning turn per incoming message.
type Orchestrator struct {
	agent     agent.Agent
	registry  *catalog.Registry
	evaluator Evaluator
	states    StateStore
	observer  observability.Observer
	tools     []protocol.Tool
}

// New creates an Orchestrator. The finalize tool schema is built once from
// the registry; a catalog change requires a new Orchestrator.
func New(a agent.Agent, reg *catalog.Registry, eval Evaluator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		agent:     a,
		registry:  reg,
		evaluator: eval,
		observer:  observability.NoOpObserver{},
		tools:     []protocol.Tool{finalizeTool(reg)},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// finalizeArgs mirrors the finalize tool's JSON argument schema.
type finalizeArgs struct {
	LoanType          string         `json:"loan_type"`
	CustomerDetails   map[string]any `json:"customer_details"`
	DocumentsReceived []string       `json:"documents_received"`
}

// Respond produces the assistant reply for the given history. A plain text
// response passes through verbatim. A finalize call is scored and a second
// reasoning call phrases the verdict for the customer. Agent and evaluator
// errors propagate so the caller controls the degraded reply.
func (o *Orchestrator) Respond(ctx context.Context, userID string, history []protocol.Message) (string, error) {
	if o.states != nil {
		switch o.states.State(userID) {
		case session.StateClosed:
			return ClosedReply, nil
		case session.StateGreeting:
			o.states.SetState(userID, session.StateCollecting)
		}
	}

	resp, err := o.agent.Tools(ctx, history, o.tools)
	if err != nil {
		return "", fmt.Errorf("reasoning call: %w", err)
	}

	msg, ok := firstMessage(resp.Choices)
	if !ok {
		return o.fallback(ctx, userID, "no choices"), nil
	}

	call, found := findFinalize(msg.ToolCalls)
	if !found {
		if msg.Content == "" {
			return o.fallback(ctx, userID, "empty content"), nil
		}
		return msg.Content, nil
	}

	return o.finalize(ctx, userID, history, msg.Content, call)
}

// finalize parses the tool call, scores the submission, and asks the model
// to summarize the outcome.
func (o *Orchestrator) finalize(ctx context.Context, userID string, history []protocol.Message, content string, call protocol.ToolCall) (string, error) {
	var args finalizeArgs
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		return "", fmt.Errorf("parse finalize arguments: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate submission id: %w", err)
	}

	sub := decision.Submission{
		ID:          id.String(),
		UserID:      userID,
		LoanType:    args.LoanType,
		Fields:      args.CustomerDetails,
		Documents:   args.DocumentsReceived,
		SubmittedAt: time.Now().UTC(),
	}

	o.observer.OnEvent(ctx, observability.Event{
		Type:      EventFinalizeInvoked,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "orchestrator",
		Data: map[string]any{
			"user_id":       userID,
			"submission_id": sub.ID,
			"loan_type":     sub.LoanType,
			"field_count":   len(sub.Fields),
		},
	})

	verdict, err := o.evaluator.Evaluate(sub)
	if err != nil {
		return "", fmt.Errorf("evaluate submission: %w", err)
	}

	o.observer.OnEvent(ctx, observability.Event{
		Type:      EventVerdictReached,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "orchestrator",
		Data: map[string]any{
			"user_id":       userID,
			"submission_id": sub.ID,
			"eligible":      verdict.Eligible,
			"score":         verdict.Score,
		},
	})

	if o.states != nil {
		o.states.SetState(userID, session.StateSubmitted)
	}

	followUp := append(append([]protocol.Message(nil), history...),
		protocol.Message{
			Role:      protocol.RoleAssistant,
			Content:   content,
			ToolCalls: []protocol.ToolCall{call},
		},
		protocol.Message{
			Role:       protocol.RoleTool,
			ToolCallID: call.ID,
			Content:    verdictNote(sub, verdict),
		},
	)

	summary, err := o.agent.Tools(ctx, followUp, nil)
	if err != nil {
		return "", fmt.Errorf("summary call: %w", err)
	}

	if o.states != nil {
		o.states.SetState(userID, session.StateClosed)
	}

	msg, ok := firstMessage(summary.Choices)
	if !ok || msg.Content == "" {
		return o.fallback(ctx, userID, "empty summary"), nil
	}
	return msg.Content, nil
}

// verdictNote is the tool result handed back to the model: the recorded
// application plus the deterministic decision it must relay.
func verdictNote(sub decision.Submission, verdict decision.Verdict) string {
	eligible := "NO"
	if verdict.Eligible {
		eligible = "YES"
	}
	return fmt.Sprintf(
		"Application %s recorded for loan type %s.\nEligible: %s\nEligibility Score: %d%%\n"+
			"Tell the customer the outcome in a friendly tone and mention the score.",
		sub.ID, sub.LoanType, eligible, verdict.Score)
}

func (o *Orchestrator) fallback(ctx context.Context, userID, reason string) string {
	o.observer.OnEvent(ctx, observability.Event{
		Type:      EventFallbackUsed,
		Level:     observability.LevelWarning,
		Timestamp: time.Now(),
		Source:    "orchestrator",
		Data:      map[string]any{"user_id": userID, "reason": reason},
	})
	return FallbackReply
}

func firstMessage(choices []response.Choice) (response.ChoiceMessage, bool) {
	if len(choices) == 0 {
		return response.ChoiceMessage{}, false
	}
	return choices[0].Message, true
}

// findFinalize returns the first finalize call among the model's tool
// calls. Calls to unknown tools are ignored rather than failed.
func findFinalize(calls []protocol.ToolCall) (protocol.ToolCall, bool) {
	for _, call := range calls {
		if call.Name == FinalizeToolName {
			return call, true
		}
	}
	return protocol.ToolCall{}, false
}
