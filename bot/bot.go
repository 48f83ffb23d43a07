// Package bot wires the assistant together: it builds the agent, session
// store, catalog, evaluator, and orchestrator from configuration and
// handles each inbound chat event end to end.
package bot

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/sahayak-labs/sahayak/agent"
	"github.com/sahayak-labs/sahayak/catalog"
	"github.com/sahayak-labs/sahayak/core/protocol"
	"github.com/sahayak-labs/sahayak/decision"
	"github.com/sahayak-labs/sahayak/extract"
	"github.com/sahayak-labs/sahayak/media"
	"github.com/sahayak-labs/sahayak/observability"
	"github.com/sahayak-labs/sahayak/orchestrator"
	"github.com/sahayak-labs/sahayak/session"
	"github.com/sahayak-labs/sahayak/transport"
)

// errorReply is sent when event handling itself fails. The model's own
// fallback lives in the orchestrator.
const errorReply = "Sorry, I encountered an error processing your message."

// Event types emitted by the bot.
const (
	EventReceived         observability.EventType = "bot.event.received"
	EventMediaSaved       observability.EventType = "bot.media.saved"
	EventExtractionFailed observability.EventType = "bot.extraction.failed"
	EventReasoningFailed  observability.EventType = "bot.reasoning.failed"
	EventReplySent        observability.EventType = "bot.reply.sent"
)

// Responder produces the assistant reply for a conversation history.
// orchestrator.Orchestrator is the production implementation.
type Responder interface {
	Respond(ctx context.Context, userID string, history []protocol.Message) (string, error)
}

// Bot handles inbound chat events.
type Bot struct {
	sessions  session.Store
	media     media.Store
	extractor *extract.Extractor
	responder Responder
	registry  *catalog.Registry
	observer  observability.Observer
}

// Option overrides a subsystem after config-driven initialization. Used by
// tests to inject mocks.
type Option func(*Bot)

// WithSessions overrides the session store.
func WithSessions(s session.Store) Option {
	return func(b *Bot) { b.sessions = s }
}

// WithMediaStore overrides the attachment store.
func WithMediaStore(s media.Store) Option {
	return func(b *Bot) { b.media = s }
}

// WithExtractor overrides the extraction pipeline.
func WithExtractor(e *extract.Extractor) Option {
	return func(b *Bot) { b.extractor = e }
}

// WithResponder overrides the reply pipeline.
func WithResponder(r Responder) Option {
	return func(b *Bot) { b.responder = r }
}

// WithObserver sets the observer receiving bot events. It is not forwarded
// to subsystems built before the option runs; pass observers to those
// through their own constructors when composing manually.
func WithObserver(obs observability.Observer) Option {
	return func(b *Bot) {
		if obs != nil {
			b.observer = obs
		}
	}
}

// New creates a Bot from configuration. Subsystems are initialized from
// their config sections; functional options applied afterwards can replace
// any of them.
func New(cfg *Config, opts ...Option) (*Bot, error) {
	reg := catalog.Default()
	if cfg.CatalogPath != "" {
		loaded, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		reg = loaded
	}

	a, err := agent.New(&cfg.Agent)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	// The session's system message carries the catalog so the model knows
	// every product and its required fields.
	sessionCfg := cfg.Session
	sessionCfg.SystemMessage = orchestrator.SystemPrompt(sessionCfg.SystemMessage, reg)
	sessions, err := session.New(&sessionCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}

	evaluator := decision.NewEvaluator(reg, cfg.Decision)

	b := &Bot{
		sessions:  sessions,
		media:     media.NewFileStore(cfg.MediaDir),
		extractor: extract.New(a),
		responder: orchestrator.New(a, reg, evaluator, orchestrator.WithStates(sessions)),
		registry:  reg,
		observer:  observability.NoOpObserver{},
	}

	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// Registry returns the loan catalog the bot was built with.
func (b *Bot) Registry() *catalog.Registry {
	return b.registry
}

// HandleEvent processes one inbound event and sends exactly one reply.
// Extraction failures degrade to placeholder turns; reasoning failures
// degrade to the generic apology. The session survives every failure mode.
func (b *Bot) HandleEvent(ctx context.Context, event *transport.Event) error {
	user := event.SenderID

	b.observer.OnEvent(ctx, observability.Event{
		Type:      EventReceived,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "bot",
		Data:      map[string]any{"user_id": user, "has_attachment": event.HasAttachment()},
	})

	var content any
	var fallbackOverride string

	if event.HasAttachment() {
		content, fallbackOverride = b.mediaContent(ctx, user, event)
	} else {
		content = event.Text
	}

	b.sessions.Append(user, protocol.RoleUser, content)

	reply := b.respond(ctx, user)
	if fallbackOverride != "" && (reply == "" || reply == orchestrator.FallbackReply) {
		reply = fallbackOverride
	}

	b.sessions.Append(user, protocol.RoleAssistant, reply)

	if err := event.Reply(ctx, reply); err != nil {
		return fmt.Errorf("send reply to %s: %w", user, err)
	}

	b.observer.OnEvent(ctx, observability.Event{
		Type:      EventReplySent,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "bot",
		Data:      map[string]any{"user_id": user, "length": len(reply)},
	})
	return nil
}

// respond runs the reasoning pipeline over the user's history. A failed
// reasoning call degrades to the generic apology; the session stays open.
func (b *Bot) respond(ctx context.Context, user string) string {
	history := b.sessions.History(user)

	reply, err := b.responder.Respond(ctx, user, history)
	if err != nil {
		b.observer.OnEvent(ctx, observability.Event{
			Type:      EventReasoningFailed,
			Level:     observability.LevelError,
			Timestamp: time.Now(),
			Source:    "bot",
			Data:      map[string]any{"user_id": user, "error": err.Error()},
		})
		return errorReply
	}
	return reply
}

// mediaContent stores the attachment and converts it into the user turn:
// transcribed audio, extracted PDF text, a multimodal image turn, or a
// save-confirmation note. The second return value overrides the model's
// generic fallback when the attachment itself already deserves a concrete
// answer.
func (b *Bot) mediaContent(ctx context.Context, user string, event *transport.Event) (any, string) {
	att := event.Attachment()
	filename := attachmentFilename(att)

	path, err := b.media.Save(ctx, user, filename, att.Data)
	if err != nil {
		b.extractionFailed(ctx, user, filename, err)
		return fmt.Sprintf("User sent an attachment (%s) but it could not be saved.", filename), ""
	}

	b.observer.OnEvent(ctx, observability.Event{
		Type:      EventMediaSaved,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "bot",
		Data:      map[string]any{"user_id": user, "filename": filename, "mime_type": att.MIMEType},
	})

	switch {
	case extract.IsAudio(att.MIMEType, filename):
		return b.audioContent(ctx, user, event.Text, path, filename, att.MIMEType)
	case extract.IsPDF(att.MIMEType, filename):
		return b.pdfContent(ctx, user, event.Text, path, filename)
	case isImage(att.MIMEType):
		return imageContent(event.Text, att), ""
	default:
		return fmt.Sprintf("User sent a document: %s (%s). The file has been saved.", filename, att.MIMEType),
			fmt.Sprintf("Got your file (%s). File saved successfully. Let me know if you'd like me to help with anything else.", filename)
	}
}

func (b *Bot) audioContent(ctx context.Context, user, caption, path, filename, mimeType string) (any, string) {
	transcript, err := b.extractor.Text(ctx, path, mimeType)
	if err != nil {
		b.extractionFailed(ctx, user, filename, err)
		return fmt.Sprintf("User sent a voice message (%s). Audio file saved but transcription failed.", filename),
			"I received your voice message but had trouble transcribing it. Could you please send it as text or try recording again?"
	}

	if caption != "" {
		return fmt.Sprintf("%s\n\n[Voice Message Transcription]: %s", caption, transcript), ""
	}
	return fmt.Sprintf("[Voice Message Transcription]: %s", transcript), ""
}

func (b *Bot) pdfContent(ctx context.Context, user, caption, path, filename string) (any, string) {
	text, err := extract.PDFText(path)
	if err != nil {
		b.extractionFailed(ctx, user, filename, err)
		return fmt.Sprintf("User uploaded a PDF document: %s. Unable to extract text, but file is saved.", filename), ""
	}

	if caption == "" {
		caption = "I've uploaded a document. Please extract relevant loan application information from it."
	}
	return fmt.Sprintf("%s\n\nDocument: %s\n\nExtracted Text from PDF:\n%s", caption, filename, text), ""
}

// imageAnalysisInstruction asks the model to pull every loan-relevant
// detail out of an uploaded document image.
const imageAnalysisInstruction = "Analyze this image carefully and extract ALL relevant details: " +
	"personal details (name, date of birth, address, phone, email), ID numbers, " +
	"financial information (income, salary, bank details), employment details, " +
	"property or vehicle details, and anything else useful for a loan application."

func imageContent(caption string, att *transport.Attachment) []protocol.Part {
	prompt := imageAnalysisInstruction
	if caption != "" {
		prompt = caption + "\n\n" + imageAnalysisInstruction
	}
	return []protocol.Part{
		protocol.TextPart(prompt),
		protocol.ImagePart(att.MIMEType, base64.StdEncoding.EncodeToString(att.Data)),
	}
}

func (b *Bot) extractionFailed(ctx context.Context, user, filename string, err error) {
	b.observer.OnEvent(ctx, observability.Event{
		Type:      EventExtractionFailed,
		Level:     observability.LevelWarning,
		Timestamp: time.Now(),
		Source:    "bot",
		Data:      map[string]any{"user_id": user, "filename": filename, "error": err.Error()},
	})
}

// attachmentFilename picks a safe filename: the sender's name when given,
// otherwise one derived from the MIME type.
func attachmentFilename(att *transport.Attachment) string {
	if att.Filename != "" {
		return att.Filename
	}
	return fmt.Sprintf("attachment-%d%s", time.Now().UnixNano(), media.ExtensionForMIME(att.MIMEType))
}

func isImage(mimeType string) bool {
	return len(mimeType) > 6 && mimeType[:6] == "image/"
}
