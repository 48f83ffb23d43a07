package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/sahayak-labs/sahayak/observability"
)

// Event types emitted by the NATS consumer.
const (
	EventReceived      observability.EventType = "transport.event.received"
	EventBadPayload    observability.EventType = "transport.event.bad_payload"
	EventReplySent     observability.EventType = "transport.reply.sent"
	EventHandlerFailed observability.EventType = "transport.handler.failed"
)

// NATSConfig holds consumer parameters.
type NATSConfig struct {
	// URL is the NATS server address.
	URL string `json:"url,omitempty"`
	// Subject carries inbound chat events.
	Subject string `json:"subject,omitempty"`
	// QueueGroup distributes events across bot replicas.
	QueueGroup string `json:"queue_group,omitempty"`
}

// DefaultNATSConfig returns the default consumer configuration.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:        nats.DefaultURL,
		Subject:    "sahayak.chat.inbound",
		QueueGroup: "sahayak-bot",
	}
}

// Merge applies non-zero values from source into c.
func (c *NATSConfig) Merge(source *NATSConfig) {
	if source.URL != "" {
		c.URL = source.URL
	}
	if source.Subject != "" {
		c.Subject = source.Subject
	}
	if source.QueueGroup != "" {
		c.QueueGroup = source.QueueGroup
	}
}

// InboundMessage is the JSON wire form of one chat event. Gateways publish
// it on the configured subject and receive the reply on the request's
// reply inbox.
type InboundMessage struct {
	Sender     string      `json:"sender"`
	Text       string      `json:"text,omitempty"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// DecodeInbound parses an inbound wire message.
func DecodeInbound(data []byte) (InboundMessage, error) {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return InboundMessage{}, fmt.Errorf("decode inbound message: %w", err)
	}
	if msg.Sender == "" {
		return InboundMessage{}, fmt.Errorf("decode inbound message: missing sender")
	}
	return msg, nil
}

// NATSConsumer subscribes to a subject and feeds events to a Handler.
type NATSConsumer struct {
	cfg      NATSConfig
	handler  Handler
	observer observability.Observer
	conn     *nats.Conn
	sub      *nats.Subscription
}

// NATSOption configures a NATSConsumer.
type NATSOption func(*NATSConsumer)

// WithNATSObserver sets the observer receiving transport events.
func WithNATSObserver(obs observability.Observer) NATSOption {
	return func(c *NATSConsumer) {
		if obs != nil {
			c.observer = obs
		}
	}
}

// NewNATSConsumer creates a consumer. Call Start to connect and subscribe.
func NewNATSConsumer(cfg NATSConfig, handler Handler, opts ...NATSOption) *NATSConsumer {
	c := &NATSConsumer{
		cfg:      cfg,
		handler:  handler,
		observer: observability.NoOpObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start connects to NATS and begins consuming. Events are handled on the
// subscription's delivery goroutine; the queue group shares load across
// replicas.
func (c *NATSConsumer) Start(ctx context.Context) error {
	conn, err := nats.Connect(c.cfg.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return fmt.Errorf("connect to nats at %s: %w", c.cfg.URL, err)
	}
	c.conn = conn

	sub, err := conn.QueueSubscribe(c.cfg.Subject, c.cfg.QueueGroup, func(msg *nats.Msg) {
		c.consume(ctx, msg)
	})
	if err != nil {
		conn.Close()
		return fmt.Errorf("subscribe to %s: %w", c.cfg.Subject, err)
	}
	c.sub = sub
	return nil
}

func (c *NATSConsumer) consume(ctx context.Context, msg *nats.Msg) {
	inbound, err := DecodeInbound(msg.Data)
	if err != nil {
		c.observer.OnEvent(ctx, observability.Event{
			Type:      EventBadPayload,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    "transport",
			Data:      map[string]any{"subject": msg.Subject, "error": err.Error()},
		})
		return
	}

	event := NewEvent(inbound.Sender, inbound.Text, inbound.Attachment,
		func(ctx context.Context, text string) error {
			if err := msg.Respond([]byte(text)); err != nil {
				return fmt.Errorf("respond on %s: %w", msg.Subject, err)
			}
			c.observer.OnEvent(ctx, observability.Event{
				Type:      EventReplySent,
				Level:     observability.LevelVerbose,
				Timestamp: time.Now(),
				Source:    "transport",
				Data:      map[string]any{"sender": inbound.Sender},
			})
			return nil
		})

	c.observer.OnEvent(ctx, observability.Event{
		Type:      EventReceived,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "transport",
		Data: map[string]any{
			"sender":         event.SenderID,
			"has_attachment": event.HasAttachment(),
		},
	})

	if err := c.handler.HandleEvent(ctx, event); err != nil {
		c.observer.OnEvent(ctx, observability.Event{
			Type:      EventHandlerFailed,
			Level:     observability.LevelError,
			Timestamp: time.Now(),
			Source:    "transport",
			Data:      map[string]any{"sender": event.SenderID, "error": err.Error()},
		})
	}
}

// Close drains the subscription and closes the connection.
func (c *NATSConsumer) Close() error {
	if c.sub != nil {
		if err := c.sub.Drain(); err != nil {
			return fmt.Errorf("drain subscription: %w", err)
		}
	}
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}
