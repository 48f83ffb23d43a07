// Package transport delivers chat events from messaging channels to the
// bot and carries replies back. The bot only sees the Event contract; the
// channel specifics (subjects, acks, wire encoding) stay here.
package transport

import (
	"context"
	"errors"
	"strings"
)

// ErrNoReply is returned when an event cannot carry a reply back to its
// sender.
var ErrNoReply = errors.New("event has no reply channel")

// Attachment is a binary payload delivered with an event. Data is carried
// inline; channels with large media are expected to cap it upstream.
type Attachment struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// ReplyFunc sends a text reply to the event's sender.
type ReplyFunc func(ctx context.Context, text string) error

// Event is one inbound message. SenderID is already normalized to a bare
// identifier.
type Event struct {
	SenderID   string
	Text       string
	attachment *Attachment
	reply      ReplyFunc
}

// NewEvent creates an Event. The sender identifier is normalized.
func NewEvent(senderID, text string, attachment *Attachment, reply ReplyFunc) *Event {
	return &Event{
		SenderID:   NormalizeSenderID(senderID),
		Text:       text,
		attachment: attachment,
		reply:      reply,
	}
}

// HasAttachment reports whether the event carries an attachment.
func (e *Event) HasAttachment() bool {
	return e.attachment != nil
}

// Attachment returns the event's attachment, or nil.
func (e *Event) Attachment() *Attachment {
	return e.attachment
}

// Reply sends text back to the sender over the originating channel.
func (e *Event) Reply(ctx context.Context, text string) error {
	if e.reply == nil {
		return ErrNoReply
	}
	return e.reply(ctx, text)
}

// Handler processes one inbound event. Implementations reply through the
// event; a returned error means no reply was delivered.
type Handler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// NormalizeSenderID strips channel address suffixes such as "@c.us",
// leaving the bare sender identifier used as the session key.
func NormalizeSenderID(id string) string {
	if i := strings.IndexByte(id, '@'); i >= 0 {
		return id[:i]
	}
	return id
}
