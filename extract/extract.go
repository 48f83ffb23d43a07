// Package extract converts attachments into conversation text: PDF
// documents through local text extraction, audio through the reasoning
// agent's transcription endpoint.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sahayak-labs/sahayak/core/response"
)

// Sentinel errors for extraction.
var (
	ErrUnsupportedType = errors.New("unsupported attachment type")
	ErrEmptyDocument   = errors.New("document contains no text")
)

// Transcriber converts an audio file to text. agent.Agent satisfies this.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*response.AudioResponse, error)
}

// Extractor dispatches attachments to the right extraction path by MIME
// type, falling back to the file extension when the type is missing.
type Extractor struct {
	transcriber Transcriber
}

// New creates an Extractor using the given transcriber for audio.
func New(t Transcriber) *Extractor {
	return &Extractor{transcriber: t}
}

// Text extracts conversation text from the attachment at path.
func (e *Extractor) Text(ctx context.Context, path, mimeType string) (string, error) {
	switch {
	case IsPDF(mimeType, path):
		return PDFText(path)
	case IsAudio(mimeType, path):
		return e.audioText(ctx, path)
	default:
		return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, filepath.Base(path), mimeType)
	}
}

func (e *Extractor) audioText(ctx context.Context, path string) (string, error) {
	resp, err := e.transcriber.Transcribe(ctx, path)
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", filepath.Base(path), err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// IsPDF reports whether the attachment is a PDF document.
func IsPDF(mimeType, path string) bool {
	if normalizeMIME(mimeType) == "application/pdf" {
		return true
	}
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// audioExtensions are the file extensions treated as voice messages.
var audioExtensions = map[string]bool{
	".ogg":  true,
	".oga":  true,
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".aac":  true,
	".opus": true,
}

// IsAudio reports whether the attachment is an audio recording.
func IsAudio(mimeType, path string) bool {
	if strings.HasPrefix(normalizeMIME(mimeType), "audio/") {
		return true
	}
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

func normalizeMIME(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
