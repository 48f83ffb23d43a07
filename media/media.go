// Package media stores incoming attachments on disk so the extraction
// pipeline can read them back. Files are grouped per user and written
// atomically; a crash never leaves a half-written attachment behind.
package media

import (
	"context"
	"errors"
	"strings"
)

// Sentinel errors for store operations.
var (
	ErrNotFound    = errors.New("attachment not found")
	ErrSaveFailed  = errors.New("save failed")
	ErrInvalidName = errors.New("invalid attachment name")
)

// Store persists attachments keyed by user and filename. Implementations
// are stateless and safe for concurrent use.
type Store interface {
	// Save writes the attachment and returns its absolute path.
	Save(ctx context.Context, userID, filename string, data []byte) (string, error)
	// Load reads a previously saved attachment.
	Load(ctx context.Context, userID, filename string) ([]byte, error)
	// List returns the user's attachment filenames, sorted.
	List(ctx context.Context, userID string) ([]string, error)
	// Purge removes all attachments for a user. Missing users are ignored.
	Purge(ctx context.Context, userID string) error
}

// validName rejects empty names and anything that could escape the store
// root.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, "/\\") {
		return false
	}
	return true
}

// ExtensionForMIME maps an attachment MIME type to a file extension.
// Unknown types get ".bin".
func ExtensionForMIME(mimeType string) string {
	// Strip parameters like "; codecs=opus".
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	switch strings.ToLower(mimeType) {
	case "application/pdf":
		return ".pdf"
	case "audio/ogg":
		return ".ogg"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return ".m4a"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
