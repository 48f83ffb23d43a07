package media_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sahayak-labs/sahayak/media"
)

func TestSaveAndLoad(t *testing.T) {
	store := media.NewFileStore(t.TempDir())
	ctx := context.Background()

	path, err := store.Save(ctx, "user-1", "doc.pdf", []byte("pdf bytes"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Base(path) != "doc.pdf" {
		t.Errorf("got path %q, want filename preserved", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}

	data, err := store.Load(ctx, "user-1", "doc.pdf")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(data) != "pdf bytes" {
		t.Errorf("got %q, want saved bytes", data)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := media.NewFileStore(t.TempDir())
	ctx := context.Background()

	if _, err := store.Save(ctx, "u", "a.txt", []byte("one")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := store.Save(ctx, "u", "a.txt", []byte("two")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := store.Load(ctx, "u", "a.txt")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(data) != "two" {
		t.Errorf("got %q, want overwritten content", data)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := media.NewFileStore(dir)

	if _, err := store.Save(context.Background(), "u", "a.txt", []byte("x")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "u"))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "a.txt" {
		t.Errorf("unexpected directory contents: %v", entries)
	}
}

func TestInvalidNames(t *testing.T) {
	store := media.NewFileStore(t.TempDir())
	ctx := context.Background()

	tests := []struct {
		name     string
		userID   string
		filename string
	}{
		{"empty user", "", "a.txt"},
		{"empty filename", "u", ""},
		{"traversal filename", "u", "../escape"},
		{"slash in user", "a/b", "a.txt"},
		{"backslash in filename", "u", "a\\b"},
		{"dot dot", "u", ".."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Save(ctx, tt.userID, tt.filename, nil); !errors.Is(err, media.ErrInvalidName) {
				t.Errorf("Save: got %v, want ErrInvalidName", err)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	store := media.NewFileStore(t.TempDir())

	_, err := store.Load(context.Background(), "u", "nope.pdf")
	if !errors.Is(err, media.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestListAndPurge(t *testing.T) {
	store := media.NewFileStore(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"b.ogg", "a.pdf"} {
		if _, err := store.Save(ctx, "u", name, []byte("x")); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	names, err := store.List(ctx, "u")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 || names[0] != "a.pdf" || names[1] != "b.ogg" {
		t.Errorf("got %v, want sorted filenames", names)
	}

	if err := store.Purge(ctx, "u"); err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	names, err = store.List(ctx, "u")
	if err != nil {
		t.Fatalf("List after purge failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("got %v after purge, want empty", names)
	}

	// Purging an unknown user is a no-op.
	if err := store.Purge(ctx, "ghost"); err != nil {
		t.Errorf("Purge of unknown user failed: %v", err)
	}
}

func TestExtensionForMIME(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"application/pdf", ".pdf"},
		{"audio/ogg", ".ogg"},
		{"audio/ogg; codecs=opus", ".ogg"},
		{"audio/mpeg", ".mp3"},
		{"image/JPEG", ".jpg"},
		{"application/octet-stream", ".bin"},
		{"", ".bin"},
	}

	for _, tt := range tests {
		if got := media.ExtensionForMIME(tt.mime); got != tt.want {
			t.Errorf("ExtensionForMIME(%q) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}
