package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type fileStore struct {
	root string
}

// NewFileStore creates a Store rooted at dir. Each user gets one
// subdirectory; attachments are plain files within it.
func NewFileStore(dir string) Store {
	return &fileStore{root: dir}
}

func (s *fileStore) Save(_ context.Context, userID, filename string, data []byte) (string, error) {
	if !validName(userID) || !validName(filename) {
		return "", fmt.Errorf("%w: %s/%s", ErrInvalidName, userID, filename)
	}

	dir := filepath.Join(s.root, userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSaveFailed, filename, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSaveFailed, filename, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: %s: %v", ErrSaveFailed, filename, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: %s: %v", ErrSaveFailed, filename, err)
	}

	path := filepath.Join(dir, filename)
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: %s: %v", ErrSaveFailed, filename, err)
	}

	return path, nil
}

func (s *fileStore) Load(_ context.Context, userID, filename string) ([]byte, error) {
	if !validName(userID) || !validName(filename) {
		return nil, fmt.Errorf("%w: %s/%s", ErrInvalidName, userID, filename)
	}

	data, err := os.ReadFile(filepath.Join(s.root, userID, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, userID, filename)
		}
		return nil, fmt.Errorf("load attachment %s/%s: %w", userID, filename, err)
	}
	return data, nil
}

func (s *fileStore) List(_ context.Context, userID string) ([]string, error) {
	if !validName(userID) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidName, userID)
	}

	entries, err := os.ReadDir(filepath.Join(s.root, userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list attachments for %s: %w", userID, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (s *fileStore) Purge(_ context.Context, userID string) error {
	if !validName(userID) {
		return fmt.Errorf("%w: %s", ErrInvalidName, userID)
	}
	if err := os.RemoveAll(filepath.Join(s.root, userID)); err != nil {
		return fmt.Errorf("purge attachments for %s: %w", userID, err)
	}
	return nil
}
