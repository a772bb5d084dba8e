package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/travel-forecast/internal/logger"
)

// DefaultFileName is the cache file used when none is configured
const DefaultFileName = "travel.json"

// FileStore is a Store persisted as a single JSON object
type FileStore struct {
	path    string
	entries map[string]string
}

// LoadFileStore loads the cache at path. A missing, unreadable or corrupt file yields an
// empty cache rather than an error.
func LoadFileStore(path string) (*FileStore, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	return &FileStore{
		path:    path,
		entries: load(path),
	}, nil
}

// expandHome expands a leading ~/ to the user's home directory
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

func load(path string) map[string]string {
	entries := make(map[string]string)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cache unreadable, starting empty", logger.Fields{"path": path, "error": err.Error()})
		}
		return entries
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("cache corrupt, starting empty", logger.Fields{"path": path, "error": err.Error()})
		return make(map[string]string)
	}
	if entries == nil {
		entries = make(map[string]string)
	}

	return entries
}

// Path returns the file backing the store
func (s *FileStore) Path() string {
	return s.path
}

// Get implements Store
func (s *FileStore) Get(_ context.Context, url string) (string, bool, error) {
	body, ok := s.entries[url]
	return body, ok, nil
}

// Put implements Store. The whole file is rewritten on every call.
func (s *FileStore) Put(_ context.Context, url, body string) error {
	s.entries[url] = body
	return s.Save()
}

// Save overwrites the cache file with the current entries
func (s *FileStore) Save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating cache directory: %w", err)
		}
	}

	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}

	return nil
}

// Clear implements Store by dropping every entry and removing the file
func (s *FileStore) Clear(_ context.Context) error {
	s.entries = make(map[string]string)
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache file: %w", err)
	}
	return nil
}

// Len implements Store
func (s *FileStore) Len(_ context.Context) (int, error) {
	return len(s.entries), nil
}
