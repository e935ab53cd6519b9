// Package mapping persists original→synthetic value mappings, keyed by field
// name for ungrouped fields or by group id for common record groups.
package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Store persists value mappings under string keys
type Store interface {
	// Load returns the mapping stored under key. A missing key yields an
	// empty mapping, not an error.
	Load(key string) (map[string]string, error)
	// Save replaces the mapping stored under key.
	Save(key string, values map[string]string) error
	// Delete removes the mapping stored under key.
	Delete(key string) error
}

// FileStore keeps one JSON object per key under a mappings directory
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates a file-backed mapping store rooted at dir
func NewFileStore(dir string, logger *zap.Logger) *FileStore {
	return &FileStore{dir: dir, logger: logger}
}

// Load reads the mapping file for key, returning an empty mapping when the
// file does not exist yet.
func (s *FileStore) Load(key string) (map[string]string, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read mapping %q: %w", key, err)
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse mapping %q: %w", key, err)
	}

	s.logger.Debug("Loaded mapping",
		zap.String("key", key),
		zap.Int("entries", len(values)))
	return values, nil
}

// Save writes the mapping file for key, creating the directory if needed
func (s *FileStore) Save(key string, values map[string]string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create mappings directory: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode mapping %q: %w", key, err)
	}

	if err := os.WriteFile(s.path(key), data, 0o600); err != nil {
		return fmt.Errorf("failed to write mapping %q: %w", key, err)
	}

	s.logger.Debug("Saved mapping",
		zap.String("key", key),
		zap.Int("entries", len(values)))
	return nil
}

// Delete removes the mapping file for key; deleting a missing key is a no-op
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete mapping %q: %w", key, err)
	}
	return nil
}

// path returns the file path for a mapping key. Keys come from field names
// and group ids supplied by callers, so anything unsafe for a filename is
// flattened to underscores.
func (s *FileStore) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(s.dir, safe+".json")
}
