package state

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/pretty"

	"github.com/agentcrate/agentcrate/pkg/document"
)

// Store is the file-backed home of the persisted configuration document. It
// is read once at the start of a synthesis pass and written once at the end;
// passing it by reference keeps the synthesizer testable against in-memory
// documents.
type Store struct {
	path string
}

// NewStore creates a store rooted at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the persisted document.
func (s *Store) Path() string {
	return s.path
}

// ReadBytes returns the raw persisted document, or (nil, nil) when the file
// does not exist yet. First-run absence is expected, not an error.
func (s *Store) ReadBytes() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read persisted config %s: %w", s.path, err)
	}
	return data, nil
}

// Write serializes the document as pretty-printed JSON and replaces the
// persisted file atomically via a temp-file rename.
func (s *Store) Write(doc document.Map) error {
	data, err := document.EncodeJSON(doc)
	if err != nil {
		return fmt.Errorf("encode persisted config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".runtime-*.json")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(pretty.Pretty(data)); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write persisted config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close persisted config: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace persisted config %s: %w", s.path, err)
	}
	return nil
}
