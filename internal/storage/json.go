package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pstuifzand/tui-listadapter/internal/model"
)

// JSONStore handles JSON file persistence of outlines
type JSONStore struct {
	FilePath string
}

// NewJSONStore creates a new JSON store for the given file path
func NewJSONStore(filePath string) *JSONStore {
	return &JSONStore{
		FilePath: filePath,
	}
}

// Load loads an outline from a JSON file
func (s *JSONStore) Load() (*model.Outline, error) {
	data, err := os.ReadFile(s.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty outline if file doesn't exist
			return model.NewOutline(), nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return Decode(data)
}

// Decode parses an outline. Nodes without a positive identifier get one
// when they enter an adapter.
func Decode(data []byte) (*model.Outline, error) {
	var outline model.Outline
	if err := json.Unmarshal(data, &outline); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	// Zero and negative identifiers count as missing
	for _, n := range outline.AllNodes() {
		if n.ID <= 0 {
			n.ID = model.NoIdentifier
		}
	}

	// Restore parent pointers after deserialization
	outline.RestoreParents()

	return &outline, nil
}

// Save saves an outline to a JSON file
func (s *JSONStore) Save(outline *model.Outline) error {
	// Ensure directory exists
	dir := filepath.Dir(s.FilePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(outline, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(s.FilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// FileExists checks if the outline file exists
func (s *JSONStore) FileExists() bool {
	_, err := os.Stat(s.FilePath)
	return err == nil
}
