// Package state persists the selected and expanded identifiers of a list so
// a later session can restore them.
package state

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/pstuifzand/tui-listadapter/internal/adapter"
	"github.com/pstuifzand/tui-listadapter/internal/expansion"
	"github.com/pstuifzand/tui-listadapter/internal/selection"
)

// Snapshot is the persisted extension state of one list
type Snapshot struct {
	Selected []int64 `toml:"selected"`
	Expanded []int64 `toml:"expanded"`
}

// Manager handles loading and saving snapshots to TOML files
type Manager struct {
	stateDir string
}

// NewManager creates a manager storing its files in dir
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Manager{stateDir: dir}, nil
}

// NewDefaultManager creates a manager with directory at ~/.local/share/tui-listadapter/state/
func NewDefaultManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewManager(filepath.Join(homeDir, ".local", "share", "tui-listadapter", "state"))
}

// Load loads a snapshot from a TOML file. A missing or corrupted file
// yields an empty snapshot.
func (m *Manager) Load(filename string) (Snapshot, error) {
	filePath := filepath.Join(m.stateDir, filename)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, nil
		}
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := toml.Unmarshal(data, &snap); err != nil {
		// don't fail on a corrupted file
		return Snapshot{}, nil
	}

	return snap, nil
}

// Save saves a snapshot to a TOML file
func (m *Manager) Save(filename string, snap Snapshot) error {
	filePath := filepath.Join(m.stateDir, filename)

	data, err := toml.Marshal(snap)
	if err != nil {
		return err
	}

	return os.WriteFile(filePath, data, 0644)
}

// Capture reads the selected and expanded identifiers of a
func Capture(a *adapter.Adapter) Snapshot {
	var snap Snapshot
	if sel, ok := adapter.ExtensionOf[*selection.Extension](a); ok {
		snap.Selected = sel.SelectedIdentifiers()
	}
	if exp, ok := adapter.ExtensionOf[*expansion.Extension](a); ok {
		snap.Expanded = exp.ExpandedIdentifiers()
	}
	return snap
}

// Restore expands and then selects the identifiers of snap. Identifiers
// that are not bound to a row are skipped.
func Restore(a *adapter.Adapter, snap Snapshot) error {
	if exp, ok := adapter.ExtensionOf[*expansion.Extension](a); ok {
		if err := exp.ExpandByIdentifier(snap.Expanded...); err != nil {
			return fmt.Errorf("restore expansion: %w", err)
		}
	}
	if sel, ok := adapter.ExtensionOf[*selection.Extension](a); ok {
		if err := sel.SelectByIdentifier(snap.Selected...); err != nil {
			return fmt.Errorf("restore selection: %w", err)
		}
	}
	return nil
}
