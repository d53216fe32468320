package app

// KeyBinding represents a key binding with its description and handler
type KeyBinding struct {
	Key         rune
	Description string
	Handler     func(*App)
}

// PendingKeyBinding represents a pending key (like 'g' or 'z') that waits for a second key
type PendingKeyBinding struct {
	Prefix      rune                // The first key (e.g., 'g' or 'z')
	Description string              // Description of what the pending key does
	Sequences   map[rune]KeyBinding // Map of second key to keybinding
}

// InitializeKeybindings sets up all the key bindings
func (a *App) InitializeKeybindings() []KeyBinding {
	return []KeyBinding{
		{Key: 'j', Description: "Move down", Handler: func(app *App) { app.list.MoveCursor(1) }},
		{Key: 'k', Description: "Move up", Handler: func(app *App) { app.list.MoveCursor(-1) }},
		{Key: 'G', Description: "Go to last row", Handler: func(app *App) { app.list.Last() }},
		{Key: 'h', Description: "Collapse item or go to parent", Handler: (*App).collapse},
		{Key: 'l', Description: "Expand item", Handler: (*App).expand},
		{Key: ' ', Description: "Toggle selection", Handler: (*App).toggleSelection},
		{Key: 'm', Description: "Long click", Handler: (*App).longClick},
		{Key: 'v', Description: "Select all", Handler: (*App).selectAll},
		{Key: 'V', Description: "Deselect all", Handler: (*App).deselectAll},
		{Key: 'd', Description: "Delete selected items", Handler: (*App).deleteSelected},
		{Key: 'o', Description: "Add item after", Handler: (*App).addItem},
		{Key: 'a', Description: "Add sub-item", Handler: (*App).addChild},
		{Key: 's', Description: "Shuffle items", Handler: (*App).shuffle},
		{Key: 'S', Description: "Sort items by label", Handler: (*App).sortByLabel},
		{Key: 'r', Description: "Reverse items", Handler: (*App).reverse},
		{Key: '/', Description: "Filter items", Handler: (*App).startFilter},
		{Key: ':', Description: "Command mode", Handler: func(app *App) { app.command.Start("") }},
		{Key: 'D', Description: "Write the adapter layout to the log", Handler: (*App).dumpLayout},
		{Key: 'q', Description: "Quit", Handler: func(app *App) { app.handleCommand("q") }},
	}
}

// InitializePendingKeybindings sets up pending key bindings (keys that wait for a second key)
func (a *App) InitializePendingKeybindings() []PendingKeyBinding {
	return []PendingKeyBinding{
		{
			Prefix:      'g',
			Description: "Go to",
			Sequences: map[rune]KeyBinding{
				'g': {Key: 'g', Description: "Go to first row", Handler: func(app *App) { app.list.First() }},
				'p': {Key: 'p', Description: "Go to parent", Handler: func(app *App) {
					if parent := app.exp.ParentPosition(app.list.Cursor()); parent >= 0 {
						app.list.SetCursor(parent)
					}
				}},
			},
		},
		{
			Prefix:      'z',
			Description: "Expansion",
			Sequences: map[rune]KeyBinding{
				'a': {Key: 'a', Description: "Toggle expansion", Handler: (*App).toggleExpansion},
				'R': {Key: 'R', Description: "Expand all", Handler: (*App).expandAll},
				'M': {Key: 'M', Description: "Collapse all", Handler: (*App).collapseAll},
			},
		},
	}
}

// GetKeybindingByKey returns a keybinding for a given key
func (a *App) GetKeybindingByKey(key rune) *KeyBinding {
	for i := range a.keybindings {
		if a.keybindings[i].Key == key {
			return &a.keybindings[i]
		}
	}
	return nil
}

// GetPendingKeyBindingByPrefix returns a pending keybinding for a prefix key
func (a *App) GetPendingKeyBindingByPrefix(prefix rune) *PendingKeyBinding {
	for i := range a.pendingKeybindings {
		if a.pendingKeybindings[i].Prefix == prefix {
			return &a.pendingKeybindings[i]
		}
	}
	return nil
}

// IsPendingKeyPrefix checks if a key is a pending key prefix
func (a *App) IsPendingKeyPrefix(key rune) bool {
	return a.GetPendingKeyBindingByPrefix(key) != nil
}
