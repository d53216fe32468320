package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pstuifzand/tui-listadapter/internal/adapter"
	"github.com/pstuifzand/tui-listadapter/internal/theme"
)

// parseCommand splits a command line into words. Single and double quotes
// group words, a backslash escapes the next character.
func parseCommand(line string) []string {
	var parts []string
	var current strings.Builder
	inWord := false
	var quote rune
	escaped := false

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				parts = append(parts, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		parts = append(parts, current.String())
	}
	return parts
}

// handleCommand processes a command from command mode
func (a *App) handleCommand(cmd string) {
	parts := parseCommand(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "q", "quit":
		if a.dirty {
			a.SetStatus("Unsaved changes! Use :q! to force quit or :w to save")
		} else {
			a.quit = true
		}
	case "q!", "quit!":
		a.quit = true
	case "w", "write":
		a.save()
	case "wq":
		if err := a.Save(); err != nil {
			a.SetStatus("Failed to save: " + err.Error())
		} else {
			a.quit = true
		}
	case "import", "export":
		if len(parts) != 2 {
			a.SetStatus(fmt.Sprintf("Usage: %s <file>", parts[0]))
			return
		}
		var err error
		if parts[0] == "import" {
			err = a.importFile(parts[1])
		} else {
			err = a.exportFile(parts[1])
		}
		if err != nil {
			a.SetStatus(fmt.Sprintf("Failed to %s: %v", parts[0], err))
		}
	case "filter":
		a.applyFilter(strings.Join(parts[1:], " "))
	case "select", "deselect":
		ids, err := parseIdentifiers(parts[1:])
		if err != nil {
			a.SetStatus(err.Error())
			return
		}
		if parts[0] == "select" {
			err = a.sel.SelectByIdentifier(ids...)
		} else {
			err = a.sel.DeselectByIdentifier(ids...)
		}
		if err != nil {
			a.SetStatus(err.Error())
		}
	case "expand":
		ids, err := parseIdentifiers(parts[1:])
		if err == nil {
			err = a.exp.ExpandByIdentifier(ids...)
		}
		if err != nil {
			a.SetStatus(err.Error())
		}
	case "goto":
		ids, err := parseIdentifiers(parts[1:])
		if err != nil || len(ids) != 1 {
			a.SetStatus("Usage: goto <id>")
			return
		}
		if pos := a.adapter.PositionOf(ids[0]); pos >= 0 {
			a.list.SetCursor(pos)
		} else {
			a.SetStatus(fmt.Sprintf("No row with id %d", ids[0]))
		}
	case "dispatch":
		if len(parts) != 2 {
			a.SetStatus("Dispatch: " + a.cfg.Adapter.Dispatch)
			return
		}
		policy, ok := adapter.ParseDispatchPolicy(parts[1])
		if !ok {
			a.SetStatus("Unknown dispatch policy: " + parts[1])
			return
		}
		a.adapter.SetDispatchPolicy(policy)
		a.cfg.Adapter.Dispatch = policy.String()
		a.SetStatus("Dispatch: " + policy.String())
	case "theme":
		if len(parts) != 2 || a.screen == nil {
			return
		}
		a.screen.Theme = theme.LoadThemeOrDefault(parts[1])
		a.SetStatus("Theme: " + a.screen.Theme.Name)
	case "set":
		if len(parts) != 3 {
			a.SetStatus("Usage: set <key> <value>")
			return
		}
		a.cfg.Set(parts[1], parts[2])
		a.SetStatus(fmt.Sprintf("%s = %s", parts[1], parts[2]))
	case "debug":
		a.debugMode = !a.debugMode
		if a.debugMode {
			a.SetStatus("Debug mode ON")
		} else {
			a.SetStatus("Debug mode OFF")
		}
	default:
		a.SetStatus("Unknown command: " + parts[0])
	}
}

func parseIdentifiers(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
