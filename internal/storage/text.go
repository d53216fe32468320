package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pstuifzand/tui-listadapter/internal/model"
)

// Format names an outline file format
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatIndented Format = "indented"
)

// DetectFormat picks the format from the file extension. Unknown
// extensions are read as indented text.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON
	case ".md", ".markdown":
		return FormatMarkdown
	}
	return FormatIndented
}

// LoadFile reads an outline in any supported format. Text formats carry
// no identifiers; those nodes get one when they enter an adapter.
func LoadFile(path string) (*model.Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if format := DetectFormat(path); format != FormatJSON {
		return DecodeText(string(data), format, itemKind)
	}
	return Decode(data)
}

// itemKind is the item type text formats produce
const itemKind int32 = 1

// DecodeText parses markdown or indented text into nodes of kind
func DecodeText(content string, format Format, kind int32) (*model.Outline, error) {
	var roots []*model.Node
	var err error
	switch format {
	case FormatMarkdown:
		roots, err = decodeMarkdown(content, kind)
	case FormatIndented:
		roots, err = decodeIndented(content, kind)
	default:
		return nil, fmt.Errorf("unsupported text format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse error (%s): %w", format, err)
	}

	outline := model.NewOutline()
	outline.Items = roots
	outline.RestoreParents()
	return outline, nil
}

// treeBuilder places nodes by depth. A node deeper than one below the
// previous node is attached to the previous node.
type treeBuilder struct {
	kind  int32
	roots []*model.Node
	path  []*model.Node
}

func (b *treeBuilder) add(depth int, text string) {
	n := model.NewNode(b.kind, text)
	depth = min(max(depth, 0), len(b.path))
	if depth == 0 {
		b.roots = append(b.roots, n)
	} else {
		b.path[depth-1].Children = append(b.path[depth-1].Children, n)
	}
	b.path = append(b.path[:depth], n)
}

// indentWidth counts leading whitespace, a tab as two spaces
func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 2
		default:
			return width
		}
	}
	return width
}

// decodeIndented reads one item per line, two spaces per level
func decodeIndented(content string, kind int32) ([]*model.Node, error) {
	b := &treeBuilder{kind: kind}
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		b.add(indentWidth(line)/2, text)
	}
	return b.roots, scanner.Err()
}

// decodeMarkdown reads headings and bullet lists. A heading opens a level,
// bullets below it nest under it, other text becomes a child of the item
// above.
func decodeMarkdown(content string, kind int32) ([]*model.Node, error) {
	b := &treeBuilder{kind: kind}
	base := 0
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if level, text, ok := heading(trimmed); ok {
			b.add(level, text)
			base = min(level, len(b.path)-1) + 1
			continue
		}
		if text, ok := bullet(trimmed); ok {
			b.add(base+indentWidth(line)/2, text)
			continue
		}
		b.add(len(b.path), trimmed)
	}
	return b.roots, scanner.Err()
}

func heading(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || (level < len(line) && line[level] != ' ') {
		return 0, "", false
	}
	return level - 1, strings.TrimSpace(line[level:]), true
}

func bullet(line string) (string, bool) {
	if len(line) > 2 && strings.ContainsRune("-*+", rune(line[0])) && line[1] == ' ' {
		return strings.TrimSpace(line[2:]), true
	}
	return "", false
}

// EncodeMarkdown writes the outline as a nested bullet list. Blank nodes
// are left out; their children move up one level.
func EncodeMarkdown(outline *model.Outline) string {
	var sb strings.Builder
	for _, n := range outline.Items {
		writeBullet(&sb, n, 0)
	}
	return sb.String()
}

func writeBullet(sb *strings.Builder, n *model.Node, depth int) {
	if strings.TrimSpace(n.Text) == "" {
		for _, child := range n.Children {
			writeBullet(sb, child, depth)
		}
		return
	}
	indent := strings.Repeat("  ", depth)
	// continuation lines stay inside the bullet
	text := strings.ReplaceAll(strings.TrimRight(n.Text, "\n"), "\n", "\n"+indent+"  ")
	fmt.Fprintf(sb, "%s- %s\n", indent, text)
	for _, child := range n.Children {
		writeBullet(sb, child, depth+1)
	}
}

// ExportMarkdown writes the outline as markdown to path
func ExportMarkdown(outline *model.Outline, path string) error {
	if err := os.WriteFile(path, []byte(EncodeMarkdown(outline)), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	return nil
}
