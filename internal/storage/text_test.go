package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-listadapter/internal/model"
)

// shape renders nodes as "text(children...)" for compact comparison
func shape(nodes []*model.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		s := n.Text
		if len(n.Children) > 0 {
			s += "("
			for i, c := range shape(n.Children) {
				if i > 0 {
					s += " "
				}
				s += c
			}
			s += ")"
		}
		out = append(out, s)
	}
	return out
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		expected Format
	}{
		{"list.json", FormatJSON},
		{"notes.md", FormatMarkdown},
		{"NOTES.MD", FormatMarkdown},
		{"notes.markdown", FormatMarkdown},
		{"todo.txt", FormatIndented},
		{"README", FormatIndented},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectFormat(tt.name))
		})
	}
}

func TestDecodeIndented(t *testing.T) {
	content := "fruit\n  apple\n    seed\n  banana\n\nveg\n\tleek\n        too deep\n"
	outline, err := DecodeText(content, FormatIndented, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"fruit(apple(seed) banana)", "veg(leek(too deep))"}, shape(outline.Items))

	for _, n := range outline.AllNodes() {
		assert.Equal(t, model.NoIdentifier, n.ID)
		assert.Equal(t, int32(1), n.Kind)
	}
}

func TestDecodeMarkdown(t *testing.T) {
	content := `# Shopping
- bread
- fruit
  - apple
  * pear
## Later
+ soap
a note
#hashtag
`
	outline, err := DecodeText(content, FormatMarkdown, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shopping(bread fruit(apple pear) Later(soap(a note(#hashtag))))"}, shape(outline.Items))
}

func TestDecodeMarkdownBulletsWithoutHeading(t *testing.T) {
	outline, err := DecodeText("- one\n  - one.a\n- two\n", FormatMarkdown, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"one(one.a)", "two"}, shape(outline.Items))
}

func TestDecodeTextRejectsJSON(t *testing.T) {
	_, err := DecodeText("{}", FormatJSON, 1)
	assert.Error(t, err)
}

func TestEncodeMarkdown(t *testing.T) {
	outline := model.NewOutline()
	fruit := model.NewNode(1, "fruit")
	blank := model.NewNode(1, "  ")
	blank.AddChild(model.NewNode(1, "pear"))
	fruit.AddChild(model.NewNode(1, "apple"))
	fruit.AddChild(blank)
	outline.Items = []*model.Node{fruit, model.NewNode(1, "two\nlines")}

	expected := "- fruit\n  - apple\n  - pear\n- two\n  lines\n"
	assert.Equal(t, expected, EncodeMarkdown(outline))
}

func TestExportAndLoadMarkdown(t *testing.T) {
	outline := model.NewOutline()
	root := model.NewNode(1, "root")
	root.AddChild(model.NewNode(1, "child"))
	outline.Items = []*model.Node{root, model.NewNode(1, "sibling")}

	path := filepath.Join(t.TempDir(), "out.md")
	require.NoError(t, ExportMarkdown(outline, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"root(child)", "sibling"}, shape(loaded.Items))
}

func TestLoadFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"items":[{"id":4,"type":1,"text":"a"}]}`), 0o644))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, int64(4), loaded.Items[0].ID)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
