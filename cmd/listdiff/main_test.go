package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-listadapter/internal/model"
	"github.com/pstuifzand/tui-listadapter/internal/storage"
)

func writeOutline(t *testing.T, path string, nodes ...*model.Node) {
	t.Helper()
	outline := model.NewOutline()
	outline.Items = nodes
	require.NoError(t, storage.NewJSONStore(path).Save(outline))
}

func node(id int64, text string) *model.Node {
	n := model.NewNode(1, text)
	n.ID = id
	return n
}

func TestLabelDiff(t *testing.T) {
	color.NoColor = true
	assert.Equal(t, "buy [-milk-]{+bread+}", labelDiff("buy milk", "buy bread"))
	assert.Equal(t, "same", labelDiff("same", "same"))
}

func TestRun(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.json")
	newPath := filepath.Join(dir, "new.json")
	writeOutline(t, oldPath, node(1, "one"), node(2, "two"), node(3, "three"))
	writeOutline(t, newPath, node(3, "three"), node(1, "one"), node(4, "four"))

	var out bytes.Buffer
	changed, err := run(&out, oldPath, newPath, options{})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, out.String(), "- 2: two")
	assert.Contains(t, out.String(), "+ 4: four")
	assert.Contains(t, out.String(), "1 inserted, 1 removed, 1 moved, 0 changed")

	out.Reset()
	changed, err = run(&out, oldPath, oldPath, options{summary: true})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Contains(t, out.String(), "no changes")
	assert.NotContains(t, out.String(), "Operations:")
}

func TestRunChangedLabel(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.json")
	newPath := filepath.Join(dir, "new.json")
	writeOutline(t, oldPath, node(1, "buy milk"))
	writeOutline(t, newPath, node(1, "buy bread"))

	var out bytes.Buffer
	changed, err := run(&out, oldPath, newPath, options{})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, out.String(), "1: buy [-milk-]{+bread+}")
}

func TestRunMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := run(&bytes.Buffer{}, filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json"), options{})
	require.NoError(t, err, "missing files load as empty outlines")
}

func TestRunTextFiles(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.md")
	require.NoError(t, os.WriteFile(oldPath, []byte("apple\n  seed\nbanana\n"), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte("- apple\n  - seed\n- banana\n- cherry\n"), 0o644))

	var out bytes.Buffer
	changed, err := run(&out, oldPath, newPath, options{summary: true})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, out.String(), "(2 items)")
	assert.Contains(t, out.String(), "1 inserted, 0 removed, 0 moved, 0 changed")

	changed, err = run(&bytes.Buffer{}, oldPath, oldPath, options{flat: true})
	require.NoError(t, err)
	assert.False(t, changed)
}
