package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/pstuifzand/tui-listadapter/internal/diff"
	"github.com/pstuifzand/tui-listadapter/internal/model"
	"github.com/pstuifzand/tui-listadapter/internal/storage"
)

type options struct {
	summary bool
	flat    bool
	noMoves bool
}

func main() {
	var opts options
	flag.BoolVar(&opts.summary, "s", false, "Summary only (no operation details)")
	flag.BoolVar(&opts.flat, "flat", false, "Compare every node depth-first instead of the top level items")
	flag.BoolVar(&opts.noMoves, "no-moves", false, "Report moved items as removed and inserted")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: listdiff [options] <old> <new>

Prints the edit script that turns the item list of the first outline into the
list of the second one. Files are read as JSON, markdown (.md) or indented
text by extension. Items are matched by id; items without an id are matched
by text.

Options:
  -s          Summary only
  -flat       Compare every node depth-first instead of the top level items
  -no-moves   Report moved items as removed and inserted
  -no-color   Disable colored output

Exit status is 0 when the lists are equal, 1 when they differ and 2 on error.
`)
	}
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}

	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(2)
	}

	changed, err := run(os.Stdout, args[0], args[1], opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if changed {
		os.Exit(1)
	}
}

// run compares the outlines at oldPath and newPath and reports whether they
// differ
func run(w io.Writer, oldPath, newPath string, opts options) (bool, error) {
	oldItems, err := loadItems(oldPath, opts.flat)
	if err != nil {
		return false, err
	}
	newItems, err := loadItems(newPath, opts.flat)
	if err != nil {
		return false, err
	}

	s := diff.Compute(oldItems, newItems,
		diff.WithIdentity(sameItem),
		diff.WithDetectMoves(!opts.noMoves),
	)

	fmt.Fprintln(w, color.New(color.Bold).Sprintf("--- %s (%s)", oldPath, countItems(len(oldItems))))
	fmt.Fprintln(w, color.New(color.Bold).Sprintf("+++ %s (%s)", newPath, countItems(len(newItems))))

	for _, line := range diff.Format(s, oldItems, newItems) {
		if opts.summary && line.Type != diff.LineSummary {
			continue
		}
		fmt.Fprintln(w, renderLine(line))
	}
	return !s.Empty(), nil
}

func loadItems(path string, flat bool) ([]model.Item, error) {
	load := storage.LoadFile
	if storage.DetectFormat(path) == storage.FormatJSON {
		load = func(path string) (*model.Outline, error) { return storage.NewJSONStore(path).Load() }
	}
	outline, err := load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !flat {
		return outline.Roots(), nil
	}
	nodes := outline.AllNodes()
	items := make([]model.Item, len(nodes))
	for i, n := range nodes {
		items[i] = n
	}
	return items, nil
}

// sameItem matches by id, falling back to the text for items without one
func sameItem(a, b model.Item) bool {
	if a.Identifier() == model.NoIdentifier || b.Identifier() == model.NoIdentifier {
		return a.Identifier() == b.Identifier() && model.LabelOf(a) == model.LabelOf(b)
	}
	return a.Identifier() == b.Identifier()
}

func countItems(n int) string {
	if n == 1 {
		return "1 item"
	}
	return humanize.Comma(int64(n)) + " items"
}

var lineColors = map[diff.LineType]*color.Color{
	diff.LineSection:  color.New(color.Bold),
	diff.LineRemoved:  color.New(color.FgRed),
	diff.LineInserted: color.New(color.FgGreen),
	diff.LineMoved:    color.New(color.FgYellow),
	diff.LineChanged:  color.New(color.FgCyan),
	diff.LineSummary:  color.New(color.Bold),
}

// renderLine indents and colors one line. Changed labels are shown as a
// character diff.
func renderLine(line diff.Line) string {
	indent := strings.Repeat("  ", line.Indent)
	if line.Type == diff.LineChanged && (line.Old != "" || line.New != "") {
		id, _, _ := strings.Cut(line.Content, ":")
		return indent + id + ": " + labelDiff(line.Old, line.New)
	}
	if c, ok := lineColors[line.Type]; ok {
		return indent + c.Sprint(line.Content)
	}
	return indent + line.Content
}

// labelDiff marks removed text as [-text-] and inserted text as {+text+}
func labelDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))

	removed := color.New(color.FgRed)
	inserted := color.New(color.FgGreen)
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString(removed.Sprint("[-" + d.Text + "-]"))
		case diffmatchpatch.DiffInsert:
			b.WriteString(inserted.Sprint("{+" + d.Text + "+}"))
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
