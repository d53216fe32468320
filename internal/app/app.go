package app

import (
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/tui-listadapter/internal/adapter"
	"github.com/pstuifzand/tui-listadapter/internal/config"
	"github.com/pstuifzand/tui-listadapter/internal/diff"
	"github.com/pstuifzand/tui-listadapter/internal/expansion"
	"github.com/pstuifzand/tui-listadapter/internal/filter"
	"github.com/pstuifzand/tui-listadapter/internal/ids"
	"github.com/pstuifzand/tui-listadapter/internal/model"
	"github.com/pstuifzand/tui-listadapter/internal/selection"
	"github.com/pstuifzand/tui-listadapter/internal/socket"
	"github.com/pstuifzand/tui-listadapter/internal/state"
	"github.com/pstuifzand/tui-listadapter/internal/storage"
	"github.com/pstuifzand/tui-listadapter/internal/theme"
	"github.com/pstuifzand/tui-listadapter/internal/ui"
)

const (
	headerType int32 = 100
	footerType int32 = 101
	itemType   int32 = 1
)

// App is the main application controller
type App struct {
	screen  *ui.Screen
	cfg     *config.Config
	logger  *log.Logger
	outline *model.Outline
	store   *storage.JSONStore
	states  *state.Manager
	remote  *socket.Server

	adapter *adapter.Adapter
	header  *adapter.ReadOnlyAdapter
	items   *adapter.ItemAdapter
	footer  *adapter.ReadOnlyAdapter
	sel     *selection.Extension
	exp     *expansion.Extension
	filter  *filter.Filter
	diffOpt []diff.Option

	list    *ui.ListView
	status  *ui.StatusLine
	search  *ui.Prompt
	command *ui.Prompt

	keybindings        []KeyBinding
	pendingKeybindings []PendingKeyBinding
	pendingKey         rune

	rng       *rand.Rand
	dirty     bool
	quit      bool
	debugMode bool
}

// NewApp creates the application for the outline at filePath, reading the
// user configuration and opening the terminal
func NewApp(filePath string, logger *log.Logger) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	states, err := state.NewDefaultManager()
	if err != nil {
		logger.Printf("state disabled: %v", err)
	}

	a, err := New(cfg, storage.NewJSONStore(filePath), states, logger)
	if err != nil {
		return nil, err
	}

	screen, err := ui.NewScreen(theme.LoadThemeOrDefault(cfg.Theme))
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	screen.EnableMouse()
	a.screen = screen

	if cfg.GetBool("socket", true) {
		server, err := socket.NewServer(os.Getpid(), logger)
		if err != nil {
			logger.Printf("socket disabled: %v", err)
		} else {
			server.Start()
			a.remote = server
		}
	}
	return a, nil
}

// New wires the adapter stack for the outline in store. The app has no
// screen until one is attached with SetScreen.
func New(cfg *config.Config, store *storage.JSONStore, states *state.Manager, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	outline, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load outline: %w", err)
	}
	if len(outline.Items) == 0 {
		outline.Items = append(outline.Items, model.NewNode(itemType, "Welcome to tui-listadapter"))
	}

	policy, ok := adapter.ParseDispatchPolicy(cfg.Adapter.Dispatch)
	if !ok {
		logger.Printf("unknown dispatch policy %q, using %s", cfg.Adapter.Dispatch, policy)
	}

	a := &App{
		cfg:     cfg,
		logger:  logger,
		outline: outline,
		store:   store,
		states:  states,
		status:  ui.NewStatusLine(),
		search:  ui.NewPrompt("/"),
		command: ui.NewPrompt(":"),
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		diffOpt: []diff.Option{diff.WithDetectMoves(cfg.Diff.DetectMoves)},
	}

	a.adapter = adapter.New(
		adapter.WithIDDistributor(ids.NewFrom(max(cfg.Adapter.IDOffset, maxIdentifier(outline)))),
		adapter.WithStableIDs(cfg.Adapter.StableIDs),
		adapter.WithDispatchPolicy(policy),
		adapter.WithLogger(logger),
	)
	a.header = adapter.NewReadOnlyAdapter(adapter.SliceSource{
		sectionNode(headerType, "tui-listadapter: "+displayName(store.FilePath)),
	})
	a.items = adapter.NewItemAdapter(outline.Roots()...)
	a.footer = adapter.NewReadOnlyAdapter(adapter.SliceSource{sectionNode(footerType, "")})
	for order, sub := range []adapter.SubAdapter{a.header, a.items, a.footer} {
		if err := a.adapter.AddAdapter(order, sub); err != nil {
			return nil, err
		}
	}

	// Enter expands; selection follows clicks only in long click mode
	a.sel = selection.New(
		selection.WithMultiSelect(cfg.Selection.MultiSelect),
		selection.WithClickSelection(cfg.Selection.SelectOnLongClick),
		selection.WithSelectOnLongClick(cfg.Selection.SelectOnLongClick),
		selection.WithAllowDeselection(cfg.Selection.AllowDeselection),
		selection.WithListener(func(item model.Item, selected bool) {
			logger.Printf("selection %d: %t", item.Identifier(), selected)
		}),
	)
	a.exp = expansion.New(
		expansion.WithSingleExpanded(cfg.Expansion.SingleExpanded),
		expansion.WithAutoExpand(cfg.Expansion.AutoExpand),
	)
	a.adapter.AddExtension(a.sel)
	a.adapter.AddExtension(a.exp)
	a.filter = filter.New(a.adapter, a.items, filter.WithDiffOptions(a.diffOpt...))

	a.list = ui.NewListView(a.adapter)
	a.list.SetSection(a.header, ui.SectionHeader)
	a.list.SetSection(a.footer, ui.SectionFooter)
	a.list.SetCursor(1)

	a.keybindings = a.InitializeKeybindings()
	a.pendingKeybindings = a.InitializePendingKeybindings()

	a.debugMode = cfg.GetBool("debug", false)
	a.restoreState()
	a.updateFooter()
	a.status.SetMessage("Ready")
	return a, nil
}

// SetScreen attaches the screen the app renders to
func (a *App) SetScreen(s *ui.Screen) {
	a.screen = s
}

// sectionNode creates a header or footer row
func sectionNode(kind int32, text string) *model.Node {
	n := model.NewNode(kind, text)
	n.Unselectable = true
	return n
}

func displayName(path string) string {
	if path == "" {
		return "[No Name]"
	}
	return filepath.Base(path)
}

// maxIdentifier returns the largest identifier stored in outline, so
// generated identifiers never collide with loaded ones
func maxIdentifier(outline *model.Outline) int64 {
	var highest int64
	for _, n := range outline.AllNodes() {
		highest = max(highest, n.ID)
	}
	return highest
}

func (a *App) stateFile() string {
	if a.store.FilePath == "" {
		return ""
	}
	abs, err := filepath.Abs(a.store.FilePath)
	if err != nil {
		abs = a.store.FilePath
	}
	return strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(strings.TrimPrefix(abs, "/")) + ".toml"
}

func (a *App) restoreState() {
	name := a.stateFile()
	if a.states == nil || name == "" {
		return
	}
	snap, err := a.states.Load(name)
	if err != nil {
		a.logger.Printf("load state: %v", err)
		return
	}
	if err := state.Restore(a.adapter, snap); err != nil {
		a.logger.Printf("restore state: %v", err)
	}
}

func (a *App) saveState() error {
	name := a.stateFile()
	if a.states == nil || name == "" {
		return nil
	}
	return a.states.Save(name, state.Capture(a.adapter))
}

// Run starts the main event loop
func (a *App) Run() error {
	defer a.Close()

	eventChan := make(chan tcell.Event, 1)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(a.screen, eventChan, done)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	a.render()
	for !a.quit {
		select {
		case ev := <-eventChan:
			if ev == nil {
				return nil
			}
			a.handleRawEvent(ev)
			a.render()
		case msg := <-a.remoteMessages():
			a.handleRemote(msg)
			a.render()
		case <-ticker.C:
			// redraw when a status message times out
			a.render()
		}
	}
	return nil
}

// pollEvents feeds screen events to events until the screen is finalized or
// done is closed
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		event := screen.PollEvent()
		select {
		case events <- event:
		case <-done:
			return
		}
		if event == nil {
			return
		}
	}
}

// Close saves the extension state and closes the screen
func (a *App) Close() error {
	if err := a.saveState(); err != nil {
		a.logger.Printf("save state: %v", err)
	}
	a.list.Close()
	if a.remote != nil {
		a.remote.Stop()
	}
	if a.screen != nil {
		return a.screen.Close()
	}
	return nil
}

// render renders the current state to the screen
func (a *App) render() {
	if a.screen == nil {
		return
	}
	_, height := a.screen.Size()

	listHeight := height - 1
	if a.search.IsActive() || a.command.IsActive() {
		listHeight--
	}
	a.list.Render(a.screen, 0, listHeight)

	switch {
	case a.search.IsActive():
		a.search.Render(a.screen, height-2)
	case a.command.IsActive():
		a.command.Render(a.screen, height-2)
	}
	a.status.Render(a.screen, height-1, a.counts())
	a.screen.Show()
}

func (a *App) counts() ui.Counts {
	return ui.Counts{
		Rows:     a.items.Count(),
		Selected: len(a.sel.SelectedPositions()),
		Expanded: len(a.exp.ExpandedPositions()),
		Filter:   a.filter.Query(),
	}
}

// updateFooter rewrites the footer row when the number of items changed
func (a *App) updateFooter() {
	node, ok := a.footer.Items()[0].(*model.Node)
	if !ok {
		return
	}
	text := pluralItems(len(a.filter.Originals()))
	if a.filter.Active() {
		text = fmt.Sprintf("%d of %s", len(topLevel(a.items.Items())), text)
	}
	if node.Text == text {
		return
	}
	node.Text = text
	if offset, err := a.adapter.OffsetOf(a.footer); err == nil {
		a.adapter.NotifyChanged(offset, 1, nil)
	}
}

func topLevel(items []model.Item) []model.Item {
	return slices.DeleteFunc(slices.Clone(items), func(item model.Item) bool {
		return model.ParentOf(item) != model.NoIdentifier
	})
}

// handleRawEvent processes raw input events
func (a *App) handleRawEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventKey:
		a.HandleKey(ev)
	}
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		return
	}
	_, y := ev.Position()
	pos, ok := a.list.RowAt(y)
	if !ok {
		return
	}
	a.list.SetCursor(pos)
	a.click()
}

// HandleKey routes a key to the active prompt or the key bindings
func (a *App) HandleKey(ev *tcell.EventKey) {
	if a.search.IsActive() {
		a.handleSearchKey(ev)
		return
	}
	if a.command.IsActive() {
		if a.command.HandleKey(ev) == ui.PromptCommit {
			a.handleCommand(a.command.Text())
		}
		return
	}

	if a.debugMode {
		a.SetStatus(fmt.Sprintf("Key: %v | Rune: %q | Modifiers: %v", ev.Key(), ev.Rune(), ev.Modifiers()))
	}

	switch ev.Key() {
	case tcell.KeyDown:
		a.list.MoveCursor(1)
		return
	case tcell.KeyUp:
		a.list.MoveCursor(-1)
		return
	case tcell.KeyPgDn:
		a.list.MoveCursor(a.pageSize())
		return
	case tcell.KeyPgUp:
		a.list.MoveCursor(-a.pageSize())
		return
	case tcell.KeyEnter:
		a.click()
		return
	case tcell.KeyCtrlS:
		a.save()
		return
	case tcell.KeyEscape:
		a.pendingKey = 0
		if a.filter.Active() {
			a.applyFilter("")
		}
		return
	case tcell.KeyRune:
	default:
		return
	}

	r := ev.Rune()
	if a.pendingKey != 0 {
		prefix := a.pendingKey
		a.pendingKey = 0
		if pkb := a.GetPendingKeyBindingByPrefix(prefix); pkb != nil {
			if kb, ok := pkb.Sequences[r]; ok {
				kb.Handler(a)
			}
		}
		return
	}
	if a.IsPendingKeyPrefix(r) {
		a.pendingKey = r
		return
	}
	if kb := a.GetKeybindingByKey(r); kb != nil {
		kb.Handler(a)
	}
}

func (a *App) handleSearchKey(ev *tcell.EventKey) {
	switch a.search.HandleKey(ev) {
	case ui.PromptCancel:
		a.applyFilter("")
	case ui.PromptCommit:
		a.applyFilter(a.search.Text())
	case ui.PromptEditing:
		// filter while typing
		a.applyFilter(a.search.Text())
	}
}

func (a *App) pageSize() int {
	if a.screen == nil {
		return 10
	}
	_, h := a.screen.Size()
	return max(h-2, 1)
}

// SetStatus sets the status message
func (a *App) SetStatus(msg string) {
	a.status.SetMessage("%s", msg)
}

// Quit signals the app to quit
func (a *App) Quit() {
	a.quit = true
}

// SetDebugMode enables or disables debug mode
func (a *App) SetDebugMode(debug bool) {
	a.debugMode = debug
}
