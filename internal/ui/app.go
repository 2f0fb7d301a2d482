package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/abelbrown/gamedash/internal/aggregate"
	"github.com/abelbrown/gamedash/internal/catalog"
	"github.com/abelbrown/gamedash/internal/filter"
	"github.com/abelbrown/gamedash/internal/ingest"
	"github.com/abelbrown/gamedash/internal/logging"
	"github.com/abelbrown/gamedash/internal/model"
)

// AppConfig wires the App to the outside world. Every field is optional.
type AppConfig struct {
	// WaitForCatalog returns a Cmd that blocks until the next snapshot
	// (see WatchCatalog).
	WaitForCatalog func() tea.Cmd
	// Refresh returns a Cmd that reloads the collection and reports RefreshDone.
	Refresh func() tea.Cmd
	// Sync returns a Cmd that performs the sync request and reports SyncCompleted.
	Sync func(appID string) tea.Cmd

	Snapshot   catalog.Snapshot // initial state, e.g. a seeded cache
	View       model.ViewState
	Locale     language.Tag
	ShowCharts bool
}

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT hold *catalog.Store. It receives snapshots via
// messages and re-derives the display list and aggregates on every render.
type App struct {
	cfg AppConfig

	snap    catalog.Snapshot
	view    model.ViewState
	locale  language.Tag
	printer *message.Printer
	cursor  int

	sync         ingest.Machine
	input        textinput.Model
	inputFocused bool

	spinner    spinner.Model
	keys       keyMap
	help       help.Model
	showCharts bool

	width  int
	height int
	ready  bool
}

// NewApp creates a new App from cfg.
func NewApp(cfg AppConfig) App {
	view := cfg.View
	if view.SortKey == "" {
		view = model.DefaultViewState()
	}
	locale := cfg.Locale
	if locale == language.Und {
		locale = filter.DefaultLocale
	}
	snap := cfg.Snapshot
	if snap.Games == nil {
		snap.Games = []model.Game{}
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Steam app id (press a)"
	ti.CharLimit = 32
	ti.Width = 24

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return App{
		cfg:        cfg,
		snap:       snap,
		view:       view,
		locale:     locale,
		printer:    message.NewPrinter(locale),
		input:      ti,
		spinner:    sp,
		keys:       defaultKeyMap(),
		help:       help.New(),
		showCharts: cfg.ShowCharts,
	}
}

// Init subscribes to catalog updates and starts the first refresh.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.waitForCatalog(), a.refresh(), a.spinner.Tick)
}

func (a App) waitForCatalog() tea.Cmd {
	if a.cfg.WaitForCatalog == nil {
		return nil
	}
	return a.cfg.WaitForCatalog()
}

func (a App) refresh() tea.Cmd {
	if a.cfg.Refresh == nil {
		return nil
	}
	return a.cfg.Refresh()
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.inputFocused {
			return a.handleInputKey(msg)
		}
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.ready = true
		return a, nil

	case CatalogUpdated:
		a.snap = msg.Snapshot
		a.clampCursor()
		return a, a.waitForCatalog()

	case RefreshDone:
		if msg.Err != nil {
			logging.Debug("UI refresh finished with error", "error", msg.Err)
		}
		return a, nil

	case SyncCompleted:
		return a.handleSyncCompleted(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// handleKeyMsg processes keyboard input while the table has focus.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.display())-1 {
			a.cursor++
		}
		return a, nil

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case key.Matches(msg, a.keys.Top):
		a.cursor = 0
		return a, nil

	case key.Matches(msg, a.keys.Bottom):
		if n := len(a.display()); n > 0 {
			a.cursor = n - 1
		}
		return a, nil

	case key.Matches(msg, a.keys.NextGenre):
		a.view = a.view.CycleGenre(filter.GenreOptions(a.snap.Games), 1)
		a.cursor = 0
		return a, nil

	case key.Matches(msg, a.keys.PrevGenre):
		a.view = a.view.CycleGenre(filter.GenreOptions(a.snap.Games), -1)
		a.cursor = 0
		return a, nil

	case key.Matches(msg, a.keys.Free):
		a.view.FreeOnly = !a.view.FreeOnly
		a.cursor = 0
		return a, nil

	case key.Matches(msg, a.keys.Sort):
		a.view = a.view.NextSortKey()
		a.cursor = 0
		return a, nil

	case key.Matches(msg, a.keys.Direction):
		a.view = a.view.ToggleDirection()
		a.cursor = 0
		return a, nil

	case key.Matches(msg, a.keys.Refresh):
		return a, a.refresh()

	case key.Matches(msg, a.keys.Sync):
		a.inputFocused = true
		return a, a.input.Focus()

	case key.Matches(msg, a.keys.Charts):
		a.showCharts = !a.showCharts
		return a, nil

	case msg.String() == "?":
		a.help.ShowAll = !a.help.ShowAll
		return a, nil
	}

	return a, nil
}

// handleInputKey processes keyboard input while the sync input has focus.
func (a App) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return a, tea.Quit

	case key.Matches(msg, a.keys.Submit):
		return a.submitSync()

	case key.Matches(msg, a.keys.Leave):
		a.inputFocused = false
		a.input.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	a.sync, _ = a.sync.Transition(ingest.Edit{Input: a.input.Value()})
	return a, cmd
}

// submitSync validates the input and, if it passes, issues the request.
// A submit while a request is in flight is ignored.
func (a App) submitSync() (tea.Model, tea.Cmd) {
	m, _ := a.sync.Transition(ingest.Submit{})
	if m.State != ingest.Validating {
		return a, nil
	}

	m, effects := m.Transition(ingest.Validate{})
	a.sync = m
	if m.State != ingest.Requesting {
		logging.Info("Sync rejected", "input", m.Input, "reason", m.Message.Text)
	}
	return a, a.runEffects(effects)
}

func (a App) handleSyncCompleted(msg SyncCompleted) (tea.Model, tea.Cmd) {
	m, effects := a.sync.Transition(ingest.Completed{Game: msg.Game, Err: msg.Err})
	if m.State == a.sync.State {
		// Not waiting for a response.
		return a, nil
	}
	cmd := a.runEffects(effects)

	a.sync, _ = m.Transition(ingest.Settle{})
	a.input.SetValue(a.sync.Input)
	return a, cmd
}

func (a App) runEffects(effects []ingest.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, eff := range effects {
		switch eff := eff.(type) {
		case ingest.Request:
			if a.cfg.Sync != nil {
				cmds = append(cmds, a.cfg.Sync(eff.AppID))
			}
		case ingest.Refresh:
			cmds = append(cmds, a.refresh())
		}
	}
	return tea.Batch(cmds...)
}

// display derives the display list from the current snapshot and view.
func (a App) display() []model.Game {
	return filter.Apply(a.snap.Games, a.view, a.locale)
}

func (a *App) clampCursor() {
	n := len(a.display())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	display := a.display()

	header := a.renderHeader(len(display))
	syncBar := a.renderSyncBar()
	statusBar := a.renderStatusBar(len(display))

	errorBar := ""
	if a.snap.Err != nil {
		errorBar = ErrorStyle.Width(a.width).Render("Error: " + a.snap.Err.Error())
	}

	used := lipgloss.Height(header) + lipgloss.Height(syncBar) + lipgloss.Height(statusBar)
	if errorBar != "" {
		used += lipgloss.Height(errorBar)
	}

	charts := ""
	if a.showCharts {
		summary := aggregate.Compute(display)
		maxRows := max(3, a.height/3-6)
		if h := chartHeight(summary, maxRows); a.height-used-h >= 4 {
			charts = RenderCharts(summary, a.width, maxRows)
			used += lipgloss.Height(charts)
		}
	}

	table := strings.TrimRight(RenderTable(display, a.cursor, a.width, a.height-used, a.view, a.printer), "\n")

	parts := []string{header}
	if errorBar != "" {
		parts = append(parts, errorBar)
	}
	parts = append(parts, table)
	if charts != "" {
		parts = append(parts, charts)
	}
	parts = append(parts, syncBar, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a App) renderHeader(shown int) string {
	left := "gamedash"
	info := []string{
		a.view.GenreLabel(),
		"sort: " + a.view.SortKey.Label() + " " + string(a.view.Direction),
		fmt.Sprintf("%d of %d", shown, len(a.snap.Games)),
	}
	if a.view.FreeOnly {
		info = append(info, "free only")
	}

	right := ""
	switch {
	case a.snap.Loading:
		right = a.spinner.View() + " loading"
	case a.snap.Stale:
		right = "cached data"
	case !a.snap.LoadedAt.IsZero():
		right = "updated " + a.snap.LoadedAt.Format(time.Kitchen)
	}

	content := left + HeaderDim.Render("  "+strings.Join(info, "  ·  "))
	padding := a.width - lipgloss.Width(content) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return HeaderBar.Width(a.width).Render(content + strings.Repeat(" ", padding) + right)
}

func (a App) renderSyncBar() string {
	prompt := SyncBarPrompt.Render("Sync: ")

	var status string
	switch {
	case a.sync.InFlight():
		status = a.spinner.View() + " syncing appid " + a.sync.AppID
	case a.sync.Message.Kind == ingest.KindConfirmation:
		status = ConfirmationText.Render(a.sync.Message.Text)
	case a.sync.Message.IsError():
		status = ErrorStyle.Padding(0).Render(a.sync.Message.Text)
	}

	return SyncBar.Width(a.width).Render(prompt + a.input.View() + "  " + status)
}

// renderStatusBar renders the bottom bar with position and key hints.
func (a App) renderStatusBar(total int) string {
	position := " 0/0 "
	if total > 0 {
		position = fmt.Sprintf(" %d/%d ", a.cursor+1, total)
	}

	h := a.help
	h.Width = a.width - lipgloss.Width(position) - 2
	var hints string
	if a.inputFocused {
		hints = h.View(inputHelp{a.keys})
	} else {
		hints = h.View(a.keys)
	}

	return StatusBar.Width(a.width).Render(StatusBarText.Render(position) + hints)
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// ViewState returns the current filter and sort settings (for testing).
func (a App) ViewState() model.ViewState {
	return a.view
}

// Display returns the current display list (for testing).
func (a App) Display() []model.Game {
	return a.display()
}

// SyncMachine returns the sync workflow state (for testing).
func (a App) SyncMachine() ingest.Machine {
	return a.sync
}

// InputFocused reports whether the sync input has focus (for testing).
func (a App) InputFocused() bool {
	return a.inputFocused
}

// ChartsVisible reports whether the charts panel is enabled (for testing).
func (a App) ChartsVisible() bool {
	return a.showCharts
}
