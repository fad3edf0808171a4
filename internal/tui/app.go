// internal/tui/app.go
//
// This is the main TUI (Terminal User Interface) for the doorprize wheel.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen
//
// The draw engine does not own a loop. The App is its frame scheduler: every
// scheduled frame becomes a tea.Tick, and the tick message runs the frame.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yopisonhaji/prototype-doorprize/internal/config"
	"github.com/yopisonhaji/prototype-doorprize/internal/draw"
	"github.com/yopisonhaji/prototype-doorprize/internal/logbook"
	"github.com/yopisonhaji/prototype-doorprize/internal/participant"
	"github.com/yopisonhaji/prototype-doorprize/internal/queue"
)

// appState represents which "screen" we're on
type appState int

const (
	stateMainMenu     appState = iota // Main menu
	stateSpin                         // The wheel, the lever and the reveal
	stateParticipants                 // Paginated registry with delete / clear
	stateAddForm                      // Name + number form
	stateQueueEditor                  // Forced-winner queue editor
)

const logPanelLines = 5

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithClock overrides the clock the draw engine animates against.
func WithClock(clock draw.Clock) AppOption {
	return func(a *App) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// WithRNG overrides the draw engine's randomness.
func WithRNG(rng draw.RNG) AppOption {
	return func(a *App) {
		if rng != nil {
			a.rng = rng
		}
	}
}

// WithSink adds a sink that receives every frame and reveal alongside the
// terminal, e.g. the display bridge.
func WithSink(sink draw.Sink) AppOption {
	return func(a *App) {
		if sink != nil {
			a.extraSinks = append(a.extraSinks, sink)
		}
	}
}

// WithLogbook shares an already opened logbook.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		if lb != nil {
			a.logbook = lb
		}
	}
}

// frameMsg fires when a scheduled animation frame is due.
type frameMsg struct{}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state   appState
	config  *config.Config
	logbook *logbook.Logbook

	participants *participant.Store
	queueStore   *queue.Store

	// Draw engine wiring
	controller   *draw.Controller
	clock        draw.Clock
	rng          draw.RNG
	extraSinks   []draw.Sink
	pendingFrame func()

	// Spin screen
	power       float64
	wheelRoster []participant.Participant
	lastFrame   draw.Frame
	reveal      *draw.Reveal

	// Other screens
	mainMenu list.Model
	roster   *rosterView
	form     *addForm
	editor   *queueEditor
	keys     keyMap
	help     help.Model

	// UI components
	statusMsg string

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// menuItem implements list.Item interface for our menu items
type menuItem struct {
	title string
	desc  string
	state appState
	quit  bool
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates a new App instance
func NewApp(cfg *config.Config, opts ...AppOption) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("tui: config is required")
	}
	participants := participant.NewStore(cfg.ParticipantsPath())
	if err := participants.Load(); err != nil {
		return nil, err
	}

	mainMenu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "🎡 DOORPRIZE"
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)

	app := &App{
		state:        stateMainMenu,
		config:       cfg,
		participants: participants,
		queueStore:   queue.NewStore(cfg.QueuePath()),
		clock:        draw.ClockFunc(time.Now),
		rng:          draw.SystemRNG(),
		power:        draw.ClampPower(cfg.DefaultPower()),
		mainMenu:     mainMenu,
		keys:         defaultKeyMap(),
		help:         help.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	if app.logbook == nil {
		lb, err := logbook.New(cfg.LogPath())
		if err == nil {
			app.logbook = lb
		}
	}

	sinks := append(draw.MultiSink{app}, app.extraSinks...)
	controller, err := draw.NewController(app,
		draw.WithClock(app.clock),
		draw.WithRNG(app.rng),
		draw.WithSink(sinks),
	)
	if err != nil {
		return nil, err
	}
	app.controller = controller
	app.roster = newRosterView(participants, cfg.PageSize())
	app.form = newAddForm()
	app.editor = newQueueEditor()
	app.refreshMainMenu()
	app.logInfo("Session opened · %d participant(s) registered", participants.Count())
	return app, nil
}

func (a *App) refreshMainMenu() {
	count := a.participants.Count()
	items := []list.Item{
		menuItem{title: "Spin the Wheel", desc: fmt.Sprintf("%d participant(s) on the wheel", count), state: stateSpin},
		menuItem{title: "Participants", desc: "Browse, delete or clear entries", state: stateParticipants},
		menuItem{title: "Add Participant", desc: "Register a name and number", state: stateAddForm},
		menuItem{title: "Winner Queue", desc: "Numbers that win the next spins", state: stateQueueEditor},
		menuItem{title: "Exit", desc: "Close the wheel", quit: true},
	}
	a.mainMenu.SetItems(items)
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-12))
		a.editor.setSize(max(20, msg.Width-10), max(4, msg.Height/3))
		return a, nil

	case frameMsg:
		fn := a.pendingFrame
		a.pendingFrame = nil
		if fn != nil {
			fn()
		}
		return a, a.frameCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc":
			return a.handleEscape()
		}
		switch a.state {
		case stateMainMenu:
			return a.updateMainMenu(msg)
		case stateSpin:
			return a.updateSpin(msg)
		case stateParticipants:
			return a.updateParticipants(msg)
		case stateAddForm:
			return a.updateAddForm(msg)
		case stateQueueEditor:
			return a.updateQueueEditor(msg)
		}
	}

	switch a.state {
	case stateMainMenu:
		var cmd tea.Cmd
		a.mainMenu, cmd = a.mainMenu.Update(msg)
		return a, cmd
	case stateAddForm:
		return a, a.form.update(msg)
	case stateQueueEditor:
		return a, a.editor.update(msg)
	}
	return a, nil
}

func (a *App) handleEscape() (tea.Model, tea.Cmd) {
	switch a.state {
	case stateMainMenu:
		return a, nil
	case stateSpin:
		if a.controller.Spinning() {
			a.statusMsg = "The wheel is spinning…"
			return a, nil
		}
	case stateParticipants:
		if a.roster.confirming() {
			a.roster.cancelConfirm()
			a.statusMsg = "Cancelled"
			return a, nil
		}
	}
	return a.returnToMainMenu()
}

func (a *App) updateMainMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "enter":
		item, ok := a.mainMenu.SelectedItem().(menuItem)
		if !ok {
			return a, nil
		}
		if item.quit {
			return a, tea.Quit
		}
		return a.enterState(item.state)
	}
	var cmd tea.Cmd
	a.mainMenu, cmd = a.mainMenu.Update(msg)
	return a, cmd
}

func (a *App) enterState(state appState) (tea.Model, tea.Cmd) {
	a.state = state
	a.statusMsg = ""
	switch state {
	case stateSpin:
		if !a.controller.Spinning() {
			a.wheelRoster = a.participants.All()
		}
		if len(a.wheelRoster) == 0 {
			a.statusMsg = "No participants yet · add some before spinning"
		}
		return a, nil
	case stateParticipants:
		a.roster.refresh()
		return a, nil
	case stateAddForm:
		return a, a.form.reset()
	case stateQueueEditor:
		current, err := a.queueStore.Load()
		if err != nil {
			a.logWarn("Winner queue unreadable, editing an empty queue: %v", err)
			a.statusMsg = "Stored queue was unreadable; starting empty"
		}
		return a, a.editor.open(current)
	}
	return a, nil
}

// returnToMainMenu transitions back to the main menu
func (a *App) returnToMainMenu() (tea.Model, tea.Cmd) {
	a.state = stateMainMenu
	a.refreshMainMenu()
	return a, nil
}

// ScheduleFrame implements draw.FrameScheduler. The frame runs when the next
// frameMsg arrives.
func (a *App) ScheduleFrame(fn func()) {
	a.pendingFrame = fn
}

func (a *App) frameCmd() tea.Cmd {
	if a.pendingFrame == nil {
		return nil
	}
	return tea.Tick(a.config.FrameInterval(), func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 80
	}
	var content string
	switch a.state {
	case stateMainMenu:
		content = a.mainMenu.View()
	case stateSpin:
		content = a.renderSpin(width - 6)
	case stateParticipants:
		content = a.roster.view()
	case stateAddForm:
		content = a.form.view()
	case stateQueueEditor:
		content = a.editor.view(a.participants.All())
	}
	return a.renderFrame(content, width)
}

func (a *App) renderFrame(content string, width int) string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("🎡 DOORPRIZE WHEEL")
	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(20, width-4)).
		Render(content)
	sections := []string{header, body}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(logPanelLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s · %d entries", fileName, total))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}
