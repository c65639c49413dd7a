package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/jask/mispricing/internal/analysis"
	"github.com/jask/mispricing/internal/controller"
	"github.com/jask/mispricing/internal/provider"
	"github.com/jask/mispricing/internal/store"
)

const appName = "Mispricing Detective"

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

type storeLoadedMsg struct {
	analyses *store.Analyses
	err      error
}

type analysisResultMsg struct {
	token   string
	ticker  string
	payload *analysis.Payload
	err     error
}

type persistDoneMsg struct {
	err error
}

type exportDoneMsg struct {
	path string
	err  error
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model wraps the view-state controller for Bubble Tea. All workflow
// transitions go through controller.Dispatch; the model only owns
// presentation concerns (cursors, text entry, sizes).
type Model struct {
	state    controller.State
	repo     *store.Repository
	provider provider.Provider
	log      *logrus.Logger

	exportDir string
	loc       *time.Location
	status    string
	ready     bool

	// working is the editable record for the open analysis; a save
	// snapshots it into the store wholesale.
	working analysis.Record

	keys keyMap

	tickerInput    textinput.Model
	tickerEntering bool

	noteInput   textinput.Model
	noteEditing bool

	loading spinner.Model

	pillarCursor    int // 0..3, analysis view
	guidepostCursor int // within the catalyst pillar
	savedCursor     int // dashboard saved-analyses table

	width  int
	height int
}

// New builds the initial model. The store is loaded asynchronously from
// Init; until then the model renders a plain status line.
func New(repo *store.Repository, p provider.Provider, exportDir string, loc *time.Location, log *logrus.Logger) Model {
	if loc == nil {
		loc = time.Local
	}
	ticker := textinput.New()
	ticker.Placeholder = "ticker, e.g. AAPL"
	ticker.Prompt = "analyze> "
	ticker.CharLimit = 10

	note := textinput.New()
	note.Prompt = "note> "
	note.CharLimit = 240

	load := spinner.New()
	load.Spinner = spinner.Dot
	load.Style = lipgloss.NewStyle().Foreground(colorAccent)

	return Model{
		state:       controller.NewState(nil),
		repo:        repo,
		provider:    p,
		log:         log,
		exportDir:   exportDir,
		loc:         loc,
		keys:        newKeyMap(),
		tickerInput: ticker,
		noteInput:   note,
		loading:     load,
		status:      "Loading saved analyses...",
	}
}

func (m Model) Init() tea.Cmd {
	return loadStoreCmd(m.repo)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case storeLoadedMsg:
		return m.handleStoreLoaded(msg)
	case analysisResultMsg:
		return m.handleAnalysisResult(msg)
	case persistDoneMsg:
		return m.handlePersistDone(msg)
	case exportDoneMsg:
		return m.handleExportDone(msg)
	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.loading, cmd = m.loading.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch {
		case m.tickerEntering:
			return m.updateTickerEntry(msg)
		case m.noteEditing:
			return m.updateNoteEntry(msg)
		}
		switch m.state.View {
		case controller.ViewAnalysis:
			return m.updateAnalysis(msg)
		case controller.ViewReport:
			return m.updateReport(msg)
		default:
			return m.updateDashboard(msg)
		}
	}
	return m, nil
}

// dispatch funnels every intent through the controller and renders typed
// failures in the status bar.
func (m *Model) dispatch(in controller.Intent) error {
	next, err := controller.Dispatch(m.state, in)
	if err != nil {
		return err
	}
	m.state = next
	return nil
}

func (m Model) savedTickers() []string {
	return m.state.Analyses.Tickers()
}

func (m *Model) clampCursors() {
	if n := len(m.savedTickers()); m.savedCursor >= n {
		m.savedCursor = n - 1
	}
	if m.savedCursor < 0 {
		m.savedCursor = 0
	}
	if m.pillarCursor < 0 {
		m.pillarCursor = 0
	}
	if m.pillarCursor > 3 {
		m.pillarCursor = 3
	}
	if n := len(m.working.CatalystState.Guideposts); m.guidepostCursor >= n {
		m.guidepostCursor = n - 1
	}
	if m.guidepostCursor < 0 {
		m.guidepostCursor = 0
	}
}
