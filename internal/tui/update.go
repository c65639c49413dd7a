package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/mispricing/internal/analysis"
	"github.com/jask/mispricing/internal/controller"
)

// ---------------------------------------------------------------------------
// Async message handlers
// ---------------------------------------------------------------------------

func (m Model) handleStoreLoaded(msg storeLoadedMsg) (tea.Model, tea.Cmd) {
	m.state = controller.NewState(msg.analyses)
	m.ready = true
	if msg.err != nil {
		m.status = fmt.Sprintf("Saved analyses unavailable (%v), starting empty", msg.err)
		m.log.WithError(msg.err).Warn("store load degraded")
	} else if n := m.state.Analyses.Len(); n > 0 {
		m.status = fmt.Sprintf("%d saved analyses loaded", n)
	} else {
		m.status = "No saved analyses yet. Press a to analyze a ticker."
	}
	return m, nil
}

func (m Model) handleAnalysisResult(msg analysisResultMsg) (tea.Model, tea.Cmd) {
	var in controller.Intent
	if msg.err != nil {
		in = controller.AnalysisFailed{Token: msg.token, Message: msg.err.Error()}
	} else {
		in = controller.AnalysisSucceeded{Token: msg.token, Payload: *msg.payload}
	}
	if err := m.dispatch(in); err != nil {
		// A superseded fetch resolving late is expected, not an error.
		m.log.WithField("ticker", msg.ticker).Debug("dropped stale analysis result")
		return m, nil
	}
	if msg.err != nil {
		m.status = ""
		return m, nil
	}
	m.working = analysis.NewRecord(*m.state.APIData)
	m.pillarCursor = 0
	m.guidepostCursor = 0
	m.status = fmt.Sprintf("Fetched %s. Score the pillars, then s to save.", m.state.CurrentTicker)
	return m, nil
}

func (m Model) handlePersistDone(msg persistDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = fmt.Sprintf("Save failed: %v", msg.err)
		return m, nil
	}
	m.status = fmt.Sprintf("Saved %s", m.state.CurrentTicker)
	return m, nil
}

func (m Model) handleExportDone(msg exportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = fmt.Sprintf("Export failed: %v", msg.err)
		return m, nil
	}
	m.status = fmt.Sprintf("Report written to %s", msg.path)
	return m, nil
}

// ---------------------------------------------------------------------------
// Text entry modes
// ---------------------------------------------------------------------------

func (m Model) updateTickerEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Open):
		ticker := controller.NormalizeTicker(m.tickerInput.Value())
		m.tickerEntering = false
		m.tickerInput.Blur()
		m.tickerInput.SetValue("")
		if ticker == "" {
			return m, nil
		}
		return m.startAnalysis(ticker)
	case key.Matches(msg, m.keys.Dashboard):
		m.tickerEntering = false
		m.tickerInput.Blur()
		m.tickerInput.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.tickerInput, cmd = m.tickerInput.Update(msg)
	return m, cmd
}

func (m Model) updateNoteEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Open):
		pillar := analysis.AllPillars()[m.pillarCursor]
		m.working.Notes.Set(pillar, m.noteInput.Value())
		m.noteEditing = false
		m.noteInput.Blur()
		m.status = fmt.Sprintf("Note updated for %s", pillar)
		return m, nil
	case key.Matches(msg, m.keys.Dashboard):
		m.noteEditing = false
		m.noteInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.noteInput, cmd = m.noteInput.Update(msg)
	return m, cmd
}

// ---------------------------------------------------------------------------
// Per-view key handlers
// ---------------------------------------------------------------------------

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Analyze):
		m.tickerEntering = true
		m.tickerInput.Focus()
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.Open):
		tickers := m.savedTickers()
		if len(tickers) == 0 {
			return m, nil
		}
		m.clampCursors()
		return m.loadAnalysis(tickers[m.savedCursor])
	}
	switch msg.String() {
	case "up", "k":
		m.savedCursor--
	case "down", "j":
		m.savedCursor++
	}
	m.clampCursors()
	return m, nil
}

func (m Model) updateAnalysis(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Dashboard):
		if err := m.dispatch(controller.ShowDashboard{}); err == nil {
			m.status = ""
		}
		return m, nil
	case key.Matches(msg, m.keys.Save):
		return m.saveAnalysis()
	case key.Matches(msg, m.keys.Report):
		if err := m.dispatch(controller.ShowReport{}); err != nil {
			m.status = err.Error()
		}
		return m, nil
	case key.Matches(msg, m.keys.Note):
		pillar := analysis.AllPillars()[m.pillarCursor]
		m.noteInput.SetValue(m.working.Notes.Get(pillar))
		m.noteInput.Focus()
		m.noteEditing = true
		return m, nil
	case key.Matches(msg, m.keys.Promote):
		return m.resolveGuidepost(analysis.Promote, "Promoted")
	case key.Matches(msg, m.keys.Dismiss):
		return m.resolveGuidepost(analysis.Dismiss, "Dismissed")
	case key.Matches(msg, m.keys.Score):
		pillar := analysis.AllPillars()[m.pillarCursor]
		m.working.Scores.Set(pillar, int(msg.String()[0]-'0'))
		return m, nil
	}
	switch msg.String() {
	case "up", "k":
		m.pillarCursor--
	case "down", "j":
		m.pillarCursor++
	case "left", "h":
		m.guidepostCursor--
	case "right", "l":
		m.guidepostCursor++
	}
	m.clampCursors()
	return m, nil
}

func (m Model) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Dashboard):
		if err := m.dispatch(controller.ShowDashboard{}); err == nil {
			m.status = ""
		}
		return m, nil
	case key.Matches(msg, m.keys.Export):
		rec, ok := m.state.Analyses.Get(m.state.CurrentTicker)
		if !ok {
			return m, nil
		}
		return m, exportCmd(m.exportDir, m.state.CurrentTicker, renderReport(m.state.CurrentTicker, rec, m.loc), m.loc)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Workflow actions
// ---------------------------------------------------------------------------

func (m Model) startAnalysis(ticker string) (tea.Model, tea.Cmd) {
	token := controller.NewRequestToken()
	if err := m.dispatch(controller.StartAnalysis{Ticker: ticker, Token: token}); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = fmt.Sprintf("Fetching %s...", ticker)
	return m, tea.Batch(analyzeCmd(m.provider, ticker, token), m.loading.Tick)
}

func (m Model) loadAnalysis(ticker string) (tea.Model, tea.Cmd) {
	if err := m.dispatch(controller.LoadAnalysis{Ticker: ticker}); err != nil {
		m.status = err.Error()
		return m, nil
	}
	rec, _ := m.state.Analyses.Get(m.state.CurrentTicker)
	m.working = rec
	m.pillarCursor = 0
	m.guidepostCursor = 0
	m.status = fmt.Sprintf("Loaded %s", m.state.CurrentTicker)
	return m, nil
}

func (m Model) saveAnalysis() (tea.Model, tea.Cmd) {
	ticker := m.state.CurrentTicker
	if err := m.dispatch(controller.SaveAnalysis{Ticker: ticker, Record: m.working}); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = fmt.Sprintf("Saving %s...", ticker)
	return m, persistCmd(m.repo, m.state.Analyses)
}

// resolveGuidepost applies a promote or dismiss to the guidepost under the
// cursor and reports lifecycle violations in the status bar.
func (m Model) resolveGuidepost(fn func(analysis.CatalystState, string) (analysis.CatalystState, error), verb string) (tea.Model, tea.Cmd) {
	gps := m.working.CatalystState.Guideposts
	if len(gps) == 0 {
		return m, nil
	}
	m.clampCursors()
	id := gps[m.guidepostCursor].ID
	next, err := fn(m.working.CatalystState, id)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.working.CatalystState = next
	m.status = fmt.Sprintf("%s %s", verb, id)
	return m, nil
}
