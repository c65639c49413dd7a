package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/mispricing/internal/analysis"
	"github.com/jask/mispricing/internal/controller"
	"github.com/jask/mispricing/internal/database"
	"github.com/jask/mispricing/internal/database/repository"
	"github.com/jask/mispricing/internal/logging"
	"github.com/jask/mispricing/internal/store"
)

// Cross-view user flow regression tests, driven through Update as Bubble
// Tea would.

type stubProvider struct {
	payloads map[string]*analysis.Payload
	err      error
}

func (s *stubProvider) Analyze(_ context.Context, ticker string) (*analysis.Payload, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.payloads[ticker]
	if !ok {
		return nil, fmt.Errorf("no stub payload for %s", ticker)
	}
	return p, nil
}

func stubPayload(ticker, name string) *analysis.Payload {
	return &analysis.Payload{
		Ticker:      ticker,
		CompanyName: name,
		Pillars: analysis.PillarPayloads{
			BusinessQuality: analysis.BusinessQuality{
				ReclassifiedCashFlow: []analysis.CashFlowYear{
					{Year: 2024, NOPAT: 640, NetInvestment: 140, FreeCashFlow: 500},
				},
			},
			Contrarian: analysis.Contrarian{
				NewsSentiment: analysis.NewsSentiment{
					Summary: analysis.SentimentSummary{Positive: 1, Negative: 2, Neutral: 0, Total: 3},
				},
			},
			Valuation: analysis.ValuationPillar{
				Valuation: analysis.ValuationMetrics{
					FreeCashFlowYield: 5.0,
					EarningsPowerValue: analysis.EarningsPowerValue{
						EPVEquity: 5600, NormalizedEBIT: 600, NetDebt: 400,
					},
				},
			},
			Catalysts: analysis.Catalysts{
				Guideposts: []analysis.Guidepost{
					{ID: "act1", Type: "Activism", Evidence: "SC 13D filed"},
					{ID: "ins1", Type: "Insider Buying", Evidence: "Form 4 purchase"},
				},
			},
		},
	}
}

func newFlowRepo(t *testing.T) *store.Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "flow.db")
	migrations, err := filepath.Abs("../database/migrations")
	if err != nil {
		t.Fatalf("abs migrations path: %v", err)
	}
	if err := database.RunMigrations(dbPath, migrations); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return store.NewRepository(repository.NewKVRepo(db), logging.Discard())
}

func newFlowModel(t *testing.T, p *stubProvider) Model {
	t.Helper()
	m := New(newFlowRepo(t), p, t.TempDir(), time.UTC, logging.Discard())
	m.width = 120
	m.height = 40
	return flowDrainCmd(t, m, m.Init())
}

func flowKey(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func flowApplyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return flowDrainCmd(t, got, cmd)
}

func flowPress(t *testing.T, m Model, key string) Model {
	t.Helper()
	return flowApplyMsg(t, m, flowKey(key))
}

func flowType(t *testing.T, m Model, input string) Model {
	t.Helper()
	for _, r := range input {
		m = flowPress(t, m, string(r))
	}
	return m
}

func flowDrainCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
		return m
	case tea.BatchMsg:
		for _, c := range msg {
			m = flowDrainCmd(t, m, c)
		}
		return m
	default:
		next, nextCmd := m.Update(msg)
		got, ok := next.(Model)
		if !ok {
			t.Fatalf("command update returned %T, want Model", next)
		}
		return flowDrainCmd(t, got, nextCmd)
	}
}

func flowAnalyze(t *testing.T, m Model, ticker string) Model {
	t.Helper()
	m = flowPress(t, m, "a")
	m = flowType(t, m, ticker)
	return flowPress(t, m, "enter")
}

func TestAnalyzeScoreSaveReloadFlow(t *testing.T) {
	p := &stubProvider{payloads: map[string]*analysis.Payload{"AAPL": stubPayload("AAPL", "Apple Inc.")}}
	m := newFlowModel(t, p)

	m = flowAnalyze(t, m, "aapl")
	if m.state.View != controller.ViewAnalysis {
		t.Fatalf("view = %s, want analysis", m.state.View)
	}
	if m.state.CurrentTicker != "AAPL" {
		t.Fatalf("ticker = %q, want AAPL (normalized)", m.state.CurrentTicker)
	}

	// score quality 3, contrarian 4
	m = flowPress(t, m, "3")
	m = flowPress(t, m, "down")
	m = flowPress(t, m, "4")

	// note on the contrarian pillar
	m = flowPress(t, m, "n")
	m = flowType(t, m, "priced for decline")
	m = flowPress(t, m, "enter")

	// promote the first guidepost, dismiss the second
	m = flowPress(t, m, "down")
	m = flowPress(t, m, "down")
	m = flowPress(t, m, "p")
	m = flowPress(t, m, "right")
	m = flowPress(t, m, "x")

	m = flowPress(t, m, "s")
	if !m.state.Analyses.Has("AAPL") {
		t.Fatal("record not in store after save")
	}

	// a fresh session sees exactly what was saved
	m2 := New(m.repo, p, t.TempDir(), time.UTC, logging.Discard())
	m2 = flowDrainCmd(t, m2, m2.Init())
	rec, ok := m2.state.Analyses.Get("AAPL")
	if !ok {
		t.Fatal("record missing after reload")
	}
	if rec.Scores.Quality != 3 || rec.Scores.Contrarian != 4 {
		t.Fatalf("scores = %+v, want quality 3 contrarian 4", rec.Scores)
	}
	if rec.Notes.Contrarian != "priced for decline" {
		t.Fatalf("note = %q", rec.Notes.Contrarian)
	}
	if len(rec.CatalystState.Promoted) != 1 || rec.CatalystState.Promoted[0].ID != "act1" {
		t.Fatalf("promoted = %+v", rec.CatalystState.Promoted)
	}
	if rec.CatalystState.Promoted[0].Timeline != analysis.DefaultTimeline {
		t.Fatalf("timeline = %q", rec.CatalystState.Promoted[0].Timeline)
	}
	if rec.CatalystState.Guideposts[1].Status != analysis.StatusDismissed {
		t.Fatalf("second guidepost status = %s, want dismissed", rec.CatalystState.Guideposts[1].Status)
	}

	// opening the saved record from the dashboard restores the working copy
	m2 = flowPress(t, m2, "enter")
	if m2.state.View != controller.ViewAnalysis {
		t.Fatalf("view = %s, want analysis after open", m2.state.View)
	}
	if m2.working.Scores.Total() != 7 {
		t.Fatalf("working total = %d, want 7", m2.working.Scores.Total())
	}
}

func TestReportRequiresSaveThenExports(t *testing.T) {
	p := &stubProvider{payloads: map[string]*analysis.Payload{"MSFT": stubPayload("MSFT", "Microsoft")}}
	m := newFlowModel(t, p)
	m = flowAnalyze(t, m, "MSFT")

	m = flowPress(t, m, "r")
	if m.state.View != controller.ViewAnalysis {
		t.Fatalf("report opened without a saved record (view %s)", m.state.View)
	}
	if !strings.Contains(m.status, "save") {
		t.Fatalf("status = %q, want save hint", m.status)
	}

	m = flowPress(t, m, "s")
	m = flowPress(t, m, "r")
	if m.state.View != controller.ViewReport {
		t.Fatalf("view = %s, want report after save", m.state.View)
	}

	m = flowPress(t, m, "e")
	if !strings.Contains(m.status, "Report written to ") {
		t.Fatalf("status = %q, want export confirmation", m.status)
	}
	path := strings.TrimPrefix(m.status, "Report written to ")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read exported report: %v", err)
	}
	if !strings.Contains(string(raw), "MISPRICING REPORT — MSFT") {
		t.Fatalf("report header missing in %q", string(raw))
	}
}

func TestFetchFailureStaysOnDashboard(t *testing.T) {
	p := &stubProvider{err: errors.New("FMP quota exceeded")}
	m := newFlowModel(t, p)
	m = flowAnalyze(t, m, "AAPL")

	if m.state.View != controller.ViewDashboard {
		t.Fatalf("view = %s, want dashboard after failed fetch", m.state.View)
	}
	if !strings.Contains(m.state.Err, "FMP quota exceeded") {
		t.Fatalf("err = %q, want provider message", m.state.Err)
	}

	// a later successful fetch clears the error
	p.err = nil
	p.payloads = map[string]*analysis.Payload{"AAPL": stubPayload("AAPL", "Apple Inc.")}
	m = flowAnalyze(t, m, "AAPL")
	if m.state.Err != "" || m.state.View != controller.ViewAnalysis {
		t.Fatalf("err = %q view = %s after retry", m.state.Err, m.state.View)
	}
}

func TestEmptySessionNeverClobbersSnapshot(t *testing.T) {
	p := &stubProvider{payloads: map[string]*analysis.Payload{"AAPL": stubPayload("AAPL", "Apple Inc.")}}
	repo := newFlowRepo(t)

	m := New(repo, p, t.TempDir(), time.UTC, logging.Discard())
	m = flowDrainCmd(t, m, m.Init())
	m = flowAnalyze(t, m, "AAPL")
	m = flowPress(t, m, "s")

	// a second session that saves nothing must leave the snapshot intact
	m2 := New(repo, p, t.TempDir(), time.UTC, logging.Discard())
	m2 = flowDrainCmd(t, m2, m2.Init())
	m2 = flowDrainCmd(t, m2, persistCmd(repo, store.NewAnalyses()))

	m3 := New(repo, p, t.TempDir(), time.UTC, logging.Discard())
	m3 = flowDrainCmd(t, m3, m3.Init())
	if !m3.state.Analyses.Has("AAPL") {
		t.Fatal("empty session clobbered the saved snapshot")
	}
}
