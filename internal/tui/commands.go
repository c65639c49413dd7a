package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/mispricing/internal/provider"
	"github.com/jask/mispricing/internal/store"
)

const ioTimeout = 10 * time.Second

func loadStoreCmd(repo *store.Repository) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		analyses, err := repo.LoadAll(ctx)
		return storeLoadedMsg{analyses: analyses, err: err}
	}
}

// analyzeCmd runs one provider fetch. The token rides along so the
// controller can reject outcomes from superseded fetches.
func analyzeCmd(p provider.Provider, ticker, token string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), defaultProviderTimeout)
		defer cancel()
		payload, err := p.Analyze(ctx, ticker)
		return analysisResultMsg{token: token, ticker: ticker, payload: payload, err: err}
	}
}

const defaultProviderTimeout = 60 * time.Second

func persistCmd(repo *store.Repository, analyses *store.Analyses) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		return persistDoneMsg{err: repo.Persist(ctx, analyses)}
	}
}

func exportCmd(dir, ticker, content string, loc *time.Location) tea.Cmd {
	return func() tea.Msg {
		path, err := writeReport(dir, ticker, content, loc)
		return exportDoneMsg{path: path, err: err}
	}
}
