package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/mispricing/internal/analysis"
	"github.com/jask/mispricing/internal/controller"
)

func (m Model) View() string {
	if !m.ready {
		return statusStyle.Render("  " + m.status)
	}

	var body string
	switch m.state.View {
	case controller.ViewAnalysis:
		body = m.viewAnalysis()
	case controller.ViewReport:
		body = m.viewReport()
	default:
		body = m.viewDashboard()
	}

	sections := []string{m.renderHeader(), body, m.renderStatusBar(), m.renderFooter()}
	return strings.Join(sections, "\n")
}

// ---------------------------------------------------------------------------
// Chrome
// ---------------------------------------------------------------------------

func (m Model) renderHeader() string {
	tabs := []struct {
		view  controller.View
		label string
	}{
		{controller.ViewDashboard, "Dashboard"},
		{controller.ViewAnalysis, "Analysis"},
		{controller.ViewReport, "Report"},
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.view == m.state.View {
			parts = append(parts, activeViewStyle.Render(t.label))
		} else {
			parts = append(parts, inactiveViewStyle.Render(t.label))
		}
	}
	line := headerAppStyle.Render(appName) + "  " + strings.Join(parts, viewSepStyle.Render("|"))
	return headerBarStyle.Width(max(m.width, 0)).Render(line)
}

func (m Model) renderStatusBar() string {
	if m.state.Err != "" {
		return errorBarStyle.Width(max(m.width, 0)).Render("error: " + m.state.Err)
	}
	line := m.status
	if m.state.Loading {
		line = m.loading.View() + " fetching " + m.state.InFlightTicker()
	}
	return statusBarStyle.Width(max(m.width, 0)).Render(line)
}

func (m Model) renderFooter() string {
	var bindings []key.Binding
	switch {
	case m.tickerEntering, m.noteEditing:
		bindings = m.keys.inputHelp()
	default:
		switch m.state.View {
		case controller.ViewAnalysis:
			bindings = m.keys.analysisHelp()
		case controller.ViewReport:
			bindings = m.keys.reportHelp()
		default:
			bindings = m.keys.dashboardHelp()
		}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, helpKeyStyle.Render(b.Help().Key)+" "+helpDescStyle.Render(b.Help().Desc))
	}
	return footerStyle.Width(max(m.width, 0)).Render(strings.Join(parts, "  "))
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

func (m Model) viewDashboard() string {
	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render("  Saved Analyses") + "\n\n")

	if m.tickerEntering {
		b.WriteString("  " + m.tickerInput.View() + "\n\n")
	}

	tickers := m.savedTickers()
	if len(tickers) == 0 {
		b.WriteString(statusStyle.Render("  Nothing saved yet."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(statusStyle.Render(fmt.Sprintf("  %-8s %-28s %-22s %s", "TICKER", "COMPANY", "SCORES (Q/C/V/Ct)", "CATALYSTS")))
	b.WriteString("\n")
	for i, t := range tickers {
		rec, _ := m.state.Analyses.Get(t)
		cursor := "  "
		if i == m.savedCursor {
			cursor = cursorStyle.Render("> ")
		}
		scores := fmt.Sprintf("%d/%d/%d/%d (total %d)",
			rec.Scores.Quality, rec.Scores.Contrarian, rec.Scores.Valuation, rec.Scores.Catalyst,
			rec.Scores.Total())
		row := fmt.Sprintf("%-8s %-28s %-22s %d promoted",
			t,
			ansi.Truncate(rec.APIData.CompanyName, 28, "…"),
			scores,
			len(rec.CatalystState.Promoted))
		b.WriteString(cursor + ansi.Truncate(row, max(m.width-4, 40), "…") + "\n")
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Analysis
// ---------------------------------------------------------------------------

func (m Model) viewAnalysis() string {
	p := m.state.APIData
	if p == nil {
		return statusStyle.Render("\n  No analysis open.")
	}

	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render(fmt.Sprintf("  %s — %s", p.Ticker, p.CompanyName)) + "\n\n")

	pillars := analysis.AllPillars()
	for i, pillar := range pillars {
		b.WriteString(m.renderPillar(i, pillar, p))
		b.WriteString("\n")
	}

	if m.noteEditing {
		b.WriteString("\n  " + m.noteInput.View() + "\n")
	}
	return b.String()
}

func pillarTitle(p analysis.Pillar) string {
	switch p {
	case analysis.PillarQuality:
		return "Business Quality"
	case analysis.PillarContrarian:
		return "Contrarian Signals"
	case analysis.PillarValuation:
		return "Valuation"
	case analysis.PillarCatalyst:
		return "Catalysts"
	}
	return string(p)
}

func (m Model) renderPillar(i int, pillar analysis.Pillar, p *analysis.Payload) string {
	cursor := "  "
	if i == m.pillarCursor {
		cursor = cursorStyle.Render("> ")
	}
	score := m.working.Scores.Get(pillar)
	scoreStr := scoreUnsetStyle.Render("unscored")
	if score > 0 {
		scoreStr = scoreSetStyle.Render(fmt.Sprintf("score %d/5", score))
	}
	head := cursor + titleStyle.Render(pillarTitle(pillar)) + "  " + scoreStr

	var body string
	switch pillar {
	case analysis.PillarQuality:
		body = renderCashFlows(p.Pillars.BusinessQuality.ReclassifiedCashFlow)
	case analysis.PillarContrarian:
		body = renderSentiment(p.Pillars.Contrarian.NewsSentiment)
	case analysis.PillarValuation:
		body = renderValuation(p.Pillars.Valuation.Valuation)
	case analysis.PillarCatalyst:
		body = m.renderGuideposts()
	}

	if note := m.working.Notes.Get(pillar); note != "" {
		body += "\n" + statusStyle.Render("note: "+note)
	}
	return head + "\n" + sectionBoxStyle.Render(body) + "\n"
}

func renderCashFlows(years []analysis.CashFlowYear) string {
	if len(years) == 0 {
		return statusStyle.Render("no cash-flow history")
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-6s %12s %14s %14s\n", "YEAR", "NOPAT", "NET INVEST", "FCF"))
	for _, y := range years {
		b.WriteString(fmt.Sprintf("%-6d %12.0f %14.0f %14.0f\n", y.Year, y.NOPAT, y.NetInvestment, y.FreeCashFlow))
	}
	b.WriteString(fcfBars(years))
	return strings.TrimRight(b.String(), "\n")
}

func renderSentiment(s analysis.NewsSentiment) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s  %s  (%d articles)\n",
		positiveStyle.Render(fmt.Sprintf("+%d", s.Summary.Positive)),
		negativeStyle.Render(fmt.Sprintf("-%d", s.Summary.Negative)),
		neutralStyle.Render(fmt.Sprintf("~%d", s.Summary.Neutral)),
		s.Summary.Total))
	for i, a := range s.Articles {
		if i >= 5 {
			b.WriteString(statusStyle.Render(fmt.Sprintf("… and %d more", len(s.Articles)-5)))
			break
		}
		b.WriteString(sentimentStyle(a.Label).Render("• "+ansi.Truncate(a.Text, 70, "…")) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func sentimentStyle(label string) lipgloss.Style {
	switch label {
	case "Positive":
		return positiveStyle
	case "Negative":
		return negativeStyle
	}
	return neutralStyle
}

func renderValuation(v analysis.ValuationMetrics) string {
	return fmt.Sprintf("FCF yield      %s%%\nEPV (equity)   %.0f\n  normalized EBIT %.0f, net debt %.0f",
		scoreSetStyle.Render(fmt.Sprintf("%.2f", v.FreeCashFlowYield)),
		v.EarningsPowerValue.EPVEquity,
		v.EarningsPowerValue.NormalizedEBIT,
		v.EarningsPowerValue.NetDebt)
}

func (m Model) renderGuideposts() string {
	gps := m.working.CatalystState.Guideposts
	if len(gps) == 0 {
		return statusStyle.Render("no catalyst guideposts found")
	}
	var b strings.Builder
	for i, g := range gps {
		cursor := "  "
		if i == m.guidepostCursor && m.pillarCursor == 3 {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(cursor + guidepostStyle(g.Status).Render(fmt.Sprintf("[%s] %s: %s", g.Status, g.Type, ansi.Truncate(g.Evidence, 60, "…"))) + "\n")
	}
	if promoted := m.working.CatalystState.Promoted; len(promoted) > 0 {
		b.WriteString(titleStyle.Render("Roadmap") + "\n")
		for _, c := range promoted {
			b.WriteString(promotedStyle.Render(fmt.Sprintf("  %s (%s months)", c.Type, c.Timeline)) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func guidepostStyle(s analysis.GuidepostStatus) lipgloss.Style {
	switch s {
	case analysis.StatusPromoted:
		return promotedStyle
	case analysis.StatusDismissed:
		return dismissedStyle
	}
	return pendingStyle
}

// ---------------------------------------------------------------------------
// Report
// ---------------------------------------------------------------------------

func (m Model) viewReport() string {
	rec, ok := m.state.Analyses.Get(m.state.CurrentTicker)
	if !ok {
		return statusStyle.Render("\n  No saved record for report.")
	}
	return "\n" + sectionBoxStyle.Render(renderReport(m.state.CurrentTicker, rec, m.loc)) + "\n"
}
