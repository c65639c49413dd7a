package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jask/mispricing/internal/analysis"
)

// renderReport builds the plain-text research memo for a saved record. The
// same text backs the report view and the file export.
func renderReport(ticker string, rec analysis.Record, loc *time.Location) string {
	var b strings.Builder
	p := rec.APIData

	fmt.Fprintf(&b, "MISPRICING REPORT — %s (%s)\n", ticker, p.CompanyName)
	fmt.Fprintf(&b, "Generated %s\n\n", time.Now().In(loc).Format("2006-01-02"))
	fmt.Fprintf(&b, "Conviction: %d/20\n\n", rec.Scores.Total())

	fmt.Fprintf(&b, "1. BUSINESS QUALITY  (score %d/5)\n", rec.Scores.Quality)
	writeNote(&b, rec.Notes.Quality)
	for _, y := range p.Pillars.BusinessQuality.ReclassifiedCashFlow {
		fmt.Fprintf(&b, "   %d  NOPAT %.0f  net investment %.0f  FCF %.0f\n",
			y.Year, y.NOPAT, y.NetInvestment, y.FreeCashFlow)
	}
	b.WriteString("\n")

	s := p.Pillars.Contrarian.NewsSentiment.Summary
	fmt.Fprintf(&b, "2. CONTRARIAN SIGNALS  (score %d/5)\n", rec.Scores.Contrarian)
	writeNote(&b, rec.Notes.Contrarian)
	fmt.Fprintf(&b, "   Headlines: %d positive, %d negative, %d neutral of %d\n\n",
		s.Positive, s.Negative, s.Neutral, s.Total)

	v := p.Pillars.Valuation.Valuation
	fmt.Fprintf(&b, "3. VALUATION  (score %d/5)\n", rec.Scores.Valuation)
	writeNote(&b, rec.Notes.Valuation)
	fmt.Fprintf(&b, "   FCF yield %.2f%%, EPV equity %.0f (EBIT %.0f, net debt %.0f)\n\n",
		v.FreeCashFlowYield,
		v.EarningsPowerValue.EPVEquity,
		v.EarningsPowerValue.NormalizedEBIT,
		v.EarningsPowerValue.NetDebt)

	fmt.Fprintf(&b, "4. CATALYST ROADMAP  (score %d/5)\n", rec.Scores.Catalyst)
	writeNote(&b, rec.Notes.Catalyst)
	if len(rec.CatalystState.Promoted) == 0 {
		b.WriteString("   No catalysts promoted.\n")
	}
	for _, c := range rec.CatalystState.Promoted {
		fmt.Fprintf(&b, "   [%s months] %s: %s\n", c.Timeline, c.Type, c.Evidence)
	}
	if dismissed := countDismissed(rec.CatalystState); dismissed > 0 {
		fmt.Fprintf(&b, "   (%d guideposts dismissed)\n", dismissed)
	}
	return b.String()
}

func writeNote(b *strings.Builder, note string) {
	if note != "" {
		fmt.Fprintf(b, "   Note: %s\n", note)
	}
}

func countDismissed(s analysis.CatalystState) int {
	n := 0
	for _, g := range s.Guideposts {
		if g.Status == analysis.StatusDismissed {
			n++
		}
	}
	return n
}

// writeReport saves the memo under dir as TICKER_report_DATE.txt.
func writeReport(dir, ticker, content string, loc *time.Location) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := fmt.Sprintf("%s_report_%s.txt", ticker, time.Now().In(loc).Format("2006-01-02"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
