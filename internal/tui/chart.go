package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/jask/mispricing/internal/analysis"
)

const fcfBarWidth = 32

// fcfBars renders a horizontal bar per year of free cash flow, scaled to
// the largest magnitude in the series. Negative years render in red.
func fcfBars(years []analysis.CashFlowYear) string {
	var peak float64
	for _, y := range years {
		if v := math.Abs(y.FreeCashFlow); v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, y := range years {
		n := int(math.Round(math.Abs(y.FreeCashFlow) / peak * fcfBarWidth))
		if n == 0 && y.FreeCashFlow != 0 {
			n = 1
		}
		bar := strings.Repeat("█", n)
		style := positiveStyle
		if y.FreeCashFlow < 0 {
			style = negativeStyle
		}
		b.WriteString(fmt.Sprintf("%-6d %s\n", y.Year, style.Render(bar)))
	}
	return b.String()
}
