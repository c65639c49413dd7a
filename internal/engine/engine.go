package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jask/mispricing/internal/analysis"
)

// costOfCapital is the flat discount rate used by the earnings-power model.
var costOfCapital = decimal.NewFromFloat(0.10)

// ReclassifiedCashFlow derives NOPAT, net investment and free cash flow for
// every year that has a complete prior-year pair, newest first.
//
//	EBIT = ebitda − D&A
//	NOPAT = EBIT × (1 − effective tax rate)
//	net investment = Δ operating working capital + capex
//	FCF = NOPAT − net investment
func ReclassifiedCashFlow(income []IncomeStatement, balance []BalanceSheet, cash []CashFlowStatement) []analysis.CashFlowYear {
	incomeByYear := map[string]IncomeStatement{}
	for _, row := range income {
		incomeByYear[row.CalendarYear] = row
	}
	balanceByYear := map[string]BalanceSheet{}
	for _, row := range balance {
		balanceByYear[row.CalendarYear] = row
	}
	cashByYear := map[string]CashFlowStatement{}
	for _, row := range cash {
		cashByYear[row.CalendarYear] = row
	}

	years := make([]string, 0, len(balanceByYear))
	for y := range balanceByYear {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))

	var out []analysis.CashFlowYear
	for i, year := range years {
		if i >= len(years)-1 {
			continue // oldest year has no prior to diff against
		}
		yearNum, err := strconv.Atoi(year)
		if err != nil {
			continue
		}
		prior := strconv.Itoa(yearNum - 1)
		if !haveYearPair(incomeByYear, balanceByYear, cashByYear, year, prior) {
			continue
		}

		inc := incomeByYear[year]
		bsCurr, bsPrior := balanceByYear[year], balanceByYear[prior]

		ebit := decimal.NewFromFloat(inc.EBITDA).Sub(decimal.NewFromFloat(inc.DepreciationAndAmortization))
		taxRate := decimal.Zero
		if inc.IncomeBeforeTax != 0 {
			taxRate = decimal.NewFromFloat(inc.IncomeTaxExpense).Div(decimal.NewFromFloat(inc.IncomeBeforeTax))
		}
		nopat := ebit.Mul(decimal.NewFromInt(1).Sub(taxRate))

		opWC := operatingWorkingCapital(bsCurr)
		opWCPrior := operatingWorkingCapital(bsPrior)
		capex := decimal.NewFromFloat(cashByYear[year].CapitalExpenditure).Neg()
		netInvestment := opWC.Sub(opWCPrior).Add(capex)
		fcf := nopat.Sub(netInvestment)

		out = append(out, analysis.CashFlowYear{
			Year:          yearNum,
			NOPAT:         roundWhole(nopat),
			NetInvestment: roundWhole(netInvestment),
			FreeCashFlow:  roundWhole(fcf),
		})
	}
	return out
}

func haveYearPair(income map[string]IncomeStatement, balance map[string]BalanceSheet, cash map[string]CashFlowStatement, year, prior string) bool {
	for _, y := range []string{year, prior} {
		if _, ok := income[y]; !ok {
			return false
		}
		if _, ok := balance[y]; !ok {
			return false
		}
		if _, ok := cash[y]; !ok {
			return false
		}
	}
	return true
}

func operatingWorkingCapital(bs BalanceSheet) decimal.Decimal {
	return decimal.NewFromFloat(bs.NetReceivables).
		Add(decimal.NewFromFloat(bs.Inventory)).
		Sub(decimal.NewFromFloat(bs.AccountPayables))
}

// Valuation computes FCF yield against enterprise value plus a flat-rate
// earnings-power value from normalized EBIT.
func Valuation(cashFlow []analysis.CashFlowYear, ev EnterpriseValue, income []IncomeStatement) analysis.ValuationMetrics {
	fcfYield := decimal.Zero
	if len(cashFlow) > 0 && ev.EnterpriseValue > 0 {
		fcfYield = decimal.NewFromFloat(cashFlow[0].FreeCashFlow).
			Div(decimal.NewFromFloat(ev.EnterpriseValue)).
			Mul(decimal.NewFromInt(100))
	}

	normalizedEBIT := decimal.Zero
	if len(income) > 0 {
		sum := decimal.Zero
		for _, inc := range income {
			sum = sum.Add(decimal.NewFromFloat(inc.EBITDA).Sub(decimal.NewFromFloat(inc.DepreciationAndAmortization)))
		}
		normalizedEBIT = sum.Div(decimal.NewFromInt(int64(len(income))))
	}

	epvFirm := normalizedEBIT.Div(costOfCapital)
	netDebt := decimal.NewFromFloat(ev.AddTotalDebt).Sub(decimal.NewFromFloat(ev.MinusCashAndCashEquivalents))
	epvEquity := epvFirm.Sub(netDebt)

	return analysis.ValuationMetrics{
		FreeCashFlowYield: round2(fcfYield),
		EarningsPowerValue: analysis.EarningsPowerValue{
			EPVEquity:      roundWhole(epvEquity),
			NormalizedEBIT: roundWhole(normalizedEBIT),
			NetDebt:        roundWhole(netDebt),
		},
	}
}

// FindCatalysts scans filings for activist stakes and insider buying, then
// appends the standing operational/financial guideposts. Every returned
// guidepost starts pending.
func FindCatalysts(filings map[string][]Filing) []analysis.Guidepost {
	var out []analysis.Guidepost

	for _, f := range filings["SC 13D"] {
		filer := f.CompanyName
		if filer == "" {
			filer = "An activist"
		}
		out = append(out, analysis.Guidepost{
			ID:       guidepostID(f.ID, "act", len(out)),
			Type:     "Activism",
			Status:   analysis.StatusPending,
			Evidence: fmt.Sprintf("%s filed an SC 13D on %s.", filer, filedAtOrNA(f)),
			Link:     f.LinkToFilingDetails,
		})
	}

	for _, f := range filings["4"] {
		desc := strings.ToLower(f.Description)
		if !strings.Contains(desc, "purchase") && !strings.Contains(desc, "buy") {
			continue
		}
		out = append(out, analysis.Guidepost{
			ID:       guidepostID(f.ID, "ins", len(out)),
			Type:     "Insider",
			Status:   analysis.StatusPending,
			Evidence: fmt.Sprintf("Insider transaction (purchase) reported on %s.", filedAtOrNA(f)),
			Link:     f.LinkToFilingDetails,
		})
	}

	out = append(out,
		analysis.Guidepost{
			ID: "op1", Type: "Operational", Status: analysis.StatusPending,
			Evidence: "Potential for margin expansion if input costs normalize.",
		},
		analysis.Guidepost{
			ID: "fin1", Type: "Financial", Status: analysis.StatusPending,
			Evidence: "Company has a history of opportunistic share repurchases.",
		},
	)
	return out
}

// MungerChecklist returns the static psychological-bias checklist shown in
// the contrarian pillar.
func MungerChecklist() []analysis.ChecklistItem {
	return []analysis.ChecklistItem{
		{
			Bias:     "Social Proof & Authority",
			Question: "Is the market's view driven by herd behavior or a few influential analysts?",
		},
		{
			Bias:     "Availability & Recency",
			Question: "Is a recent negative event being extrapolated indefinitely into the future?",
		},
	}
}

func guidepostID(filingID, prefix string, n int) string {
	if filingID != "" {
		return filingID
	}
	return fmt.Sprintf("%s%d", prefix, n+1)
}

func filedAtOrNA(f Filing) string {
	if f.FiledAt == "" {
		return "N/A"
	}
	return f.FiledAt
}

func roundWhole(d decimal.Decimal) float64 {
	return d.Round(0).InexactFloat64()
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
