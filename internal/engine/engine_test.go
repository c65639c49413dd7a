package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/mispricing/internal/analysis"
)

func TestReclassifiedCashFlow(t *testing.T) {
	t.Parallel()

	income := []IncomeStatement{
		{CalendarYear: "2025", EBITDA: 1000, DepreciationAndAmortization: 200, IncomeTaxExpense: 160, IncomeBeforeTax: 800},
		{CalendarYear: "2024", EBITDA: 900, DepreciationAndAmortization: 180, IncomeTaxExpense: 144, IncomeBeforeTax: 720},
	}
	balance := []BalanceSheet{
		{CalendarYear: "2025", NetReceivables: 300, Inventory: 200, AccountPayables: 150},
		{CalendarYear: "2024", NetReceivables: 280, Inventory: 190, AccountPayables: 140},
	}
	cash := []CashFlowStatement{
		{CalendarYear: "2025", CapitalExpenditure: -120},
		{CalendarYear: "2024", CapitalExpenditure: -110},
	}

	got := ReclassifiedCashFlow(income, balance, cash)
	require.Len(t, got, 1) // oldest year has no prior pair

	// EBIT 800, tax rate 20% → NOPAT 640
	// ΔopWC = (300+200-150) − (280+190-140) = 20; capex 120 → net inv 140
	// FCF = 640 − 140 = 500
	require.Equal(t, analysis.CashFlowYear{
		Year: 2025, NOPAT: 640, NetInvestment: 140, FreeCashFlow: 500,
	}, got[0])
}

func TestReclassifiedCashFlowSkipsIncompleteYears(t *testing.T) {
	t.Parallel()

	income := []IncomeStatement{{CalendarYear: "2025", EBITDA: 100}}
	balance := []BalanceSheet{
		{CalendarYear: "2025"}, {CalendarYear: "2024"},
	}
	// no prior-year income or cash rows
	got := ReclassifiedCashFlow(income, balance, nil)
	require.Empty(t, got)
}

func TestReclassifiedCashFlowZeroPretaxIncome(t *testing.T) {
	t.Parallel()

	income := []IncomeStatement{
		{CalendarYear: "2025", EBITDA: 500, DepreciationAndAmortization: 100, IncomeTaxExpense: 50, IncomeBeforeTax: 0},
		{CalendarYear: "2024"},
	}
	balance := []BalanceSheet{{CalendarYear: "2025"}, {CalendarYear: "2024"}}
	cash := []CashFlowStatement{{CalendarYear: "2025"}, {CalendarYear: "2024"}}

	got := ReclassifiedCashFlow(income, balance, cash)
	require.Len(t, got, 1)
	require.Equal(t, float64(400), got[0].NOPAT) // tax rate treated as zero
}

func TestValuation(t *testing.T) {
	t.Parallel()

	cf := []analysis.CashFlowYear{{Year: 2025, FreeCashFlow: 500}}
	ev := EnterpriseValue{EnterpriseValue: 10000, AddTotalDebt: 3000, MinusCashAndCashEquivalents: 1000}
	income := []IncomeStatement{
		{CalendarYear: "2025", EBITDA: 1000, DepreciationAndAmortization: 200},
		{CalendarYear: "2024", EBITDA: 900, DepreciationAndAmortization: 180},
	}

	got := Valuation(cf, ev, income)
	require.Equal(t, 5.0, got.FreeCashFlowYield) // 500/10000 × 100

	// normalized EBIT = (800+720)/2 = 760 → EPV firm 7600, net debt 2000
	require.Equal(t, float64(760), got.EarningsPowerValue.NormalizedEBIT)
	require.Equal(t, float64(2000), got.EarningsPowerValue.NetDebt)
	require.Equal(t, float64(5600), got.EarningsPowerValue.EPVEquity)
}

func TestValuationNoInputs(t *testing.T) {
	t.Parallel()

	got := Valuation(nil, EnterpriseValue{}, nil)
	require.Zero(t, got.FreeCashFlowYield)
	require.Zero(t, got.EarningsPowerValue.EPVEquity)
}

func TestAnalyzeSentiment(t *testing.T) {
	t.Parallel()

	news := []NewsArticle{
		{Title: "Shares surge after record profit", URL: "https://example.com/1"},
		{Title: "Analyst downgrade triggers loss", URL: "https://example.com/2"},
		{Title: "Company schedules annual meeting"},
	}

	got := AnalyzeSentiment(news)
	require.Equal(t, 1, got.Summary.Positive)
	require.Equal(t, 1, got.Summary.Negative)
	require.Equal(t, 1, got.Summary.Neutral)
	require.Equal(t, 3, got.Summary.Total)
	require.Equal(t, "Positive", got.Articles[0].Label)
	require.Equal(t, "Negative", got.Articles[1].Label)
	require.Equal(t, "Neutral", got.Articles[2].Label)
}

func TestAnalyzeSentimentCapsArticles(t *testing.T) {
	t.Parallel()

	news := make([]NewsArticle, 25)
	for i := range news {
		news[i] = NewsArticle{Title: "quarterly report released"}
	}
	got := AnalyzeSentiment(news)
	require.Len(t, got.Articles, maxSentimentArticles)
	require.Equal(t, 25, got.Summary.Total)
}

func TestFindCatalysts(t *testing.T) {
	t.Parallel()

	filings := map[string][]Filing{
		"SC 13D": {{
			ID: "f13d", CompanyName: "Starboard Value LP", FiledAt: "2026-07-01",
			LinkToFilingDetails: "https://example.com/13d",
		}},
		"4": {
			{ID: "f4a", FiledAt: "2026-07-10", Description: "Statement of changes — open market purchase"},
			{ID: "f4b", FiledAt: "2026-07-11", Description: "Statement of changes — sale of shares"},
		},
	}

	got := FindCatalysts(filings)
	require.Len(t, got, 4) // 13D + one purchase + two standing guideposts

	require.Equal(t, "Activism", got[0].Type)
	require.Equal(t, "f13d", got[0].ID)
	require.Contains(t, got[0].Evidence, "Starboard Value LP")
	require.Contains(t, got[0].Evidence, "2026-07-01")

	require.Equal(t, "Insider", got[1].Type)
	require.Equal(t, "f4a", got[1].ID)

	require.Equal(t, "Operational", got[2].Type)
	require.Equal(t, "Financial", got[3].Type)
	for _, g := range got {
		require.Equal(t, analysis.StatusPending, g.Status)
	}
}

func TestFindCatalystsNoFilings(t *testing.T) {
	t.Parallel()

	got := FindCatalysts(nil)
	require.Len(t, got, 2)
	require.Equal(t, "op1", got[0].ID)
	require.Equal(t, "fin1", got[1].ID)
}
