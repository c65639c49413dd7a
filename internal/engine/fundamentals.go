package engine

// Statement rows as returned by the fundamentals provider (FMP field names).
// Only the fields the engine reads are decoded; anything else the provider
// sends is ignored rather than failed on.

// IncomeStatement is one fiscal year of the income statement.
type IncomeStatement struct {
	CalendarYear                string  `json:"calendarYear"`
	EBITDA                      float64 `json:"ebitda"`
	DepreciationAndAmortization float64 `json:"depreciationAndAmortization"`
	IncomeTaxExpense            float64 `json:"incomeTaxExpense"`
	IncomeBeforeTax             float64 `json:"incomeBeforeTax"`
}

// BalanceSheet is one fiscal year of the balance sheet.
type BalanceSheet struct {
	CalendarYear    string  `json:"calendarYear"`
	NetReceivables  float64 `json:"netReceivables"`
	Inventory       float64 `json:"inventory"`
	AccountPayables float64 `json:"accountPayables"`
}

// CashFlowStatement is one fiscal year of the cash-flow statement.
type CashFlowStatement struct {
	CalendarYear       string  `json:"calendarYear"`
	CapitalExpenditure float64 `json:"capitalExpenditure"`
}

// EnterpriseValue carries the latest enterprise-value decomposition.
type EnterpriseValue struct {
	EnterpriseValue             float64 `json:"enterpriseValue"`
	AddTotalDebt                float64 `json:"addTotalDebt"`
	MinusCashAndCashEquivalents float64 `json:"minusCashAndCashEquivalents"`
}

// NewsArticle is one headline from the news feed.
type NewsArticle struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Filing is one SEC filing summary.
type Filing struct {
	ID                  string `json:"id"`
	FormType            string `json:"formType"`
	CompanyName         string `json:"companyName"`
	FiledAt             string `json:"filedAt"`
	LinkToFilingDetails string `json:"linkToFilingDetails"`
	Description         string `json:"description"`
}
