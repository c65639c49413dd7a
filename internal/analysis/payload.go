package analysis

// Payload is the provider response for one ticker. It is immutable once
// fetched; the controller holds it transiently until the analyst saves it
// into a Record.
type Payload struct {
	Ticker      string         `json:"ticker"`
	CompanyName string         `json:"companyName"`
	Pillars     PillarPayloads `json:"pillars"`
	MarketData  map[string]any `json:"market_data,omitempty"`
}

// PillarPayloads groups the four fixed analysis dimensions.
type PillarPayloads struct {
	BusinessQuality BusinessQuality `json:"business_quality"`
	Contrarian      Contrarian      `json:"contrarian_analysis"`
	Valuation       ValuationPillar `json:"valuation"`
	Catalysts       Catalysts       `json:"catalysts"`
}

// BusinessQuality carries the reclassified cash-flow history plus raw
// provider metrics and profile blobs for display.
type BusinessQuality struct {
	ReclassifiedCashFlow []CashFlowYear    `json:"reclassified_cash_flow_analysis"`
	KeyMetrics           []map[string]any  `json:"key_metrics,omitempty"`
	CompanyProfile       map[string]any    `json:"company_profile,omitempty"`
	SECFilings           map[string]string `json:"sec_filings,omitempty"`
}

// CashFlowYear is one year of the reclassified cash-flow analysis.
type CashFlowYear struct {
	Year          int     `json:"year"`
	NOPAT         float64 `json:"nopat"`
	NetInvestment float64 `json:"netInvestment"`
	FreeCashFlow  float64 `json:"freeCashFlow"`
}

// Contrarian carries market sentiment inputs.
type Contrarian struct {
	MarketData      map[string]any  `json:"market_data,omitempty"`
	NewsSentiment   NewsSentiment   `json:"news_sentiment"`
	MungerChecklist []ChecklistItem `json:"munger_checklist,omitempty"`
}

// NewsSentiment summarizes headline polarity.
type NewsSentiment struct {
	Summary  SentimentSummary   `json:"summary"`
	Articles []SentimentArticle `json:"articles,omitempty"`
}

// SentimentSummary counts headline classifications.
type SentimentSummary struct {
	Positive int `json:"positive_count"`
	Negative int `json:"negative_count"`
	Neutral  int `json:"neutral_count"`
	Total    int `json:"total_articles"`
}

// SentimentArticle is one classified headline.
type SentimentArticle struct {
	Text  string `json:"text"`
	URL   string `json:"url,omitempty"`
	Label string `json:"sentiment_label"`
}

// ChecklistItem is one entry of the psychological-bias checklist.
type ChecklistItem struct {
	Bias     string `json:"bias"`
	Question string `json:"question"`
}

// ValuationPillar carries the valuation analysis and its raw inputs.
type ValuationPillar struct {
	Valuation  ValuationMetrics `json:"valuation_analysis"`
	KeyMetrics []map[string]any `json:"key_metrics,omitempty"`
	MarketData map[string]any   `json:"market_data,omitempty"`
}

// ValuationMetrics holds the computed valuation figures.
type ValuationMetrics struct {
	FreeCashFlowYield  float64            `json:"freeCashFlowYield"`
	EarningsPowerValue EarningsPowerValue `json:"earningsPowerValue"`
}

// EarningsPowerValue is a simple EPV decomposition.
type EarningsPowerValue struct {
	EPVEquity      float64 `json:"epv_equity"`
	NormalizedEBIT float64 `json:"normalized_ebit"`
	NetDebt        float64 `json:"net_debt"`
}

// Catalysts carries the provider-sourced guidepost candidates.
type Catalysts struct {
	Guideposts []Guidepost `json:"guideposts"`
}
