package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jask/mispricing/internal/engine"
)

// fmpBaseURL is the Financial Modeling Prep v3 REST root.
const fmpBaseURL = "https://financialmodelingprep.com/api/v3"

// statementLimit caps the fiscal years requested per statement.
const statementLimit = 10

// FMPClient talks to Financial Modeling Prep.
type FMPClient struct {
	apiKey string
	base   string
	hc     *http.Client
}

// NewFMPClient builds a client with the production base URL.
func NewFMPClient(apiKey string) *FMPClient {
	return &FMPClient{apiKey: apiKey, base: fmpBaseURL, hc: newHTTPClient()}
}

// FinancialData bundles the three statements used by the cash-flow
// reclassification.
type FinancialData struct {
	IncomeStatements   []engine.IncomeStatement
	BalanceSheets      []engine.BalanceSheet
	CashFlowStatements []engine.CashFlowStatement
}

func (c *FMPClient) FinancialData(ctx context.Context, ticker string) (FinancialData, error) {
	var data FinancialData
	if err := c.get(ctx, fmt.Sprintf("income-statement/%s?period=annual&limit=%d", ticker, statementLimit), &data.IncomeStatements); err != nil {
		return data, fmt.Errorf("income statement: %w", err)
	}
	if err := c.get(ctx, fmt.Sprintf("balance-sheet-statement/%s?period=annual&limit=%d", ticker, statementLimit), &data.BalanceSheets); err != nil {
		return data, fmt.Errorf("balance sheet: %w", err)
	}
	if err := c.get(ctx, fmt.Sprintf("cash-flow-statement/%s?period=annual&limit=%d", ticker, statementLimit), &data.CashFlowStatements); err != nil {
		return data, fmt.Errorf("cash flow statement: %w", err)
	}
	return data, nil
}

func (c *FMPClient) KeyMetrics(ctx context.Context, ticker string) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.get(ctx, fmt.Sprintf("key-metrics/%s?period=annual&limit=%d", ticker, statementLimit), &out); err != nil {
		return nil, fmt.Errorf("key metrics: %w", err)
	}
	return out, nil
}

// ProfileAndQuote bundles company identity and current market data.
type ProfileAndQuote struct {
	Profile         map[string]any
	Quote           map[string]any
	EnterpriseValue engine.EnterpriseValue
}

func (c *FMPClient) ProfileAndQuote(ctx context.Context, ticker string) (ProfileAndQuote, error) {
	var out ProfileAndQuote

	var profiles []map[string]any
	if err := c.get(ctx, fmt.Sprintf("profile/%s?", ticker), &profiles); err != nil {
		return out, fmt.Errorf("profile: %w", err)
	}
	if len(profiles) > 0 {
		out.Profile = profiles[0]
	}

	var quotes []map[string]any
	if err := c.get(ctx, fmt.Sprintf("quote/%s?", ticker), &quotes); err != nil {
		return out, fmt.Errorf("quote: %w", err)
	}
	if len(quotes) > 0 {
		out.Quote = quotes[0]
	}

	var evs []engine.EnterpriseValue
	if err := c.get(ctx, fmt.Sprintf("enterprise-values/%s?period=annual&limit=1", ticker), &evs); err != nil {
		return out, fmt.Errorf("enterprise values: %w", err)
	}
	if len(evs) > 0 {
		out.EnterpriseValue = evs[0]
	}
	return out, nil
}

func (c *FMPClient) News(ctx context.Context, ticker string) ([]engine.NewsArticle, error) {
	var out []engine.NewsArticle
	if err := c.get(ctx, fmt.Sprintf("stock_news?tickers=%s&limit=50", ticker), &out); err != nil {
		return nil, fmt.Errorf("news: %w", err)
	}
	return out, nil
}

// get issues one authenticated request. FMP takes the key as a query
// parameter appended after the endpoint's own query string.
func (c *FMPClient) get(ctx context.Context, endpoint string, into any) error {
	sep := "?"
	for _, r := range endpoint {
		if r == '?' {
			sep = "&"
			break
		}
	}
	url := fmt.Sprintf("%s/%s%sapikey=%s", c.base, endpoint, sep, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fmp: HTTP %d", resp.StatusCode)
	}
	return json.Unmarshal(body, into)
}
