package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jask/mispricing/internal/engine"
)

// secBaseURL is the sec-api.io query endpoint.
const secBaseURL = "https://api.sec-api.io"

// trackedForms are the filing types scanned for catalysts and links.
var trackedForms = []string{"10-K", "10-Q", "4", "SC 13D"}

// SECClient queries sec-api.io for recent filings.
type SECClient struct {
	apiKey string
	base   string
	hc     *http.Client
}

// NewSECClient builds a client with the production base URL.
func NewSECClient(apiKey string) *SECClient {
	return &SECClient{apiKey: apiKey, base: secBaseURL, hc: newHTTPClient()}
}

// LatestFilings fetches the latest tracked filings for a ticker, grouped by
// form type. Every tracked form is present in the result, possibly empty.
func (c *SECClient) LatestFilings(ctx context.Context, ticker string) (map[string][]engine.Filing, error) {
	queryString := fmt.Sprintf(
		`ticker:%s AND (formType:"10-K" OR formType:"10-Q" OR formType:"4" OR formType:"SC 13D")`,
		ticker,
	)
	query := map[string]any{
		"query": map[string]any{
			"query_string": map[string]any{"query": queryString},
		},
		"from": "0",
		"size": "20",
		"sort": []map[string]any{
			{"filedAt": map[string]any{"order": "desc"}},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("encode filings query: %w", err)
	}

	url := fmt.Sprintf("%s?token=%s", c.base, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query filings: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read filings response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("sec-api: HTTP %d", resp.StatusCode)
	}

	var decoded struct {
		Filings []engine.Filing `json:"filings"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode filings: %w", err)
	}

	organized := make(map[string][]engine.Filing, len(trackedForms))
	for _, form := range trackedForms {
		organized[form] = []engine.Filing{}
	}
	for _, f := range decoded.Filings {
		if _, ok := organized[f.FormType]; ok {
			organized[f.FormType] = append(organized[f.FormType], f)
		}
	}
	return organized, nil
}
