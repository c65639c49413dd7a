package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jask/mispricing/internal/analysis"
)

// HTTPProvider fetches payloads from a remote analysis endpoint:
// GET {base}/analyze/{ticker}.
type HTTPProvider struct {
	base string
	hc   *http.Client
	log  *logrus.Logger
}

// NewHTTPProvider builds a provider against a base URL such as
// "http://127.0.0.1:5000".
func NewHTTPProvider(base string, log *logrus.Logger) *HTTPProvider {
	return &HTTPProvider{
		base: strings.TrimRight(base, "/"),
		hc:   newHTTPClient(),
		log:  log,
	}
}

func (p *HTTPProvider) Analyze(ctx context.Context, ticker string) (*analysis.Payload, error) {
	endpoint := fmt.Sprintf("%s/analyze/%s", p.base, url.PathEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.hc.Do(req)
	if err != nil {
		p.log.WithError(err).WithField("ticker", ticker).Warn("analysis fetch failed")
		return nil, fmt.Errorf("fetch analysis for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read analysis response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// error responses carry {"error": "..."}; fall back to the status line
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("provider: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("provider: HTTP %d for %s", resp.StatusCode, ticker)
	}

	var payload analysis.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode analysis payload: %w", err)
	}
	if payload.Ticker == "" {
		payload.Ticker = ticker
	}
	return &payload, nil
}
