package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/jask/mispricing/internal/analysis"
)

// Provider returns the full four-pillar payload for one ticker. Failures
// surface as plain errors; the controller renders the message and leaves
// the view unchanged.
type Provider interface {
	Analyze(ctx context.Context, ticker string) (*analysis.Payload, error)
}

// defaultTimeout bounds every provider round trip.
const defaultTimeout = 30 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}
