package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/mispricing/internal/analysis"
	"github.com/jask/mispricing/internal/store"
)

// View tags the active top-level view.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewAnalysis  View = "analysis"
	ViewReport    View = "report"
)

var (
	// ErrNoSavedRecord blocks report generation until the current analysis
	// has been saved. Recoverable: save first.
	ErrNoSavedRecord = errors.New("save the analysis before generating a report")
	// ErrUnknownTicker reports a load against a ticker with no saved record.
	ErrUnknownTicker = errors.New("no saved analysis for ticker")
	// ErrStaleResponse reports a fetch outcome whose request token was
	// superseded by a newer StartAnalysis. The state is left untouched.
	ErrStaleResponse = errors.New("stale fetch response ignored")
)

// State is the whole application state the views render from. Invariant:
// View ∈ {analysis, report} implies CurrentTicker is non-empty, and for
// report the ticker has a saved record.
type State struct {
	View          View
	CurrentTicker string
	Loading       bool
	Err           string
	APIData       *analysis.Payload
	Analyses      *store.Analyses

	// requestToken identifies the only StartAnalysis whose outcome may
	// still be applied; older in-flight fetches resolve into a dead slot.
	requestToken  string
	requestTicker string
}

// NewState returns the initial dashboard state over a loaded store.
func NewState(analyses *store.Analyses) State {
	if analyses == nil {
		analyses = store.NewAnalyses()
	}
	return State{View: ViewDashboard, Analyses: analyses}
}

// InFlightTicker returns the ticker of the outstanding fetch, if any.
func (s State) InFlightTicker() string { return s.requestTicker }

// NewRequestToken mints a token tying a StartAnalysis to its outcome.
func NewRequestToken() string { return uuid.NewString() }

// NormalizeTicker upper-cases and trims a user-entered ticker.
func NormalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

// Intent is a view-transition request. Dispatch applies exactly one intent
// atomically; intents never interleave.
type Intent interface{ kind() string }

// StartAnalysis begins a fetch for a ticker. Token must come from
// NewRequestToken; the newest token supersedes any outstanding fetch.
type StartAnalysis struct {
	Ticker string
	Token  string
}

// AnalysisSucceeded delivers the provider payload for a StartAnalysis.
type AnalysisSucceeded struct {
	Token   string
	Payload analysis.Payload
}

// AnalysisFailed delivers a fetch failure for a StartAnalysis.
type AnalysisFailed struct {
	Token   string
	Message string
}

// ShowDashboard returns to the dashboard, dropping transient analysis state.
type ShowDashboard struct{}

// ShowReport switches to the report view for the current ticker. Requires a
// saved record.
type ShowReport struct{}

// SaveAnalysis upserts a record for a ticker, replacing any prior record
// wholesale.
type SaveAnalysis struct {
	Ticker string
	Record analysis.Record
}

// LoadAnalysis reopens a saved analysis.
type LoadAnalysis struct {
	Ticker string
}

func (StartAnalysis) kind() string     { return "start_analysis" }
func (AnalysisSucceeded) kind() string { return "analysis_succeeded" }
func (AnalysisFailed) kind() string    { return "analysis_failed" }
func (ShowDashboard) kind() string     { return "show_dashboard" }
func (ShowReport) kind() string        { return "show_report" }
func (SaveAnalysis) kind() string      { return "save_analysis" }
func (LoadAnalysis) kind() string      { return "load_analysis" }

type handler func(State, Intent) (State, error)

// transitions is the explicit transition table. Every intent is total over
// all views; preconditions that fail return the state unchanged plus a
// typed error for the presentation layer to render.
var transitions = map[string]handler{
	"start_analysis":     applyStartAnalysis,
	"analysis_succeeded": applyAnalysisSucceeded,
	"analysis_failed":    applyAnalysisFailed,
	"show_dashboard":     applyShowDashboard,
	"show_report":        applyShowReport,
	"save_analysis":      applySaveAnalysis,
	"load_analysis":      applyLoadAnalysis,
}

// Dispatch applies one intent and returns the next state. A non-nil error
// always accompanies an unchanged state (except ErrStaleResponse, which is
// informational) and is locally recoverable.
func Dispatch(s State, in Intent) (State, error) {
	h, ok := transitions[in.kind()]
	if !ok {
		return s, fmt.Errorf("unknown intent %q", in.kind())
	}
	return h(s, in)
}

func applyStartAnalysis(s State, in Intent) (State, error) {
	req := in.(StartAnalysis)
	s.Loading = true
	s.Err = ""
	s.requestToken = req.Token
	s.requestTicker = NormalizeTicker(req.Ticker)
	return s, nil
}

func applyAnalysisSucceeded(s State, in Intent) (State, error) {
	res := in.(AnalysisSucceeded)
	if res.Token != s.requestToken {
		return s, ErrStaleResponse
	}
	payload := res.Payload
	payload.Ticker = NormalizeTicker(payload.Ticker)
	s.Loading = false
	s.View = ViewAnalysis
	s.CurrentTicker = payload.Ticker
	s.APIData = &payload
	s.requestToken = ""
	s.requestTicker = ""
	return s, nil
}

func applyAnalysisFailed(s State, in Intent) (State, error) {
	res := in.(AnalysisFailed)
	if res.Token != s.requestToken {
		return s, ErrStaleResponse
	}
	s.Loading = false
	s.Err = res.Message
	s.requestToken = ""
	s.requestTicker = ""
	return s, nil
}

func applyShowDashboard(s State, _ Intent) (State, error) {
	s.View = ViewDashboard
	s.CurrentTicker = ""
	s.APIData = nil
	s.Err = ""
	return s, nil
}

func applyShowReport(s State, _ Intent) (State, error) {
	if s.CurrentTicker == "" || !s.Analyses.Has(s.CurrentTicker) {
		return s, ErrNoSavedRecord
	}
	s.View = ViewReport
	return s, nil
}

func applySaveAnalysis(s State, in Intent) (State, error) {
	save := in.(SaveAnalysis)
	ticker := NormalizeTicker(save.Ticker)
	if ticker == "" {
		return s, fmt.Errorf("save: empty ticker")
	}
	s.Analyses = s.Analyses.Upsert(ticker, save.Record)
	return s, nil
}

func applyLoadAnalysis(s State, in Intent) (State, error) {
	load := in.(LoadAnalysis)
	ticker := NormalizeTicker(load.Ticker)
	rec, ok := s.Analyses.Get(ticker)
	if !ok {
		if near := NearestTicker(s.Analyses.Tickers(), ticker); near != "" {
			return s, fmt.Errorf("%w %s (did you mean %s?)", ErrUnknownTicker, ticker, near)
		}
		return s, fmt.Errorf("%w %s", ErrUnknownTicker, ticker)
	}
	payload := rec.APIData
	s.View = ViewAnalysis
	s.CurrentTicker = ticker
	s.APIData = &payload
	s.Err = ""
	return s, nil
}
