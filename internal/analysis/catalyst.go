package analysis

import (
	"errors"
	"fmt"
)

// GuidepostStatus is the triage state of a catalyst candidate.
type GuidepostStatus string

const (
	StatusPending   GuidepostStatus = "pending"
	StatusPromoted  GuidepostStatus = "promoted"
	StatusDismissed GuidepostStatus = "dismissed"
)

// DefaultTimeline is assigned to every catalyst at promotion time and is
// immutable afterwards.
const DefaultTimeline = "0-12"

var (
	// ErrGuidepostNotFound reports a promote/dismiss against an unknown id.
	ErrGuidepostNotFound = errors.New("guidepost not found")
	// ErrInvalidTransition reports a promote/dismiss against a guidepost
	// that already left the pending state.
	ErrInvalidTransition = errors.New("guidepost already resolved")
)

// Guidepost is a provider-supplied catalyst candidate awaiting triage.
type Guidepost struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Evidence string          `json:"evidence"`
	Link     string          `json:"link,omitempty"`
	Status   GuidepostStatus `json:"status"`
}

// PromotedCatalyst is a guidepost snapshot committed to the roadmap.
type PromotedCatalyst struct {
	Guidepost
	Timeline string `json:"timeline"`
}

// CatalystState holds the guidepost lifecycle for one analysis. Guideposts
// keep provider order; Promoted is append-ordered by promotion time and is
// never reordered or removed.
type CatalystState struct {
	Guideposts []Guidepost        `json:"guideposts"`
	Promoted   []PromotedCatalyst `json:"promoted"`
}

// NewCatalystState seeds the workflow from the provider payload. Incoming
// guideposts always start pending regardless of what the provider claims.
func NewCatalystState(guideposts []Guidepost) CatalystState {
	gps := make([]Guidepost, len(guideposts))
	copy(gps, guideposts)
	for i := range gps {
		gps[i].Status = StatusPending
	}
	return CatalystState{Guideposts: gps, Promoted: []PromotedCatalyst{}}
}

// clone returns a state whose slices the caller may mutate freely.
func (s CatalystState) clone() CatalystState {
	out := CatalystState{
		Guideposts: make([]Guidepost, len(s.Guideposts)),
		Promoted:   make([]PromotedCatalyst, len(s.Promoted)),
	}
	copy(out.Guideposts, s.Guideposts)
	copy(out.Promoted, s.Promoted)
	return out
}

// Promote moves a pending guidepost to the roadmap. The transition is
// terminal: a second promote (or a promote after dismiss) fails with
// ErrInvalidTransition and leaves the state untouched.
func Promote(s CatalystState, id string) (CatalystState, error) {
	idx := indexOf(s.Guideposts, id)
	if idx < 0 {
		return s, fmt.Errorf("promote %q: %w", id, ErrGuidepostNotFound)
	}
	if s.Guideposts[idx].Status != StatusPending {
		return s, fmt.Errorf("promote %q (status %s): %w", id, s.Guideposts[idx].Status, ErrInvalidTransition)
	}
	out := s.clone()
	out.Guideposts[idx].Status = StatusPromoted
	out.Promoted = append(out.Promoted, PromotedCatalyst{
		Guidepost: out.Guideposts[idx],
		Timeline:  DefaultTimeline,
	})
	return out, nil
}

// Dismiss marks a pending guidepost as rejected. Dismissal never touches
// the promoted roadmap.
func Dismiss(s CatalystState, id string) (CatalystState, error) {
	idx := indexOf(s.Guideposts, id)
	if idx < 0 {
		return s, fmt.Errorf("dismiss %q: %w", id, ErrGuidepostNotFound)
	}
	if s.Guideposts[idx].Status != StatusPending {
		return s, fmt.Errorf("dismiss %q (status %s): %w", id, s.Guideposts[idx].Status, ErrInvalidTransition)
	}
	out := s.clone()
	out.Guideposts[idx].Status = StatusDismissed
	return out, nil
}

// Pending is the triage queue shown to the analyst. It is a derived
// projection; callers must not treat it as owning state.
func Pending(s CatalystState) []Guidepost {
	var out []Guidepost
	for _, g := range s.Guideposts {
		if g.Status == StatusPending {
			out = append(out, g)
		}
	}
	return out
}

func indexOf(gps []Guidepost, id string) int {
	for i := range gps {
		if gps[i].ID == id {
			return i
		}
	}
	return -1
}
