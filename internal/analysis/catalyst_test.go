package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func triageState() CatalystState {
	return NewCatalystState([]Guidepost{
		{ID: "act1", Type: "Activism", Evidence: "Fund filed an SC 13D.", Link: "https://example.com/13d"},
		{ID: "ins1", Type: "Insider", Evidence: "Insider purchase reported."},
		{ID: "op1", Type: "Operational", Evidence: "Margin expansion if input costs normalize."},
	})
}

func TestNewCatalystStateForcesPending(t *testing.T) {
	t.Parallel()

	s := NewCatalystState([]Guidepost{{ID: "x", Status: StatusPromoted}})
	require.Equal(t, StatusPending, s.Guideposts[0].Status)
	require.Empty(t, s.Promoted)
}

func TestPromoteAppendsRoadmapEntry(t *testing.T) {
	t.Parallel()

	s := triageState()
	next, err := Promote(s, "act1")
	require.NoError(t, err)

	require.Equal(t, StatusPromoted, next.Guideposts[0].Status)
	require.Len(t, next.Promoted, 1)
	require.Equal(t, "act1", next.Promoted[0].ID)
	require.Equal(t, DefaultTimeline, next.Promoted[0].Timeline)

	// input state untouched
	require.Equal(t, StatusPending, s.Guideposts[0].Status)
	require.Empty(t, s.Promoted)
}

func TestPromoteTwiceKeepsSingleRoadmapEntry(t *testing.T) {
	t.Parallel()

	s := triageState()
	once, err := Promote(s, "ins1")
	require.NoError(t, err)

	twice, err := Promote(once, "ins1")
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Len(t, twice.Promoted, 1)
	require.Equal(t, StatusPromoted, twice.Guideposts[1].Status)
}

func TestPromoteUnknownID(t *testing.T) {
	t.Parallel()

	s := triageState()
	next, err := Promote(s, "nope")
	require.ErrorIs(t, err, ErrGuidepostNotFound)
	require.Equal(t, s, next)
}

func TestDismissNeverTouchesRoadmap(t *testing.T) {
	t.Parallel()

	s := triageState()
	next, err := Dismiss(s, "op1")
	require.NoError(t, err)
	require.Equal(t, StatusDismissed, next.Guideposts[2].Status)
	require.Empty(t, next.Promoted)

	// dismissal is terminal
	_, err = Dismiss(next, "op1")
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = Promote(next, "op1")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPendingProjection(t *testing.T) {
	t.Parallel()

	s := triageState()
	s, err := Promote(s, "act1")
	require.NoError(t, err)
	s, err = Dismiss(s, "ins1")
	require.NoError(t, err)

	pending := Pending(s)
	require.Len(t, pending, 1)
	require.Equal(t, "op1", pending[0].ID)

	// provider order preserved in the owning slice
	require.Equal(t, []string{"act1", "ins1", "op1"}, []string{
		s.Guideposts[0].ID, s.Guideposts[1].ID, s.Guideposts[2].ID,
	})
}
