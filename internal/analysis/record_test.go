package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScoreClamping(t *testing.T) {
	t.Parallel()

	var s PillarScores
	s.Set(PillarQuality, 9)
	require.Equal(t, 5, s.Get(PillarQuality))

	s.Set(PillarQuality, -3)
	require.Equal(t, 0, s.Get(PillarQuality))

	s.Set(PillarValuation, 4)
	s.Set(PillarValuation, 2) // last write wins
	require.Equal(t, 2, s.Get(PillarValuation))

	s.Set(PillarContrarian, 5)
	s.Set(PillarCatalyst, 1)
	require.Equal(t, 8, s.Total())
}

func TestNotesLastWriteWins(t *testing.T) {
	t.Parallel()

	var n PillarNotes
	n.Set(PillarCatalyst, "watch the proxy fight")
	n.Set(PillarCatalyst, "13D amended, stake raised")
	require.Equal(t, "13D amended, stake raised", n.Get(PillarCatalyst))
	require.Empty(t, n.Get(PillarQuality))
}

func TestNewRecordSeedsWorkflow(t *testing.T) {
	t.Parallel()

	p := Payload{
		Ticker:      "AAPL",
		CompanyName: "Apple Inc.",
		Pillars: PillarPayloads{
			Catalysts: Catalysts{Guideposts: []Guidepost{
				{ID: "1", Type: "Operational", Evidence: "buybacks"},
			}},
		},
	}
	r := NewRecord(p)
	require.Equal(t, p, r.APIData)
	require.Len(t, r.CatalystState.Guideposts, 1)
	require.Equal(t, StatusPending, r.CatalystState.Guideposts[0].Status)
	require.Zero(t, r.Scores.Total())
}
