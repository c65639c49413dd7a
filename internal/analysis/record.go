package analysis

// Pillar names one of the four fixed analysis dimensions.
type Pillar string

const (
	PillarQuality    Pillar = "quality"
	PillarContrarian Pillar = "contrarian"
	PillarValuation  Pillar = "valuation"
	PillarCatalyst   Pillar = "catalyst"
)

// AllPillars lists the pillars in workflow order.
func AllPillars() []Pillar {
	return []Pillar{PillarQuality, PillarContrarian, PillarValuation, PillarCatalyst}
}

// PillarScores holds one 0..5 conviction score per pillar. Zero means
// unscored.
type PillarScores struct {
	Quality    int `json:"quality"`
	Contrarian int `json:"contrarian"`
	Valuation  int `json:"valuation"`
	Catalyst   int `json:"catalyst"`
}

// PillarNotes holds free-text notes per pillar.
type PillarNotes struct {
	Quality    string `json:"quality"`
	Contrarian string `json:"contrarian"`
	Valuation  string `json:"valuation"`
	Catalyst   string `json:"catalyst"`
}

// Set stores a score, clamped to [0,5]. Last write wins.
func (s *PillarScores) Set(p Pillar, score int) {
	if score < 0 {
		score = 0
	}
	if score > 5 {
		score = 5
	}
	switch p {
	case PillarQuality:
		s.Quality = score
	case PillarContrarian:
		s.Contrarian = score
	case PillarValuation:
		s.Valuation = score
	case PillarCatalyst:
		s.Catalyst = score
	}
}

// Get returns the score for a pillar.
func (s PillarScores) Get(p Pillar) int {
	switch p {
	case PillarQuality:
		return s.Quality
	case PillarContrarian:
		return s.Contrarian
	case PillarValuation:
		return s.Valuation
	case PillarCatalyst:
		return s.Catalyst
	}
	return 0
}

// Total sums the four scores (max 20).
func (s PillarScores) Total() int {
	return s.Quality + s.Contrarian + s.Valuation + s.Catalyst
}

// Set stores a note. Last write wins.
func (n *PillarNotes) Set(p Pillar, note string) {
	switch p {
	case PillarQuality:
		n.Quality = note
	case PillarContrarian:
		n.Contrarian = note
	case PillarValuation:
		n.Valuation = note
	case PillarCatalyst:
		n.Catalyst = note
	}
}

// Get returns the note for a pillar.
func (n PillarNotes) Get(p Pillar) string {
	switch p {
	case PillarQuality:
		return n.Quality
	case PillarContrarian:
		return n.Contrarian
	case PillarValuation:
		return n.Valuation
	case PillarCatalyst:
		return n.Catalyst
	}
	return ""
}

// Record is the persisted unit of work for one ticker. It is created by an
// explicit save and overwritten wholesale on subsequent saves; it is never
// partially updated.
type Record struct {
	APIData       Payload       `json:"apiData"`
	Scores        PillarScores  `json:"scores"`
	Notes         PillarNotes   `json:"notes"`
	CatalystState CatalystState `json:"catalystState"`
}

// NewRecord builds a fresh record around a fetched payload, seeding the
// catalyst workflow from the payload's guidepost candidates.
func NewRecord(p Payload) Record {
	return Record{
		APIData:       p,
		CatalystState: NewCatalystState(p.Pillars.Catalysts.Guideposts),
	}
}
