package pipeline

import "time"

// Score and weight bounds enforced on every stored dimension score.
const (
	ScoreMin  = 1
	ScoreMax  = 10
	WeightMin = 1
	WeightMax = 5
)

// ProspectScore is one dimension score for a prospect. At most one
// score exists per (prospect, dimension) pair; re-imports never
// overwrite an existing score.
type ProspectScore struct {
	ID         string `json:"id"`
	ProspectID string `json:"prospect_id"`

	Dimension Dimension `json:"dimension"`
	Score     int       `json:"score"`
	Weight    int       `json:"weight"`
	Notes     string    `json:"notes,omitempty"`

	ScoredAt time.Time `json:"scored_at"`
	ScoredBy string    `json:"scored_by,omitempty"`
}

// ClampScore clamps a raw score value into [ScoreMin, ScoreMax].
func ClampScore(v int) int {
	if v < ScoreMin {
		return ScoreMin
	}
	if v > ScoreMax {
		return ScoreMax
	}
	return v
}

// ClampWeight clamps a raw weight value into [WeightMin, WeightMax].
func ClampWeight(v int) int {
	if v < WeightMin {
		return WeightMin
	}
	if v > WeightMax {
		return WeightMax
	}
	return v
}
