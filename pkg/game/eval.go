package game

import "fmt"

// MoveEvaluation is an engine's analysis of the move it just made.
type MoveEvaluation struct {
	Depth          int
	ScoreCentipawn int
	TimeMs         int64
	PV             []string
}

// IsEmpty reports whether the evaluation carries no analysis, i.e. the
// move was forced (a book move, or otherwise not computed). Empty
// evaluations must not influence adjudicator counters.
func (e MoveEvaluation) IsEmpty() bool {
	return e.Depth <= 0
}

// Comment renders the evaluation as a PGN move comment in the form
// "[+-]S.SS/D Ts", or "" when the evaluation is empty.
func (e MoveEvaluation) Comment() string {
	if e.IsEmpty() {
		return ""
	}

	score := float64(e.ScoreCentipawn) / 100
	seconds := (e.TimeMs + 500) / 1000

	return fmt.Sprintf("%+.2f/%d %ds", score, e.Depth, seconds)
}
