package game

// ResultType enumerates the kinds of outcome a game can end with. It
// mirrors Chess::Result::Type from the source implementation.
type ResultType uint8

const (
	None ResultType = iota
	Win
	Draw
	Adjudication
	Timeout
	Disconnection
	StalledConnection
	IllegalMove
	Resignation
	Agreement
	NoResult
	ResultError
)

func (t ResultType) String() string {
	switch t {
	case None:
		return "none"
	case Win:
		return "win"
	case Draw:
		return "draw"
	case Adjudication:
		return "adjudication"
	case Timeout:
		return "timeout"
	case Disconnection:
		return "disconnection"
	case StalledConnection:
		return "stalled connection"
	case IllegalMove:
		return "illegal move"
	case Resignation:
		return "resignation"
	case Agreement:
		return "agreement"
	case NoResult:
		return "no result"
	case ResultError:
		return "result error"
	default:
		return "unknown"
	}
}

// hasWinner is the set of result types for which Result.Winner is
// meaningful, per the Result invariant in the data model.
var hasWinner = map[ResultType]bool{
	Win:               true,
	Adjudication:      true,
	Timeout:           true,
	Disconnection:     true,
	StalledConnection: true,
	IllegalMove:       true,
	Resignation:       true,
}

// terminationTag maps a ResultType to the PGN Termination tag value,
// mirroring PgnGame::setResult's switch (pgngame.cpp): only
// Adjudication, Timeout, Disconnection and NoResult set a value. Every
// other type (Win, Draw, Resignation, Agreement, IllegalMove,
// StalledConnection, ResultError, None) leaves the tag unset.
var terminationTag = map[ResultType]string{
	Adjudication:  "adjudication",
	Timeout:       "time forfeit",
	Disconnection: "abandoned",
	NoResult:      "unterminated",
}

// Result is a tagged value describing how a game ended.
type Result struct {
	Type        ResultType
	Winner      Color // valid only when hasWinner[Type]; NoColor otherwise
	Description string
}

// NoneResult is the zero value: no result has been reached yet.
var NoneResult = Result{Type: None, Winner: NoColor}

// IsNone reports whether the game hasn't ended.
func (r Result) IsNone() bool {
	return r.Type == None
}

// HasWinner reports whether Winner is meaningful for this result.
func (r Result) HasWinner() bool {
	return hasWinner[r.Type]
}

// Termination returns the PGN Termination tag value for this result, or
// "" if the type does not populate the tag.
func (r Result) Termination() string {
	return terminationTag[r.Type]
}

// IsDraw reports whether the result is a drawn game: a natural Draw, an
// Agreement (the two engines agreed to a draw), or an Adjudication that
// awards no winner (such as the TCEC draw rule). Agreement never
// populates Winner, per the Result invariant, so it is draw-equivalent
// for scoring and PGN rendering.
func (r Result) IsDraw() bool {
	return r.Type == Draw || r.Type == Agreement ||
		(r.Type == Adjudication && r.Winner == NoColor)
}

// PGN renders the result as a PGN termination marker: "1-0", "0-1",
// "1/2-1/2" or "*".
func (r Result) PGN() string {
	switch {
	case r.IsDraw():
		return "1/2-1/2"
	case r.HasWinner() && r.Winner == White:
		return "1-0"
	case r.HasWinner() && r.Winner == Black:
		return "0-1"
	default:
		return "*"
	}
}

// WinFor builds a Result of the given type awarding the win to winner.
func WinFor(t ResultType, winner Color, description string) Result {
	return Result{Type: t, Winner: winner, Description: description}
}

// DrawResult builds a drawn Result.
func DrawResult(t ResultType, description string) Result {
	return Result{Type: t, Winner: NoColor, Description: description}
}
