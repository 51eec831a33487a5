// Package adjudicator implements a stateful fold over a game's
// evaluation stream that can decide a draw or a resignation from score
// history alone, without ever mutating the board. It is grounded on
// GameAdjudicator from the original implementation
// (projects/lib/src/gameadjudicator.cpp).
package adjudicator

import (
	"github.com/laldon/cutechess/pkg/game"
)

// Adjudicator observes moves and their evaluations and may, at some
// point, decide a Result on its own. The Game Conductor polls Result
// after applying each move; the Adjudicator never mutates the Board.
type Adjudicator struct {
	drawMoveNumber int
	drawMoveCount  int
	drawScore      int
	drawScoreCount int

	resignMoveCount  int
	resignScore      int
	resignScoreCount [2]int

	tablebaseEnabled bool

	result game.Result
}

// New builds an Adjudicator with no active rules; SetDrawThreshold,
// SetResignThreshold and SetTablebaseAdjudication configure it.
func New() *Adjudicator {
	return &Adjudicator{result: game.NoneResult}
}

// SetDrawThreshold configures the TCEC draw rule: once the full move
// count reaches moveNumber and both sides have reported |score| <= score
// for moveCount consecutive own moves each (2*moveCount consecutive
// half-moves total), the position is adjudicated a draw.
func (a *Adjudicator) SetDrawThreshold(moveNumber, moveCount, score int) {
	a.drawMoveNumber = moveNumber
	a.drawMoveCount = moveCount
	a.drawScore = score
	a.drawScoreCount = 0
}

// SetResignThreshold configures the TCEC win rule: once a side reports
// score <= score for moveCount consecutive own moves, its opponent is
// adjudicated the winner.
func (a *Adjudicator) SetResignThreshold(moveCount, score int) {
	a.resignMoveCount = moveCount
	a.resignScore = score
	a.resignScoreCount[0] = 0
	a.resignScoreCount[1] = 0
}

// SetTablebaseAdjudication enables or disables tablebase-derived results.
func (a *Adjudicator) SetTablebaseAdjudication(enable bool) {
	a.tablebaseEnabled = enable
}

// AddEval folds one move's evaluation into the adjudicator's counters.
// mover is the side that made the move being evaluated; board is
// consulted for the ply count and, if tablebase adjudication is
// enabled, for a tablebase result.
func (a *Adjudicator) AddEval(board game.Board, mover game.Color, eval game.MoveEvaluation) {
	if a.tablebaseEnabled {
		if tb := board.TablebaseResult(); !tb.IsNone() {
			a.result = tb
			return
		}
	}

	// Moves forced by the opening source or the user carry no
	// analysis and must not count as evidence for either rule.
	if eval.IsEmpty() {
		a.drawScoreCount = 0
		a.resignScoreCount[mover] = 0
		return
	}

	if a.drawMoveNumber > 0 {
		if abs(eval.ScoreCentipawn) <= a.drawScore {
			a.drawScoreCount++
		} else {
			a.drawScoreCount = 0
		}

		if board.PlyCount()/2 >= a.drawMoveNumber && a.drawScoreCount >= a.drawMoveCount*2 {
			a.result = game.DrawResult(game.Adjudication, "TCEC draw rule")
			return
		}
	}

	if a.resignMoveCount > 0 {
		if eval.ScoreCentipawn <= a.resignScore {
			a.resignScoreCount[mover]++
		} else {
			a.resignScoreCount[mover] = 0
		}

		if a.resignScoreCount[mover] >= a.resignMoveCount {
			a.result = game.WinFor(game.Adjudication, mover.Opposite(), "TCEC win rule")
		}
	}
}

// ResetDrawMoveCount zeroes the running draw-rule counter without
// touching the resign-rule counters.
func (a *Adjudicator) ResetDrawMoveCount() {
	a.drawScoreCount = 0
}

// Result returns the adjudicator's current verdict, or a None result if
// it hasn't decided anything yet.
func (a *Adjudicator) Result() game.Result {
	return a.result
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
