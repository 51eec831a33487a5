package adjudicator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laldon/cutechess/pkg/game"
)

type fakeBoard struct {
	ply int
	tb  game.Result
}

func (b *fakeBoard) Reset(string) error                        { return nil }
func (b *fakeBoard) SideToMove() game.Color                    { return game.White }
func (b *fakeBoard) Key() uint64                                { return 0 }
func (b *fakeBoard) FEN() string                                { return "" }
func (b *fakeBoard) DefaultFEN() string                         { return "" }
func (b *fakeBoard) IsRandomVariant() bool                      { return false }
func (b *fakeBoard) MoveFromSAN(string) (string, bool)          { return "", false }
func (b *fakeBoard) IsLegal(string) bool                        { return false }
func (b *fakeBoard) SAN(string) string                          { return "" }
func (b *fakeBoard) MakeMove(string) error                      { return nil }
func (b *fakeBoard) Result() game.Result                        { return game.NoneResult }
func (b *fakeBoard) TablebaseResult() game.Result                { return b.tb }
func (b *fakeBoard) PlyCount() int                              { return b.ply }

func TestDrawRule(t *testing.T) {
	a := New()
	a.SetDrawThreshold(40, 5, 10)

	board := &fakeBoard{ply: 80}

	for i := 0; i < 9; i++ {
		side := game.White
		if i%2 == 1 {
			side = game.Black
		}
		a.AddEval(board, side, game.MoveEvaluation{Depth: 10, ScoreCentipawn: 5})
		require.True(t, a.Result().IsNone())
	}

	a.AddEval(board, game.Black, game.MoveEvaluation{Depth: 10, ScoreCentipawn: 5})
	result := a.Result()
	require.Equal(t, game.Adjudication, result.Type)
	require.Equal(t, game.NoColor, result.Winner)
	require.Equal(t, "TCEC draw rule", result.Description)
}

func TestDrawRuleResetsOnLargeScore(t *testing.T) {
	a := New()
	a.SetDrawThreshold(40, 5, 10)
	board := &fakeBoard{ply: 80}

	for i := 0; i < 9; i++ {
		a.AddEval(board, game.White, game.MoveEvaluation{Depth: 10, ScoreCentipawn: 5})
	}
	a.AddEval(board, game.White, game.MoveEvaluation{Depth: 10, ScoreCentipawn: 500})
	a.AddEval(board, game.Black, game.MoveEvaluation{Depth: 10, ScoreCentipawn: 5})
	require.True(t, a.Result().IsNone())
}

func TestResignRule(t *testing.T) {
	a := New()
	a.SetResignThreshold(3, -500)
	board := &fakeBoard{}

	for i := 0; i < 2; i++ {
		a.AddEval(board, game.White, game.MoveEvaluation{Depth: 10, ScoreCentipawn: -600})
		require.True(t, a.Result().IsNone())
	}
	a.AddEval(board, game.White, game.MoveEvaluation{Depth: 10, ScoreCentipawn: -600})

	result := a.Result()
	require.Equal(t, game.Adjudication, result.Type)
	require.Equal(t, game.Black, result.Winner)
}

func TestEmptyEvalResetsCountersButNeverDecides(t *testing.T) {
	a := New()
	a.SetResignThreshold(1, -500)
	a.SetDrawThreshold(1, 1, 10)
	board := &fakeBoard{ply: 2}

	a.AddEval(board, game.White, game.MoveEvaluation{Depth: 0})
	require.True(t, a.Result().IsNone())
}

func TestTablebaseShortCircuitsHeuristics(t *testing.T) {
	a := New()
	a.SetTablebaseAdjudication(true)
	a.SetResignThreshold(1, 0)

	board := &fakeBoard{tb: game.DrawResult(game.Draw, "tablebase draw")}
	a.AddEval(board, game.White, game.MoveEvaluation{Depth: 20, ScoreCentipawn: 0})

	result := a.Result()
	require.Equal(t, game.Draw, result.Type)
	require.Equal(t, "tablebase draw", result.Description)
}
