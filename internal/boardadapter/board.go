// Package boardadapter provides a game.Board implementation backed by
// laptudirm.com/x/mess, grounded on the teacher's ChessOracle
// (pkg/eve/match/games/chess.go) and HasChessGameEnded
// (pkg/tournament/games/chess.go). It is a thin external-collaborator
// driver, not a core module: game.Board is defined as an interface
// precisely so the conductor and match packages never depend on mess
// directly.
package boardadapter

import (
	"fmt"
	"strings"

	"laptudirm.com/x/mess/pkg/board"
	"laptudirm.com/x/mess/pkg/board/move"
	"laptudirm.com/x/mess/pkg/board/piece"
	"laptudirm.com/x/mess/pkg/formats/fen"

	"github.com/laldon/cutechess/pkg/game"
)

// Chess is a game.Board for the standard chess variant.
type Chess struct {
	board *board.Board
	moves []move.Move
}

// New builds an uninitialized Chess board; call Reset before use.
func New() *Chess {
	return &Chess{}
}

func (c *Chess) Reset(fenstr string) error {
	if fenstr == "" {
		fenstr = board.StartFEN.String()
	}
	c.board = board.New(board.FEN(fen.FromString(fenstr)))
	c.moves = c.board.GenerateMoves(false)
	return nil
}

func (c *Chess) SideToMove() game.Color {
	switch c.board.SideToMove {
	case piece.White:
		return game.White
	case piece.Black:
		return game.Black
	default:
		return game.NoColor
	}
}

func (c *Chess) Key() uint64 { return uint64(c.board.Hash) }

func (c *Chess) FEN() string {
	f := [6]string(c.board.FEN())
	return strings.Join(f[:], " ")
}

func (c *Chess) DefaultFEN() string { return board.StartFEN.String() }

func (c *Chess) IsRandomVariant() bool { return false }

// findByCoord resolves s against each legal move's coordinate form
// (e.g. "e2e4"), used for the generic-move surface (IsLegal, SAN,
// MakeMove).
func (c *Chess) findByCoord(s string) (move.Move, bool) {
	for _, m := range c.moves {
		if strings.EqualFold(m.String(), s) {
			return m, true
		}
	}
	return move.Null, false
}

// findBySAN resolves s against each legal move's rendered Standard
// Algebraic Notation, used to translate a PGN move token.
func (c *Chess) findBySAN(s string) (move.Move, bool) {
	for _, m := range c.moves {
		if sanForMove(c.board, c.moves, m) == s {
			return m, true
		}
	}
	return move.Null, false
}

func (c *Chess) MoveFromSAN(san string) (string, bool) {
	m, ok := c.findBySAN(san)
	if !ok {
		return "", false
	}
	return m.String(), true
}

func (c *Chess) IsLegal(mv string) bool {
	_, ok := c.findByCoord(mv)
	return ok
}

// SAN renders mv in the current position. mess exposes only a
// coordinate String() on move.Move; disambiguation against piece type,
// captures and check is computed here rather than relying on an unknown
// SAN facility in the external package.
func (c *Chess) SAN(mv string) string {
	m, ok := c.findByCoord(mv)
	if !ok {
		return mv
	}
	return sanForMove(c.board, c.moves, m)
}

func (c *Chess) MakeMove(mv string) error {
	m, ok := c.findByCoord(mv)
	if !ok {
		return fmt.Errorf("boardadapter: illegal move %q", mv)
	}
	c.board.MakeMove(m)
	c.moves = c.board.GenerateMoves(false)
	return nil
}

func (c *Chess) Result() game.Result {
	switch {
	case len(c.moves) == 0:
		if c.board.IsInCheck(c.board.SideToMove) {
			loser := c.SideToMove()
			return game.WinFor(game.Win, loser.Opposite(), "checkmate")
		}
		return game.DrawResult(game.Draw, "stalemate")
	case c.board.DrawClock >= 100:
		return game.DrawResult(game.Draw, "fifty-move rule")
	case c.board.IsThreefoldRepetition():
		return game.DrawResult(game.Draw, "threefold repetition")
	case c.board.IsInsufficientMaterial():
		return game.DrawResult(game.Draw, "insufficient material")
	default:
		return game.NoneResult
	}
}

// TablebaseResult always reports None: tablebase probing is out of
// scope for this adapter (see DESIGN.md).
func (c *Chess) TablebaseResult() game.Result { return game.NoneResult }

func (c *Chess) PlyCount() int { return c.board.Plys }
