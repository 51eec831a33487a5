package pgn

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/laldon/cutechess/pkg/game"
)

// ErrNoGame is returned by ReadGame when the stream has no further game.
var ErrNoGame = errors.New("pgn: no game")

// BoardFactory constructs a fresh Board for the given variant identifier
// ("standard" by default).
type BoardFactory func(variant string) (game.Board, error)

// Reader reads successive games off a PGN text stream.
type Reader struct {
	scan    *scanner
	newBoard BoardFactory
	variant  string
}

// NewReader builds a Reader over r. variant, if non-empty, is the variant
// the caller expects; a non-"standard" Variant tag that disagrees with it
// is a read error. newBoard constructs a fresh Board per game.
func NewReader(r io.Reader, variant string, newBoard BoardFactory) *Reader {
	return &Reader{scan: newScanner(r), newBoard: newBoard, variant: variant}
}

// ReadGame reads the next game from the stream. maxMoves, if > 0, caps
// the number of moves read; the read stops immediately once the cap is
// reached without consuming the result token, so the returned game has
// no Result tag unless the header already carried one.
func (r *Reader) ReadGame(maxMoves int) (*Game, error) {
	g := &Game{Tags: map[string]string{}}

	var board game.Board
	seenAnyToken := false

	for {
		tok, err := r.scan.next()
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case TokEOF:
			if !seenAnyToken {
				return nil, ErrNoGame
			}
			return r.finish(g)

		case TokTag:
			seenAnyToken = true
			g.Tags[tok.Key] = tok.Value

		case TokMove:
			seenAnyToken = true
			if board == nil {
				b, err := r.startBoard(g)
				if err != nil {
					return nil, fmt.Errorf("pgn: line %d: %w", tok.Line, err)
				}
				board = b
			}

			move, ok := board.MoveFromSAN(tok.Text)
			if !ok {
				return nil, fmt.Errorf("pgn: line %d: illegal move %q", tok.Line, tok.Text)
			}

			g.Moves = append(g.Moves, game.MoveData{
				KeyBefore: board.Key(),
				Generic:   move,
				SAN:       tok.Text,
			})
			if err := board.MakeMove(move); err != nil {
				return nil, fmt.Errorf("pgn: line %d: %w", tok.Line, err)
			}

			if maxMoves > 0 && len(g.Moves) >= maxMoves {
				return g, nil
			}

		case TokComment:
			seenAnyToken = true
			if n := len(g.Moves); n > 0 {
				g.Moves[n-1].Comment += tok.Text
			}

		case TokResult:
			seenAnyToken = true
			if existing := g.Tags["Result"]; existing != "" && existing != tok.Text {
				logrus.Warnf("pgn: line %d: termination marker %q disagrees with Result tag %q", tok.Line, tok.Text, existing)
			}
			g.Tags["Result"] = tok.Text
			return r.finish(g)

		case TokNAG:
			seenAnyToken = true
			n, err := strconv.Atoi(tok.Text)
			if err != nil || n < 0 || n > 255 {
				logrus.Warnf("pgn: line %d: invalid NAG %q", tok.Line, tok.Text)
			}
		}
	}
}

func (r *Reader) startBoard(g *Game) (game.Board, error) {
	variant := g.Tags[TagVariant]
	if variant == "" {
		variant = "standard"
	}
	if r.variant != "" && variant != "standard" && variant != r.variant {
		return nil, fmt.Errorf("variant %q disagrees with expected variant %q", variant, r.variant)
	}
	if variant == "standard" && r.variant != "" {
		variant = r.variant
	}

	board, err := r.newBoard(variant)
	if err != nil {
		return nil, fmt.Errorf("unsupported variant %q: %w", variant, err)
	}

	fen := g.Tags[TagFEN]
	if fen == "" {
		if board.IsRandomVariant() {
			return nil, errors.New("missing FEN tag for random variant")
		}
		fen = board.DefaultFEN()
	}

	if err := board.Reset(fen); err != nil {
		return nil, fmt.Errorf("invalid FEN %q: %w", fen, err)
	}

	g.StartingSide = board.SideToMove()
	g.StartingFEN = fen
	return board, nil
}

func (r *Reader) finish(g *Game) (*Game, error) {
	if len(g.Tags) == 0 {
		return nil, errors.New("pgn: game has no tags")
	}
	g.Tags[TagPlyCount] = strconv.Itoa(len(g.Moves))
	return g, nil
}
