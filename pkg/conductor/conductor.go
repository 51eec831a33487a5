// Package conductor implements the Game Conductor: a turn-by-turn state
// machine that mediates between two Player endpoints, a Board, and an
// optional Adjudicator, enforcing move legality, readiness
// synchronization and orderly termination.
package conductor

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/laldon/cutechess/pkg/adjudicator"
	"github.com/laldon/cutechess/pkg/game"
)

// Game mediates one game of chess between two Players over a shared
// Board, following the Created -> Armed -> Syncing -> Playing -> Ending
// -> Ended protocol.
type Game struct {
	board   game.Board
	players [2]game.Player

	fenOverride  string
	openingMoves []string
	book         game.OpeningBook
	bookMaxPlies int

	adjudicator *adjudicator.Adjudicator

	tags map[string]string

	moves        []game.MoveData
	startingSide game.Color
	startingFEN  string

	forcedMoves []string

	state   gameState
	ended   bool
	result  game.Result
	events  chan taggedEvent
	ready   [2]bool
}

type taggedEvent struct {
	color game.Color
	event game.Event
}

// New builds a Game over board. The board is reset to its variant's
// default starting position immediately, so that FEN() is always
// well-defined even before SetFen/Start are called.
func New(board game.Board) *Game {
	g := &Game{board: board, tags: map[string]string{}, result: game.NoneResult}
	_ = board.Reset("")
	return g
}

// Board returns the shared board.
func (g *Game) Board() game.Board { return g.board }

// Tags returns the game's mutable tag map (Event, Site, White, Black, ...
// are conventionally set here by the Match Controller before Start).
func (g *Game) Tags() map[string]string { return g.tags }

// SetTag sets a tag on the game.
func (g *Game) SetTag(key, value string) { g.tags[key] = value }

// Moves returns the moves played so far, including forced opening moves.
func (g *Game) Moves() []game.MoveData { return g.moves }

// StartingFEN returns the position the game was started from.
func (g *Game) StartingFEN() string { return g.startingFEN }

// StartingSide returns the side to move in the starting position.
func (g *Game) StartingSide() game.Color { return g.startingSide }

// Result returns the game's result, or a None result while still ongoing.
func (g *Game) Result() game.Result { return g.result }

// SetAdjudicator installs an Adjudicator that is fed every evaluated move
// and polled for a verdict after each board update.
func (g *Game) SetAdjudicator(a *adjudicator.Adjudicator) { g.adjudicator = a }

// SetPlayer binds a Player to side. Must be done before Start.
func (g *Game) SetPlayer(side game.Color, p game.Player) {
	g.players[side] = p
	if g.players[game.White] != nil && g.players[game.Black] != nil && g.state == stateCreated {
		g.state = stateArmed
	}
}

// SetFen overrides the starting position. It is validated against the
// board's variant when Start is called.
func (g *Game) SetFen(fen string) { g.fenOverride = fen }

// SetOpeningBook configures an opening book to probe for up to maxPlies
// forced moves when Start is called.
func (g *Game) SetOpeningBook(book game.OpeningBook, maxPlies int) {
	g.book = book
	g.bookMaxPlies = maxPlies
	g.openingMoves = nil
}

// SetOpeningMoves injects an exact forced move prefix, overriding any
// opening book.
func (g *Game) SetOpeningMoves(moves []string) {
	g.openingMoves = moves
	g.book = nil
}

var errPlayersNotSet = errors.New("conductor: both players must be set before start")

// Start transitions the game from Armed through Syncing, Playing and
// Ending, blocking until the game has fully ended (including the
// post-termination readiness handshake), and returns the final result.
func (g *Game) Start() (game.Result, error) {
	if g.state != stateArmed {
		return game.NoneResult, errPlayersNotSet
	}

	fen := g.fenOverride
	if fen == "" {
		fen = g.board.DefaultFEN()
	}
	if err := g.board.Reset(fen); err != nil {
		return game.NoneResult, fmt.Errorf("conductor: invalid starting fen %q: %w", fen, err)
	}
	g.startingSide = g.board.SideToMove()
	g.startingFEN = fen

	forced, err := g.resolveForcedMoves(fen)
	if err != nil {
		return game.NoneResult, err
	}
	g.forcedMoves = forced

	g.players[game.White].SetBoard(g.board)
	g.players[game.Black].SetBoard(g.board)

	g.state = stateSyncing
	g.pollReady()

	for g.state != stateEnded {
		select {
		case ev := <-g.players[game.White].Events():
			g.handle(taggedEvent{color: game.White, event: ev})
		case ev := <-g.players[game.Black].Events():
			g.handle(taggedEvent{color: game.Black, event: ev})
		}
	}

	return g.result, nil
}

// resolveForcedMoves builds the forced opening-move queue: an explicit
// prefix takes priority over a configured book, which is probed from fen
// until illegality, an immediate cycle, or bookMaxPlies moves.
func (g *Game) resolveForcedMoves(fen string) ([]string, error) {
	if len(g.openingMoves) > 0 {
		return append([]string(nil), g.openingMoves...), nil
	}
	if g.book == nil {
		return nil, nil
	}

	var moves []string
	lastMove := ""
	for i := 0; i < g.bookMaxPlies; i++ {
		bm, ok := g.book.Move(g.board.Key())
		if !ok || bm.Move == lastMove || !g.board.IsLegal(bm.Move) {
			break
		}
		moves = append(moves, bm.Move)
		if err := g.board.MakeMove(bm.Move); err != nil {
			break
		}
		lastMove = bm.Move
	}

	if err := g.board.Reset(fen); err != nil {
		return nil, fmt.Errorf("conductor: failed to rewind after book probing: %w", err)
	}
	return moves, nil
}

func (g *Game) forward(color game.Color) {
	for ev := range g.players[color].Events() {
		g.events <- taggedEvent{color: color, event: ev}
	}
}

func (g *Game) handle(ev taggedEvent) {
	switch e := ev.event.(type) {
	case game.ReadyEvent:
		g.ready[ev.color] = true
		g.pollReady()
	case game.MoveMadeEvent:
		g.onMoveMade(ev.color, e)
	case game.ForfeitEvent:
		g.onForfeit(ev.color, e)
	}
}

// pollReady advances the state machine out of Syncing or Ending once
// both players have independently confirmed readiness. It is safe to
// call repeatedly; a spurious confirmation during a both-poll span is
// simply absorbed.
func (g *Game) pollReady() {
	for _, c := range [2]game.Color{game.White, game.Black} {
		if !g.ready[c] && g.players[c].IsReady() {
			g.ready[c] = true
		}
	}
	if !g.ready[game.White] || !g.ready[game.Black] {
		return
	}

	switch g.state {
	case stateSyncing:
		g.state = statePlaying
		g.beginPlaying()
	case stateEnding:
		g.state = stateEnded
	}
}

func (g *Game) beginPlaying() {
	g.dispatchNext()
}

// dispatchNext plays the next forced opening move, or asks the
// side to move to compute one, once the forced prefix is exhausted.
func (g *Game) dispatchNext() {
	if len(g.forcedMoves) == 0 {
		_ = g.players[g.board.SideToMove()].Go()
		return
	}

	move := g.forcedMoves[0]
	g.forcedMoves = g.forcedMoves[1:]

	maker := g.board.SideToMove()
	waiter := maker.Opposite()
	san := g.board.SAN(move)

	g.moves = append(g.moves, game.MoveData{
		KeyBefore: g.board.Key(),
		Generic:   move,
		SAN:       san,
		Comment:   "book",
	})

	_ = g.players[maker].MakeBookMove(move)
	_ = g.players[waiter].MakeMove(move)

	if err := g.board.MakeMove(move); err != nil {
		logrus.Errorf("conductor: forced move %q rejected by board: %v", move, err)
		return
	}

	if res := g.board.Result(); !res.IsNone() {
		g.setResult(res)
		g.enterEnding()
		return
	}

	g.dispatchNext()
}

func (g *Game) onMoveMade(color game.Color, ev game.MoveMadeEvent) {
	if g.state != statePlaying {
		return
	}

	expected := g.board.SideToMove()
	if color != expected {
		logrus.Debugf("conductor: ignoring move from %s, %s is to move", color, expected)
		return
	}

	if !g.board.IsLegal(ev.Move) {
		g.setResult(game.WinFor(game.IllegalMove, expected.Opposite(),
			fmt.Sprintf("illegal move: %s", ev.Move)))
		g.enterEnding()
		return
	}

	g.moves = append(g.moves, game.MoveData{
		KeyBefore: g.board.Key(),
		Generic:   ev.Move,
		SAN:       g.board.SAN(ev.Move),
		Comment:   ev.Eval.Comment(),
	})

	if err := g.board.MakeMove(ev.Move); err != nil {
		logrus.Errorf("conductor: move %q rejected by board: %v", ev.Move, err)
		return
	}

	waiter := expected.Opposite()
	_ = g.players[waiter].MakeMove(ev.Move)

	result := g.board.Result()
	if result.IsNone() && g.adjudicator != nil {
		g.adjudicator.AddEval(g.board, expected, ev.Eval)
		result = g.adjudicator.Result()
	}

	if !result.IsNone() {
		g.setResult(result)
		g.enterEnding()
		return
	}

	g.dispatchNext()
}

func (g *Game) onForfeit(color game.Color, ev game.ForfeitEvent) {
	if g.state != statePlaying {
		return
	}
	g.setResult(ev.Result)
	g.enterEnding()
}

func (g *Game) setResult(r game.Result) {
	g.result = r
}

// enterEnding is idempotent: a forfeit or move arriving after the game
// has already begun ending is a silent no-op.
func (g *Game) enterEnding() {
	if g.ended {
		return
	}
	g.ended = true

	g.state = stateEnding
	_ = g.players[game.White].EndGame(g.result)
	_ = g.players[game.Black].EndGame(g.result)

	g.ready = [2]bool{}
	g.pollReady()
}
