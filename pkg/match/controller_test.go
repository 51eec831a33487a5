package match

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/laldon/cutechess/pkg/game"
)

// fakeBoard is a minimal game.Board that ends in a draw after exactly
// two plies, regardless of what was played, so a game under test
// terminates without a real rules engine.
type fakeBoard struct {
	side game.Color
	ply  int
}

func newFakeBoard() game.Board { return &fakeBoard{side: game.White} }

func (b *fakeBoard) Reset(string) error    { b.side = game.White; b.ply = 0; return nil }
func (b *fakeBoard) SideToMove() game.Color { return b.side }
func (b *fakeBoard) Key() uint64            { return uint64(b.ply) }
func (b *fakeBoard) FEN() string            { return b.DefaultFEN() }
func (b *fakeBoard) DefaultFEN() string {
	return "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
}
func (b *fakeBoard) IsRandomVariant() bool               { return false }
func (b *fakeBoard) MoveFromSAN(s string) (string, bool) { return s, true }
func (b *fakeBoard) IsLegal(string) bool                 { return true }
func (b *fakeBoard) SAN(move string) string              { return move }
func (b *fakeBoard) MakeMove(string) error {
	b.ply++
	b.side = b.side.Opposite()
	return nil
}
func (b *fakeBoard) Result() game.Result {
	if b.ply >= 2 {
		return game.DrawResult(game.Agreement, "agreed draw")
	}
	return game.NoneResult
}
func (b *fakeBoard) TablebaseResult() game.Result { return game.NoneResult }
func (b *fakeBoard) PlyCount() int                { return b.ply }

// colorScriptedPlayer always plays one fixed move for White and one for
// Black, regardless of which engine identity it is assigned to a given
// game, matching spec.md §8 scenario 1's setup.
type colorScriptedPlayer struct {
	name      string
	whiteMove string
	blackMove string
	board     game.Board
	events    chan game.Event

	bookMoves []string
	madeMoves []string
}

func newColorScriptedPlayer(name, whiteMove, blackMove string) *colorScriptedPlayer {
	return &colorScriptedPlayer{name: name, whiteMove: whiteMove, blackMove: blackMove, events: make(chan game.Event, 4)}
}

func (p *colorScriptedPlayer) Name() string              { return p.name }
func (p *colorScriptedPlayer) SetBoard(b game.Board)      { p.board = b }
func (p *colorScriptedPlayer) Events() <-chan game.Event { return p.events }
func (p *colorScriptedPlayer) IsReady() bool              { return true }

func (p *colorScriptedPlayer) Go() error {
	move := p.whiteMove
	if p.board.SideToMove() == game.Black {
		move = p.blackMove
	}
	p.events <- game.MoveMadeEvent{Move: move, Eval: game.MoveEvaluation{Depth: 10, ScoreCentipawn: 20}}
	return nil
}

func (p *colorScriptedPlayer) MakeBookMove(move string) error {
	p.bookMoves = append(p.bookMoves, move)
	return nil
}
func (p *colorScriptedPlayer) MakeMove(move string) error {
	p.madeMoves = append(p.madeMoves, move)
	return nil
}
func (p *colorScriptedPlayer) EndGame(game.Result) error { return nil }

func newTestController(t *testing.T, a, b *colorScriptedPlayer) *Controller {
	t.Helper()
	c := NewController(newFakeBoard)
	c.settleDelay = time.Millisecond
	require.NoError(t, c.AddEngine(EngineConfig{Name: a.name}))
	require.NoError(t, c.AddEngine(EngineConfig{Name: b.name}))
	c.players[0] = a
	c.players[1] = b
	c.SetEvent("Test Event")
	c.SetSite("Test Site")
	return c
}

func TestColorAlternationAcrossGames(t *testing.T) {
	a := newColorScriptedPlayer("A", "e2e4", "e7e5")
	b := newColorScriptedPlayer("B", "e2e4", "e7e5")

	c := newTestController(t, a, b)
	c.SetGameCount(4)

	summary, err := c.Start()
	require.NoError(t, err)
	require.Equal(t, 4, summary.GamesPlayed)

	for g := 0; g < 4; g++ {
		white, _ := c.whiteBlackIndex(g)
		if g%2 == 0 {
			require.Equal(t, 0, white, "game %d", g)
		} else {
			require.Equal(t, 1, white, "game %d", g)
		}
	}
}

func TestAggregateCountsDrawsAndWins(t *testing.T) {
	a := newColorScriptedPlayer("A", "e2e4", "e7e5")
	b := newColorScriptedPlayer("B", "e2e4", "e7e5")
	c := newTestController(t, a, b)
	c.SetGameCount(2)

	summary, err := c.Start()
	require.NoError(t, err)
	require.Equal(t, 2, summary.Draws)
	require.Equal(t, [2]int{0, 0}, summary.Wins)
}

func TestPgnOutputHasOneRecordPerGame(t *testing.T) {
	a := newColorScriptedPlayer("A", "e2e4", "e7e5")
	b := newColorScriptedPlayer("B", "e2e4", "e7e5")
	c := newTestController(t, a, b)
	c.SetGameCount(3)

	out := t.TempDir() + "/games.pgn"
	c.SetPgnOutput(out)

	_, err := c.Start()
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	count := 0
	for _, line := range splitLines(string(data)) {
		if len(line) > 8 && line[:8] == "[Event \"" {
			count++
		}
	}
	require.Equal(t, 3, count)
}

// sequenceBook is a fake game.OpeningBook that hands out moves[ply] for
// key==ply, matching fakeBoard's Key() (= ply count), and reports no
// move once the sequence is exhausted.
type sequenceBook struct {
	moves []string
}

func (s *sequenceBook) Move(key uint64) (game.BookMove, bool) {
	if int(key) < len(s.moves) {
		return game.BookMove{Move: s.moves[key]}, true
	}
	return game.BookMove{}, false
}

func TestRepeatOpeningPlaysSamePrefixWithSwappedColors(t *testing.T) {
	a := newColorScriptedPlayer("A", "e2e4", "e7e5")
	b := newColorScriptedPlayer("B", "e2e4", "e7e5")
	c := newTestController(t, a, b)
	c.SetGameCount(2)
	c.SetRepeatOpening(true)
	c.book = &sequenceBook{moves: []string{"d2d4", "d7d5"}}
	c.bookDepth = 2

	_, err := c.Start()
	require.NoError(t, err)

	// game 0: A is White and receives the book's first move on its own
	// behalf; game 1: colors swap, so B (now White) gets the same move
	// as a forced book move too.
	require.Contains(t, a.bookMoves, "d2d4")
	require.Contains(t, b.bookMoves, "d2d4")
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
