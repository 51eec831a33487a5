package conductor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laldon/cutechess/pkg/game"
)

// fakeBoard is a minimal legal-move-free board: every move is legal,
// SAN is the move itself, and the game never ends on its own. It tracks
// applied moves so tests can assert on the final position.
type fakeBoard struct {
	side       game.Color
	ply        int
	applied    []string
	result     game.Result
	resultPly  int // once ply reaches this, Result() reports `result`
	illegal    map[string]bool
}

func newFakeBoard() *fakeBoard {
	return &fakeBoard{side: game.White, result: game.NoneResult, illegal: map[string]bool{}}
}

func (b *fakeBoard) Reset(string) error { b.side = game.White; b.ply = 0; b.applied = nil; return nil }
func (b *fakeBoard) SideToMove() game.Color              { return b.side }
func (b *fakeBoard) Key() uint64                         { return uint64(b.ply) }
func (b *fakeBoard) FEN() string                         { return "fake" }
func (b *fakeBoard) DefaultFEN() string                  { return "fake-default" }
func (b *fakeBoard) IsRandomVariant() bool               { return false }
func (b *fakeBoard) MoveFromSAN(s string) (string, bool) { return s, true }
func (b *fakeBoard) IsLegal(move string) bool            { return !b.illegal[move] }
func (b *fakeBoard) SAN(move string) string              { return move }

func (b *fakeBoard) MakeMove(move string) error {
	b.applied = append(b.applied, move)
	b.ply++
	b.side = b.side.Opposite()
	return nil
}

func (b *fakeBoard) Result() game.Result {
	if b.resultPly > 0 && b.ply >= b.resultPly {
		return b.result
	}
	return game.NoneResult
}

func (b *fakeBoard) TablebaseResult() game.Result { return game.NoneResult }
func (b *fakeBoard) PlyCount() int                { return b.ply }

// fakePlayer is a scripted Player: test code pushes moves onto its
// queue and calls drive to have it emit them in response to Go.
type fakePlayer struct {
	name      string
	events    chan game.Event
	ready     bool
	board     game.Board
	queue     []string
	goCount   int
	madeMoves []string
	bookMoves []string
	ended     *game.Result
}

func newFakePlayer(name string) *fakePlayer {
	return &fakePlayer{name: name, events: make(chan game.Event, 8), ready: true}
}

func (p *fakePlayer) Name() string              { return p.name }
func (p *fakePlayer) SetBoard(b game.Board)      { p.board = b }
func (p *fakePlayer) Events() <-chan game.Event { return p.events }
func (p *fakePlayer) IsReady() bool              { return p.ready }

func (p *fakePlayer) Go() error {
	p.goCount++
	if len(p.queue) == 0 {
		return nil
	}
	move := p.queue[0]
	p.queue = p.queue[1:]
	p.events <- game.MoveMadeEvent{Move: move, Eval: game.MoveEvaluation{Depth: 12, ScoreCentipawn: 10}}
	return nil
}

func (p *fakePlayer) MakeBookMove(move string) error {
	p.bookMoves = append(p.bookMoves, move)
	return nil
}

func (p *fakePlayer) MakeMove(move string) error {
	p.madeMoves = append(p.madeMoves, move)
	return nil
}

func (p *fakePlayer) EndGame(result game.Result) error {
	r := result
	p.ended = &r
	return nil
}

func setupGame(t *testing.T) (*Game, *fakeBoard, *fakePlayer, *fakePlayer) {
	t.Helper()
	board := newFakeBoard()
	white := newFakePlayer("white")
	black := newFakePlayer("black")
	g := New(board)
	g.SetPlayer(game.White, white)
	g.SetPlayer(game.Black, black)
	return g, board, white, black
}

func TestNormalMoveSequenceEndsOnBoardResult(t *testing.T) {
	g, board, white, black := setupGame(t)
	white.queue = []string{"e2e4", "d2d4"}
	black.queue = []string{"e7e5"}
	board.result = game.WinFor(game.Win, game.White, "checkmate")
	board.resultPly = 3

	result, err := g.Start()
	require.NoError(t, err)
	require.Equal(t, game.Win, result.Type)
	require.Equal(t, game.White, result.Winner)
	require.Equal(t, []string{"e2e4", "e7e5", "d2d4"}, board.applied)
	require.Equal(t, []string{"e2e4", "d2d4"}, black.madeMoves)
	require.Equal(t, []string{"e7e5"}, white.madeMoves)
	require.NotNil(t, white.ended)
	require.NotNil(t, black.ended)
}

func TestIllegalMoveForfeits(t *testing.T) {
	g, board, white, black := setupGame(t)
	board.illegal["e2e5"] = true
	white.queue = []string{"e2e5"}

	result, err := g.Start()
	require.NoError(t, err)
	require.Equal(t, game.IllegalMove, result.Type)
	require.Equal(t, game.Black, result.Winner)
	require.NotNil(t, white.ended)
	require.NotNil(t, black.ended)
	require.Empty(t, board.applied)
}

func TestForfeitEndsGame(t *testing.T) {
	g, _, white, black := setupGame(t)

	go func() {
		white.events <- game.ForfeitEvent{Result: game.WinFor(game.Timeout, game.Black, "time forfeit")}
	}()

	result, err := g.Start()
	require.NoError(t, err)
	require.Equal(t, game.Timeout, result.Type)
	require.Equal(t, game.Black, result.Winner)
	require.NotNil(t, black.ended)
}

func TestMoveFromWrongSideIsIgnored(t *testing.T) {
	g, board, white, black := setupGame(t)
	board.illegal["e7e5"] = true // would forfeit if processed as black's move

	go func() {
		// black tries to move while white is to move; must be ignored.
		black.events <- game.MoveMadeEvent{Move: "e7e5"}
		white.events <- game.ForfeitEvent{Result: game.DrawResult(game.Agreement, "agreed draw")}
	}()

	result, err := g.Start()
	require.NoError(t, err)
	require.Equal(t, game.Agreement, result.Type)
	require.Empty(t, board.applied)
}

func TestDoubleReadyBeforeEndIsHarmless(t *testing.T) {
	g, _, white, black := setupGame(t)

	go func() {
		white.events <- game.ReadyEvent{}
		white.events <- game.ReadyEvent{}
		white.events <- game.ForfeitEvent{Result: game.WinFor(game.Resignation, game.Black, "resignation")}
	}()

	result, err := g.Start()
	require.NoError(t, err)
	require.Equal(t, game.Resignation, result.Type)
	_ = black
}

func TestEndGameIsIdempotent(t *testing.T) {
	g, _, white, _ := setupGame(t)

	go func() {
		white.events <- game.ForfeitEvent{Result: game.WinFor(game.Resignation, game.Black, "resignation")}
		// a second, late forfeit (queued behind the first on the same
		// channel) must not overwrite the already-decided result
		white.events <- game.ForfeitEvent{Result: game.WinFor(game.Resignation, game.White, "resignation")}
	}()

	result, err := g.Start()
	require.NoError(t, err)
	require.Equal(t, game.Black, result.Winner)
}

func TestBookMovesAreAnnouncedAndCommented(t *testing.T) {
	board := newFakeBoard()
	white := newFakePlayer("white")
	black := newFakePlayer("black")
	g := New(board)
	g.SetPlayer(game.White, white)
	g.SetPlayer(game.Black, black)
	g.SetOpeningMoves([]string{"e2e4", "e7e5"})

	go func() {
		white.events <- game.ForfeitEvent{Result: game.WinFor(game.Resignation, game.Black, "resignation")}
	}()

	_, err := g.Start()
	require.NoError(t, err)
	require.Equal(t, []string{"e2e4"}, white.bookMoves)
	require.Equal(t, []string{"e7e5"}, black.bookMoves)
	require.Equal(t, []string{"e2e4"}, black.madeMoves)
	require.Equal(t, []string{"e7e5"}, white.madeMoves)
	require.Len(t, g.Moves(), 2)
	require.Equal(t, "book", g.Moves()[0].Comment)
	require.Equal(t, "book", g.Moves()[1].Comment)
}

func TestMovesReceivedAfterEndAreDiscarded(t *testing.T) {
	g, board, white, black := setupGame(t)

	go func() {
		white.events <- game.ForfeitEvent{Result: game.WinFor(game.Resignation, game.Black, "resignation")}
		white.events <- game.MoveMadeEvent{Move: "e2e4"}
	}()

	result, err := g.Start()
	require.NoError(t, err)
	require.Equal(t, game.Black, result.Winner)
	require.Empty(t, board.applied)
	_ = black
}
