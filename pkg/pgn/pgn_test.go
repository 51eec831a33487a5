package pgn

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laldon/cutechess/pkg/game"
)

// fakeBoard is a minimal game.Board over a fixed, tiny "opening" of
// moves so the reader/writer tests don't need a real rules engine: SAN
// tokens equal the generic move string, and every move is legal.
type fakeBoard struct {
	side game.Color
}

func newFakeBoard(string) (game.Board, error) { return &fakeBoard{side: game.White}, nil }

func (b *fakeBoard) Reset(string) error              { b.side = game.White; return nil }
func (b *fakeBoard) SideToMove() game.Color           { return b.side }
func (b *fakeBoard) Key() uint64                      { return 0 }
func (b *fakeBoard) FEN() string                      { return b.DefaultFEN() }
func (b *fakeBoard) DefaultFEN() string {
	return "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
}
func (b *fakeBoard) IsRandomVariant() bool { return false }
func (b *fakeBoard) MoveFromSAN(san string) (string, bool) {
	if san == "" || san == "--" {
		return "", false
	}
	return san, true
}
func (b *fakeBoard) IsLegal(string) bool { return true }
func (b *fakeBoard) SAN(move string) string { return move }
func (b *fakeBoard) MakeMove(string) error  { b.side = b.side.Opposite(); return nil }
func (b *fakeBoard) Result() game.Result           { return game.NoneResult }
func (b *fakeBoard) TablebaseResult() game.Result  { return game.NoneResult }
func (b *fakeBoard) PlyCount() int                 { return 0 }

func TestWriteReadRoundTripRosterAndMoves(t *testing.T) {
	g := &Game{
		Tags: map[string]string{
			"Event": "Test", "Site": "Lab", "Date": "????.??.??", "Round": "1",
			"White": "A", "Black": "B", "Result": "1-0",
		},
		StartingSide: game.White,
		Moves: []game.MoveData{
			{Generic: "e2e4", SAN: "e4"},
			{Generic: "e7e5", SAN: "e5"},
			{Generic: "g1f3", SAN: "Nf3"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, Verbose).WriteGame(g))
	require.NoError(t, NewWriter(&buf, Verbose).Flush())

	out, err := NewReader(&buf, "", newFakeBoard).ReadGame(0)
	require.NoError(t, err)

	for _, tag := range Roster {
		require.Equal(t, g.Tags[tag], out.Tags[tag], "tag %s", tag)
	}
	require.Len(t, out.Moves, 3)
	require.Equal(t, "3", out.Tags[TagPlyCount])
}

func TestWriteMissingRosterValuesAreQuestionMark(t *testing.T) {
	g := &Game{Tags: map[string]string{"White": "A"}, StartingSide: game.White}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, Verbose).WriteGame(g))

	out := buf.String()
	require.Contains(t, out, `[White "A"]`)
	for _, tag := range []string{"Event", "Site", "Date", "Round", "Black", "Result"} {
		require.Contains(t, out, "["+tag+` "?"]`)
	}
}

func TestMovetextNeverExceeds80Columns(t *testing.T) {
	g := &Game{
		Tags:         map[string]string{"White": "A", "Black": "B", "Result": "1-0"},
		StartingSide: game.White,
	}
	// A long run of moves with a verbose comment on every one, designed
	// to force many wraps.
	for i := 0; i < 40; i++ {
		g.Moves = append(g.Moves, game.MoveData{
			Generic: "e2e4", SAN: "Nf3xe5+", Comment: "+0.25/18 3s",
		})
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, Verbose).WriteGame(g))

	for _, line := range strings.Split(buf.String(), "\n") {
		require.LessOrEqual(t, len(line), 80, "line exceeds 80 columns: %q", line)
	}
}

func TestMinimalModeOmitsCommentsAndSupplementaryTags(t *testing.T) {
	g := &Game{
		Tags: map[string]string{
			"White": "A", "Black": "B", "Result": "1-0",
			"FEN": "8/8/8/8/8/8/8/8 w - - 0 1", "SetUp": "1",
			"Annotator": "someone",
		},
		StartingSide: game.White,
		Moves:        []game.MoveData{{Generic: "e2e4", SAN: "e4", Comment: "book"}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, Minimal).WriteGame(g))

	out := buf.String()
	require.Contains(t, out, "[FEN ")
	require.Contains(t, out, "[SetUp ")
	require.NotContains(t, out, "Annotator")
	require.NotContains(t, out, "{book}")
}

func TestReadNoGameOnEmptyStream(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), "", newFakeBoard).ReadGame(0)
	require.ErrorIs(t, err, ErrNoGame)
}

func TestReadRejectsDisagreeingVariant(t *testing.T) {
	src := "[Event \"E\"]\n[Variant \"atomic\"]\n\n1. e4 *\n\n"
	_, err := NewReader(strings.NewReader(src), "standard", newFakeBoard).ReadGame(0)
	require.Error(t, err)
}

func TestReadMaxMovesStopsWithoutResultTag(t *testing.T) {
	src := "[Event \"E\"]\n[White \"A\"]\n[Black \"B\"]\n\n1. e4 e5 2. Nf3 Nc6 1-0\n\n"
	g, err := NewReader(strings.NewReader(src), "", newFakeBoard).ReadGame(2)
	require.NoError(t, err)
	require.Len(t, g.Moves, 2)
	require.Equal(t, "", g.Tags["Result"])
}
