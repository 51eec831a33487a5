// Package pgn implements a reader and writer for the Portable Game
// Notation text format, used both as an opening source and as a result
// archive.
package pgn

import "github.com/laldon/cutechess/pkg/game"

// Roster is the Seven Tag Roster, in the fixed order it must always be
// emitted on write.
var Roster = []string{"Event", "Site", "Date", "Round", "White", "Black", "Result"}

// Well-known supplementary tag names, following the convention used
// throughout the pack (see likeawizard-polyglot-composer's pgn.Tag set).
const (
	TagVariant     = "Variant"
	TagFEN         = "FEN"
	TagSetUp       = "SetUp"
	TagPlyCount    = "PlyCount"
	TagTermination = "Termination"
)

// Game is one parsed or to-be-written PGN game record.
type Game struct {
	Tags         map[string]string
	Moves        []game.MoveData
	StartingSide game.Color
	StartingFEN  string
}

// Tag returns the value of tag, or "" if it is unset.
func (g *Game) Tag(tag string) string {
	if g.Tags == nil {
		return ""
	}
	return g.Tags[tag]
}

// SetTag sets tag to value.
func (g *Game) SetTag(tag, value string) {
	if g.Tags == nil {
		g.Tags = map[string]string{}
	}
	g.Tags[tag] = value
}
