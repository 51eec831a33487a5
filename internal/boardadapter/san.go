package boardadapter

import (
	"strings"

	"laptudirm.com/x/mess/pkg/board"
	"laptudirm.com/x/mess/pkg/board/move"
	"laptudirm.com/x/mess/pkg/board/piece"
)

// sanForMove renders m in Standard Algebraic Notation given the board it
// was generated from and the full legal move list used to disambiguate
// pieces sharing a destination square. mess's move.Move exposes only a
// coordinate String(); SAN here is computed independently rather than
// guessed at from an unconfirmed library facility.
func sanForMove(b *board.Board, legal []move.Move, m move.Move) string {
	if isCastle(b, m) {
		if m.Target().File() > m.Source().File() {
			return withCheck(b, m, "O-O")
		}
		return withCheck(b, m, "O-O-O")
	}

	p := b.Position[m.Source()]
	isCapture := m.IsCapture() || b.Position[m.Target()] != piece.NoPiece

	var sb strings.Builder
	switch p.Type() {
	case piece.Pawn:
		if isCapture {
			sb.WriteString(m.Source().File().String())
		}
	default:
		sb.WriteString(strings.ToUpper(p.Type().String()[:1]))
		sb.WriteString(disambiguation(b, legal, m, p))
	}

	if isCapture {
		sb.WriteByte('x')
	}
	sb.WriteString(m.Target().String())

	if promo := m.ToPiece().Type(); m.IsPromotion() && promo != piece.NoType {
		sb.WriteByte('=')
		sb.WriteString(strings.ToUpper(promo.String()[:1]))
	}

	return withCheck(b, m, sb.String())
}

// disambiguation returns the minimal file/rank/square qualifier needed
// to distinguish m from any other legal move of the same piece type
// landing on the same square.
func disambiguation(b *board.Board, legal []move.Move, m move.Move, p piece.Piece) string {
	sameFile, sameRank, ambiguous := false, false, false
	for _, other := range legal {
		if other == m || other.Target() != m.Target() {
			continue
		}
		if b.Position[other.Source()] != p {
			continue
		}
		ambiguous = true
		if other.Source().File() == m.Source().File() {
			sameFile = true
		}
		if other.Source().Rank() == m.Source().Rank() {
			sameRank = true
		}
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return m.Source().File().String()
	case !sameRank:
		return m.Source().Rank().String()
	default:
		return m.Source().String()
	}
}

func isCastle(b *board.Board, m move.Move) bool {
	p := b.Position[m.Source()]
	if p.Type() != piece.King {
		return false
	}
	fromFile, toFile := m.Source().File(), m.Target().File()
	diff := int(fromFile) - int(toFile)
	return diff >= 2 || diff <= -2
}

func withCheck(b *board.Board, m move.Move, san string) string {
	clone := *b
	clone.MakeMove(m)
	switch {
	case clone.IsInCheck(clone.SideToMove) && len(clone.GenerateMoves(false)) == 0:
		return san + "#"
	case clone.IsInCheck(clone.SideToMove):
		return san + "+"
	default:
		return san
	}
}
