package game

// Board is the external chess-rules collaborator: legal move generation,
// result detection, position hashing and FEN handling. Its concrete
// implementation (variant rules, move generation) is out of scope for this
// module; internal/boardadapter provides one instance backed by
// laptudirm.com/x/mess.
type Board interface {
	// Reset sets the board to fen, or the variant's default starting
	// position if fen is empty.
	Reset(fen string) error

	// SideToMove returns the color to move. After a checkmate or
	// stalemate it is still the side that has no legal move.
	SideToMove() Color

	// Key returns the Zobrist hash of the current position.
	Key() uint64

	// FEN returns the current position in Forsyth-Edwards Notation.
	FEN() string

	// DefaultFEN returns the variant's default starting position.
	DefaultFEN() string

	// IsRandomVariant reports whether the variant has no single default
	// starting position (e.g. Chess960), making an explicit FEN mandatory.
	IsRandomVariant() bool

	// MoveFromSAN resolves a Standard Algebraic Notation token against
	// the current position. It returns ok=false for a null or illegal
	// token.
	MoveFromSAN(san string) (move string, ok bool)

	// IsLegal reports whether move (in the board's generic coordinate
	// form) is legal in the current position.
	IsLegal(move string) bool

	// SAN returns the Standard Algebraic Notation for move in the
	// current position.
	SAN(move string) string

	// MakeMove applies move (generic coordinate form) to the board.
	MakeMove(move string) error

	// Result reports the board's own natural-rules result: checkmate,
	// stalemate, insufficient material, repetition, the 50-move rule.
	// It returns a None result while the game is ongoing.
	Result() Result

	// TablebaseResult reports a tablebase-derived result, or a None
	// result if tablebases are unavailable or inconclusive.
	TablebaseResult() Result

	// PlyCount returns the number of half-moves played since the
	// starting position.
	PlyCount() int
}

// BookMove is a move suggestion drawn from an OpeningBook.
type BookMove struct {
	Move string
}

// OpeningBook is the external opening-book collaborator. Binary decoding
// (e.g. Polyglot) is out of scope for the core; pkg/polyglot provides one
// implementation.
type OpeningBook interface {
	// Move returns a book move for the position keyed by key, or
	// ok=false if the book has no entry for it.
	Move(key uint64) (move BookMove, ok bool)
}
