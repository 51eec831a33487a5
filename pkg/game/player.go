package game

// Event is something a Player reports asynchronously to whoever is
// listening on its Events channel: a move it made, a forfeit it is
// declaring, or a readiness notification.
type Event interface {
	isPlayerEvent()
}

// MoveMadeEvent reports that the player made move, optionally carrying
// the evaluation it used to choose it.
type MoveMadeEvent struct {
	Move string
	Eval MoveEvaluation
}

func (MoveMadeEvent) isPlayerEvent() {}

// ForfeitEvent reports that the player is forfeiting the game (e.g. on
// time, or by disconnecting).
type ForfeitEvent struct {
	Result Result
}

func (ForfeitEvent) isPlayerEvent() {}

// ReadyEvent reports that the player has become ready after previously
// being busy (e.g. it flushed a pending "isready"/"readyok" exchange).
type ReadyEvent struct{}

func (ReadyEvent) isPlayerEvent() {}

// Player is the external engine-protocol collaborator: an asynchronous
// endpoint that emits moves and forfeits over Events, and is driven by
// the imperative methods below. Wire-level dialect (UCI, Xboard) is out
// of scope for the core; pkg/uci provides one implementation.
type Player interface {
	// Name identifies the player, for logging and PGN tags.
	Name() string

	// SetBoard installs the shared Board the player may consult
	// read-only for legality queries between turns.
	SetBoard(b Board)

	// Events returns the channel on which the player reports
	// MoveMadeEvent, ForfeitEvent and ReadyEvent notifications.
	Events() <-chan Event

	// IsReady reports whether the player is currently idle and able to
	// accept a new instruction.
	IsReady() bool

	// Go asks the player to compute and report a move for the current
	// position.
	Go() error

	// MakeBookMove informs the player that move was forced by the
	// opening source, played on its own behalf, so it can update its
	// internal position without searching.
	MakeBookMove(move string) error

	// MakeMove informs the player that the opponent (or the opening
	// source) played move, so it can update its position and, if it
	// wishes, ponder.
	MakeMove(move string) error

	// EndGame notifies the player that the game ended with result.
	EndGame(result Result) error
}
