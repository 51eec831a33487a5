package match

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/laldon/cutechess/internal/elo"
	"github.com/laldon/cutechess/pkg/adjudicator"
	"github.com/laldon/cutechess/pkg/conductor"
	"github.com/laldon/cutechess/pkg/game"
	"github.com/laldon/cutechess/pkg/pgn"
	"github.com/laldon/cutechess/pkg/polyglot"
	"github.com/laldon/cutechess/pkg/uci"
)

const defaultSettleDelay = 2 * time.Second

var (
	errTooManyEngines = errors.New("match: at most 2 engines may be added")
	errNotTwoEngines  = errors.New("match: exactly 2 engines are required")
	errNotInitialized = errors.New("match: controller not initialized")
)

// Controller runs targetGames sequential games between two engines,
// per spec.md §4.2.
type Controller struct {
	newBoard    BoardFactory
	engines     [2]EngineConfig
	engineCount int

	players [2]game.Player
	drivers [2]*uci.Driver

	targetGames   int
	repeatOpening bool
	event, site   string
	variant       string
	startFen      string
	debugMode     bool

	bookPath  string
	book      game.OpeningBook
	bookDepth int

	pgnIn      *pgnBank
	pgnOutPath string
	pgnOut     *pgn.Writer
	pgnOutFile interface{ Close() error }

	newAdjudicator func() *adjudicator.Adjudicator

	settleDelay time.Duration

	// running state
	currentGame     int
	wins            [2]int
	drawCount       int
	repeatSeedFEN   string
	repeatSeedMoves []string
	pairResult      game.Result
	penta           elo.PentaTally
}

// Summary is returned by Start once the match has terminated.
type Summary struct {
	GamesPlayed  int
	Wins         [2]int
	Draws        int
	TerminatedBy game.Result
	Elo          elo.Estimate
	PentaElo     elo.Estimate
}

func (c *Controller) boardFactory(variant string) (game.Board, error) {
	if variant != "" && variant != "standard" && variant != c.variant {
		return nil, fmt.Errorf("match: unsupported variant %q", variant)
	}
	return c.newBoard(), nil
}

func openBook(path string) (game.OpeningBook, error) {
	return polyglot.Open(path)
}

// Initialize validates configuration and spawns both engines. It must
// be called before Start.
func (c *Controller) Initialize() error {
	if c.engineCount != 2 {
		return errNotTwoEngines
	}

	for i, cfg := range c.engines {
		tc, err := ParseTimeControl(cfg.TimeControl)
		if err != nil {
			logrus.Errorf("match: engine %q: %v", cfg.Name, err)
			return err
		}

		if cfg.Protocol != "" && cfg.Protocol != "uci" {
			return fmt.Errorf("match: engine %q: protocol %q not supported", cfg.Name, cfg.Protocol)
		}

		driver, err := uci.Start(uci.Config{
			Name:    cfg.Name,
			Cmd:     cfg.Cmd,
			Args:    cfg.Args,
			Dir:     cfg.Dir,
			Options: cfg.Options,
			InitStr: cfg.InitStr,
			TimeControl: uci.TimeControl{
				MovesToGo: tc.MovesToGo,
				Base:      tc.Base,
				Inc:       tc.Inc,
			},
		})
		if err != nil {
			logrus.Errorf("match: failed to start engine %q: %v", cfg.Name, err)
			return err
		}

		c.drivers[i] = driver
		c.players[i] = driver
	}

	return nil
}

// Start runs games until termination and returns the aggregate summary.
func (c *Controller) Start() (Summary, error) {
	if c.players[0] == nil || c.players[1] == nil {
		return Summary{}, errNotInitialized
	}
	defer c.teardown()

	if c.pgnOutPath != "" {
		f, err := pgn.OpenAppend(c.pgnOutPath)
		if err != nil {
			return Summary{}, err
		}
		c.pgnOutFile = f
		c.pgnOut = pgn.NewWriter(f, pgn.Verbose)
	}

	var last game.Result
	for g := 0; g < c.targetGames; g++ {
		c.currentGame = g
		result, err := c.playGame(g)
		if err != nil {
			return c.summary(last), err
		}
		last = result

		c.aggregate(g, result)

		terminal := g+1 == c.targetGames ||
			result.Type == game.ResultError ||
			result.Type == game.Disconnection
		if terminal {
			break
		}

		time.Sleep(c.settleDelay)
	}

	if c.pgnOut != nil {
		_ = c.pgnOut.Flush()
	}

	return c.summary(last), nil
}

func (c *Controller) whiteBlackIndex(g int) (white, black int) {
	if g%2 == 0 {
		return 0, 1
	}
	return 1, 0
}

func (c *Controller) playGame(g int) (game.Result, error) {
	whiteIdx, blackIdx := c.whiteBlackIndex(g)

	fen, moves := c.seedOpening(g)

	cond := conductor.New(c.newBoard())
	cond.SetPlayer(game.White, c.players[whiteIdx])
	cond.SetPlayer(game.Black, c.players[blackIdx])

	if c.newAdjudicator != nil {
		cond.SetAdjudicator(c.newAdjudicator())
	}
	if fen != "" {
		cond.SetFen(fen)
	}
	if len(moves) > 0 {
		cond.SetOpeningMoves(moves)
	} else if c.book != nil && c.bookDepth > 0 {
		cond.SetOpeningBook(c.book, c.bookDepth)
	}

	cond.SetTag("Event", c.event)
	cond.SetTag("Site", c.site)
	cond.SetTag("Round", strconv.Itoa(g+1))
	cond.SetTag("White", c.engines[whiteIdx].Name)
	cond.SetTag("Black", c.engines[blackIdx].Name)
	if c.variant != "standard" {
		cond.SetTag(pgn.TagVariant, c.variant)
	}

	result, err := cond.Start()
	if err != nil {
		return game.NoneResult, err
	}

	c.updateRepeatMemo(g, cond)

	if c.pgnOut != nil {
		pg := &pgn.Game{
			Tags:         cond.Tags(),
			Moves:        cond.Moves(),
			StartingSide: cond.StartingSide(),
			StartingFEN:  cond.StartingFEN(),
		}
		pg.SetTag("Result", result.PGN())
		if term := result.Termination(); term != "" {
			pg.SetTag(pgn.TagTermination, term)
		}
		if err := c.pgnOut.WriteGame(pg); err != nil {
			logrus.Errorf("match: failed to archive game %d: %v", g+1, err)
		}
	}

	return result, nil
}

// seedOpening resolves the starting FEN and forced move prefix for game
// g, following the priority order in spec.md §4.2: explicit FEN >
// repeat memo > Polyglot book > PGN input bank > variant default.
func (c *Controller) seedOpening(g int) (fen string, moves []string) {
	if c.startFen != "" {
		return c.startFen, nil
	}

	if c.repeatOpening && g%2 == 1 && c.repeatSeedFEN != "" {
		return c.repeatSeedFEN, c.repeatSeedMoves
	}

	if c.book != nil {
		return "", nil // the conductor itself probes the book at Start
	}

	if c.pgnIn != nil {
		fen, moves, ok := c.pgnIn.next()
		if ok {
			return fen, moves
		}
	}

	return "", nil
}

func (c *Controller) updateRepeatMemo(g int, cond *conductor.Game) {
	if !c.repeatOpening {
		return
	}
	if g%2 == 0 {
		var prefix []string
		for _, md := range cond.Moves() {
			if md.Comment != "book" {
				break
			}
			prefix = append(prefix, md.Generic)
		}
		c.repeatSeedFEN = cond.StartingFEN()
		c.repeatSeedMoves = prefix
	} else {
		c.repeatSeedFEN = ""
		c.repeatSeedMoves = nil
	}
}

// engineOutcome reports game's result as a Win/Draw/Loss measured from
// engines[0]'s perspective.
func (c *Controller) engineOutcome(g int, result game.Result) elo.Outcome {
	whiteIdx, _ := c.whiteBlackIndex(g)
	switch {
	case result.IsDraw():
		return elo.Draw
	case result.HasWinner() && (result.Winner == game.White) == (whiteIdx == 0):
		return elo.Win
	default:
		return elo.Loss
	}
}

func (c *Controller) aggregate(g int, result game.Result) {
	whiteIdx, blackIdx := c.whiteBlackIndex(g)

	switch {
	case result.IsDraw():
		c.drawCount++
	case result.HasWinner() && result.Winner == game.White:
		c.wins[whiteIdx]++
	case result.HasWinner() && result.Winner == game.Black:
		c.wins[blackIdx]++
	}

	if c.repeatOpening {
		c.recordPair(g, result)
	}
}

// recordPair folds completed game pairs into the pentanomial tally once
// every two games under repeat-opening pairing (spec.md §4.2).
func (c *Controller) recordPair(g int, result game.Result) {
	if g%2 == 0 {
		c.pairResult = result
		return
	}

	first := c.engineOutcome(g-1, c.pairResult)
	second := c.engineOutcome(g, result)

	switch {
	case first == elo.Loss && second == elo.Loss:
		c.penta.Record(elo.PairLossLoss)
	case (first == elo.Loss && second == elo.Draw) || (first == elo.Draw && second == elo.Loss):
		c.penta.Record(elo.PairLossDraw)
	case (first == elo.Win && second == elo.Loss) || (first == elo.Loss && second == elo.Win) ||
		(first == elo.Draw && second == elo.Draw):
		c.penta.Record(elo.PairDrawDraw)
	case (first == elo.Win && second == elo.Draw) || (first == elo.Draw && second == elo.Win):
		c.penta.Record(elo.PairWinDraw)
	case first == elo.Win && second == elo.Win:
		c.penta.Record(elo.PairWinWin)
	}
}

func (c *Controller) summary(last game.Result) Summary {
	t := elo.Tally{Wins: c.wins[0], Losses: c.wins[1], Draws: c.drawCount}

	return Summary{
		GamesPlayed:  c.currentGame + 1,
		Wins:         c.wins,
		Draws:        c.drawCount,
		TerminatedBy: last,
		Elo:          elo.Elo(t),
		PentaElo:     elo.PentaElo(c.penta),
	}
}

// teardown sends quit to each engine and then kills its process; it
// does not wait for the process to exit. It also closes the PGN output
// and input files.
func (c *Controller) teardown() {
	for _, d := range c.drivers {
		if d != nil {
			_ = d.Kill()
		}
	}
	if c.pgnOutFile != nil {
		_ = c.pgnOutFile.Close()
	}
	if c.pgnIn != nil {
		_ = c.pgnIn.close()
	}
}
