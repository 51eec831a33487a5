// Package match implements the Match Controller: the outer loop that
// schedules repeated games between two engines, alternating colors,
// seeding openings, aggregating scores, and archiving results as PGN.
package match

import (
	"github.com/sirupsen/logrus"

	"github.com/laldon/cutechess/pkg/adjudicator"
	"github.com/laldon/cutechess/pkg/game"
)

// EngineConfig describes how to launch and address one engine,
// yaml-tagged following the teacher's EngineConfig
// (pkg/eve/match/engine.go).
type EngineConfig struct {
	Name string `yaml:"name"`
	Cmd  string `yaml:"cmd"`
	Args []string `yaml:"args"`
	Dir  string `yaml:"dir"`

	Protocol string `yaml:"protocol"`

	InitStr string            `yaml:"init-string"`
	Options map[string]string `yaml:"options"`

	TimeControl string `yaml:"tc"`
}

// Config is the top-level YAML-decodable match configuration, grounded
// on the teacher's match.Config plus the Match Controller's
// configuration surface (spec.md §6).
type Config struct {
	Engines [2]EngineConfig `yaml:"engines"`

	Games         int    `yaml:"games"`
	RepeatOpening bool   `yaml:"repeat-opening"`
	Event         string `yaml:"event"`
	Site          string `yaml:"site"`
	Variant       string `yaml:"variant"`

	StartFen string `yaml:"start-fen"`

	BookFile  string `yaml:"book-file"`
	BookDepth int    `yaml:"book-depth"`

	PgnInput  string `yaml:"pgn-in"`
	PgnOutput string `yaml:"pgn-out"`

	DebugMode bool `yaml:"debug"`
}

// BoardFactory constructs a fresh game.Board for one game.
type BoardFactory func() game.Board

// NewController builds a Controller. newBoard is called once per game
// to obtain a fresh Board; it is the only required collaborator since
// Board is an external interface (spec.md §1).
func NewController(newBoard BoardFactory) *Controller {
	return &Controller{
		newBoard:    newBoard,
		targetGames: 1,
		variant:     "standard",
		settleDelay: defaultSettleDelay,
	}
}

// AddEngine appends one engine spec. A third call is rejected and
// logged, per spec.md §4.2.
func (c *Controller) AddEngine(cfg EngineConfig) error {
	if c.engineCount >= 2 {
		logrus.Errorf("match: rejecting engine %q, already have 2 engines", cfg.Name)
		return errTooManyEngines
	}
	c.engines[c.engineCount] = cfg
	c.engineCount++
	return nil
}

// SetBookFile replaces any loaded Polyglot book with a newly decoded
// one. Open failures log and leave the match bookless, per spec.md
// §4.2.
func (c *Controller) SetBookFile(path string) {
	c.bookPath = path
	book, err := openBook(path)
	if err != nil {
		logrus.Errorf("match: failed to open book %q: %v", path, err)
		c.book = nil
		return
	}
	c.book = book
}

// SetBookDepth sets the maximum number of book plies probed per game.
// Non-positive values are logged and ignored.
func (c *Controller) SetBookDepth(n int) {
	if n <= 0 {
		logrus.Warnf("match: ignoring non-positive book depth %d", n)
		return
	}
	c.bookDepth = n
}

func (c *Controller) SetGameCount(n int) {
	if n < 1 {
		n = 1
	}
	c.targetGames = n
}

func (c *Controller) SetRepeatOpening(enable bool) { c.repeatOpening = enable }
func (c *Controller) SetEvent(s string)            { c.event = s }
func (c *Controller) SetSite(s string)             { c.site = s }
func (c *Controller) SetVariant(v string) {
	if v == "" {
		v = "standard"
	}
	c.variant = v
}

// SetStartFen configures an explicit starting position, taking priority
// over the repeat-opening memo, the book and the PGN input bank (spec.md
// §4.2 seeding priority list, item 1). Supplements the spec's named
// Match Controller setters, which otherwise have no way to express this
// top-priority seed.
func (c *Controller) SetStartFen(fen string) { c.startFen = fen }

func (c *Controller) SetPgnInput(path string) error {
	bank, err := newPgnBank(path, c.boardFactory)
	if err != nil {
		logrus.Errorf("match: failed to open pgn input %q: %v", path, err)
		return err
	}
	c.pgnIn = bank
	return nil
}

func (c *Controller) SetPgnOutput(path string) { c.pgnOutPath = path }

func (c *Controller) SetDebugMode(enable bool) {
	c.debugMode = enable
	if enable {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// SetAdjudicator installs a factory for the adjudicator every game's
// Conductor is configured with. Optional: a nil factory (the default)
// means only the Board's own result detection applies.
func (c *Controller) SetAdjudicator(newAdjudicator func() *adjudicator.Adjudicator) {
	c.newAdjudicator = newAdjudicator
}
