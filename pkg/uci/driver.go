// Package uci implements a game.Player driver speaking newline-framed
// UCI over a child process's stdin/stdout, grounded on the teacher's
// Engine type (pkg/eve/match/engine.go): bufio framing, a reader
// goroutine feeding a line channel, and Await-by-regex synchronization.
// It is restructured from that file's blocking call/response shape into
// the event-emitting shape game.Player requires.
package uci

import (
	"bufio"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/laldon/cutechess/internal/paths"
	"github.com/laldon/cutechess/pkg/game"
)

// Config describes how to launch and address one UCI engine.
type Config struct {
	Name    string
	Cmd     string
	Args    []string
	Dir     string
	Options map[string]string
	InitStr string

	TimeControl TimeControl
}

// TimeControl is this engine's own clock: an optional moves-to-go count,
// a base allotment and a per-move increment, mirroring
// match.TimeControl. Declared separately here (rather than imported) so
// pkg/uci stays a self-contained Player driver with no dependency back
// onto pkg/match.
type TimeControl struct {
	MovesToGo int
	Base, Inc time.Duration
}

// ErrReadTimeout is returned by internal synchronization waits that
// exceed their deadline.
var ErrReadTimeout = errors.New("uci: read timeout")

// Driver is a game.Player speaking UCI to a child process.
type Driver struct {
	cfg Config
	cmd *exec.Cmd

	writer *bufio.Writer
	lines  chan string
	readErr error

	board game.Board

	events chan game.Event

	mu        sync.Mutex
	ready     bool
	moveNum   int
	history   []string
	remaining time.Duration
}

// Start launches the engine and performs the uci/isready handshake.
func Start(cfg Config) (*Driver, error) {
	d := &Driver{
		cfg:       cfg,
		lines:     make(chan string, 256),
		events:    make(chan game.Event, 8),
		ready:     true,
		remaining: cfg.TimeControl.Base,
	}

	dir, err := paths.EngineWorkingDirectory(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("uci: resolving working directory for %q: %w", cfg.Name, err)
	}

	d.cmd = exec.Command(cfg.Cmd, cfg.Args...)
	d.cmd.Dir = dir

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	d.writer = bufio.NewWriter(stdin)
	reader := bufio.NewReader(stdout)

	if err := d.cmd.Start(); err != nil {
		return nil, err
	}

	go func() {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				d.readErr = err
				close(d.lines)
				return
			}
			line = strings.Trim(line, " \t\r\n")
			logrus.Debugf("uci: (%s)> %s", d.cfg.Name, line)
			d.lines <- line
		}
	}()

	if cfg.InitStr != "" {
		if err := d.write(cfg.InitStr); err != nil {
			return nil, err
		}
	}

	if err := d.write("uci"); err != nil {
		return nil, err
	}
	if _, err := d.await("^uciok$", 5*time.Second); err != nil {
		return nil, err
	}

	for name, value := range cfg.Options {
		if err := d.write("setoption name %s value %s", name, value); err != nil {
			return nil, err
		}
	}

	if err := d.synchronize(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Driver) Name() string { return d.cfg.Name }

func (d *Driver) SetBoard(b game.Board) { d.board = b }

func (d *Driver) Events() <-chan game.Event { return d.events }

func (d *Driver) IsReady() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ready
}

// Go asks the engine to search the current position (the accumulated
// move history) under its own remaining clock, and starts a goroutine
// that parses "bestmove" and the preceding "info" lines into a
// MoveMadeEvent, or declares a timeout forfeit if the clock runs out
// first, per spec.md's time-control contract.
func (d *Driver) Go() error {
	d.mu.Lock()
	d.ready = false
	history := append([]string(nil), d.history...)
	budget := d.moveBudget()
	clock := d.remaining
	d.mu.Unlock()

	if err := d.write("position startpos moves %s", strings.Join(history, " ")); err != nil {
		return err
	}
	if err := d.write("go movetime %d", budget.Milliseconds()); err != nil {
		return err
	}

	go d.collectBestmove(clock)
	return nil
}

// moveBudget allocates this move's search time off the remaining clock:
// the classic remaining/movesToGo (defaulting to a 30-move horizon for
// sudden death) plus the per-move increment. Callers hold d.mu.
func (d *Driver) moveBudget() time.Duration {
	movesToGo := d.cfg.TimeControl.MovesToGo
	if movesToGo <= 0 {
		movesToGo = 30
	}
	budget := d.remaining/time.Duration(movesToGo) + d.cfg.TimeControl.Inc
	if budget <= 0 {
		budget = time.Millisecond
	}
	return budget
}

// collectBestmove waits for the engine's reply, enforcing clock as a
// hard deadline: the engine's own remaining time when Go was called,
// not just this move's allotted budget, since that is what spec.md's
// time forfeit is measured against.
func (d *Driver) collectBestmove(clock time.Duration) {
	var eval game.MoveEvaluation
	start := time.Now()

	timer := time.NewTimer(clock)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			d.mu.Lock()
			d.remaining = 0
			side := d.board.SideToMove()
			d.mu.Unlock()
			d.events <- game.ForfeitEvent{Result: game.WinFor(game.Timeout, side.Opposite(), "time forfeit")}
			return

		case line, ok := <-d.lines:
			if !ok {
				d.mu.Lock()
				side := d.board.SideToMove()
				d.mu.Unlock()
				d.events <- game.ForfeitEvent{Result: game.WinFor(game.Disconnection, side.Opposite(), "engine disconnected")}
				return
			}

			if upd, ok := parseInfoLine(line); ok {
				if upd.depth > 0 {
					eval.Depth = upd.depth
				}
				if upd.hasScore {
					eval.ScoreCentipawn = upd.scoreCP
				}
				if len(upd.pv) > 0 {
					eval.PV = upd.pv
				}
				continue
			}

			bestMove, ok := parseBestmoveLine(line)
			if !ok {
				continue
			}

			elapsed := time.Since(start)
			eval.TimeMs = elapsed.Milliseconds()

			d.mu.Lock()
			d.history = append(d.history, bestMove)
			d.remaining = d.remaining - elapsed + d.cfg.TimeControl.Inc
			if d.remaining < 0 {
				d.remaining = 0
			}
			d.ready = true
			d.mu.Unlock()

			d.events <- game.MoveMadeEvent{Move: bestMove, Eval: eval}
			return
		}
	}
}

// MakeBookMove records a move forced by the opening source on this
// engine's own behalf; the engine is told via "position" on its next Go.
func (d *Driver) MakeBookMove(move string) error {
	d.mu.Lock()
	d.history = append(d.history, move)
	d.mu.Unlock()
	return nil
}

// MakeMove informs the engine that the opponent (or the opening source)
// played move.
func (d *Driver) MakeMove(move string) error {
	d.mu.Lock()
	d.history = append(d.history, move)
	d.mu.Unlock()
	return nil
}

// EndGame resets the clock and move history for the next game, since a
// single Driver plays every game of a match (cutechess-style engine
// reuse), not just one.
func (d *Driver) EndGame(result game.Result) error {
	d.mu.Lock()
	d.history = nil
	d.remaining = d.cfg.TimeControl.Base
	d.mu.Unlock()
	return nil
}

// Kill sends "quit" and force-kills the process, matching the teacher's
// Engine.Kill.
func (d *Driver) Kill() error {
	_ = d.write("quit")
	if d.cmd.Process != nil {
		return d.cmd.Process.Kill()
	}
	return nil
}

func (d *Driver) synchronize() error {
	if err := d.write("isready"); err != nil {
		return err
	}
	_, err := d.await("^readyok$", 5*time.Second)
	return err
}

func (d *Driver) write(format string, a ...any) error {
	logrus.Debugf("uci: (%s)< "+format, append([]any{d.cfg.Name}, a...)...)
	if _, err := fmt.Fprintf(d.writer, format+"\n", a...); err != nil {
		return err
	}
	return d.writer.Flush()
}

func (d *Driver) await(pattern string, timeout time.Duration) (string, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case <-deadline.C:
			if d.readErr != nil {
				return "", d.readErr
			}
			return "", ErrReadTimeout
		case line, ok := <-d.lines:
			if !ok {
				return "", d.readErr
			}
			if matchesExact(pattern, line) {
				return line, nil
			}
		}
	}
}

// matchesExact avoids pulling in regexp for the two fixed anchors this
// driver waits on.
func matchesExact(pattern, line string) bool {
	needle := strings.Trim(pattern, "^$")
	return line == needle
}
