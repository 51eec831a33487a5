package pgn

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/laldon/cutechess/pkg/game"
)

// Mode selects how many supplementary tags a Writer emits.
type Mode int

const (
	// Verbose emits every non-empty supplementary tag, and move comments.
	Verbose Mode = iota
	// Minimal emits only FEN/SetUp (when a FEN tag is present) and no
	// move comments.
	Minimal
)

const maxLineLength = 80

// Writer emits games in PGN text form.
type Writer struct {
	w    *bufio.Writer
	mode Mode
}

// NewWriter builds a Writer over w using mode.
func NewWriter(w io.Writer, mode Mode) *Writer {
	return &Writer{w: bufio.NewWriter(w), mode: mode}
}

// OpenAppend opens path for append, creating it if necessary, and
// returns the open file, over which the caller builds a Writer. The
// caller must Close the returned file once done (use WriteFile for
// single-shot use).
func OpenAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// WriteFile appends g to the file at path in mode, creating the file if
// it doesn't already exist.
func WriteFile(path string, g *Game, mode Mode) error {
	f, err := OpenAppend(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := NewWriter(f, mode)
	if err := w.WriteGame(g); err != nil {
		return err
	}
	return w.Flush()
}

// Flush flushes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// WriteGame writes one game, including its trailing blank line, and
// flushes it to the underlying writer.
func (w *Writer) WriteGame(g *Game) error {
	if len(g.Tags) == 0 {
		return nil
	}

	g.Tags[TagPlyCount] = strconv.Itoa(len(g.Moves))

	for _, tag := range Roster {
		writeTag(w.w, tag, g.Tags[tag])
	}

	switch w.mode {
	case Verbose:
		keys := make([]string, 0, len(g.Tags))
		for k := range g.Tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if isRosterTag(k) {
				continue
			}
			if v := g.Tags[k]; v != "" {
				writeTag(w.w, k, v)
			}
		}
	case Minimal:
		if fen, ok := g.Tags[TagFEN]; ok {
			writeTag(w.w, TagFEN, fen)
			writeTag(w.w, TagSetUp, g.Tags[TagSetUp])
		}
	}

	w.w.WriteByte('\n')
	w.writeMovetext(g)
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func isRosterTag(tag string) bool {
	for _, t := range Roster {
		if t == tag {
			return true
		}
	}
	return false
}

func writeTag(w *bufio.Writer, tag, value string) {
	if value == "" {
		value = "?"
	}
	fmt.Fprintf(w, "[%s \"%s\"]\n", tag, value)
}

func (w *Writer) writeMovetext(g *Game) {
	lineLength := 0
	moveNumber := 0
	side := g.StartingSide

	write := func(token string) {
		switch {
		case lineLength == 0:
			w.w.WriteString(token)
			lineLength = len(token)
		case lineLength+1+len(token) >= maxLineLength:
			w.w.WriteByte('\n')
			w.w.WriteString(token)
			lineLength = len(token)
		default:
			w.w.WriteByte(' ')
			w.w.WriteString(token)
			lineLength += len(token) + 1
		}
	}

	for i, md := range g.Moves {
		var b strings.Builder
		if side == game.White || i == 0 {
			moveNumber++
			fmt.Fprintf(&b, "%d. ", moveNumber)
		}
		b.WriteString(md.SAN)
		if w.mode == Verbose && md.Comment != "" {
			fmt.Fprintf(&b, " {%s}", md.Comment)
		}
		write(b.String())
		side = side.Opposite()
	}

	result := g.Tags["Result"]
	if result == "" {
		result = "*"
	}
	switch {
	case lineLength == 0:
		w.w.WriteString(result)
	case lineLength+1+len(result) >= maxLineLength:
		w.w.WriteByte('\n')
		w.w.WriteString(result)
	default:
		w.w.WriteByte(' ')
		w.w.WriteString(result)
	}
	w.w.WriteByte('\n')
}
