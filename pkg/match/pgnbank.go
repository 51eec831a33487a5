package match

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/laldon/cutechess/pkg/pgn"
)

// pgnBank replays the games of a PGN file as opening seeds, one per
// Controller.playGame call, rewinding to the start of the file once
// after the first read failure so a short file still cycles instead of
// permanently going dry, per spec.md §4.2's PGN input bank description.
type pgnBank struct {
	path    string
	factory pgn.BoardFactory
	reader  *pgn.Reader
	file    *os.File
	anyRead bool
}

func newPgnBank(path string, factory pgn.BoardFactory) (*pgnBank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &pgnBank{
		path:    path,
		factory: factory,
		reader:  pgn.NewReader(f, "", factory),
		file:    f,
	}, nil
}

// next returns the FEN and forced move prefix of the next game in the
// bank, or ok=false if the bank is empty and could not be rewound.
func (b *pgnBank) next() (fen string, moves []string, ok bool) {
	g, err := b.reader.ReadGame(0)
	if err != nil && b.anyRead {
		// Exhausted the bank but we've served at least one game before:
		// cycle back to the start and retry once.
		if rerr := b.rewind(); rerr != nil {
			logrus.Errorf("match: failed to rewind pgn bank %q: %v", b.path, rerr)
			return "", nil, false
		}
		g, err = b.reader.ReadGame(0)
	}
	if err != nil {
		if err != io.EOF && err != pgn.ErrNoGame {
			logrus.Errorf("match: failed to read next pgn bank game: %v", err)
		}
		return "", nil, false
	}

	b.anyRead = true
	moves = make([]string, len(g.Moves))
	for i, md := range g.Moves {
		moves[i] = md.Generic
	}
	return g.StartingFEN, moves, true
}

func (b *pgnBank) rewind() error {
	if _, err := b.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	b.reader = pgn.NewReader(b.file, "", b.factory)
	return nil
}

func (b *pgnBank) close() error {
	return b.file.Close()
}
