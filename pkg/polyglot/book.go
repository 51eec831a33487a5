// Package polyglot implements a minimal reader for the Polyglot opening
// book binary format behind the game.OpeningBook interface. Decoding is
// intentionally limited to what the format needs structurally (key
// lookup and move decoding); see DESIGN.md for what is out of scope.
package polyglot

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/laldon/cutechess/pkg/game"
)

// entry is one 16-byte Polyglot book record: a 64-bit Zobrist key, a
// 16-bit packed move, a 16-bit weight and a 32-bit learn counter, all
// big-endian.
type entry struct {
	key    uint64
	move   uint16
	weight uint16
	learn  uint32
}

const entrySize = 16

// Book is a Polyglot book fully loaded into memory and sorted by key,
// suitable for the small-to-medium book files this format is normally
// shipped as.
type Book struct {
	entries []entry
}

// Open reads the entirety of path into a Book.
func Open(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a Polyglot book from r.
func Read(r io.Reader) (*Book, error) {
	br := bufio.NewReader(r)
	var entries []entry

	for {
		var raw [entrySize]byte
		_, err := io.ReadFull(br, raw[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("polyglot: %w", err)
		}

		entries = append(entries, entry{
			key:    binary.BigEndian.Uint64(raw[0:8]),
			move:   binary.BigEndian.Uint16(raw[8:10]),
			weight: binary.BigEndian.Uint16(raw[10:12]),
			learn:  binary.BigEndian.Uint32(raw[12:16]),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	return &Book{entries: entries}, nil
}

// Move returns the highest-weighted entry for key, decoded into its
// generic coordinate form, or ok=false if the book has no entry for it.
func (b *Book) Move(key uint64) (game.BookMove, bool) {
	lo := sort.Search(len(b.entries), func(i int) bool { return b.entries[i].key >= key })

	best := -1
	for i := lo; i < len(b.entries) && b.entries[i].key == key; i++ {
		if best == -1 || b.entries[i].weight > b.entries[best].weight {
			best = i
		}
	}
	if best == -1 {
		return game.BookMove{}, false
	}

	return game.BookMove{Move: decodeMove(b.entries[best].move)}, true
}

var files = "abcdefgh"
var ranks = "12345678"

// decodeMove unpacks a Polyglot move word into coordinate notation.
// Bits: to-file(0-2) to-rank(3-5) from-file(6-8) from-rank(9-11)
// promotion(12-14). Polyglot's castling encoding (king "captures" its
// own rook) is left as-is: few modern books use it and translating it
// needs the board's castling rights, out of scope for this reader.
func decodeMove(word uint16) string {
	toFile := word & 0x7
	toRank := (word >> 3) & 0x7
	fromFile := (word >> 6) & 0x7
	fromRank := (word >> 9) & 0x7
	promo := (word >> 12) & 0x7

	mv := string(files[fromFile]) + string(ranks[fromRank]) + string(files[toFile]) + string(ranks[toRank])
	switch promo {
	case 1:
		mv += "n"
	case 2:
		mv += "b"
	case 3:
		mv += "r"
	case 4:
		mv += "q"
	}
	return mv
}
