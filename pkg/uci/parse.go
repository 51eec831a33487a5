package uci

import (
	"strconv"
	"strings"
)

type infoUpdate struct {
	depth    int
	hasScore bool
	scoreCP  int
	pv       []string
}

// parseInfoLine extracts depth, score cp and pv from a UCI "info" line,
// grounded on the teacher pack's parseInfoLine (go-stockfish).
func parseInfoLine(line string) (infoUpdate, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "info" {
		return infoUpdate{}, false
	}

	var upd infoUpdate
	for i := 1; i < len(fields); i++ {
		switch fields[i] {
		case "depth":
			if i+1 < len(fields) {
				if d, err := strconv.Atoi(fields[i+1]); err == nil {
					upd.depth = d
				}
				i++
			}
		case "score":
			if i+2 < len(fields) && fields[i+1] == "cp" {
				if v, err := strconv.Atoi(fields[i+2]); err == nil {
					upd.scoreCP = v
					upd.hasScore = true
				}
				i += 2
			} else if i+2 < len(fields) && fields[i+1] == "mate" {
				if v, err := strconv.Atoi(fields[i+2]); err == nil {
					// Represent mate scores as a large centipawn value,
					// signed like the mate distance, so the adjudicator's
					// resign/draw thresholds still see them as decisive.
					upd.scoreCP = 10000 - v
					if v < 0 {
						upd.scoreCP = -10000 - v
					}
					upd.hasScore = true
				}
				i += 2
			}
		case "pv":
			upd.pv = append([]string(nil), fields[i+1:]...)
			return upd, true
		}
	}
	return upd, true
}

func parseBestmoveLine(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "bestmove" {
		return "", false
	}
	return fields[1], true
}
