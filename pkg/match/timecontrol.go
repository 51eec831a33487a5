package match

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// TimeControl is a parsed per-engine clock: an optional moves-to-go
// count, a base allotment and a per-move increment. Adapted from the
// teacher's ParseTime (pkg/eve/match/time.go); the format is
// "[movestogo/]base+increment", base and increment in seconds.
type TimeControl struct {
	MovesToGo int
	Base, Inc time.Duration
}

// ParseTimeControl validates and decodes spec, returning a config error
// (never a panic) on malformed input.
func ParseTimeControl(spec string) (TimeControl, error) {
	var tc TimeControl

	movesStr, rest, hasMoves := strings.Cut(spec, "/")
	tc.MovesToGo = -1
	if hasMoves {
		n, err := strconv.Atoi(movesStr)
		if err != nil {
			return TimeControl{}, errors.New("match: invalid movestogo in time control")
		}
		tc.MovesToGo = n
	} else {
		rest = movesStr
	}

	baseStr, incStr, hasInc := strings.Cut(rest, "+")
	if !hasInc {
		return TimeControl{}, errors.New("match: time control missing increment")
	}

	base, err := strconv.ParseFloat(baseStr, 64)
	if err != nil {
		return TimeControl{}, errors.New("match: invalid base time in time control")
	}
	inc, err := strconv.ParseFloat(incStr, 64)
	if err != nil {
		return TimeControl{}, errors.New("match: invalid increment in time control")
	}

	tc.Base = time.Duration(base * float64(time.Second))
	tc.Inc = time.Duration(inc * float64(time.Second))
	return tc, nil
}
