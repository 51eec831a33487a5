// Package elo computes the end-of-match Bayesian Elo estimate printed
// in the Match Controller's summary line, adapted from
// pkg/eve/stats/elo.go's Elo function (math rewritten against a
// win/draw/loss tally instead of the pack's tournament-wide counters).
package elo

import "math"

// Tally accumulates one engine's results across a match.
type Tally struct {
	Wins, Draws, Losses int
}

// Record folds in one game's outcome, measured from this engine's side.
func (t *Tally) Record(outcome Outcome) {
	switch outcome {
	case Win:
		t.Wins++
	case Draw:
		t.Draws++
	case Loss:
		t.Losses++
	}
}

// Outcome is a single game's result from one engine's perspective.
type Outcome int

const (
	Win Outcome = iota
	Draw
	Loss
)

// Estimate is a Bayesian Elo point estimate with its 95% confidence
// interval, following the teacher's Elo function.
type Estimate struct {
	Min, Mean, Max float64
}

// Elo computes the Bayesian Elo estimate for t.
func Elo(t Tally) Estimate {
	n := float64(t.Wins + t.Draws + t.Losses)
	if n == 0 {
		return Estimate{}
	}

	w := float64(t.Wins) / n
	d := float64(t.Draws) / n
	l := float64(t.Losses) / n

	mu := w + d/2
	sigma := math.Sqrt(w*sq(1-mu)+d*sq(0.5-mu)+l*sq(0-mu)) / math.Sqrt(n)

	return Estimate{
		Min:  clamp(mu + phiInv(0.025)*sigma),
		Mean: clamp(mu),
		Max:  clamp(mu + phiInv(0.975)*sigma),
	}
}

func sq(x float64) float64 { return x * x }

func clamp(x float64) float64 {
	if x <= 0 || x >= 1 {
		return 0
	}
	return -400 * math.Log10(1/x-1)
}

func phiInv(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}
