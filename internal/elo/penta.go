package elo

import "math"

// PentaTally accumulates game-pair outcomes under repeat-opening pairing,
// where each opening is played once with each engine as White. Adapted
// from pkg/eve/stats/penta.go's PentaElo/PentaSPRT, rewritten against a
// named tally instead of five bare counters.
type PentaTally struct {
	LossLoss, LossDraw, DrawDraw, WinDraw, WinWin int
}

// PentaOutcome is the tracked engine's combined result over one pair of
// games with the same opening.
type PentaOutcome int

const (
	PairLossLoss PentaOutcome = iota
	PairLossDraw
	PairDrawDraw // also covers one win balanced by one loss
	PairWinDraw
	PairWinWin
)

// Record folds in one game pair's outcome.
func (t *PentaTally) Record(outcome PentaOutcome) {
	switch outcome {
	case PairLossLoss:
		t.LossLoss++
	case PairLossDraw:
		t.LossDraw++
	case PairDrawDraw:
		t.DrawDraw++
	case PairWinDraw:
		t.WinDraw++
	case PairWinWin:
		t.WinWin++
	}
}

// PentaElo computes the best-fit elo estimate for t using the
// pentanomial model, which has roughly half the variance of the
// trinomial model (Tally/Elo) for the same number of games.
func PentaElo(t PentaTally) Estimate {
	n := float64(t.LossLoss+t.LossDraw+t.DrawDraw+t.WinDraw+t.WinWin) + 2.5
	if n <= 2.5 {
		return Estimate{}
	}

	ll := (float64(t.LossLoss) + 0.5) / n
	ld := (float64(t.LossDraw) + 0.5) / n
	dd := (float64(t.DrawDraw) + 0.5) / n
	wd := (float64(t.WinDraw) + 0.5) / n
	ww := (float64(t.WinWin) + 0.5) / n

	mu := ww + 0.75*wd + 0.5*dd + 0.25*ld
	sigma := math.Sqrt(
		ww*sq(1-mu)+
			wd*sq(0.75-mu)+
			dd*sq(0.50-mu)+
			ld*sq(0.25-mu)+
			ll*sq(0.00-mu),
	) / math.Sqrt(n)

	return Estimate{
		Min:  clamp(mu + phiInv(0.025)*sigma),
		Mean: clamp(mu),
		Max:  clamp(mu + phiInv(0.975)*sigma),
	}
}
