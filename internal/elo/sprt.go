package elo

import "math"

// SPRT computes the log-likelihood ratio of elo1 over elo0 given t,
// adapted from pkg/eve/stats/sprt.go's SPRT function (rewritten against
// a Tally instead of bare win/draw/loss counters).
func SPRT(t Tally, elo0, elo1 float64) float64 {
	w := float64(t.Wins) + 0.5
	d := float64(t.Draws) + 0.5
	l := float64(t.Losses) + 0.5

	n := w + d + l
	dlo := drawElo(w/n, d/n, l/n)

	w0, d0, l0 := wdlForElo(elo0, dlo)
	w1, d1, l1 := wdlForElo(elo1, dlo)

	return w*math.Log(w1/w0) + d*math.Log(d1/d0) + l*math.Log(l1/l0)
}

// drawElo returns the draw-elo parameter of the BayesElo model implied
// by a measured win/draw/loss distribution.
func drawElo(w, d, l float64) float64 {
	if w <= 0 || l <= 0 {
		return 0
	}
	return 200 * math.Log10((1-l)/l*(1-w)/w)
}

// wdlForElo returns the win/draw/loss probabilities predicted by the
// BayesElo model for the given elo difference and draw-elo.
func wdlForElo(elo, drawElo float64) (w, d, l float64) {
	pWin := 1 / (1 + math.Pow(10, (drawElo-elo)/400))
	pLoss := 1 / (1 + math.Pow(10, (drawElo+elo)/400))
	return pWin, 1 - pWin - pLoss, pLoss
}

// SPRTBounds returns the upper (accept H1) and lower (accept H0) LLR
// bounds for the given type-I/type-II error rates, following Wald's
// sequential probability ratio test.
func SPRTBounds(alpha, beta float64) (lower, upper float64) {
	lower = math.Log(beta / (1 - alpha))
	upper = math.Log((1 - beta) / alpha)
	return lower, upper
}
