package indicators

import "math"

// ATR computes the Wilder-smoothed Average True Range series. The first
// point is the plain average of the first `period` true ranges; result has
// len(closes)-period points.
func ATR(highs, lows, closes []float64, period int) []float64 {
	if len(closes) < period+1 || period <= 0 {
		return nil
	}

	tr := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i-1] = math.Max(hl, math.Max(hc, lc))
	}

	atr := mean(tr[:period])
	out := make([]float64, 0, len(tr)-period+1)
	out = append(out, atr)

	for i := period; i < len(tr); i++ {
		atr = (atr*float64(period-1) + tr[i]) / float64(period)
		out = append(out, atr)
	}
	return out
}
