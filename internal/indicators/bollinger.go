package indicators

import "math"

// BollingerResult holds the three Bollinger Band series, all of equal length.
type BollingerResult struct {
	Middle []float64
	Upper  []float64
	Lower  []float64
}

// BollingerBands computes the middle SMA with upper/lower bands at stdDev
// population standard deviations of each window.
func BollingerBands(values []float64, period int, stdDev float64) BollingerResult {
	if len(values) < period || period <= 0 {
		return BollingerResult{}
	}

	n := len(values) - period + 1
	res := BollingerResult{
		Middle: make([]float64, n),
		Upper:  make([]float64, n),
		Lower:  make([]float64, n),
	}

	for i := 0; i < n; i++ {
		window := values[i : i+period]
		m := mean(window)
		variance := 0.0
		for _, v := range window {
			variance += (v - m) * (v - m)
		}
		sd := math.Sqrt(variance / float64(period))

		res.Middle[i] = m
		res.Upper[i] = m + stdDev*sd
		res.Lower[i] = m - stdDev*sd
	}
	return res
}
