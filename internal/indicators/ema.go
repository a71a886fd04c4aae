package indicators

// EMA computes the exponential moving average series, seeded with the SMA of
// the first window. The result has len(values)-period+1 points.
func EMA(values []float64, period int) []float64 {
	if len(values) < period || period <= 0 {
		return nil
	}
	out := make([]float64, 0, len(values)-period+1)
	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	prev := seed / float64(period)
	out = append(out, prev)

	k := 2.0 / float64(period+1)
	for _, v := range values[period:] {
		prev = (v-prev)*k + prev
		out = append(out, prev)
	}
	return out
}
