package indicators

// MACDResult holds the three MACD series. The signal and histogram series
// are shorter than the macd line by signalPeriod-1 points; consumers treat
// each series independently.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes the moving average convergence divergence from close prices.
// The macd line starts once the slow EMA is available.
func MACD(values []float64, fastPeriod, slowPeriod, signalPeriod int) MACDResult {
	if len(values) < slowPeriod || fastPeriod <= 0 || slowPeriod <= fastPeriod {
		return MACDResult{}
	}

	fast := EMA(values, fastPeriod)
	slow := EMA(values, slowPeriod)

	// Align the fast EMA to the slow EMA's first point.
	offset := len(fast) - len(slow)
	macd := make([]float64, len(slow))
	for i := range slow {
		macd[i] = fast[i+offset] - slow[i]
	}

	signal := EMA(macd, signalPeriod)
	histogram := make([]float64, len(signal))
	macdOffset := len(macd) - len(signal)
	for i := range signal {
		histogram[i] = macd[i+macdOffset] - signal[i]
	}

	return MACDResult{MACD: macd, Signal: signal, Histogram: histogram}
}
