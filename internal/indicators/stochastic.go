package indicators

// StochasticResult holds the %K and smoothed %D series. %D is shorter than
// %K by dSmoothing-1 points.
type StochasticResult struct {
	K []float64
	D []float64
}

// Stochastic computes the stochastic oscillator: %K over a kPeriod
// high/low window and %D as its dSmoothing-period SMA.
func Stochastic(highs, lows, closes []float64, kPeriod, dSmoothing int) StochasticResult {
	if len(closes) < kPeriod || kPeriod <= 0 || dSmoothing <= 0 {
		return StochasticResult{}
	}

	k := make([]float64, 0, len(closes)-kPeriod+1)
	for i := kPeriod - 1; i < len(closes); i++ {
		hh := highest(highs[i-kPeriod+1 : i+1])
		ll := lowest(lows[i-kPeriod+1 : i+1])
		if hh == ll {
			k = append(k, 50)
			continue
		}
		k = append(k, (closes[i]-ll)/(hh-ll)*100)
	}

	return StochasticResult{K: k, D: SMA(k, dSmoothing)}
}
