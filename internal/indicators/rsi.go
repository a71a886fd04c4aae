package indicators

// RSI computes the Wilder-smoothed Relative Strength Index series. The first
// point uses the plain average of the first `period` gains/losses; every
// later point applies Wilder smoothing. Result has len(values)-period points.
func RSI(values []float64, period int) []float64 {
	if len(values) < period+1 || period <= 0 {
		return nil
	}

	gains := make([]float64, len(values)-1)
	losses := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	avgGain := mean(gains[:period])
	avgLoss := mean(losses[:period])

	out := make([]float64, 0, len(gains)-period+1)
	out = append(out, rsiValue(avgGain, avgLoss))

	for i := period; i < len(gains); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)
		out = append(out, rsiValue(avgGain, avgLoss))
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
