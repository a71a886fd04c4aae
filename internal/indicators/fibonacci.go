package indicators

import "errors"

// ErrFibonacciRange is returned when the window's high does not exceed its
// low, which leaves no span to divide into levels.
var ErrFibonacciRange = errors.New("invalid high/low for fibonacci retracement")

// FibonacciRetracement computes the standard retracement levels between the
// high and low of the window. Levels are already scalar and pass through
// compression unchanged.
func FibonacciRetracement(highs, lows []float64) (map[string]float64, error) {
	high := highest(highs)
	low := lowest(lows)
	if high <= low {
		return nil, ErrFibonacciRange
	}

	diff := high - low
	return map[string]float64{
		"level0":    high,
		"level23_6": high - diff*0.236,
		"level38_2": high - diff*0.382,
		"level50":   high - diff*0.5,
		"level61_8": high - diff*0.618,
		"level100":  low,
	}, nil
}
