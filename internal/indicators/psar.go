package indicators

// ParabolicSAR computes the parabolic stop-and-reverse series with the given
// acceleration step and cap. The initial trend is taken from the direction
// of the first two bars; result has len(highs)-1 points, one per bar from
// the second onward.
func ParabolicSAR(highs, lows []float64, step, max float64) []float64 {
	if len(highs) < 2 {
		return nil
	}

	uptrend := highs[1]+lows[1] >= highs[0]+lows[0]
	af := step
	var sar, ep float64
	if uptrend {
		sar = lows[0]
		ep = highs[1]
	} else {
		sar = highs[0]
		ep = lows[1]
	}

	out := make([]float64, 0, len(highs)-1)
	out = append(out, sar)

	for i := 2; i < len(highs); i++ {
		sar = sar + af*(ep-sar)

		if uptrend {
			// SAR may never rise above the prior two lows.
			if sar > lows[i-1] {
				sar = lows[i-1]
			}
			if sar > lows[i-2] {
				sar = lows[i-2]
			}
			if lows[i] < sar {
				uptrend = false
				sar = ep
				ep = lows[i]
				af = step
			} else if highs[i] > ep {
				ep = highs[i]
				if af+step <= max {
					af += step
				}
			}
		} else {
			if sar < highs[i-1] {
				sar = highs[i-1]
			}
			if sar < highs[i-2] {
				sar = highs[i-2]
			}
			if highs[i] > sar {
				uptrend = true
				sar = ep
				ep = highs[i]
				af = step
			} else if lows[i] < ep {
				ep = lows[i]
				if af+step <= max {
					af += step
				}
			}
		}

		out = append(out, sar)
	}
	return out
}
