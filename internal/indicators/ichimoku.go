package indicators

import "math"

// IchimokuResult holds the five Ichimoku Cloud series. TenkanSen, KijunSen,
// SenkouSpanA and SenkouSpanB are aligned from the first bar with a full
// span window. ChikouSpan spans the whole input; positions whose shift
// window runs past the end of the data hold NaN.
type IchimokuResult struct {
	TenkanSen   []float64
	KijunSen    []float64
	SenkouSpanA []float64
	SenkouSpanB []float64
	ChikouSpan  []float64
}

// Ichimoku computes the Ichimoku Cloud with conversion/base/span windows.
// The lagging (chikou) span is the close shifted backward by the base
// period, NaN-filled where out of range.
func Ichimoku(highs, lows, closes []float64, conversion, base, span int) IchimokuResult {
	if len(closes) < span {
		return IchimokuResult{}
	}

	midpoint := func(i, period int) float64 {
		hh := highest(highs[i-period+1 : i+1])
		ll := lowest(lows[i-period+1 : i+1])
		return (hh + ll) / 2
	}

	n := len(closes) - span + 1
	res := IchimokuResult{
		TenkanSen:   make([]float64, n),
		KijunSen:    make([]float64, n),
		SenkouSpanA: make([]float64, n),
		SenkouSpanB: make([]float64, n),
		ChikouSpan:  make([]float64, len(closes)),
	}

	for i := span - 1; i < len(closes); i++ {
		j := i - span + 1
		res.TenkanSen[j] = midpoint(i, conversion)
		res.KijunSen[j] = midpoint(i, base)
		res.SenkouSpanA[j] = (res.TenkanSen[j] + res.KijunSen[j]) / 2
		res.SenkouSpanB[j] = midpoint(i, span)
	}

	for i := range res.ChikouSpan {
		if i+base < len(closes) {
			res.ChikouSpan[i] = closes[i+base]
		} else {
			res.ChikouSpan[i] = math.NaN()
		}
	}
	return res
}
