package indicators

import (
	"math"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

// candleData is the column view of a bar sequence used by the calculators.
type candleData struct {
	opens   []float64
	highs   []float64
	lows    []float64
	closes  []float64
	volumes []float64
}

func extractCandleData(candles []types.Candle) candleData {
	d := candleData{
		opens:   make([]float64, len(candles)),
		highs:   make([]float64, len(candles)),
		lows:    make([]float64, len(candles)),
		closes:  make([]float64, len(candles)),
		volumes: make([]float64, len(candles)),
	}
	for i, c := range candles {
		d.opens[i] = c.Open
		d.highs[i] = c.High
		d.lows[i] = c.Low
		d.closes[i] = c.Close
		d.volumes[i] = c.Volume
	}
	return d
}

// validateCandles rejects bars with high < low or non-finite fields.
func validateCandles(candles []types.Candle) error {
	if len(candles) == 0 {
		return &InsufficientDataError{Indicator: "any", Need: 1, Have: 0}
	}
	for i, c := range candles {
		for _, v := range [...]float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &InvalidBarError{Index: i, Reason: "non-finite OHLCV field"}
			}
		}
		if c.High < c.Low {
			return &InvalidBarError{Index: i, Reason: "high < low"}
		}
	}
	return nil
}

// tail returns the last n elements of s (or s itself when shorter).
func tail(s []float64, n int) []float64 {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func highest(values []float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func lowest(values []float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
