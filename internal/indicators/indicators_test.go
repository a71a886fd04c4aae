package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA_KnownValues(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	result := SMA(values, 3)

	require.Len(t, result, 3)
	assert.InDelta(t, 2.0, result[0], 1e-9)
	assert.InDelta(t, 3.0, result[1], 1e-9)
	assert.InDelta(t, 4.0, result[2], 1e-9)
}

func TestSMA_InsufficientData(t *testing.T) {
	assert.Empty(t, SMA([]float64{1, 2}, 3))
}

func TestEMA_SeededWithSMA(t *testing.T) {
	values := []float64{2, 4, 6, 8, 10}
	result := EMA(values, 3)

	require.Len(t, result, 3)
	// First EMA value equals the SMA of the first window.
	assert.InDelta(t, 4.0, result[0], 1e-9)
	// EMA trails the raw value on a rising series.
	assert.Less(t, result[2], 10.0)
	assert.Greater(t, result[2], result[1])
}

func TestRSI_MonotonicSeries(t *testing.T) {
	rising := make([]float64, 30)
	falling := make([]float64, 30)
	for i := range rising {
		rising[i] = float64(100 + i)
		falling[i] = float64(100 - i)
	}

	up := RSI(rising, 14)
	down := RSI(falling, 14)

	require.NotEmpty(t, up)
	require.NotEmpty(t, down)
	// All gains pins RSI at 100, all losses at 0.
	assert.InDelta(t, 100.0, up[len(up)-1], 1e-9)
	assert.InDelta(t, 0.0, down[len(down)-1], 1e-9)
}

func TestRSI_BoundedOnMixedSeries(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 100 + 5*math.Sin(float64(i)/3)
	}

	result := RSI(values, 14)
	require.NotEmpty(t, result)
	for _, v := range result {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestMACD_SeriesAligned(t *testing.T) {
	values := make([]float64, 80)
	for i := range values {
		values[i] = 100 + float64(i)*0.5 + 3*math.Sin(float64(i)/5)
	}

	result := MACD(values, 12, 26, 9)

	require.NotEmpty(t, result.MACD)
	require.Len(t, result.Signal, len(result.Histogram))
	// Histogram is the difference between the aligned MACD tail and signal.
	offset := len(result.MACD) - len(result.Signal)
	for i := range result.Signal {
		assert.InDelta(t, result.MACD[offset+i]-result.Signal[i], result.Histogram[i], 1e-9)
	}
}

func TestBollingerBands_Ordering(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 100 + 4*math.Sin(float64(i)/2)
	}

	bb := BollingerBands(values, 20, 2)

	require.NotEmpty(t, bb.Middle)
	require.Len(t, bb.Upper, len(bb.Middle))
	require.Len(t, bb.Lower, len(bb.Middle))
	for i := range bb.Middle {
		assert.GreaterOrEqual(t, bb.Upper[i], bb.Middle[i])
		assert.LessOrEqual(t, bb.Lower[i], bb.Middle[i])
	}
}

func TestBollingerBands_FlatSeriesCollapses(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 42
	}

	bb := BollingerBands(values, 20, 2)
	require.NotEmpty(t, bb.Middle)
	last := len(bb.Middle) - 1
	assert.InDelta(t, 42.0, bb.Upper[last], 1e-9)
	assert.InDelta(t, 42.0, bb.Lower[last], 1e-9)
}

func TestStochastic_FlatWindowReturnsMidpoint(t *testing.T) {
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i], lows[i], closes[i] = 50, 50, 50
	}

	stoch := Stochastic(highs, lows, closes, 5, 3)
	require.NotEmpty(t, stoch.K)
	for _, k := range stoch.K {
		assert.InDelta(t, 50.0, k, 1e-9)
	}
}

func TestATR_PositiveAndBounded(t *testing.T) {
	n := 40
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		base := 100 + float64(i)*0.2
		highs[i] = base + 2
		lows[i] = base - 2
		closes[i] = base
	}

	atr := ATR(highs, lows, closes, 14)
	require.NotEmpty(t, atr)
	for _, v := range atr {
		assert.Greater(t, v, 0.0)
		assert.Less(t, v, 10.0)
	}
}

func TestParabolicSAR_StaysOutsidePrice(t *testing.T) {
	n := 30
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 100 + float64(i) + 1
		lows[i] = 100 + float64(i) - 1
	}

	sar := ParabolicSAR(highs, lows, 0.02, 0.2)
	require.Len(t, sar, n-1)
	// In a steady uptrend the SAR trails below the corresponding bar's low.
	for i := 2; i < len(sar); i++ {
		assert.LessOrEqual(t, sar[i], lows[i+1])
	}
}

func TestIchimoku_ChikouSpanShifted(t *testing.T) {
	n := 80
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		base := 100 + 3*math.Sin(float64(i)/4)
		highs[i] = base + 1
		lows[i] = base - 1
		closes[i] = base
	}

	result := Ichimoku(highs, lows, closes, 9, 26, 52)

	require.Len(t, result.ChikouSpan, n)
	// Lagging span mirrors close shifted back; the final 26 slots are unset.
	assert.InDelta(t, closes[26], result.ChikouSpan[0], 1e-9)
	assert.True(t, math.IsNaN(result.ChikouSpan[n-1]))
}

func TestFibonacciRetracement_Levels(t *testing.T) {
	highs := []float64{100, 110, 120}
	lows := []float64{90, 95, 100}

	levels, err := FibonacciRetracement(highs, lows)
	require.NoError(t, err)

	assert.InDelta(t, 120.0, levels["level0"], 1e-9)
	assert.InDelta(t, 90.0, levels["level100"], 1e-9)
	assert.InDelta(t, 120-0.5*30, levels["level50"], 1e-9)
}

func TestFibonacciRetracement_InvalidRange(t *testing.T) {
	_, err := FibonacciRetracement([]float64{100}, []float64{100})
	assert.ErrorIs(t, err, ErrFibonacciRange)
}

func TestVolumeProfile_ConservesVolume(t *testing.T) {
	n := 50
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	var total float64
	for i := 0; i < n; i++ {
		base := 100 + 10*math.Sin(float64(i)/3)
		highs[i] = base + 1
		lows[i] = base - 1
		closes[i] = base
		volumes[i] = float64(10 + i%7)
		total += volumes[i]
	}

	profile := ComputeVolumeProfile(highs, lows, closes, volumes, 10)

	require.Len(t, profile.PriceLevels, 10)
	require.Len(t, profile.Volumes, 10)

	var binned float64
	for _, v := range profile.Volumes {
		binned += v
	}
	assert.InDelta(t, total, binned, 1e-6)
}
