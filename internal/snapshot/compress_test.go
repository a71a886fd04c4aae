package snapshot

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Suharaz/MerkleAI/internal/indicators"
	"github.com/Suharaz/MerkleAI/pkg/types"
)

func TestCompress_SeriesSummary(t *testing.T) {
	series := make([]float64, 20)
	for i := range series {
		series[i] = float64(i) * 2 // constant slope of 2
	}

	set := types.IndicatorSet{
		{Name: "Moving Average (MA)", Data: map[string]interface{}{"ma10": series}},
	}

	out := Compress(set)
	require.Len(t, out, 1)

	summary, ok := out[0].Data["ma10"].(types.SeriesSummary)
	require.True(t, ok)
	assert.InDelta(t, 38.0, summary.LastValue, 1e-9)
	assert.InDelta(t, 2.0, summary.Slope, 1e-9)
}

func TestCompress_ShortSeriesHasZeroSlope(t *testing.T) {
	set := types.IndicatorSet{
		{Name: "ATR", Data: map[string]interface{}{"atr14": []float64{1, 2, 3}}},
	}

	out := Compress(set)
	summary := out[0].Data["atr14"].(types.SeriesSummary)
	assert.InDelta(t, 3.0, summary.LastValue, 1e-9)
	assert.Zero(t, summary.Slope)
}

func TestCompress_TrimsTrailingNaN(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5, math.NaN(), math.NaN()}
	set := types.IndicatorSet{
		{Name: "Ichimoku Cloud", Data: map[string]interface{}{
			"ichimoku_9_26_52": map[string][]float64{"chikouSpan": series},
		}},
	}

	out := Compress(set)
	inner := out[0].Data["ichimoku_9_26_52"].(map[string]types.SeriesSummary)
	assert.InDelta(t, 5.0, inner["chikouSpan"].LastValue, 1e-9)

	// The compressed form must survive JSON encoding despite NaN input.
	_, err := json.Marshal(out)
	assert.NoError(t, err)
}

func TestCompress_VolumeProfileSummary(t *testing.T) {
	vp := indicators.VolumeProfile{
		PriceLevels: []float64{10, 20, 30},
		Volumes:     []float64{5, 50, 10},
	}
	set := types.IndicatorSet{
		{Name: "Volume Profile", Data: map[string]interface{}{"volumeProfile": vp}},
	}

	out := Compress(set)
	summary := out[0].Data["volumeProfile"].(types.VolumeProfileSummary)
	assert.InDelta(t, 20.0, summary.PeakPriceLevel, 1e-9)
	assert.InDelta(t, 65.0, summary.TotalVolume, 1e-9)
	assert.InDelta(t, (10*5+20*50+30*10)/65.0, summary.MeanPrice, 1e-9)
}

func TestCompress_ScalarRecordsPassThrough(t *testing.T) {
	levels := map[string]float64{"level0": 120, "level100": 90}
	set := types.IndicatorSet{
		{Name: "Fibonacci Retracement", Data: map[string]interface{}{"Fibonacci_Retracement": levels}},
	}

	out := Compress(set)
	assert.Equal(t, levels, out[0].Data["Fibonacci_Retracement"])
}

func TestCompress_PreservesFamilyOrder(t *testing.T) {
	set := types.IndicatorSet{
		{Name: "first", Data: map[string]interface{}{"a": []float64{1}}},
		{Name: "second", Data: map[string]interface{}{"b": []float64{2}}},
	}

	out := Compress(set)
	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Name)
	assert.Equal(t, "second", out[1].Name)
}
