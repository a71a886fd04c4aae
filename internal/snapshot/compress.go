package snapshot

import (
	"math"

	"github.com/Suharaz/MerkleAI/internal/indicators"
	"github.com/Suharaz/MerkleAI/pkg/types"
)

// slopeLookback is the fixed distance m used for the series slope:
// (last - series[len-1-m]) / m.
const slopeLookback = 10

// Compress reduces a full IndicatorSet to its compact summary form: every
// numeric series becomes {last_value, slope}, volume profiles become
// {peak_price_level, mean_price, total_volume}, and Fibonacci levels pass
// through unchanged. Lossy, deterministic and idempotent in effect; the
// distinct result type prevents re-compression.
func Compress(set types.IndicatorSet) types.CompressedIndicator {
	out := make(types.CompressedIndicator, 0, len(set))

	for _, family := range set {
		compressed := types.CompressedFamily{
			Name: family.Name,
			Data: make(map[string]interface{}, len(family.Data)),
		}

		for subKey, value := range family.Data {
			switch v := value.(type) {
			case []float64:
				compressed.Data[subKey] = summarizeSeries(v)
			case map[string][]float64:
				inner := make(map[string]types.SeriesSummary, len(v))
				for name, series := range v {
					inner[name] = summarizeSeries(series)
				}
				compressed.Data[subKey] = inner
			case indicators.VolumeProfile:
				compressed.Data[subKey] = summarizeVolumeProfile(v)
			default:
				// Scalar records (Fibonacci levels) pass through.
				compressed.Data[subKey] = value
			}
		}

		out = append(out, compressed)
	}
	return out
}

// summarizeSeries emits the last value and fixed-lookback slope of a series.
// Trailing NaN sentinels (the Ichimoku lagging span's out-of-range tail) are
// skipped so summaries stay finite and JSON-encodable. Slope is 0 when the
// series is shorter than the lookback plus one.
func summarizeSeries(series []float64) types.SeriesSummary {
	end := len(series)
	for end > 0 && math.IsNaN(series[end-1]) {
		end--
	}
	if end == 0 {
		return types.SeriesSummary{}
	}

	last := series[end-1]
	if end < slopeLookback+1 {
		return types.SeriesSummary{LastValue: last}
	}
	ago := series[end-1-slopeLookback]
	if math.IsNaN(ago) {
		return types.SeriesSummary{LastValue: last}
	}
	return types.SeriesSummary{
		LastValue: last,
		Slope:     (last - ago) / slopeLookback,
	}
}

func summarizeVolumeProfile(vp indicators.VolumeProfile) types.VolumeProfileSummary {
	if len(vp.Volumes) == 0 {
		return types.VolumeProfileSummary{}
	}

	total := 0.0
	weighted := 0.0
	peak := 0
	for i, vol := range vp.Volumes {
		total += vol
		weighted += vp.PriceLevels[i] * vol
		if vol > vp.Volumes[peak] {
			peak = i
		}
	}

	summary := types.VolumeProfileSummary{
		PeakPriceLevel: vp.PriceLevels[peak],
		TotalVolume:    total,
	}
	if total > 0 {
		summary.MeanPrice = weighted / total
	}
	return summary
}
