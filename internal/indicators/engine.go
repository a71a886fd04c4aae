package indicators

import (
	"fmt"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

// Family names used as the top-level keys of every IndicatorSet. User
// configs select indicators by these names.
const (
	FamilyMA         = "Moving Average (MA)"
	FamilyRSI        = "Relative Strength Index (RSI)"
	FamilyMACD       = "MACD"
	FamilyBollinger  = "Bollinger Bands"
	FamilyStochastic = "Stochastic Oscillator"
	FamilyATR        = "ATR"
	FamilyPSAR       = "Parabolic SAR"
	FamilyIchimoku   = "Ichimoku Cloud"
	FamilyVolume     = "Volume Profile"
	FamilyFibonacci  = "Fibonacci Retracement"
)

// FamilyNames lists every family the engine produces, in output order.
var FamilyNames = []string{
	FamilyMA, FamilyRSI, FamilyMACD, FamilyBollinger, FamilyStochastic,
	FamilyATR, FamilyPSAR, FamilyIchimoku, FamilyVolume, FamilyFibonacci,
}

// Compute runs every configured indicator for the timeframe over the bar
// sequence. Pure and deterministic: identical bars and period tables yield
// identical output. Fails with InsufficientDataError when the sequence is
// shorter than any configured sub-indicator requires, or InvalidBarError
// when a bar is malformed; both are fatal for this instrument's refresh only.
func Compute(tf types.Timeframe, candles []types.Candle) (types.IndicatorSet, error) {
	if !tf.IsValid() {
		return nil, fmt.Errorf("unknown timeframe %q", tf)
	}
	if err := validateCandles(candles); err != nil {
		return nil, err
	}
	if need := requiredCandles(tf); len(candles) < need {
		return nil, &InsufficientDataError{Indicator: "period table", Need: need, Have: len(candles)}
	}

	d := extractCandleData(candles)
	set := make(types.IndicatorSet, 0, len(FamilyNames))

	maData := map[string]interface{}{}
	for _, period := range maSettings[tf] {
		maData[fmt.Sprintf("ma%d", period)] = tail(SMA(d.closes, period), seriesTail)
	}
	set = append(set, types.IndicatorFamily{Name: FamilyMA, Data: maData})

	rsiPeriod := rsiSettings[tf]
	set = append(set, types.IndicatorFamily{Name: FamilyRSI, Data: map[string]interface{}{
		fmt.Sprintf("rsi%d", rsiPeriod): tail(RSI(d.closes, rsiPeriod), seriesTail),
	}})

	mc := macdSettings[tf]
	macd := MACD(d.closes, mc.Fast, mc.Slow, mc.Signal)
	set = append(set, types.IndicatorFamily{Name: FamilyMACD, Data: map[string]interface{}{
		fmt.Sprintf("macd_%d_%d_%d", mc.Fast, mc.Slow, mc.Signal): map[string][]float64{
			"macd":      tail(macd.MACD, seriesTail),
			"signal":    tail(macd.Signal, seriesTail),
			"histogram": tail(macd.Histogram, seriesTail),
		},
	}})

	bc := bollingerSettings[tf]
	bb := BollingerBands(d.closes, bc.Period, bc.StdDev)
	set = append(set, types.IndicatorFamily{Name: FamilyBollinger, Data: map[string]interface{}{
		fmt.Sprintf("bollinger_%d_%g", bc.Period, bc.StdDev): map[string][]float64{
			"middle": tail(bb.Middle, seriesTail),
			"upper":  tail(bb.Upper, seriesTail),
			"lower":  tail(bb.Lower, seriesTail),
		},
	}})

	sc := stochasticSettings[tf]
	stoch := Stochastic(d.highs, d.lows, d.closes, sc.KPeriod, sc.DSmoothing)
	set = append(set, types.IndicatorFamily{Name: FamilyStochastic, Data: map[string]interface{}{
		fmt.Sprintf("stochastic_%d_%d", sc.KPeriod, sc.DSmoothing): map[string][]float64{
			"k": tail(stoch.K, seriesTail),
			"d": tail(stoch.D, seriesTail),
		},
	}})

	atrPeriod := atrSettings[tf]
	set = append(set, types.IndicatorFamily{Name: FamilyATR, Data: map[string]interface{}{
		fmt.Sprintf("atr%d", atrPeriod): tail(ATR(d.highs, d.lows, d.closes, atrPeriod), seriesTail),
	}})

	set = append(set, types.IndicatorFamily{Name: FamilyPSAR, Data: map[string]interface{}{
		"sar": tail(ParabolicSAR(d.highs, d.lows, psarStep, psarMax), seriesTail),
	}})

	ichimoku := Ichimoku(d.highs, d.lows, d.closes, ichimokuConversion, ichimokuBase, ichimokuSpan)
	set = append(set, types.IndicatorFamily{Name: FamilyIchimoku, Data: map[string]interface{}{
		fmt.Sprintf("ichimoku_%d_%d_%d", ichimokuConversion, ichimokuBase, ichimokuSpan): map[string][]float64{
			"tenkanSen":   tail(ichimoku.TenkanSen, seriesTail),
			"kijunSen":    tail(ichimoku.KijunSen, seriesTail),
			"senkouSpanA": tail(ichimoku.SenkouSpanA, seriesTail),
			"senkouSpanB": tail(ichimoku.SenkouSpanB, seriesTail),
			"chikouSpan":  tail(ichimoku.ChikouSpan, seriesTail),
		},
	}})

	set = append(set, types.IndicatorFamily{Name: FamilyVolume, Data: map[string]interface{}{
		"volumeProfile": ComputeVolumeProfile(d.highs, d.lows, d.closes, d.volumes, volumeProfileBins),
	}})

	fib, err := FibonacciRetracement(d.highs, d.lows)
	if err != nil {
		return nil, err
	}
	set = append(set, types.IndicatorFamily{Name: FamilyFibonacci, Data: map[string]interface{}{
		"Fibonacci_Retracement": fib,
	}})

	return set, nil
}
