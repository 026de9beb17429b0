// Package indicators provides technical analysis indicators (EMA, RSI,
// SMA) computed over the simulated price window.
package indicators

import (
	"fmt"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"
	"github.com/shopspring/decimal"
)

// Summary holds the latest indicator values for advisory prompts.
type Summary struct {
	// SMA is the simple moving average over the full window.
	SMA decimal.Decimal
	// EMA10 is the 10-period Exponential Moving Average.
	EMA10 decimal.Decimal
	// RSI14 is the 14-period Relative Strength Index.
	RSI14 decimal.Decimal
}

// CalculateEMA calculates the Exponential Moving Average for the given period.
func CalculateEMA(prices []decimal.Decimal, period int) ([]decimal.Decimal, error) {
	if len(prices) < period {
		return nil, fmt.Errorf("not enough data points: need %d, got %d", period, len(prices))
	}

	pricesFloat := decimalsToFloat64(prices)

	ema := trend.NewEmaWithPeriod[float64](period)
	inputChan := helper.SliceToChan(pricesFloat)
	outputChan := ema.Compute(inputChan)
	emaFloat := helper.ChanToSlice(outputChan)

	return float64ToDecimals(emaFloat), nil
}

// CalculateRSI calculates the Relative Strength Index for the given period.
func CalculateRSI(prices []decimal.Decimal, period int) ([]decimal.Decimal, error) {
	if len(prices) < period+1 {
		return nil, fmt.Errorf("not enough data points for RSI: need %d, got %d", period+1, len(prices))
	}

	pricesFloat := decimalsToFloat64(prices)

	rsi := momentum.NewRsiWithPeriod[float64](period)
	inputChan := helper.SliceToChan(pricesFloat)
	outputChan := rsi.Compute(inputChan)
	rsiFloat := helper.ChanToSlice(outputChan)

	return float64ToDecimals(rsiFloat), nil
}

// CalculateSMA calculates the simple moving average over all prices.
func CalculateSMA(prices []decimal.Decimal) (decimal.Decimal, error) {
	if len(prices) == 0 {
		return decimal.Decimal{}, fmt.Errorf("no data points for SMA")
	}

	sum := decimal.Zero
	for _, p := range prices {
		sum = sum.Add(p)
	}
	return sum.Div(decimal.NewFromInt(int64(len(prices)))), nil
}

// Summarize computes the latest indicator values for the price window.
// Indicators that lack enough data points are left at zero.
func Summarize(prices []decimal.Decimal) Summary {
	var summary Summary

	if sma, err := CalculateSMA(prices); err == nil {
		summary.SMA = sma
	}
	if ema, err := CalculateEMA(prices, 10); err == nil && len(ema) > 0 {
		summary.EMA10 = ema[len(ema)-1]
	}
	if rsi, err := CalculateRSI(prices, 14); err == nil && len(rsi) > 0 {
		summary.RSI14 = rsi[len(rsi)-1]
	}

	return summary
}

func decimalsToFloat64(values []decimal.Decimal) []float64 {
	result := make([]float64, len(values))
	for i, v := range values {
		result[i], _ = v.Float64()
	}
	return result
}

func float64ToDecimals(values []float64) []decimal.Decimal {
	result := make([]decimal.Decimal, len(values))
	for i, v := range values {
		result[i] = decimal.NewFromFloat(v)
	}
	return result
}
