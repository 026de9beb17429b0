package market

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestProcessNextStaysWithinVolatilityBound(t *testing.T) {
	volatility := decimal.NewFromFloat(0.0005)
	process := NewProcess(volatility, decimal.NewFromFloat(0.015), time.Second)

	price := decimal.NewFromInt(64500)
	maxStep := price.Mul(volatility).Mul(decimal.NewFromFloat(0.5))

	for i := 0; i < 1000; i++ {
		next := process.Next(price)

		require.True(t, next.IsPositive(), "price must stay positive")
		diff := next.Sub(price).Abs()
		require.True(t, diff.LessThanOrEqual(maxStep),
			"step %s exceeds bound %s", diff.String(), maxStep.String())

		price = next
	}
}

func TestProcessSeed(t *testing.T) {
	seedPrice := decimal.NewFromInt(64500)
	spread := decimal.NewFromFloat(0.015)
	interval := 3 * time.Second
	process := NewProcess(decimal.NewFromFloat(0.0005), spread, interval)

	now := time.Now()
	points := process.Seed(seedPrice, 20, now)

	require.Len(t, points, 20)
	require.True(t, points[len(points)-1].Timestamp.Equal(now), "last point must land at now")

	maxJitter := seedPrice.Mul(spread).Mul(decimal.NewFromFloat(0.5))
	for i, point := range points {
		require.True(t, point.Price.IsPositive())
		require.True(t, point.Price.Sub(seedPrice).Abs().LessThanOrEqual(maxJitter),
			"point %d drifted outside the seed spread", i)

		if i > 0 {
			require.Equal(t, interval, point.Timestamp.Sub(points[i-1].Timestamp))
		}
	}
}

func TestProcessSeedEmpty(t *testing.T) {
	process := NewProcess(decimal.NewFromFloat(0.0005), decimal.NewFromFloat(0.015), time.Second)

	require.Nil(t, process.Seed(decimal.NewFromInt(100), 0, time.Now()))
	require.Nil(t, process.Seed(decimal.NewFromInt(100), -5, time.Now()))
}
