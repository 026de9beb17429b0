// Package market simulates a short-horizon market price series.
package market

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/bitflow/internal/domain"
)

var pointFive = decimal.NewFromFloat(0.5)

// Process generates the synthetic price series as a bounded
// proportional random walk.
type Process struct {
	volatility decimal.Decimal
	seedSpread decimal.Decimal
	interval   time.Duration
	rnd        *rand.Rand
}

// NewProcess creates a price process. Each tick perturbs the price by at
// most volatility/2 of its current value, so with any realistic
// volatility (the default is 0.0005) the series stays strictly positive
// without a hard floor. seedSpread bounds the proportional jitter of
// the pre-populated points around the seed price.
func NewProcess(volatility, seedSpread decimal.Decimal, interval time.Duration) *Process {
	return &Process{
		volatility: volatility,
		seedSpread: seedSpread,
		interval:   interval,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Interval returns the tick interval the process is configured with.
func (p *Process) Interval() time.Duration {
	return p.interval
}

// Next computes the price after one tick:
// next = current + current * volatility * (U - 0.5), U uniform in [0,1).
func (p *Process) Next(current decimal.Decimal) decimal.Decimal {
	u := decimal.NewFromFloat(p.rnd.Float64()).Sub(pointFive)
	return current.Add(current.Mul(p.volatility).Mul(u))
}

// Seed generates numPoints price points around seedPrice, spaced one
// tick interval apart and ending at now. Charts and advisory prompts
// get immediate context this way instead of starting from an empty
// window.
func (p *Process) Seed(seedPrice decimal.Decimal, numPoints int, now time.Time) []domain.PricePoint {
	if numPoints <= 0 {
		return nil
	}

	points := make([]domain.PricePoint, 0, numPoints)
	for i := numPoints; i > 0; i-- {
		u := decimal.NewFromFloat(p.rnd.Float64()).Sub(pointFive)
		price := seedPrice.Add(seedPrice.Mul(p.seedSpread).Mul(u))
		points = append(points, domain.PricePoint{
			Timestamp: now.Add(-time.Duration(i-1) * p.interval),
			Price:     price,
		})
	}

	return points
}
