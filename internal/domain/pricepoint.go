// Package domain defines core data structures of the trading sandbox.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is a single timestamped sample of the simulated price.
// Immutable once created.
type PricePoint struct {
	// Timestamp moment the sample was taken.
	Timestamp time.Time `json:"ts"`
	// Price simulated market price, always positive.
	Price decimal.Decimal `json:"price"`
}
