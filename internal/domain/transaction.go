package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TradeKind represents the direction of an executed trade.
type TradeKind int

const (
	Buy TradeKind = iota
	Sell
)

const (
	tradeKindStringBuy  = "BUY"
	tradeKindStringSell = "SELL"
)

// String returns the string representation of the trade kind.
func (k TradeKind) String() string {
	switch k {
	case Buy:
		return tradeKindStringBuy
	case Sell:
		return tradeKindStringSell
	default:
		return "unknown"
	}
}

// Transaction is an immutable record of a filled market order.
// AmountBtc always equals AmountUsd divided by PriceAtTime: the fill
// price is fixed at execution and never recomputed.
type Transaction struct {
	// ID unique identifier within a session.
	ID string `json:"id"`
	// Kind buy or sell.
	Kind TradeKind `json:"kind"`
	// AmountUsd traded value in quote currency.
	AmountUsd decimal.Decimal `json:"amount_usd"`
	// AmountBtc traded value in base currency.
	AmountBtc decimal.Decimal `json:"amount_btc"`
	// PriceAtTime fill price quoted at execution.
	PriceAtTime decimal.Decimal `json:"price_at_time"`
	// Timestamp execution time.
	Timestamp time.Time `json:"ts"`
}

// String returns a human-readable string representation.
func (t *Transaction) String() string {
	return fmt.Sprintf("%s %s USD (%s BTC) at %s",
		t.Kind.String(), t.AmountUsd.String(), t.AmountBtc.String(), t.PriceAtTime.String())
}

// TransactionRecord bundles a transaction with its position in the trade log.
type TransactionRecord struct {
	Index       uint64
	Transaction Transaction
}
