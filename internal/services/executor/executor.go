// Package executor validates user orders and turns them into wallet
// transactions at the quoted fill price.
package executor

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/bitflow/internal/domain"
	"github.com/vadiminshakov/bitflow/internal/services/wallet"
	"go.uber.org/zap"
)

// Rejection reasons. Callers match with errors.Is; the wallet is never
// touched on a rejected order.
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// feeRate is the simulated network fee shown to the user. It is
// informational only and is never deducted from any balance.
var feeRate = decimal.NewFromFloat(0.001)

// tradeRecorder appends executed transactions to the trade log.
type tradeRecorder interface {
	Save(tx domain.Transaction) error
}

// Executor validates and fills market orders against the wallet.
// Every order is either filled in full at the quoted price or cleanly
// rejected; there are no partial fills.
type Executor struct {
	logger   *zap.Logger
	recorder tradeRecorder
}

// New creates an executor. recorder may be nil when no trade log is
// configured.
func New(logger *zap.Logger, recorder tradeRecorder) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{logger: logger, recorder: recorder}
}

// Execute fills a market order. rawAmount is USD to spend for a buy and
// BTC to sell for a sell. price must be the current positive market
// price; the caller serializes Execute with price ticks so the fill
// never races a price update.
func (e *Executor) Execute(kind domain.TradeKind, rawAmount string, price decimal.Decimal, w *wallet.Wallet) (domain.Transaction, error) {
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return domain.Transaction{}, errors.Wrapf(ErrInvalidAmount, "cannot parse %q", rawAmount)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.Transaction{}, errors.Wrapf(ErrInvalidAmount, "amount must be positive, got %s", amount.String())
	}

	usdBalance, btcBalance := w.Balances()

	var tx domain.Transaction
	switch kind {
	case domain.Buy:
		if amount.GreaterThan(usdBalance) {
			return domain.Transaction{}, errors.Wrapf(ErrInsufficientFunds,
				"need %s USD, have %s", amount.String(), usdBalance.String())
		}
		tx = domain.Transaction{
			ID:          uuid.New().String(),
			Kind:        domain.Buy,
			AmountUsd:   amount,
			AmountBtc:   amount.Div(price),
			PriceAtTime: price,
			Timestamp:   time.Now(),
		}
	case domain.Sell:
		if amount.GreaterThan(btcBalance) {
			return domain.Transaction{}, errors.Wrapf(ErrInsufficientFunds,
				"need %s BTC, have %s", amount.String(), btcBalance.String())
		}
		tx = domain.Transaction{
			ID:          uuid.New().String(),
			Kind:        domain.Sell,
			AmountUsd:   amount.Mul(price),
			AmountBtc:   amount,
			PriceAtTime: price,
			Timestamp:   time.Now(),
		}
	default:
		return domain.Transaction{}, errors.Wrapf(ErrInvalidAmount, "unknown trade kind: %d", kind)
	}

	w.Apply(tx)

	if e.recorder != nil {
		if err := e.recorder.Save(tx); err != nil {
			e.logger.Warn("failed to record transaction", zap.String("id", tx.ID), zap.Error(err))
		}
	}

	e.logger.Info("order filled",
		zap.String("id", tx.ID),
		zap.String("kind", tx.Kind.String()),
		zap.String("amount_usd", tx.AmountUsd.String()),
		zap.String("amount_btc", tx.AmountBtc.String()),
		zap.String("price", tx.PriceAtTime.String()))

	return tx, nil
}

// EstimateFee returns the simulated 0.1% network fee for display. For a
// buy the fee is quoted in BTC on the received amount, for a sell in
// USD on the proceeds.
func EstimateFee(kind domain.TradeKind, amount, price decimal.Decimal) decimal.Decimal {
	switch kind {
	case domain.Buy:
		return amount.Div(price).Mul(feeRate)
	case domain.Sell:
		return amount.Mul(price).Mul(feeRate)
	default:
		return decimal.Zero
	}
}
