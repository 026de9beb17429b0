// Package wallet holds the authoritative balances and transaction
// ledger of a trading session.
package wallet

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/bitflow/internal/domain"
	"go.uber.org/zap"
)

// Wallet is the paper-trading wallet. Both balances stay non-negative
// as long as every transaction passes executor validation first: Apply
// performs no checks of its own.
type Wallet struct {
	mu           sync.RWMutex
	logger       *zap.Logger
	initialUsd   decimal.Decimal
	initialBtc   decimal.Decimal
	usd          decimal.Decimal
	btc          decimal.Decimal
	transactions []domain.Transaction // most-recent-first
}

// NewWallet creates a wallet with the given starting balances.
func NewWallet(initialUsd, initialBtc decimal.Decimal, logger *zap.Logger) *Wallet {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Wallet{
		logger:     logger,
		initialUsd: initialUsd,
		initialBtc: initialBtc,
		usd:        initialUsd,
		btc:        initialBtc,
	}
	logger.Info("wallet init",
		zap.String("usd", initialUsd.String()),
		zap.String("btc", initialBtc.String()))
	return w
}

// Apply atomically updates the balances for the transaction and
// prepends it to the ledger. The executor is the only caller and has
// already validated solvency, so balances never go negative here.
func (w *Wallet) Apply(tx domain.Transaction) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch tx.Kind {
	case domain.Buy:
		w.usd = w.usd.Sub(tx.AmountUsd)
		w.btc = w.btc.Add(tx.AmountBtc)
	case domain.Sell:
		w.usd = w.usd.Add(tx.AmountUsd)
		w.btc = w.btc.Sub(tx.AmountBtc)
	}

	w.transactions = append([]domain.Transaction{tx}, w.transactions...)

	w.logger.Info("transaction applied",
		zap.String("id", tx.ID),
		zap.String("kind", tx.Kind.String()),
		zap.String("amount_usd", tx.AmountUsd.String()),
		zap.String("amount_btc", tx.AmountBtc.String()),
		zap.String("price", tx.PriceAtTime.String()),
		zap.String("usd_balance", w.usd.String()),
		zap.String("btc_balance", w.btc.String()))
}

// Balances returns the current USD and BTC balances.
func (w *Wallet) Balances() (usd, btc decimal.Decimal) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.usd, w.btc
}

// InitialBalances returns the balances the wallet started with.
func (w *Wallet) InitialBalances() (usd, btc decimal.Decimal) {
	return w.initialUsd, w.initialBtc
}

// Transactions returns a copy of the ledger, most recent first.
func (w *Wallet) Transactions() []domain.Transaction {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ledger := make([]domain.Transaction, len(w.transactions))
	copy(ledger, w.transactions)
	return ledger
}

// Equity returns the total wallet value in USD at the given price.
func (w *Wallet) Equity(price decimal.Decimal) decimal.Decimal {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.usd.Add(w.btc.Mul(price))
}

// Summary returns a short human-readable wallet state used in advisory
// prompts.
func (w *Wallet) Summary() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return fmt.Sprintf("%s USD, %s BTC, %d transactions",
		w.usd.StringFixed(2), w.btc.String(), len(w.transactions))
}
