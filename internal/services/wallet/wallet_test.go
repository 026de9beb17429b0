package wallet

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/bitflow/internal/domain"
	"go.uber.org/zap"
)

func newTestWallet() *Wallet {
	return NewWallet(decimal.NewFromInt(10000), decimal.Zero, zap.NewNop())
}

func buyTx(id string, usd, btc, price decimal.Decimal) domain.Transaction {
	return domain.Transaction{
		ID: id, Kind: domain.Buy,
		AmountUsd: usd, AmountBtc: btc, PriceAtTime: price,
		Timestamp: time.Now(),
	}
}

func sellTx(id string, usd, btc, price decimal.Decimal) domain.Transaction {
	return domain.Transaction{
		ID: id, Kind: domain.Sell,
		AmountUsd: usd, AmountBtc: btc, PriceAtTime: price,
		Timestamp: time.Now(),
	}
}

func TestWalletApplyBuy(t *testing.T) {
	w := newTestWallet()
	price := decimal.NewFromInt(64500)
	usd := decimal.NewFromInt(1000)
	btc := usd.Div(price)

	w.Apply(buyTx("tx1", usd, btc, price))

	usdBalance, btcBalance := w.Balances()
	require.True(t, usdBalance.Equal(decimal.NewFromInt(9000)))
	require.True(t, btcBalance.Equal(btc))
}

func TestWalletApplySell(t *testing.T) {
	w := NewWallet(decimal.NewFromInt(9000), decimal.NewFromFloat(0.0155), zap.NewNop())
	price := decimal.NewFromInt(64500)
	btc := decimal.NewFromFloat(0.0155)
	usd := btc.Mul(price)

	w.Apply(sellTx("tx1", usd, btc, price))

	usdBalance, btcBalance := w.Balances()
	require.True(t, usdBalance.Equal(decimal.NewFromInt(9000).Add(usd)))
	require.True(t, btcBalance.IsZero())
}

func TestWalletLedgerMostRecentFirst(t *testing.T) {
	w := newTestWallet()
	price := decimal.NewFromInt(64500)

	w.Apply(buyTx("first", decimal.NewFromInt(100), decimal.NewFromInt(100).Div(price), price))
	w.Apply(buyTx("second", decimal.NewFromInt(200), decimal.NewFromInt(200).Div(price), price))

	ledger := w.Transactions()
	require.Len(t, ledger, 2)
	require.Equal(t, "second", ledger[0].ID)
	require.Equal(t, "first", ledger[1].ID)
}

// Folding the ledger oldest-first over the initial balances must
// reproduce the current balances exactly.
func TestWalletFoldReconstructsBalances(t *testing.T) {
	w := newTestWallet()
	price := decimal.NewFromInt(64500)

	amounts := []int64{1000, 250, 4000}
	for i, a := range amounts {
		usd := decimal.NewFromInt(a)
		w.Apply(buyTx(string(rune('a'+i)), usd, usd.Div(price), price))
	}
	// sell a portion back
	_, btcBalance := w.Balances()
	sellBtc := btcBalance.Div(decimal.NewFromInt(2))
	w.Apply(sellTx("z", sellBtc.Mul(price), sellBtc, price))

	initialUsd, initialBtc := w.InitialBalances()
	foldUsd, foldBtc := initialUsd, initialBtc

	ledger := w.Transactions()
	for i := len(ledger) - 1; i >= 0; i-- {
		tx := ledger[i]
		switch tx.Kind {
		case domain.Buy:
			foldUsd = foldUsd.Sub(tx.AmountUsd)
			foldBtc = foldBtc.Add(tx.AmountBtc)
		case domain.Sell:
			foldUsd = foldUsd.Add(tx.AmountUsd)
			foldBtc = foldBtc.Sub(tx.AmountBtc)
		}
	}

	usdBalance, btcBalance := w.Balances()
	require.True(t, foldUsd.Equal(usdBalance), "usd fold %s != %s", foldUsd, usdBalance)
	require.True(t, foldBtc.Equal(btcBalance), "btc fold %s != %s", foldBtc, btcBalance)
}

func TestWalletEquity(t *testing.T) {
	w := newTestWallet()
	price := decimal.NewFromInt(64500)

	require.True(t, w.Equity(price).Equal(decimal.NewFromInt(10000)))

	usd := decimal.NewFromInt(1000)
	w.Apply(buyTx("tx1", usd, usd.Div(price), price))

	// buying at the quoted price leaves equity unchanged up to rounding
	diff := w.Equity(price).Sub(decimal.NewFromInt(10000)).Abs()
	require.True(t, diff.LessThan(decimal.New(1, -8)), "equity drifted by %s", diff)
}
