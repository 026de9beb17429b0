package internal

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/bitflow/config"
	"github.com/vadiminshakov/bitflow/internal/domain"
	"github.com/vadiminshakov/bitflow/internal/services/advisor"
	"github.com/vadiminshakov/bitflow/internal/services/executor"
	"github.com/vadiminshakov/bitflow/internal/services/wallet"
	"go.uber.org/zap"
)

func testConfig() config.Config {
	return config.Config{
		InitialUsd:       decimal.NewFromInt(10000),
		InitialBtc:       decimal.Zero,
		SeedPrice:        decimal.NewFromInt(64500),
		Volatility:       decimal.NewFromFloat(0.0005),
		SeedSpread:       decimal.NewFromFloat(0.015),
		SeedPoints:       20,
		HistoryCapacity:  30,
		TickInterval:     10 * time.Millisecond,
		AdvisoryInterval: time.Hour,
	}
}

func newTestSession(t *testing.T, conf config.Config) *Session {
	t.Helper()

	logger := zap.NewNop()
	w := wallet.NewWallet(conf.InitialUsd, conf.InitialBtc, logger)
	exec := executor.New(logger, nil)
	adv := advisor.NewAdvisor(advisor.NewGateway(nil, logger), nil, logger)

	return NewSession(conf, w, exec, adv, logger)
}

func TestNewSessionSeedsHistory(t *testing.T) {
	conf := testConfig()
	s := newTestSession(t, conf)

	history := s.HistorySnapshot()
	require.Len(t, history, conf.SeedPoints)

	for i := 1; i < len(history); i++ {
		require.False(t, history[i].Timestamp.Before(history[i-1].Timestamp))
	}

	// current price matches the newest seeded point
	require.True(t, s.CurrentPrice().Equal(history[len(history)-1].Price))

	spread := conf.SeedPrice.Mul(conf.SeedSpread)
	for _, p := range history {
		require.True(t, p.Price.Sub(conf.SeedPrice).Abs().LessThanOrEqual(spread),
			"seed price %s outside spread around %s", p.Price, conf.SeedPrice)
	}
}

func TestSessionRunBoundsHistory(t *testing.T) {
	conf := testConfig()
	conf.HistoryCapacity = 10
	s := newTestSession(t, conf)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		history := s.HistorySnapshot()
		return len(history) == conf.HistoryCapacity &&
			history[len(history)-1].Timestamp.After(time.Now().Add(-time.Second))
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("session did not stop after cancellation")
	}

	history := s.HistorySnapshot()
	require.Len(t, history, conf.HistoryCapacity)
	for i := 1; i < len(history); i++ {
		require.False(t, history[i].Timestamp.Before(history[i-1].Timestamp))
	}
}

func TestSessionPlaceOrder(t *testing.T) {
	conf := testConfig()

	t.Run("buy fills at the current price", func(t *testing.T) {
		s := newTestSession(t, conf)
		price := s.CurrentPrice()

		tx, err := s.PlaceOrder(domain.Buy, "1000")
		require.NoError(t, err)
		require.Equal(t, domain.Buy, tx.Kind)
		require.True(t, tx.PriceAtTime.Equal(price))

		usd, btc := s.Wallet().Balances()
		require.True(t, usd.Equal(decimal.NewFromInt(9000)))
		require.True(t, btc.Equal(tx.AmountBtc))
	})

	t.Run("rejections leave the wallet untouched", func(t *testing.T) {
		s := newTestSession(t, conf)

		_, err := s.PlaceOrder(domain.Buy, "999999")
		require.ErrorIs(t, err, executor.ErrInsufficientFunds)

		_, err = s.PlaceOrder(domain.Sell, "0.5")
		require.ErrorIs(t, err, executor.ErrInsufficientFunds)

		_, err = s.PlaceOrder(domain.Buy, "not-a-number")
		require.ErrorIs(t, err, executor.ErrInvalidAmount)

		usd, btc := s.Wallet().Balances()
		require.True(t, usd.Equal(conf.InitialUsd))
		require.True(t, btc.IsZero())
		require.Empty(t, s.Wallet().Transactions())
	})
}

func TestSessionSnapshot(t *testing.T) {
	conf := testConfig()
	s := newTestSession(t, conf)

	_, err := s.PlaceOrder(domain.Buy, "1000")
	require.NoError(t, err)

	overview := s.Snapshot()
	require.Equal(t, s.CurrentPrice().StringFixed(2), overview.Price)
	require.Equal(t, "9000.00", overview.UsdBalance)
	require.NotEmpty(t, overview.Sentiment)

	// equity folds the BTC position back in at the current price, so a
	// fee-less fill keeps it at the initial bankroll
	equity, err := decimal.NewFromString(overview.Equity)
	require.NoError(t, err)
	require.True(t, equity.Sub(conf.InitialUsd).Abs().LessThan(decimal.NewFromFloat(0.01)),
		"equity %s drifted from %s", equity, conf.InitialUsd)
}

func TestSessionEstimateFee(t *testing.T) {
	conf := testConfig()
	s := newTestSession(t, conf)

	price := s.CurrentPrice()
	feeRate := decimal.NewFromFloat(0.001)

	buyFee := s.EstimateFee(domain.Buy, decimal.NewFromInt(1000))
	require.True(t, buyFee.Equal(decimal.NewFromInt(1000).Div(price).Mul(feeRate)))

	sellFee := s.EstimateFee(domain.Sell, decimal.NewFromFloat(0.01))
	require.True(t, sellFee.Equal(decimal.NewFromFloat(0.01).Mul(price).Mul(feeRate)))
}
