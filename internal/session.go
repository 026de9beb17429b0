// Package internal wires the simulation, wallet and advisory services
// into a single trading session.
package internal

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/bitflow/config"
	"github.com/vadiminshakov/bitflow/internal/domain"
	"github.com/vadiminshakov/bitflow/internal/services/advisor"
	"github.com/vadiminshakov/bitflow/internal/services/executor"
	"github.com/vadiminshakov/bitflow/internal/services/market"
	"github.com/vadiminshakov/bitflow/internal/services/wallet"
	"go.uber.org/zap"
)

// Session owns all mutable trading state of one sandbox run: the
// current price, the rolling history, the wallet and the advisory
// display. Ticks and order execution serialize on the session mutex so
// a trade never fills against a half-updated price.
type Session struct {
	mu       sync.RWMutex
	logger   *zap.Logger
	conf     config.Config
	process  *market.Process
	history  *market.History
	wallet   *wallet.Wallet
	executor *executor.Executor
	advisor  *advisor.Advisor
	price    decimal.Decimal
}

// Overview is a read-only snapshot of the session for display.
type Overview struct {
	Timestamp  time.Time          `json:"ts"`
	Price      string             `json:"price"`
	UsdBalance string             `json:"usd_balance"`
	BtcBalance string             `json:"btc_balance"`
	Equity     string             `json:"equity"`
	Sentiment  string             `json:"sentiment"`
	Prediction *domain.Prediction `json:"prediction,omitempty"`
}

// NewSession creates a session, pre-populates the price history and
// kicks the first advisory refresh so the display has context before
// the first tick.
func NewSession(conf config.Config, w *wallet.Wallet, exec *executor.Executor, adv *advisor.Advisor, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	process := market.NewProcess(conf.Volatility, conf.SeedSpread, conf.TickInterval)
	history := market.NewHistory(conf.HistoryCapacity)

	seeded := process.Seed(conf.SeedPrice, conf.SeedPoints, time.Now())
	for _, point := range seeded {
		history.Append(point)
	}

	price := conf.SeedPrice
	if last, ok := history.Last(); ok {
		price = last.Price
	}

	s := &Session{
		logger:   logger,
		conf:     conf,
		process:  process,
		history:  history,
		wallet:   w,
		executor: exec,
		advisor:  adv,
		price:    price,
	}

	logger.Info("session init",
		zap.String("price", price.String()),
		zap.Int("seed_points", history.Len()),
		zap.Duration("tick_interval", conf.TickInterval))

	adv.Refresh(context.Background(), price, history.Snapshot())

	return s
}

// Run drives price ticks and periodic advisory refreshes until ctx is
// cancelled. Cancellation is deterministic: no tick fires after it,
// though an in-flight one may complete.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.conf.TickInterval)
	defer ticker.Stop()

	advisoryTicker := time.NewTicker(s.conf.AdvisoryInterval)
	defer advisoryTicker.Stop()

	s.logger.Info("starting price feed",
		zap.Duration("tick_interval", s.conf.TickInterval),
		zap.Duration("advisory_interval", s.conf.AdvisoryInterval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("context done, stopping session loop")
			return ctx.Err()
		case <-ticker.C:
			s.tick()
		case <-advisoryTicker.C:
			price, history := s.marketSnapshot()
			s.advisor.Refresh(ctx, price, history)
		}
	}
}

// tick advances the price one step and appends the sample to history.
func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.price = s.process.Next(s.price)
	s.history.Append(domain.PricePoint{Timestamp: time.Now(), Price: s.price})

	s.logger.Debug("price tick", zap.String("price", s.price.String()))
}

// PlaceOrder executes a market order at the current price. It holds the
// session lock for the whole fill, excluding concurrent ticks.
func (s *Session) PlaceOrder(kind domain.TradeKind, rawAmount string) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.executor.Execute(kind, rawAmount, s.price, s.wallet)
}

// CurrentPrice returns the latest simulated price.
func (s *Session) CurrentPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.price
}

// HistorySnapshot returns a copy of the rolling price window.
func (s *Session) HistorySnapshot() []domain.PricePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Snapshot()
}

// Wallet exposes the session wallet.
func (s *Session) Wallet() *wallet.Wallet {
	return s.wallet
}

// Advisor exposes the advisory display state.
func (s *Session) Advisor() *advisor.Advisor {
	return s.advisor
}

// EstimateFee returns the display-only 0.1% fee for an order preview.
func (s *Session) EstimateFee(kind domain.TradeKind, amount decimal.Decimal) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return executor.EstimateFee(kind, amount, s.price)
}

// Snapshot builds a display overview of the whole session.
func (s *Session) Snapshot() Overview {
	s.mu.RLock()
	price := s.price
	s.mu.RUnlock()

	usd, btc := s.wallet.Balances()

	overview := Overview{
		Timestamp:  time.Now(),
		Price:      price.StringFixed(2),
		UsdBalance: usd.StringFixed(2),
		BtcBalance: btc.String(),
		Equity:     s.wallet.Equity(price).StringFixed(2),
		Sentiment:  s.advisor.Sentiment(),
	}
	if prediction, ok := s.advisor.Prediction(); ok {
		overview.Prediction = prediction
	}

	return overview
}

func (s *Session) marketSnapshot() (decimal.Decimal, []domain.PricePoint) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.price, s.history.Snapshot()
}
