package advisor

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/bitflow/internal/domain"
	"go.uber.org/zap"
)

const (
	initialSentiment = "Analyzing market trends..."

	advisoryKindSentiment  = "sentiment"
	advisoryKindPrediction = "prediction"
)

// gateway is the advisory surface the Advisor consumes.
type gateway interface {
	Sentiment(ctx context.Context, price decimal.Decimal, history []domain.PricePoint) (string, bool)
	Prediction(ctx context.Context, price decimal.Decimal) (*domain.Prediction, bool)
	AssistantReply(ctx context.Context, userMessage, walletSummary string) string
}

// advisoryRecorder appends resolved advisory events to the event log.
type advisoryRecorder interface {
	Save(event domain.AdvisoryEvent) error
}

// Advisor owns the displayed advisory state. Refresh is fire-and-forget
// with a last-resolved-wins merge: a slow older request may overwrite a
// newer one, an accepted race since the text is informational and never
// blocks ticks or trades.
type Advisor struct {
	gateway  gateway
	logger   *zap.Logger
	recorder advisoryRecorder

	mu         sync.RWMutex
	sentiment  string
	prediction *domain.Prediction
}

// NewAdvisor creates an advisor. recorder may be nil when no advisory
// log is configured.
func NewAdvisor(g gateway, recorder advisoryRecorder, logger *zap.Logger) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{
		gateway:   g,
		logger:    logger,
		recorder:  recorder,
		sentiment: initialSentiment,
	}
}

// Refresh launches sentiment and prediction requests for the given
// snapshot and returns immediately. Results merge into the display
// state whenever they resolve.
func (a *Advisor) Refresh(ctx context.Context, price decimal.Decimal, history []domain.PricePoint) {
	go func() {
		text, fallback := a.gateway.Sentiment(ctx, price, history)

		a.mu.Lock()
		a.sentiment = text
		a.mu.Unlock()

		a.record(domain.AdvisoryEvent{
			Timestamp:    time.Now(),
			Kind:         advisoryKindSentiment,
			Text:         text,
			CurrentPrice: price.StringFixed(2),
			Fallback:     fallback,
		})
	}()

	go func() {
		prediction, ok := a.gateway.Prediction(ctx, price)
		if !ok {
			return
		}

		a.mu.Lock()
		a.prediction = prediction
		a.mu.Unlock()

		a.record(domain.AdvisoryEvent{
			Timestamp:    time.Now(),
			Kind:         advisoryKindPrediction,
			Text:         prediction.Reasoning,
			TargetPrice:  prediction.TargetPrice.StringFixed(2),
			Confidence:   prediction.Confidence,
			CurrentPrice: price.StringFixed(2),
		})
	}()
}

// Sentiment returns the latest resolved commentary.
func (a *Advisor) Sentiment() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sentiment
}

// Prediction returns the latest resolved price target, if any.
func (a *Advisor) Prediction() (*domain.Prediction, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.prediction == nil {
		return nil, false
	}
	clone := *a.prediction
	return &clone, true
}

// Ask forwards a chat message to the assistant synchronously. The chat
// path tolerates collaborator latency, unlike ticks and trades.
func (a *Advisor) Ask(ctx context.Context, userMessage, walletSummary string) string {
	return a.gateway.AssistantReply(ctx, userMessage, walletSummary)
}

func (a *Advisor) record(event domain.AdvisoryEvent) {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.Save(event); err != nil {
		a.logger.Warn("failed to record advisory event", zap.String("kind", event.Kind), zap.Error(err))
	}
}
