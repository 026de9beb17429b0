package advisor

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/bitflow/internal/domain"
	"go.uber.org/zap"
)

type stubLLM struct {
	reply string
	err   error

	lastSystemPrompt string
	lastUserPrompt   string
	calls            int
}

func (s *stubLLM) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	s.lastSystemPrompt = systemPrompt
	s.lastUserPrompt = userPrompt
	return s.reply, s.err
}

func testHistory() []domain.PricePoint {
	now := time.Now()
	points := make([]domain.PricePoint, 0, 10)
	for i := 0; i < 10; i++ {
		points = append(points, domain.PricePoint{
			Timestamp: now.Add(time.Duration(i-10) * time.Second),
			Price:     decimal.NewFromInt(int64(64000 + i*10)),
		})
	}
	return points
}

func TestGatewaySentiment(t *testing.T) {
	price := decimal.NewFromInt(64500)

	t.Run("model reply is returned verbatim", func(t *testing.T) {
		client := &stubLLM{reply: "  Momentum looks constructive above 64k.  "}
		g := NewGateway(client, zap.NewNop())

		text, fallback := g.Sentiment(context.Background(), price, testHistory())
		require.False(t, fallback)
		require.Equal(t, "Momentum looks constructive above 64k.", text)
		require.Contains(t, client.lastUserPrompt, price.StringFixed(2))
	})

	t.Run("client error degrades to fallback", func(t *testing.T) {
		client := &stubLLM{err: errors.New("upstream down")}
		g := NewGateway(client, zap.NewNop())

		text, fallback := g.Sentiment(context.Background(), price, testHistory())
		require.True(t, fallback)
		require.Contains(t, fallbackSentiments, text)
	})

	t.Run("blank reply degrades to fallback", func(t *testing.T) {
		client := &stubLLM{reply: "   "}
		g := NewGateway(client, zap.NewNop())

		text, fallback := g.Sentiment(context.Background(), price, testHistory())
		require.True(t, fallback)
		require.Contains(t, fallbackSentiments, text)
	})

	t.Run("nil client never calls out", func(t *testing.T) {
		g := NewGateway(nil, zap.NewNop())

		text, fallback := g.Sentiment(context.Background(), price, testHistory())
		require.True(t, fallback)
		require.Contains(t, fallbackSentiments, text)
	})
}

func TestGatewayPrediction(t *testing.T) {
	price := decimal.NewFromInt(64500)

	t.Run("valid json yields prediction", func(t *testing.T) {
		client := &stubLLM{reply: `{"target_price": 92000, "reasoning": "halving supply shock", "confidence": "high"}`}
		g := NewGateway(client, zap.NewNop())

		p, ok := g.Prediction(context.Background(), price)
		require.True(t, ok)
		require.True(t, p.TargetPrice.Equal(decimal.NewFromInt(92000)))
		require.Equal(t, "halving supply shock", p.Reasoning)
		require.Equal(t, "high", p.Confidence)
	})

	t.Run("client error yields absent", func(t *testing.T) {
		client := &stubLLM{err: errors.New("timeout")}
		g := NewGateway(client, zap.NewNop())

		p, ok := g.Prediction(context.Background(), price)
		require.False(t, ok)
		require.Nil(t, p)
	})

	t.Run("malformed payload yields absent", func(t *testing.T) {
		client := &stubLLM{reply: "the price will go up, trust me"}
		g := NewGateway(client, zap.NewNop())

		p, ok := g.Prediction(context.Background(), price)
		require.False(t, ok)
		require.Nil(t, p)
	})

	t.Run("nil client yields absent without fallback text", func(t *testing.T) {
		g := NewGateway(nil, zap.NewNop())

		p, ok := g.Prediction(context.Background(), price)
		require.False(t, ok)
		require.Nil(t, p)
	})
}

func TestGatewayAssistantReply(t *testing.T) {
	t.Run("reply carries wallet context to the model", func(t *testing.T) {
		client := &stubLLM{reply: "You hold 0.5 BTC, nice position."}
		g := NewGateway(client, zap.NewNop())

		text := g.AssistantReply(context.Background(), "how am I doing?", "9000 USD, 0.5 BTC, 3 transactions")
		require.Equal(t, "You hold 0.5 BTC, nice position.", text)
		require.Contains(t, client.lastUserPrompt, "9000 USD, 0.5 BTC, 3 transactions")
		require.Contains(t, client.lastUserPrompt, "how am I doing?")
	})

	t.Run("failure falls back to static reply", func(t *testing.T) {
		client := &stubLLM{err: errors.New("rate limited")}
		g := NewGateway(client, zap.NewNop())

		text := g.AssistantReply(context.Background(), "hello", "10000 USD, 0 BTC, 0 transactions")
		require.Equal(t, fallbackAssistantReply, text)
	})

	t.Run("nil client falls back immediately", func(t *testing.T) {
		g := NewGateway(nil, zap.NewNop())

		text := g.AssistantReply(context.Background(), "hello", "")
		require.Equal(t, fallbackAssistantReply, text)
	})
}
