// Package advisor surfaces AI-generated market commentary, price
// targets and chat replies. Everything here is informational: failures
// degrade to static fallback text and never reach the trading path.
package advisor

import (
	"context"
	"math/rand"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/bitflow/internal/domain"
	"github.com/vadiminshakov/bitflow/internal/services/promptbuilder"
	"github.com/vadiminshakov/bitflow/pkg/indicators"
	"go.uber.org/zap"
)

// Static fallback commentary served when the model is unavailable.
var fallbackSentiments = []string{
	"Bullish momentum building up in the 4H timeframe.",
	"Institutional interest is increasing as ETFs see net inflows.",
	"Market sentiment is currently in the 'Greed' zone.",
	"On-chain data shows long-term holders are accumulating.",
	"Short-term volatility expected due to upcoming macro data releases.",
}

const fallbackAssistantReply = "Sorry, I'm having trouble connecting to my brain right now."

// llmClient is the completion surface the gateway consumes.
type llmClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Gateway adapts the LLM collaborator to the three advisory calls the
// core depends on. None of its methods return an error.
type Gateway struct {
	client  llmClient
	prompts *promptbuilder.PromptBuilder
	logger  *zap.Logger
}

// NewGateway creates an advisory gateway over the given LLM client.
func NewGateway(client llmClient, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		client:  client,
		prompts: promptbuilder.NewPromptBuilder(),
		logger:  logger,
	}
}

// Sentiment returns short market commentary for the current snapshot.
// On any failure it falls back to a static trend line; the second
// return value reports whether the text is a fallback.
func (g *Gateway) Sentiment(ctx context.Context, price decimal.Decimal, history []domain.PricePoint) (string, bool) {
	if g.client == nil {
		return randomFallbackSentiment(), true
	}

	closes := make([]decimal.Decimal, len(history))
	for i, p := range history {
		closes[i] = p.Price
	}

	prompt := g.prompts.BuildSentimentPrompt(promptbuilder.MarketContext{
		CurrentPrice: price,
		History:      history,
		Indicators:   indicators.Summarize(closes),
	})

	text, err := g.client.Complete(ctx, promptbuilder.SentimentSystemPrompt, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		g.logger.Warn("sentiment request degraded to fallback", zap.Error(err))
		return randomFallbackSentiment(), true
	}

	return strings.TrimSpace(text), false
}

// Prediction returns a 6-month price target, or absent on any failure.
func (g *Gateway) Prediction(ctx context.Context, price decimal.Decimal) (*domain.Prediction, bool) {
	if g.client == nil {
		return nil, false
	}

	raw, err := g.client.Complete(ctx, promptbuilder.PredictionSystemPrompt, g.prompts.BuildPredictionPrompt(price))
	if err != nil {
		g.logger.Warn("prediction request failed", zap.Error(err))
		return nil, false
	}

	prediction, err := domain.NewPrediction(raw)
	if err != nil {
		g.logger.Warn("prediction response rejected", zap.Error(err))
		return nil, false
	}

	return prediction, true
}

// AssistantReply answers a user chat message with the wallet state in
// context. Falls back to a static string on failure.
func (g *Gateway) AssistantReply(ctx context.Context, userMessage, walletSummary string) string {
	if g.client == nil {
		return fallbackAssistantReply
	}

	text, err := g.client.Complete(ctx, promptbuilder.AssistantSystemPrompt,
		g.prompts.BuildAssistantPrompt(userMessage, walletSummary))
	if err != nil || strings.TrimSpace(text) == "" {
		g.logger.Warn("assistant request degraded to fallback", zap.Error(err))
		return fallbackAssistantReply
	}

	return strings.TrimSpace(text)
}

func randomFallbackSentiment() string {
	return fallbackSentiments[rand.Intn(len(fallbackSentiments))]
}
