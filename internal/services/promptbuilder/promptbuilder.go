// Package promptbuilder formats price data, indicators and wallet state
// into prompts for the advisory model.
package promptbuilder

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/bitflow/internal/domain"
	"github.com/vadiminshakov/bitflow/pkg/indicators"
)

// recentPointsInPrompt bounds how much history goes into a sentiment
// prompt to keep it token-efficient.
const recentPointsInPrompt = 5

// SentimentSystemPrompt instructs the model for market commentary.
const SentimentSystemPrompt = `You are a market commentator for a Bitcoin paper-trading app called BitFlow.
Given the current price, recent price history and technical indicators, provide a short, professional market sentiment analysis in 2 sentences. Plain text only, no markdown.`

// PredictionSystemPrompt instructs the model for price-target forecasts.
const PredictionSystemPrompt = `You are a market analyst. Analyze the hypothetical scenario for Bitcoin at the given price. Based on historical halving cycles and current macro trends, estimate a likely price target for the next 6 months.

Respond with ONLY valid JSON. No markdown, no code blocks, no additional text.

Required JSON structure:

{
  "target_price": 0.0,
  "reasoning": "one or two sentences explaining the target",
  "confidence": "low|medium|high"
}`

// AssistantSystemPrompt instructs the model for the chat assistant.
const AssistantSystemPrompt = `You are a helpful crypto trading assistant for a paper-trading app called BitFlow.
All balances are simulated; no real money is involved. Provide concise, helpful, friendly responses. If the user asks about buying or selling, explain the steps briefly.`

// MarketContext carries the market snapshot a sentiment prompt is built from.
type MarketContext struct {
	CurrentPrice decimal.Decimal
	History      []domain.PricePoint
	Indicators   indicators.Summary
}

// PromptBuilder builds user prompts for the advisory model.
type PromptBuilder struct{}

// NewPromptBuilder creates a new PromptBuilder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildSentimentPrompt formats the market snapshot for a sentiment request.
func (b *PromptBuilder) BuildSentimentPrompt(mc MarketContext) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Current Bitcoin price: $%s\n", mc.CurrentPrice.StringFixed(2))

	points := mc.History
	if len(points) > recentPointsInPrompt {
		points = points[len(points)-recentPointsInPrompt:]
	}
	if len(points) > 0 {
		sb.WriteString("Recent history:\n")
		for _, p := range points {
			fmt.Fprintf(&sb, "  %s  $%s\n", p.Timestamp.Format("15:04:05"), p.Price.StringFixed(2))
		}
	}

	if !mc.Indicators.SMA.IsZero() {
		fmt.Fprintf(&sb, "SMA: %s\n", mc.Indicators.SMA.StringFixed(2))
	}
	if !mc.Indicators.EMA10.IsZero() {
		fmt.Fprintf(&sb, "EMA10: %s\n", mc.Indicators.EMA10.StringFixed(2))
	}
	if !mc.Indicators.RSI14.IsZero() {
		fmt.Fprintf(&sb, "RSI14: %s\n", mc.Indicators.RSI14.StringFixed(2))
	}

	return sb.String()
}

// BuildPredictionPrompt formats a price-target request.
func (b *PromptBuilder) BuildPredictionPrompt(currentPrice decimal.Decimal) string {
	return fmt.Sprintf("Bitcoin is at $%s. Provide the 6-month target as JSON.", currentPrice.StringFixed(2))
}

// BuildAssistantPrompt formats a chat request with the wallet state.
func (b *PromptBuilder) BuildAssistantPrompt(userMessage, walletSummary string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The user's wallet: %s\n", walletSummary)
	fmt.Fprintf(&sb, "The user asks: %q\n", userMessage)
	return sb.String()
}
