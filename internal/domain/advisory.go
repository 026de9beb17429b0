package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Prediction is a price-target forecast produced by the advisory model.
// It is informational only and never feeds back into trade execution.
type Prediction struct {
	TargetPrice decimal.Decimal `json:"target_price"`
	Reasoning   string          `json:"reasoning"`
	Confidence  string          `json:"confidence"`
}

// NewPrediction parses a raw model response into a validated prediction.
func NewPrediction(raw string) (*Prediction, error) {
	response := sanitizeModelPayload(raw)

	if !json.Valid([]byte(response)) {
		return nil, errors.New("invalid JSON structure")
	}

	var prediction Prediction
	if err := json.Unmarshal([]byte(response), &prediction); err != nil {
		return nil, errors.Wrap(err, "JSON unmarshal error")
	}

	if prediction.TargetPrice.LessThanOrEqual(decimal.Zero) {
		return nil, errors.Errorf("target price must be positive, got %s", prediction.TargetPrice.String())
	}
	if prediction.Reasoning == "" {
		return nil, errors.New("prediction reasoning is empty")
	}

	return &prediction, nil
}

// sanitizeModelPayload strips markdown code fences some models wrap
// around JSON responses despite instructions.
func sanitizeModelPayload(raw string) string {
	response := strings.TrimSpace(raw)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

// AdvisoryEvent is a resolved advisory result (sentiment text or a
// prediction) recorded for streaming to the dashboard.
type AdvisoryEvent struct {
	Timestamp    time.Time `json:"ts"`
	Kind         string    `json:"kind"`
	Text         string    `json:"text"`
	TargetPrice  string    `json:"target_price,omitempty"`
	Confidence   string    `json:"confidence,omitempty"`
	CurrentPrice string    `json:"current_price,omitempty"`
	Fallback     bool      `json:"fallback,omitempty"`
}

// AdvisoryEventRecord bundles an advisory event with its log index.
type AdvisoryEventRecord struct {
	Index uint64
	Event AdvisoryEvent
}
