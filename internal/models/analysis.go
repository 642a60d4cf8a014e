package models

import (
	"encoding/json"
	"time"
)

// Analysis types persisted in the ai_analyses audit table.
const (
	AnalysisTypeSpending  = "spending"
	AnalysisTypeRecurring = "recurring"
	AnalysisTypeForecast  = "forecast"
)

// AIAnalysis is an append-only audit record of one agent invocation.
// Content holds the JSON-serialized model output; it is never read back
// by the application.
type AIAnalysis struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
}
