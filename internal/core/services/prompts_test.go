package services

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpendingAnalysisPrompt_CategoryLinesSorted(t *testing.T) {
	byCategory := map[string]decimal.Decimal{
		"Transports":   decimal.RequireFromString("120.00"),
		"Alimentation": decimal.RequireFromString("450.50"),
		"Loisirs":      decimal.RequireFromString("80.00"),
	}

	prompt := spendingAnalysisPrompt(decimal.RequireFromString("650.50"), byCategory)

	alimentation := strings.Index(prompt, "Alimentation: 450.50€")
	loisirs := strings.Index(prompt, "Loisirs: 80.00€")
	transports := strings.Index(prompt, "Transports: 120.00€")
	require.NotEqual(t, -1, alimentation)
	require.NotEqual(t, -1, loisirs)
	require.NotEqual(t, -1, transports)
	assert.Less(t, alimentation, loisirs)
	assert.Less(t, loisirs, transports)

	// Map iteration order must not leak into the prompt.
	for i := 0; i < 20; i++ {
		assert.Equal(t, prompt, spendingAnalysisPrompt(decimal.RequireFromString("650.50"), byCategory))
	}
}
