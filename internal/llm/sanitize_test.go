package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nicolasgrk/gestion-budget-ia/internal/llm"
)

func TestCleanModelJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already clean", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading prose", "Voici le résultat :\n{\"a\": 1}", `{"a": 1}`},
		{"trailing prose", "{\"a\": 1}\nJ'espère que cela vous aide.", `{"a": 1}`},
		{"array value", "```json\n[1, 2, 3]\n```", `[1, 2, 3]`},
		{"whitespace", "  {\"a\": 1}  ", `{"a": 1}`},
		{"no json at all", "pas de json", "pas de json"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, llm.CleanModelJSON(tc.in))
		})
	}
}
