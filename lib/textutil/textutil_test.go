package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{"Victor Hugo", "hugo victor"},
		{"Hugo, Victor", "hugo victor"},
		{"  HUGO   victor ", "hugo victor"},
		{"Émile Zola", "emile zola"},
		{"Saint-Exupéry, Antoine de", "antoine de exupery saint"},
		{"", ""},
	}
	for _, test := range table {
		t.Run(test.input, func(t *testing.T) {
			require.Equal(t, test.expected, NormalizeName(test.input))
		})
	}
}

func TestBestMatch(t *testing.T) {
	candidates := []string{"Hugues, Victor", "Hugo, Victor", "Hugo, Victor (1802-1885)"}
	require.Equal(t, 1, BestMatch("victor hugo", candidates))
	require.Equal(t, 0, BestMatch("Zola", []string{"Zola, Emile"}))
	require.Equal(t, -1, BestMatch("anything", nil))
}
