package cost

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRates() Rates {
	return Rates{
		Anthropic: map[string]ModelRate{
			"haiku": {
				Input: 0.80, Output: 4.00,
				BatchDiscount: 0.5, CacheWriteMul: 1.25, CacheReadMul: 0.1,
			},
			"sonnet": {
				Input: 3.00, Output: 15.00,
				BatchDiscount: 0.5, CacheWriteMul: 1.25, CacheReadMul: 0.1,
			},
		},
	}
}

func TestClaude(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	tests := []struct {
		name       string
		model      string
		isBatch    bool
		input      int
		output     int
		cacheWrite int
		cacheRead  int
		want       float64
	}{
		{
			name: "haiku non-batch simple",
			model: "haiku", isBatch: false,
			input: 1000000, output: 100000,
			want: 0.80 + 0.40, // 0.80 input + 0.40 output
		},
		{
			name: "haiku batch 50% discount",
			model: "haiku", isBatch: true,
			input: 1000000, output: 100000,
			want: (0.80 * 0.5) + (0.40 * 0.5), // 0.40 + 0.20
		},
		{
			name: "haiku with cache",
			model: "haiku", isBatch: false,
			input: 500000, output: 50000,
			cacheWrite: 200000, cacheRead: 300000,
			// in: 0.5M/1M * 0.80 = 0.40
			// out: 0.05M/1M * 4.00 = 0.20
			// cw: 0.2M/1M * 0.80 * 1.25 = 0.20
			// cr: 0.3M/1M * 0.80 * 0.1 = 0.024
			want: 0.40 + 0.20 + 0.20 + 0.024,
		},
		{
			name: "sonnet non-batch",
			model: "sonnet", isBatch: false,
			input: 1000000, output: 100000,
			want: 3.00 + 1.50, // 3.00 input + 1.50 output
		},
		{
			name: "unknown model returns 0",
			model: "unknown", isBatch: false,
			input: 1000000, output: 1000000,
			want: 0,
		},
		{
			name: "zero tokens returns 0",
			model: "haiku", isBatch: false,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := calc.Claude(tt.model, tt.isBatch, tt.input, tt.output, tt.cacheWrite, tt.cacheRead)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestEstimateTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		text          string
		charsPerToken int
		want          int
	}{
		{"empty", "", 4, 0},
		{"exact", "abcdefgh", 4, 2},
		{"rounds up", "abcdefghi", 4, 3},
		{"single char", "a", 4, 1},
		{"runes not bytes", "ééééé", 5, 1},
		{"default divisor", "abcdefgh", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, EstimateTokens(tt.text, tt.charsPerToken))
		})
	}
}

func TestEstimate(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	// 4000 chars in -> 1000 tokens, 400 chars out -> 100 tokens
	q := calc.Estimate("sonnet", strings.Repeat("a", 4000), strings.Repeat("b", 400))
	assert.Equal(t, 1000, q.InputTokens)
	assert.Equal(t, 100, q.OutputTokens)
	assert.Equal(t, "sonnet", q.Model)
	// 1000/1M*3.00 + 100/1M*15.00
	assert.InDelta(t, 0.003+0.0015, q.EstimatedCostUSD, 1e-9)

	unknown := calc.Estimate("unknown", "abc", "def")
	assert.Equal(t, 0.0, unknown.EstimatedCostUSD)
	assert.Equal(t, 1, unknown.InputTokens)
}

func TestEstimateBatch(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	// prefix 100 tokens, two inputs of 1000 tokens, two outputs of 500 tokens
	q := calc.EstimateBatch("sonnet", strings.Repeat("p", 400),
		[]string{strings.Repeat("a", 4000), strings.Repeat("a", 4000)},
		[]string{strings.Repeat("b", 2000), strings.Repeat("b", 2000)},
	)
	assert.Equal(t, 2200, q.InputTokens)
	assert.Equal(t, 1000, q.OutputTokens)
	// 0.5 * (2000/1M*3 + 1000/1M*15 + 100/1M*3*1.25 + 100/1M*3*0.1)
	assert.InDelta(t, 0.5*(0.006+0.015+0.000375+0.00003), q.EstimatedCostUSD, 1e-12)

	// batch pricing is cheaper than pricing each item alone
	single := calc.Estimate("sonnet", strings.Repeat("a", 4000), strings.Repeat("b", 2000))
	assert.Less(t, q.EstimatedCostUSD, 2*single.EstimatedCostUSD)

	empty := calc.EstimateBatch("sonnet", "prefix", nil, nil)
	assert.Equal(t, 0, empty.InputTokens)
	assert.Equal(t, 0.0, empty.EstimatedCostUSD)
}

func TestWithCharsPerToken(t *testing.T) {
	t.Parallel()
	base := NewCalculator(testRates())
	two := base.WithCharsPerToken(2)

	assert.Equal(t, 4, two.Estimate("haiku", "abcdefgh", "").InputTokens)
	assert.Equal(t, 2, base.Estimate("haiku", "abcdefgh", "").InputTokens)
	assert.Equal(t, 2, base.WithCharsPerToken(0).Estimate("haiku", "abcdefgh", "").InputTokens)
}

func TestDefaultRates(t *testing.T) {
	t.Parallel()
	rates := DefaultRates()

	assert.Contains(t, rates.Anthropic, "claude-haiku-4-5-20251001")
	assert.Contains(t, rates.Anthropic, "claude-sonnet-4-5-20250929")
	assert.Contains(t, rates.Anthropic, "claude-opus-4-6")
	assert.InDelta(t, 15.00, rates.Anthropic["claude-sonnet-4-5-20250929"].Output, 0.001)
}
