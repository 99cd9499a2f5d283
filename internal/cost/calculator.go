// Package cost estimates token usage and price for tool-call metadata.
package cost

import (
	"math"
	"unicode/utf8"
)

// Rates holds per-provider pricing configuration.
type Rates struct {
	Anthropic map[string]ModelRate `yaml:"anthropic" mapstructure:"anthropic"`
}

// ModelRate holds per-model token pricing (per million tokens).
type ModelRate struct {
	Input         float64 `yaml:"input" mapstructure:"input"`
	Output        float64 `yaml:"output" mapstructure:"output"`
	BatchDiscount float64 `yaml:"batch_discount" mapstructure:"batch_discount"`
	CacheWriteMul float64 `yaml:"cache_write_mul" mapstructure:"cache_write_mul"`
	CacheReadMul  float64 `yaml:"cache_read_mul" mapstructure:"cache_read_mul"`
}

// Quota is the usage estimate attached to a tool response.
type Quota struct {
	InputTokens      int     `json:"input_tokens"`
	OutputTokens     int     `json:"output_tokens"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
	Model            string  `json:"model"`
}

// DefaultCharsPerToken approximates English text tokenisation.
const DefaultCharsPerToken = 4

// Calculator computes costs for API usage.
type Calculator struct {
	rates         Rates
	charsPerToken int
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates, charsPerToken: DefaultCharsPerToken}
}

// WithCharsPerToken returns a copy of c using n characters per token.
// Non-positive n keeps the default.
func (c *Calculator) WithCharsPerToken(n int) *Calculator {
	cp := *c
	if n > 0 {
		cp.charsPerToken = n
	}
	return &cp
}

// Claude computes the cost for a Claude API call.
func (c *Calculator) Claude(model string, isBatch bool, input, output, cacheWrite, cacheRead int) float64 {
	rate, ok := c.rates.Anthropic[model]
	if !ok {
		return 0
	}

	batchMul := 1.0
	if isBatch {
		batchMul = rate.BatchDiscount
	}

	inCost := (float64(input) / 1e6) * rate.Input * batchMul
	outCost := (float64(output) / 1e6) * rate.Output * batchMul
	cwCost := (float64(cacheWrite) / 1e6) * rate.Input * rate.CacheWriteMul * batchMul
	crCost := (float64(cacheRead) / 1e6) * rate.Input * rate.CacheReadMul * batchMul

	return inCost + outCost + cwCost + crCost
}

// Estimate prices a request/response pair by approximate token count.
func (c *Calculator) Estimate(model, input, output string) Quota {
	in := EstimateTokens(input, c.charsPerToken)
	out := EstimateTokens(output, c.charsPerToken)
	return Quota{
		InputTokens:      in,
		OutputTokens:     out,
		EstimatedCostUSD: c.Claude(model, false, in, out, 0, 0),
		Model:            model,
	}
}

// EstimateBatch prices a batch of request/response pairs sent together with a
// shared prompt prefix. The prefix is written to the cache for the first item
// and read back for every later one; all tokens carry the batch discount.
func (c *Calculator) EstimateBatch(model, shared string, inputs, outputs []string) Quota {
	var in, out int
	for _, s := range inputs {
		in += EstimateTokens(s, c.charsPerToken)
	}
	for _, s := range outputs {
		out += EstimateTokens(s, c.charsPerToken)
	}

	var cacheWrite, cacheRead int
	if prefix := EstimateTokens(shared, c.charsPerToken); prefix > 0 && len(inputs) > 0 {
		cacheWrite = prefix
		cacheRead = prefix * (len(inputs) - 1)
	}
	return Quota{
		InputTokens:      in + cacheWrite + cacheRead,
		OutputTokens:     out,
		EstimatedCostUSD: c.Claude(model, true, in, out, cacheWrite, cacheRead),
		Model:            model,
	}
}

// EstimateTokens approximates the token count of text as its rune count
// divided by charsPerToken, rounded up.
func EstimateTokens(text string, charsPerToken int) int {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	n := utf8.RuneCountInString(text)
	return int(math.Ceil(float64(n) / float64(charsPerToken)))
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		Anthropic: map[string]ModelRate{
			"claude-haiku-4-5-20251001": {
				Input: 0.80, Output: 4.00,
				BatchDiscount: 0.5, CacheWriteMul: 1.25, CacheReadMul: 0.1,
			},
			"claude-sonnet-4-5-20250929": {
				Input: 3.00, Output: 15.00,
				BatchDiscount: 0.5, CacheWriteMul: 1.25, CacheReadMul: 0.1,
			},
			"claude-opus-4-6": {
				Input: 15.00, Output: 75.00,
				BatchDiscount: 0.5, CacheWriteMul: 1.25, CacheReadMul: 0.1,
			},
		},
	}
}
