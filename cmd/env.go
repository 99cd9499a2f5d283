package main

import (
	"github.com/sells-group/pm-toolserver/internal/config"
	"github.com/sells-group/pm-toolserver/internal/cost"
	"github.com/sells-group/pm-toolserver/internal/steering"
	"github.com/sells-group/pm-toolserver/internal/tools"
)

// newRegistry wires the tool registry from configuration.
func newRegistry(c *config.Config) *tools.Registry {
	return tools.NewRegistry(tools.Deps{
		Steering:   steering.NewWriter(c.Steering.Dir, c.Steering.Enabled),
		Cost:       cost.NewCalculator(rates(c.Pricing)).WithCharsPerToken(c.Quota.CharsPerToken),
		QuotaModel: c.Quota.Model,
		Settings:   settings(c.Analysis),
	})
}

func settings(a config.AnalysisConfig) tools.Settings {
	return tools.Settings{
		MinCompetitors:         a.MinCompetitors,
		FreshnessThresholdDays: a.FreshnessThresholdDays,
		RequiredMarketFields:   a.RequiredMarketFields,
	}
}

// rates overlays configured pricing on the default rates.
func rates(p config.PricingConfig) cost.Rates {
	r := cost.DefaultRates()
	for model, mp := range p.Anthropic {
		r.Anthropic[model] = cost.ModelRate{
			Input:         mp.Input,
			Output:        mp.Output,
			BatchDiscount: mp.BatchDiscount,
			CacheWriteMul: mp.CacheWriteMul,
			CacheReadMul:  mp.CacheReadMul,
		}
	}
	return r
}
