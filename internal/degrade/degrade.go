// Package degrade decides whether an analysis can proceed on thin, missing or
// stale data and how far its confidence should be discounted. Decisions are
// always returned as values; nothing in this package fails.
package degrade

import (
	"time"
)

// Step-function thresholds. Boundaries are exact: tests pin them.
const (
	DefaultMinCompetitors      = 3
	DefaultFreshnessThreshold  = 90
	MinCompetitorConfidence    = 0.3
	MinMarketCompleteness      = 0.3
	DegradedMarketCompleteness = 0.7
	SevereStaleRatio           = 0.8
	ModerateStaleRatio         = 0.5
	MinorStaleRatio            = 0.2
	SevereStaleConfidence      = 0.4
	ModerateStaleConfidence    = 0.7
	MinorStaleConfidence       = 0.9
	fullConfidence             = 1.0
)

// Decision is the outcome of a degradation check.
type Decision struct {
	CanProceed             bool     `json:"can_proceed"`
	DegradedAnalysis       bool     `json:"degraded_analysis"`
	AdjustedConfidence     float64  `json:"adjusted_confidence"`
	Message                string   `json:"message"`
	Recommendations        []string `json:"recommendations"`
	MissingFields          []string `json:"missing_fields,omitempty"`
	AvailableMethodologies []string `json:"available_methodologies,omitempty"`
	Completeness           *float64 `json:"completeness,omitempty"`
	StaleSourceCount       *int     `json:"stale_source_count,omitempty"`
	StaleRatio             *float64 `json:"stale_ratio,omitempty"`
}

// Manager holds the clock used to age sources.
type Manager struct {
	now func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the clock used for source age.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a Manager.
func New(opts ...Option) *Manager {
	m := &Manager{now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

func proceed() Decision {
	return Decision{
		CanProceed:         true,
		AdjustedConfidence: fullConfidence,
		Recommendations:    []string{},
	}
}
