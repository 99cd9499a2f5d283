// Package quality validates analysis inputs (fail fast) and grades analysis
// results (degrade gracefully). Every function is a pure transformation of
// its arguments; the only injected dependency is the clock used for source age.
package quality

import "time"

// Validator validates inputs and grades competitive and market sizing results.
// The zero value is not usable; construct with New.
type Validator struct {
	now func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the clock used to age sources that carry no explicit age.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{now: time.Now}
	for _, o := range opts {
		o(v)
	}
	return v
}
