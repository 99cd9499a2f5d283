package quality

import (
	"errors"
	"fmt"
	"strings"
)

// Domain identifies which request family a validation error belongs to.
type Domain string

// Validation domains.
const (
	DomainCompetitive  Domain = "competitive"
	DomainMarketSizing Domain = "market-sizing"
)

// ValidationType is the machine-checkable category of a validation failure.
type ValidationType string

// Validation types.
const (
	TypeRequired ValidationType = "required"
	TypeLength   ValidationType = "length"
	TypeType     ValidationType = "type"
	TypeEnum     ValidationType = "enum"
)

// Severity of a validation failure.
type Severity string

// Severities.
const (
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// ValidationError is returned for hard input violations. Quality problems are
// never reported this way; they surface as warnings and discounted confidence.
type ValidationError struct {
	Domain      Domain         `json:"domain"`
	Type        ValidationType `json:"validation_type"`
	Severity    Severity       `json:"severity"`
	Field       string         `json:"field,omitempty"`
	Message     string         `json:"message"`
	Suggestions []string       `json:"suggestions"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s validation: %s", e.Domain, e.Message)
	}
	return fmt.Sprintf("%s validation: %s: %s", e.Domain, e.Field, e.Message)
}

// UserMessage renders the message followed by a bullet list of suggestions.
func (e *ValidationError) UserMessage() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, s := range e.Suggestions {
			b.WriteString("\n- ")
			b.WriteString(s)
		}
	}
	return b.String()
}

// NewCompetitiveError builds a competitive-analysis input error.
func NewCompetitiveError(vt ValidationType, field, msg string, suggestions ...string) *ValidationError {
	return newError(DomainCompetitive, vt, field, msg, suggestions)
}

// NewMarketSizingError builds a market-sizing input error.
func NewMarketSizingError(vt ValidationType, field, msg string, suggestions ...string) *ValidationError {
	return newError(DomainMarketSizing, vt, field, msg, suggestions)
}

func newError(d Domain, vt ValidationType, field, msg string, suggestions []string) *ValidationError {
	sev := SeverityError
	if vt == TypeRequired {
		sev = SeverityCritical
	}
	if len(suggestions) == 0 {
		suggestions = []string{"Review the request arguments and try again"}
	}
	return &ValidationError{
		Domain:      d,
		Type:        vt,
		Severity:    sev,
		Field:       field,
		Message:     msg,
		Suggestions: suggestions,
	}
}

// AsValidationError extracts a ValidationError from err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
