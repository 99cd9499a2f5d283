package model

import (
	"math"
	"time"
)

// SourceType is the citation taxonomy for a source reference.
type SourceType string

// Source types.
const (
	SourceMcKinsey       SourceType = "mckinsey"
	SourceGartner        SourceType = "gartner"
	SourceWEF            SourceType = "wef"
	SourceIndustryReport SourceType = "industry-report"
	SourceMarketResearch SourceType = "market-research"
	SourceCompanyFiling  SourceType = "company-filing"
	SourceNewsArticle    SourceType = "news-article"
)

// AllSourceTypes returns every valid source type.
func AllSourceTypes() []SourceType {
	return []SourceType{
		SourceMcKinsey,
		SourceGartner,
		SourceWEF,
		SourceIndustryReport,
		SourceMarketResearch,
		SourceCompanyFiling,
		SourceNewsArticle,
	}
}

// Valid reports whether t is one of the known source types.
func (t SourceType) Valid() bool {
	for _, st := range AllSourceTypes() {
		if st == t {
			return true
		}
	}
	return false
}

// FreshnessStatus is the categorical age judgment of a source.
type FreshnessStatus string

// Freshness statuses.
const (
	FreshnessFresh    FreshnessStatus = "fresh"
	FreshnessRecent   FreshnessStatus = "recent"
	FreshnessStale    FreshnessStatus = "stale"
	FreshnessOutdated FreshnessStatus = "outdated"
)

// DataFreshness describes how old a source is and how often it should be refreshed.
type DataFreshness struct {
	Status             FreshnessStatus `json:"status"`
	AgeInDays          int             `json:"age_in_days"`
	RecommendedRefresh string          `json:"recommended_refresh,omitempty"`
}

// SourceReference is a single citation consumed read-only by the validator and scorer.
type SourceReference struct {
	ID             string        `json:"id"`
	Type           SourceType    `json:"type"`
	Title          string        `json:"title"`
	Organization   string        `json:"organization"`
	Author         string        `json:"author,omitempty"`
	URL            string        `json:"url,omitempty"`
	PublishDate    time.Time     `json:"publish_date"`
	AccessDate     time.Time     `json:"access_date"`
	Reliability    float64       `json:"reliability"`
	Relevance      float64       `json:"relevance"`
	DataFreshness  DataFreshness `json:"data_freshness"`
	CitationFormat string        `json:"citation_format,omitempty"`
	KeyFindings    []string      `json:"key_findings,omitempty"`
	Limitations    []string      `json:"limitations,omitempty"`
}

// AgeDays returns the age of the source in whole days. The recorded
// data_freshness.age_in_days wins when positive; otherwise the age is the gap
// between publish and access dates, and finally between publish date and now.
// Unknown publish dates yield 0.
func (s SourceReference) AgeDays(now time.Time) int {
	if s.DataFreshness.AgeInDays > 0 {
		return s.DataFreshness.AgeInDays
	}
	if s.PublishDate.IsZero() {
		return 0
	}
	ref := s.AccessDate
	if ref.IsZero() {
		ref = now
	}
	days := ref.Sub(s.PublishDate).Hours() / 24
	if days <= 0 {
		return 0
	}
	return int(math.Floor(days))
}

// Validate checks the SourceReference invariants: reliability and relevance
// in [0,1] and publish date not after access date.
func (s SourceReference) Validate() error {
	switch {
	case s.Reliability < 0 || s.Reliability > 1:
		return &RangeError{Field: "reliability", Value: s.Reliability}
	case s.Relevance < 0 || s.Relevance > 1:
		return &RangeError{Field: "relevance", Value: s.Relevance}
	case !s.PublishDate.IsZero() && !s.AccessDate.IsZero() && s.PublishDate.After(s.AccessDate):
		return &RangeError{Field: "publish_date", Value: float64(s.PublishDate.Unix())}
	}
	return nil
}

// RangeError reports a model field outside its allowed range.
type RangeError struct {
	Field string
	Value float64
}

func (e *RangeError) Error() string {
	return "model: " + e.Field + " out of range"
}
