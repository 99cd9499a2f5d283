package quality

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sells-group/pm-toolserver/internal/model"
)

// Genericity heuristic: three term families whose combined match count is a
// coarse proxy for how unspecific a feature idea is.
var genericPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(apps?|applications?|systems?|platforms?|tools?|solutions?)\b`),
	regexp.MustCompile(`(?i)\b(better|improved|enhanced|optimized)\b`),
	regexp.MustCompile(`(?i)\b(users|customers|people)\b`),
}

// inputAccumulator tracks multiplicative confidence and collected findings.
type inputAccumulator struct {
	confidence      float64
	warnings        []string
	recommendations []string
	gaps            []string
}

func newInputAccumulator() *inputAccumulator {
	return &inputAccumulator{confidence: 1.0}
}

func (a *inputAccumulator) warn(penalty float64, warning string, recs ...string) {
	a.confidence *= penalty
	a.warnings = append(a.warnings, warning)
	a.recommendations = append(a.recommendations, recs...)
}

func (a *inputAccumulator) gap(penalty float64, gap string, recs ...string) {
	a.confidence *= penalty
	a.gaps = append(a.gaps, gap)
	a.recommendations = append(a.recommendations, recs...)
}

func (a *inputAccumulator) result() *model.ValidationResult {
	qs := a.confidence - WarningDeduction*float64(len(a.warnings)) - GapDeduction*float64(len(a.gaps))
	if qs < 0 {
		qs = 0
	}
	return &model.ValidationResult{
		IsValid:         true,
		Confidence:      a.confidence,
		Warnings:        nonNil(a.warnings),
		Recommendations: dedupe(a.recommendations),
		DataGaps:        nonNil(a.gaps),
		QualityScore:    qs,
	}
}

// GenericTermCount returns the total number of generic-term matches in text.
func GenericTermCount(text string) int {
	n := 0
	for _, re := range genericPatterns {
		n += len(re.FindAllStringIndex(text, -1))
	}
	return n
}

// checkFeatureIdea applies the hard length rule and the soft length and
// genericity penalties shared by both input validators.
func checkFeatureIdea(acc *inputAccumulator, idea string, mkErr func(ValidationType, string, string, ...string) *ValidationError) error {
	trimmed := strings.TrimSpace(idea)
	if trimmed == "" {
		return mkErr(TypeRequired, "feature_idea",
			fmt.Sprintf("feature idea is required and must be at least %d characters", MinFeatureIdeaLength),
			"Describe the feature in one or two sentences",
			"Include the problem it solves and who it is for",
		)
	}
	n := utf8.RuneCountInString(trimmed)
	if n < MinFeatureIdeaLength {
		return mkErr(TypeLength, "feature_idea",
			fmt.Sprintf("feature idea must be at least %d characters (got %d)", MinFeatureIdeaLength, n),
			"Expand the description with the problem being solved",
			"Mention the target audience and the core capability",
		)
	}

	if n > MaxFeatureIdeaLength {
		acc.warn(OversizedIdeaPenalty,
			fmt.Sprintf("Feature idea is very long (%d characters); analysis may miss the core concept", n),
			"Summarize the feature idea in under 2000 characters",
		)
	}

	if GenericTermCount(trimmed) > GenericTermLimit {
		acc.warn(GenericIdeaPenalty,
			"Feature idea appears generic; results may lack specificity",
			"Name the specific problem, audience, and differentiating capability instead of generic terms",
		)
	}
	return nil
}

// ValidateCompetitiveInput validates the inputs of a competitive analysis
// request. Hard violations return a *ValidationError; everything else
// degrades the returned confidence.
func (v *Validator) ValidateCompetitiveInput(featureIdea string, mc *model.MarketContext) (*model.ValidationResult, error) {
	acc := newInputAccumulator()
	if err := checkFeatureIdea(acc, featureIdea, NewCompetitiveError); err != nil {
		return nil, err
	}

	if mc == nil || *mc == (model.MarketContext{}) {
		acc.gap(MissingContextPenalty,
			"Market context not provided",
			"Provide industry, geography, and target segment for a more targeted analysis",
		)
	}

	return acc.result(), nil
}

// ValidateMarketSizingInput validates the inputs of a market sizing request.
func (v *Validator) ValidateMarketSizingInput(featureIdea string, def *model.MarketDefinition, methods []string) (*model.ValidationResult, error) {
	acc := newInputAccumulator()
	if err := checkFeatureIdea(acc, featureIdea, NewMarketSizingError); err != nil {
		return nil, err
	}

	if def == nil {
		return nil, NewMarketSizingError(TypeRequired, "market_definition",
			"market definition is required",
			"Provide a market_definition object with at least an industry",
			"Add geography and customer_segments to narrow the market",
		)
	}
	industry := strings.TrimSpace(def.Industry)
	if industry == "" {
		return nil, NewMarketSizingError(TypeRequired, "market_definition.industry",
			"market definition must include an industry",
			"Set market_definition.industry, e.g. \"healthcare software\"",
		)
	}
	if utf8.RuneCountInString(industry) < MinIndustryLength {
		acc.warn(ShortIndustryPenalty,
			fmt.Sprintf("Industry %q is very short and may be ambiguous", industry),
			"Use a descriptive industry name",
		)
	}

	switch {
	case def.Geography == nil:
		acc.gap(MissingGeographyPenalty, "Geography not specified",
			"Specify target geography to scope the serviceable market")
	case len(nonBlank(def.Geography)) == 0:
		acc.gap(EmptyGeographyPenalty, "Geography provided but empty",
			"List at least one target region or country")
	}

	if len(nonBlank(def.CustomerSegments)) == 0 {
		acc.gap(MissingSegmentsPenalty, "Customer segments not specified",
			"Define customer segments to support bottom-up sizing")
	}

	if len(methods) == 0 {
		return nil, NewMarketSizingError(TypeRequired, "sizing_methods",
			"at least one sizing method is required",
			fmt.Sprintf("Valid values: %s", strings.Join(model.SizingMethods(), ", ")),
			"Use two or more methods to triangulate the estimate",
		)
	}
	var invalid []string
	distinct := make(map[string]bool, len(methods))
	for _, m := range methods {
		if !isSizingMethod(m) {
			invalid = append(invalid, m)
			continue
		}
		distinct[m] = true
	}
	if len(invalid) > 0 {
		return nil, NewMarketSizingError(TypeEnum, "sizing_methods",
			fmt.Sprintf("invalid sizing methods: %s", strings.Join(quoteAll(invalid), ", ")),
			fmt.Sprintf("Valid values: %s", strings.Join(model.SizingMethods(), ", ")),
		)
	}
	if len(distinct) == 1 {
		acc.warn(SingleMethodPenalty,
			"Only one sizing method requested; estimates cannot be triangulated",
			"Combine top-down with bottom-up or value-theory sizing",
		)
	}

	return acc.result(), nil
}

func isSizingMethod(m string) bool {
	for _, valid := range model.SizingMethods() {
		if m == valid {
			return true
		}
	}
	return false
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

func nonBlank(ss []string) []string {
	var out []string
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
