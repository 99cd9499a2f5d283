package quality

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pm-toolserver/internal/model"
)

const specificIdea = "Automated HIPAA audit trail exports for dental clinic schedulers"

func fullContext() *model.MarketContext {
	return &model.MarketContext{Industry: "dental software", Geography: "US", TargetSegment: "independent clinics"}
}

func TestValidateCompetitiveInput_Clean(t *testing.T) {
	res, err := New().ValidateCompetitiveInput(specificIdea, fullContext())
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, 1.0, res.QualityScore)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.DataGaps)
}

func TestValidateCompetitiveInput_HardFailures(t *testing.T) {
	tests := []struct {
		name string
		idea string
		typ  ValidationType
	}{
		{"empty", "", TypeRequired},
		{"whitespace", "    \t\n", TypeRequired},
		{"too short", "  short  ", TypeLength},
		{"nine chars", "123456789", TypeLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New().ValidateCompetitiveInput(tt.idea, fullContext())
			require.Error(t, err)
			assert.Nil(t, res)

			ve, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, DomainCompetitive, ve.Domain)
			assert.Equal(t, tt.typ, ve.Type)
			assert.Equal(t, "feature_idea", ve.Field)
			assert.Contains(t, ve.Message, "10 characters")
			assert.NotEmpty(t, ve.Suggestions)
		})
	}
}

func TestValidateCompetitiveInput_ExactlyMinLength(t *testing.T) {
	res, err := New().ValidateCompetitiveInput("1234567890", fullContext())
	require.NoError(t, err)
	assert.True(t, res.IsValid)
}

func TestValidateCompetitiveInput_MissingContext(t *testing.T) {
	res, err := New().ValidateCompetitiveInput(specificIdea, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, res.Confidence, 1e-9)
	require.Len(t, res.DataGaps, 1)
	// 0.8 - 0.1*1 gap
	assert.InDelta(t, 0.7, res.QualityScore, 1e-9)
	assert.NotEmpty(t, res.Recommendations)

	empty, err := New().ValidateCompetitiveInput(specificIdea, &model.MarketContext{})
	require.NoError(t, err)
	assert.Equal(t, res.Confidence, empty.Confidence)
}

func TestValidateCompetitiveInput_Oversized(t *testing.T) {
	idea := strings.Repeat("dental ", 400) // 2800 chars
	res, err := New().ValidateCompetitiveInput(idea, fullContext())
	require.NoError(t, err)
	assert.InDelta(t, 0.95, res.Confidence, 1e-9)
	require.Len(t, res.Warnings, 1)
	assert.InDelta(t, 0.90, res.QualityScore, 1e-9)
}

func TestValidateCompetitiveInput_Generic(t *testing.T) {
	idea := "A better app platform tool for users and customers so people get an improved solution"
	require.Greater(t, GenericTermCount(idea), GenericTermLimit)

	res, err := New().ValidateCompetitiveInput(idea, fullContext())
	require.NoError(t, err)
	assert.InDelta(t, 0.9, res.Confidence, 1e-9)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "appears generic")
}

func TestGenericTermCount_AtLimitNotPenalized(t *testing.T) {
	idea := "An app for users that is better and optimized for customers"
	assert.Equal(t, 5, GenericTermCount(idea))

	res, err := New().ValidateCompetitiveInput(idea, fullContext())
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestValidateCompetitiveInput_Monotonic(t *testing.T) {
	base, err := New().ValidateCompetitiveInput(specificIdea, fullContext())
	require.NoError(t, err)

	defects := map[string]func() (*model.ValidationResult, error){
		"oversized": func() (*model.ValidationResult, error) {
			return New().ValidateCompetitiveInput(specificIdea+strings.Repeat(" clinic", 300), fullContext())
		},
		"generic": func() (*model.ValidationResult, error) {
			return New().ValidateCompetitiveInput(specificIdea+" app platform tool users customers people", fullContext())
		},
		"no context": func() (*model.ValidationResult, error) {
			return New().ValidateCompetitiveInput(specificIdea, nil)
		},
	}
	for name, run := range defects {
		t.Run(name, func(t *testing.T) {
			res, err := run()
			require.NoError(t, err)
			assert.LessOrEqual(t, res.Confidence, base.Confidence)
			assert.LessOrEqual(t, res.QualityScore, base.QualityScore)
		})
	}
}

func TestValidateCompetitiveInput_QualityScoreFloor(t *testing.T) {
	idea := strings.Repeat("better app for users ", 120)
	res, err := New().ValidateCompetitiveInput(idea, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.QualityScore, 0.0)
	// 0.95 * 0.9 * 0.8
	assert.InDelta(t, 0.684, res.Confidence, 1e-9)
	// 0.684 - 2*0.05 - 0.1
	assert.InDelta(t, 0.484, res.QualityScore, 1e-9)
}

func fullDefinition() *model.MarketDefinition {
	return &model.MarketDefinition{
		Industry:         "dental software",
		Geography:        []string{"US"},
		CustomerSegments: []string{"independent clinics"},
	}
}

func TestValidateMarketSizingInput_Clean(t *testing.T) {
	res, err := New().ValidateMarketSizingInput(specificIdea, fullDefinition(), []string{"top-down", "bottom-up"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Empty(t, res.Warnings)
}

func TestValidateMarketSizingInput_HardFailures(t *testing.T) {
	tests := []struct {
		name    string
		idea    string
		def     *model.MarketDefinition
		methods []string
		field   string
		typ     ValidationType
	}{
		{"short idea", "tiny", fullDefinition(), []string{"top-down"}, "feature_idea", TypeLength},
		{"nil definition", specificIdea, nil, []string{"top-down"}, "market_definition", TypeRequired},
		{"missing industry", specificIdea, &model.MarketDefinition{Geography: []string{"US"}}, []string{"top-down"}, "market_definition.industry", TypeRequired},
		{"no methods", specificIdea, fullDefinition(), nil, "sizing_methods", TypeRequired},
		{"empty methods", specificIdea, fullDefinition(), []string{}, "sizing_methods", TypeRequired},
		{"invalid method", specificIdea, fullDefinition(), []string{"top-down", "gut-feel"}, "sizing_methods", TypeEnum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().ValidateMarketSizingInput(tt.idea, tt.def, tt.methods)
			require.Error(t, err)
			ve, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, DomainMarketSizing, ve.Domain)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.typ, ve.Type)
			assert.NotEmpty(t, ve.Suggestions)
		})
	}
}

func TestValidateMarketSizingInput_InvalidMethodListsValues(t *testing.T) {
	_, err := New().ValidateMarketSizingInput(specificIdea, fullDefinition(), []string{"gut-feel", "bottom-up", "vibes"})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Message, `"gut-feel"`)
	assert.Contains(t, ve.Message, `"vibes"`)
	assert.Contains(t, strings.Join(ve.Suggestions, " "), "top-down, bottom-up, value-theory")
}

func TestValidateMarketSizingInput_SoftPenalties(t *testing.T) {
	tests := []struct {
		name string
		def  *model.MarketDefinition
		want float64
		gaps int
	}{
		{"short industry", &model.MarketDefinition{Industry: "AI", Geography: []string{"US"}, CustomerSegments: []string{"smb"}}, 0.9, 0},
		{"missing geography", &model.MarketDefinition{Industry: "dental", CustomerSegments: []string{"smb"}}, 0.85, 1},
		{"empty geography", &model.MarketDefinition{Industry: "dental", Geography: []string{}, CustomerSegments: []string{"smb"}}, 0.8, 1},
		{"missing segments", &model.MarketDefinition{Industry: "dental", Geography: []string{"US"}}, 0.85, 1},
		{"missing both", &model.MarketDefinition{Industry: "dental"}, 0.85 * 0.85, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New().ValidateMarketSizingInput(specificIdea, tt.def, []string{"top-down", "value-theory"})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, res.Confidence, 1e-9)
			assert.Len(t, res.DataGaps, tt.gaps)
		})
	}
}

func TestValidateMarketSizingInput_SingleMethod(t *testing.T) {
	res, err := New().ValidateMarketSizingInput(specificIdea, fullDefinition(), []string{"bottom-up", "bottom-up"})
	require.NoError(t, err)
	assert.InDelta(t, 0.9, res.Confidence, 1e-9)
	require.Len(t, res.Warnings, 1)
}

func TestValidateMarketSizingInput_FoldsIdeaConfidence(t *testing.T) {
	idea := "A better app platform tool for users and customers so people get an improved solution"
	res, err := New().ValidateMarketSizingInput(idea, fullDefinition(), []string{"top-down"})
	require.NoError(t, err)
	assert.InDelta(t, 0.9*0.9, res.Confidence, 1e-9)
}

func TestValidationError_Wrapped(t *testing.T) {
	_, err := New().ValidateCompetitiveInput("", nil)
	wrapped := fmt.Errorf("tool: validate: %w", err)

	ve, ok := AsValidationError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "feature_idea", ve.Field)

	var target *ValidationError
	assert.True(t, errors.As(wrapped, &target))
	assert.Contains(t, ve.UserMessage(), "Suggestions:")
}
