package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pm-toolserver/internal/degrade"
	"github.com/sells-group/pm-toolserver/internal/model"
	"github.com/sells-group/pm-toolserver/internal/quality"
	"github.com/sells-group/pm-toolserver/internal/report"
	"github.com/sells-group/pm-toolserver/internal/steering"
)

// Tool names.
const (
	ValidateCompetitiveInput  = "validate_competitive_input"
	ValidateMarketSizingInput = "validate_market_sizing_input"
	AssessCompetitiveAnalysis = "assess_competitive_analysis"
	AssessMarketSizing        = "assess_market_sizing"
	CheckDataSufficiency      = "check_data_sufficiency"
)

// Data sufficiency check kinds.
const (
	SufficiencyCompetitors = "competitors"
	SufficiencyMarket      = "market"
	SufficiencyStaleness   = "staleness"
)

func formatOption() mcp.ToolOption {
	return mcp.WithString("format",
		mcp.Description("Output format (default markdown)"),
		mcp.Enum(formats...),
	)
}

func assessOptions(resultDesc string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithObject("result", mcp.Required(), mcp.Description(resultDesc)),
		mcp.WithBoolean("include_citations", mcp.Description("Attach rendered citations of the result's sources")),
		mcp.WithBoolean("save_steering", mcp.Description("Persist the assessment as a steering file")),
		mcp.WithString("title", mcp.Description("Title for the assessment and steering file")),
		formatOption(),
	}
}

type validateCompetitiveArgs struct {
	FeatureIdea   string               `json:"feature_idea"`
	MarketContext *model.MarketContext `json:"market_context"`
	Format        string               `json:"format"`
}

func (r *Registry) validateCompetitiveTool(v *quality.Validator) Tool {
	return Tool{
		Name:        ValidateCompetitiveInput,
		Description: "Validate the inputs of a competitive analysis request and report input confidence, warnings and data gaps.",
		Options: []mcp.ToolOption{
			mcp.WithString("feature_idea", mcp.Required(), mcp.Description("The feature idea to analyze (at least 10 characters)")),
			mcp.WithObject("market_context", mcp.Description("Optional industry, geography, target_segment and market_maturity")),
			formatOption(),
		},
		Handler: func(_ context.Context, raw json.RawMessage) (*Response, error) {
			var args validateCompetitiveArgs
			if err := decodeArgs(raw, &args, quality.NewCompetitiveError); err != nil {
				return nil, err
			}
			format, err := resolveFormat(args.Format, quality.NewCompetitiveError)
			if err != nil {
				return nil, err
			}
			res, err := v.ValidateCompetitiveInput(args.FeatureIdea, args.MarketContext)
			if err != nil {
				return nil, err
			}
			return validationResponse(format, "Competitive Input Validation", res), nil
		},
	}
}

type validateMarketArgs struct {
	FeatureIdea      string                  `json:"feature_idea"`
	MarketDefinition *model.MarketDefinition `json:"market_definition"`
	SizingMethods    []string                `json:"sizing_methods"`
	Format           string                  `json:"format"`
}

func (r *Registry) validateMarketSizingTool(v *quality.Validator) Tool {
	return Tool{
		Name:        ValidateMarketSizingInput,
		Description: "Validate the inputs of a market sizing request: feature idea, market definition and sizing methods.",
		Options: []mcp.ToolOption{
			mcp.WithString("feature_idea", mcp.Required(), mcp.Description("The feature idea to size (at least 10 characters)")),
			mcp.WithObject("market_definition", mcp.Required(), mcp.Description("industry, geography and customer_segments")),
			mcp.WithArray("sizing_methods", mcp.Required(),
				mcp.Description("Sizing methods to apply"),
				mcp.Items(map[string]any{"type": "string", "enum": model.SizingMethods()}),
			),
			formatOption(),
		},
		Handler: func(_ context.Context, raw json.RawMessage) (*Response, error) {
			var args validateMarketArgs
			if err := decodeArgs(raw, &args, quality.NewMarketSizingError); err != nil {
				return nil, err
			}
			format, err := resolveFormat(args.Format, quality.NewMarketSizingError)
			if err != nil {
				return nil, err
			}
			res, err := v.ValidateMarketSizingInput(args.FeatureIdea, args.MarketDefinition, args.SizingMethods)
			if err != nil {
				return nil, err
			}
			return validationResponse(format, "Market Sizing Input Validation", res), nil
		},
	}
}

func validationResponse(format, title string, res *model.ValidationResult) *Response {
	if format == report.FormatJSON {
		return &Response{Format: format, Data: res}
	}
	return &Response{Format: format, Content: report.ValidationMarkdown(title, res)}
}

type assessArgs[T any] struct {
	Result           *T     `json:"result"`
	IncludeCitations bool   `json:"include_citations"`
	SaveSteering     bool   `json:"save_steering"`
	Title            string `json:"title"`
	Format           string `json:"format"`
}

func (r *Registry) assessCompetitiveTool() Tool {
	return Tool{
		Name:        AssessCompetitiveAnalysis,
		Description: "Score the data quality and confidence of a competitive analysis result, with uncertainty indicators and degradation checks.",
		Options:     assessOptions("A competitive analysis result: market_context, competitive_matrix, swot_analysis, strategic_recommendations, source_attribution"),
		Handler: func(_ context.Context, raw json.RawMessage) (*Response, error) {
			var args assessArgs[model.CompetitorAnalysisResult]
			if err := decodeArgs(raw, &args, quality.NewCompetitiveError); err != nil {
				return nil, err
			}
			format, err := resolveFormat(args.Format, quality.NewCompetitiveError)
			if err != nil {
				return nil, err
			}
			if args.Result == nil {
				return nil, quality.NewCompetitiveError(quality.TypeRequired, "result",
					"result is required",
					"Pass the competitive analysis result object as \"result\"")
			}
			if err := CheckSources(quality.NewCompetitiveError, "result.source_attribution", args.Result.SourceAttribution); err != nil {
				return nil, err
			}
			name := titleFor(args.Title, args.Result.FeatureIdea, "competitive analysis")
			return r.assessmentResponse(format, args.IncludeCitations, args.SaveSteering,
				r.assessor.Competitive(name, args.Result))
		},
	}
}

func (r *Registry) assessMarketSizingTool() Tool {
	return Tool{
		Name:        AssessMarketSizing,
		Description: "Score the data quality and confidence of a market sizing result (TAM/SAM/SOM), with uncertainty ranges and a staleness check.",
		Options:     assessOptions("A market sizing result: tam, sam, som, methodology, assumptions, confidence_intervals, source_attribution"),
		Handler: func(_ context.Context, raw json.RawMessage) (*Response, error) {
			var args assessArgs[model.MarketSizingResult]
			if err := decodeArgs(raw, &args, quality.NewMarketSizingError); err != nil {
				return nil, err
			}
			format, err := resolveFormat(args.Format, quality.NewMarketSizingError)
			if err != nil {
				return nil, err
			}
			if args.Result == nil {
				return nil, quality.NewMarketSizingError(quality.TypeRequired, "result",
					"result is required",
					"Pass the market sizing result object as \"result\"")
			}
			if err := CheckSources(quality.NewMarketSizingError, "result.source_attribution", args.Result.SourceAttribution); err != nil {
				return nil, err
			}
			name := titleFor(args.Title, args.Result.FeatureIdea, "market sizing")
			return r.assessmentResponse(format, args.IncludeCitations, args.SaveSteering,
				r.assessor.MarketSizing(name, args.Result))
		},
	}
}

func titleFor(title, idea, fallback string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	if t := strings.TrimSpace(idea); t != "" {
		return t
	}
	return fallback
}

func (r *Registry) assessmentResponse(format string, withCitations, saveSteering bool, a *report.Assessment) (*Response, error) {
	citations := a.Citations
	if !withCitations {
		a.Citations = nil
	}

	resp := &Response{Format: format}
	if withCitations {
		resp.Citations = citations
	}

	md := report.AssessmentMarkdown(a)
	if format == report.FormatJSON {
		resp.Data = a
	} else {
		resp.Content = md
	}

	if saveSteering {
		path, err := r.saveSteering(a, md)
		if err != nil {
			return nil, err
		}
		resp.SteeringPath = path
	}
	return resp, nil
}

func (r *Registry) saveSteering(a *report.Assessment, body string) (string, error) {
	if !r.steering.Enabled() {
		zap.L().Warn("tool: steering requested but disabled", zap.String("name", a.Name))
		return "", nil
	}
	path, err := r.steering.Write(steering.Doc{
		Meta: steering.Meta{
			Title:             a.Name,
			Kind:              string(a.Kind),
			OverallConfidence: a.Confidence.Overall,
			ReliabilityLevel:  string(a.Confidence.ReliabilityLevel),
			CreatedAt:         r.now().UTC(),
			Tags:              []string{string(a.Kind), string(a.Confidence.ReliabilityLevel)},
		},
		Body: body,
	})
	if err != nil {
		return "", eris.Wrap(err, "tool: save steering")
	}
	return path, nil
}

type sufficiencyArgs struct {
	Kind                   string                  `json:"kind"`
	Competitors            []model.Competitor      `json:"competitors"`
	MinRequired            int                     `json:"min_required"`
	AvailableData          map[string]any          `json:"available_data"`
	RequiredFields         []string                `json:"required_fields"`
	Sources                []model.SourceReference `json:"sources"`
	FreshnessThresholdDays int                     `json:"freshness_threshold_days"`
	Format                 string                  `json:"format"`
}

func (r *Registry) dataSufficiencyTool(m *degrade.Manager, s Settings) Tool {
	kinds := []string{SufficiencyCompetitors, SufficiencyMarket, SufficiencyStaleness}
	return Tool{
		Name:        CheckDataSufficiency,
		Description: "Decide whether an analysis can proceed on the available competitor, market or source data, and how far its confidence should be discounted.",
		Options: []mcp.ToolOption{
			mcp.WithString("kind", mcp.Required(), mcp.Description("Which check to run"), mcp.Enum(kinds...)),
			mcp.WithArray("competitors", mcp.Description("Competitor profiles (kind=competitors)"), mcp.Items(map[string]any{"type": "object"})),
			mcp.WithNumber("min_required", mcp.Description("Minimum competitors required (default 3)")),
			mcp.WithObject("available_data", mcp.Description("Market data collected so far (kind=market)")),
			mcp.WithArray("required_fields", mcp.Description("Required market fields"), mcp.Items(map[string]any{"type": "string"})),
			mcp.WithArray("sources", mcp.Description("Source references (kind=staleness)"), mcp.Items(map[string]any{"type": "object"})),
			mcp.WithNumber("freshness_threshold_days", mcp.Description("Age in days above which a source is stale (default 90)")),
			formatOption(),
		},
		Handler: func(_ context.Context, raw json.RawMessage) (*Response, error) {
			var args sufficiencyArgs
			if err := decodeArgs(raw, &args, quality.NewMarketSizingError); err != nil {
				return nil, err
			}
			mkErr := quality.NewMarketSizingError
			if args.Kind == SufficiencyCompetitors {
				mkErr = quality.NewCompetitiveError
			}
			format, err := resolveFormat(args.Format, mkErr)
			if err != nil {
				return nil, err
			}

			var check string
			var d degrade.Decision
			switch args.Kind {
			case SufficiencyCompetitors:
				check = CheckCompetitorCoverage
				minRequired := args.MinRequired
				if minRequired <= 0 {
					minRequired = s.MinCompetitors
				}
				if minRequired <= 0 {
					minRequired = degrade.DefaultMinCompetitors
				}
				d = m.HandleInsufficientCompetitorData(args.Competitors, minRequired)
			case SufficiencyMarket:
				check = "Market data"
				fields := args.RequiredFields
				if len(fields) == 0 {
					fields = s.RequiredMarketFields
				}
				d = m.HandleInsufficientMarketData(args.AvailableData, fields)
			case SufficiencyStaleness:
				check = CheckSourceFreshness
				threshold := args.FreshnessThresholdDays
				if threshold <= 0 {
					threshold = s.FreshnessThresholdDays
				}
				if threshold <= 0 {
					threshold = degrade.DefaultFreshnessThreshold
				}
				if err := CheckSources(mkErr, "sources", args.Sources); err != nil {
					return nil, err
				}
				d = m.HandleStaleData(args.Sources, threshold)
			case "":
				return nil, mkErr(quality.TypeRequired, "kind", "kind is required",
					fmt.Sprintf("Valid values: %s", strings.Join(kinds, ", ")))
			default:
				return nil, mkErr(quality.TypeEnum, "kind",
					fmt.Sprintf("Unsupported sufficiency check %q", args.Kind),
					fmt.Sprintf("Valid values: %s", strings.Join(kinds, ", ")))
			}

			if format == report.FormatJSON {
				return &Response{Format: format, Data: d}, nil
			}
			return &Response{Format: format, Content: report.DecisionMarkdown(check, d)}, nil
		},
	}
}
