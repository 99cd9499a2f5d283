package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/pm-toolserver/internal/mcpserver"
	"github.com/sells-group/pm-toolserver/internal/model"
	"github.com/sells-group/pm-toolserver/internal/quality"
	"github.com/sells-group/pm-toolserver/internal/tools"
)

var (
	validateIdea      string
	validateIndustry  string
	validateGeography []string
	validateSegments  []string
	validateMaturity  string
	validateMethods   []string
	validateFormat    string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the inputs of an analysis request",
}

var validateCompetitiveCmd = &cobra.Command{
	Use:   "competitive",
	Short: "Validate a competitive analysis request",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("validate"); err != nil {
			return err
		}
		var mc *model.MarketContext
		if validateIndustry != "" || len(validateGeography) > 0 || len(validateSegments) > 0 || validateMaturity != "" {
			mc = &model.MarketContext{
				Industry:       validateIndustry,
				Geography:      first(validateGeography),
				TargetSegment:  first(validateSegments),
				MarketMaturity: validateMaturity,
			}
		}
		return runTool(cmd.Context(), cmd.OutOrStdout(), newRegistry(cfg), tools.ValidateCompetitiveInput, map[string]any{
			"feature_idea":   validateIdea,
			"market_context": mc,
			"format":         validateFormat,
		})
	},
}

var validateMarketCmd = &cobra.Command{
	Use:   "market",
	Short: "Validate a market sizing request",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("validate"); err != nil {
			return err
		}
		def := &model.MarketDefinition{
			Industry:         validateIndustry,
			CustomerSegments: validateSegments,
		}
		if cmd.Flags().Changed("geography") {
			def.Geography = validateGeography
		}
		return runTool(cmd.Context(), cmd.OutOrStdout(), newRegistry(cfg), tools.ValidateMarketSizingInput, map[string]any{
			"feature_idea":      validateIdea,
			"market_definition": def,
			"sizing_methods":    validateMethods,
			"format":            validateFormat,
		})
	},
}

// runTool calls a registry tool and prints its output. Validation errors are
// printed with their suggestions and returned.
func runTool(ctx context.Context, w io.Writer, reg *tools.Registry, name string, args map[string]any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return eris.Wrap(err, "encode tool arguments")
	}
	resp, err := reg.Call(ctx, name, raw)
	if err != nil {
		if ve, ok := quality.AsValidationError(err); ok {
			fmt.Fprintln(w, ve.UserMessage())
		}
		return err
	}
	text, err := mcpserver.Text(resp)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, text)
	return err
}

func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}

func init() {
	for _, c := range []*cobra.Command{validateCompetitiveCmd, validateMarketCmd} {
		c.Flags().StringVar(&validateIdea, "idea", "", "feature idea")
		c.Flags().StringVar(&validateIndustry, "industry", "", "industry")
		c.Flags().StringSliceVar(&validateGeography, "geography", nil, "target geography")
		c.Flags().StringVar(&validateFormat, "format", "markdown", "output format: markdown or json")
		_ = c.MarkFlagRequired("idea")
		validateCmd.AddCommand(c)
	}
	validateCompetitiveCmd.Flags().StringSliceVar(&validateSegments, "segment", nil, "target segment")
	validateCompetitiveCmd.Flags().StringVar(&validateMaturity, "maturity", "", "market maturity: emerging, growing, mature or declining")
	validateMarketCmd.Flags().StringSliceVar(&validateSegments, "segments", nil, "customer segments")
	validateMarketCmd.Flags().StringSliceVar(&validateMethods, "methods", nil, "sizing methods: top-down, bottom-up, value-theory")
	rootCmd.AddCommand(validateCmd)
}
