package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/pm-toolserver/internal/tools"
)

var sufficiencyFormat string

var sufficiencyCmd = &cobra.Command{
	Use:   "sufficiency FILE",
	Short: "Check whether available data supports an analysis",
	Long:  "Reads check_data_sufficiency arguments (kind plus competitors, available_data or sources) from a JSON file and prints the degradation decision.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("validate"); err != nil {
			return err
		}
		toolArgs, err := readArgs(args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("format") {
			toolArgs["format"] = sufficiencyFormat
		}
		return runTool(cmd.Context(), cmd.OutOrStdout(), newRegistry(cfg), tools.CheckDataSufficiency, toolArgs)
	},
}

func readArgs(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, eris.Wrapf(err, "decode %s", path)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func init() {
	sufficiencyCmd.Flags().StringVar(&sufficiencyFormat, "format", "markdown", "output format: markdown or json")
	rootCmd.AddCommand(sufficiencyCmd)
}
