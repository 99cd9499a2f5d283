package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/pm-toolserver/internal/cost"
	"github.com/sells-group/pm-toolserver/internal/model"
	"github.com/sells-group/pm-toolserver/internal/quality"
	"github.com/sells-group/pm-toolserver/internal/report"
	"github.com/sells-group/pm-toolserver/internal/tools"
)

// Assessment kinds accepted by --kind.
const (
	kindCompetitive = "competitive"
	kindMarket      = "market"
)

var (
	assessKind   string
	assessFormat string
	assessOutput string
)

var assessCmd = &cobra.Command{
	Use:   "assess FILE...",
	Short: "Score analysis result files",
	Long:  "Reads competitive or market sizing result JSON files, scores them concurrently and renders the assessments in input order.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("assess"); err != nil {
			return err
		}

		reg := newRegistry(cfg)
		assessments, err := assessFiles(ctx, reg.Assessor(), assessKind, args, cfg.Batch.MaxConcurrent)
		if err != nil {
			return err
		}

		if q, err := batchQuota(reg, assessKind, args, assessments); err != nil {
			zap.L().Warn("assess: batch quota unavailable", zap.Error(err))
		} else {
			zap.L().Info("assess: batch quota",
				zap.String("model", q.Model),
				zap.Int("input_tokens", q.InputTokens),
				zap.Int("output_tokens", q.OutputTokens),
				zap.Float64("estimated_cost_usd", q.EstimatedCostUSD),
			)
		}

		w := cmd.OutOrStdout()
		if assessOutput != "" {
			f, err := os.Create(assessOutput)
			if err != nil {
				return eris.Wrapf(err, "assess: create %s", assessOutput)
			}
			defer f.Close() //nolint:errcheck
			w = f
		}
		return writeAssessments(w, assessFormat, assessments)
	},
}

// assessFiles loads and scores each file with at most concurrency workers.
// Results keep the order of paths.
func assessFiles(ctx context.Context, a *tools.Assessor, kind string, paths []string, concurrency int) ([]*report.Assessment, error) {
	if kind != kindCompetitive && kind != kindMarket {
		return nil, eris.Errorf("assess: unknown kind %q (want %s or %s)", kind, kindCompetitive, kindMarket)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	zap.L().Info("assess: scoring files",
		zap.String("kind", kind),
		zap.Int("files", len(paths)),
		zap.Int("concurrency", concurrency),
	)

	out := make([]*report.Assessment, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			switch kind {
			case kindCompetitive:
				var r model.CompetitorAnalysisResult
				if err := readJSON(path, &r); err != nil {
					return err
				}
				if err := tools.CheckSources(quality.NewCompetitiveError, "source_attribution", r.SourceAttribution); err != nil {
					return eris.Wrap(err, path)
				}
				out[i] = a.Competitive(name, &r)
			case kindMarket:
				var r model.MarketSizingResult
				if err := readJSON(path, &r); err != nil {
					return err
				}
				if err := tools.CheckSources(quality.NewMarketSizingError, "source_attribution", r.SourceAttribution); err != nil {
					return eris.Wrap(err, path)
				}
				out[i] = a.MarketSizing(name, &r)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "assess")
	}
	return out, nil
}

// batchQuota estimates what scoring paths through the assess tool as one
// batch would cost: file contents in, rendered assessments out.
func batchQuota(reg *tools.Registry, kind string, paths []string, assessments []*report.Assessment) (cost.Quota, error) {
	tool := tools.AssessCompetitiveAnalysis
	if kind == kindMarket {
		tool = tools.AssessMarketSizing
	}
	inputs := make([]string, len(paths))
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return cost.Quota{}, eris.Wrapf(err, "read %s", path)
		}
		inputs[i] = string(data)
	}
	outputs := make([]string, len(assessments))
	for i, a := range assessments {
		outputs[i] = report.AssessmentMarkdown(a)
	}
	return reg.EstimateBatch(tool, inputs, outputs), nil
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return eris.Wrapf(err, "decode %s", path)
	}
	return nil
}

// writeAssessments renders assessments in the requested format. Text
// formats separate documents with a rule; json emits one array.
func writeAssessments(w io.Writer, format string, assessments []*report.Assessment) error {
	switch format {
	case report.FormatXLSX:
		return report.WriteWorkbook(w, assessments)
	case report.FormatJSON:
		s, err := report.JSON(assessments)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, s)
		return err
	}

	for i, a := range assessments {
		s, err := report.Render(format, a)
		if err != nil {
			return err
		}
		if i > 0 {
			if _, err := fmt.Fprint(w, "\n---\n\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(w, s); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	assessCmd.Flags().StringVar(&assessKind, "kind", kindCompetitive, "result kind: competitive or market")
	assessCmd.Flags().StringVar(&assessFormat, "format", report.FormatMarkdown, "output format: markdown, json, html or xlsx")
	assessCmd.Flags().StringVarP(&assessOutput, "output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(assessCmd)
}
