package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/vendor-risk/internal/model"
	"github.com/sells-group/vendor-risk/internal/partition"
)

var (
	batchNames    []string
	batchSkipEval bool
)

type batchEntry struct {
	Company    model.CompanyIdentifier     `json:"company"`
	Aggregated model.AggregatedCompanyData `json:"aggregated"`
	Evaluated  *model.EvaluatedData        `json:"evaluated,omitempty"`
	Variables  *model.PartitionedVariables `json:"variables,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Aggregate and evaluate multiple companies",
	Long:  "Resolves each company name, fans out to the data providers concurrently, and optionally runs the qualitative evaluation. Prints one entry per company to stdout.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if len(batchNames) == 0 {
			return eris.New("at least one --company is required")
		}
		if len(batchNames) > cfg.Batch.MaxCompanies {
			return eris.Errorf("at most %d companies per batch", cfg.Batch.MaxCompanies)
		}

		env, err := initPipeline(batchSkipEval)
		if err != nil {
			return err
		}

		entries := make([]batchEntry, len(batchNames))
		var companies []model.CompanyIdentifier
		var resolvedIdx []int
		for i, name := range batchNames {
			company, err := env.Resolver.Resolve(ctx, name)
			if err != nil {
				zap.L().Warn("resolution failed",
					zap.String("vendor_name", name),
					zap.Error(err),
				)
				entries[i] = batchEntry{
					Company: model.CompanyIdentifier{Name: name},
					Error:   err.Error(),
				}
				continue
			}
			companies = append(companies, company)
			resolvedIdx = append(resolvedIdx, i)
		}

		aggregated := env.Aggregator.AggregateAll(ctx, companies, cfg.Batch.MaxConcurrentCompanies)

		var evaluations []*model.EvaluatedData
		if env.Evaluator != nil {
			evaluations = env.Evaluator.EvaluateAll(ctx, aggregated)
		}

		for j, agg := range aggregated {
			entry := batchEntry{
				Company:    agg.Company,
				Aggregated: agg,
			}
			if evaluations != nil {
				entry.Evaluated = evaluations[j]
				vars := partition.Partition(agg, evaluations[j])
				entry.Variables = &vars
			}
			entries[resolvedIdx[j]] = entry
		}

		zap.L().Info("batch complete",
			zap.Int("requested", len(batchNames)),
			zap.Int("resolved", len(companies)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	},
}

func init() {
	batchCmd.Flags().StringSliceVar(&batchNames, "company", nil, "company name (repeatable)")
	batchCmd.Flags().BoolVar(&batchSkipEval, "skip-evaluation", false, "skip the qualitative evaluation pass")
	_ = batchCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(batchCmd)
}
