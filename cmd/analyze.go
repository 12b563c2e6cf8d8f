package main

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	analyzeName     string
	analyzeSkipEval bool
	analyzeSummary  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a full analysis for a single vendor",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(analyzeSkipEval)
		if err != nil {
			return err
		}

		result, err := env.Pipeline.Run(ctx, uuid.NewString(), analyzeName)
		if err != nil {
			return eris.Wrap(err, "analysis run")
		}

		zap.L().Info("analysis complete",
			zap.String("vendor", analyzeName),
			zap.String("ticker", result.Company.Ticker),
			zap.Int("overall_risk", result.Score.OverallRiskScore),
			zap.String("risk_level", string(result.Score.OverallRiskLevel)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if analyzeSummary {
			return enc.Encode(result.Overview)
		}
		return enc.Encode(result)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "vendor name (required)")
	analyzeCmd.Flags().BoolVar(&analyzeSkipEval, "skip-evaluation", false, "score on benchmark data only")
	analyzeCmd.Flags().BoolVar(&analyzeSummary, "summary", false, "print the overview instead of the full result")
	_ = analyzeCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(analyzeCmd)
}
