package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/vendor-risk/internal/config"
)

var (
	cfg     *config.Config
	cfgPath string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vendor-risk",
		Short: "Vendor risk analysis pipeline",
		Long:  "Resolves vendor names to public tickers, aggregates financial, regulatory, and news data, scores supply-chain risk, and serves the results over HTTP.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(cfgPath)
			if err != nil {
				return eris.Wrap(err, "load config")
			}
			cfg = c

			if err := config.InitLogger(cfg.Log); err != nil {
				return eris.Wrap(err, "init logger")
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: config.yaml in the working directory)")
	return root
}

var rootCmd = newRootCmd()

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
