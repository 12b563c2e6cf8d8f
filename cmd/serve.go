package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/vendor-risk/internal/server"
	"github.com/sells-group/vendor-risk/internal/vendor"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the vendor analysis HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(false)
		if err != nil {
			return err
		}

		store := vendor.NewStore(env.Pipeline, cfg.Pipeline.EstimatedCompletionSecs)

		var batchEvaluator server.BatchEvaluator
		if env.Evaluator != nil {
			batchEvaluator = env.Evaluator
		}
		srv := server.New(store, env.Builder, env.Resolver, env.Aggregator, batchEvaluator, server.BatchLimits{
			MaxCompanies:           cfg.Batch.MaxCompanies,
			MaxConcurrentCompanies: cfg.Batch.MaxConcurrentCompanies,
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srv.Router(),
		}

		// Graceful shutdown: stop accepting requests, then wait for
		// in-flight analysis runs to reach a terminal state.
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		zap.L().Info("waiting for in-flight analyses")
		store.Wait()

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
