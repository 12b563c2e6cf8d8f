// Package server exposes the analysis pipeline over HTTP: trigger, poll,
// per-tab reads of stored results, vendor comparison, and the
// collaborator-facing batch endpoint.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/vendor-risk/internal/model"
	"github.com/sells-group/vendor-risk/internal/vendor"
)

// JobStore is the vendor store surface the handlers need.
type JobStore interface {
	Trigger(vendorName string) vendor.TriggerReceipt
	Get(id string) (model.VendorEntry, bool)
	GetMultipleResults(ids []string) []*model.VendorAnalysisResult
}

// Comparer builds the comparison response for completed vendors.
type Comparer interface {
	Comparison(ctx context.Context, vendors []model.ComparisonVendor) model.ComparisonResponse
}

// BatchAggregator aggregates multiple companies with bounded concurrency.
type BatchAggregator interface {
	AggregateAll(ctx context.Context, companies []model.CompanyIdentifier, maxConcurrent int) []model.AggregatedCompanyData
}

// BatchEvaluator evaluates aggregated companies sequentially.
type BatchEvaluator interface {
	EvaluateAll(ctx context.Context, aggregated []model.AggregatedCompanyData) []*model.EvaluatedData
}

// BatchLimits bound the batch endpoint.
type BatchLimits struct {
	MaxCompanies           int
	MaxConcurrentCompanies int
}

// Server holds the handler dependencies.
type Server struct {
	store      JobStore
	comparer   Comparer
	resolver   vendor.NameResolver
	aggregator BatchAggregator
	evaluator  BatchEvaluator
	batch      BatchLimits
}

// New creates a Server. evaluator may be nil; the batch endpoint then
// always skips evaluation.
func New(
	store JobStore,
	comparer Comparer,
	resolver vendor.NameResolver,
	aggregator BatchAggregator,
	evaluator BatchEvaluator,
	batch BatchLimits,
) *Server {
	return &Server{
		store:      store,
		comparer:   comparer,
		resolver:   resolver,
		aggregator: aggregator,
		evaluator:  evaluator,
		batch:      batch,
	}
}

// Router builds the chi router with the full route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/companies/batch", s.handleBatch)
	r.Route("/vendors", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/compare", s.handleCompare)
		r.Route("/{vendorID}", func(r chi.Router) {
			r.Get("/status", s.handleStatus)
			r.Get("/overview", s.handleOverview)
			r.Get("/dependencies", s.handleDependencies)
			r.Get("/risk-breakdown", s.handleRiskBreakdown)
		})
	})
	return r
}

// requestLogger logs one line per request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
