package main

import (
	"github.com/sells-group/vendor-risk/internal/evaluate"
	"github.com/sells-group/vendor-risk/internal/reasoning"
	"github.com/sells-group/vendor-risk/internal/report"
	"github.com/sells-group/vendor-risk/internal/score"
	"github.com/sells-group/vendor-risk/internal/sources"
	"github.com/sells-group/vendor-risk/internal/vendor"
	anthropicpkg "github.com/sells-group/vendor-risk/pkg/anthropic"
	"github.com/sells-group/vendor-risk/pkg/edgar"
	"github.com/sells-group/vendor-risk/pkg/epa"
	"github.com/sells-group/vendor-risk/pkg/fmp"
	"github.com/sells-group/vendor-risk/pkg/fred"
	"github.com/sells-group/vendor-risk/pkg/newsapi"
	"github.com/sells-group/vendor-risk/pkg/osha"
	"github.com/sells-group/vendor-risk/pkg/websearch"
)

// pipelineEnv holds the initialized clients and pipeline stages shared by
// the analyze/batch/serve commands.
type pipelineEnv struct {
	Aggregator *sources.Aggregator
	Evaluator  *evaluate.Evaluator // nil when evaluation is disabled
	Resolver   *vendor.Resolver
	Scorer     *score.Scorer
	Builder    *report.Builder
	Pipeline   *vendor.Pipeline
}

// initPipeline builds every API client and wires the pipeline stages.
// skipEvaluation leaves the evaluator nil so runs score on benchmark
// defaults alone.
func initPipeline(skipEvaluation bool) (*pipelineEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fmpClient := fmp.NewClient(cfg.FMP.Key, fmp.WithBaseURL(cfg.FMP.BaseURL))
	edgarClient := edgar.NewClient(cfg.Edgar.UserAgent, edgar.WithBaseURL(cfg.Edgar.BaseURL))
	fredClient := fred.NewClient(cfg.FRED.Key, fred.WithBaseURL(cfg.FRED.BaseURL))
	epaClient := epa.NewClient()
	oshaClient := osha.NewClient(cfg.OSHA.Key, osha.WithBaseURL(cfg.OSHA.BaseURL))
	newsClient := newsapi.NewClient(cfg.News.Key, newsapi.WithBaseURL(cfg.News.BaseURL))
	websearchClient := websearch.NewClient(cfg.Websearch.Key,
		websearch.WithBaseURL(cfg.Websearch.BaseURL),
		websearch.WithModel(cfg.Websearch.Model),
	)

	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
	generator := reasoning.NewAnthropicGenerator(anthropicClient, cfg.Anthropic.Model)

	aggregator := sources.New(
		fmpClient,
		edgarClient,
		fredClient,
		epaClient,
		oshaClient,
		newsClient,
		websearchClient,
		cfg.Pipeline.ProviderTimeout(),
	)

	var evaluator *evaluate.Evaluator
	if !skipEvaluation {
		evaluator = evaluate.New(generator, cfg.Pipeline.EvaluateRatePerMin)
	}

	resolver := vendor.NewResolver(fmpClient, generator)
	scorer := score.New(cfg.Pipeline.JitterSeed)
	builder := report.New(generator, cfg.Pipeline.JitterSeed)

	var pipelineEvaluator vendor.Evaluator
	if evaluator != nil {
		pipelineEvaluator = evaluator
	}
	p := vendor.NewPipeline(resolver, aggregator, pipelineEvaluator, scorer, builder, cfg.Pipeline.RunTimeout())

	return &pipelineEnv{
		Aggregator: aggregator,
		Evaluator:  evaluator,
		Resolver:   resolver,
		Scorer:     scorer,
		Builder:    builder,
		Pipeline:   p,
	}, nil
}
