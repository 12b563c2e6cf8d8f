// Package sources fans out to the external data providers and merges their
// results into one AggregatedCompanyData record. The aggregator performs no
// scoring or interpretation; it is pure fan-out and merge with per-provider
// failure isolation.
package sources

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/vendor-risk/internal/model"
	"github.com/sells-group/vendor-risk/internal/resilience"
	"github.com/sells-group/vendor-risk/pkg/edgar"
	"github.com/sells-group/vendor-risk/pkg/epa"
	"github.com/sells-group/vendor-risk/pkg/fmp"
	"github.com/sells-group/vendor-risk/pkg/fred"
	"github.com/sells-group/vendor-risk/pkg/newsapi"
	"github.com/sells-group/vendor-risk/pkg/osha"
	"github.com/sells-group/vendor-risk/pkg/websearch"
)

// Provider source names recorded on each SourceResult.
const (
	SourceProfile       = "profile"
	SourceQuote         = "quote"
	SourceHistorical    = "historical_prices"
	SourceIncome        = "income_statements"
	SourceBalance       = "balance_sheets"
	SourceCashFlow      = "cash_flows"
	SourceRatios        = "ratios"
	SourceFilings       = "filings"
	SourceNews          = "news"
	SourceMacro         = "macro"
	SourceEnvironmental = "environmental"
	SourceLaborSafety   = "labor_safety"
	SourceWebResearch   = "web_research"
)

const (
	historyYears     = 2
	statementLimit   = 8
	filingLimit      = 20
	newsLimit        = 25
	enforcementLimit = 25
)

// macroIndicators is the fixed set of FRED series the pipeline tracks.
var macroIndicators = []struct {
	SeriesID string
	Name     string
}{
	{"UNRATE", "Unemployment Rate"},
	{"CPIAUCSL", "Consumer Price Index"},
	{"FEDFUNDS", "Federal Funds Rate"},
	{"INDPRO", "Industrial Production Index"},
	{"DTWEXBGS", "Trade Weighted U.S. Dollar Index"},
	{"T10Y2Y", "10Y-2Y Treasury Spread"},
}

// Aggregator coordinates the provider fan-out for one or more companies.
type Aggregator struct {
	fmp       fmp.Client
	edgar     edgar.Client
	fred      fred.Client
	epa       epa.Client
	osha      osha.Client
	news      newsapi.Client
	websearch websearch.Client

	providerTimeout time.Duration
	retry           resilience.RetryConfig
	now             func() time.Time // injectable for the history window
}

// New creates an Aggregator. providerTimeout bounds each individual fetch.
func New(
	fmpClient fmp.Client,
	edgarClient edgar.Client,
	fredClient fred.Client,
	epaClient epa.Client,
	oshaClient osha.Client,
	newsClient newsapi.Client,
	websearchClient websearch.Client,
	providerTimeout time.Duration,
) *Aggregator {
	return &Aggregator{
		fmp:             fmpClient,
		edgar:           edgarClient,
		fred:            fredClient,
		epa:             epaClient,
		osha:            oshaClient,
		news:            newsClient,
		websearch:       websearchClient,
		providerTimeout: providerTimeout,
		retry:           resilience.DefaultRetryConfig(),
		now:             time.Now,
	}
}

// WithNow sets a fixed clock for testing.
func (a *Aggregator) WithNow(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// WithRetry overrides the retry policy applied to each provider call.
func (a *Aggregator) WithRetry(cfg resilience.RetryConfig) *Aggregator {
	a.retry = cfg
	return a
}

// fetch wraps one provider call: bounded by the provider timeout, retried on
// transient errors, and always reduced to a SourceResult. Provider failures
// never propagate as errors.
func fetch[T any](ctx context.Context, timeout time.Duration, retry resilience.RetryConfig, source string, fn func(ctx context.Context) (T, error)) model.SourceResult[T] {
	fetchCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var data T
	err := resilience.Do(fetchCtx, retry, func(ctx context.Context) error {
		var fnErr error
		data, fnErr = fn(ctx)
		return fnErr
	})
	if err != nil {
		zap.L().Warn("source fetch failed",
			zap.String("source", source),
			zap.Error(err),
		)
		return model.Fail[T](source, err)
	}
	return model.Ok(source, data)
}

// Aggregate fans out to every provider concurrently and merges the results.
// It never fails for provider-level issues; each failure is recorded on its
// own SourceResult.
func (a *Aggregator) Aggregate(ctx context.Context, company model.CompanyIdentifier) model.AggregatedCompanyData {
	log := zap.L().With(zap.String("ticker", company.Ticker))
	log.Info("aggregating company data")

	agg := model.AggregatedCompanyData{Company: company}

	searchName := company.Name
	if searchName == "" {
		searchName = company.Ticker
	}

	to := a.now()
	from := to.AddDate(-historyYears, 0, 0)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		agg.Profile = fetch(gCtx, a.providerTimeout, a.retry, SourceProfile, func(ctx context.Context) (model.CompanyProfile, error) {
			p, err := a.fmp.Profile(ctx, company.Ticker)
			if err != nil {
				return model.CompanyProfile{}, err
			}
			return profileFromFMP(p), nil
		})
		return nil
	})

	g.Go(func() error {
		agg.Quote = fetch(gCtx, a.providerTimeout, a.retry, SourceQuote, func(ctx context.Context) (model.Quote, error) {
			q, err := a.fmp.Quote(ctx, company.Ticker)
			if err != nil {
				return model.Quote{}, err
			}
			return quoteFromFMP(q), nil
		})
		return nil
	})

	g.Go(func() error {
		agg.HistoricalPrices = fetch(gCtx, a.providerTimeout, a.retry, SourceHistorical, func(ctx context.Context) ([]model.PricePoint, error) {
			prices, err := a.fmp.HistoricalPrices(ctx, company.Ticker, from, to)
			if err != nil {
				return nil, err
			}
			return pricesFromFMP(prices), nil
		})
		return nil
	})

	g.Go(func() error {
		agg.IncomeStatements = fetch(gCtx, a.providerTimeout, a.retry, SourceIncome, func(ctx context.Context) ([]model.IncomeStatement, error) {
			stmts, err := a.fmp.IncomeStatements(ctx, company.Ticker, statementLimit)
			if err != nil {
				return nil, err
			}
			return incomeFromFMP(stmts), nil
		})
		return nil
	})

	g.Go(func() error {
		agg.BalanceSheets = fetch(gCtx, a.providerTimeout, a.retry, SourceBalance, func(ctx context.Context) ([]model.BalanceSheet, error) {
			sheets, err := a.fmp.BalanceSheets(ctx, company.Ticker, statementLimit)
			if err != nil {
				return nil, err
			}
			return balanceFromFMP(sheets), nil
		})
		return nil
	})

	g.Go(func() error {
		agg.CashFlows = fetch(gCtx, a.providerTimeout, a.retry, SourceCashFlow, func(ctx context.Context) ([]model.CashFlowStatement, error) {
			flows, err := a.fmp.CashFlowStatements(ctx, company.Ticker, statementLimit)
			if err != nil {
				return nil, err
			}
			return cashFlowFromFMP(flows), nil
		})
		return nil
	})

	g.Go(func() error {
		agg.Ratios = fetch(gCtx, a.providerTimeout, a.retry, SourceRatios, func(ctx context.Context) (model.FinancialRatios, error) {
			r, err := a.fmp.RatiosTTM(ctx, company.Ticker)
			if err != nil {
				return model.FinancialRatios{}, err
			}
			return ratiosFromFMP(r), nil
		})
		return nil
	})

	g.Go(func() error {
		agg.Filings = fetch(gCtx, a.providerTimeout, a.retry, SourceFilings, func(ctx context.Context) ([]model.Filing, error) {
			filings, err := a.edgar.RecentFilings(ctx, company.CIK, filingLimit)
			if err != nil {
				return nil, err
			}
			return filingsFromEdgar(filings), nil
		})
		return nil
	})

	g.Go(func() error {
		agg.News = a.aggregateNews(gCtx, searchName)
		return nil
	})

	g.Go(func() error {
		agg.Macro = fetch(gCtx, a.providerTimeout, a.retry, SourceMacro, a.fetchMacro)
		return nil
	})

	g.Go(func() error {
		agg.Environmental = fetch(gCtx, a.providerTimeout, a.retry, SourceEnvironmental, func(ctx context.Context) ([]model.Violation, error) {
			violations, err := a.epa.Violations(ctx, searchName, enforcementLimit)
			if err != nil {
				return nil, err
			}
			return violationsFromEPA(violations), nil
		})
		return nil
	})

	g.Go(func() error {
		agg.LaborSafety = fetch(gCtx, a.providerTimeout, a.retry, SourceLaborSafety, func(ctx context.Context) ([]model.Inspection, error) {
			inspections, err := a.osha.Inspections(ctx, searchName, enforcementLimit)
			if err != nil {
				return nil, err
			}
			return inspectionsFromOSHA(inspections), nil
		})
		return nil
	})

	g.Go(func() error {
		agg.WebResearch = fetch(gCtx, a.providerTimeout, a.retry, SourceWebResearch, func(ctx context.Context) ([]model.ResearchSnippet, error) {
			snippets, err := a.websearch.Research(ctx, searchName+" supply chain dependencies key suppliers risks")
			if err != nil {
				return nil, err
			}
			return snippetsFromWebsearch(snippets), nil
		})
		return nil
	})

	// Each goroutine returns nil; Wait only observes context cancellation.
	_ = g.Wait()

	agg.AggregatedAt = a.now().UTC()

	log.Info("aggregation complete",
		zap.Int("failed_sources", len(agg.FailedSources())),
		zap.Strings("failed", agg.FailedSources()),
	)
	return agg
}

// AggregateAll aggregates independent companies in parallel, preserving
// input order. maxConcurrent <= 0 means unbounded.
func (a *Aggregator) AggregateAll(ctx context.Context, companies []model.CompanyIdentifier, maxConcurrent int) []model.AggregatedCompanyData {
	results := make([]model.AggregatedCompanyData, len(companies))

	g, gCtx := errgroup.WithContext(ctx)
	if maxConcurrent > 0 {
		g.SetLimit(maxConcurrent)
	}
	for i, company := range companies {
		g.Go(func() error {
			results[i] = a.Aggregate(gCtx, company)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// aggregateNews runs the two query strategies concurrently and merges their
// results with URL-based first-seen-wins de-duplication. If every query
// failed, the merged result carries the first encountered error.
func (a *Aggregator) aggregateNews(ctx context.Context, name string) model.SourceResult[[]model.Article] {
	queries := []string{
		`"` + name + `" supply chain OR supplier OR manufacturing`,
		`"` + name + `" lawsuit OR litigation OR regulatory OR investigation`,
	}

	type queryResult struct {
		articles []model.Article
		err      error
	}
	results := make([]queryResult, len(queries))

	g, gCtx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			r := fetch(gCtx, a.providerTimeout, a.retry, SourceNews, func(ctx context.Context) ([]model.Article, error) {
				articles, err := a.news.Search(ctx, q, newsLimit)
				if err != nil {
					return nil, err
				}
				return articlesFromNews(articles), nil
			})
			if r.Success {
				results[i] = queryResult{articles: *r.Data}
			} else {
				results[i] = queryResult{err: errString(r.Error)}
			}
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]bool)
	var merged []model.Article
	var firstErr error
	anySuccess := false
	for _, r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		anySuccess = true
		for _, article := range r.articles {
			if article.URL != "" && seen[article.URL] {
				continue
			}
			seen[article.URL] = true
			merged = append(merged, article)
		}
	}

	if !anySuccess {
		return model.Fail[[]model.Article](SourceNews, firstErr)
	}
	return model.Ok(SourceNews, merged)
}

// fetchMacro pulls the latest and prior observations for each tracked
// series. Individual series failures are tolerated; the provider fails only
// if every series failed.
func (a *Aggregator) fetchMacro(ctx context.Context) ([]model.MacroSeries, error) {
	var out []model.MacroSeries
	var firstErr error
	for _, ind := range macroIndicators {
		obs, err := a.fred.Observations(ctx, ind.SeriesID, 2)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if len(obs) == 0 {
			continue
		}
		series := model.MacroSeries{
			SeriesID: ind.SeriesID,
			Name:     ind.Name,
			Latest:   obs[0].Value,
			AsOf:     obs[0].Date,
		}
		if len(obs) > 1 {
			prior := obs[1].Value
			series.Prior = &prior
		}
		out = append(out, series)
	}
	if len(out) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
