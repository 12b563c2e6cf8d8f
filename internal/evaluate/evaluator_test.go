package evaluate

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/vendor-risk/internal/model"
	"github.com/sells-group/vendor-risk/internal/reasoning"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateStructured(ctx context.Context, req reasoning.Request) (json.RawMessage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func sampleAggregated() model.AggregatedCompanyData {
	profile := model.CompanyProfile{
		Ticker: "ACME", Name: "Acme Corp", Sector: "Industrials",
		Country: "US", Employees: 12000, MarketCap: 4.2e9,
	}
	quote := model.Quote{Price: 100, ChangePercent: -2.5, PE: 18.2}
	cr := 1.8
	ratios := model.FinancialRatios{CurrentRatio: &cr}
	news := []model.Article{
		{Title: "Acme faces supplier disruption", URL: "https://news.test/1", Source: "Wire"},
	}
	return model.AggregatedCompanyData{
		Company:          model.CompanyIdentifier{Ticker: "ACME", Name: "Acme Corp"},
		Profile:          model.Ok("profile", profile),
		Quote:            model.Ok("quote", quote),
		HistoricalPrices: model.Fail[[]model.PricePoint]("historical_prices", eris.New("timeout")),
		IncomeStatements: model.Ok("income_statements", []model.IncomeStatement{}),
		BalanceSheets:    model.Ok("balance_sheets", []model.BalanceSheet{}),
		CashFlows:        model.Ok("cash_flows", []model.CashFlowStatement{}),
		Ratios:           model.Ok("ratios", ratios),
		Filings:          model.Ok("filings", []model.Filing{}),
		News:             model.Ok("news", news),
		Macro:            model.Ok("macro", []model.MacroSeries{{SeriesID: "UNRATE", Name: "Unemployment Rate", Latest: 4.2}}),
		Environmental:    model.Ok("environmental", []model.Violation{}),
		LaborSafety:      model.Ok("labor_safety", []model.Inspection{}),
		WebResearch:      model.Ok("web_research", []model.ResearchSnippet{}),
		AggregatedAt:     time.Now(),
	}
}

const validResult = `{
	"risk_signals": [
		{"category": "supply_chain", "signal": "Single-region supplier base", "severity": "high"},
		{"category": "financial", "signal": "Healthy liquidity", "severity": "low"}
	],
	"supply_chain_insights": ["Relies on two fabs"],
	"recommended_for_model": true,
	"evaluation_summary": "Moderate overall risk."
}`

func TestEvaluate_Success(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("GenerateStructured", mock.Anything, mock.MatchedBy(func(req reasoning.Request) bool {
		return req.Phase == "evaluate"
	})).Return(json.RawMessage(validResult), nil)

	evaluated, err := New(gen, 0).Evaluate(context.Background(), sampleAggregated())

	require.NoError(t, err)
	require.NotNil(t, evaluated)
	assert.Equal(t, "ACME", evaluated.Company.Ticker)
	assert.Len(t, evaluated.RiskSignals, 2)
	assert.Equal(t, model.SignalSupplyChain, evaluated.RiskSignals[0].Category)
	assert.True(t, evaluated.RecommendedForModel)
}

func TestEvaluate_DropsMalformedSignals(t *testing.T) {
	result := `{
		"risk_signals": [
			{"category": "supply_chain", "signal": "ok", "severity": "high"},
			{"category": "vibes", "signal": "unknown category", "severity": "high"},
			{"category": "financial", "signal": "unknown severity", "severity": "catastrophic"}
		],
		"recommended_for_model": true,
		"evaluation_summary": "x"
	}`
	gen := &mockGenerator{}
	gen.On("GenerateStructured", mock.Anything, mock.Anything).Return(json.RawMessage(result), nil)

	evaluated, err := New(gen, 0).Evaluate(context.Background(), sampleAggregated())

	require.NoError(t, err)
	require.Len(t, evaluated.RiskSignals, 1)
	assert.Equal(t, "ok", evaluated.RiskSignals[0].Signal)
}

func TestEvaluate_ServiceFailure(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("GenerateStructured", mock.Anything, mock.Anything).Return(nil, eris.New("service unavailable"))

	evaluated, err := New(gen, 0).Evaluate(context.Background(), sampleAggregated())

	require.Error(t, err)
	assert.Nil(t, evaluated)
}

func TestEvaluate_SchemaViolation(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("GenerateStructured", mock.Anything, mock.Anything).Return(json.RawMessage(`{"risk_signals": "not an array"}`), nil)

	_, err := New(gen, 0).Evaluate(context.Background(), sampleAggregated())
	require.Error(t, err)
}

func TestEvaluateAll_FailedEntriesAreNil(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("GenerateStructured", mock.Anything, mock.Anything).
		Return(json.RawMessage(validResult), nil).Once()
	gen.On("GenerateStructured", mock.Anything, mock.Anything).
		Return(nil, eris.New("rate limited")).Once()

	results := New(gen, 0).EvaluateAll(context.Background(), []model.AggregatedCompanyData{
		sampleAggregated(),
		sampleAggregated(),
	})

	require.Len(t, results, 2)
	assert.NotNil(t, results[0])
	assert.Nil(t, results[1])
}

func TestBuildSnapshot_ListsFailedSources(t *testing.T) {
	snapshot := buildSnapshot(sampleAggregated())

	assert.Contains(t, snapshot, "Acme Corp (ACME)")
	assert.Contains(t, snapshot, "Unavailable Sources")
	assert.Contains(t, snapshot, "historical_prices")
	assert.Contains(t, snapshot, "Unemployment Rate")
	assert.Contains(t, snapshot, "Acme faces supplier disruption")
}

func TestBuildSnapshot_CapsQuarters(t *testing.T) {
	agg := sampleAggregated()
	stmts := make([]model.IncomeStatement, 8)
	for i := range stmts {
		stmts[i] = model.IncomeStatement{Period: "Q", Revenue: float64(i + 1)}
	}
	agg.IncomeStatements = model.Ok("income_statements", stmts)

	snapshot := buildSnapshot(agg)

	section := snapshot[strings.Index(snapshot, "## Income Highlights"):]
	if end := strings.Index(section, "\n\n"); end >= 0 {
		section = section[:end]
	}
	assert.Equal(t, snapshotQuarters, strings.Count(section, "revenue"))
}
