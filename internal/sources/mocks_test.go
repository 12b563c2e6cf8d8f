package sources

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/vendor-risk/pkg/edgar"
	"github.com/sells-group/vendor-risk/pkg/epa"
	"github.com/sells-group/vendor-risk/pkg/fmp"
	"github.com/sells-group/vendor-risk/pkg/fred"
	"github.com/sells-group/vendor-risk/pkg/newsapi"
	"github.com/sells-group/vendor-risk/pkg/osha"
	"github.com/sells-group/vendor-risk/pkg/websearch"
)

// --- FMP mock ---

type mockFMP struct {
	mock.Mock
}

func (m *mockFMP) Profile(ctx context.Context, ticker string) (*fmp.Profile, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fmp.Profile), args.Error(1)
}

func (m *mockFMP) Quote(ctx context.Context, ticker string) (*fmp.Quote, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fmp.Quote), args.Error(1)
}

func (m *mockFMP) HistoricalPrices(ctx context.Context, ticker string, from, to time.Time) ([]fmp.HistoricalPrice, error) {
	args := m.Called(ctx, ticker, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fmp.HistoricalPrice), args.Error(1)
}

func (m *mockFMP) IncomeStatements(ctx context.Context, ticker string, limit int) ([]fmp.IncomeStatement, error) {
	args := m.Called(ctx, ticker, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fmp.IncomeStatement), args.Error(1)
}

func (m *mockFMP) BalanceSheets(ctx context.Context, ticker string, limit int) ([]fmp.BalanceSheet, error) {
	args := m.Called(ctx, ticker, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fmp.BalanceSheet), args.Error(1)
}

func (m *mockFMP) CashFlowStatements(ctx context.Context, ticker string, limit int) ([]fmp.CashFlowStatement, error) {
	args := m.Called(ctx, ticker, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fmp.CashFlowStatement), args.Error(1)
}

func (m *mockFMP) RatiosTTM(ctx context.Context, ticker string) (*fmp.RatiosTTM, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fmp.RatiosTTM), args.Error(1)
}

func (m *mockFMP) Search(ctx context.Context, query string, limit int) ([]fmp.SearchResult, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fmp.SearchResult), args.Error(1)
}

// --- EDGAR mock ---

type mockEdgar struct {
	mock.Mock
}

func (m *mockEdgar) RecentFilings(ctx context.Context, cik string, limit int) ([]edgar.Filing, error) {
	args := m.Called(ctx, cik, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]edgar.Filing), args.Error(1)
}

// --- FRED mock ---

type mockFRED struct {
	mock.Mock
}

func (m *mockFRED) Observations(ctx context.Context, seriesID string, limit int) ([]fred.Observation, error) {
	args := m.Called(ctx, seriesID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fred.Observation), args.Error(1)
}

// --- EPA mock ---

type mockEPA struct {
	mock.Mock
}

func (m *mockEPA) Violations(ctx context.Context, companyName string, limit int) ([]epa.Violation, error) {
	args := m.Called(ctx, companyName, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]epa.Violation), args.Error(1)
}

// --- OSHA mock ---

type mockOSHA struct {
	mock.Mock
}

func (m *mockOSHA) Inspections(ctx context.Context, establishmentName string, limit int) ([]osha.Inspection, error) {
	args := m.Called(ctx, establishmentName, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]osha.Inspection), args.Error(1)
}

// --- NewsAPI mock ---

type mockNews struct {
	mock.Mock
}

func (m *mockNews) Search(ctx context.Context, query string, limit int) ([]newsapi.Article, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]newsapi.Article), args.Error(1)
}

// --- Websearch mock ---

type mockWebsearch struct {
	mock.Mock
}

func (m *mockWebsearch) Research(ctx context.Context, query string) ([]websearch.Snippet, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]websearch.Snippet), args.Error(1)
}
