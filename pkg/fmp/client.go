// Package fmp is a thin client for the Financial Modeling Prep API, covering
// the endpoints the risk pipeline aggregates: company profile, quote,
// historical prices, statements, TTM ratios, and ticker search.
package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vendor-risk/internal/resilience"
)

const defaultBaseURL = "https://financialmodelingprep.com/api/v3"

// Client performs requests against the Financial Modeling Prep API.
type Client interface {
	Profile(ctx context.Context, ticker string) (*Profile, error)
	Quote(ctx context.Context, ticker string) (*Quote, error)
	HistoricalPrices(ctx context.Context, ticker string, from, to time.Time) ([]HistoricalPrice, error)
	IncomeStatements(ctx context.Context, ticker string, limit int) ([]IncomeStatement, error)
	BalanceSheets(ctx context.Context, ticker string, limit int) ([]BalanceSheet, error)
	CashFlowStatements(ctx context.Context, ticker string, limit int) ([]CashFlowStatement, error)
	RatiosTTM(ctx context.Context, ticker string) (*RatiosTTM, error)
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Financial Modeling Prep API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) get(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "fmp: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "fmp: request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return eris.Wrap(err, "fmp: read response")
	}
	if resp.StatusCode != http.StatusOK {
		err := eris.New(fmt.Sprintf("fmp: %s returned %d", path, resp.StatusCode))
		if resilience.RetryableStatus(resp.StatusCode) {
			return resilience.Transient(err, resp.StatusCode)
		}
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "fmp: decode response")
	}
	return nil
}

func (c *httpClient) Profile(ctx context.Context, ticker string) (*Profile, error) {
	var profiles []Profile
	if err := c.get(ctx, "/profile/"+url.PathEscape(ticker), nil, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, eris.New("fmp: profile not found for " + ticker)
	}
	return &profiles[0], nil
}

func (c *httpClient) Quote(ctx context.Context, ticker string) (*Quote, error) {
	var quotes []Quote
	if err := c.get(ctx, "/quote/"+url.PathEscape(ticker), nil, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, eris.New("fmp: quote not found for " + ticker)
	}
	return &quotes[0], nil
}

func (c *httpClient) HistoricalPrices(ctx context.Context, ticker string, from, to time.Time) ([]HistoricalPrice, error) {
	q := url.Values{}
	q.Set("from", from.Format("2006-01-02"))
	q.Set("to", to.Format("2006-01-02"))

	var resp historicalResponse
	if err := c.get(ctx, "/historical-price-full/"+url.PathEscape(ticker), q, &resp); err != nil {
		return nil, err
	}
	return resp.Historical, nil
}

func (c *httpClient) IncomeStatements(ctx context.Context, ticker string, limit int) ([]IncomeStatement, error) {
	q := url.Values{}
	q.Set("period", "quarter")
	q.Set("limit", fmt.Sprint(limit))

	var out []IncomeStatement
	if err := c.get(ctx, "/income-statement/"+url.PathEscape(ticker), q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *httpClient) BalanceSheets(ctx context.Context, ticker string, limit int) ([]BalanceSheet, error) {
	q := url.Values{}
	q.Set("period", "quarter")
	q.Set("limit", fmt.Sprint(limit))

	var out []BalanceSheet
	if err := c.get(ctx, "/balance-sheet-statement/"+url.PathEscape(ticker), q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *httpClient) CashFlowStatements(ctx context.Context, ticker string, limit int) ([]CashFlowStatement, error) {
	q := url.Values{}
	q.Set("period", "quarter")
	q.Set("limit", fmt.Sprint(limit))

	var out []CashFlowStatement
	if err := c.get(ctx, "/cash-flow-statement/"+url.PathEscape(ticker), q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *httpClient) RatiosTTM(ctx context.Context, ticker string) (*RatiosTTM, error) {
	var ratios []RatiosTTM
	if err := c.get(ctx, "/ratios-ttm/"+url.PathEscape(ticker), nil, &ratios); err != nil {
		return nil, err
	}
	if len(ratios) == 0 {
		return nil, eris.New("fmp: ratios not found for " + ticker)
	}
	return &ratios[0], nil
}

func (c *httpClient) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", fmt.Sprint(limit))

	var out []SearchResult
	if err := c.get(ctx, "/search", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
