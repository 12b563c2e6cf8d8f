// Package edgar fetches recent filing metadata from the SEC EDGAR
// submissions API. EDGAR requires a descriptive User-Agent on every request.
package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vendor-risk/internal/resilience"
)

const defaultBaseURL = "https://data.sec.gov"

// Client fetches filing submissions from EDGAR.
type Client interface {
	RecentFilings(ctx context.Context, cik string, limit int) ([]Filing, error)
}

// Filing is one filing reference from the submissions feed.
type Filing struct {
	Form        string
	FiledAt     time.Time
	AccessionNo string
	Description string
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
	userAgent string
	baseURL   string
	http      *http.Client
}

// NewClient creates an EDGAR client. userAgent must identify the caller
// (name and contact email) per SEC fair-access policy.
func NewClient(userAgent string, opts ...Option) Client {
	c := &httpClient{
		userAgent: userAgent,
		baseURL:   defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// submissionsResponse mirrors the column-oriented recent filings feed.
type submissionsResponse struct {
	Filings struct {
		Recent struct {
			Form                  []string `json:"form"`
			FilingDate            []string `json:"filingDate"`
			AccessionNumber       []string `json:"accessionNumber"`
			PrimaryDocDescription []string `json:"primaryDocDescription"`
		} `json:"recent"`
	} `json:"filings"`
}

func (c *httpClient) RecentFilings(ctx context.Context, cik string, limit int) ([]Filing, error) {
	// Submissions are keyed by ten-digit zero-padded CIK.
	padded := fmt.Sprintf("%010s", cik)
	u := fmt.Sprintf("%s/submissions/CIK%s.json", c.baseURL, padded)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "edgar: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "edgar: request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, eris.Wrap(err, "edgar: read response")
	}
	if resp.StatusCode != http.StatusOK {
		err := eris.New(fmt.Sprintf("edgar: submissions returned %d", resp.StatusCode))
		if resilience.RetryableStatus(resp.StatusCode) {
			return nil, resilience.Transient(err, resp.StatusCode)
		}
		return nil, err
	}

	var sub submissionsResponse
	if err := json.Unmarshal(body, &sub); err != nil {
		return nil, eris.Wrap(err, "edgar: decode response")
	}

	recent := sub.Filings.Recent
	var out []Filing
	for i := range recent.Form {
		if limit > 0 && len(out) >= limit {
			break
		}
		filed, err := time.Parse("2006-01-02", at(recent.FilingDate, i))
		if err != nil {
			// Unparseable rows are dropped, not zeroed.
			continue
		}
		out = append(out, Filing{
			Form:        recent.Form[i],
			FiledAt:     filed,
			AccessionNo: at(recent.AccessionNumber, i),
			Description: at(recent.PrimaryDocDescription, i),
		})
	}
	return out, nil
}

// at safely indexes a column that may be shorter than the form column.
func at(col []string, i int) string {
	if i < len(col) {
		return col[i]
	}
	return ""
}
