// Package osha queries the DOL enforcement API for OSHA inspection records
// matching an establishment name.
package osha

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vendor-risk/internal/resilience"
)

const defaultBaseURL = "https://enforcedata.dol.gov/views/data_api.php"

// Client searches OSHA inspection data.
type Client interface {
	Inspections(ctx context.Context, establishmentName string, limit int) ([]Inspection, error)
}

// Inspection is one inspection record.
type Inspection struct {
	EstablishmentName string
	State             string
	ViolationCount    int
	PenaltyUSD        float64
	OpenedAt          time.Time
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

// NewClient creates a DOL enforcement data client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type inspectionRow struct {
	EstabName      string `json:"estab_name"`
	SiteState      string `json:"site_state"`
	ViolationCount string `json:"nr_in_estab"`
	TotalPenalty   string `json:"total_current_penalty"`
	OpenDate       string `json:"open_date"`
}

func (c *httpClient) Inspections(ctx context.Context, establishmentName string, limit int) ([]Inspection, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("format", "json")
	q.Set("filter_object", fmt.Sprintf(`{"field":"estab_name","operator":"like","value":"%s"}`, establishmentName))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/osha/osha_inspection?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "osha: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "osha: request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, eris.Wrap(err, "osha: read response")
	}
	if resp.StatusCode != http.StatusOK {
		err := eris.New(fmt.Sprintf("osha: inspection search returned %d", resp.StatusCode))
		if resilience.RetryableStatus(resp.StatusCode) {
			return nil, resilience.Transient(err, resp.StatusCode)
		}
		return nil, err
	}

	var rows []inspectionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, eris.Wrap(err, "osha: decode response")
	}

	var out []Inspection
	for _, r := range rows {
		if limit > 0 && len(out) >= limit {
			break
		}
		ins := Inspection{
			EstablishmentName: r.EstabName,
			State:             r.SiteState,
		}
		if n, err := strconv.Atoi(r.ViolationCount); err == nil {
			ins.ViolationCount = n
		}
		if p, err := strconv.ParseFloat(r.TotalPenalty, 64); err == nil {
			ins.PenaltyUSD = p
		}
		if d, err := time.Parse("2006-01-02", r.OpenDate); err == nil {
			ins.OpenedAt = d
		}
		out = append(out, ins)
	}
	return out, nil
}
