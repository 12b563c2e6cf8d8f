// Package epa queries the EPA ECHO facility search API for environmental
// enforcement records matching a company name.
package epa

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

const defaultBaseURL = "https://echodata.epa.gov/echo"

// Client searches ECHO enforcement data.
type Client interface {
	Violations(ctx context.Context, companyName string, limit int) ([]Violation, error)
}

// Violation is one enforcement record from facility search.
type Violation struct {
	FacilityName string
	Statute      string
	State        string
	PenaltyUSD   float64
	Date         time.Time
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
	baseURL string
	http    *http.Client
}

// NewClient creates an ECHO client. The API is unauthenticated.
func NewClient(opts ...Option) Client {
	c := &httpClient{
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

type facilityResponse struct {
	Results struct {
		Facilities []struct {
			FacName       string `json:"FacName"`
			FacState      string `json:"FacState"`
			Statutes      string `json:"Statutes"`
			PenaltyAmount string `json:"FacTotalPenalties"`
			LastViolation string `json:"FacDateLastPenalty"`
		} `json:"Facilities"`
	} `json:"Results"`
}

func (c *httpClient) Violations(ctx context.Context, companyName string, limit int) ([]Violation, error) {
	q := url.Values{}
	q.Set("output", "JSON")
	q.Set("p_fn", companyName)
	q.Set("p_act", "Y")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/echo_rest_services.get_facilities?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "epa: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "epa: request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, eris.Wrap(err, "epa: read response")
	}
	if resp.StatusCode != http.StatusOK {
		err := eris.New(fmt.Sprintf("epa: facility search returned %d", resp.StatusCode))
		if resilience.RetryableStatus(resp.StatusCode) {
			return nil, resilience.Transient(err, resp.StatusCode)
		}
		return nil, err
	}

	var decoded facilityResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, eris.Wrap(err, "epa: decode response")
	}

	var out []Violation
	for _, f := range decoded.Results.Facilities {
		if limit > 0 && len(out) >= limit {
			break
		}
		v := Violation{
			FacilityName: f.FacName,
			State:        f.FacState,
			Statute:      f.Statutes,
		}
		if f.PenaltyAmount != "" {
			if p, err := strconv.ParseFloat(f.PenaltyAmount, 64); err == nil {
				v.PenaltyUSD = p
			}
		}
		if f.LastViolation != "" {
			if d, err := time.Parse("01/02/2006", f.LastViolation); err == nil {
				v.Date = d
			}
		}
		out = append(out, v)
	}
	return out, nil
}
