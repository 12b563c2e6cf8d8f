// Package newsapi is a client for the NewsAPI "everything" search endpoint.
// The aggregator issues two query strategies per company and merges the
// results by URL.
package newsapi

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

const defaultBaseURL = "https://newsapi.org/v2"

// Client searches news articles.
type Client interface {
	Search(ctx context.Context, query string, limit int) ([]Article, error)
}

// Article is one news search hit.
type Article struct {
	Title       string
	URL         string
	Source      string
	PublishedAt time.Time
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
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a NewsAPI client.
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

type searchResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Description string `json:"description"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (c *httpClient) Search(ctx context.Context, query string, limit int) ([]Article, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("language", "en")
	q.Set("sortBy", "publishedAt")
	if limit > 0 {
		q.Set("pageSize", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/everything?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "newsapi: create request")
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "newsapi: request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, eris.Wrap(err, "newsapi: read response")
	}
	if resp.StatusCode != http.StatusOK {
		err := eris.New(fmt.Sprintf("newsapi: search returned %d", resp.StatusCode))
		if resilience.RetryableStatus(resp.StatusCode) {
			return nil, resilience.Transient(err, resp.StatusCode)
		}
		return nil, err
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, eris.Wrap(err, "newsapi: decode response")
	}
	if decoded.Status != "ok" {
		return nil, eris.New("newsapi: " + decoded.Message)
	}

	out := make([]Article, 0, len(decoded.Articles))
	for _, a := range decoded.Articles {
		art := Article{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			Description: a.Description,
		}
		if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			art.PublishedAt = t
		}
		out = append(out, art)
	}
	return out, nil
}
