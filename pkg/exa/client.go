// Package exa provides a client for the Exa web-search API.
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.exa.ai"

// Client performs web searches against the Exa API.
type Client interface {
	Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error)
}

// Result is a single search hit.
type Result struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Text          string `json:"text,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
}

type searchRequest struct {
	Query              string    `json:"query"`
	NumResults         int       `json:"num_results"`
	UseAutoprompt      bool      `json:"use_autoprompt"`
	Contents           *contents `json:"contents,omitempty"`
	IncludeDomains     []string  `json:"include_domains,omitempty"`
	StartPublishedDate string    `json:"start_published_date,omitempty"`
}

type contents struct {
	Text textOpts `json:"text"`
}

type textOpts struct {
	MaxCharacters int `json:"max_characters"`
}

type searchResponse struct {
	Results []Result `json:"results"`
}

// SearchOption configures a single search request.
type SearchOption func(*searchRequest)

// WithNumResults sets the result count (default 3).
func WithNumResults(n int) SearchOption {
	return func(r *searchRequest) { r.NumResults = n }
}

// WithAutoprompt lets Exa rewrite the query for better recall.
func WithAutoprompt(on bool) SearchOption {
	return func(r *searchRequest) { r.UseAutoprompt = on }
}

// WithMaxCharacters bounds the excerpt length returned per result.
func WithMaxCharacters(n int) SearchOption {
	return func(r *searchRequest) { r.Contents = &contents{Text: textOpts{MaxCharacters: n}} }
}

// WithIncludeDomains restricts results to the given domains.
func WithIncludeDomains(domains ...string) SearchOption {
	return func(r *searchRequest) { r.IncludeDomains = domains }
}

// WithPublishedAfter restricts results to those published after t.
func WithPublishedAfter(t time.Time) SearchOption {
	return func(r *searchRequest) { r.StartPublishedDate = t.UTC().Format(time.RFC3339) }
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) { c.baseURL = url }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates an Exa API client.
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

// retryableStatusCode returns true if the HTTP status code should trigger a retry.
func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

func (c *httpClient) Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error) {
	req := searchRequest{
		Query:      query,
		NumResults: 3,
	}
	for _, o := range opts {
		o(&req)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "exa: marshal request")
	}

	const maxAttempts = 3
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
		if err != nil {
			return nil, eris.Wrap(err, "exa: create request")
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-api-key", c.apiKey)

		resp, err := c.http.Do(httpReq)
		if err != nil {
			lastErr = eris.Wrap(err, "exa: send request")
		} else {
			body, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				return nil, eris.Wrap(readErr, "exa: read response")
			}

			if resp.StatusCode == http.StatusOK {
				var result searchResponse
				if err := json.Unmarshal(body, &result); err != nil {
					return nil, eris.Wrap(err, "exa: unmarshal response")
				}
				return result.Results, nil
			}

			lastErr = eris.Errorf("exa: unexpected status %d: %s", resp.StatusCode, string(body))
			if !retryableStatusCode(resp.StatusCode) {
				return nil, lastErr
			}
		}

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	return nil, lastErr
}
