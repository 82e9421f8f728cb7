// Package apollo provides a client for the Apollo people-match API, used to
// verify contact details against a known person/company pair.
package apollo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.apollo.io"

// Client looks up verified contact details.
type Client interface {
	// MatchPerson resolves a person at a company to a verified email,
	// LinkedIn URL and title. Returns (nil, nil) when no match exists.
	MatchPerson(ctx context.Context, req MatchRequest) (*Person, error)
}

// MatchRequest identifies the person to look up. Name and Company are
// required; Domain and LinkedInURL sharpen the match when known.
type MatchRequest struct {
	Name        string
	Company     string
	Domain      string
	LinkedInURL string
}

// Person is a verified contact record.
type Person struct {
	Email       string `json:"email"`
	LinkedInURL string `json:"linkedin_url"`
	Title       string `json:"title"`
}

type matchResponse struct {
	Person *struct {
		Email       string `json:"email"`
		LinkedInURL string `json:"linkedin_url"`
		Title       string `json:"title"`
	} `json:"person"`
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

// NewClient creates an Apollo API client.
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

func (c *httpClient) MatchPerson(ctx context.Context, req MatchRequest) (*Person, error) {
	params := url.Values{}
	params.Set("name", strings.TrimSpace(req.Name))
	params.Set("organization_name", req.Company)
	params.Set("reveal_personal_emails", "true")
	if req.Domain != "" {
		params.Set("domain", req.Domain)
	}
	if req.LinkedInURL != "" {
		// The most reliable identifier when present.
		params.Set("linkedin_url", req.LinkedInURL)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/people/match?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("apollo: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result matchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "apollo: unmarshal response")
	}

	if result.Person == nil || result.Person.Email == "" {
		return nil, nil
	}
	return &Person{
		Email:       result.Person.Email,
		LinkedInURL: result.Person.LinkedInURL,
		Title:       result.Person.Title,
	}, nil
}
