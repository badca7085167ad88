package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Default HTTP client configuration constants.
const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 8 << 20 // defensive cap on provider payloads
)

// Option applies a configuration option to the HTTPClient.
type Option func(*HTTPClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithToken sets the access token sent on every request.
func WithToken(token string) Option {
	return func(c *HTTPClient) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.client = hc
		}
	}
}

// HTTPClient implements Client against the provider's JSON API.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient creates a provider client for baseURL.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rosterResponse mirrors GET /tournaments/{id}/roster.
type rosterResponse struct {
	Teams []Team `json:"teams"`
}

// scheduleResponse mirrors GET /matches.
type scheduleResponse struct {
	Matches []ScheduledMatch `json:"matches"`
}

// resultsResponse mirrors GET /tournaments/{id}/results.
type resultsResponse struct {
	Results []MatchResult `json:"results"`
}

// Roster returns the tournament's participating teams.
func (c *HTTPClient) Roster(ctx context.Context, tournamentID string) ([]Team, error) {
	var out rosterResponse
	path := fmt.Sprintf("/tournaments/%s/roster", url.PathEscape(tournamentID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("%w: roster: %w", ErrFetch, err)
	}
	return out.Teams, nil
}

// Schedule returns every scheduled and live match across all tournaments.
func (c *HTTPClient) Schedule(ctx context.Context) ([]ScheduledMatch, error) {
	var out scheduleResponse
	if err := c.get(ctx, "/matches", &out); err != nil {
		return nil, fmt.Errorf("%w: schedule: %w", ErrFetch, err)
	}
	return out.Matches, nil
}

// Results returns completed matches for the tournament.
func (c *HTTPClient) Results(ctx context.Context, tournamentID string) ([]MatchResult, error) {
	var out resultsResponse
	path := fmt.Sprintf("/tournaments/%s/results", url.PathEscape(tournamentID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("%w: results: %w", ErrFetch, err)
	}
	return out.Results, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("x-access-token", c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrStatus, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}
