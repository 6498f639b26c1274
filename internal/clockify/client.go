// Package clockify is a minimal client for the Clockify REST API.
package clockify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/hourglass/internal/model"
	"github.com/Tiliavir/hourglass/internal/timecalc"
)

// DefaultBaseURL is the public Clockify API.
const DefaultBaseURL = "https://api.clockify.me/api/v1"

const (
	projectPageSize = 500
	entryPageSize   = 1000
)

// ErrUnauthorized matches any APIError with status 401 or 403.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is returned for every non-2xx response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("clockify API error %d: %s", e.Status, e.Body)
}

// Is lets errors.Is(err, ErrUnauthorized) match rejected credentials.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

// Client is an authenticated Clockify API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout bounds every request. Without it no client timeout is set.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a client that authenticates every request with ts.
func NewClient(ts oauth2.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Transport: &Transport{Source: ts},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetUser returns the account the credential belongs to.
func (c *Client) GetUser(ctx context.Context) (model.User, error) {
	var u model.User
	err := c.get(ctx, "/user", nil, &u)
	return u, err
}

// GetWorkspaces lists the workspaces the user belongs to.
func (c *Client) GetWorkspaces(ctx context.Context) ([]model.Workspace, error) {
	var ws []model.Workspace
	err := c.get(ctx, "/workspaces", nil, &ws)
	return ws, err
}

// GetProjects returns every non-archived project of the workspace.
func (c *Client) GetProjects(ctx context.Context, workspaceID string) ([]model.Project, error) {
	path := "/workspaces/" + url.PathEscape(workspaceID) + "/projects"
	var all []model.Project
	for page := 1; ; page++ {
		q := url.Values{
			"archived":  {"false"},
			"page-size": {strconv.Itoa(projectPageSize)},
			"page":      {strconv.Itoa(page)},
		}
		var batch []model.Project
		if err := c.get(ctx, path, q, &batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < projectPageSize {
			return all, nil
		}
	}
}

// GetTimeEntries returns the user's entries between the inclusive
// YYYY-MM-DD dates, interpreted as whole UTC days.
func (c *Client) GetTimeEntries(ctx context.Context, workspaceID, userID, startDate, endDate string) ([]model.TimeEntry, error) {
	from, to, err := timecalc.UTCDayRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	path := "/workspaces/" + url.PathEscape(workspaceID) + "/user/" + url.PathEscape(userID) + "/time-entries"
	var all []model.TimeEntry
	for page := 1; ; page++ {
		q := url.Values{
			"start":     {from.Format(time.RFC3339)},
			"end":       {to.Format(time.RFC3339)},
			"page-size": {strconv.Itoa(entryPageSize)},
			"page":      {strconv.Itoa(page)},
			"hydrated":  {"true"},
		}
		var batch []model.TimeEntry
		if err := c.get(ctx, path, q, &batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < entryPageSize {
			return all, nil
		}
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("clockify request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding clockify response: %w", err)
	}
	return nil
}
