// Package github is the HTTP adapter for the GitHub REST API.
//
// Every method performs exactly one GET. Failures are classified into three
// coded kinds: missing_credential (no token configured, checked before any
// network I/O), remote_rejected (non-2xx status, carrying up to 200 bytes of
// response body), and transport_failure (the request never completed).
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/devbridge/devbridge/internal/core"
	"github.com/devbridge/devbridge/internal/telemetry"
)

const (
	defaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"

	acceptJSON = "application/vnd.github+json"
	acceptDiff = "application/vnd.github.diff"

	// Max response body bytes kept as diagnostic context on rejection.
	maxErrorBodyBytes = 200
)

type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
}

// NewClient returns a client authenticating with token. An empty baseURL
// selects the public GitHub API. The token may be empty; calls then fail
// with missing_credential before touching the network.
func NewClient(token, baseURL, userAgent string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		userAgent:  userAgent,
		httpClient: &http.Client{},
	}
}

// APIError reports a non-2xx response from the GitHub API.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s HTTP %d: %s", e.Operation, e.StatusCode, e.Body)
}

func (e *APIError) ErrorCode() string { return core.CodeRemoteRejected }

type PullRequest struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
	State   string `json:"state"`
}

func (c *Client) get(ctx context.Context, operation, url, accept string) (*http.Response, error) {
	if c.token == "" {
		return nil, core.NewError(core.CodeMissingCredential, "GITHUB_TOKEN is not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.WrapError(core.CodeTransportFailure, fmt.Errorf("%s: %w", operation, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		resp.Body.Close()
		telemetry.IncGitHubAPIError(operation, resp.StatusCode)
		return nil, &APIError{Operation: operation, StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	return resp, nil
}

// ListPullRequests fetches pull requests filtered by state (open, closed,
// all). Remote ordering is preserved.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo, state string) ([]PullRequest, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls?state=%s", c.baseURL, owner, repo, state)
	resp, err := c.get(ctx, "list pull requests", url, acceptJSON)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	prs := make([]PullRequest, 0)
	if err := json.NewDecoder(resp.Body).Decode(&prs); err != nil {
		return nil, fmt.Errorf("decode pull requests: %w", err)
	}
	return prs, nil
}

// GetPullRequestDiff fetches the diff-formatted representation of one pull
// request and returns it verbatim.
func (c *Client) GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.baseURL, owner, repo, number)
	resp, err := c.get(ctx, "get pull request diff", url, acceptDiff)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	diff, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read diff body: %w", err)
	}
	return string(diff), nil
}
