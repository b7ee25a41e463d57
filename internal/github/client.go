// Package github talks to the GitHub REST API to discover public repositories
// and the notebooks they contain.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Default endpoints.
const (
	DefaultAPIURL = "https://api.github.com"
	DefaultRawURL = "https://raw.githubusercontent.com"
)

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api error (status %d): %s", e.StatusCode, e.Message)
}

// Repo is the subset of a GitHub repository the portfolio uses.
type Repo struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	HTMLURL       string   `json:"html_url"`
	Topics        []string `json:"topics"`
	Language      string   `json:"language"`
	Stars         int      `json:"stargazers_count"`
	Forks         int      `json:"forks_count"`
	UpdatedAt     string   `json:"updated_at"`
	DefaultBranch string   `json:"default_branch"`
	Owner         struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// Content is one entry of a repository directory listing.
type Content struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// Client is a minimal GitHub REST client.
type Client struct {
	apiURL     string
	rawURL     string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken authenticates requests with a bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithRawURL overrides the raw content host.
func WithRawURL(rawURL string) Option {
	return func(c *Client) { c.rawURL = strings.TrimRight(rawURL, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new GitHub client. An empty apiURL uses DefaultAPIURL.
func NewClient(apiURL string, opts ...Option) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	c := &Client{
		apiURL: strings.TrimRight(apiURL, "/"),
		rawURL: DefaultRawURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListRepos returns the public repositories of user, most recently updated first.
func (c *Client) ListRepos(ctx context.Context, user string) ([]Repo, error) {
	if strings.TrimSpace(user) == "" {
		return nil, fmt.Errorf("github user is required")
	}
	endpoint := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=100", c.apiURL, url.PathEscape(user))

	var repos []Repo
	if err := c.getJSON(ctx, endpoint, &repos); err != nil {
		return nil, fmt.Errorf("list repos for %s: %w", user, err)
	}
	return repos, nil
}

// FindNotebook returns the path of the first .ipynb file at the root of the
// repository, or "" when there is none.
func (c *Client) FindNotebook(ctx context.Context, owner, repo string) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents", c.apiURL, url.PathEscape(owner), url.PathEscape(repo))

	var contents []Content
	if err := c.getJSON(ctx, endpoint, &contents); err != nil {
		return "", fmt.Errorf("list contents of %s/%s: %w", owner, repo, err)
	}
	for _, entry := range contents {
		if entry.Type == "file" && strings.HasSuffix(entry.Name, ".ipynb") {
			return entry.Path, nil
		}
	}
	return "", nil
}

// RawURL returns the raw download URL of a file in a repository.
func (c *Client) RawURL(owner, repo, branch, filePath string) string {
	if branch == "" {
		branch = "main"
	}
	segments := strings.Split(strings.TrimPrefix(filePath, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s", c.rawURL, url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(branch), strings.Join(segments, "/"))
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: apiMessage(body, resp.Status)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func apiMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return fallback
}
