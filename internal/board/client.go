package board

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the per-request HTTP timeout
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond paces overview requests against the board
	DefaultRequestsPerSecond = 5.0

	userAgent = "Mozilla/5.0 (compatible; jobmatch/1.0)"
)

// ClientOptions configures a board Client
type ClientOptions struct {
	OverviewURL       string
	ActionToken       string
	SessionCookie     string // raw Cookie header value copied from a logged-in browser
	Timeout           time.Duration
	RequestsPerSecond float64
	Logger            *slog.Logger
}

// Client fetches posting overviews from WaterlooWorks
type Client struct {
	overviewURL   string
	sessionCookie string
	httpClient    *http.Client
	limiter       *rate.Limiter
	logger        *slog.Logger

	mu          sync.RWMutex
	actionToken string
}

// NewClient creates a new board client
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Client{
		overviewURL:   opts.OverviewURL,
		sessionCookie: opts.SessionCookie,
		actionToken:   opts.ActionToken,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		logger:  opts.Logger.With("component", "board"),
	}
}

// ActionToken returns the token sent with overview requests
func (c *Client) ActionToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.actionToken
}

// SetActionToken replaces the token sent with overview requests
func (c *Client) SetActionToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actionToken = token
}

// FetchPage retrieves a board page with the session cookie attached
func (c *Client) FetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req)
}

// Discover loads a listing page, remembers its action token when the client has none
// and returns the posting IDs it lists.
func (c *Client) Discover(ctx context.Context, listingURL string) ([]string, error) {
	page, err := c.FetchPage(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}

	if c.ActionToken() == "" {
		token, ok := ExtractActionToken(page)
		if !ok {
			return nil, fmt.Errorf("failed to extract action token from %s (is the session cookie still valid?)", listingURL)
		}
		c.SetActionToken(token)
	}

	ids := ScrapeJobIDs(page)
	c.logger.Debug("discovered postings", "url", listingURL, "count", len(ids))
	return ids, nil
}

// FetchOverview posts the overview action for jobID and parses the response
func (c *Client) FetchOverview(ctx context.Context, jobID string) (*JobOverview, error) {
	token := c.ActionToken()
	if token == "" {
		return nil, fmt.Errorf("no action token configured")
	}

	form := "action=" + url.QueryEscape(token) + "&postingId=" + url.QueryEscape(jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.overviewURL, strings.NewReader(form))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	html, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overview for job %s: %w", jobID, err)
	}

	return NewJobOverview(jobID, html), nil
}

func (c *Client) do(req *http.Request) (string, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return "", err
	}

	req.Header.Set("User-Agent", userAgent)
	if c.sessionCookie != "" {
		req.Header.Set("Cookie", c.sessionCookie)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("board request",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return string(body), nil
}
