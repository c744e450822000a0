// Package scryfall provides a rate-limited client for the Scryfall card API.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the production Scryfall API endpoint.
	DefaultBaseURL = "https://api.scryfall.com"

	rateLimitDelay = 100 * time.Millisecond // 10 req/sec, per Scryfall guidance
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client is a Scryfall API client with rate limiting and retry.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
}

// Options configures the client. The zero value selects the defaults.
type Options struct {
	// BaseURL overrides the API endpoint (used by tests).
	BaseURL string

	// RateLimit controls request frequency (default: 1 request per 100ms).
	RateLimit rate.Limit

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration
}

// NewClient creates a Scryfall client with default options.
func NewClient() *Client {
	return NewClientWithOptions(Options{})
}

// NewClientWithOptions creates a Scryfall client with explicit options.
func NewClientWithOptions(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = rate.Every(rateLimitDelay)
	}
	if opts.Timeout == 0 {
		opts.Timeout = requestTimeout
	}

	return &Client{
		baseURL:     opts.BaseURL,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		rateLimiter: rate.NewLimiter(opts.RateLimit, 1),
		userAgent:   "Deckforge/1.0",
	}
}

// SetRateLimit adjusts the request rate of a live client. Safe to call
// while requests are in flight; config reloads use it.
func (c *Client) SetRateLimit(limit rate.Limit) {
	c.rateLimiter.SetLimit(limit)
}

// GetCard retrieves a card by its Scryfall ID.
func (c *Client) GetCard(ctx context.Context, id string) (*Card, error) {
	var card Card
	if err := c.doRequest(ctx, fmt.Sprintf("%s/cards/%s", c.baseURL, id), &card); err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", id, err)
	}
	return &card, nil
}

// GetCardNamed retrieves a card by exact name, optionally constrained
// to a set code. This is the lookup the decklist importer relies on.
func (c *Client) GetCardNamed(ctx context.Context, name, setCode string) (*Card, error) {
	q := url.Values{}
	q.Set("exact", name)
	if setCode != "" {
		q.Set("set", setCode)
	}

	var card Card
	if err := c.doRequest(ctx, fmt.Sprintf("%s/cards/named?%s", c.baseURL, q.Encode()), &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// GetRandomCard retrieves a random card.
func (c *Client) GetRandomCard(ctx context.Context) (*Card, error) {
	var card Card
	if err := c.doRequest(ctx, fmt.Sprintf("%s/cards/random", c.baseURL), &card); err != nil {
		return nil, fmt.Errorf("failed to get random card: %w", err)
	}
	return &card, nil
}

// SearchCards performs a full-text search for cards.
func (c *Client) SearchCards(ctx context.Context, query string) (*SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)

	var result SearchResult
	if err := c.doRequest(ctx, fmt.Sprintf("%s/cards/search?%s", c.baseURL, q.Encode()), &result); err != nil {
		return nil, fmt.Errorf("failed to search cards with query '%s': %w", query, err)
	}
	return &result, nil
}

// GetCardVariants retrieves every printing of the named card.
func (c *Client) GetCardVariants(ctx context.Context, name string) ([]Card, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("!%q", name))
	q.Set("unique", "prints")

	var result SearchResult
	if err := c.doRequest(ctx, fmt.Sprintf("%s/cards/search?%s", c.baseURL, q.Encode()), &result); err != nil {
		return nil, fmt.Errorf("failed to get variants of '%s': %w", name, err)
	}

	cards := result.Data
	next := result.NextPage
	for result.HasMore && next != "" {
		result = SearchResult{}
		if err := c.doRequest(ctx, next, &result); err != nil {
			return nil, fmt.Errorf("failed to page variants of '%s': %w", name, err)
		}
		cards = append(cards, result.Data...)
		next = result.NextPage
	}

	return cards, nil
}

// GetSets retrieves the list of all sets.
func (c *Client) GetSets(ctx context.Context) (*SetList, error) {
	var sets SetList
	if err := c.doRequest(ctx, fmt.Sprintf("%s/sets", c.baseURL), &sets); err != nil {
		return nil, fmt.Errorf("failed to get sets: %w", err)
	}
	return &sets, nil
}

// GetSetCards retrieves one page of cards from a set.
func (c *Client) GetSetCards(ctx context.Context, setCode string, page int) (*SearchResult, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("e:%s", setCode))
	q.Set("unique", "prints")
	q.Set("order", "set")
	if page > 1 {
		q.Set("page", fmt.Sprintf("%d", page))
	}

	var result SearchResult
	if err := c.doRequest(ctx, fmt.Sprintf("%s/cards/search?%s", c.baseURL, q.Encode()), &result); err != nil {
		return nil, fmt.Errorf("failed to get cards from set %s: %w", setCode, err)
	}
	return &result, nil
}

// GetAllSetCards retrieves every card in a set, following pagination.
func (c *Client) GetAllSetCards(ctx context.Context, setCode string) ([]Card, error) {
	result, err := c.GetSetCards(ctx, setCode, 1)
	if err != nil {
		return nil, err
	}

	cards := result.Data
	next := result.NextPage
	for result.HasMore && next != "" {
		page := SearchResult{}
		if err := c.doRequest(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("failed to page set %s: %w", setCode, err)
		}
		cards = append(cards, page.Data...)
		result = &page
		next = page.NextPage
	}

	return cards, nil
}

// doRequest performs an HTTP GET with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			if attempt < maxRetries {
				time.Sleep(backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			body, err := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if err != nil {
				return fmt.Errorf("failed to read response body: %w", err)
			}

			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to parse JSON response: %w", err)
			}
			return nil

		case http.StatusTooManyRequests:
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			if attempt < maxRetries {
				retryAfter := resp.Header.Get("Retry-After")
				if retryAfter != "" {
					if duration, err := time.ParseDuration(retryAfter + "s"); err == nil {
						time.Sleep(duration)
					} else {
						time.Sleep(backoff)
					}
				} else {
					time.Sleep(backoff)
				}
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr

		case http.StatusNotFound:
			_ = resp.Body.Close()
			return &NotFoundError{URL: url}

		default:
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()

			var apiErr APIError
			if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
				return &apiErr
			}
			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
