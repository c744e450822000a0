package scryfall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// MaxBatchSize is the maximum number of identifiers per batch request
// (Scryfall's documented limit is 75).
const MaxBatchSize = 75

// CardIdentifier identifies a card for the /cards/collection endpoint.
type CardIdentifier struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name,omitempty"`
	Set             string `json:"set,omitempty"`
	CollectorNumber string `json:"collector_number,omitempty"`
}

// CollectionRequest is the request body for /cards/collection.
type CollectionRequest struct {
	Identifiers []CardIdentifier `json:"identifiers"`
}

// CollectionResponse is the response from /cards/collection.
type CollectionResponse struct {
	Object   string           `json:"object"`
	NotFound []CardIdentifier `json:"not_found"`
	Data     []Card           `json:"data"`
}

// GetCardsByNames fetches multiple cards by name using the batch
// collection endpoint, splitting into batches of MaxBatchSize as needed.
// Returns the resolved cards and the names that were not found.
func (c *Client) GetCardsByNames(ctx context.Context, names []string) ([]Card, []string, error) {
	if len(names) == 0 {
		return []Card{}, nil, nil
	}

	var allCards []Card
	var allNotFound []string

	for i := 0; i < len(names); i += MaxBatchSize {
		end := i + MaxBatchSize
		if end > len(names) {
			end = len(names)
		}

		identifiers := make([]CardIdentifier, 0, end-i)
		for _, name := range names[i:end] {
			identifiers = append(identifiers, CardIdentifier{Name: name})
		}

		cards, notFound, err := c.doCollectionRequest(ctx, identifiers)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch batch %d-%d: %w", i, end, err)
		}
		allCards = append(allCards, cards...)
		for _, id := range notFound {
			allNotFound = append(allNotFound, id.Name)
		}
	}

	return allCards, allNotFound, nil
}

// GetCardsByIDs fetches multiple cards by Scryfall ID using the batch
// collection endpoint. Returns the resolved cards and the IDs that
// were not found.
func (c *Client) GetCardsByIDs(ctx context.Context, ids []string) ([]Card, []string, error) {
	if len(ids) == 0 {
		return []Card{}, nil, nil
	}

	var allCards []Card
	var allNotFound []string

	for i := 0; i < len(ids); i += MaxBatchSize {
		end := i + MaxBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		identifiers := make([]CardIdentifier, 0, end-i)
		for _, id := range ids[i:end] {
			identifiers = append(identifiers, CardIdentifier{ID: id})
		}

		cards, notFound, err := c.doCollectionRequest(ctx, identifiers)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch batch %d-%d: %w", i, end, err)
		}
		allCards = append(allCards, cards...)
		for _, id := range notFound {
			allNotFound = append(allNotFound, id.ID)
		}
	}

	return allCards, allNotFound, nil
}

// doCollectionRequest performs a single POST to /cards/collection.
func (c *Client) doCollectionRequest(ctx context.Context, identifiers []CardIdentifier) ([]Card, []CardIdentifier, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limiter error: %w", err)
	}

	payload, err := json.Marshal(CollectionRequest{Identifiers: identifiers})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal collection request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/cards/collection", bytes.NewReader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
			return nil, nil, &apiErr
		}
		return nil, nil, fmt.Errorf("collection request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var collection CollectionResponse
	if err := json.Unmarshal(body, &collection); err != nil {
		return nil, nil, fmt.Errorf("failed to parse collection response: %w", err)
	}

	return collection.Data, collection.NotFound, nil
}
