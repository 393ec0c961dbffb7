package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rrens/itinerary-planner/internal/domain"
)

const searchCachePrefix = "search:"

// SearchCache stores normalized flight-search results keyed by the query
type SearchCache struct {
	client *Client
	ttl    time.Duration
}

// NewSearchCache creates a new search cache. Entries expire after ttl.
func NewSearchCache(client *Client, ttl time.Duration) *SearchCache {
	return &SearchCache{client: client, ttl: ttl}
}

// Get returns the cached offers for req. The bool is false on a miss.
func (c *SearchCache) Get(ctx context.Context, req domain.SearchRequest) ([][]domain.FlightOption, bool, error) {
	key, err := searchKey(req)
	if err != nil {
		return nil, false, err
	}

	data, err := c.client.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read search cache: %w", err)
	}

	var offers [][]domain.FlightOption
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached offers: %w", err)
	}

	return offers, true, nil
}

// Set caches offers for req
func (c *SearchCache) Set(ctx context.Context, req domain.SearchRequest, offers [][]domain.FlightOption) error {
	key, err := searchKey(req)
	if err != nil {
		return err
	}

	data, err := json.Marshal(offers)
	if err != nil {
		return fmt.Errorf("failed to marshal offers: %w", err)
	}

	if err := c.client.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write search cache: %w", err)
	}
	return nil
}

// searchKey hashes the JSON form of req; struct field order makes it stable
func searchKey(req domain.SearchRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal search request: %w", err)
	}
	sum := sha256.Sum256(data)
	return searchCachePrefix + hex.EncodeToString(sum[:]), nil
}
