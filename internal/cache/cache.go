package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// KeyPrefix is prepended to every cache key.
const KeyPrefix = "ua:report:"

// Cache stores report payloads by key.
type Cache interface {
	// Get returns the payload for key. A missing key is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key with the cache's TTL.
	Set(ctx context.Context, key string, value []byte) error
}

// Key builds the cache key for a report. args must marshal to JSON
// deterministically, which holds for structs and maps.
func Key(tool, site string, args interface{}) (string, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key arguments: %w", err)
	}
	sum := sha256.Sum256(data)
	return KeyPrefix + tool + ":" + site + ":" + hex.EncodeToString(sum[:]), nil
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (Noop) Set(context.Context, string, []byte) error { return nil }
