package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/procmap-labs/procmap-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DiagramCache = (*DiagramCache)(nil)

const (
	diagramPrefix = "procmap:diagram:"

	// diagramTTL bounds staleness even if invalidation is missed
	diagramTTL = 24 * time.Hour
)

// DiagramCache implements driven.DiagramCache using Redis. One hash per
// process holds the record fingerprint and the compiled XML, so a
// fingerprint check and the payload read are a single round trip.
type DiagramCache struct {
	client *redis.Client
}

// NewDiagramCache creates a new Redis-backed DiagramCache
func NewDiagramCache(client *redis.Client) *DiagramCache {
	return &DiagramCache{client: client}
}

// Get retrieves the cached XML for a process if the fingerprint matches
func (c *DiagramCache) Get(ctx context.Context, processID, fingerprint string) (string, bool, error) {
	values, err := c.client.HMGet(ctx, diagramPrefix+processID, "fingerprint", "xml").Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to read diagram cache: %w", err)
	}

	cachedFP, _ := values[0].(string)
	xml, _ := values[1].(string)
	if cachedFP == "" || cachedFP != fingerprint || xml == "" {
		return "", false, nil
	}
	return xml, true, nil
}

// Set stores compiled XML under the process and fingerprint
func (c *DiagramCache) Set(ctx context.Context, processID, fingerprint, xml string) error {
	key := diagramPrefix + processID

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, "fingerprint", fingerprint, "xml", xml)
	pipe.Expire(ctx, key, diagramTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write diagram cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached entry for a process
func (c *DiagramCache) Invalidate(ctx context.Context, processID string) error {
	return c.client.Del(ctx, diagramPrefix+processID).Err()
}
