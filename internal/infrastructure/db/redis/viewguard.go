package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const viewTTL = time.Hour

// ViewGuard deduplicates post views backed by Redis.
// Key format: view:<post_id>:<viewer_key>
type ViewGuard struct {
	client *redis.Client
}

// NewViewGuard creates a ViewGuard wrapping the given Redis client.
func NewViewGuard(client *redis.Client) *ViewGuard {
	return &ViewGuard{client: client}
}

// Seen reports whether this viewer already read the post within the window.
func (g *ViewGuard) Seen(ctx context.Context, postID, viewerKey string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(postID, viewerKey)).Result()
	if err != nil {
		return false, fmt.Errorf("view check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this viewer read the post (expires after viewTTL).
func (g *ViewGuard) Mark(ctx context.Context, postID, viewerKey string) error {
	return g.client.Set(ctx, g.key(postID, viewerKey), "1", viewTTL).Err()
}

func (g *ViewGuard) key(postID, viewerKey string) string {
	return fmt.Sprintf("view:%s:%s", postID, viewerKey)
}
