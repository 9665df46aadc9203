package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// ActionDedup guards against replayed hardware actions. An action popped
// twice (worker crash between pop and ack, queue re-sync after reconnect)
// must only reach the device once.
//
// Key format: hwaction:<action_id>
type ActionDedup struct {
	client *redis.Client
}

func NewActionDedup(client *redis.Client) *ActionDedup {
	return &ActionDedup{client: client}
}

// MarkOnce atomically records the action id and reports whether this was the
// first time it was seen. The mark expires after dedupTTL.
func (d *ActionDedup) MarkOnce(ctx context.Context, actionID string) (bool, error) {
	first, err := d.client.SetNX(ctx, d.key(actionID), "1", dedupTTL).Result()
	if err != nil {
		return false, fmt.Errorf("action dedup: %w", err)
	}
	return first, nil
}

func (d *ActionDedup) key(actionID string) string {
	return fmt.Sprintf("hwaction:%s", actionID)
}
