// Package queue implements the durable hardware action queue. Pending
// actions survive restarts in Redis lists, one list per worker shard, and a
// reconnect signal drains whatever accumulated while the link was down.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/suitewaste/deskshell/internal/api/metrics"
	"github.com/suitewaste/deskshell/internal/core/ports"
	"github.com/suitewaste/deskshell/internal/infrastructure/db/redis"
)

const (
	defaultWorkers = 4
	maxRetries     = 3
	pollInterval   = time.Second
)

// Dispatcher routes hardware actions to a fixed set of workers using
// consistent hashing on the device id, so actions for one device are always
// delivered in order. Each worker drains its own Redis list.
type Dispatcher struct {
	client  *goredis.Client
	dedup   *redis.ActionDedup
	sender  ports.ActionSender
	workers int
	online  atomic.Bool
	wake    []chan struct{}
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. The dispatcher starts online.
func NewDispatcher(client *goredis.Client, dedup *redis.ActionDedup, sender ports.ActionSender, numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		client:  client,
		dedup:   dedup,
		sender:  sender,
		workers: numWorkers,
		wake:    make([]chan struct{}, numWorkers),
		log:     log,
	}
	for i := range d.wake {
		d.wake[i] = make(chan struct{}, 1)
	}
	d.online.Store(true)
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		go d.runWorker(ctx, i)
	}
}

// Enqueue persists an action to its shard's pending list. An empty id is
// assigned. Enqueueing works whether the dispatcher is online or not; offline
// the action simply waits for the reconnect signal.
func (d *Dispatcher) Enqueue(ctx context.Context, action ports.HardwareAction) error {
	if action.ID == "" {
		action.ID = uuid.NewString()
	}
	if action.EnqueuedAt.IsZero() {
		action.EnqueuedAt = time.Now().UTC()
	}

	raw, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("marshal action: %w", err)
	}

	shard := d.shardIndex(action.DeviceID)
	if err := d.client.LPush(ctx, d.shardKey(shard), raw).Err(); err != nil {
		return fmt.Errorf("enqueue action: %w", err)
	}
	d.updateDepth(ctx, shard)
	d.nudge(shard)
	return nil
}

// SetOnline flips the connectivity flag. Going online wakes every worker so
// the backlog drains immediately instead of waiting for the next poll.
func (d *Dispatcher) SetOnline(online bool) {
	was := d.online.Swap(online)
	if online && !was {
		d.log.Info().Msg("hardware link restored, draining pending actions")
		for i := range d.wake {
			d.nudge(i)
		}
	}
}

// shardIndex maps a device id deterministically to a worker index.
func (d *Dispatcher) shardIndex(deviceID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(deviceID))
	return int(h.Sum32()) % d.workers
}

func (d *Dispatcher) shardKey(shard int) string {
	return fmt.Sprintf("hwqueue:shard:%d", shard)
}

func (d *Dispatcher) nudge(shard int) {
	select {
	case d.wake[shard] <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) updateDepth(ctx context.Context, shard int) {
	if n, err := d.client.LLen(ctx, d.shardKey(shard)).Result(); err == nil {
		metrics.HardwareQueueDepth.WithLabelValues(fmt.Sprintf("%d", shard)).Set(float64(n))
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if d.online.Load() {
			d.drain(ctx, id)
		}
		select {
		case <-ctx.Done():
			return
		case <-d.wake[id]:
		case <-ticker.C:
		}
	}
}

// drain pops and delivers actions until the shard list is empty or ctx ends.
func (d *Dispatcher) drain(ctx context.Context, id int) {
	key := d.shardKey(id)
	for ctx.Err() == nil && d.online.Load() {
		raw, err := d.client.RPop(ctx, key).Result()
		if err == goredis.Nil {
			return
		}
		if err != nil {
			d.log.Error().Err(err).Int("worker_id", id).Msg("pop pending action failed")
			return
		}
		d.updateDepth(ctx, id)

		var action ports.HardwareAction
		if err := json.Unmarshal([]byte(raw), &action); err != nil {
			d.log.Error().Err(err).Int("worker_id", id).Msg("discarding undecodable action")
			metrics.HardwareActionsTotal.WithLabelValues("dropped").Inc()
			continue
		}

		first, err := d.dedup.MarkOnce(ctx, action.ID)
		if err != nil {
			d.log.Warn().Err(err).Str("action_id", action.ID).Msg("dedup check failed, delivering anyway")
		} else if !first {
			d.log.Debug().Str("action_id", action.ID).Msg("skipping replayed action")
			continue
		}

		d.deliver(ctx, id, action)
	}
}

// deliver attempts the send with exponential backoff: 2^n seconds between
// attempts, giving up after maxRetries.
func (d *Dispatcher) deliver(ctx context.Context, workerID int, action ports.HardwareAction) {
	for {
		err := d.sender.Send(ctx, action)
		if err == nil {
			metrics.HardwareActionsTotal.WithLabelValues("delivered").Inc()
			return
		}

		action.Attempts++
		if action.Attempts > maxRetries {
			metrics.HardwareActionsTotal.WithLabelValues("dropped").Inc()
			d.log.Error().Err(err).
				Str("action_id", action.ID).
				Str("device_id", action.DeviceID).
				Int("worker_id", workerID).
				Msg("hardware action dropped after retry limit")
			return
		}

		metrics.HardwareActionsTotal.WithLabelValues("retried").Inc()
		backoff := time.Duration(1<<uint(action.Attempts)) * time.Second
		d.log.Warn().Err(err).
			Str("action_id", action.ID).
			Int("attempt", action.Attempts).
			Dur("backoff", backoff).
			Msg("hardware action send failed, retrying")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
	}
}
