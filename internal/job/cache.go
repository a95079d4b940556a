package job

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/osse101/PickariaJobs_Go/internal/domain"
)

// recordCache holds each player's job records for membership and cooldown reads.
// Experience in cached records may lag behind awards; anything that reports
// experience reads the repository directly.
type recordCache struct {
	lru   *expirable.LRU[uuid.UUID, []domain.JobRecord]
	group singleflight.Group

	// epoch advances on every invalidation so fills started before it are discarded
	mu    sync.Mutex
	epoch uint64
}

func newRecordCache(size int, ttl time.Duration) *recordCache {
	return &recordCache{
		lru: expirable.NewLRU[uuid.UUID, []domain.JobRecord](size, nil, ttl),
	}
}

// records returns the cached records or loads them, coalescing concurrent loads per player
func (c *recordCache) records(ctx context.Context, playerID uuid.UUID, load func(context.Context) ([]domain.JobRecord, error)) ([]domain.JobRecord, error) {
	if c == nil {
		return load(ctx)
	}
	if records, ok := c.lru.Get(playerID); ok {
		return records, nil
	}

	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	key := playerID.String() + ":" + strconv.FormatUint(epoch, 10)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		records, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.epoch == epoch {
			c.lru.Add(playerID, records)
		}
		c.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.JobRecord), nil
}

func (c *recordCache) invalidate(playerID uuid.UUID) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.lru.Remove(playerID)
}
