// Package lock provides the per-group advisory lock used by the ledger
// services to keep two writers off the same group.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/chit-ledger/pkg/logger"
	"github.com/nimasrn/chit-ledger/pkg/redis"
)

var ErrLocked = errors.New("group is locked")

const DefaultTTL = 10 * time.Second

const keyPrefix = "lock:group:"

// GroupLock is a redis SETNX lock keyed by group id. The lock expires after
// its TTL so a crashed holder cannot wedge a group.
type GroupLock struct {
	redis redis.Adapter
	ttl   time.Duration
}

func NewGroupLock(adapter redis.Adapter, ttl time.Duration) *GroupLock {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &GroupLock{redis: adapter, ttl: ttl}
}

// Acquire takes the lock for groupID or fails with ErrLocked. The returned
// release only deletes the key while this holder still owns it.
func (l *GroupLock) Acquire(ctx context.Context, groupID string) (func(), error) {
	key := keyPrefix + groupID
	token := []byte(uuid.NewString())

	acquired, err := l.redis.SetNX(ctx, key, token, l.ttl)
	if err != nil {
		return nil, fmt.Errorf("acquire group lock: %w", err)
	}
	if !acquired {
		return nil, ErrLocked
	}
	logger.Debug("group lock acquired", "group_id", groupID, "ttl", l.ttl)

	return func() {
		// the caller's ctx may already be done when release runs
		released, err := l.redis.DelIfEquals(context.Background(), key, token)
		if err != nil {
			logger.Warn("failed to release group lock", "group_id", groupID, "error", err)
			return
		}
		if !released {
			logger.Warn("group lock expired before release", "group_id", groupID, "ttl", l.ttl)
		}
	}, nil
}
