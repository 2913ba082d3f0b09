package movements

import (
	"context"
	"fmt"
	"time"

	"moneytrack/internal/cache"
	"moneytrack/internal/core"
	"moneytrack/internal/log"
)

// BalanceAPI is the legacy aggregate endpoint. Where the full list is
// loaded, SumKind on the store supersedes it; the reader remains the cheap
// path when it is not.
type BalanceAPI interface {
	Balance(ctx context.Context, kind core.Kind, userID string) (int64, error)
}

// BalanceReader caches server-side aggregate totals per kind and user. The
// cache is in-process with a TTL and is cleared on every list mutation and
// on reset, so a stale total can never survive a mutation, let alone a
// session.
type BalanceReader struct {
	api    BalanceAPI
	totals *cache.TTLCache[int64]
	logger *log.Logger
}

func NewBalanceReader(client BalanceAPI, size int, ttl time.Duration, logger *log.Logger) *BalanceReader {
	return &BalanceReader{
		api:    client,
		totals: cache.NewTTLCache[int64](size, ttl),
		logger: logger.WithComponent(log.ComponentCache),
	}
}

// Bind registers the reader's invalidation on the store, so every mutation
// of that store drops all cached totals.
func (r *BalanceReader) Bind(store *Store) {
	store.OnMutation(r.Invalidate)
}

// Total returns the aggregate sum for one kind, from cache when fresh.
func (r *BalanceReader) Total(ctx context.Context, kind core.Kind, userID string) (int64, error) {
	key := string(kind) + ":" + userID
	if total, ok := r.totals.Get(key); ok {
		r.logger.DebugContext(ctx, "Balance served from cache",
			log.FieldKind, string(kind),
			log.FieldUserID, userID)
		return total, nil
	}

	total, err := r.api.Balance(ctx, kind, userID)
	if err != nil {
		return 0, fmt.Errorf("balance %s: %w", kind, err)
	}
	r.totals.Set(key, total)
	return total, nil
}

// Invalidate drops every cached total.
func (r *BalanceReader) Invalidate() {
	r.totals.Clear()
}
