package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cwms_shell/internal/routes"
)

const (
	visitKeyPrefix = "visits"
	visitDayLayout = "2006-01-02"
	// VisitKeyTTL bounds how long an unflushed counter is kept.
	VisitKeyTTL = 7 * 24 * time.Hour
)

// VisitKey identifies one daily page counter.
type VisitKey struct {
	Deployment string
	Page       routes.PageID
	Day        time.Time
}

// String renders the Redis key: visits:<deployment>:<page>:<yyyy-mm-dd>.
func (k VisitKey) String() string {
	return fmt.Sprintf("%s:%s:%s:%s", visitKeyPrefix, k.Deployment, k.Page, k.Day.UTC().Format(visitDayLayout))
}

// ParseVisitKey is the inverse of VisitKey.String.
func ParseVisitKey(s string) (VisitKey, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 || parts[0] != visitKeyPrefix || parts[1] == "" || parts[2] == "" {
		return VisitKey{}, fmt.Errorf("malformed visit key %q", s)
	}
	day, err := time.Parse(visitDayLayout, parts[3])
	if err != nil {
		return VisitKey{}, fmt.Errorf("malformed visit key %q: %w", s, err)
	}
	return VisitKey{Deployment: parts[1], Page: routes.PageID(parts[2]), Day: day}, nil
}

// VisitKeyPattern matches every visit counter.
func VisitKeyPattern() string {
	return visitKeyPrefix + ":*"
}

// VisitCounter records page visits in Redis.
type VisitCounter struct {
	cache *RedisCache
	now   func() time.Time
}

// NewVisitCounter creates a counter backed by cache.
func NewVisitCounter(cache *RedisCache) *VisitCounter {
	return &VisitCounter{cache: cache, now: time.Now}
}

// RecordVisit increments today's counter for the page.
func (v *VisitCounter) RecordVisit(ctx context.Context, deployment string, page routes.PageID) error {
	key := VisitKey{Deployment: deployment, Page: page, Day: v.now()}
	if _, err := v.cache.Increment(ctx, key.String(), VisitKeyTTL); err != nil {
		return fmt.Errorf("recording visit %s: %w", key, err)
	}
	return nil
}

// PendingVisit is a counter value read from Redis and not yet saved.
type PendingVisit struct {
	Key   VisitKey
	Count int64
}

// PendingVisits reads every non-zero visit counter. Counters stay in Redis
// until AckVisits subtracts them, so a failed save loses nothing. Keys that
// do not parse and zero counters are removed.
func (v *VisitCounter) PendingVisits(ctx context.Context) ([]PendingVisit, error) {
	keys, err := v.cache.Keys(ctx, VisitKeyPattern())
	if err != nil {
		return nil, fmt.Errorf("listing visit keys: %w", err)
	}

	var pending []PendingVisit
	for _, raw := range keys {
		key, err := ParseVisitKey(raw)
		if err != nil {
			if err := v.cache.Delete(ctx, raw); err != nil {
				return nil, fmt.Errorf("discarding %s: %w", raw, err)
			}
			continue
		}

		n, err := v.cache.Get(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", raw, err)
		}
		if n == 0 {
			if _, err := v.cache.Settle(ctx, raw, 0); err != nil {
				return nil, fmt.Errorf("discarding %s: %w", raw, err)
			}
			continue
		}
		pending = append(pending, PendingVisit{Key: key, Count: n})
	}
	return pending, nil
}

// AckVisits subtracts saved counts from their counters. Visits recorded
// after PendingVisits read a counter are kept for the next flush.
func (v *VisitCounter) AckVisits(ctx context.Context, visits []PendingVisit) error {
	for _, pv := range visits {
		if _, err := v.cache.Settle(ctx, pv.Key.String(), pv.Count); err != nil {
			return fmt.Errorf("acknowledging %s: %w", pv.Key, err)
		}
	}
	return nil
}
