package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/smallbiznis/vitrine/internal/clock"
	"golang.org/x/time/rate"
)

// sweepThreshold is the bucket count above which idle buckets are dropped.
const sweepThreshold = 10000

type memoryEntry struct {
	limiter  *rate.Limiter
	rate     float64
	burst    int
	lastSeen time.Time
}

// MemoryBucket keeps token buckets in process memory. Limits are per replica.
type MemoryBucket struct {
	mu      sync.Mutex
	clock   clock.Clock
	buckets map[string]*memoryEntry
}

func NewMemoryBucket(clk clock.Clock) *MemoryBucket {
	return &MemoryBucket{
		clock:   clk,
		buckets: make(map[string]*memoryEntry),
	}
}

func (m *MemoryBucket) Allow(ctx context.Context, key string, r float64, burst int) (*Result, error) {
	if err := validate(key, r, burst); err != nil {
		return nil, err
	}

	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.buckets[key]
	if !ok || entry.rate != r || entry.burst != burst {
		entry = &memoryEntry{
			limiter: rate.NewLimiter(rate.Limit(r), burst),
			rate:    r,
			burst:   burst,
		}
		m.buckets[key] = entry
	}
	entry.lastSeen = now

	allowed := entry.limiter.AllowN(now, 1)
	tokens := entry.limiter.TokensAt(now)

	if len(m.buckets) > sweepThreshold {
		m.sweep(now)
	}
	return newResult(allowed, tokens, r, burst), nil
}

func (m *MemoryBucket) sweep(now time.Time) {
	for key, entry := range m.buckets {
		if now.Sub(entry.lastSeen) > bucketTTL(entry.rate, entry.burst) {
			delete(m.buckets, key)
		}
	}
}
