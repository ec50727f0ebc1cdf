package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"practice-quiz-service/internal/app"
	"practice-quiz-service/internal/domain"
)

const collectionKey = "quiz-collection"

// CachedCollection caches the collection with a TTL to avoid repeated store hits.
// Writes go straight to the backing store and drop the cached copy.
type CachedCollection struct {
	store app.CollectionStore
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu        sync.RWMutex
	cached    []domain.Quiz
	expiresAt time.Time
	valid     bool
	// bumped by every write; a load only lands if no write happened meanwhile
	gen uint64
}

func NewCachedCollection(store app.CollectionStore, ttl time.Duration) *CachedCollection {
	return &CachedCollection{
		store: store,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CachedCollection) List(ctx context.Context) ([]domain.Quiz, error) {
	if quizzes, ok := c.fresh(c.clock()); ok {
		return quizzes, nil
	}

	result, err, _ := c.sf.Do(collectionKey, func() (interface{}, error) {
		now := c.clock()
		if quizzes, ok := c.fresh(now); ok {
			return quizzes, nil
		}

		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		quizzes, err := c.store.List(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.cached = quizzes
			c.expiresAt = now.Add(c.ttlWithJitter())
			c.valid = true
		}
		c.mu.Unlock()
		return quizzes, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.Quiz(nil), result.([]domain.Quiz)...), nil
}

func (c *CachedCollection) Save(ctx context.Context, quizzes []domain.Quiz) error {
	c.invalidate()
	defer c.invalidate()
	return c.store.Save(ctx, quizzes)
}

func (c *CachedCollection) Clear(ctx context.Context) error {
	c.invalidate()
	defer c.invalidate()
	return c.store.Clear(ctx)
}

func (c *CachedCollection) fresh(now time.Time) ([]domain.Quiz, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.valid && c.expiresAt.After(now) {
		return append([]domain.Quiz(nil), c.cached...), true
	}
	return nil, false
}

func (c *CachedCollection) invalidate() {
	c.mu.Lock()
	c.gen++
	c.valid = false
	c.cached = nil
	c.mu.Unlock()
	// later readers must not join a load that started before the write
	c.sf.Forget(collectionKey)
}

func (c *CachedCollection) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
