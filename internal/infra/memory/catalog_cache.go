package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quiz-portal/internal/domain"
)

// CatalogLoader fetches quiz catalog content from the remote API.
type CatalogLoader interface {
	ListQuizzes(ctx context.Context, token string) ([]domain.Quiz, error)
	QuizQuestions(ctx context.Context, token, quizID string) ([]domain.Question, error)
}

// CatalogCache caches catalog lookups with TTL so dashboard navigation does
// not hammer the remote API. Concurrent misses for the same key are collapsed
// with singleflight.
type CatalogCache struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	quizzes   map[string]cachedQuizzes
	questions map[string]cachedQuestions
}

type cachedQuizzes struct {
	quizzes   []domain.Quiz
	expiresAt time.Time
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewCatalogCache(loader CatalogLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		loader:    loader,
		ttl:       ttl,
		clock:     time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		quizzes:   make(map[string]cachedQuizzes),
		questions: make(map[string]cachedQuestions),
	}
}

// ListQuizzes returns the cached catalog, keyed per token subject so one
// user's view never leaks into another's.
func (c *CatalogCache) ListQuizzes(ctx context.Context, token string) ([]domain.Quiz, error) {
	now := c.clock()
	key := "quizzes:" + token

	c.mu.RLock()
	if entry, ok := c.quizzes[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.quizzes, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.quizzes[key]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.quizzes, nil
		}
		c.mu.RUnlock()

		quizzes, err := c.loader.ListQuizzes(ctx, token)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.quizzes[key] = cachedQuizzes{quizzes: quizzes, expiresAt: now.Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return quizzes, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Quiz), nil
}

// QuizQuestions returns the cached question set for one quiz. Question sets
// are keyed by quiz ID alone; their content does not vary per user.
func (c *CatalogCache) QuizQuestions(ctx context.Context, token, quizID string) ([]domain.Question, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.questions[quizID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.questions, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("questions:"+quizID, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.questions[quizID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.questions, nil
		}
		c.mu.RUnlock()

		questions, err := c.loader.QuizQuestions(ctx, token, quizID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.questions[quizID] = cachedQuestions{questions: questions, expiresAt: now.Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
