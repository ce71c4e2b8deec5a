package bank

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultListTTL = 5 * time.Minute

// ListCache caches per-scope question listings. Get returns (nil, nil) on a
// miss.
type ListCache interface {
	Get(ctx context.Context, scope Scope) ([]Question, error)
	Set(ctx context.Context, scope Scope, questions []Question) error
	Invalidate(ctx context.Context, scope Scope) error
}

// RedisListCache is the Redis-backed ListCache.
type RedisListCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ListCache = (*RedisListCache)(nil)

func NewRedisListCache(client *redis.Client, ttl time.Duration) *RedisListCache {
	if ttl <= 0 {
		ttl = defaultListTTL
	}
	return &RedisListCache{client: client, ttl: ttl}
}

func (c *RedisListCache) key(scope Scope) string {
	return "bank:list:" + scope.String()
}

func (c *RedisListCache) Get(ctx context.Context, scope Scope) ([]Question, error) {
	data, err := c.client.Get(ctx, c.key(scope)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *RedisListCache) Set(ctx context.Context, scope Scope, questions []Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(scope), data, c.ttl).Err()
}

func (c *RedisListCache) Invalidate(ctx context.Context, scope Scope) error {
	return c.client.Del(ctx, c.key(scope)).Err()
}

// CachedBank wraps a Service with a read-side listing cache. The cache sits
// outside the transactional core: writes go straight through the service
// and only invalidate afterwards. Cache faults degrade to store reads.
type CachedBank struct {
	*Service
	cache  ListCache
	logger zerolog.Logger
}

func NewCachedBank(svc *Service, cache ListCache, logger zerolog.Logger) *CachedBank {
	return &CachedBank{
		Service: svc,
		cache:   cache,
		logger:  logger.With().Str("component", "bank_cache").Logger(),
	}
}

func (c *CachedBank) ListQuestions(ctx context.Context, scope Scope) ([]Question, error) {
	if cached, err := c.cache.Get(ctx, scope); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		c.logger.Warn().Err(err).Str("scope", scope.String()).Msg("cache read failed")
	}

	questions, err := c.Service.ListQuestions(ctx, scope)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, scope, questions); err != nil {
		c.logger.Warn().Err(err).Str("scope", scope.String()).Msg("cache write failed")
	}
	return questions, nil
}

func (c *CachedBank) AddQuestion(ctx context.Context, scope Scope, in AddQuestionInput) (uuid.UUID, error) {
	id, err := c.Service.AddQuestion(ctx, scope, in)
	if err != nil {
		return uuid.Nil, err
	}
	c.invalidate(ctx, scope)
	return id, nil
}

func (c *CachedBank) UpdateQuestion(ctx context.Context, id uuid.UUID, in UpdateQuestionInput) error {
	if err := c.Service.UpdateQuestion(ctx, id, in); err != nil {
		return err
	}
	if q, err := c.Service.GetQuestion(ctx, id); err == nil {
		c.invalidate(ctx, q.Scope)
	}
	return nil
}

func (c *CachedBank) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	scope, known := c.scopeOf(ctx, id)
	if err := c.Service.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	if known {
		c.invalidate(ctx, scope)
	}
	return nil
}

func (c *CachedBank) scopeOf(ctx context.Context, id uuid.UUID) (Scope, bool) {
	q, err := c.Service.GetQuestion(ctx, id)
	if err != nil {
		return Scope{}, false
	}
	return q.Scope, true
}

func (c *CachedBank) invalidate(ctx context.Context, scope Scope) {
	if err := c.cache.Invalidate(ctx, scope); err != nil {
		c.logger.Warn().Err(err).Str("scope", scope.String()).Msg("cache invalidation failed")
	}
}
