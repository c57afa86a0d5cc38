package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"questboard/internal/domain"
)

// SeedLoader fetches the starting roster from a backing store (e.g., Postgres).
type SeedLoader interface {
	LoadSeed(ctx context.Context) (domain.Seed, error)
}

// SeedCache keeps the starting roster in Redis and falls back to a loader on cache miss.
// The seed is stored as one JSON document per part:
//
//	SET seed:students [...]
//	SET seed:quests   [...]
type SeedCache struct {
	client *redis.Client
	loader SeedLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewSeedCache(client *redis.Client, loader SeedLoader, ttl time.Duration) *SeedCache {
	return &SeedCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

const (
	keySeedStudents = "seed:students"
	keySeedQuests   = "seed:quests"
)

// cachedQuest carries the quiz answer, which domain.Quest hides from JSON.
type cachedQuest struct {
	domain.Quest
	CorrectAnswer string `json:"correctAnswer,omitempty"`
}

func (c *SeedCache) LoadSeed(ctx context.Context) (domain.Seed, error) {
	if seed, ok := c.fromCache(ctx); ok {
		return seed, nil
	}

	result, err, _ := c.sf.Do("seed", func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if seed, ok := c.fromCache(ctx); ok {
			return seed, nil
		}

		seed, err := c.loader.LoadSeed(ctx)
		if err != nil {
			return domain.Seed{}, err
		}

		quests := make([]cachedQuest, 0, len(seed.Quests))
		for _, q := range seed.Quests {
			quests = append(quests, cachedQuest{Quest: q, CorrectAnswer: q.CorrectAnswer})
		}
		students, err := json.Marshal(seed.Students)
		if err != nil {
			return domain.Seed{}, err
		}
		questData, err := json.Marshal(quests)
		if err != nil {
			return domain.Seed{}, err
		}

		ttl := c.ttlWithJitter()
		pipe := c.client.Pipeline()
		pipe.Set(ctx, keySeedStudents, students, ttl)
		pipe.Set(ctx, keySeedQuests, questData, ttl)
		// a failed write only costs a reload next time
		_, _ = pipe.Exec(ctx)

		return seed, nil
	})
	if err != nil {
		return domain.Seed{}, err
	}
	return result.(domain.Seed), nil
}

// Invalidate drops the cached seed so the next load reads the backing store.
func (c *SeedCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, keySeedStudents, keySeedQuests).Err()
}

func (c *SeedCache) fromCache(ctx context.Context) (domain.Seed, bool) {
	values, err := c.client.MGet(ctx, keySeedStudents, keySeedQuests).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.Seed{}, false
	}
	if len(values) != 2 {
		return domain.Seed{}, false
	}
	rawStudents, ok1 := values[0].(string)
	rawQuests, ok2 := values[1].(string)
	if !ok1 || !ok2 {
		return domain.Seed{}, false
	}

	var seed domain.Seed
	if err := json.Unmarshal([]byte(rawStudents), &seed.Students); err != nil {
		return domain.Seed{}, false
	}
	var quests []cachedQuest
	if err := json.Unmarshal([]byte(rawQuests), &quests); err != nil {
		return domain.Seed{}, false
	}
	for _, q := range quests {
		quest := q.Quest
		quest.CorrectAnswer = q.CorrectAnswer
		seed.Quests = append(seed.Quests, quest)
	}
	return seed, true
}

func (c *SeedCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
