package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/smart-todo-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	keyList       = "task:list"
	keyTaskPrefix = "task:id:"
	keyGenPrefix  = "task:gen:"

	// generationTTL bounds how long an invalidation counter outlives its
	// last write. It must exceed the longest load from the store.
	generationTTL = 24 * time.Hour
)

func taskKey(id uuid.UUID) string {
	return keyTaskPrefix + id.String()
}

func genKey(key string) string {
	return keyGenPrefix + key
}

// NewRedisClient parses url, connects and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// TaskCache caches the task list and individual tasks in Redis.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list. ok is false on a miss.
func (c *TaskCache) GetList(ctx context.Context) (tasks []*domain.Task, ok bool, err error) {
	b, err := c.rdb.Get(ctx, keyList).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, false, err
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, true, nil
}

// SetList stores the list if no invalidation has happened since gen was
// read. It reports whether the value was written.
func (c *TaskCache) SetList(ctx context.Context, gen string, tasks []*domain.Task) (bool, error) {
	return c.setIfCurrent(ctx, keyList, gen, tasks)
}

// GetTask returns the cached task, or nil on a miss.
func (c *TaskCache) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	b, err := c.rdb.Get(ctx, taskKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var task domain.Task
	if err := json.Unmarshal(b, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// SetTask stores a single task if its entry has not been invalidated since
// gen was read. It reports whether the value was written.
func (c *TaskCache) SetTask(ctx context.Context, gen string, task *domain.Task) (bool, error) {
	return c.setIfCurrent(ctx, taskKey(task.ID), gen, task)
}

// ListGeneration returns the generation of the cached list.
func (c *TaskCache) ListGeneration(ctx context.Context) (string, error) {
	return c.generation(ctx, keyList)
}

// TaskGeneration returns the generation of the cached entry for id.
func (c *TaskCache) TaskGeneration(ctx context.Context, id uuid.UUID) (string, error) {
	return c.generation(ctx, taskKey(id))
}

// generation reads the invalidation counter for key. A key that was never
// invalidated is at generation "0".
func (c *TaskCache) generation(ctx context.Context, key string) (string, error) {
	gen, err := c.rdb.Get(ctx, genKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

// setIfGeneration writes KEYS[2] only while the counter in KEYS[1] still
// equals ARGV[1].
var setIfGeneration = redis.NewScript(`
if (redis.call('GET', KEYS[1]) or '0') ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

func (c *TaskCache) setIfCurrent(ctx context.Context, key, gen string, v any) (bool, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	n, err := setIfGeneration.Run(ctx, c.rdb, []string{genKey(key), key}, gen, b, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Invalidate removes the list and, for each id given, that task's entry,
// and bumps their generations so loads already in flight are not cached.
func (c *TaskCache) Invalidate(ctx context.Context, ids ...uuid.UUID) error {
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, keyList)
	for _, id := range ids {
		keys = append(keys, taskKey(id))
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, genKey(key))
			pipe.Expire(ctx, genKey(key), generationTTL)
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	return err
}
