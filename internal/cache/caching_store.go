package cache

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/smart-todo-api/internal/domain"
	"github.com/phrazzld/smart-todo-api/internal/platform/logger"
	"github.com/phrazzld/smart-todo-api/internal/store"
	"golang.org/x/sync/singleflight"
)

// CachingTaskStore is a store.TaskStore that serves reads from a TaskCache
// when possible. Concurrent misses for the same key share one load from the
// wrapped store. A load only fills the cache if no write invalidated the key
// after the load started. Cache failures are logged and never fail the request.
type CachingTaskStore struct {
	next   store.TaskStore
	cache  *TaskCache
	sf     singleflight.Group
	logger *slog.Logger
}

var _ store.TaskStore = (*CachingTaskStore)(nil)

// NewCachingTaskStore wraps next with cache.
func NewCachingTaskStore(next store.TaskStore, cache *TaskCache, logger *slog.Logger) *CachingTaskStore {
	if next == nil || cache == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("next store and cache cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachingTaskStore{
		next:   next,
		cache:  cache,
		logger: logger.With(slog.String("component", "task_cache")),
	}
}

func (s *CachingTaskStore) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

func (s *CachingTaskStore) invalidate(ctx context.Context, ids ...uuid.UUID) {
	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		s.log(ctx).Warn("cache invalidation failed", slog.String("error", err.Error()))
	}
}

// Create implements store.TaskStore.Create.
func (s *CachingTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := s.next.Create(ctx, task); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *CachingTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := s.log(ctx).With(slog.String("task_id", id.String()))

	task, err := s.cache.GetTask(ctx, id)
	if err != nil {
		log.Warn("cache read failed", slog.String("error", err.Error()))
	}
	if task != nil {
		return task, nil
	}

	gen, err := s.cache.TaskGeneration(ctx, id)
	if err != nil {
		log.Warn("cache generation read failed", slog.String("error", err.Error()))
		return s.next.GetByID(ctx, id)
	}

	v, err := s.load(ctx, taskKey(id)+"@"+gen, func(loadCtx context.Context) (any, error) {
		task, err := s.next.GetByID(loadCtx, id)
		if err != nil {
			return nil, err
		}
		if _, err := s.cache.SetTask(loadCtx, gen, task); err != nil {
			log.Warn("cache write failed", slog.String("error", err.Error()))
		}
		return task, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Task), nil
}

// GetAll implements store.TaskStore.GetAll.
func (s *CachingTaskStore) GetAll(ctx context.Context) ([]*domain.Task, error) {
	log := s.log(ctx)

	tasks, ok, err := s.cache.GetList(ctx)
	if err != nil {
		log.Warn("cache read failed", slog.String("error", err.Error()))
	}
	if ok {
		return tasks, nil
	}

	gen, err := s.cache.ListGeneration(ctx)
	if err != nil {
		log.Warn("cache generation read failed", slog.String("error", err.Error()))
		return s.next.GetAll(ctx)
	}

	v, err := s.load(ctx, keyList+"@"+gen, func(loadCtx context.Context) (any, error) {
		tasks, err := s.next.GetAll(loadCtx)
		if err != nil {
			return nil, err
		}
		if _, err := s.cache.SetList(loadCtx, gen, tasks); err != nil {
			log.Warn("cache write failed", slog.String("error", err.Error()))
		}
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Task), nil
}

// load runs fn once per key for all concurrent callers. fn gets a context
// that outlives any single caller; each caller stops waiting when its own
// ctx is done.
func (s *CachingTaskStore) load(
	ctx context.Context,
	key string,
	fn func(context.Context) (any, error),
) (any, error) {
	loadCtx := context.WithoutCancel(ctx)
	ch := s.sf.DoChan(key, func() (any, error) {
		return fn(loadCtx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Update implements store.TaskStore.Update.
func (s *CachingTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	task, err := s.next.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if !update.IsEmpty() {
		s.invalidate(ctx, id)
	}
	return task, nil
}

// Delete implements store.TaskStore.Delete.
func (s *CachingTaskStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.next.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.invalidate(ctx, id)
	}
	return deleted, nil
}
