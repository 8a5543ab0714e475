package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/phrazzld/smart-todo-api/internal/domain"
	"github.com/phrazzld/smart-todo-api/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore is an in-memory store.TaskStore that counts reads. After
// holdNextRead, the next read takes its snapshot and then blocks until the
// returned release func is called or its context is done.
type countingStore struct {
	mu       sync.Mutex
	tasks    map[uuid.UUID]*domain.Task
	getAll   atomic.Int32
	getByID  atomic.Int32
	getDelay time.Duration
	err      error

	gate    chan struct{}
	entered chan struct{}
}

func (s *countingStore) holdNextRead() (entered <-chan struct{}, release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = make(chan struct{})
	s.entered = make(chan struct{}, 1)
	gate := s.gate
	return s.entered, func() { close(gate) }
}

// takeGate returns the pending gate, if any, and clears it.
func (s *countingStore) takeGate() (chan struct{}, chan struct{}) {
	gate, entered := s.gate, s.entered
	s.gate, s.entered = nil, nil
	return gate, entered
}

func wait(ctx context.Context, gate, entered chan struct{}) error {
	if gate == nil {
		return nil
	}
	entered <- struct{}{}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newCountingStore() *countingStore {
	return &countingStore{tasks: map[uuid.UUID]*domain.Task{}}
}

func (s *countingStore) Create(_ context.Context, task *domain.Task) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	task.CreatedAt = time.Now().UTC()
	task.UpdatedAt = task.CreatedAt
	cp := *task
	s.tasks[task.ID] = &cp
	return nil
}

func (s *countingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.getByID.Add(1)
	time.Sleep(s.getDelay)
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	var cp domain.Task
	task, ok := s.tasks[id]
	if ok {
		cp = *task
	}
	gate, entered := s.takeGate()
	s.mu.Unlock()

	if err := wait(ctx, gate, entered); err != nil {
		return nil, err
	}
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return &cp, nil
}

func (s *countingStore) GetAll(ctx context.Context) ([]*domain.Task, error) {
	s.getAll.Add(1)
	time.Sleep(s.getDelay)
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	out := make([]*domain.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		cp := *task
		out = append(out, &cp)
	}
	gate, entered := s.takeGate()
	s.mu.Unlock()

	if err := wait(ctx, gate, entered); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *countingStore) Update(_ context.Context, id uuid.UUID, update domain.TaskUpdate) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	update.Apply(task)
	cp := *task
	return &cp, nil
}

func (s *countingStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[id]
	delete(s.tasks, id)
	return ok, nil
}

func newTestCache(t *testing.T) (*miniredis.Miniredis, *TaskCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewTaskCache(rdb, time.Minute)
}

func TestNewCachingTaskStore_NilPanics(t *testing.T) {
	_, c := newTestCache(t)
	assert.Panics(t, func() { NewCachingTaskStore(nil, c, nil) })
	assert.Panics(t, func() { NewCachingTaskStore(newCountingStore(), nil, nil) })
}

func TestCachingTaskStore_GetAllServedFromCache(t *testing.T) {
	mr, c := newTestCache(t)
	next := newCountingStore()
	s := NewCachingTaskStore(next, c, nil)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, domain.NewTask("Buy milk", nil, domain.CategoryPersonal, nil)))

	first, err := s.GetAll(ctx)
	require.NoError(t, err)
	second, err := s.GetAll(ctx)
	require.NoError(t, err)

	assert.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, int32(1), next.getAll.Load())
	assert.True(t, mr.Exists(keyList))
	assert.Equal(t, time.Minute, mr.TTL(keyList))
}

func TestCachingTaskStore_EmptyListCached(t *testing.T) {
	_, c := newTestCache(t)
	next := newCountingStore()
	s := NewCachingTaskStore(next, c, nil)
	ctx := context.Background()

	for range 2 {
		tasks, err := s.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	}
	assert.Equal(t, int32(1), next.getAll.Load())
}

func TestCachingTaskStore_WritesInvalidate(t *testing.T) {
	mr, c := newTestCache(t)
	next := newCountingStore()
	s := NewCachingTaskStore(next, c, nil)
	ctx := context.Background()

	task := domain.NewTask("Buy milk", nil, domain.CategoryPersonal, nil)
	require.NoError(t, s.Create(ctx, task))

	_, err := s.GetAll(ctx)
	require.NoError(t, err)
	_, err = s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(keyList))
	require.True(t, mr.Exists(taskKey(task.ID)))

	updated, err := s.Update(ctx, task.ID, domain.TaskUpdate{Title: domain.Some("Buy oat milk")})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.False(t, mr.Exists(keyList))
	assert.False(t, mr.Exists(taskKey(task.ID)))

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", got.Title)
	assert.Equal(t, int32(2), next.getByID.Load())

	_, err = s.GetAll(ctx)
	require.NoError(t, err)
	deleted, err := s.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, mr.Exists(keyList))

	_, err = s.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestCachingTaskStore_CreateInvalidatesList(t *testing.T) {
	_, c := newTestCache(t)
	s := NewCachingTaskStore(newCountingStore(), c, nil)
	ctx := context.Background()

	_, err := s.GetAll(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Create(ctx, domain.NewTask("Call mom", nil, domain.CategoryPersonal, nil)))

	tasks, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestCachingTaskStore_NotFoundNotCached(t *testing.T) {
	mr, c := newTestCache(t)
	s := NewCachingTaskStore(newCountingStore(), c, nil)

	id := uuid.New()
	_, err := s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.False(t, mr.Exists(taskKey(id)))
}

func TestCachingTaskStore_StoreErrorPropagates(t *testing.T) {
	_, c := newTestCache(t)
	next := newCountingStore()
	next.err = errors.New("database unavailable")
	s := NewCachingTaskStore(next, c, nil)

	_, err := s.GetAll(context.Background())
	assert.ErrorIs(t, err, next.err)

	err = s.Create(context.Background(), domain.NewTask("x", nil, domain.CategoryPersonal, nil))
	assert.ErrorIs(t, err, next.err)
}

func TestCachingTaskStore_RedisDownFallsThrough(t *testing.T) {
	mr, c := newTestCache(t)
	next := newCountingStore()
	s := NewCachingTaskStore(next, c, nil)
	ctx := context.Background()

	task := domain.NewTask("Buy milk", nil, domain.CategoryPersonal, nil)
	require.NoError(t, s.Create(ctx, task))
	mr.Close()

	tasks, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
}

func TestCachingTaskStore_ConcurrentMissesShareLoad(t *testing.T) {
	_, c := newTestCache(t)
	next := newCountingStore()
	next.getDelay = 50 * time.Millisecond
	s := NewCachingTaskStore(next, c, nil)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.GetAll(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Less(t, next.getAll.Load(), int32(10))
}

func TestCachingTaskStore_StaleLoadNotCachedAfterUpdate(t *testing.T) {
	_, c := newTestCache(t)
	next := newCountingStore()
	s := NewCachingTaskStore(next, c, nil)
	ctx := context.Background()

	task := domain.NewTask("old title", nil, domain.CategoryPersonal, nil)
	require.NoError(t, s.Create(ctx, task))

	entered, release := next.holdNextRead()
	done := make(chan *domain.Task, 1)
	go func() {
		got, err := s.GetByID(ctx, task.ID)
		assert.NoError(t, err)
		done <- got
	}()
	<-entered

	updated, err := s.Update(ctx, task.ID, domain.TaskUpdate{Title: domain.Some("new title")})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)

	release()
	assert.Equal(t, "old title", (<-done).Title)

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "new title", got.Title)
}

func TestCachingTaskStore_StaleLoadNotCachedAfterDelete(t *testing.T) {
	mr, c := newTestCache(t)
	next := newCountingStore()
	s := NewCachingTaskStore(next, c, nil)
	ctx := context.Background()

	task := domain.NewTask("Call mom", nil, domain.CategoryPersonal, nil)
	require.NoError(t, s.Create(ctx, task))

	entered, release := next.holdNextRead()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.GetByID(ctx, task.ID)
		assert.NoError(t, err)
	}()
	<-entered

	deleted, err := s.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	release()
	<-done
	assert.False(t, mr.Exists(taskKey(task.ID)))

	_, err = s.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestCachingTaskStore_StaleListNotCachedAfterCreate(t *testing.T) {
	_, c := newTestCache(t)
	next := newCountingStore()
	s := NewCachingTaskStore(next, c, nil)
	ctx := context.Background()

	entered, release := next.holdNextRead()
	done := make(chan []*domain.Task, 1)
	go func() {
		tasks, err := s.GetAll(ctx)
		assert.NoError(t, err)
		done <- tasks
	}()
	<-entered

	require.NoError(t, s.Create(ctx, domain.NewTask("Buy milk", nil, domain.CategoryPersonal, nil)))

	release()
	assert.Empty(t, <-done)

	tasks, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestCachingTaskStore_CanceledCallerDoesNotFailSharedLoad(t *testing.T) {
	_, c := newTestCache(t)
	next := newCountingStore()
	s := NewCachingTaskStore(next, c, nil)

	task := domain.NewTask("Buy milk", nil, domain.CategoryPersonal, nil)
	require.NoError(t, s.Create(context.Background(), task))

	entered, release := next.holdNextRead()

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := s.GetByID(ctxA, task.ID)
		errA <- err
	}()
	<-entered

	type result struct {
		task *domain.Task
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		got, err := s.GetByID(context.Background(), task.ID)
		resB <- result{got, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	release()
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, task.ID, b.task.ID)
	assert.Equal(t, int32(1), next.getByID.Load())
}
