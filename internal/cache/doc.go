// Package cache provides an optional Redis read-through cache for tasks.
// CachingTaskStore wraps any store.TaskStore; writes go straight to the
// wrapped store and invalidate the affected keys afterwards.
package cache
