// Package rediscache provides a Redis-backed implementation of the
// store.TaskCache interface. It holds a single snapshot entry for the
// task list under a fixed key with a configurable expiry.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/platform/logger"
	"github.com/taskboard/taskboard-api/internal/store"
)

// taskListKey is the single cache key fronting TaskStore.ListTasks.
const taskListKey = "tasks:all"

// RedisTaskCache implements store.TaskCache backed by Redis.
//
// No in-process cache sits in front of Redis: invalidation must be
// visible to every process immediately, and a per-process front would
// keep serving the deleted snapshot until its own TTL lapsed.
type RedisTaskCache struct {
	rdb    *redis.Client
	data   *cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// Ensure RedisTaskCache implements store.TaskCache interface
var _ store.TaskCache = (*RedisTaskCache)(nil)

// NewRedisTaskCache connects to Redis using the connection options in
// redisURL and verifies the connection with a ping. The connection is
// acquired once at startup and released via Close at shutdown.
// ttl is the lifetime of the task-list snapshot entry.
func NewRedisTaskCache(
	ctx context.Context,
	redisURL string,
	ttl time.Duration,
	log *slog.Logger,
) (*RedisTaskCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("could not configure redis task cache: %w", err)
	}

	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to redis task cache: %w", err)
	}

	if log == nil {
		log = slog.Default()
	}

	data := cache.New(&cache.Options{
		Redis: rdb,
	})

	return &RedisTaskCache{
		rdb:    rdb,
		data:   data,
		ttl:    ttl,
		logger: log.With(slog.String("component", "task_cache")),
	}, nil
}

// GetTaskList implements store.TaskCache.GetTaskList.
// Returns store.ErrCacheMiss when the entry is absent or expired.
func (c *RedisTaskCache) GetTaskList(ctx context.Context) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	var tasks []domain.Task
	err := c.data.Get(ctx, taskListKey, &tasks)
	if errors.Is(err, cache.ErrCacheMiss) {
		log.Debug("task list cache miss")
		return nil, store.ErrCacheMiss
	}
	if err != nil {
		log.Warn("task list cache read failed",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to read task list from cache: %w", err)
	}

	log.Debug("task list cache hit", slog.Int("count", len(tasks)))
	return tasks, nil
}

// SetTaskList implements store.TaskCache.SetTaskList.
// The whole snapshot is written in one entry; readers either see all of
// it or miss.
func (c *RedisTaskCache) SetTaskList(ctx context.Context, tasks []domain.Task) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	err := c.data.Set(&cache.Item{
		Ctx:   ctx,
		Key:   taskListKey,
		Value: tasks,
		TTL:   c.ttl,
	})
	if err != nil {
		log.Warn("task list cache write failed",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to write task list to cache: %w", err)
	}

	log.Debug("task list cached",
		slog.Int("count", len(tasks)),
		slog.Duration("ttl", c.ttl))
	return nil
}

// InvalidateTaskList implements store.TaskCache.InvalidateTaskList.
// Deleting an entry that is already absent is treated as success.
func (c *RedisTaskCache) InvalidateTaskList(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	err := c.data.Delete(ctx, taskListKey)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	if err != nil {
		log.Warn("task list cache invalidation failed",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to invalidate task list cache: %w", err)
	}

	log.Debug("task list cache invalidated")
	return nil
}

// Close releases the underlying Redis connection.
func (c *RedisTaskCache) Close() error {
	return c.rdb.Close()
}
