// Package stats keeps the global count of analyzed transcripts.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Counter is the usage counter behind GET /api/stats.
type Counter interface {
	Get(ctx context.Context) (int64, error)
	Increment(ctx context.Context) (int64, error)
}

// Snapshot is the persisted and served form of the counter.
type Snapshot struct {
	TotalVibesChecked int64 `json:"total_vibes_checked"`
}

// FileCounter stores the counter as a JSON document on disk.
type FileCounter struct {
	mu   sync.Mutex
	path string
}

// NewFileCounter returns a counter persisted at path. The file is created on
// first increment.
func NewFileCounter(path string) *FileCounter {
	return &FileCounter{path: path}
}

func (c *FileCounter) Get(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.load()
	if err != nil {
		return 0, err
	}
	return snap.TotalVibesChecked, nil
}

func (c *FileCounter) Increment(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.load()
	if err != nil {
		return 0, err
	}
	snap.TotalVibesChecked++
	if err := c.save(snap); err != nil {
		return 0, err
	}
	return snap.TotalVibesChecked, nil
}

func (c *FileCounter) load() (Snapshot, error) {
	var snap Snapshot
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return snap, nil
	}
	if err != nil {
		return snap, fmt.Errorf("read stats file: %w", err)
	}
	if len(data) == 0 {
		return snap, nil
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("decode stats file: %w", err)
	}
	return snap, nil
}

// save writes through a temp file so a crash never leaves a truncated document.
func (c *FileCounter) save(snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create stats dir: %w", err)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write stats file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace stats file: %w", err)
	}
	return nil
}

// RedisCounter stores the counter under a single Redis key.
type RedisCounter struct {
	client *redis.Client
	key    string
}

// NewRedisCounter wraps an existing client.
func NewRedisCounter(client *redis.Client, key string) *RedisCounter {
	return &RedisCounter{client: client, key: key}
}

// DialRedisCounter parses a redis:// URL and checks the server is reachable.
func DialRedisCounter(ctx context.Context, url, key string) (*RedisCounter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisCounter(client, key), nil
}

func (c *RedisCounter) Get(ctx context.Context) (int64, error) {
	val, err := c.client.Get(ctx, c.key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", c.key, err)
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", c.key, err)
	}
	return n, nil
}

func (c *RedisCounter) Increment(ctx context.Context) (int64, error) {
	n, err := c.client.Incr(ctx, c.key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", c.key, err)
	}
	return n, nil
}

// Close releases the underlying client.
func (c *RedisCounter) Close() error {
	return c.client.Close()
}
