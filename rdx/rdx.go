// Package rdx caches upstream responses for the advisory proxy.
package rdx

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"agroverse/logx"
)

// Cache stores string values with a TTL. A miss is ok == false, not an error.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type Redis struct {
	Conn   *redis.Client
	Prefix string
}

// Dial connects to url (redis://...) and pings it.
func Dial(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.DialTimeout = 5 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &Redis{Conn: client, Prefix: "agroverse:"}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.Conn.Get(ctx, r.Prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.Conn.Set(ctx, r.Prefix+key, value, ttl).Err()
}

func (r *Redis) Close() error {
	return r.Conn.Close()
}

// Memory is an in-process cache used when no Redis URL is configured.
type Memory struct {
	mu    sync.Mutex
	items map[string]memItem
	now   func() time.Time
}

type memItem struct {
	value   string
	expires time.Time
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]memItem), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[key]
	if !ok {
		return "", false, nil
	}
	if !it.expires.IsZero() && !m.now().Before(it.expires) {
		delete(m.items, key)
		return "", false, nil
	}
	return it.value, true, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := memItem{value: value}
	if ttl > 0 {
		it.expires = m.now().Add(ttl)
	}
	m.items[key] = it
	return nil
}

// Sweep drops every expired entry and returns how many went.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	dropped := 0
	for key, it := range m.items {
		if !it.expires.IsZero() && !now.Before(it.expires) {
			delete(m.items, key)
			dropped++
		}
	}
	return dropped
}

// Run sweeps every interval until stop is closed.
func (m *Memory) Run(interval time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			if n := m.Sweep(); n > 0 {
				logx.Debug().Int("dropped", n).Msg("memory cache sweep")
			}
		case <-stop:
			return
		}
	}
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (string, bool, error)        { return "", false, nil }
func (Nop) Set(context.Context, string, string, time.Duration) error { return nil }
