package storage

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeRegistry hands out game codes so that no two live rooms share one.
type CodeRegistry interface {
	// Reserve claims code; false means it is already taken.
	Reserve(ctx context.Context, code string) (bool, error)
	Release(ctx context.Context, code string) error
}

func codeKey(code string) string {
	return "cb:game:" + code
}

type redisCodes struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCodes keeps reservations in Redis so several servers can share one
// code space. A reservation lapses after ttl if the room never releases it.
func NewRedisCodes(rdb *redis.Client, ttl time.Duration) CodeRegistry {
	return &redisCodes{rdb: rdb, ttl: ttl}
}

func (r *redisCodes) Reserve(ctx context.Context, code string) (bool, error) {
	return r.rdb.SetNX(ctx, codeKey(code), time.Now().Unix(), r.ttl).Result()
}

func (r *redisCodes) Release(ctx context.Context, code string) error {
	return r.rdb.Del(ctx, codeKey(code)).Err()
}

type memCodes struct {
	mu    sync.Mutex
	codes map[string]struct{}
}

// NewMemoryCodes is the single-process registry.
func NewMemoryCodes() CodeRegistry {
	return &memCodes{codes: make(map[string]struct{})}
}

func (m *memCodes) Reserve(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.codes[code]; ok {
		return false, nil
	}
	m.codes[code] = struct{}{}
	return true, nil
}

func (m *memCodes) Release(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, code)
	return nil
}
