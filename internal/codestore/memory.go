package codestore

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/xxxsen/twofa/internal/model"
	appErr "github.com/xxxsen/twofa/internal/pkg/errors"
)

const (
	defaultMemorySize = 10000
	defaultMemoryTTL  = time.Hour
)

type memoryConfig struct {
	Size       int `json:"size"`
	TTLSeconds int `json:"ttl_seconds"`
}

// memoryStore keeps the latest code per address in an expiring LRU.
type memoryStore struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, model.OTPCode]
	ids   *expirable.LRU[string, string]
}

func init() {
	Register("memory", createMemoryStore)
}

func createMemoryStore(args interface{}) (Store, error) {
	cfg := &memoryConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	return NewMemoryStore(cfg.Size, time.Duration(cfg.TTLSeconds)*time.Second), nil
}

func NewMemoryStore(size int, ttl time.Duration) Store {
	if size <= 0 {
		size = defaultMemorySize
	}
	if ttl <= 0 {
		ttl = defaultMemoryTTL
	}
	return &memoryStore{
		cache: expirable.NewLRU[string, model.OTPCode](size, nil, ttl),
		ids:   expirable.NewLRU[string, string](size, nil, ttl),
	}
}

func (s *memoryStore) Save(ctx context.Context, code *model.OTPCode) error {
	_ = ctx
	key := recordKey(code.Email, code.Purpose)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(key, *code)
	s.ids.Add(code.ID, key)
	return nil
}

func (s *memoryStore) Latest(ctx context.Context, email, purpose string) (*model.OTPCode, error) {
	_ = ctx
	item, ok := s.cache.Get(recordKey(email, purpose))
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &item, nil
}

func (s *memoryStore) MarkUsed(ctx context.Context, id string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.ids.Get(id)
	if !ok {
		return appErr.ErrNotFound
	}
	item, ok := s.cache.Get(key)
	if !ok || item.ID != id || item.Used != 0 {
		return appErr.ErrNotFound
	}
	item.Used = 1
	s.cache.Add(key, item)
	return nil
}

func (s *memoryStore) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for _, key := range s.cache.Keys() {
		item, ok := s.cache.Peek(key)
		if !ok || item.ExpiresAt >= cutoff {
			continue
		}
		s.cache.Remove(key)
		s.ids.Remove(item.ID)
		removed++
	}
	return removed, nil
}

func (s *memoryStore) Close() error {
	s.cache.Purge()
	s.ids.Purge()
	return nil
}
