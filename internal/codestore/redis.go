package codestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xxxsen/twofa/internal/model"
	appErr "github.com/xxxsen/twofa/internal/pkg/errors"
)

const (
	defaultRedisPrefix = "twofa"
	// expired codes linger this long so verification can report expiry
	// instead of a missing code.
	redisExpiryGrace = time.Minute
)

type redisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Prefix   string `json:"prefix"`
}

type redisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func init() {
	Register("redis", createRedisStore)
}

func createRedisStore(args interface{}) (Store, error) {
	cfg := &redisConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis store addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client, cfg.Prefix), nil
}

func NewRedisStore(client redis.UniversalClient, prefix string) Store {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &redisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *redisStore) codeKey(email, purpose string) string {
	return s.prefix + ":code:" + recordKey(email, purpose)
}

func (s *redisStore) idKey(id string) string {
	return s.prefix + ":id:" + id
}

func (s *redisStore) Save(ctx context.Context, code *model.OTPCode) error {
	data, err := json.Marshal(code)
	if err != nil {
		return err
	}
	ttl := time.Unix(code.ExpiresAt, 0).Sub(s.now()) + redisExpiryGrace
	if ttl < time.Second {
		ttl = time.Second
	}
	key := s.codeKey(code.Email, code.Purpose)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, ttl)
		pipe.Set(ctx, s.idKey(code.ID), key, ttl)
		return nil
	})
	return err
}

func (s *redisStore) Latest(ctx context.Context, email, purpose string) (*model.OTPCode, error) {
	raw, err := s.client.Get(ctx, s.codeKey(email, purpose)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	var code model.OTPCode
	if err := json.Unmarshal(raw, &code); err != nil {
		return nil, fmt.Errorf("decode code: %w", err)
	}
	return &code, nil
}

func (s *redisStore) MarkUsed(ctx context.Context, id string) error {
	key, err := s.client.Get(ctx, s.idKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return appErr.ErrNotFound
		}
		return err
	}
	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return appErr.ErrNotFound
			}
			return err
		}
		var code model.OTPCode
		if err := json.Unmarshal(raw, &code); err != nil {
			return fmt.Errorf("decode code: %w", err)
		}
		if code.ID != id || code.Used != 0 {
			return appErr.ErrNotFound
		}
		code.Used = 1
		data, err := json.Marshal(&code)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, redis.KeepTTL)
			return nil
		})
		return err
	}, key)
}

// DeleteBefore is a no-op: redis expires keys itself.
func (s *redisStore) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	return 0, nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
