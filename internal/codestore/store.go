// Package codestore keeps issued one-time codes between issuance and
// verification.
package codestore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xxxsen/twofa/internal/config"
	"github.com/xxxsen/twofa/internal/model"
)

type Store interface {
	Save(ctx context.Context, code *model.OTPCode) error
	// Latest returns the newest code for email and purpose, or
	// errors.ErrNotFound.
	Latest(ctx context.Context, email, purpose string) (*model.OTPCode, error)
	MarkUsed(ctx context.Context, id string) error
	// DeleteBefore drops codes that expired before cutoff (unix seconds).
	DeleteBefore(ctx context.Context, cutoff int64) (int64, error)
	Close() error
}

type Factory func(args interface{}) (Store, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(cfg config.StoreConfig) (Store, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("store.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported code store type: %s", cfg.Type)
	}
	return factory(cfg.Data)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode store config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode store config: %w", err)
	}
	return nil
}

func recordKey(email, purpose string) string {
	return purpose + "|" + email
}
