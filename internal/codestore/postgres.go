package codestore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xxxsen/twofa/internal/config"
	"github.com/xxxsen/twofa/internal/db"
	"github.com/xxxsen/twofa/internal/model"
	"github.com/xxxsen/twofa/internal/repo"
)

type postgresStore struct {
	conn *sql.DB
	repo *repo.OTPCodeRepo
}

func init() {
	Register("postgres", createPostgresStore)
}

func createPostgresStore(args interface{}) (Store, error) {
	cfg := config.DatabaseConfig{}
	if err := decodeConfig(args, &cfg); err != nil {
		return nil, err
	}
	if cfg.DSN == "" && cfg.Host == "" {
		return nil, fmt.Errorf("postgres store needs dsn or host")
	}
	conn, err := db.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return NewPostgresStore(conn), nil
}

func NewPostgresStore(conn *sql.DB) Store {
	return &postgresStore{conn: conn, repo: repo.NewOTPCodeRepo(conn)}
}

func (s *postgresStore) Save(ctx context.Context, code *model.OTPCode) error {
	return s.repo.Create(ctx, code)
}

func (s *postgresStore) Latest(ctx context.Context, email, purpose string) (*model.OTPCode, error) {
	return s.repo.LatestByEmail(ctx, email, purpose)
}

func (s *postgresStore) MarkUsed(ctx context.Context, id string) error {
	return s.repo.MarkUsed(ctx, id)
}

func (s *postgresStore) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	return s.repo.DeleteBefore(ctx, cutoff)
}

func (s *postgresStore) Close() error {
	return s.conn.Close()
}
