package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeCleaner struct {
	retention time.Duration
	removed   int64
	err       error
}

func (f *fakeCleaner) CleanupExpired(ctx context.Context, retention time.Duration) (int64, error) {
	f.retention = retention
	return f.removed, f.err
}

func TestOTPCleanupJob_DefaultRetention(t *testing.T) {
	cleaner := &fakeCleaner{removed: 3}
	j := NewOTPCleanupJob(cleaner, 0)
	require.Equal(t, "otp_cleanup", j.Name())
	require.NoError(t, j.Run(context.Background()))
	require.Equal(t, 24*time.Hour, cleaner.retention)
}

func TestOTPCleanupJob_PropagatesError(t *testing.T) {
	cleaner := &fakeCleaner{err: errors.New("db down")}
	j := NewOTPCleanupJob(cleaner, time.Hour)
	require.Error(t, j.Run(context.Background()))
	require.Equal(t, time.Hour, cleaner.retention)
}

func TestOTPCleanupJob_NilCleaner(t *testing.T) {
	require.NoError(t, NewOTPCleanupJob(nil, time.Hour).Run(context.Background()))
}
