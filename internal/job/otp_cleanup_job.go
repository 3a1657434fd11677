package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type expiredCodeCleaner interface {
	CleanupExpired(ctx context.Context, retention time.Duration) (int64, error)
}

// OTPCleanupJob removes codes that expired more than retention ago.
type OTPCleanupJob struct {
	cleaner   expiredCodeCleaner
	retention time.Duration
}

func NewOTPCleanupJob(cleaner expiredCodeCleaner, retention time.Duration) *OTPCleanupJob {
	return &OTPCleanupJob{cleaner: cleaner, retention: retention}
}

func (j *OTPCleanupJob) Name() string {
	return "otp_cleanup"
}

func (j *OTPCleanupJob) Run(ctx context.Context) error {
	if j.cleaner == nil {
		return nil
	}
	retention := j.retention
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	removed, err := j.cleaner.CleanupExpired(ctx, retention)
	if err != nil {
		return err
	}
	if removed > 0 {
		logutil.GetLogger(ctx).Info("expired codes removed", zap.Int64("count", removed))
	}
	return nil
}
