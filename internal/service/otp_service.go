package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/twofa/internal/codestore"
	"github.com/xxxsen/twofa/internal/mailer"
	"github.com/xxxsen/twofa/internal/model"
	"github.com/xxxsen/twofa/internal/otp"
	"github.com/xxxsen/twofa/internal/pkg/codehash"
	appErr "github.com/xxxsen/twofa/internal/pkg/errors"
	"github.com/xxxsen/twofa/internal/pkg/jwt"
)

const PurposeTwoFactor = "2fa"

type OTPServiceConfig struct {
	CodeTTL   time.Duration
	Cooldown  time.Duration
	JWTSecret []byte
	JWTTTL    time.Duration
}

type OTPService struct {
	store     codestore.Store
	sender    mailer.Sender
	composer  *mailer.Composer
	generator otp.Generator
	cfg       OTPServiceConfig
	now       func() time.Time
}

func NewOTPService(store codestore.Store, sender mailer.Sender, composer *mailer.Composer, generator otp.Generator, cfg OTPServiceConfig) *OTPService {
	if generator == nil {
		generator = otp.NewGenerator()
	}
	return &OTPService{
		store:     store,
		sender:    sender,
		composer:  composer,
		generator: generator,
		cfg:       cfg,
		now:       time.Now,
	}
}

// IssueCode mails a fresh code to email and returns it. Delivery problems
// come back wrapped in ErrDelivery.
func (s *OTPService) IssueCode(ctx context.Context, email string) (int, error) {
	email = normalizeEmail(email)
	if email == "" {
		return 0, appErr.ErrInvalid
	}
	logger := logutil.GetLogger(ctx).With(zap.String("email", email))
	if err := s.ensureCooldown(ctx, email, PurposeTwoFactor); err != nil {
		return 0, err
	}
	code, err := s.generator.Generate()
	if err != nil {
		return 0, err
	}
	msg, err := s.composer.CodeMessage(email, code)
	if err != nil {
		return 0, err
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return 0, fmt.Errorf("%w: %v", appErr.ErrDelivery, err)
	}
	hash, err := codehash.Hash(otp.Format(code))
	if err != nil {
		return 0, err
	}
	now := s.now().Unix()
	item := &model.OTPCode{
		ID:        newID(),
		Email:     email,
		Purpose:   PurposeTwoFactor,
		CodeHash:  hash,
		Used:      0,
		Ctime:     now,
		ExpiresAt: now + int64(s.cfg.CodeTTL/time.Second),
	}
	if err := s.store.Save(ctx, item); err != nil {
		return 0, fmt.Errorf("save code: %w", err)
	}
	logger.Info("verification code sent", zap.String("code_id", item.ID), zap.Int64("expires_at", item.ExpiresAt))
	return code, nil
}

// VerifyCode consumes the newest code for email and returns a signed token
// proving the check passed.
func (s *OTPService) VerifyCode(ctx context.Context, email, code string) (string, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return "", appErr.ErrInvalid
	}
	if !isSixDigits(code) {
		return "", appErr.ErrInvalid
	}
	item, err := s.store.Latest(ctx, email, PurposeTwoFactor)
	if err != nil {
		if appErr.IsNotFound(err) {
			return "", appErr.ErrInvalid
		}
		return "", err
	}
	if item.Used != 0 {
		return "", appErr.ErrInvalid
	}
	if item.Expired(s.now().Unix()) {
		return "", appErr.ErrExpired
	}
	if err := codehash.Compare(item.CodeHash, code); err != nil {
		return "", appErr.ErrInvalid
	}
	if err := s.store.MarkUsed(ctx, item.ID); err != nil {
		if appErr.IsNotFound(err) {
			return "", appErr.ErrInvalid
		}
		return "", err
	}
	token, err := jwt.GenerateToken(email, PurposeTwoFactor, s.cfg.JWTSecret, s.cfg.JWTTTL)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	logutil.GetLogger(ctx).Info("verification code accepted", zap.String("email", email), zap.String("code_id", item.ID))
	return token, nil
}

// CleanupExpired drops codes that expired more than retention ago.
func (s *OTPService) CleanupExpired(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention).Unix()
	return s.store.DeleteBefore(ctx, cutoff)
}

func (s *OTPService) ensureCooldown(ctx context.Context, email, purpose string) error {
	if s.cfg.Cooldown <= 0 {
		return nil
	}
	item, err := s.store.Latest(ctx, email, purpose)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil
		}
		return err
	}
	if time.Unix(item.Ctime, 0).Add(s.cfg.Cooldown).After(s.now()) {
		return appErr.ErrTooMany
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
