package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/twofa/internal/codestore"
	"github.com/xxxsen/twofa/internal/config"
	"github.com/xxxsen/twofa/internal/handler"
	"github.com/xxxsen/twofa/internal/job"
	"github.com/xxxsen/twofa/internal/mailer"
	"github.com/xxxsen/twofa/internal/middleware"
	"github.com/xxxsen/twofa/internal/otp"
	"github.com/xxxsen/twofa/internal/schedule"
	"github.com/xxxsen/twofa/internal/service"
)

func main() {
	var configPath string
	var email string

	rootCmd := &cobra.Command{
		Use:   "twofa",
		Short: "email two-factor code service",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run twofa server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}

	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "send one verification code and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			otpService, store, err := buildService(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			code, err := otpService.IssueCode(cmd.Context(), email)
			if err != nil {
				return err
			}
			if cfg.OTP.ShouldEchoCode() {
				fmt.Fprintf(cmd.OutOrStdout(), "code sent to %s: %s\n", email, otp.Format(code))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "code sent to %s\n", email)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")
	sendCmd.Flags().StringVar(&email, "email", "", "destination address")
	rootCmd.AddCommand(runCmd, sendCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
	return cfg, nil
}

func buildService(cfg *config.Config) (*service.OTPService, codestore.Store, error) {
	store, err := codestore.New(cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("init code store: %w", err)
	}
	sender, err := mailer.NewSMTPSender(cfg.Mail)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("init mail sender: %w", err)
	}
	codeTTL := time.Duration(cfg.OTP.TTLSeconds) * time.Second
	composer, err := mailer.NewComposer(cfg.OTP.BrandName, cfg.OTP.BodyTemplate, codeTTL)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("init mail composer: %w", err)
	}
	otpService := service.NewOTPService(store, sender, composer, otp.NewGenerator(), service.OTPServiceConfig{
		CodeTTL:   codeTTL,
		Cooldown:  time.Duration(cfg.OTP.CooldownSeconds) * time.Second,
		JWTSecret: []byte(cfg.JWTSecret),
		JWTTTL:    time.Duration(cfg.JWTTTLMinutes) * time.Minute,
	})
	return otpService, store, nil
}

func runServer(cfg *config.Config) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("store", cfg.Store.Type),
		zap.String("mail_host", cfg.Mail.Host),
		zap.Bool("echo_code", cfg.OTP.ShouldEchoCode()),
	)

	otpService, store, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	scheduler := schedule.NewCronScheduler()
	cleanup := job.NewOTPCleanupJob(otpService, time.Duration(cfg.Jobs.RetentionHours)*time.Hour)
	if err := scheduler.AddJob(cleanup, cfg.Jobs.CleanupSpec); err != nil {
		return fmt.Errorf("schedule cleanup: %w", err)
	}

	deps := handler.RouterDeps{
		TwoFA: handler.NewTwoFAHandler(otpService, cfg.OTP.ShouldEchoCode()),
		Properties: handler.NewPropertiesHandler(handler.Properties{
			CodeTTLSeconds:  cfg.OTP.TTLSeconds,
			CooldownSeconds: max(cfg.OTP.CooldownSeconds, 0),
			EchoCode:        cfg.OTP.ShouldEchoCode(),
		}),
		RateLimitWindow: time.Duration(cfg.RateLimitSeconds) * time.Second,
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		"/",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", addr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
