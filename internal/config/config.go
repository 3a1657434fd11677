package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xxxsen/common/logger"
)

const (
	defaultPort             = 4000
	defaultJWTTTLMinutes    = 15
	defaultCodeTTLSeconds   = 300
	defaultCooldownSeconds  = 60
	defaultMailTimeout      = 30
	defaultBrandName        = "StegaShield"
	defaultCleanupSpec      = "*/10 * * * *"
	defaultRetentionHours   = 24
	defaultRateLimitSeconds = 0
)

// Environment variables that override secrets from the config file.
const (
	EnvMailUsername = "TWOFA_MAIL_USERNAME"
	EnvMailPassword = "TWOFA_MAIL_PASSWORD"
	EnvJWTSecret    = "TWOFA_JWT_SECRET"
	EnvRedisPass    = "TWOFA_REDIS_PASSWORD"
	EnvDatabaseDSN  = "TWOFA_DATABASE_DSN"
)

type Config struct {
	Port             int              `json:"port"`
	JWTSecret        string           `json:"jwt_secret"`
	JWTTTLMinutes    int              `json:"jwt_ttl_minutes"`
	CORSOrigins      []string         `json:"cors_origins"`
	RateLimitSeconds int              `json:"rate_limit_seconds"`
	LogConfig        logger.LogConfig `json:"log_config"`
	Mail             MailConfig       `json:"mail"`
	OTP              OTPConfig        `json:"otp"`
	Store            StoreConfig      `json:"store"`
	Jobs             JobsConfig       `json:"jobs"`
}

type MailConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	From           string `json:"from"`
	FromName       string `json:"from_name"`
	UseSSL         bool   `json:"use_ssl"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type OTPConfig struct {
	TTLSeconds int `json:"ttl_seconds"`
	// CooldownSeconds of 0 means the default; a negative value disables it.
	CooldownSeconds int    `json:"cooldown_seconds"`
	EchoCode        *bool  `json:"echo_code"`
	BrandName       string `json:"brand_name"`
	// BodyTemplate is markdown with {{.Brand}}, {{.Code}} and {{.Minutes}}.
	BodyTemplate string `json:"body_template"`
}

func (c OTPConfig) ShouldEchoCode() bool {
	if c.EchoCode == nil {
		return true
	}
	return *c.EchoCode
}

type StoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type JobsConfig struct {
	CleanupSpec    string `json:"cleanup_spec"`
	RetentionHours int    `json:"retention_hours"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyEnv(&cfg)
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvMailUsername); v != "" {
		cfg.Mail.Username = v
	}
	if v := os.Getenv(EnvMailPassword); v != "" {
		cfg.Mail.Password = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	data, _ := cfg.Store.Data.(map[string]interface{})
	if v := os.Getenv(EnvRedisPass); v != "" && strings.EqualFold(cfg.Store.Type, "redis") {
		if data == nil {
			data = map[string]interface{}{}
		}
		data["password"] = v
		cfg.Store.Data = data
	}
	if v := os.Getenv(EnvDatabaseDSN); v != "" && strings.EqualFold(cfg.Store.Type, "postgres") {
		if data == nil {
			data = map[string]interface{}{}
		}
		data["dsn"] = v
		cfg.Store.Data = data
	}
}

func normalize(cfg *Config) error {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if cfg.JWTTTLMinutes <= 0 {
		cfg.JWTTTLMinutes = defaultJWTTTLMinutes
	}
	if cfg.RateLimitSeconds < 0 {
		cfg.RateLimitSeconds = defaultRateLimitSeconds
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Mail.Host == "" || cfg.Mail.Port == 0 {
		return fmt.Errorf("mail.host and mail.port are required")
	}
	if strings.TrimSpace(cfg.Mail.From) == "" {
		return fmt.Errorf("mail.from is required")
	}
	if cfg.Mail.Username != "" && cfg.Mail.Password == "" {
		return fmt.Errorf("mail.password is required when mail.username is set (env %s)", EnvMailPassword)
	}
	if cfg.Mail.TimeoutSeconds <= 0 {
		cfg.Mail.TimeoutSeconds = defaultMailTimeout
	}
	if cfg.OTP.TTLSeconds <= 0 {
		cfg.OTP.TTLSeconds = defaultCodeTTLSeconds
	}
	if cfg.OTP.CooldownSeconds == 0 {
		cfg.OTP.CooldownSeconds = defaultCooldownSeconds
	}
	if cfg.OTP.BrandName == "" {
		cfg.OTP.BrandName = defaultBrandName
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "memory"
	}
	switch strings.ToLower(cfg.Store.Type) {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("store.type must be memory, redis or postgres")
	}
	if cfg.Jobs.CleanupSpec == "" {
		cfg.Jobs.CleanupSpec = defaultCleanupSpec
	}
	if cfg.Jobs.RetentionHours <= 0 {
		cfg.Jobs.RetentionHours = defaultRetentionHours
	}
	return nil
}
