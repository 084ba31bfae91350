package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Token      TokenConfig      `yaml:"token"`
	BcryptCost int              `yaml:"bcrypt_cost"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Redis      RedisConfig      `yaml:"redis"`
	SuperAdmin SuperAdminConfig `yaml:"super_admin"`
	Auth       AuthConfig       `yaml:"auth"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      string `yaml:"port"`
	Mode      string `yaml:"mode"` // debug, release, test
	BasePath  string `yaml:"base_path"`
	ClientURL string `yaml:"client_url"`
	// UniformErrorStatus answers every failure with HTTP 400.
	UniformErrorStatus bool `yaml:"uniform_error_status"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
	Debug  bool   `yaml:"debug"`
}

// TokenClass is the signing secret and lifetime of one kind of token.
type TokenClass struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

type TokenConfig struct {
	Access  TokenClass `yaml:"access"`
	Refresh TokenClass `yaml:"refresh"`
	Reset   TokenClass `yaml:"reset"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	UseTLS   bool   `yaml:"use_tls"`
}

// RedisConfig backs the mail queue and the shared token blacklist.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SuperAdminConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type AuthConfig struct {
	// OpenAdminRegistration lets anyone call the admin registration route.
	OpenAdminRegistration bool `yaml:"open_admin_registration"`
	// HideUnknownEmail makes forget-password succeed silently for unknown emails.
	HideUnknownEmail bool `yaml:"hide_unknown_email"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

var GlobalConfig *Config

// Load reads .env (if any), then the yaml file (if any), then the environment.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.overrideFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      "5000",
			Mode:      "debug",
			BasePath:  "/smd/api/v1",
			ClientURL: "http://localhost:3000",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "smd.db",
		},
		Token: TokenConfig{
			Access:  TokenClass{Secret: "smd-access-secret-change-in-production", TTL: 24 * time.Hour},
			Refresh: TokenClass{Secret: "smd-refresh-secret-change-in-production", TTL: 30 * 24 * time.Hour},
			Reset:   TokenClass{Secret: "smd-reset-secret-change-in-production", TTL: 10 * time.Minute},
		},
		BcryptCost: 12,
		SMTP: SMTPConfig{
			Port: 587,
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			DB:      0,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate rejects configurations that would make token handling unsafe.
func (c *Config) Validate() error {
	classes := map[string]TokenClass{
		"access":  c.Token.Access,
		"refresh": c.Token.Refresh,
		"reset":   c.Token.Reset,
	}
	for name, tc := range classes {
		if tc.Secret == "" {
			return fmt.Errorf("token.%s.secret must not be empty", name)
		}
		if tc.TTL <= 0 {
			return fmt.Errorf("token.%s.ttl must be positive", name)
		}
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost %d out of range", c.BcryptCost)
	}
	return nil
}

func (c *Config) overrideFromEnv() error {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if url := firstEnv("CLIENT_URL", "CLINT_URL"); url != "" {
		c.Server.ClientURL = url
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if rounds := os.Getenv("BCRYPT_SALT_ROUNDS"); rounds != "" {
		n, err := strconv.Atoi(rounds)
		if err != nil {
			return fmt.Errorf("BCRYPT_SALT_ROUNDS: %w", err)
		}
		c.BcryptCost = n
	}

	if err := overrideTokenClass(&c.Token.Access, "ACCESS_TOKEN"); err != nil {
		return err
	}
	if err := overrideTokenClass(&c.Token.Refresh, "REFRESH_TOKEN"); err != nil {
		return err
	}
	if err := overrideTokenClass(&c.Token.Reset, "FORGOT_TOKEN"); err != nil {
		return err
	}

	if host := os.Getenv("SMTP_HOST"); host != "" {
		c.SMTP.Host = host
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("SMTP_PORT: %w", err)
		}
		c.SMTP.Port = n
	}
	if user := os.Getenv("SMTP_USER"); user != "" {
		c.SMTP.Username = user
	}
	if pass := os.Getenv("SMTP_PASS"); pass != "" {
		c.SMTP.Password = pass
	}
	if email := os.Getenv("SUPER_ADMIN_EMAIL"); email != "" {
		c.SuperAdmin.Email = email
	}
	if pass := os.Getenv("SUPER_ADMIN_PASS"); pass != "" {
		c.SuperAdmin.Password = pass
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	// Redis URL override (format: redis://:password@host:port/db)
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.Enabled = true
		c.parseRedisURL(redisURL)
	}
	return nil
}

// overrideTokenClass reads <PREFIX>_SECRET and <PREFIX>_EXPIRES_TIME.
func overrideTokenClass(tc *TokenClass, prefix string) error {
	if secret := os.Getenv(prefix + "_SECRET"); secret != "" {
		tc.Secret = secret
	}
	if ttl := os.Getenv(prefix + "_EXPIRES_TIME"); ttl != "" {
		d, err := ParseTTL(ttl)
		if err != nil {
			return fmt.Errorf("%s_EXPIRES_TIME: %w", prefix, err)
		}
		tc.TTL = d
	}
	return nil
}

// ParseTTL accepts Go durations ("15m", "2h") plus a day suffix ("30d").
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid ttl %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// parseRedisURL parses a Redis URL and sets config values
// Format: redis://:password@host:port/db
func (c *Config) parseRedisURL(redisURL string) {
	url := strings.TrimPrefix(redisURL, "redis://")

	if atIdx := strings.Index(url, "@"); atIdx != -1 {
		authPart := url[:atIdx]
		url = url[atIdx+1:]
		if colonIdx := strings.Index(authPart, ":"); colonIdx != -1 {
			c.Redis.Password = authPart[colonIdx+1:]
		}
	}

	if slashIdx := strings.LastIndex(url, "/"); slashIdx != -1 {
		dbStr := url[slashIdx+1:]
		url = url[:slashIdx]
		if db, err := strconv.Atoi(dbStr); err == nil {
			c.Redis.DB = db
		}
	}

	c.Redis.Addr = url
}
