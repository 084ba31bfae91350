package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseTTL(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"15m", 15 * time.Minute, false},
		{"2h", 2 * time.Hour, false},
		{"30d", 30 * 24 * time.Hour, false},
		{" 1d ", 24 * time.Hour, false},
		{"xd", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTTL(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTTL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTTL(%q) = %v, expected %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRedisURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.parseRedisURL("redis://:s3cret@cache.internal:6380/2")

	if cfg.Redis.Addr != "cache.internal:6380" {
		t.Errorf("Addr = %q, expected %q", cfg.Redis.Addr, "cache.internal:6380")
	}
	if cfg.Redis.Password != "s3cret" {
		t.Errorf("Password = %q, expected %q", cfg.Redis.Password, "s3cret")
	}
	if cfg.Redis.DB != 2 {
		t.Errorf("DB = %d, expected 2", cfg.Redis.DB)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	cfg.Token.Reset.Secret = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty reset secret should be rejected")
	}

	cfg = DefaultConfig()
	cfg.Token.Access.TTL = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero access ttl should be rejected")
	}

	cfg = DefaultConfig()
	cfg.BcryptCost = 2
	if err := cfg.Validate(); err == nil {
		t.Error("bcrypt cost below minimum should be rejected")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := `
server:
  port: "7000"
  uniform_error_status: true
token:
  access:
    secret: file-access
    ttl: 1h
  refresh:
    secret: file-refresh
    ttl: 48h
  reset:
    secret: file-reset
    ttl: 5m
bcrypt_cost: 10
`
	if err := os.WriteFile(path, []byte(yamlBody), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ACCESS_TOKEN_SECRET", "env-access")
	t.Setenv("REFRESH_TOKEN_EXPIRES_TIME", "7d")
	t.Setenv("CLINT_URL", "https://app.example.com")
	t.Setenv("BCRYPT_SALT_ROUNDS", "8")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "7000" {
		t.Errorf("Port = %q, expected %q", cfg.Server.Port, "7000")
	}
	if !cfg.Server.UniformErrorStatus {
		t.Error("UniformErrorStatus should be read from file")
	}
	if cfg.Server.BasePath != "/smd/api/v1" {
		t.Errorf("BasePath default lost: %q", cfg.Server.BasePath)
	}
	if cfg.Token.Access.Secret != "env-access" {
		t.Errorf("access secret = %q, expected env override", cfg.Token.Access.Secret)
	}
	if cfg.Token.Access.TTL != time.Hour {
		t.Errorf("access ttl = %v, expected 1h", cfg.Token.Access.TTL)
	}
	if cfg.Token.Refresh.TTL != 7*24*time.Hour {
		t.Errorf("refresh ttl = %v, expected 168h", cfg.Token.Refresh.TTL)
	}
	if cfg.Server.ClientURL != "https://app.example.com" {
		t.Errorf("ClientURL = %q", cfg.Server.ClientURL)
	}
	if cfg.BcryptCost != 8 {
		t.Errorf("BcryptCost = %d, expected 8", cfg.BcryptCost)
	}
	if GlobalConfig != cfg {
		t.Error("GlobalConfig should point at the loaded config")
	}
}

func TestLoad_RejectsMalformedEnv(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"ACCESS_TOKEN_EXPIRES_TIME", "1y"},
		{"REFRESH_TOKEN_EXPIRES_TIME", "xd"},
		{"FORGOT_TOKEN_EXPIRES_TIME", "soon"},
		{"BCRYPT_SALT_ROUNDS", "twelve"},
		{"SMTP_PORT", "smtp"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			if err == nil {
				t.Fatalf("Load() = %+v, expected an error for %s=%q", cfg, tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q should name %s", err, tt.key)
			}
		})
	}
}
