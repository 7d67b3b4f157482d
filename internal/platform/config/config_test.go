package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Addr:               ":8080",
		DatabaseURL:        "postgres://localhost/hradmin",
		JWTSecret:          "secret",
		Environment:        "development",
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 60,
		DispatchTimeout:    10 * time.Second,
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestValidateProductionRequiresSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "production"
	cfg.JWTSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty JWT secret in production")
	}
}

func TestValidateProductionSeedPassword(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "production"
	cfg.RunSeed = true
	cfg.SeedAdminPassword = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default seed password in production")
	}
}

func TestValidateEmailNeedsHost(t *testing.T) {
	cfg := validConfig()
	cfg.EmailEnabled = true
	cfg.SMTPHost = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when email is enabled without SMTP host")
	}
}

func TestValidateBounds(t *testing.T) {
	cfg := validConfig()
	cfg.MaxBodyBytes = 100
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for tiny body limit")
	}

	cfg = validConfig()
	cfg.RateLimitPerMinute = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero rate limit")
	}

	cfg = validConfig()
	cfg.DispatchTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero dispatch timeout")
	}
}
