package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load with defaults failed: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("expected default port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("expected development environment, got %q", cfg.Server.Environment)
	}
	if cfg.Redis.TaskTTL != 5*time.Minute {
		t.Errorf("expected default task ttl 5m, got %s", cfg.Redis.TaskTTL)
	}
	if cfg.RateLimit.RequestsPerMin != 300 {
		t.Errorf("expected default rate limit 300, got %d", cfg.RateLimit.RequestsPerMin)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TASKMAN_SERVER_PORT", "8080")
	t.Setenv("TASKMAN_AUTH_JWT_SECRET", "supersecret")
	t.Setenv("TASKMAN_REDIS_TASK_TTL", "90s")
	t.Setenv("TASKMAN_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080 from env, got %d", cfg.Server.Port)
	}
	if cfg.Auth.JWTSecret != "supersecret" {
		t.Errorf("expected jwt secret from env, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Redis.TaskTTL != 90*time.Second {
		t.Errorf("expected task ttl 90s from env, got %s", cfg.Redis.TaskTTL)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug from env, got %q", cfg.Log.Level)
	}
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("TASKMAN_SERVER_ENVIRONMENT", "production")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for production without jwt secret")
	}

	t.Setenv("TASKMAN_AUTH_JWT_SECRET", "prod-secret")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected production config with secret to load: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction to report true")
	}
}

func TestValidate_RejectsBadPort(t *testing.T) {
	cfg := defaults()
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port 0")
	}

	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestJWTSecret_DevFallback(t *testing.T) {
	cfg := defaults()
	if cfg.JWTSecret() == "" {
		t.Error("expected a non-empty development fallback secret")
	}

	cfg.Auth.JWTSecret = "explicit"
	if cfg.JWTSecret() != "explicit" {
		t.Errorf("expected explicit secret, got %q", cfg.JWTSecret())
	}
}

func TestAddrHelpers(t *testing.T) {
	cfg := defaults()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 9000
	if got := cfg.GetServerAddr(); got != "127.0.0.1:9000" {
		t.Errorf("unexpected server addr %q", got)
	}

	cfg.Redis.Host = "redis.internal"
	cfg.Redis.Port = 6380
	if got := cfg.GetRedisAddr(); got != "redis.internal:6380" {
		t.Errorf("unexpected redis addr %q", got)
	}
}
