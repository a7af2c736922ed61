package config

import (
	"os"
	"testing"
	"time"
)

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	original, existed := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset %s: %v", key, err)
	}
	t.Cleanup(func() {
		if !existed {
			_ = os.Unsetenv(key)
			return
		}
		_ = os.Setenv(key, original)
	})
}

func TestDefaultsAreValid(t *testing.T) {
	for _, key := range []string{"MONGO_URI", "MONGO_DATABASE", "PORT", "ENVIRONMENT", "REQUIRE_AUTH", "ENABLE_REDIS"} {
		unsetEnv(t, key)
	}

	cfg := New()
	if cfg.MongoURI != "mongodb://localhost:27017" || cfg.MongoDatabase != "storefront" {
		t.Fatalf("unexpected database defaults: %q %q", cfg.MongoURI, cfg.MongoDatabase)
	}
	if cfg.Port != "8000" {
		t.Fatalf("expected default port 8000, got %q", cfg.Port)
	}
	if cfg.RequireAuth {
		t.Fatalf("expected auth to be optional by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestDurationsFromEnv(t *testing.T) {
	t.Setenv("MONGO_CONNECT_TIMEOUT", "3")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("CACHE_TTL_SECONDS", "not-a-number")

	cfg := New()
	if cfg.MongoConnectTimeout != 3*time.Second {
		t.Fatalf("expected 3s connect timeout, got %s", cfg.MongoConnectTimeout)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected 15m access ttl, got %s", cfg.AccessTokenTTL)
	}
	if cfg.CacheTTL != 300*time.Second {
		t.Fatalf("expected malformed cache ttl to fall back to default, got %s", cfg.CacheTTL)
	}
}

func TestCORSOriginsAreTrimmed(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " https://shop.example.com, ,https://admin.example.com ")

	cfg := New()
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://shop.example.com" || cfg.CORSOrigins[1] != "https://admin.example.com" {
		t.Fatalf("unexpected origins: %#v", cfg.CORSOrigins)
	}
}

func TestValidateRejectsNonMongoURI(t *testing.T) {
	t.Setenv("MONGO_URI", "postgres://localhost:5432/storefront")

	if err := New().Validate(); err == nil {
		t.Fatalf("expected non-mongodb uri to be rejected")
	}
}

func TestValidateRequiresAdminWhenAuthRequired(t *testing.T) {
	t.Setenv("REQUIRE_AUTH", "true")
	unsetEnv(t, "ADMIN_USERNAME")
	unsetEnv(t, "ADMIN_PASSWORD_HASH")

	if err := New().Validate(); err == nil {
		t.Fatalf("expected missing admin credentials to be rejected")
	}

	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	if err := New().Validate(); err != nil {
		t.Fatalf("expected configured admin to validate, got %v", err)
	}
}

func TestValidateRequiresSecretInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	unsetEnv(t, "JWT_SECRET")

	if err := New().Validate(); err == nil {
		t.Fatalf("expected default jwt secret to be rejected in production")
	}
}
