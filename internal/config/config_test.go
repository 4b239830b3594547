package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("GEMINI_MODEL_ID", "")
	t.Setenv("GENERATION_TIMEOUT", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("WELCOME_EMAIL_ENABLED", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.GeminiModelID != "gemini-2.5-flash" {
		t.Fatalf("expected default gemini model, got %s", cfg.GeminiModelID)
	}
	if cfg.GenerationTimeout != 20*time.Second {
		t.Fatalf("expected default generation timeout, got %s", cfg.GenerationTimeout)
	}
	if cfg.SessionStore != "memory" {
		t.Fatalf("expected memory session store, got %s", cfg.SessionStore)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.WelcomeEmailEnabled {
		t.Fatalf("expected welcome email disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("GENERATION_TIMEOUT", "5s")
	t.Setenv("SESSION_STORE", " Redis ")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://grace.example, ,https://kiosk.example")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("WELCOME_EMAIL_ENABLED", "true")
	t.Setenv("EMAIL_PROVIDER", "SendGrid")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.GeminiAPIKey != "key-123" {
		t.Fatalf("expected api key override, got %s", cfg.GeminiAPIKey)
	}
	if cfg.GenerationTimeout != 5*time.Second {
		t.Fatalf("expected timeout override, got %s", cfg.GenerationTimeout)
	}
	if cfg.SessionStore != "redis" {
		t.Fatalf("expected normalized session store, got %q", cfg.SessionStore)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected session ttl override, got %s", cfg.SessionTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://kiosk.example" {
		t.Fatalf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRPS != 0.5 || cfg.RateLimitBurst != 3 {
		t.Fatalf("unexpected rate limit %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if !cfg.WelcomeEmailEnabled || cfg.EmailProvider != "sendgrid" {
		t.Fatalf("unexpected email settings %v %s", cfg.WelcomeEmailEnabled, cfg.EmailProvider)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("GENERATION_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_BURST", "many")
	cfg := Load()
	if cfg.GenerationTimeout != 20*time.Second {
		t.Fatalf("expected default timeout on bad input, got %s", cfg.GenerationTimeout)
	}
	if cfg.RateLimitBurst != 10 {
		t.Fatalf("expected default burst on bad input, got %d", cfg.RateLimitBurst)
	}
}

func TestLoadChurchProfile(t *testing.T) {
	profile, err := LoadChurchProfile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile != DefaultChurchProfile() {
		t.Fatalf("expected default profile, got %+v", profile)
	}

	path := filepath.Join(t.TempDir(), "church.yaml")
	if err := os.WriteFile(path, []byte("name: Hope Chapel\naddress: 9 Mercy Lane\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	profile, err = LoadChurchProfile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Name != "Hope Chapel" || profile.Address != "9 Mercy Lane" {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if profile.LogoURL != DefaultChurchProfile().LogoURL {
		t.Fatalf("expected logo default to survive, got %q", profile.LogoURL)
	}
}

func TestLoadChurchProfileErrors(t *testing.T) {
	if _, err := LoadChurchProfile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("name: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadChurchProfile(path); err == nil {
		t.Fatal("expected parse error")
	}
}
