package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("expected default driver postgres, got %s", cfg.DBDriver)
	}
	if cfg.AuthMode != AuthModeJWT {
		t.Errorf("expected default auth mode jwt, got %s", cfg.AuthMode)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected 24h expiry, got %v", cfg.JWTExpirationDur)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG", "true")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:cashmesh.db")
	t.Setenv("JWT_EXPIRES_IN", "90m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if !cfg.Debug {
		t.Error("expected debug to be enabled")
	}
	if cfg.DBDriver != "sqlite" || cfg.DatabaseURL != "file:cashmesh.db" {
		t.Errorf("unexpected database settings: %s %s", cfg.DBDriver, cfg.DatabaseURL)
	}
	if cfg.JWTExpirationDur != 90*time.Minute {
		t.Errorf("expected 90m expiry, got %v", cfg.JWTExpirationDur)
	}
}

func TestLoad_InvalidExpiryFallsBack(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "tomorrow")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected fallback to 24h, got %v", cfg.JWTExpirationDur)
	}
}

func TestLoad_StaticModeRequiresActor(t *testing.T) {
	t.Setenv("AUTH_MODE", AuthModeStatic)

	if _, err := Load(); err == nil {
		t.Fatal("expected error when STATIC_ACTOR_ID is missing")
	}

	t.Setenv("STATIC_ACTOR_ID", "2")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StaticActorID != 2 {
		t.Errorf("expected static actor 2, got %d", cfg.StaticActorID)
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
