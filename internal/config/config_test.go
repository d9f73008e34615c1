package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if cfg.InactivityTimeout != 30*time.Minute {
		t.Errorf("InactivityTimeout = %v", cfg.InactivityTimeout)
	}
	if cfg.MaxUploadBytes != 10*1024*1024 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
	if cfg.AllowedOrigins != nil {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("INACTIVITY_TIMEOUT_MINUTES", "5")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "2")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := Load()

	if cfg.ServerPort != "9000" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if cfg.InactivityTimeout != 5*time.Minute {
		t.Errorf("InactivityTimeout = %v", cfg.InactivityTimeout)
	}
	if cfg.MaxUploadBytes != 2*1024*1024 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT_VALUE", "not-a-number")
	if got := getEnvInt("TEST_INT_VALUE", 7); got != 7 {
		t.Errorf("malformed value should fall back, got %d", got)
	}

	t.Setenv("TEST_INT_VALUE", "42")
	if got := getEnvInt("TEST_INT_VALUE", 7); got != 42 {
		t.Errorf("got %d", got)
	}
}

func TestParseOrigins(t *testing.T) {
	if got := parseOrigins(""); got != nil {
		t.Errorf("empty input should mean allow-all, got %v", got)
	}
	got := parseOrigins(" https://a.example.com ,, https://b.example.com")
	if len(got) != 2 || got[0] != "https://a.example.com" {
		t.Errorf("got %v", got)
	}
}
