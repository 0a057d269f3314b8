package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPListenAddr != ":8080" {
		t.Errorf("HTTPListenAddr = %q", cfg.HTTPListenAddr)
	}
	if cfg.TransferFromCurrency != "USD" || cfg.TransferToCurrency != "PHP" {
		t.Errorf("currency pair = %s/%s", cfg.TransferFromCurrency, cfg.TransferToCurrency)
	}
	if cfg.BankAPITimeout != 15*time.Second {
		t.Errorf("BankAPITimeout = %v", cfg.BankAPITimeout)
	}
	if cfg.ReplyGap != 500*time.Millisecond {
		t.Errorf("ReplyGap = %v", cfg.ReplyGap)
	}
	if cfg.WhatsAppEnabled {
		t.Error("WhatsApp should be disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TRANSFER_FROM_CURRENCY", "eur")
	t.Setenv("TRANSFER_TO_CURRENCY", "gbp")
	t.Setenv("REPLY_GAP", "0s")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TransferFromCurrency != "EUR" || cfg.TransferToCurrency != "GBP" {
		t.Errorf("currency pair = %s/%s", cfg.TransferFromCurrency, cfg.TransferToCurrency)
	}
	if cfg.ReplyGap != 0 {
		t.Errorf("ReplyGap = %v", cfg.ReplyGap)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d", cfg.RedisDB)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("BANK_API_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestLoadRequiresAPIKeyWithBaseURL(t *testing.T) {
	t.Setenv("BANK_API_BASE_URL", "https://api.example.com/")
	if _, err := Load(); err == nil {
		t.Error("expected error when BANK_API_KEY is missing")
	}

	t.Setenv("BANK_API_KEY", "secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BankAPIBaseURL != "https://api.example.com" {
		t.Errorf("BankAPIBaseURL = %q, want trailing slash trimmed", cfg.BankAPIBaseURL)
	}
}
