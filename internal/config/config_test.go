package config_test

import (
	"testing"
	"time"

	"github.com/harperchat/backend/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_TEMPERATURE",
		"AI_REQUEST_TIMEOUT", "AI_CONTEXT_LIMIT", "AI_HANDLE_LIMIT", "CHAT_DB_PATH",
	} {
		t.Setenv(key, "")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":3000" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.AI.Enabled() {
		t.Fatal("AI must be disabled without a key")
	}
	if cfg.AI.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected model %q", cfg.AI.Model)
	}
	if cfg.AI.RequestTimeout != 60*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.AI.RequestTimeout)
	}
	if cfg.AI.ContextLimit != 10 {
		t.Fatalf("unexpected context limit %d", cfg.AI.ContextLimit)
	}
	if cfg.Storage.Path != "database/chats.db" {
		t.Fatalf("unexpected db path %q", cfg.Storage.Path)
	}
}

func TestLoadPortVariants(t *testing.T) {
	t.Setenv("PORT", "8080")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}

	t.Setenv("PORT", "127.0.0.1:9000")
	cfg, err = config.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}

	t.Setenv("PORT", "not a port")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid PORT")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_TEMPERATURE", "0.5")
	t.Setenv("AI_REQUEST_TIMEOUT", "5")
	t.Setenv("AI_HANDLE_LIMIT", "100")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if !cfg.AI.Enabled() {
		t.Fatal("expected AI enabled with key present")
	}
	if cfg.AI.Temperature == nil || *cfg.AI.Temperature != 0.5 {
		t.Fatalf("unexpected temperature %v", cfg.AI.Temperature)
	}
	if cfg.AI.RequestTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.AI.RequestTimeout)
	}
	if cfg.AI.HandleLimit != 100 {
		t.Fatalf("unexpected handle limit %d", cfg.AI.HandleLimit)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("GEMINI_TEMPERATURE", "hot")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid temperature")
	}
	t.Setenv("GEMINI_TEMPERATURE", "")

	t.Setenv("AI_REQUEST_TIMEOUT", "-1")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}
