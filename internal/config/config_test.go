package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("expected error when GOOGLE_API_KEY is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("PORT", "")
	t.Setenv("CONNECT_TIMEOUT", "")
	t.Setenv("PING_INTERVAL", "")
	t.Setenv("PING_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != ":8000" {
		t.Errorf("expected addr :8000, got %s", cfg.Addr)
	}
	if cfg.Host != DefaultHost {
		t.Errorf("expected host %s, got %s", DefaultHost, cfg.Host)
	}
	if cfg.ConnectTimeout != 30*time.Second {
		t.Errorf("expected connect timeout 30s, got %v", cfg.ConnectTimeout)
	}
	if cfg.PingInterval != 20*time.Second {
		t.Errorf("expected ping interval 20s, got %v", cfg.PingInterval)
	}
	if cfg.PingTimeout != 10*time.Second {
		t.Errorf("expected ping timeout 10s, got %v", cfg.PingTimeout)
	}
	if cfg.MenuPath != "menu.json" {
		t.Errorf("expected menu path menu.json, got %s", cfg.MenuPath)
	}
}

func TestListenAddrForms(t *testing.T) {
	tests := []struct {
		name string
		port string
		want string
	}{
		{name: "bare port", port: "9000", want: ":9000"},
		{name: "with colon", port: ":9000", want: ":9000"},
		{name: "host and port", port: "127.0.0.1:9000", want: "127.0.0.1:9000"},
		{name: "empty", port: "", want: ":8000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", tt.port)
			if got := listenAddr(); got != tt.want {
				t.Errorf("listenAddr() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUpstreamURL(t *testing.T) {
	cfg := &Config{Host: DefaultHost, APIKey: "secret"}

	got := cfg.UpstreamURL()
	if !strings.HasPrefix(got, "wss://"+DefaultHost) {
		t.Errorf("unexpected scheme or host in %s", got)
	}
	if !strings.Contains(got, "BidiGenerateContent") {
		t.Errorf("expected BidiGenerateContent path in %s", got)
	}
	if !strings.Contains(got, "key=secret") {
		t.Errorf("expected auth key in %s", got)
	}
}

func TestDurationEnvInvalid(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Setenv("CONNECT_TIMEOUT", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid CONNECT_TIMEOUT")
	}
}
