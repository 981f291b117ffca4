// Package config provides configuration for the go-waiter service.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Defaults for the upstream Gemini Live connection.
const (
	DefaultHost  = "generativelanguage.googleapis.com"
	DefaultPath  = "/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"
	DefaultModel = "models/gemini-2.5-flash-native-audio-preview-12-2025"
	DefaultVoice = "Charon"

	DefaultConnectTimeout = 30 * time.Second
	DefaultPingInterval   = 20 * time.Second
	DefaultPingTimeout    = 10 * time.Second
)

// Config holds all settings for the service. It is built once at startup
// and passed by reference; nothing mutates it afterwards.
type Config struct {
	// HTTP server
	Addr string

	// Upstream Gemini Live
	APIKey         string
	Host           string
	Model          string
	Voice          string
	ConnectTimeout time.Duration
	PingInterval   time.Duration
	PingTimeout    time.Duration

	// Order persistence. Empty means run with the in-memory store.
	DatabaseURL string

	// Menu document injected into the session prompt.
	MenuPath string

	LogLevel string
}

// Load builds a Config from environment variables.
func Load() (*Config, error) {
	apiKey := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY environment variable is required")
	}

	connectTimeout, err := durationEnv("CONNECT_TIMEOUT", DefaultConnectTimeout)
	if err != nil {
		return nil, err
	}
	pingInterval, err := durationEnv("PING_INTERVAL", DefaultPingInterval)
	if err != nil {
		return nil, err
	}
	pingTimeout, err := durationEnv("PING_TIMEOUT", DefaultPingTimeout)
	if err != nil {
		return nil, err
	}

	return &Config{
		Addr:           listenAddr(),
		APIKey:         apiKey,
		Host:           envOrDefault("UPSTREAM_HOST", DefaultHost),
		Model:          envOrDefault("MODEL_ID", DefaultModel),
		Voice:          envOrDefault("VOICE_NAME", DefaultVoice),
		ConnectTimeout: connectTimeout,
		PingInterval:   pingInterval,
		PingTimeout:    pingTimeout,
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		MenuPath:       envOrDefault("MENU_PATH", "menu.json"),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
	}, nil
}

// UpstreamURL returns the full wss endpoint including the auth key.
func (c *Config) UpstreamURL() string {
	u := url.URL{
		Scheme:   "wss",
		Host:     c.Host,
		Path:     DefaultPath,
		RawQuery: url.Values{"key": {c.APIKey}}.Encode(),
	}
	return u.String()
}

// listenAddr resolves the HTTP listen address from PORT.
// Accepts both "8000" and ":8000" forms.
func listenAddr() string {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func envOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return d, nil
}
