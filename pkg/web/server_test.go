package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spicetable/go-waiter/internal/config"
	"github.com/spicetable/go-waiter/pkg/hub"
	"github.com/spicetable/go-waiter/pkg/order"
)

func newTestServer(t *testing.T, menuPath string) (*Server, order.Store) {
	t.Helper()
	cfg := &config.Config{
		Addr:     ":0",
		APIKey:   "test-key",
		Host:     config.DefaultHost,
		Model:    config.DefaultModel,
		Voice:    config.DefaultVoice,
		MenuPath: menuPath,
	}
	store := order.NewMemoryStore()
	return New(cfg, store, hub.NewFeed()), store
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t, "menu.json")

	resp, err := s.App().Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestOrdersEndpoint(t *testing.T) {
	s, store := newTestServer(t, "menu.json")

	if _, err := store.Save(context.Background(), "Biryani", 2, 350); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Save(context.Background(), "Chai", 1, 50); err != nil {
		t.Fatalf("Save: %v", err)
	}

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/orders", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Count  int           `json:"count"`
		Orders []order.Order `json:"orders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 2 {
		t.Fatalf("expected 2 orders, got %d", body.Count)
	}
	// Newest first
	if body.Orders[0].Item != "Chai" || body.Orders[1].Item != "Biryani" {
		t.Errorf("unexpected order listing: %+v", body.Orders)
	}
}

func TestMenuEndpoint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "menu.json")
	doc := `{"items":[{"name":"Biryani","price":350}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, _ := newTestServer(t, path)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/menu", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	if string(raw) != doc {
		t.Errorf("expected raw menu document, got %s", raw)
	}
}

func TestMenuEndpointMissing(t *testing.T) {
	s, _ := newTestServer(t, filepath.Join(t.TempDir(), "nope.json"))

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/menu", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("expected 404 for missing menu, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, "menu.json")
	s.Metrics().SessionStarted()
	s.Metrics().AudioIn()
	s.Metrics().AudioIn()

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/metrics", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	text := string(raw)

	for _, want := range []string{
		"waiter_sessions_started_total 1",
		"waiter_sessions_active 1",
		"waiter_audio_frames_in_total 2",
		"waiter_feed_clients 0",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q:\n%s", want, text)
		}
	}
}

func TestShutdownCancelsSessionContext(t *testing.T) {
	s, _ := newTestServer(t, "menu.json")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.Shutdown(ctx) // app was never listening; only the cancel matters here

	select {
	case <-s.sessionCtx.Done():
	default:
		t.Error("shutdown must cancel the session base context")
	}
}

func TestWebSocketRouteRequiresUpgrade(t *testing.T) {
	s, _ := newTestServer(t, "menu.json")

	resp, err := s.App().Test(httptest.NewRequest("GET", "/ws", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 426 {
		t.Errorf("expected 426 for plain GET on /ws, got %d", resp.StatusCode)
	}
}
