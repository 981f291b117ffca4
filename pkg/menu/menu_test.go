package menu

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadValidMenu(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	content := `{"Biryani": {"price": 350, "description": "Chicken biryani"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	text, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.Contains(text, "Biryani") {
		t.Errorf("expected menu text to mention Biryani, got %q", text)
	}
	if text == Placeholder {
		t.Error("valid menu must not degrade to placeholder")
	}
}

func TestLoadMissingMenu(t *testing.T) {
	text, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("expected error for missing file")
	}
	if text != Placeholder {
		t.Errorf("expected placeholder, got %q", text)
	}
}

func TestLoadMalformedMenu(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	text, err := Load(path)
	if err == nil {
		t.Error("expected error for malformed file")
	}
	if text != Placeholder {
		t.Errorf("expected placeholder, got %q", text)
	}
}

func TestSystemPromptEmbedsMenu(t *testing.T) {
	prompt := SystemPrompt(Placeholder)

	if !strings.Contains(prompt, Placeholder) {
		t.Error("prompt must embed the menu text")
	}
	if !strings.Contains(prompt, "place_order") {
		t.Error("prompt must name the place_order tool")
	}
}
