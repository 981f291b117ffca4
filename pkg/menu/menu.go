// Package menu loads the static menu document injected into the session
// prompt. The document is opaque context for the model: it only has to be
// parseable JSON, and a missing or broken file degrades to a placeholder
// rather than failing the session.
package menu

import (
	"encoding/json"
	"fmt"
	"os"
)

// Placeholder is used when no menu document is available. The model is
// told about the gap instead of the session failing.
const Placeholder = "Menu not available."

// Load reads and re-indents the menu document at path. On any failure it
// returns the placeholder text together with the error so the caller can
// decide how loudly to log; the text is always usable.
func Load(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Placeholder, fmt.Errorf("menu: read %s: %w", path, err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Placeholder, fmt.Errorf("menu: parse %s: %w", path, err)
	}

	pretty, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Placeholder, fmt.Errorf("menu: format %s: %w", path, err)
	}
	return string(pretty), nil
}

// SystemPrompt builds the waiter instructions with the menu embedded.
func SystemPrompt(menuText string) string {
	return fmt.Sprintf(`You are a friendly and efficient Pakistani waiter.

**MENU DATABASE (STRICTLY FOLLOW THIS):**
%s

**INSTRUCTIONS:**
1. Speak in a natural mix of **English + Roman Urdu**.
2. You can ONLY sell items listed in the MENU DATABASE above.
3. If an item is not in the list, politely say it is unavailable.
4. Confirm the exact price from the menu before calling the 'place_order' tool.
5. Once confirmed, call the 'place_order' tool immediately.`, menuText)
}
