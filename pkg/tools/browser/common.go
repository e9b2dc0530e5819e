package browser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/entrhq/annotator/pkg/annotator"
	"github.com/entrhq/annotator/pkg/config"
	"github.com/entrhq/annotator/pkg/overlay"
)

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Name of the browser session to use",
	}
}

// locatorProperties describes the target fields shared by annotate and comment.
func locatorProperties() map[string]interface{} {
	return map[string]interface{}{
		"selector": map[string]interface{}{
			"type":        "string",
			"description": "CSS selector of the target element(s). A comma separated list is one query.",
		},
		"text": map[string]interface{}{
			"type":        "string",
			"description": "Visible text to find when no selector is given or the selector matches nothing (under 500 characters)",
		},
		"maxMatches": map[string]interface{}{
			"type":        "integer",
			"minimum":     1,
			"description": "Maximum number of elements to annotate. Default: 1",
		},
		"autoScroll": map[string]interface{}{
			"type":        "boolean",
			"description": "Scroll the first target into view. Default: true",
		},
		"onlyVisible": map[string]interface{}{
			"type":        "boolean",
			"description": "Ignore hidden elements. Default: true",
		},
	}
}

func colorProperty() map[string]interface{} {
	names := make([]string, len(overlay.Colors))
	for i, c := range overlay.Colors {
		names[i] = string(c)
	}
	return map[string]interface{}{
		"type":        "string",
		"description": "Palette name: " + strings.Join(names, ", ") + ". Unknown names fall back to yellow. Default: yellow",
	}
}

func mergeProperties(sets ...map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	for _, set := range sets {
		for k, v := range set {
			out[k] = v
		}
	}
	return out
}

// respond encodes an annotator response as the tool result. Unsuccessful
// responses are results too; metadata carries the outcome for callers that
// map it onto their own error channel.
func respond(resp annotator.Response) (string, map[string]interface{}, error) {
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode response: %w", err)
	}
	meta := map[string]interface{}{
		"success": resp.Success,
		"count":   resp.Count,
	}
	if !resp.Success {
		meta["error_kind"] = string(resp.ErrorKind)
	}
	return string(out), meta, nil
}

// browserEnabled reports the browser section's master switch. Without a
// loaded configuration the built-in default (enabled) applies.
func browserEnabled() bool {
	if b := config.GetBrowser(); b != nil {
		return b.IsEnabled()
	}
	return true
}

// sessionFor looks up the named session for a tool call.
func sessionFor(m *SessionManager, name string) (*Session, error) {
	if name == "" {
		return nil, fmt.Errorf("session name is required")
	}
	return m.GetSession(name)
}
