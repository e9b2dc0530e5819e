package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/annotator/pkg/tools"
)

// NavigateTool loads a URL in a session.
type NavigateTool struct {
	manager *SessionManager
}

// NewNavigateTool creates a new navigate tool.
func NewNavigateTool(manager *SessionManager) *NavigateTool {
	return &NavigateTool{manager: manager}
}

// Name returns the tool name.
func (t *NavigateTool) Name() string {
	return "browser_navigate"
}

// Description returns the tool description.
func (t *NavigateTool) Description() string {
	return "Load a URL in a browser session. Annotations on the previous page are discarded with it."
}

// Schema returns the tool's JSON schema.
func (t *NavigateTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": sessionProperty(),
			"url": map[string]interface{}{
				"type":        "string",
				"description": "URL to load, including the scheme",
			},
			"wait_until": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"load", "domcontentloaded", "networkidle"},
				"description": "When navigation counts as complete. Default: load",
			},
		},
		[]string{"session", "url"},
	)
}

// NavigateInput defines the input parameters.
type NavigateInput struct {
	Session   string `json:"session"`
	URL       string `json:"url"`
	WaitUntil string `json:"wait_until,omitempty"`
}

// Execute navigates to a URL.
func (t *NavigateTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input NavigateInput
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	if input.URL == "" {
		return "", nil, fmt.Errorf("url is required")
	}
	if input.WaitUntil == "" {
		input.WaitUntil = DefaultWaitUntil
	}
	if !validWaitStates[input.WaitUntil] {
		return "", nil, fmt.Errorf("invalid wait_until value: %s (must be 'load', 'domcontentloaded', or 'networkidle')", input.WaitUntil)
	}

	session, err := sessionFor(t.manager, input.Session)
	if err != nil {
		return "", nil, err
	}
	if err := session.Navigate(input.URL, NavigateOptions{WaitUntil: input.WaitUntil}); err != nil {
		return "", nil, err
	}

	title := session.Title()
	if title == "" {
		title = "Unknown"
	}
	result := fmt.Sprintf("Loaded %s\nTitle: %s\nSession: %s", session.URL(), title, session.Name)
	return result, map[string]interface{}{"url": session.URL(), "title": title}, nil
}

// GeneratePreview describes the call in one line.
func (t *NavigateTool) GeneratePreview(args json.RawMessage) (string, error) {
	var input NavigateInput
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", err
	}
	return fmt.Sprintf("Navigate session '%s' to %s", input.Session, input.URL), nil
}

// ShouldShow returns whether this tool should be visible.
func (t *NavigateTool) ShouldShow() bool {
	return t.manager.HasSessions()
}
