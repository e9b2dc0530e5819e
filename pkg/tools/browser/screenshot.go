package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/annotator/pkg/tools"
)

// ScreenshotTool captures the annotated page to a PNG file.
type ScreenshotTool struct {
	manager *SessionManager
}

// NewScreenshotTool creates a new screenshot tool.
func NewScreenshotTool(manager *SessionManager) *ScreenshotTool {
	return &ScreenshotTool{manager: manager}
}

// Name returns the tool name.
func (t *ScreenshotTool) Name() string {
	return "browser_screenshot"
}

// Description returns the tool description.
func (t *ScreenshotTool) Description() string {
	return "Save a PNG screenshot of the current page, annotations included."
}

// Schema returns the tool's JSON schema.
func (t *ScreenshotTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": sessionProperty(),
			"path": map[string]interface{}{
				"type":        "string",
				"description": "File to write the PNG to",
			},
			"full_page": map[string]interface{}{
				"type":        "boolean",
				"description": "Capture the whole scrollable page instead of the viewport. Default: false",
			},
		},
		[]string{"session", "path"},
	)
}

// ScreenshotInput defines the input parameters.
type ScreenshotInput struct {
	Session  string `json:"session"`
	Path     string `json:"path"`
	FullPage bool   `json:"full_page,omitempty"`
}

// Execute takes the screenshot.
func (t *ScreenshotTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input ScreenshotInput
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	if input.Path == "" {
		return "", nil, fmt.Errorf("path is required")
	}
	session, err := sessionFor(t.manager, input.Session)
	if err != nil {
		return "", nil, err
	}

	png, err := session.Screenshot(ScreenshotOptions{Path: input.Path, FullPage: input.FullPage})
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("Saved screenshot of %s to %s (%d bytes)", session.URL(), input.Path, len(png)),
		map[string]interface{}{"path": input.Path, "bytes": len(png)}, nil
}

// GeneratePreview describes the call in one line.
func (t *ScreenshotTool) GeneratePreview(args json.RawMessage) (string, error) {
	var input ScreenshotInput
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", err
	}
	return fmt.Sprintf("Screenshot session '%s' to %s", input.Session, input.Path), nil
}

// ShouldShow returns whether this tool should be visible.
func (t *ScreenshotTool) ShouldShow() bool {
	return t.manager.HasSessions()
}
