package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/annotator/pkg/tools"
)

// CloseSessionTool closes a browser session.
type CloseSessionTool struct {
	manager *SessionManager
}

// NewCloseSessionTool creates a new close session tool.
func NewCloseSessionTool(manager *SessionManager) *CloseSessionTool {
	return &CloseSessionTool{manager: manager}
}

// Name returns the tool name.
func (t *CloseSessionTool) Name() string {
	return "close_browser_session"
}

// Description returns the tool description.
func (t *CloseSessionTool) Description() string {
	return "Close a browser session and release its browser."
}

// Schema returns the tool's JSON schema.
func (t *CloseSessionTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{"session": sessionProperty()},
		[]string{"session"},
	)
}

// CloseSessionInput defines the input parameters.
type CloseSessionInput struct {
	Session string `json:"session"`
}

// Execute closes the session.
func (t *CloseSessionTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input CloseSessionInput
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	if input.Session == "" {
		return "", nil, fmt.Errorf("session name is required")
	}
	if err := t.manager.CloseSession(input.Session); err != nil {
		return "", nil, fmt.Errorf("failed to close session: %w", err)
	}
	return fmt.Sprintf("Session '%s' closed.", input.Session), nil, nil
}

// GeneratePreview describes the call in one line.
func (t *CloseSessionTool) GeneratePreview(args json.RawMessage) (string, error) {
	var input CloseSessionInput
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", err
	}
	return fmt.Sprintf("Close browser session '%s'", input.Session), nil
}

// ShouldShow returns whether this tool should be visible.
func (t *CloseSessionTool) ShouldShow() bool {
	return browserEnabled() || t.manager.HasSessions()
}
