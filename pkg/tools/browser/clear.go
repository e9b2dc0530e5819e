package browser

import (
	"context"
	"encoding/json"

	"github.com/entrhq/annotator/pkg/tools"
)

// ClearTool removes every annotation from a page.
type ClearTool struct {
	manager *SessionManager
}

// NewClearTool creates a new clear tool.
func NewClearTool(manager *SessionManager) *ClearTool {
	return &ClearTool{manager: manager}
}

// Name returns the tool name.
func (t *ClearTool) Name() string {
	return "browser_clear_annotations"
}

// Description returns the tool description.
func (t *ClearTool) Description() string {
	return "Remove all highlights, labels and comments from the current page."
}

// Schema returns the tool's JSON schema.
func (t *ClearTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{"session": sessionProperty()},
		[]string{"session"},
	)
}

// ClearInput defines the input parameters.
type ClearInput struct {
	Session string `json:"session"`
}

// Execute clears the page.
func (t *ClearTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input ClearInput
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	session, err := sessionFor(t.manager, input.Session)
	if err != nil {
		return "", nil, err
	}
	return respond(session.ClearAnnotations())
}

// ShouldShow returns whether this tool should be visible.
func (t *ClearTool) ShouldShow() bool {
	return t.manager.HasSessions()
}
