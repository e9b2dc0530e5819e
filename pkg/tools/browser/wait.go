package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/annotator/pkg/tools"
)

const maxWaitTimeout = 300000

// WaitTool waits for an element before annotating dynamic pages.
type WaitTool struct {
	manager *SessionManager
}

// NewWaitTool creates a new wait tool.
func NewWaitTool(manager *SessionManager) *WaitTool {
	return &WaitTool{manager: manager}
}

// Name returns the tool name.
func (t *WaitTool) Name() string {
	return "browser_wait"
}

// Description returns the tool description.
func (t *WaitTool) Description() string {
	return "Wait until an element is attached, detached, visible or hidden. Use before annotating content that loads late."
}

// Schema returns the tool's JSON schema.
func (t *WaitTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": sessionProperty(),
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector of the element to wait for",
			},
			"state": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"attached", "detached", "visible", "hidden"},
				"description": "State to wait for. Default: visible",
			},
			"timeout": map[string]interface{}{
				"type":        "number",
				"description": "Maximum wait in milliseconds. Default: 30000",
			},
		},
		[]string{"session", "selector"},
	)
}

// WaitInput defines the input parameters.
type WaitInput struct {
	Session  string   `json:"session"`
	Selector string   `json:"selector"`
	State    string   `json:"state,omitempty"`
	Timeout  *float64 `json:"timeout,omitempty"`
}

// Execute waits for the element.
func (t *WaitTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input WaitInput
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	if input.Selector == "" {
		return "", nil, fmt.Errorf("selector is required")
	}

	opts := WaitOptions{Selector: input.Selector, State: input.State}
	if opts.State == "" {
		opts.State = "visible"
	}
	if !validElementStates[opts.State] {
		return "", nil, fmt.Errorf("invalid state: %s (must be 'attached', 'detached', 'visible', or 'hidden')", opts.State)
	}
	if input.Timeout != nil {
		if *input.Timeout < 0 || *input.Timeout > maxWaitTimeout {
			return "", nil, fmt.Errorf("timeout must be between 0 and %d milliseconds", maxWaitTimeout)
		}
		opts.Timeout = *input.Timeout
	}

	session, err := sessionFor(t.manager, input.Session)
	if err != nil {
		return "", nil, err
	}
	if err := session.Wait(opts); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s is %s on %s", input.Selector, opts.State, session.URL()), nil, nil
}

// ShouldShow returns whether this tool should be visible.
func (t *WaitTool) ShouldShow() bool {
	return t.manager.HasSessions()
}
