package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/annotator/pkg/config"
	"github.com/entrhq/annotator/pkg/tools"
)

const (
	minViewport = 200
	maxViewport = 5000
)

// StartSessionTool creates a new browser session.
type StartSessionTool struct {
	manager *SessionManager
}

// NewStartSessionTool creates a new start session tool.
func NewStartSessionTool(manager *SessionManager) *StartSessionTool {
	return &StartSessionTool{manager: manager}
}

// Name returns the tool name.
func (t *StartSessionTool) Name() string {
	return "start_browser_session"
}

// Description returns the tool description.
func (t *StartSessionTool) Description() string {
	return "Open a new named browser session. Annotation tools act on the page of a session."
}

// Schema returns the tool's JSON schema.
func (t *StartSessionTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Unique name for the session (e.g., 'review')",
			},
			"headless": map[string]interface{}{
				"type":        "boolean",
				"description": "Run without a visible window. Default comes from the browser settings",
			},
			"width": map[string]interface{}{
				"type":        "integer",
				"description": "Viewport width in pixels",
			},
			"height": map[string]interface{}{
				"type":        "integer",
				"description": "Viewport height in pixels",
			},
		},
		[]string{"name"},
	)
}

// StartSessionInput defines the input parameters.
type StartSessionInput struct {
	Name     string `json:"name"`
	Headless *bool  `json:"headless,omitempty"`
	Width    *int   `json:"width,omitempty"`
	Height   *int   `json:"height,omitempty"`
}

// Execute starts a new browser session.
func (t *StartSessionTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	input, err := t.parseInput(args)
	if err != nil {
		return "", nil, err
	}

	opts := sessionOptions(input)
	if err := ValidateViewport(opts.Viewport); err != nil {
		return "", nil, err
	}

	if err := t.manager.Initialize(); err != nil {
		return "", nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	session, err := t.manager.StartSession(input.Name, opts)
	if err != nil {
		return "", nil, fmt.Errorf("failed to start session: %w", err)
	}

	mode := "headed"
	if session.Headless {
		mode = "headless"
	}
	result := fmt.Sprintf("Browser session '%s' started (%s, %dx%d). Navigate to a page before annotating.",
		session.Name, mode, opts.Viewport.Width, opts.Viewport.Height)
	return result, map[string]interface{}{"session": session.Name}, nil
}

func (t *StartSessionTool) parseInput(args json.RawMessage) (*StartSessionInput, error) {
	var input StartSessionInput
	if err := tools.DecodeArgs(args, &input); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, fmt.Errorf("session name is required")
	}
	return &input, nil
}

// DefaultSessionOptions returns the options for a new session under the
// browser settings, or the built-in defaults before configuration is loaded.
func DefaultSessionOptions() SessionOptions {
	opts := SessionOptions{
		Headless: true,
		Viewport: &Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
		Timeout:  DefaultTimeout,
	}
	if b := config.GetBrowser(); b != nil {
		opts.Headless = b.IsHeadless()
		opts.Viewport.Width, opts.Viewport.Height = b.Viewport()
	}
	return opts
}

// sessionOptions layers the caller's overrides over the defaults.
func sessionOptions(input *StartSessionInput) SessionOptions {
	opts := DefaultSessionOptions()
	if input.Headless != nil {
		opts.Headless = *input.Headless
	}
	if input.Width != nil {
		opts.Viewport.Width = *input.Width
	}
	if input.Height != nil {
		opts.Viewport.Height = *input.Height
	}
	return opts
}

// ValidateViewport checks the viewport is within the supported range.
func ValidateViewport(vp *Viewport) error {
	if vp.Width < minViewport || vp.Width > maxViewport {
		return fmt.Errorf("viewport width must be between %d and %d pixels", minViewport, maxViewport)
	}
	if vp.Height < minViewport || vp.Height > maxViewport {
		return fmt.Errorf("viewport height must be between %d and %d pixels", minViewport, maxViewport)
	}
	return nil
}

// GeneratePreview describes the call in one line.
func (t *StartSessionTool) GeneratePreview(args json.RawMessage) (string, error) {
	input, err := t.parseInput(args)
	if err != nil {
		return "", err
	}
	opts := sessionOptions(input)
	mode := "headed"
	if opts.Headless {
		mode = "headless"
	}
	return fmt.Sprintf("Start browser session '%s' (%s, %dx%d)", input.Name, mode, opts.Viewport.Width, opts.Viewport.Height), nil
}

// ShouldShow returns whether this tool should be visible.
func (t *StartSessionTool) ShouldShow() bool {
	return browserEnabled()
}
