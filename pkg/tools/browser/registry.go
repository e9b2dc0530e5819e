package browser

import (
	"fmt"

	"github.com/entrhq/annotator/pkg/tools"
)

// ToolRegistry builds the browser tool set over one session manager.
type ToolRegistry struct {
	manager *SessionManager
	tools   []tools.Tool
}

// NewToolRegistry creates a new browser tool registry.
func NewToolRegistry(manager *SessionManager) *ToolRegistry {
	return &ToolRegistry{manager: manager}
}

// RegisterTools creates the browser tools once and returns them.
func (r *ToolRegistry) RegisterTools() []tools.Tool {
	if len(r.tools) > 0 {
		return r.tools
	}

	// Session management
	r.tools = append(r.tools,
		NewStartSessionTool(r.manager),
		NewListSessionsTool(r.manager),
		NewCloseSessionTool(r.manager),
	)

	// Page tools, visible while sessions exist
	r.tools = append(r.tools,
		NewNavigateTool(r.manager),
		NewWaitTool(r.manager),
		NewAnnotateTool(r.manager),
		NewCommentTool(r.manager),
		NewClearTool(r.manager),
		NewDebugTool(r.manager),
		NewScreenshotTool(r.manager),
	)

	return r.tools
}

// GetTools returns the registered tools.
func (r *ToolRegistry) GetTools() []tools.Tool {
	return r.tools
}

// VisibleTools returns the registered tools that should currently be offered.
func (r *ToolRegistry) VisibleTools() []tools.Tool {
	var visible []tools.Tool
	for _, t := range r.RegisterTools() {
		if tools.Visible(t) {
			visible = append(visible, t)
		}
	}
	return visible
}

// Lookup finds a registered tool by name.
func (r *ToolRegistry) Lookup(name string) (tools.Tool, bool) {
	return tools.Find(r.RegisterTools(), name)
}

// GetSessionManager returns the underlying session manager.
func (r *ToolRegistry) GetSessionManager() *SessionManager {
	return r.manager
}

// Unavailable explains why a tool cannot run right now. It returns nil for
// visible tools.
func (r *ToolRegistry) Unavailable(t tools.Tool) error {
	if tools.Visible(t) {
		return nil
	}
	if !browserEnabled() {
		return fmt.Errorf("%s is unavailable: browser tools are disabled in the configuration", t.Name())
	}
	return fmt.Errorf("%s is unavailable: start a browser session first", t.Name())
}
