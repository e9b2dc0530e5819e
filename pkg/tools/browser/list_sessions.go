package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/annotator/pkg/tools"
)

// ListSessionsTool lists the open sessions.
type ListSessionsTool struct {
	manager *SessionManager
}

// NewListSessionsTool creates a new list sessions tool.
func NewListSessionsTool(manager *SessionManager) *ListSessionsTool {
	return &ListSessionsTool{manager: manager}
}

// Name returns the tool name.
func (t *ListSessionsTool) Name() string {
	return "list_browser_sessions"
}

// Description returns the tool description.
func (t *ListSessionsTool) Description() string {
	return "List open browser sessions with their page and annotation count."
}

// Schema returns the tool's JSON schema.
func (t *ListSessionsTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, []string{})
}

// Execute lists all sessions.
func (t *ListSessionsTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	sessions := t.manager.ListSessions()
	meta := map[string]interface{}{"count": len(sessions)}
	if len(sessions) == 0 {
		return "No open browser sessions.", meta, nil
	}

	now := t.manager.now()
	var b strings.Builder
	fmt.Fprintf(&b, "Open sessions: %d\n", len(sessions))
	for i, s := range sessions {
		mode := "headed"
		if s.Headless {
			mode = "headless"
		}
		fmt.Fprintf(&b, "\n%d. %s\n   URL: %s\n   Mode: %s\n   Annotations: %d\n   Age: %s\n   Last used: %s ago\n",
			i+1, s.Name, s.CurrentURL, mode, s.Annotations,
			formatDuration(now.Sub(s.CreatedAt)), formatDuration(now.Sub(s.LastUsedAt)))
	}
	return b.String(), meta, nil
}

// ShouldShow returns whether this tool should be visible.
func (t *ListSessionsTool) ShouldShow() bool {
	return browserEnabled() || t.manager.HasSessions()
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
