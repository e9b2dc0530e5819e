package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/annotator/pkg/diagnostics"
	"github.com/entrhq/annotator/pkg/tools"
)

// DebugTool reports on the annotations present on a page.
type DebugTool struct {
	manager *SessionManager
}

// NewDebugTool creates a new debug tool.
func NewDebugTool(manager *SessionManager) *DebugTool {
	return &DebugTool{manager: manager}
}

// Name returns the tool name.
func (t *DebugTool) Name() string {
	return "browser_debug_annotations"
}

// Description returns the tool description.
func (t *DebugTool) Description() string {
	return "Inspect the annotations on the current page: counts per kind, duplicate IDs, " +
		"positions outside the document and recent request history. Changes nothing."
}

// Schema returns the tool's JSON schema.
func (t *DebugTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"session": sessionProperty(),
			"format": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"json", "text"},
				"description": "Output format. Default: json",
			},
		},
		[]string{"session"},
	)
}

// DebugInput defines the input parameters.
type DebugInput struct {
	Session string `json:"session"`
	Format  string `json:"format,omitempty"`
}

type debugOutput struct {
	Report  *diagnostics.Report `json:"report"`
	Summary diagnostics.Summary `json:"summary"`
}

// Execute builds the report.
func (t *DebugTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input DebugInput
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	if input.Format != "" && input.Format != "json" && input.Format != "text" {
		return "", nil, fmt.Errorf("invalid format %q (must be 'json' or 'text')", input.Format)
	}
	session, err := sessionFor(t.manager, input.Session)
	if err != nil {
		return "", nil, err
	}

	report, err := session.Inspect()
	if err != nil {
		return "", nil, fmt.Errorf("failed to inspect annotations: %w", err)
	}
	summary := report.Summary()
	meta := map[string]interface{}{
		"healthy": report.Healthy(),
		"total":   summary.TotalAnnotations,
	}

	if input.Format == "text" {
		return diagnostics.Render(report), meta, nil
	}
	out, err := json.MarshalIndent(debugOutput{Report: report, Summary: summary}, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return string(out), meta, nil
}

// ShouldShow returns whether this tool should be visible.
func (t *DebugTool) ShouldShow() bool {
	return t.manager.HasSessions()
}
