package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/annotator/pkg/annotator"
	"github.com/entrhq/annotator/pkg/tools"
)

// AnnotateTool highlights elements and optionally labels them.
type AnnotateTool struct {
	manager *SessionManager
}

// NewAnnotateTool creates a new annotate tool.
func NewAnnotateTool(manager *SessionManager) *AnnotateTool {
	return &AnnotateTool{manager: manager}
}

// Name returns the tool name.
func (t *AnnotateTool) Name() string {
	return "browser_annotate"
}

// Description returns the tool description.
func (t *AnnotateTool) Description() string {
	return "Highlight elements on the current page, found by CSS selector or by visible text, and optionally attach a short label. " +
		"Labels are placed so they neither cover the element nor overlap other labels. " +
		"Repeating an identical request within two seconds is rejected as a duplicate."
}

// Schema returns the tool's JSON schema.
func (t *AnnotateTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		mergeProperties(
			map[string]interface{}{"session": sessionProperty()},
			locatorProperties(),
			map[string]interface{}{
				"label": map[string]interface{}{
					"type":        "string",
					"description": "Short text shown next to each highlight. Numbered when several elements match.",
				},
				"color": colorProperty(),
			},
		),
		[]string{"session"},
	)
}

// AnnotateInput defines the input parameters.
type AnnotateInput struct {
	Session string `json:"session"`
	annotator.AnnotateRequest
}

// Execute runs the annotation and returns the JSON response.
func (t *AnnotateTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input AnnotateInput
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	session, err := sessionFor(t.manager, input.Session)
	if err != nil {
		return "", nil, err
	}
	return respond(session.Annotate(input.AnnotateRequest))
}

// GeneratePreview describes the call in one line.
func (t *AnnotateTool) GeneratePreview(args json.RawMessage) (string, error) {
	var input AnnotateInput
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", err
	}
	preview := fmt.Sprintf("Annotate %s in session '%s'", describeTarget(input.Locator), input.Session)
	if input.Label != "" {
		preview += fmt.Sprintf(" with label %q", input.Label)
	}
	return preview, nil
}

// ShouldShow returns whether this tool should be visible.
// Page tools are only shown when there are active sessions.
func (t *AnnotateTool) ShouldShow() bool {
	return t.manager.HasSessions()
}

func describeTarget(l annotator.Locator) string {
	switch {
	case l.Selector != "" && l.Text != "":
		return fmt.Sprintf("%s (or text %q)", l.Selector, l.Text)
	case l.Selector != "":
		return l.Selector
	default:
		return fmt.Sprintf("text %q", l.Text)
	}
}
