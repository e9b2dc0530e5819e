package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/annotator/pkg/annotator"
	"github.com/entrhq/annotator/pkg/tools"
)

// CommentTool attaches callout comments to elements.
type CommentTool struct {
	manager *SessionManager
}

// NewCommentTool creates a new comment tool.
func NewCommentTool(manager *SessionManager) *CommentTool {
	return &CommentTool{manager: manager}
}

// Name returns the tool name.
func (t *CommentTool) Name() string {
	return "browser_comment"
}

// Description returns the tool description.
func (t *CommentTool) Description() string {
	return "Attach a comment callout to elements on the current page and underline them. " +
		"The callout prefers the requested side, flips or shifts to stay on screen, and moves away from other labels and comments."
}

// Schema returns the tool's JSON schema.
func (t *CommentTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		mergeProperties(
			map[string]interface{}{"session": sessionProperty()},
			locatorProperties(),
			map[string]interface{}{
				"comment": map[string]interface{}{
					"type":        "string",
					"description": "Comment text",
				},
				"position": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"top", "right", "bottom", "left"},
					"description": "Preferred side of the element. Default: right",
				},
				"style": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"bubble", "sticky", "inline"},
					"description": "Callout look. Default: bubble",
				},
				"color": colorProperty(),
			},
		),
		[]string{"session", "comment"},
	)
}

// CommentInput defines the input parameters.
type CommentInput struct {
	Session string `json:"session"`
	annotator.CommentRequest
}

// Execute places the comments and returns the JSON response.
func (t *CommentTool) Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error) {
	var input CommentInput
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", nil, err
	}
	session, err := sessionFor(t.manager, input.Session)
	if err != nil {
		return "", nil, err
	}
	return respond(session.Comment(input.CommentRequest))
}

// GeneratePreview describes the call in one line.
func (t *CommentTool) GeneratePreview(args json.RawMessage) (string, error) {
	var input CommentInput
	if err := tools.DecodeArgs(args, &input); err != nil {
		return "", err
	}
	return fmt.Sprintf("Comment %q on %s in session '%s'", input.Comment, describeTarget(input.Locator), input.Session), nil
}

// ShouldShow returns whether this tool should be visible.
func (t *CommentTool) ShouldShow() bool {
	return t.manager.HasSessions()
}
