// Package tools defines the contract shared by every page tool: a named
// operation with a JSON Schema for its arguments, invoked with raw JSON.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Tool is a single operation exposed to callers such as the MCP server or
// the headless runner.
//
// Example invocation:
//
//	out, meta, err := tool.Execute(ctx, json.RawMessage(`{"session":"main","selector":"h1"}`))
type Tool interface {
	// Name returns the unique identifier for this tool (e.g., "browser_annotate")
	Name() string

	// Description returns a human-readable description of what this tool does
	Description() string

	// Schema returns the JSON Schema of the arguments object
	Schema() map[string]interface{}

	// Execute runs the tool with JSON arguments.
	// Returns: (result string, metadata map, error)
	// Metadata is optional and carries structured values for the caller.
	Execute(ctx context.Context, args json.RawMessage) (string, map[string]interface{}, error)
}

// Previewable tools can describe an invocation in one line without running it.
type Previewable interface {
	GeneratePreview(args json.RawMessage) (string, error)
}

// Conditional tools decide at listing time whether they are offered.
type Conditional interface {
	ShouldShow() bool
}

// Visible reports whether t should be listed. Tools without a condition
// are always listed.
func Visible(t Tool) bool {
	if c, ok := t.(Conditional); ok {
		return c.ShouldShow()
	}
	return true
}

// BaseToolSchema creates a common JSON schema structure for a tool
// with the given properties and required fields
func BaseToolSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// DecodeArgs unmarshals tool arguments into v. Empty or null arguments
// decode as an empty object.
func DecodeArgs(args json.RawMessage, v interface{}) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// Find returns the tool with the given name.
func Find(list []Tool, name string) (Tool, bool) {
	for _, t := range list {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}
