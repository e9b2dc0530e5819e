package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrhq/annotator/pkg/tools"
	"github.com/entrhq/annotator/pkg/tools/browser"
)

var implementation = &mcp.Implementation{Name: "annotator", Version: version}

// toolServer keeps the MCP tool list in step with tool visibility. Page
// tools are listed only while a session is open.
type toolServer struct {
	srv      *mcp.Server
	registry *browser.ToolRegistry

	mu     sync.Mutex
	listed map[string]bool
}

// newServer exposes the currently visible browser tools on an MCP server.
func newServer(registry *browser.ToolRegistry) *mcp.Server {
	s := &toolServer{
		srv:      mcp.NewServer(implementation, nil),
		registry: registry,
		listed:   make(map[string]bool),
	}
	s.sync()
	return s.srv
}

// sync adds tools that became visible and removes those that were hidden.
func (s *toolServer) sync() {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := make(map[string]bool)
	for _, t := range s.registry.VisibleTools() {
		visible[t.Name()] = true
		if !s.listed[t.Name()] {
			s.srv.AddTool(&mcp.Tool{
				Name:        t.Name(),
				Description: t.Description(),
				InputSchema: t.Schema(),
			}, s.handler(t))
		}
	}

	var hidden []string
	for name := range s.listed {
		if !visible[name] {
			hidden = append(hidden, name)
		}
	}
	if len(hidden) > 0 {
		s.srv.RemoveTools(hidden...)
		debugLog.Debugf("hid tools: %v", hidden)
	}
	s.listed = visible
}

// handler adapts a tool to an MCP handler. Tool errors and unsuccessful
// annotation responses are both reported as tool errors with the tool's
// output as content. A client holding a stale tool list gets the reason
// the tool is unavailable instead of a run.
func (s *toolServer) handler(t tools.Tool) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := s.registry.Unavailable(t); err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}
		defer s.sync()

		args := req.Params.Arguments
		if len(args) == 0 {
			args = json.RawMessage("{}")
		}

		output, meta, err := t.Execute(ctx, args)
		if err != nil {
			debugLog.Warnf("%s failed: %v", t.Name(), err)
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("%s: %w", t.Name(), err))
			return &res, nil
		}

		res := &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: output}},
		}
		if success, ok := meta["success"].(bool); ok && !success {
			res.IsError = true
		}
		return res, nil
	}
}
