// Package mcp serves the command catalog as Model Context Protocol tools
// over stdio. Every tool answers with the same JSON envelope as the CLI.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	runtimedebug "runtime/debug"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/syntaxpresso/core/internal/commands"
	"github.com/syntaxpresso/core/internal/debug"
	"github.com/syntaxpresso/core/internal/response"
	"github.com/syntaxpresso/core/internal/version"
)

// ServerName is reported to clients during initialization
const ServerName = "syntaxpresso"

// Server wraps the SDK server with the registered tools
type Server struct {
	server *mcp.Server
	tools  []string
}

// NewServer creates a server exposing every command as a tool
func NewServer() *Server {
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    ServerName,
			Version: version.Version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	for _, cmd := range commands.All() {
		s.server.AddTool(&mcp.Tool{
			Name:        cmd.Name,
			Description: cmd.Usage,
			InputSchema: inputSchema(cmd.Params),
		}, s.handler(cmd))
		s.tools = append(s.tools, cmd.Name)
	}
	debug.LogMCP("registered %d tools\n", len(s.tools))
}

// Tools lists the registered tool names in registration order
func (s *Server) Tools() []string {
	return append([]string(nil), s.tools...)
}

// inputSchema describes a command's parameters as a JSON object schema
func inputSchema(params []commands.Param) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(params)),
	}
	for _, p := range params {
		prop := &jsonschema.Schema{
			Type:        string(p.Type),
			Description: p.Usage,
		}
		for _, e := range p.Enum {
			prop.Enum = append(prop.Enum, e)
		}
		schema.Properties[p.Name] = prop
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	return schema
}

func (s *Server) handler(cmd commands.Command) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.recoverFromPanic(cmd.Name, func() (*mcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			return createEnvelopeResponse(commands.Execute(ctx, cmd, args))
		})
	}
}

// recoverFromPanic turns a panic in a tool into an error result so one bad
// request cannot take the server down
func (s *Server) recoverFromPanic(operation string, handler func() (*mcp.CallToolResult, error)) (result *mcp.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			debug.Log("MCP", "PANIC RECOVERED in %s: %v\n%s", operation, r, runtimedebug.Stack())
			result, err = createErrorResponse(operation, fmt.Errorf("internal error: %v", r))
		}
	}()
	return handler()
}

// Start serves on stdin/stdout until ctx is cancelled or the client leaves
func (s *Server) Start(ctx context.Context) error {
	debug.LogMCP("starting %s %s with stdio transport\n", ServerName, version.Version)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves a single session over t
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

// createErrorResponse reports a failure that happened outside a command
func createErrorResponse(operation string, err error) (*mcp.CallToolResult, error) {
	return createEnvelopeResponse(response.New(operation, "", nil, err))
}
