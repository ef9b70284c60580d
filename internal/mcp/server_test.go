package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syntaxpresso/core/internal/commands"
)

// envelope decodes the JSON text of a tool result
func envelope(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	return decoded
}

func call(t *testing.T, s *Server, tool, args string) *mcp.CallToolResult {
	t.Helper()
	cmd, ok := commands.Lookup(tool)
	require.True(t, ok)
	result, err := s.handler(cmd)(context.Background(), &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Name: tool, Arguments: json.RawMessage(args)},
	})
	require.NoError(t, err)
	return result
}

func TestToolsMatchCommands(t *testing.T) {
	s := NewServer()
	var names []string
	for _, c := range commands.All() {
		names = append(names, c.Name)
	}
	assert.Equal(t, names, s.Tools())
}

func TestInputSchema(t *testing.T) {
	cmd, ok := commands.Lookup("create-entity-field")
	require.True(t, ok)
	schema := inputSchema(cmd.Params)

	assert.Equal(t, "object", schema.Type)
	assert.ElementsMatch(t, []string{"field_kind", "field_config"}, schema.Required)
	assert.Equal(t, "object", schema.Properties["field_config"].Type)
	assert.Equal(t, "string", schema.Properties["entity_file_b64"].Type)
	assert.Equal(t, []any{"basic", "id", "enum", "association"}, schema.Properties["field_kind"].Enum)
}

func TestCallToolSuccess(t *testing.T) {
	result := call(t, NewServer(), "get-basic-types", `{"kind": "time_zone"}`)
	assert.False(t, result.IsError)

	env := envelope(t, result)
	assert.Equal(t, "get-basic-types", env["command"])
	assert.Equal(t, true, env["success"])
	types := env["data"].(map[string]any)["types"].([]any)
	assert.NotEmpty(t, types)
}

func TestCallToolFailure(t *testing.T) {
	result := call(t, NewServer(), "get-basic-types", `{"kind": "blob"}`)
	assert.True(t, result.IsError)

	env := envelope(t, result)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "validation", env["error_kind"])
	assert.Contains(t, env["error"], "blob")
}

func TestCallToolWithoutArguments(t *testing.T) {
	cmd, ok := commands.Lookup("get-basic-types")
	require.True(t, ok)
	result, err := NewServer().handler(cmd)(context.Background(), &mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestRecoverFromPanic(t *testing.T) {
	s := NewServer()
	result, err := s.recoverFromPanic("create-relationship", func() (*mcp.CallToolResult, error) {
		panic("boom")
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)

	env := envelope(t, result)
	assert.Equal(t, "create-relationship", env["command"])
	assert.Equal(t, "internal", env["error_kind"])
	assert.Contains(t, env["error"], "boom")
}

func TestSessionCreatesEntity(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := NewServer().Connect(ctx, serverTransport)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, tools.Tools, len(commands.All()))

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "create-jpa-entity",
		Arguments: map[string]any{
			"cwd":          root,
			"package_name": "com.shop",
			"file_name":    "Order",
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError, "result: %v", envelope(t, result))

	content, err := os.ReadFile(filepath.Join(root, "src", "main", "java", "com", "shop", "Order.java"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "@Entity\npublic class Order {\n}\n")
}
