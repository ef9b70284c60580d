package mcp

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/syntaxpresso/core/internal/response"
)

// createEnvelopeResponse wraps the command envelope in a tool result. The
// envelope travels as JSON text and as structured content.
func createEnvelopeResponse(r response.Response) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	if err := response.Write(&buf, r); err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: strings.TrimSuffix(buf.String(), "\n")},
		},
		StructuredContent: r,
		// Tool failures are reported inside the result with IsError set,
		// not as protocol errors, so the client can see and correct them
		IsError: !r.Success,
	}, nil
}
