package kit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/serkanbykl/yargi-mcp/internal/toolerr"
)

// MCPDecodeResult holds the decoded request and an optional context
// enrichment function run before the endpoint executes.
type MCPDecodeResult struct {
	Request   any
	EnrichCtx func(context.Context) context.Context
}

// RegisterMCPTool registers an Endpoint as an MCP tool on srv. decode
// extracts the typed request from the raw MCP call arguments. Tool-level
// failures (invalid input, upstream errors) are reported via
// mcp.CallToolResult.SetError rather than a Go error return, so the
// JSON-RPC transport never sees them as protocol errors — grounded on
// kit/transport_mcp.go and mcprt/bridge.go's identical SetError convention,
// generalized to map toolerr.Kind into the error text the client sees.
func RegisterMCPTool(srv *mcp.Server, tool *mcp.Tool, endpoint Endpoint, decode func(*mcp.CallToolRequest) (*MCPDecodeResult, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		decoded, err := decode(req)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("invalid arguments: %w", err))
			return &res, nil
		}
		if decoded.EnrichCtx != nil {
			ctx = decoded.EnrichCtx(ctx)
		}

		resp, err := endpoint(ctx, decoded.Request)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(errors.New(toolErrorMessage(err)))
			return &res, nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

// toolErrorMessage formats a tool-boundary error for the client, prefixing
// it with its toolerr.Kind when one is present so clients can distinguish
// "bad input" from "upstream broke" without parsing free text.
func toolErrorMessage(err error) string {
	te, ok := toolerr.As(err)
	if !ok {
		return err.Error()
	}
	return fmt.Sprintf("[%s] %s", te.Kind, te.Message)
}
