package gateway

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/serkanbykl/yargi-mcp/internal/adapters/kik"
	"github.com/serkanbykl/yargi-mcp/internal/kit"
)

func registerSearchKIK(srv *mcp.Server, a *kik.Adapter) {
	tool := &mcp.Tool{
		Name:        "search_kik_decisions",
		Description: "Search Public Procurement Authority (Kamu İhale Kurumu) board decisions",
		InputSchema: inputSchema(map[string]any{
			"decisionType":         map[string]any{"type": "string", "enum": kik.DecisionType.Names()},
			"decisionYear":         map[string]any{"type": "string"},
			"decisionNumber":       map[string]any{"type": "string"},
			"caseYear":             map[string]any{"type": "string"},
			"caseNumber":           map[string]any{"type": "string"},
			"subject":              map[string]any{"type": "string"},
			"applicantName":        map[string]any{"type": "string"},
			"contractingAuthority": map[string]any{"type": "string"},
			"pageNumber":           map[string]any{"type": "integer"},
		}, nil),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		req := r.(*kik.SearchRequest)
		return a.Search(ctx, *req)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var req kik.SearchRequest
		if err := json.Unmarshal(r.Params.Arguments, &req); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &req}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func registerGetKIKDocument(srv *mcp.Server, a *kik.Adapter) {
	type req struct {
		ID   string `json:"id"`
		Page int    `json:"page"`
	}

	tool := &mcp.Tool{
		Name:        "get_kik_document_markdown",
		Description: "Fetch a KİK board decision as paginated Markdown",
		InputSchema: inputSchema(map[string]any{
			"id":   map[string]any{"type": "string", "description": "opaque id from search_kik_decisions"},
			"page": map[string]any{"type": "integer"},
		}, []string{"id"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return a.GetDocument(ctx, p.ID, p.Page)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
