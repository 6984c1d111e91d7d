package gateway

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/serkanbykl/yargi-mcp/internal/adapters/danistay"
	"github.com/serkanbykl/yargi-mcp/internal/kit"
)

func registerSearchDanistayByKeyword(srv *mcp.Server, a *danistay.Adapter) {
	tool := &mcp.Tool{
		Name:        "search_danistay_by_keyword",
		Description: "Search Council of State (Danıştay) decisions by Boolean keyword groups",
		InputSchema: inputSchema(map[string]any{
			"andKeywords":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "All of these keywords must appear"},
			"orKeywords":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "At least one of these keywords must appear"},
			"notAndKeywords": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "None of these keywords together may appear"},
			"notOrKeywords":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "None of these keywords individually may appear"},
			"pageNumber":     map[string]any{"type": "integer"},
			"pageSize":       map[string]any{"type": "integer", "minimum": 1, "maximum": 100},
		}, nil),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		req := r.(*danistay.KeywordSearchRequest)
		return a.SearchByKeyword(ctx, *req)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var req danistay.KeywordSearchRequest
		if err := json.Unmarshal(r.Params.Arguments, &req); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &req}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func registerSearchDanistayDetailed(srv *mcp.Server, a *danistay.Adapter) {
	tool := &mcp.Tool{
		Name:        "search_danistay_detailed",
		Description: "Search Council of State (Danıştay) decisions with chamber, case/decision range, and legislation filters",
		InputSchema: inputSchema(map[string]any{
			"chamber":             map[string]any{"type": "string"},
			"caseNumberStart":     map[string]any{"type": "string"},
			"caseNumberEnd":       map[string]any{"type": "string"},
			"decisionNumberStart": map[string]any{"type": "string"},
			"decisionNumberEnd":   map[string]any{"type": "string"},
			"dateStart":           map[string]any{"type": "string"},
			"dateEnd":             map[string]any{"type": "string"},
			"legislationNumber":   map[string]any{"type": "string"},
			"legislationName":     map[string]any{"type": "string"},
			"article":             map[string]any{"type": "string"},
			"sort":                map[string]any{"type": "string"},
			"pageNumber":          map[string]any{"type": "integer"},
			"pageSize":            map[string]any{"type": "integer", "minimum": 1, "maximum": 100},
		}, nil),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		req := r.(*danistay.DetailedSearchRequest)
		return a.SearchDetailed(ctx, *req)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var req danistay.DetailedSearchRequest
		if err := json.Unmarshal(r.Params.Arguments, &req); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &req}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func registerGetDanistayDocument(srv *mcp.Server, a *danistay.Adapter) {
	type req struct {
		ID   string `json:"id"`
		Page int    `json:"page"`
	}

	tool := &mcp.Tool{
		Name:        "get_danistay_document_markdown",
		Description: "Fetch a Danıştay decision as paginated Markdown",
		InputSchema: inputSchema(map[string]any{
			"id":   map[string]any{"type": "string"},
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
