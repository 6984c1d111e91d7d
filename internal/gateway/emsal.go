package gateway

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/serkanbykl/yargi-mcp/internal/adapters/emsal"
	"github.com/serkanbykl/yargi-mcp/internal/kit"
)

func registerSearchEmsalDetailed(srv *mcp.Server, a *emsal.Adapter) {
	tool := &mcp.Tool{
		Name:        "search_emsal_detailed_decisions",
		Description: "Search UYAP precedent-index (Emsal) decisions with regional chamber and date filters",
		InputSchema: inputSchema(map[string]any{
			"keyword":             map[string]any{"type": "string"},
			"regionalChambers":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Regional courts of appeal chamber names"},
			"caseNumberStart":     map[string]any{"type": "string"},
			"caseNumberEnd":       map[string]any{"type": "string"},
			"decisionNumberStart": map[string]any{"type": "string"},
			"decisionNumberEnd":   map[string]any{"type": "string"},
			"dateStart":           map[string]any{"type": "string"},
			"dateEnd":             map[string]any{"type": "string"},
			"sort":                map[string]any{"type": "string"},
			"pageNumber":          map[string]any{"type": "integer"},
			"pageSize":            map[string]any{"type": "integer", "minimum": 1, "maximum": 100},
		}, nil),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		req := r.(*emsal.SearchRequest)
		return a.Search(ctx, *req)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var req emsal.SearchRequest
		if err := json.Unmarshal(r.Params.Arguments, &req); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &req}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func registerGetEmsalDocument(srv *mcp.Server, a *emsal.Adapter) {
	type req struct {
		ID   string `json:"id"`
		Page int    `json:"page"`
	}

	tool := &mcp.Tool{
		Name:        "get_emsal_document_markdown",
		Description: "Fetch a precedent-index decision as paginated Markdown",
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
