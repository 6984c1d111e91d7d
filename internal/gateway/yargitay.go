package gateway

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/serkanbykl/yargi-mcp/internal/adapters/yargitay"
	"github.com/serkanbykl/yargi-mcp/internal/kit"
)

func registerSearchYargitayDetailed(srv *mcp.Server, a *yargitay.Adapter) {
	tool := &mcp.Tool{
		Name:        "search_yargitay_detailed",
		Description: "Search Court of Cassation (Yargıtay) decisions with chamber and date filters",
		InputSchema: inputSchema(map[string]any{
			"arananKelime":      map[string]any{"type": "string", "description": "Keyword phrase, upstream token syntax applies"},
			"chamber":           map[string]any{"type": "string", "description": "Chamber name, or empty for all chambers", "enum": yargitay.Chamber.Names()},
			"caseYearStart":     map[string]any{"type": "string"},
			"caseYearEnd":       map[string]any{"type": "string"},
			"decisionYearStart": map[string]any{"type": "string"},
			"decisionYearEnd":   map[string]any{"type": "string"},
			"dateStart":         map[string]any{"type": "string"},
			"dateEnd":           map[string]any{"type": "string"},
			"sort":              map[string]any{"type": "string"},
			"direction":         map[string]any{"type": "string"},
			"pageNumber":        map[string]any{"type": "integer"},
			"pageSize":          map[string]any{"type": "integer", "minimum": 1, "maximum": 100},
		}, nil),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		req := r.(*yargitay.SearchRequest)
		return a.Search(ctx, *req)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var req yargitay.SearchRequest
		if err := json.Unmarshal(r.Params.Arguments, &req); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &req}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func registerGetYargitayDocument(srv *mcp.Server, a *yargitay.Adapter) {
	type req struct {
		ID   string `json:"id"`
		Page int    `json:"page"`
	}

	tool := &mcp.Tool{
		Name:        "get_yargitay_document_markdown",
		Description: "Fetch a Yargıtay decision as paginated Markdown",
		InputSchema: inputSchema(map[string]any{
			"id":   map[string]any{"type": "string", "description": "Decision id from search_yargitay_detailed"},
			"page": map[string]any{"type": "integer", "description": "1-indexed page of the Markdown document"},
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
