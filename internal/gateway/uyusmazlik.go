package gateway

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/serkanbykl/yargi-mcp/internal/adapters/uyusmazlik"
	"github.com/serkanbykl/yargi-mcp/internal/kit"
)

func registerSearchUyusmazlik(srv *mcp.Server, a *uyusmazlik.Adapter) {
	tool := &mcp.Tool{
		Name:        "search_uyusmazlik_decisions",
		Description: "Search Court of Jurisdictional Disputes (Uyuşmazlık Mahkemesi) decisions",
		InputSchema: inputSchema(map[string]any{
			"section":        map[string]any{"type": "string", "enum": uyusmazlik.Section.Names()},
			"disputeType":    map[string]any{"type": "string", "enum": uyusmazlik.DisputeType.Names()},
			"outcomes":       map[string]any{"type": "array", "items": map[string]any{"type": "string", "enum": uyusmazlik.Outcome.Names()}},
			"caseNumber":     map[string]any{"type": "string"},
			"decisionNumber": map[string]any{"type": "string"},
			"year":           map[string]any{"type": "string"},
			"gazette":        map[string]any{"type": "string"},
			"icerik":         map[string]any{"type": "string", "description": "Free-text body search"},
			"konu":           map[string]any{"type": "string", "description": "Free-text subject search"},
			"taraflar":       map[string]any{"type": "string", "description": "Free-text parties search"},
			"bolum":          map[string]any{"type": "string"},
			"basvuranMercii": map[string]any{"type": "string"},
		}, nil),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		req := r.(*uyusmazlik.SearchRequest)
		return a.Search(ctx, *req)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var req uyusmazlik.SearchRequest
		if err := json.Unmarshal(r.Params.Arguments, &req); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &req}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func registerGetUyusmazlikDocument(srv *mcp.Server, a *uyusmazlik.Adapter) {
	type req struct {
		URL  string `json:"url"`
		Page int    `json:"page"`
	}

	tool := &mcp.Tool{
		Name:        "get_uyusmazlik_document_markdown_from_url",
		Description: "Fetch a Court of Jurisdictional Disputes decision page (by its full URL, not an id) as paginated Markdown",
		InputSchema: inputSchema(map[string]any{
			"url":  map[string]any{"type": "string", "description": "documentRef from search_uyusmazlik_decisions"},
			"page": map[string]any{"type": "integer"},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return a.GetDocumentFromURL(ctx, p.URL, p.Page)
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
