package gateway

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/serkanbykl/yargi-mcp/internal/adapters/anayasabireysel"
	"github.com/serkanbykl/yargi-mcp/internal/kit"
)

func registerSearchAnayasaBireysel(srv *mcp.Server, a *anayasabireysel.Adapter) {
	tool := &mcp.Tool{
		Name:        "search_anayasa_bireysel_basvuru_report",
		Description: "Search Constitutional Court individual application (bireysel başvuru) decisions",
		InputSchema: inputSchema(map[string]any{
			"keywords":          map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"applicationNo":     map[string]any{"type": "string"},
			"decisionTypes":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"rightsViolated":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"subject":           map[string]any{"type": "string"},
			"decisionDateStart": map[string]any{"type": "string"},
			"decisionDateEnd":   map[string]any{"type": "string"},
			"pageNumber":        map[string]any{"type": "integer"},
		}, nil),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		req := r.(*anayasabireysel.SearchRequest)
		return a.Search(ctx, *req)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var req anayasabireysel.SearchRequest
		if err := json.Unmarshal(r.Params.Arguments, &req); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &req}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func registerGetAnayasaBireyselDocument(srv *mcp.Server, a *anayasabireysel.Adapter) {
	type req struct {
		Path string `json:"path"`
		Page int    `json:"page"`
	}

	tool := &mcp.Tool{
		Name:        "get_anayasa_bireysel_basvuru_document_markdown",
		Description: "Fetch a Constitutional Court individual application decision as paginated Markdown",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "documentRef from search_anayasa_bireysel_basvuru_report, e.g. /BB/2020/1234"},
			"page": map[string]any{"type": "integer"},
		}, []string{"path"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return a.GetDocument(ctx, p.Path, p.Page)
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
