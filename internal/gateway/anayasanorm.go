package gateway

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/serkanbykl/yargi-mcp/internal/adapters/anayasanorm"
	"github.com/serkanbykl/yargi-mcp/internal/kit"
)

func registerSearchAnayasaNorm(srv *mcp.Server, a *anayasanorm.Adapter) {
	tool := &mcp.Tool{
		Name:        "search_anayasa_norm_denetimi_decisions",
		Description: "Search Constitutional Court norm-control (iptal/itiraz) decisions",
		InputSchema: inputSchema(map[string]any{
			"allKeywords":          map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"anyKeywords":          map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"excludeKeywords":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"period":               map[string]any{"type": "string"},
			"caseNumber":           map[string]any{"type": "string"},
			"decisionNumber":       map[string]any{"type": "string"},
			"applicationDateStart": map[string]any{"type": "string"},
			"applicationDateEnd":   map[string]any{"type": "string"},
			"decisionDateStart":    map[string]any{"type": "string"},
			"decisionDateEnd":      map[string]any{"type": "string"},
			"gazetteDateStart":     map[string]any{"type": "string"},
			"gazetteDateEnd":       map[string]any{"type": "string"},
			"applicant":            map[string]any{"type": "string"},
			"member":               map[string]any{"type": "string"},
			"rapporteur":           map[string]any{"type": "string"},
			"normType":             map[string]any{"type": "string"},
			"article":              map[string]any{"type": "string"},
			"reviewOutcome":        map[string]any{"type": "string"},
			"reason":               map[string]any{"type": "string"},
			"gazette":              map[string]any{"type": "string"},
			"resultsPerPage":       map[string]any{"type": "integer"},
			"pageNumber":           map[string]any{"type": "integer"},
			"sort":                 map[string]any{"type": "string"},
		}, nil),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		req := r.(*anayasanorm.SearchRequest)
		return a.Search(ctx, *req)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var req anayasanorm.SearchRequest
		if err := json.Unmarshal(r.Params.Arguments, &req); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &req}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func registerGetAnayasaNormDocument(srv *mcp.Server, a *anayasanorm.Adapter) {
	type req struct {
		URL  string `json:"url"`
		Page int    `json:"page"`
	}

	tool := &mcp.Tool{
		Name:        "get_anayasa_norm_denetimi_document_markdown",
		Description: "Fetch a Constitutional Court norm-control decision as paginated Markdown",
		InputSchema: inputSchema(map[string]any{
			"url":  map[string]any{"type": "string", "description": "documentRef from search_anayasa_norm_denetimi_decisions"},
			"page": map[string]any{"type": "integer"},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return a.GetDocument(ctx, p.URL, p.Page)
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
