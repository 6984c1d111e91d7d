package gateway

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/serkanbykl/yargi-mcp/internal/adapters/rekabet"
	"github.com/serkanbykl/yargi-mcp/internal/kit"
)

func registerSearchRekabet(srv *mcp.Server, a *rekabet.Adapter) {
	tool := &mcp.Tool{
		Name:        "search_rekabet_kurumu_decisions",
		Description: "Search Competition Authority (Rekabet Kurumu) board decisions",
		InputSchema: inputSchema(map[string]any{
			"decisionType":      map[string]any{"type": "string", "enum": rekabet.DecisionType.Names()},
			"caseNumber":        map[string]any{"type": "string"},
			"decisionNumber":    map[string]any{"type": "string"},
			"decisionDateStart": map[string]any{"type": "string"},
			"decisionDateEnd":   map[string]any{"type": "string"},
			"subject":           map[string]any{"type": "string"},
			"pageNumber":        map[string]any{"type": "integer"},
		}, nil),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		req := r.(*rekabet.SearchRequest)
		return a.Search(ctx, *req)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var req rekabet.SearchRequest
		if err := json.Unmarshal(r.Params.Arguments, &req); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &req}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func registerGetRekabetDocument(srv *mcp.Server, a *rekabet.Adapter) {
	type req struct {
		LandingPath string `json:"landingPath"`
		Page        int    `json:"page"`
	}

	tool := &mcp.Tool{
		Name:        "get_rekabet_kurumu_document",
		Description: "Fetch a Rekabet Kurumu decision PDF page as Markdown",
		InputSchema: inputSchema(map[string]any{
			"landingPath": map[string]any{"type": "string", "description": "documentRef from search_rekabet_kurumu_decisions"},
			"page":        map[string]any{"type": "integer", "description": "1-based PDF page number"},
		}, []string{"landingPath"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return a.GetDocument(ctx, p.LandingPath, p.Page)
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
