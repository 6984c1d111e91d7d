package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/serkanbykl/yargi-mcp/internal/adapters/bedesten"
	"github.com/serkanbykl/yargi-mcp/internal/kit"
)

// bedestenToolNames maps each court kind to the name fragment used in its
// pair of tool names, so the six search/get tools stay in one place.
var bedestenToolNames = map[bedesten.CourtKind]string{
	bedesten.YargitayHukuk: "yargitay_hukuk",
	bedesten.YargitayCeza:  "yargitay_ceza",
	bedesten.DanistayKind:  "danistay",
	bedesten.YerelHukuk:    "yerel_hukuk",
	bedesten.IstinafHukuk:  "istinaf_hukuk",
	bedesten.KYBKind:       "kyb",
}

func registerSearchBedesten(srv *mcp.Server, kind bedesten.CourtKind, a *bedesten.Adapter) {
	fragment := bedestenToolNames[kind]

	tool := &mcp.Tool{
		Name:        fmt.Sprintf("search_%s_bedesten", fragment),
		Description: fmt.Sprintf("Search %s decisions via the Bedesten unified document gateway", fragment),
		InputSchema: inputSchema(map[string]any{
			"keyword":        map[string]any{"type": "string"},
			"chamber":        map[string]any{"type": "string"},
			"caseNumber":     map[string]any{"type": "string"},
			"decisionNumber": map[string]any{"type": "string"},
			"dateStart":      map[string]any{"type": "string"},
			"dateEnd":        map[string]any{"type": "string"},
			"pageNumber":     map[string]any{"type": "integer"},
			"pageSize":       map[string]any{"type": "integer", "minimum": 1, "maximum": 100},
		}, nil),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		req := r.(*bedesten.SearchRequest)
		req.Kind = kind
		return a.Search(ctx, *req)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var req bedesten.SearchRequest
		if err := json.Unmarshal(r.Params.Arguments, &req); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &req}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func registerGetBedestenDocument(srv *mcp.Server, kind bedesten.CourtKind, a *bedesten.Adapter) {
	fragment := bedestenToolNames[kind]

	type req struct {
		DocumentID string `json:"documentId"`
		Page       int    `json:"page"`
	}

	tool := &mcp.Tool{
		Name:        fmt.Sprintf("get_%s_bedesten_document_markdown", fragment),
		Description: fmt.Sprintf("Fetch a %s decision from Bedesten as single-page Markdown", fragment),
		InputSchema: inputSchema(map[string]any{
			"documentId": map[string]any{"type": "string"},
			"page":       map[string]any{"type": "integer"},
		}, []string{"documentId"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return a.GetDocument(ctx, p.DocumentID, p.Page)
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
