// Package gateway registers the 29 MCP tools this gateway exposes (spec.md
// §6), one register<ToolName> function per tool, following the teacher's
// own register<Operation>(srv) + inputSchema(...) + kit.RegisterMCPTool
// convention.
package gateway

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/serkanbykl/yargi-mcp/internal/adapters/anayasabireysel"
	"github.com/serkanbykl/yargi-mcp/internal/adapters/anayasanorm"
	"github.com/serkanbykl/yargi-mcp/internal/adapters/bedesten"
	"github.com/serkanbykl/yargi-mcp/internal/adapters/danistay"
	"github.com/serkanbykl/yargi-mcp/internal/adapters/emsal"
	"github.com/serkanbykl/yargi-mcp/internal/adapters/kik"
	"github.com/serkanbykl/yargi-mcp/internal/adapters/rekabet"
	"github.com/serkanbykl/yargi-mcp/internal/adapters/uyusmazlik"
	"github.com/serkanbykl/yargi-mcp/internal/adapters/yargitay"
	"github.com/serkanbykl/yargi-mcp/internal/kit"
)

// Adapters bundles every source adapter the gateway wires into the tool
// registry — one field per construction in cmd/gateway/main.go.
type Adapters struct {
	Yargitay        *yargitay.Adapter
	Danistay        *danistay.Adapter
	Emsal           *emsal.Adapter
	Uyusmazlik      *uyusmazlik.Adapter
	AnayasaNorm     *anayasanorm.Adapter
	AnayasaBireysel *anayasabireysel.Adapter
	KIK             *kik.Adapter
	Rekabet         *rekabet.Adapter
	Bedesten        map[bedesten.CourtKind]*bedesten.Adapter
}

// Register wires every tool from spec.md §6 onto srv.
func Register(srv *mcp.Server, a *Adapters) {
	registerSearchYargitayDetailed(srv, a.Yargitay)
	registerGetYargitayDocument(srv, a.Yargitay)

	registerSearchDanistayByKeyword(srv, a.Danistay)
	registerSearchDanistayDetailed(srv, a.Danistay)
	registerGetDanistayDocument(srv, a.Danistay)

	registerSearchEmsalDetailed(srv, a.Emsal)
	registerGetEmsalDocument(srv, a.Emsal)

	registerSearchUyusmazlik(srv, a.Uyusmazlik)
	registerGetUyusmazlikDocument(srv, a.Uyusmazlik)

	registerSearchAnayasaNorm(srv, a.AnayasaNorm)
	registerGetAnayasaNormDocument(srv, a.AnayasaNorm)

	registerSearchAnayasaBireysel(srv, a.AnayasaBireysel)
	registerGetAnayasaBireyselDocument(srv, a.AnayasaBireysel)

	registerSearchKIK(srv, a.KIK)
	registerGetKIKDocument(srv, a.KIK)

	registerSearchRekabet(srv, a.Rekabet)
	registerGetRekabetDocument(srv, a.Rekabet)

	for kind, adapter := range a.Bedesten {
		registerSearchBedesten(srv, kind, adapter)
		registerGetBedestenDocument(srv, kind, adapter)
	}
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

