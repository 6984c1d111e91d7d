package shield

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS builds the cross-origin middleware for the gateway's HTTP/SSE
// surface. Grounded on apimgr-vidveil's cors.Handler(cors.Options{...})
// wiring — the teacher repo never exposes a public CORS surface, so this is
// adopted wholesale from the rest of the pack for an MCP endpoint meant to
// be called from browser-based MCP clients.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Mcp-Session-Id", "Last-Event-ID"},
		ExposedHeaders:   []string{"Mcp-Session-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
