package emsal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/serkanbykl/yargi-mcp/internal/httpfetch"
	"github.com/serkanbykl/yargi-mcp/internal/normalize"
)

func newTestAdapter(t *testing.T, srv *httptest.Server) *Adapter {
	t.Helper()
	client, err := httpfetch.New(httpfetch.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	return &Adapter{http: client, html: normalize.NewHTMLNormalizer()}
}

// WHAT: Search sends the upstream's space-containing key verbatim and joins
// RegionalChambers with "+".
func TestSearch_SpaceKeyAndPlusJoin(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"data":[],"recordsTotal":0}}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	_, err := a.Search(context.Background(), SearchRequest{
		RegionalChambers: []string{"1. Hukuk Dairesi", "2. Hukuk Dairesi"},
		PageNumber:       1,
		PageSize:         10,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	got, ok := gotBody["Bam Hukuk Mahkemeleri"]
	if !ok {
		t.Fatal(`expected wire key "Bam Hukuk Mahkemeleri" to be present`)
	}
	if got != "1. Hukuk Dairesi+2. Hukuk Dairesi" {
		t.Fatalf("Bam Hukuk Mahkemeleri = %v, want plus-joined chambers", got)
	}
}
