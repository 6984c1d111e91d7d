package danistay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
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

// WHAT: SearchByKeyword quotes every non-empty keyword before sending, per
// spec.md §4.5.2.
func TestSearchByKeyword_QuotesKeywords(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/aramalist" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"data":[],"recordsTotal":0}}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	_, err := a.SearchByKeyword(context.Background(), KeywordSearchRequest{
		AndKeywords: []string{"imar"}, PageNumber: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatalf("SearchByKeyword: %v", err)
	}

	andKelimeler := gotBody["andKelimeler"].([]any)
	if len(andKelimeler) != 1 || andKelimeler[0] != `"imar"` {
		t.Fatalf("andKelimeler = %v, want quoted keyword", andKelimeler)
	}
}

// WHAT: SearchDetailed always sends every optional field as a present key,
// even when empty, since the upstream requires the key to be present.
func TestSearchDetailed_CoercesAbsentToEmptyString(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"data":[],"recordsTotal":0}}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	_, err := a.SearchDetailed(context.Background(), DetailedSearchRequest{PageNumber: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("SearchDetailed: %v", err)
	}
	for _, key := range []string{"daire", "esasNoBaslangic", "mevzuatAdi", "madde"} {
		if _, ok := gotBody[key]; !ok {
			t.Fatalf("expected key %q to be present even when empty", key)
		}
		if gotBody[key] != "" {
			t.Fatalf("key %q = %v, want empty string", key, gotBody[key])
		}
	}
}

// WHAT: GetDocument treats the response body as direct HTML, unlike
// yargitay's JSON-wrapped "data" field.
func TestGetDocument_ParsesDirectHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><div class="WordSection1"><p>Danistay karari</p></div></body></html>`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	doc, err := a.GetDocument(context.Background(), "999", 1)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.MarkdownChunk == nil || !strings.Contains(*doc.MarkdownChunk, "Danistay karari") {
		t.Fatalf("markdown chunk = %v", doc.MarkdownChunk)
	}
}
