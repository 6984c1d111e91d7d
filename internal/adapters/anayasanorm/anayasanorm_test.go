package anayasanorm

import (
	"context"
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

const sampleResultsPage = `<html><body>
<div class="bulunankararsayisi">128 Karar Bulundu</div>
<div class="birkarar">
<a href="/ND/2021/45">E. 2021/45, K. 2022/10</a>
</div>
</body></html>`

// WHAT: Search encodes resultsPerPage and sort as URL path segments rather
// than query parameters, and scrapes both the total count and decision
// reference out of the div.birkarar block.
func TestSearch_PathSegmentsAndBlockScrape(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(sampleResultsPage))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	result, err := a.Search(context.Background(), SearchRequest{ResultsPerPage: 20, Sort: "KararTarihiTersi"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	wantPath := "/SatirSayisi/20/Siralama/KararTarihiTersi/Ara"
	if gotPath != wantPath {
		t.Fatalf("path = %q, want %q", gotPath, wantPath)
	}

	if result.TotalRecords == nil || *result.TotalRecords != 128 {
		t.Fatalf("TotalRecords = %v, want 128", result.TotalRecords)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(result.Entries))
	}
	if !strings.Contains(result.Entries[0].DecisionNumber, "E. 2021/45") {
		t.Fatalf("DecisionNumber = %q", result.Entries[0].DecisionNumber)
	}
	if result.Entries[0].DocumentRef != "/ND/2021/45" {
		t.Fatalf("DocumentRef = %q", result.Entries[0].DocumentRef)
	}
}

// WHAT: default ResultsPerPage and Sort are applied when unset.
func TestSearch_DefaultsApplied(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`<html><body></body></html>`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	_, err := a.Search(context.Background(), SearchRequest{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotPath != "/SatirSayisi/10/Siralama/KararTarihiTersi/Ara" {
		t.Fatalf("path = %q", gotPath)
	}
}

// WHAT: GetDocument normalizes the div.KararMetni region.
func TestGetDocument_NormalizesKararMetni(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="KararMetni"><p>Karar metni burada.</p></div></body></html>`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	doc, err := a.GetDocument(context.Background(), "/ND/2021/45", 1)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.MarkdownChunk == nil || !strings.Contains(*doc.MarkdownChunk, "Karar metni burada") {
		t.Fatalf("markdown = %v", doc.MarkdownChunk)
	}
}
