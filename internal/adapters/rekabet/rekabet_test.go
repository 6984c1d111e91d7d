package rekabet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/serkanbykl/yargi-mcp/internal/httpfetch"
	"github.com/serkanbykl/yargi-mcp/internal/normalize"
)

func newTestAdapter(t *testing.T, srv *httptest.Server) *Adapter {
	t.Helper()
	client, err := httpfetch.New(httpfetch.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	return &Adapter{http: client, html: normalize.NewHTMLNormalizer(), pdf: normalize.NewPDFNormalizer()}
}

const sampleResultsPage = `<html><body>
<div class="yazi01">Toplam : 37 karar bulundu</div>
<div id="kararList">
<table class="equalDivide">
<tr><td>23-45/678-210</td><td>23-45/678-210</td><td>Birleşme ve Devralma işlemi</td><td>12.03.2023</td>
<td><a href="/Kararlar/23-45-678-210">Görüntüle</a></td></tr>
</table>
</div>
</body></html>`

// WHAT: Search scrapes the total-records count from div.yazi01 and the
// decision row from the equalDivide table, and computes TotalPages from a
// fixed page size of 10.
func TestSearch_ScrapesTableAndComputesTotalPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(sampleResultsPage))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	result, err := a.Search(context.Background(), SearchRequest{Subject: "test"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if result.TotalRecords == nil || *result.TotalRecords != 37 {
		t.Fatalf("TotalRecords = %v, want 37", result.TotalRecords)
	}
	if result.TotalPages == nil || *result.TotalPages != 4 {
		t.Fatalf("TotalPages = %v, want 4 (ceil(37/10))", result.TotalPages)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(result.Entries))
	}
	if result.Entries[0].DocumentRef != "/Kararlar/23-45-678-210" {
		t.Fatalf("DocumentRef = %q", result.Entries[0].DocumentRef)
	}
}

// WHAT: Search rejects a decisionType value outside the GUID-keyed closed
// set before contacting upstream.
func TestSearch_RejectsUnknownDecisionType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream should not be contacted for an invalid decisionType")
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	_, err := a.Search(context.Background(), SearchRequest{DecisionType: "Uydurma Tür"})
	if err == nil {
		t.Fatal("expected an error for an unknown decisionType")
	}
}

// WHAT: findPDFURL falls back from anchor to iframe to embed, in that
// order, stopping at the first present candidate.
func TestFindPDFURL_FallbackChain(t *testing.T) {
	anchorOnly := mustParse(t, `<html><body><a href="/files/karar.pdf">PDF</a></body></html>`)
	if got := findPDFURL(anchorOnly); got != "/files/karar.pdf" {
		t.Fatalf("anchor case: got %q", got)
	}

	iframeOnly := mustParse(t, `<html><body><iframe src="/viewer/karar.pdf"></iframe></body></html>`)
	if got := findPDFURL(iframeOnly); got != "/viewer/karar.pdf" {
		t.Fatalf("iframe case: got %q", got)
	}

	embedOnly := mustParse(t, `<html><body><embed src="/embed/karar.pdf"></embed></body></html>`)
	if got := findPDFURL(embedOnly); got != "/embed/karar.pdf" {
		t.Fatalf("embed case: got %q", got)
	}

	none := mustParse(t, `<html><body><p>no document here</p></body></html>`)
	if got := findPDFURL(none); got != "" {
		t.Fatalf("no-candidate case: got %q, want empty", got)
	}
}

func mustParse(t *testing.T, raw string) *html.Node {
	t.Helper()
	n, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	return n
}
