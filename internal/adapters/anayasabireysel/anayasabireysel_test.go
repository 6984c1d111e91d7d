package anayasabireysel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
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
<div class="KararBulteniBirKarar">
<a href="/BB/2020/1234">Örnek Başvuru Kararı</a>
</div>
<div id="KararDetaylari">
<table>
<tr><td>Başvuru Numarası</td><td>2020/1234</td></tr>
<tr><td>Karar Tarihi</td><td>5/3/2021</td></tr>
</table>
</div>
</body></html>`

// WHAT: Search sends one KelimeAra[] value per keyword and the page number,
// and scrapes both the block link and the sibling details table.
func TestSearch_RepeatedKeywordParamAndSiblingTable(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(sampleResultsPage))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	result, err := a.Search(context.Background(), SearchRequest{
		Keywords:   []string{"ifade özgürlüğü", "adil yargılanma"},
		PageNumber: 2,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if got := gotQuery["KelimeAra[]"]; len(got) != 2 || got[0] != "ifade özgürlüğü" {
		t.Fatalf("KelimeAra[] = %v", got)
	}
	if gotQuery.Get("page") != "2" {
		t.Fatalf("page = %q, want 2", gotQuery.Get("page"))
	}

	if len(result.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(result.Entries))
	}
	entry := result.Entries[0]
	if entry.DocumentRef != "/BB/2020/1234" {
		t.Fatalf("DocumentRef = %q", entry.DocumentRef)
	}
	if entry.CaseNumber != "2020/1234" {
		t.Fatalf("CaseNumber = %q", entry.CaseNumber)
	}
	if entry.DecisionDate != "5/3/2021" {
		t.Fatalf("DecisionDate = %q", entry.DecisionDate)
	}
}

// WHAT: GetDocument normalizes the div#Karar span.kararHtml div.WordSection1
// selector chain.
func TestGetDocument_NormalizesWordSection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div id="Karar"><span class="kararHtml"><div class="WordSection1"><p>Başvurunun kabulüne karar verilmiştir.</p></div></span></div></body></html>`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	doc, err := a.GetDocument(context.Background(), "/BB/2020/1234", 1)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.MarkdownChunk == nil || !strings.Contains(*doc.MarkdownChunk, "kabulüne karar verilmiştir") {
		t.Fatalf("markdown = %v", doc.MarkdownChunk)
	}
}
