package uyusmazlik

import (
	"context"
	"io"
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
<div class="durum">73 adet kayıt bulundu</div>
<table class="tabloSonuclar">
<tr><td>2023/45</td><td>2023/99</td><td>Hukuk Bölümü</td><td>görev uyuşmazlığı</td><td>Kabul</td>
<td><a href="/Kararlar/Goster?id=42">Karar</a></td></tr>
</table>
</body></html>`

// WHAT: Search posts form-encoded fields (not JSON) and scrapes both the
// results table and the regex-parsed total-record count.
func TestSearch_FormPostAndTableScrape(t *testing.T) {
	var gotContentType string
	var gotBody url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		gotBody, _ = url.ParseQuery(string(data))
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(sampleResultsPage))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	result, err := a.Search(context.Background(), SearchRequest{Bolum: "Hukuk Bölümü", Icerik: "görev"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if !strings.Contains(gotContentType, "application/x-www-form-urlencoded") {
		t.Fatalf("content type = %q, want form-urlencoded", gotContentType)
	}
	if gotBody.Get("Icerik") != "görev" {
		t.Fatalf("posted Icerik = %q", gotBody.Get("Icerik"))
	}

	if result.TotalRecords == nil || *result.TotalRecords != 73 {
		t.Fatalf("TotalRecords = %v, want 73", result.TotalRecords)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(result.Entries))
	}
	if result.Entries[0].Chamber != "Hukuk Bölümü" {
		t.Fatalf("Chamber = %q, want Hukuk Bölümü", result.Entries[0].Chamber)
	}
	if result.Entries[0].DocumentRef != "/Kararlar/Goster?id=42" {
		t.Fatalf("DocumentRef = %q", result.Entries[0].DocumentRef)
	}
}

// WHAT: Search rejects a section value outside the closed set.
func TestSearch_RejectsUnknownSection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream should not be contacted for an invalid section")
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	_, err := a.Search(context.Background(), SearchRequest{Section: "Uydurma Bölüm"})
	if err == nil {
		t.Fatal("expected an error for an unknown section")
	}
}
