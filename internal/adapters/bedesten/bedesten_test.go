package bedesten

import (
	"context"
	"encoding/base64"
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
	client, err := httpfetch.New(httpfetch.Config{
		BaseURL: srv.URL,
		Header:  map[string]string{applicationNameHeader: applicationNameValue},
	})
	if err != nil {
		t.Fatal(err)
	}
	return &Adapter{http: client, html: normalize.NewHTMLNormalizer(), pdf: normalize.NewPDFNormalizer()}
}

// WHAT: Search sends the fixed application-name header and the itemTypeList
// matching the requested court kind.
func TestSearch_SendsApplicationHeaderAndItemTypeList(t *testing.T) {
	var gotHeader string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get(applicationNameHeader)
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"results":[],"totalCount":0}}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	_, err := a.Search(context.Background(), SearchRequest{Kind: YargitayCeza, Keyword: "test"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotHeader != applicationNameValue {
		t.Fatalf("%s header = %q, want %q", applicationNameHeader, gotHeader, applicationNameValue)
	}

	itemTypes, ok := gotBody["itemTypeList"].([]any)
	if !ok || len(itemTypes) != 2 || itemTypes[0] != "YARGITAYKARARI" || itemTypes[1] != "CEZA" {
		t.Fatalf("itemTypeList = %v", gotBody["itemTypeList"])
	}
}

// WHAT: Search rejects an unregistered court kind before contacting
// upstream.
func TestSearch_RejectsUnknownKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream should not be contacted for an unknown court kind")
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	_, err := a.Search(context.Background(), SearchRequest{Kind: CourtKind("bogus")})
	if err == nil {
		t.Fatal("expected an error for an unknown court kind")
	}
}

// WHAT: GetDocument base64-decodes the content field and routes text/html
// content through the Markdown normalizer.
func TestGetDocument_DispatchesHTMLByMimeType(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(`<html><body><p>Karar metni.</p></body></html>`))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"content":"` + encoded + `","mimeType":"text/html"}}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	doc, err := a.GetDocument(context.Background(), "doc-1", 1)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.MarkdownChunk == nil || !strings.Contains(*doc.MarkdownChunk, "Karar metni") {
		t.Fatalf("markdown = %v", doc.MarkdownChunk)
	}
}

// WHAT: GetDocument reports an unsupported mime type as a failed document
// rather than a tool error, carrying the mime type in the message.
func TestGetDocument_UnsupportedMimeTypeBecomesFailedDocument(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(`whatever`))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"content":"` + encoded + `","mimeType":"application/msword"}}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv)
	doc, err := a.GetDocument(context.Background(), "doc-2", 1)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.MarkdownChunk != nil {
		t.Fatal("expected no markdown chunk for an unsupported mime type")
	}
	if doc.ErrorMessage == nil || !strings.Contains(*doc.ErrorMessage, "application/msword") {
		t.Fatalf("ErrorMessage = %v", doc.ErrorMessage)
	}
}
