// Package bedesten implements the shared multi-court back-end adapter
// (spec.md §4.5.9): one JSON API behind /emsal-karar/searchDocuments and
// /emsal-karar/getDocumentContent serving six distinct "court kinds" via an
// itemTypeList discriminator, with a base64-encoded, mime-typed document
// payload.
package bedesten

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/serkanbykl/yargi-mcp/internal/canon"
	"github.com/serkanbykl/yargi-mcp/internal/httpfetch"
	"github.com/serkanbykl/yargi-mcp/internal/normalize"
	"github.com/serkanbykl/yargi-mcp/internal/toolerr"
)

const defaultBaseURL = "https://bedesten.adalet.gov.tr"
const applicationNameHeader = "AdaletApplicationName"
const applicationNameValue = "UyapMevzuatBilgiBankasi"

// CourtKind is the closed set of the six logical courts this shared
// back-end serves, each with its own itemTypeList wire value.
type CourtKind string

const (
	YargitayHukuk  CourtKind = "yargitayHukuk"
	YargitayCeza   CourtKind = "yargitayCeza"
	DanistayKind   CourtKind = "danistay"
	YerelHukuk     CourtKind = "yerelHukuk"
	IstinafHukuk   CourtKind = "istinafHukuk"
	KYBKind        CourtKind = "kyb"
)

var itemTypeLists = map[CourtKind][]string{
	YargitayHukuk: {"YARGITAYKARARI", "HUKUK"},
	YargitayCeza:  {"YARGITAYKARARI", "CEZA"},
	DanistayKind:  {"DANISTAYKARARI"},
	YerelHukuk:    {"YERELHUKUKMAHKEMESI"},
	IstinafHukuk:  {"ISTINAFHUKUKMAHKEMESI"},
	KYBKind:       {"KYB"},
}

// SearchRequest is the typed input shared by all six
// search_*_bedesten tools; Kind selects the itemTypeList discriminator.
type SearchRequest struct {
	Kind           CourtKind
	Keyword        string `json:"keyword"`
	Chamber        string `json:"chamber"`
	CaseNumber     string `json:"caseNumber"`
	DecisionNumber string `json:"decisionNumber"`
	DateStart      string `json:"dateStart"`
	DateEnd        string `json:"dateEnd"`
	PageNumber     int    `json:"pageNumber"`
	PageSize       int    `json:"pageSize"`
}

func (r *SearchRequest) normalize() error {
	if r.PageNumber < 1 {
		r.PageNumber = 1
	}
	if r.PageSize == 0 {
		r.PageSize = 10
	}
	if r.PageSize < 1 || r.PageSize > 100 {
		return toolerr.New(toolerr.InvalidInput, "pageSize must be between 1 and 100")
	}
	return nil
}

type searchWireRequest struct {
	ItemTypeList   []string `json:"itemTypeList"`
	Keyword        string   `json:"keyword"`
	Chamber        string   `json:"daire,omitempty"`
	CaseNumber     string   `json:"esasNo,omitempty"`
	DecisionNumber string   `json:"kararNo,omitempty"`
	DateStart      string   `json:"baslangicTarihi,omitempty"`
	DateEnd        string   `json:"bitisTarihi,omitempty"`
	PageNumber     int      `json:"pageNumber"`
	PageSize       int      `json:"pageSize"`
}

type searchWireResponse struct {
	Data struct {
		Results []struct {
			DocumentID  string `json:"documentId"`
			Chamber     string `json:"daire"`
			CaseNo      string `json:"esasNo"`
			DecisionNo  string `json:"kararNo"`
			DecisionDate string `json:"kararTarihi"`
		} `json:"results"`
		TotalCount int `json:"totalCount"`
	} `json:"data"`
}

type documentContentWireRequest struct {
	DocumentID string `json:"documentId"`
}

type documentContentWireResponse struct {
	Data struct {
		Content  string `json:"content"`
		MimeType string `json:"mimeType"`
	} `json:"data"`
}

// Adapter implements the shared multi-court back-end, one instance per
// court kind (the gateway constructs six).
type Adapter struct {
	http *httpfetch.Client
	html *normalize.HTMLNormalizer
	pdf  *normalize.PDFNormalizer
}

// New builds an Adapter with its own HTTP client.
func New() (*Adapter, error) {
	client, err := httpfetch.New(httpfetch.Config{
		BaseURL: defaultBaseURL,
		Header:  map[string]string{applicationNameHeader: applicationNameValue},
	})
	if err != nil {
		return nil, fmt.Errorf("bedesten: %w", err)
	}
	return &Adapter{http: client, html: normalize.NewHTMLNormalizer(), pdf: normalize.NewPDFNormalizer()}, nil
}

// Close releases the adapter's HTTP client. Idempotent.
func (a *Adapter) Close() error { return a.http.Close() }

// Search performs a search scoped to req.Kind's itemTypeList.
func (a *Adapter) Search(ctx context.Context, req SearchRequest) (*canon.SearchResult, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}
	itemTypes, ok := itemTypeLists[req.Kind]
	if !ok {
		return nil, toolerr.New(toolerr.InvalidInput, "unknown court kind")
	}

	wire := searchWireRequest{
		ItemTypeList:   itemTypes,
		Keyword:        req.Keyword,
		Chamber:        req.Chamber,
		CaseNumber:     req.CaseNumber,
		DecisionNumber: req.DecisionNumber,
		DateStart:      req.DateStart,
		DateEnd:        req.DateEnd,
		PageNumber:     req.PageNumber,
		PageSize:       req.PageSize,
	}

	resp, err := a.http.PostJSON(ctx, "/emsal-karar/searchDocuments", wire)
	if err != nil {
		return nil, err
	}

	var parsed searchWireResponse
	if err := httpfetch.DecodeJSON(resp, &parsed); err != nil {
		return nil, err
	}

	entries := make([]canon.SearchResultEntry, 0, len(parsed.Data.Results))
	for _, r := range parsed.Data.Results {
		entries = append(entries, canon.SearchResultEntry{
			ID:             r.DocumentID,
			Chamber:        r.Chamber,
			CaseNumber:     r.CaseNo,
			DecisionNumber: r.DecisionNo,
			DecisionDate:   r.DecisionDate,
			DocumentRef:    r.DocumentID,
		})
	}

	return &canon.SearchResult{
		Entries:       entries,
		TotalRecords:  canon.IntPtr(parsed.Data.TotalCount),
		RequestedPage: req.PageNumber,
	}, nil
}

// GetDocument fetches a document by its opaque documentId, base64-decodes
// the content field, and dispatches on mimeType: text/html through the
// Markdown HTML normalizer, application/pdf through the PDF normalizer
// applied to the whole document (no pagination, unlike rekabet's
// page-at-a-time extraction); anything else yields a Document with no
// MarkdownChunk and an ErrorMessage naming the mime type.
func (a *Adapter) GetDocument(ctx context.Context, documentID string, page int) (*canon.Document, error) {
	if page < 1 {
		page = 1
	}

	resp, err := a.http.PostJSON(ctx, "/emsal-karar/getDocumentContent", documentContentWireRequest{DocumentID: documentID})
	if err != nil {
		return nil, err
	}

	var parsed documentContentWireResponse
	if err := httpfetch.DecodeJSON(resp, &parsed); err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(parsed.Data.Content)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.UpstreamParse, "decode document content", err)
	}

	switch parsed.Data.MimeType {
	case "text/html":
		profile := normalize.CleaningProfile{PreferredChain: []string{"body"}}
		full, err := a.html.Normalize(string(raw), profile)
		if err != nil {
			return canon.Failed(documentID, page, "conversion failed: "+err.Error()), nil
		}
		return &canon.Document{
			SourceRef:     documentID,
			MarkdownChunk: &full,
			CurrentPage:   1,
			TotalPages:    1,
			IsPaginated:   false,
		}, nil

	case "application/pdf":
		// spec.md §4.5.9: bedesten has no pagination — the whole PDF converts
		// to one Markdown document, unlike rekabet's single-page extraction.
		text, err := a.pdf.Normalize(raw)
		if err != nil {
			return canon.Failed(documentID, page, "conversion failed: "+err.Error()), nil
		}
		return &canon.Document{
			SourceRef:     documentID,
			MarkdownChunk: &text,
			CurrentPage:   1,
			TotalPages:    1,
			IsPaginated:   false,
		}, nil

	default:
		msg := "unsupported document mime type: " + parsed.Data.MimeType
		return canon.Failed(documentID, page, msg), nil
	}
}
