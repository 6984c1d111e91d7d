// Package danistay implements the Council-of-State (primary) adapter
// (spec.md §4.5.2): keyword POST to /aramalist, detailed POST to
// /aramadetaylist, and a document fetch returning direct HTML (unlike
// yargitay's JSON-wrapped payload).
package danistay

import (
	"context"
	"fmt"
	"net/url"

	"github.com/serkanbykl/yargi-mcp/internal/canon"
	"github.com/serkanbykl/yargi-mcp/internal/httpfetch"
	"github.com/serkanbykl/yargi-mcp/internal/normalize"
	"github.com/serkanbykl/yargi-mcp/internal/toolerr"
)

const defaultBaseURL = "https://karararama.danistay.gov.tr"

// KeywordSearchRequest is the typed input for search_danistay_by_keyword.
// Each keyword list participates in one Boolean role; empty lists are
// sent as empty arrays on the wire.
type KeywordSearchRequest struct {
	AndKeywords    []string `json:"andKeywords"`
	OrKeywords     []string `json:"orKeywords"`
	NotAndKeywords []string `json:"notAndKeywords"`
	NotOrKeywords  []string `json:"notOrKeywords"`
	PageNumber     int      `json:"pageNumber"`
	PageSize       int      `json:"pageSize"`
}

// keywordWireRequest quotes every non-empty keyword per spec.md §4.5.2.
type keywordWireRequest struct {
	AndKelimeler    []string `json:"andKelimeler"`
	OrKelimeler     []string `json:"orKelimeler"`
	NotAndKelimeler []string `json:"notAndKelimeler"`
	NotOrKelimeler  []string `json:"notOrKelimeler"`
	PageNumber      int      `json:"pageNumber"`
	PageSize        int      `json:"pageSize"`
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, kw := range in {
		if kw == "" {
			out[i] = kw
			continue
		}
		out[i] = fmt.Sprintf("%q", kw)
	}
	return out
}

// DetailedSearchRequest is the typed input for search_danistay_detailed.
type DetailedSearchRequest struct {
	Chamber             string `json:"chamber"`
	CaseNumberStart     string `json:"caseNumberStart"`
	CaseNumberEnd       string `json:"caseNumberEnd"`
	DecisionNumberStart string `json:"decisionNumberStart"`
	DecisionNumberEnd   string `json:"decisionNumberEnd"`
	DateStart           string `json:"dateStart"`
	DateEnd             string `json:"dateEnd"`
	LegislationNumber   string `json:"legislationNumber"`
	LegislationName     string `json:"legislationName"`
	Article             string `json:"article"`
	Sort                string `json:"sort"`
	PageNumber          int    `json:"pageNumber"`
	PageSize            int    `json:"pageSize"`
}

// detailedWireRequest coerces every absent optional string to "" — the
// upstream requires the key to be present (spec.md §4.5.2).
type detailedWireRequest struct {
	Daire              string `json:"daire"`
	EsasNoBaslangic    string `json:"esasNoBaslangic"`
	EsasNoBitis        string `json:"esasNoBitis"`
	KararNoBaslangic   string `json:"kararNoBaslangic"`
	KararNoBitis       string `json:"kararNoBitis"`
	BaslangicTarihi    string `json:"baslangicTarihi"`
	BitisTarihi        string `json:"bitisTarihi"`
	MevzuatNo          string `json:"mevzuatNo"`
	MevzuatAdi         string `json:"mevzuatAdi"`
	Madde              string `json:"madde"`
	Siralama           string `json:"siralama"`
	PageNumber         int    `json:"pageNumber"`
	PageSize           int    `json:"pageSize"`
}

type searchWireResponse struct {
	Data struct {
		Data []struct {
			ID          string `json:"id"`
			Daire       string `json:"daire"`
			EsasNo      string `json:"esasNo"`
			KararNo     string `json:"kararNo"`
			KararTarihi string `json:"kararTarihi"`
		} `json:"data"`
		RecordsTotal int `json:"recordsTotal"`
	} `json:"data"`
}

// Adapter implements the Council-of-State (primary) source.
type Adapter struct {
	http *httpfetch.Client
	html *normalize.HTMLNormalizer
}

// New builds an Adapter with its own HTTP client.
func New() (*Adapter, error) {
	client, err := httpfetch.New(httpfetch.Config{BaseURL: defaultBaseURL})
	if err != nil {
		return nil, fmt.Errorf("danistay: %w", err)
	}
	return &Adapter{http: client, html: normalize.NewHTMLNormalizer()}, nil
}

// Close releases the adapter's HTTP client. Idempotent.
func (a *Adapter) Close() error { return a.http.Close() }

func normalizePaging(page, size *int) error {
	if *page < 1 {
		*page = 1
	}
	if *size == 0 {
		*size = 10
	}
	if *size < 1 || *size > 100 {
		return toolerr.New(toolerr.InvalidInput, "pageSize must be between 1 and 100")
	}
	return nil
}

// SearchByKeyword performs a keyword-mode search.
func (a *Adapter) SearchByKeyword(ctx context.Context, req KeywordSearchRequest) (*canon.SearchResult, error) {
	if err := normalizePaging(&req.PageNumber, &req.PageSize); err != nil {
		return nil, err
	}

	wire := keywordWireRequest{
		AndKelimeler:    quoteAll(req.AndKeywords),
		OrKelimeler:     quoteAll(req.OrKeywords),
		NotAndKelimeler: quoteAll(req.NotAndKeywords),
		NotOrKelimeler:  quoteAll(req.NotOrKeywords),
		PageNumber:      req.PageNumber,
		PageSize:        req.PageSize,
	}

	resp, err := a.http.PostJSON(ctx, "/aramalist", wire)
	if err != nil {
		return nil, err
	}
	return a.parseSearchResponse(resp, req.PageNumber)
}

// SearchDetailed performs a filter-driven search.
func (a *Adapter) SearchDetailed(ctx context.Context, req DetailedSearchRequest) (*canon.SearchResult, error) {
	if err := normalizePaging(&req.PageNumber, &req.PageSize); err != nil {
		return nil, err
	}

	wire := detailedWireRequest{
		Daire:            req.Chamber,
		EsasNoBaslangic:  req.CaseNumberStart,
		EsasNoBitis:      req.CaseNumberEnd,
		KararNoBaslangic: req.DecisionNumberStart,
		KararNoBitis:     req.DecisionNumberEnd,
		BaslangicTarihi:  req.DateStart,
		BitisTarihi:      req.DateEnd,
		MevzuatNo:        req.LegislationNumber,
		MevzuatAdi:       req.LegislationName,
		Madde:            req.Article,
		Siralama:         req.Sort,
		PageNumber:       req.PageNumber,
		PageSize:         req.PageSize,
	}

	resp, err := a.http.PostJSON(ctx, "/aramadetaylist", wire)
	if err != nil {
		return nil, err
	}
	return a.parseSearchResponse(resp, req.PageNumber)
}

func (a *Adapter) parseSearchResponse(resp *httpfetch.Response, requestedPage int) (*canon.SearchResult, error) {
	var parsed searchWireResponse
	if err := httpfetch.DecodeJSON(resp, &parsed); err != nil {
		return nil, err
	}

	entries := make([]canon.SearchResultEntry, 0, len(parsed.Data.Data))
	for _, d := range parsed.Data.Data {
		entries = append(entries, canon.SearchResultEntry{
			ID:             d.ID,
			Chamber:        d.Daire,
			CaseNumber:     d.EsasNo,
			DecisionNumber: d.KararNo,
			DecisionDate:   d.KararTarihi,
			DocumentRef:    defaultBaseURL + "/getDokuman?id=" + d.ID,
		})
	}

	return &canon.SearchResult{
		Entries:       entries,
		TotalRecords:  canon.IntPtr(parsed.Data.RecordsTotal),
		RequestedPage: requestedPage,
	}, nil
}

// GetDocument fetches the decision by id. Unlike yargitay, the document
// endpoint returns HTML directly, not JSON-wrapped.
func (a *Adapter) GetDocument(ctx context.Context, id string, page int) (*canon.Document, error) {
	if page < 1 {
		page = 1
	}
	resp, err := a.http.Get(ctx, "/getDokuman", url.Values{"id": {id}})
	if err != nil {
		return nil, err
	}

	profile := normalize.CleaningProfile{
		PreferredChain: []string{"div.WordSection1", "body"},
	}
	full, err := a.html.Normalize(string(resp.Body), profile)
	if err != nil {
		return canon.Failed(id, page, "conversion failed: "+err.Error()), nil
	}

	sourceRef := defaultBaseURL + "/getDokuman?id=" + id
	return normalize.BuildDocument(sourceRef, full, page, map[string]string{"id": id}), nil
}
