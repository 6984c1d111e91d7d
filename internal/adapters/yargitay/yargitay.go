// Package yargitay implements the Official Court-of-Cassation adapter
// (spec.md §4.5.1): JSON POST search against /aramadetaylist, JSON-wrapped
// document fetch against /getDokuman.
package yargitay

import (
	"context"
	"fmt"
	"net/url"

	"github.com/serkanbykl/yargi-mcp/internal/canon"
	"github.com/serkanbykl/yargi-mcp/internal/httpfetch"
	"github.com/serkanbykl/yargi-mcp/internal/normalize"
	"github.com/serkanbykl/yargi-mcp/internal/toolerr"
)

const defaultBaseURL = "https://karararama.yargitay.gov.tr"

// Chamber is the closed set of Yargıtay daire (chamber) names accepted by
// search_yargitay_detailed — the civil (Hukuk) and criminal (Ceza) chamber
// numbering plus the general-assembly bodies, 52 values including "all".
var Chamber = buildChamberEnum()

func buildChamberEnum() canon.Enum {
	values := map[string]string{"": ""}
	for i := 1; i <= 23; i++ {
		name := fmt.Sprintf("%d. Hukuk Dairesi", i)
		values[name] = name
	}
	for i := 1; i <= 23; i++ {
		name := fmt.Sprintf("%d. Ceza Dairesi", i)
		values[name] = name
	}
	for _, name := range []string{
		"Hukuk Genel Kurulu",
		"Ceza Genel Kurulu",
		"Büyük Genel Kurulu",
		"Başkanlar Kurulu",
		"Yargıtay Birinci Başkanlık Kurulu",
	} {
		values[name] = name
	}
	return canon.NewEnum("", values)
}

// SearchRequest is the typed input for search_yargitay_detailed.
type SearchRequest struct {
	AraananKelime  string `json:"arananKelime"`
	Chamber        string `json:"chamber"`
	CaseYearStart  string `json:"caseYearStart"`
	CaseYearEnd    string `json:"caseYearEnd"`
	DecisionYearStart string `json:"decisionYearStart"`
	DecisionYearEnd   string `json:"decisionYearEnd"`
	DateStart      string `json:"dateStart"`
	DateEnd        string `json:"dateEnd"`
	Sort           string `json:"sort"`
	Direction      string `json:"direction"`
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
	if r.Sort == "" {
		r.Sort = "1"
	}
	if r.Direction == "" {
		r.Direction = "desc"
	}
	return nil
}

// wireRequest is the exact shape /aramadetaylist expects: every optional
// field present as an empty string rather than omitted, per spec.md §4.5.1
// ("the upstream rejects null").
type wireRequest struct {
	AraananKelime     string `json:"arananKelime"`
	Chamber           string `json:"daire"`
	CaseYearStart     string `json:"esasYilBaslangic"`
	CaseYearEnd       string `json:"esasYilBitis"`
	DecisionYearStart string `json:"kararYilBaslangic"`
	DecisionYearEnd   string `json:"kararYilBitis"`
	DateStart         string `json:"baslangicTarihi"`
	DateEnd           string `json:"bitisTarihi"`
	Sort              string `json:"siralama"`
	Direction         string `json:"siralamaYonu"`
	PageNumber        int    `json:"pageNumber"`
	PageSize          int    `json:"pageSize"`
}

type wireResponse struct {
	Data struct {
		Data []struct {
			ID          string `json:"id"`
			DaireAdi    string `json:"daireAdi"`
			EsasNo      string `json:"esasNo"`
			KararNo     string `json:"kararNo"`
			KararTarihi string `json:"kararTarihi"`
		} `json:"data"`
		RecordsTotal int `json:"recordsTotal"`
	} `json:"data"`
}

type documentWireResponse struct {
	Data string `json:"data"`
}

// Adapter implements the Court-of-Cassation source.
type Adapter struct {
	http *httpfetch.Client
	html *normalize.HTMLNormalizer
}

// New builds an Adapter with its own long-lived HTTP client and HTML
// normalizer, per spec.md §3's ownership rule.
func New() (*Adapter, error) {
	client, err := httpfetch.New(httpfetch.Config{BaseURL: defaultBaseURL})
	if err != nil {
		return nil, fmt.Errorf("yargitay: %w", err)
	}
	return &Adapter{http: client, html: normalize.NewHTMLNormalizer()}, nil
}

// Close releases the adapter's HTTP client. Idempotent.
func (a *Adapter) Close() error { return a.http.Close() }

// Search performs a detailed Court-of-Cassation search.
func (a *Adapter) Search(ctx context.Context, req SearchRequest) (*canon.SearchResult, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	if req.Chamber != "" && !Chamber.Valid(req.Chamber) {
		return nil, toolerr.New(toolerr.InvalidInput, "chamber not in the accepted set")
	}

	wire := wireRequest{
		AraananKelime:     req.AraananKelime,
		Chamber:           Chamber.Wire(req.Chamber),
		CaseYearStart:     req.CaseYearStart,
		CaseYearEnd:       req.CaseYearEnd,
		DecisionYearStart: req.DecisionYearStart,
		DecisionYearEnd:   req.DecisionYearEnd,
		DateStart:         req.DateStart,
		DateEnd:           req.DateEnd,
		Sort:              req.Sort,
		Direction:         req.Direction,
		PageNumber:        req.PageNumber,
		PageSize:          req.PageSize,
	}

	resp, err := a.http.PostJSON(ctx, "/aramadetaylist", wire)
	if err != nil {
		return nil, err
	}

	var parsed wireResponse
	if err := httpfetch.DecodeJSON(resp, &parsed); err != nil {
		return nil, err
	}

	entries := make([]canon.SearchResultEntry, 0, len(parsed.Data.Data))
	for _, d := range parsed.Data.Data {
		entries = append(entries, canon.SearchResultEntry{
			ID:             d.ID,
			Chamber:        d.DaireAdi,
			CaseNumber:     d.EsasNo,
			DecisionNumber: d.KararNo,
			DecisionDate:   d.KararTarihi,
			DocumentRef:    defaultBaseURL + "/getDokuman?id=" + d.ID,
		})
	}

	total := parsed.Data.RecordsTotal
	return &canon.SearchResult{
		Entries:       entries,
		TotalRecords:  canon.IntPtr(total),
		RequestedPage: req.PageNumber,
	}, nil
}

// GetDocument fetches and normalizes a single decision by opaque id.
func (a *Adapter) GetDocument(ctx context.Context, id string, page int) (*canon.Document, error) {
	if page < 1 {
		page = 1
	}
	query := url.Values{"id": {id}}
	resp, err := a.http.Get(ctx, "/getDokuman", query)
	if err != nil {
		return nil, err
	}

	var parsed documentWireResponse
	if err := httpfetch.DecodeJSON(resp, &parsed); err != nil {
		return nil, err
	}

	profile := normalize.CleaningProfile{
		PreferredChain: []string{"div.WordSection1", "body"},
	}
	full, err := a.html.Normalize(parsed.Data, profile)
	if err != nil {
		return canon.Failed(id, page, "conversion failed: "+err.Error()), nil
	}

	sourceRef := defaultBaseURL + "/getDokuman?id=" + id
	return normalize.BuildDocument(sourceRef, full, page, map[string]string{"id": id}), nil
}
