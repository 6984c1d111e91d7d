// Package emsal implements the Precedent-index adapter (spec.md §4.5.3):
// JSON POST to /aramadetaylist with upstream keys that contain spaces, and a
// selected_regional_chambers list joined with "+" into one wire string.
package emsal

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/serkanbykl/yargi-mcp/internal/canon"
	"github.com/serkanbykl/yargi-mcp/internal/httpfetch"
	"github.com/serkanbykl/yargi-mcp/internal/normalize"
	"github.com/serkanbykl/yargi-mcp/internal/toolerr"
)

const defaultBaseURL = "https://emsal.uyap.gov.tr"

// SearchRequest is the typed input for search_emsal_detailed_decisions.
// RegionalChambers names the friendly field; on the wire it becomes the
// space-containing key "Bam Hukuk Mahkemeleri".
type SearchRequest struct {
	Keyword             string   `json:"keyword"`
	RegionalChambers    []string `json:"regionalChambers"`
	CaseNumberStart     string   `json:"caseNumberStart"`
	CaseNumberEnd       string   `json:"caseNumberEnd"`
	DecisionNumberStart string   `json:"decisionNumberStart"`
	DecisionNumberEnd   string   `json:"decisionNumberEnd"`
	DateStart           string   `json:"dateStart"`
	DateEnd             string   `json:"dateEnd"`
	Sort                string   `json:"sort"`
	PageNumber          int      `json:"pageNumber"`
	PageSize            int      `json:"pageSize"`
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

// buildWirePayload assembles the map the upstream actually expects — built
// as a map rather than a struct because one of its keys, "Bam Hukuk
// Mahkemeleri", contains spaces and cannot be spelled as a Go struct field
// name without a json tag.
func (r SearchRequest) buildWirePayload() map[string]any {
	return map[string]any{
		"aranan":                   r.Keyword,
		"Bam Hukuk Mahkemeleri":    strings.Join(r.RegionalChambers, "+"),
		"esasYilBaslangic":         r.CaseNumberStart,
		"esasYilBitis":             r.CaseNumberEnd,
		"kararYilBaslangic":        r.DecisionNumberStart,
		"kararYilBitis":            r.DecisionNumberEnd,
		"baslangicTarihi":          r.DateStart,
		"bitisTarihi":              r.DateEnd,
		"siralama":                 r.Sort,
		"pageNumber":               r.PageNumber,
		"pageSize":                 r.PageSize,
	}
}

type documentWireResponse struct {
	Data string `json:"data"`
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

// Adapter implements the Precedent-index source.
type Adapter struct {
	http *httpfetch.Client
	html *normalize.HTMLNormalizer
}

// New builds an Adapter with its own HTTP client.
func New() (*Adapter, error) {
	client, err := httpfetch.New(httpfetch.Config{BaseURL: defaultBaseURL})
	if err != nil {
		return nil, fmt.Errorf("emsal: %w", err)
	}
	return &Adapter{http: client, html: normalize.NewHTMLNormalizer()}, nil
}

// Close releases the adapter's HTTP client. Idempotent.
func (a *Adapter) Close() error { return a.http.Close() }

// Search performs a detailed precedent-index search.
func (a *Adapter) Search(ctx context.Context, req SearchRequest) (*canon.SearchResult, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	resp, err := a.http.PostJSON(ctx, "/aramadetaylist", req.buildWirePayload())
	if err != nil {
		return nil, err
	}

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
		RequestedPage: req.PageNumber,
	}, nil
}

// GetDocument fetches and normalizes a single precedent by id. The document
// endpoint returns JSON with an HTML string in "data", same shape as
// yargitay's.
func (a *Adapter) GetDocument(ctx context.Context, id string, page int) (*canon.Document, error) {
	if page < 1 {
		page = 1
	}
	resp, err := a.http.Get(ctx, "/getDokuman", url.Values{"id": {id}})
	if err != nil {
		return nil, err
	}

	var parsed documentWireResponse
	if err := httpfetch.DecodeJSON(resp, &parsed); err != nil {
		return nil, err
	}

	profile := normalize.CleaningProfile{PreferredChain: []string{"div.WordSection1", "body"}}
	full, err := a.html.Normalize(parsed.Data, profile)
	if err != nil {
		return canon.Failed(id, page, "conversion failed: "+err.Error()), nil
	}

	sourceRef := defaultBaseURL + "/getDokuman?id=" + id
	return normalize.BuildDocument(sourceRef, full, page, map[string]string{"id": id}), nil
}
