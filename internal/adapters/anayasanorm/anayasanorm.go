// Package anayasanorm implements the Constitutional Court norm-control
// adapter (spec.md §4.5.5): GET /Ara with results-per-page and sort options
// encoded as URL path segments, div.birkarar block scraping.
package anayasanorm

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/serkanbykl/yargi-mcp/internal/canon"
	"github.com/serkanbykl/yargi-mcp/internal/httpfetch"
	"github.com/serkanbykl/yargi-mcp/internal/normalize"
	"github.com/serkanbykl/yargi-mcp/internal/toolerr"
)

const defaultBaseURL = "https://normkararlarbilgibankasi.anayasa.gov.tr"

// SearchRequest is the typed input for
// search_anayasa_norm_denetimi_decisions.
type SearchRequest struct {
	AllKeywords    []string `json:"allKeywords"`
	AnyKeywords    []string `json:"anyKeywords"`
	ExcludeKeywords []string `json:"excludeKeywords"`

	Period              string `json:"period"`
	CaseNumber          string `json:"caseNumber"`
	DecisionNumber      string `json:"decisionNumber"`
	ApplicationDateStart string `json:"applicationDateStart"`
	ApplicationDateEnd   string `json:"applicationDateEnd"`
	DecisionDateStart    string `json:"decisionDateStart"`
	DecisionDateEnd      string `json:"decisionDateEnd"`
	GazetteDateStart     string `json:"gazetteDateStart"`
	GazetteDateEnd       string `json:"gazetteDateEnd"`

	Applicant   string `json:"applicant"`
	Member      string `json:"member"`
	Rapporteur  string `json:"rapporteur"`
	NormType    string `json:"normType"`
	Article     string `json:"article"`
	ReviewOutcome string `json:"reviewOutcome"`
	Reason      string `json:"reason"`
	Gazette     string `json:"gazette"`

	ResultsPerPage int    `json:"resultsPerPage"`
	PageNumber     int    `json:"pageNumber"`
	Sort           string `json:"sort"`
}

func (r *SearchRequest) normalize() {
	if r.PageNumber < 1 {
		r.PageNumber = 1
	}
	if r.ResultsPerPage < 1 {
		r.ResultsPerPage = 10
	}
	if r.Sort == "" {
		r.Sort = "KararTarihiTersi"
	}
}

var decisionRefRe = regexp.MustCompile(`E\.\s*\d+/\d+\s*,\s*K\.\s*\d+/\d+`)
var totalRecordsRe = regexp.MustCompile(`(\d+)\s*Karar Bulundu`)

type Adapter struct {
	http *httpfetch.Client
	html *normalize.HTMLNormalizer
}

func New() (*Adapter, error) {
	client, err := httpfetch.New(httpfetch.Config{BaseURL: defaultBaseURL})
	if err != nil {
		return nil, fmt.Errorf("anayasanorm: %w", err)
	}
	return &Adapter{http: client, html: normalize.NewHTMLNormalizer()}, nil
}

func (a *Adapter) Close() error { return a.http.Close() }

// Search performs a norm-control search. resultsPerPage and sort are
// encoded as path segments ("/SatirSayisi/N/Siralama/CRITERION/Ara") rather
// than query parameters, per spec.md §4.5.5.
func (a *Adapter) Search(ctx context.Context, req SearchRequest) (*canon.SearchResult, error) {
	req.normalize()

	query := url.Values{
		"TumKelimeler":      req.AllKeywords,
		"HerhangiBirKelime": req.AnyKeywords,
		"HaricKelimeler":    req.ExcludeKeywords,
		"Donem":             {req.Period},
		"EsasNo":            {req.CaseNumber},
		"KararNo":           {req.DecisionNumber},
		"BasvuruTarihiBaslangic": {req.ApplicationDateStart},
		"BasvuruTarihiBitis":     {req.ApplicationDateEnd},
		"KararTarihiBaslangic":   {req.DecisionDateStart},
		"KararTarihiBitis":       {req.DecisionDateEnd},
		"ResmiGazeteTarihiBaslangic": {req.GazetteDateStart},
		"ResmiGazeteTarihiBitis":     {req.GazetteDateEnd},
		"Basvuran":    {req.Applicant},
		"Uye":         {req.Member},
		"Raportor":    {req.Rapporteur},
		"NormTuru":    {req.NormType},
		"Madde":       {req.Article},
		"IncelemeSonucu": {req.ReviewOutcome},
		"IptalGerekce":   {req.Reason},
		"ResmiGazete":    {req.Gazette},
		"page":           {strconv.Itoa(req.PageNumber)},
	}

	path := fmt.Sprintf("/SatirSayisi/%d/Siralama/%s/Ara", req.ResultsPerPage, req.Sort)

	resp, err := a.http.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(string(resp.Body)))
	if err != nil {
		return nil, toolerr.Wrap(toolerr.UpstreamParse, "parse results page", err)
	}

	entries := parseKararBlocks(doc)
	total := parseTotalRecords(string(resp.Body))

	return &canon.SearchResult{
		Entries:       entries,
		TotalRecords:  total,
		RequestedPage: req.PageNumber,
	}, nil
}

func parseTotalRecords(body string) *int {
	m := totalRecordsRe.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

func parseKararBlocks(doc *html.Node) []canon.SearchResultEntry {
	blocks := findAllByClass(doc, "div", "birkarar")
	entries := make([]canon.SearchResultEntry, 0, len(blocks))
	for _, block := range blocks {
		text := textContent(block)
		ref := decisionRefRe.FindString(text)

		href := findHref(block, "/ND/")
		entries = append(entries, canon.SearchResultEntry{
			ID:             href,
			DecisionNumber: ref,
			DocumentRef:    href,
		})
	}
	return entries
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func findHref(root *html.Node, contains string) string {
	var found string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && strings.Contains(attr.Val, contains) {
					found = attr.Val
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

func findAllByClass(root *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			for _, attr := range n.Attr {
				if attr.Key == "class" {
					for _, c := range strings.Fields(attr.Val) {
						if c == class {
							out = append(out, n)
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// GetDocument fetches the decision page, identified either by a full URL or
// a bare "/ND/YYYY/NN" path, and normalizes the KararMetni region.
func (a *Adapter) GetDocument(ctx context.Context, documentURL string, page int) (*canon.Document, error) {
	if page < 1 {
		page = 1
	}
	resp, err := a.http.Get(ctx, documentURL, nil)
	if err != nil {
		return nil, err
	}

	profile := normalize.CleaningProfile{PreferredChain: []string{"div.KararMetni", "body"}}
	full, err := a.html.Normalize(string(resp.Body), profile)
	if err != nil {
		return canon.Failed(documentURL, page, "conversion failed: "+err.Error()), nil
	}

	return normalize.BuildDocument(documentURL, full, page, nil), nil
}
