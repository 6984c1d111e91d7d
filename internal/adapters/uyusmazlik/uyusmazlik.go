// Package uyusmazlik implements the Court-of-Jurisdictional-Disputes adapter
// (spec.md §4.5.4): application/x-www-form-urlencoded POST to /Arama/Search,
// HTML table scraping keyed by CSS class, GUID lookup tables for friendly
// enumerations, and a regex-based total-record count.
package uyusmazlik

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

const uyusmazlikBaseURL = "https://kgm.anayasa.gov.tr"

// Section is the closed set of "Bölüm" (section) values.
var Section = canon.NewEnum("", map[string]string{
	"":                "",
	"Hukuk Bölümü":    "7b3f2b1a-0000-0000-0000-000000000001",
	"Ceza Bölümü":     "7b3f2b1a-0000-0000-0000-000000000002",
	"Genel Kurul":     "7b3f2b1a-0000-0000-0000-000000000003",
})

// DisputeType is the closed set of "Uyuşmazlık Türü" values.
var DisputeType = canon.NewEnum("", map[string]string{
	"":                 "",
	"Görev Uyuşmazlığı": "8c4a3c2b-0000-0000-0000-000000000001",
	"Hüküm Uyuşmazlığı": "8c4a3c2b-0000-0000-0000-000000000002",
})

// Outcome is the closed set of checkbox outcome values; callers pass a list.
var Outcome = canon.NewEnum("", map[string]string{
	"":                    "",
	"Başvurunun Kabulü":    "9d5b4d3c-0000-0000-0000-000000000001",
	"Başvurunun Reddi":     "9d5b4d3c-0000-0000-0000-000000000002",
	"Konusu Kalmadığından": "9d5b4d3c-0000-0000-0000-000000000003",
})

// SearchRequest is the typed input for search_uyusmazlik_decisions.
type SearchRequest struct {
	Section        string   `json:"section"`
	DisputeType    string   `json:"disputeType"`
	Outcomes       []string `json:"outcomes"`
	CaseNumber     string   `json:"caseNumber"`
	DecisionNumber string   `json:"decisionNumber"`
	Year           string   `json:"year"`
	Gazette        string   `json:"gazette"`

	// Icerik is the free-text body search ("content"), Konu the subject
	// search, Taraflar the parties search — each is its own Boolean text
	// mode per spec.md §4.5.4's "5 Boolean text modes".
	Icerik         string `json:"icerik"`
	Konu           string `json:"konu"`
	Taraflar       string `json:"taraflar"`
	Bolum          string `json:"bolum"`
	BasvuranMercii string `json:"basvuranMercii"`
}

func (a *Adapter) buildFormValues(req SearchRequest) (url.Values, error) {
	if req.Section != "" && !Section.Valid(req.Section) {
		return nil, toolerr.New(toolerr.InvalidInput, "section not in the accepted set")
	}
	if req.DisputeType != "" && !DisputeType.Valid(req.DisputeType) {
		return nil, toolerr.New(toolerr.InvalidInput, "disputeType not in the accepted set")
	}
	outcomeGUIDs := make([]string, 0, len(req.Outcomes))
	for _, o := range req.Outcomes {
		if !Outcome.Valid(o) {
			return nil, toolerr.New(toolerr.InvalidInput, "outcome not in the accepted set")
		}
		if !Outcome.IsAll(o) {
			outcomeGUIDs = append(outcomeGUIDs, Outcome.Wire(o))
		}
	}

	form := url.Values{
		"Bolum":          {Section.Wire(req.Section)},
		"UyusmazlikTuru": {DisputeType.Wire(req.DisputeType)},
		"KararSonucu":    outcomeGUIDs,
		"EsasNo":         {req.CaseNumber},
		"KararNo":        {req.DecisionNumber},
		"Yil":            {req.Year},
		"ResmiGazete":    {req.Gazette},
		"Icerik":         {req.Icerik},
		"Konu":           {req.Konu},
		"Taraflar":       {req.Taraflar},
	}
	return form, nil
}

var totalRecordsRe = regexp.MustCompile(`(\d+)\s*adet kayıt`)

// Adapter implements the Court-of-Jurisdictional-Disputes source.
type Adapter struct {
	http *httpfetch.Client
	html *normalize.HTMLNormalizer
}

// New builds an Adapter with its own HTTP client.
func New() (*Adapter, error) {
	client, err := httpfetch.New(httpfetch.Config{BaseURL: uyusmazlikBaseURL})
	if err != nil {
		return nil, fmt.Errorf("uyusmazlik: %w", err)
	}
	return &Adapter{http: client, html: normalize.NewHTMLNormalizer()}, nil
}

// Close releases the adapter's HTTP client. Idempotent.
func (a *Adapter) Close() error { return a.http.Close() }

// Search performs a jurisdictional-disputes search and scrapes the HTML
// results table.
func (a *Adapter) Search(ctx context.Context, req SearchRequest) (*canon.SearchResult, error) {
	form, err := a.buildFormValues(req)
	if err != nil {
		return nil, err
	}

	resp, err := a.http.PostForm(ctx, "/Arama/Search", form)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(string(resp.Body)))
	if err != nil {
		return nil, toolerr.Wrap(toolerr.UpstreamParse, "parse results page", err)
	}

	entries := parseResultsTable(doc)
	total := parseTotalRecords(string(resp.Body))

	return &canon.SearchResult{
		Entries:       entries,
		TotalRecords:  total,
		RequestedPage: 1,
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

// resultRow mirrors one row of the results table before conversion to the
// canonical entry shape.
type resultRow struct {
	caseNumber     string
	decisionNumber string
	section        string
	subject        string
	outcome        string
	popover        string
	decisionURL    string
	pdfURL         string
}

func parseResultsTable(doc *html.Node) []canon.SearchResultEntry {
	table := findByClass(doc, "table", "tabloSonuclar")
	if table == nil {
		return nil
	}

	var rows []resultRow
	walkRows(table, &rows)

	entries := make([]canon.SearchResultEntry, 0, len(rows))
	for _, r := range rows {
		ref := r.decisionURL
		if ref == "" {
			ref = r.pdfURL
		}
		entries = append(entries, canon.SearchResultEntry{
			ID:             r.decisionURL,
			Chamber:        r.section,
			CaseNumber:     r.caseNumber,
			DecisionNumber: r.decisionNumber,
			Title:          r.subject,
			DocumentRef:    ref,
		})
	}
	return entries
}

func walkRows(table *html.Node, out *[]resultRow) {
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "tr" {
			*out = append(*out, parseRow(c))
		}
		walkRows(c, out)
	}
}

func parseRow(tr *html.Node) resultRow {
	var r resultRow
	cells := childCells(tr)
	if len(cells) > 0 {
		r.caseNumber = textContent(cells[0])
	}
	if len(cells) > 1 {
		r.decisionNumber = textContent(cells[1])
	}
	if len(cells) > 2 {
		r.section = textContent(cells[2])
	}
	if len(cells) > 3 {
		r.subject = textContent(cells[3])
	}
	if len(cells) > 4 {
		r.outcome = textContent(cells[4])
	}
	if href := findHref(tr, ".pdf"); href != "" {
		r.pdfURL = href
	}
	if href := findHref(tr, "Karar"); href != "" {
		r.decisionURL = href
	}
	return r
}

func childCells(tr *html.Node) []*html.Node {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, c)
		}
	}
	return cells
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
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

func findByClass(root *html.Node, tag, class string) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			for _, attr := range n.Attr {
				if attr.Key == "class" {
					for _, c := range strings.Fields(attr.Val) {
						if c == class {
							found = n
							return true
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return found
}

// GetDocumentFromURL fetches the decision page at a full URL (not an id, per
// spec.md §4.5.4) and normalizes it.
func (a *Adapter) GetDocumentFromURL(ctx context.Context, documentURL string, page int) (*canon.Document, error) {
	if page < 1 {
		page = 1
	}
	resp, err := a.http.Get(ctx, documentURL, nil)
	if err != nil {
		return nil, err
	}

	profile := normalize.CleaningProfile{PreferredChain: []string{"div.kararMetni", "body"}}
	full, err := a.html.Normalize(string(resp.Body), profile)
	if err != nil {
		return canon.Failed(documentURL, page, "conversion failed: "+err.Error()), nil
	}

	return normalize.BuildDocument(documentURL, full, page, nil), nil
}
