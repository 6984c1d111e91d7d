// Package rekabet implements the Competition Authority adapter (spec.md
// §4.5.8): HTML search over /tr/Kararlar, and a landing-page PDF discovery
// chain (anchor href, iframe src, embed src, in that order) feeding the
// shared PDF page extractor and normalizer.
package rekabet

import (
	"bytes"
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
	"github.com/serkanbykl/yargi-mcp/internal/pdfpage"
	"github.com/serkanbykl/yargi-mcp/internal/toolerr"
)

const defaultBaseURL = "https://www.rekabet.gov.tr"

// DecisionType is the closed, GUID-keyed set of decision-type friendly
// names the search form accepts.
var DecisionType = canon.NewEnum("", map[string]string{
	"":               "",
	"Birleşme ve Devralma": "b1a2c3d4-0000-0000-0000-000000000001",
	"Rekabet İhlali":       "b1a2c3d4-0000-0000-0000-000000000002",
	"Muafiyet":            "b1a2c3d4-0000-0000-0000-000000000003",
	"Menfi Tespit":        "b1a2c3d4-0000-0000-0000-000000000004",
	"Özelleştirme":         "b1a2c3d4-0000-0000-0000-000000000005",
	"Diğer":               "b1a2c3d4-0000-0000-0000-000000000006",
})

// SearchRequest is the typed input for search_rekabet_kurumu_decisions.
type SearchRequest struct {
	DecisionType   string `json:"decisionType"`
	CaseNumber     string `json:"caseNumber"`
	DecisionNumber string `json:"decisionNumber"`
	DecisionDateStart string `json:"decisionDateStart"`
	DecisionDateEnd   string `json:"decisionDateEnd"`
	Subject        string `json:"subject"`
	PageNumber     int    `json:"pageNumber"`
}

func (r *SearchRequest) normalize() {
	if r.PageNumber < 1 {
		r.PageNumber = 1
	}
}

var totalRecordsRe = regexp.MustCompile(`Toplam\s*:\s*(\d+)`)

const pageSize = 10

// Adapter implements the competition-authority source.
type Adapter struct {
	http *httpfetch.Client
	html *normalize.HTMLNormalizer
	pdf  *normalize.PDFNormalizer
}

// New builds an Adapter with its own HTTP client.
func New() (*Adapter, error) {
	client, err := httpfetch.New(httpfetch.Config{BaseURL: defaultBaseURL})
	if err != nil {
		return nil, fmt.Errorf("rekabet: %w", err)
	}
	return &Adapter{http: client, html: normalize.NewHTMLNormalizer(), pdf: normalize.NewPDFNormalizer()}, nil
}

// Close releases the adapter's HTTP client. Idempotent.
func (a *Adapter) Close() error { return a.http.Close() }

// Search performs a competition-decision search and scrapes the
// div#kararList table.equalDivide grid.
func (a *Adapter) Search(ctx context.Context, req SearchRequest) (*canon.SearchResult, error) {
	req.normalize()
	if req.DecisionType != "" && !DecisionType.Valid(req.DecisionType) {
		return nil, toolerr.New(toolerr.InvalidInput, "decisionType not in the accepted set")
	}

	query := url.Values{
		"kararTuru":       {DecisionType.Wire(req.DecisionType)},
		"esasNo":          {req.CaseNumber},
		"kararNo":         {req.DecisionNumber},
		"kararTarihiBaslangic": {req.DecisionDateStart},
		"kararTarihiBitis":     {req.DecisionDateEnd},
		"konu":            {req.Subject},
		"sayfaNo":         {strconv.Itoa(req.PageNumber)},
	}

	resp, err := a.http.Get(ctx, "/tr/Kararlar", query)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(string(resp.Body)))
	if err != nil {
		return nil, toolerr.Wrap(toolerr.UpstreamParse, "parse results page", err)
	}

	entries := parseResultsTable(doc)
	total := parseTotalRecords(string(resp.Body))

	result := &canon.SearchResult{
		Entries:       entries,
		TotalRecords:  total,
		RequestedPage: req.PageNumber,
	}
	if total != nil {
		totalPages := (*total + pageSize - 1) / pageSize
		if totalPages < 1 {
			totalPages = 1
		}
		result.TotalPages = &totalPages
	}
	return result, nil
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

func parseResultsTable(doc *html.Node) []canon.SearchResultEntry {
	container := findByID(doc, "kararList")
	if container == nil {
		return nil
	}
	table := findByClass(container, "table", "equalDivide")
	if table == nil {
		return nil
	}

	rows := findAllByTag(table, "tr")
	entries := make([]canon.SearchResultEntry, 0, len(rows))
	for _, tr := range rows {
		cells := childCells(tr)
		if len(cells) < 3 {
			continue
		}
		entry := canon.SearchResultEntry{
			CaseNumber:     textContent(cells[0]),
			DecisionNumber: textContent(cells[1]),
			Title:          textContent(cells[2]),
		}
		if len(cells) > 3 {
			entry.DecisionDate = textContent(cells[3])
		}
		if href := findHref(tr, "/Kararlar/"); href != "" {
			entry.ID = href
			entry.DocumentRef = href
		}
		entries = append(entries, entry)
	}
	return entries
}

func findAllByTag(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
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

func findByID(root *html.Node, id string) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key == "id" && attr.Val == id {
					found = n
					return true
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

// isPDF reports whether resp is itself a PDF rather than an HTML landing
// page, by Content-Type header first and the "%PDF" magic prefix as a
// fallback for upstreams that mislabel the response.
func isPDF(resp *httpfetch.Response) bool {
	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "application/pdf") {
		return true
	}
	return bytes.HasPrefix(resp.Body, []byte("%PDF"))
}

// findPDFURL walks the landing page looking for the decision PDF, trying in
// order: an anchor with an .pdf href, an iframe src, an embed src.
func findPDFURL(doc *html.Node) string {
	if href := findHref(doc, ".pdf"); href != "" {
		return href
	}
	if src := findAttrByTag(doc, "iframe", "src"); src != "" {
		return src
	}
	if src := findAttrByTag(doc, "embed", "src"); src != "" {
		return src
	}
	return ""
}

func findAttrByTag(root *html.Node, tag, attrKey string) string {
	var found string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == tag {
			for _, attr := range n.Attr {
				if attr.Key == attrKey && attr.Val != "" {
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

// GetDocument fetches the decision's landing page. If the landing response
// is itself a PDF it's used directly; otherwise its PDF is discovered via
// the anchor/iframe/embed fallback chain. Either way the PDF is trimmed to
// the requested page with pdfpage.Extract and that page's text normalized.
func (a *Adapter) GetDocument(ctx context.Context, landingPath string, page int) (*canon.Document, error) {
	if page < 1 {
		page = 1
	}

	landingResp, err := a.http.Get(ctx, landingPath, nil)
	if err != nil {
		return nil, err
	}

	// spec.md §4.5.8: the landing page either *is* a PDF or contains a link
	// to one — sniff before assuming it is HTML to parse.
	pdfBytes := landingResp.Body
	if !isPDF(landingResp) {
		doc, err := html.Parse(strings.NewReader(string(landingResp.Body)))
		if err != nil {
			return nil, toolerr.Wrap(toolerr.UpstreamParse, "parse landing page", err)
		}

		pdfURL := findPDFURL(doc)
		if pdfURL == "" {
			return nil, toolerr.New(toolerr.NotFound, "no PDF link found on decision landing page")
		}

		pdfResp, err := a.http.Get(ctx, pdfURL, nil)
		if err != nil {
			return nil, err
		}
		pdfBytes = pdfResp.Body
	}

	trimmed, total, err := pdfpage.Extract(pdfBytes, page)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.ConversionFailure, "extract PDF page", err)
	}
	if trimmed == nil {
		return &canon.Document{
			SourceRef:   landingPath,
			CurrentPage: page,
			TotalPages:  total,
			IsPaginated: total > 1,
		}, nil
	}

	text, err := a.pdf.Normalize(trimmed)
	if err != nil {
		return canon.Failed(landingPath, page, "conversion failed: "+err.Error()), nil
	}

	return &canon.Document{
		SourceRef:     landingPath,
		MarkdownChunk: &text,
		CurrentPage:   page,
		TotalPages:    total,
		IsPaginated:   total > 1,
	}, nil
}
