// Package anayasabireysel implements the Constitutional Court individual
// application (bireysel başvuru) adapter (spec.md §4.5.6): GET /Ara with
// repeated KelimeAra[] query parameters and a page parameter, scraping
// div.KararBulteniBirKarar blocks and their sibling #KararDetaylari table.
package anayasabireysel

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/serkanbykl/yargi-mcp/internal/canon"
	"github.com/serkanbykl/yargi-mcp/internal/httpfetch"
	"github.com/serkanbykl/yargi-mcp/internal/normalize"
	"github.com/serkanbykl/yargi-mcp/internal/toolerr"
)

const defaultBaseURL = "https://kararlarbilgibankasi.anayasa.gov.tr"

// SearchRequest is the typed input for
// search_anayasa_bireysel_basvuru_report.
type SearchRequest struct {
	Keywords       []string `json:"keywords"`
	ApplicationNo  string   `json:"applicationNo"`
	DecisionTypes  []string `json:"decisionTypes"`
	RightsViolated []string `json:"rightsViolated"`
	Subject        string   `json:"subject"`
	DecisionDateStart string `json:"decisionDateStart"`
	DecisionDateEnd   string `json:"decisionDateEnd"`
	PageNumber     int      `json:"pageNumber"`
}

func (r *SearchRequest) normalize() {
	if r.PageNumber < 1 {
		r.PageNumber = 1
	}
}

// Adapter implements the individual-application source.
type Adapter struct {
	http *httpfetch.Client
	html *normalize.HTMLNormalizer
}

// New builds an Adapter with its own HTTP client.
func New() (*Adapter, error) {
	client, err := httpfetch.New(httpfetch.Config{BaseURL: defaultBaseURL})
	if err != nil {
		return nil, fmt.Errorf("anayasabireysel: %w", err)
	}
	return &Adapter{http: client, html: normalize.NewHTMLNormalizer()}, nil
}

// Close releases the adapter's HTTP client. Idempotent.
func (a *Adapter) Close() error { return a.http.Close() }

// Search performs an individual-application search. The upstream accepts a
// repeated KelimeAra[] query parameter, one value per keyword.
func (a *Adapter) Search(ctx context.Context, req SearchRequest) (*canon.SearchResult, error) {
	req.normalize()

	query := url.Values{
		"KararBulteni":  {"1"},
		"KelimeAra[]":   req.Keywords,
		"BasvuruNo":     {req.ApplicationNo},
		"KararTur[]":    req.DecisionTypes,
		"IhlalEdilenHak[]": req.RightsViolated,
		"Konu":          {req.Subject},
		"KararTarihiBaslangic": {req.DecisionDateStart},
		"KararTarihiBitis":     {req.DecisionDateEnd},
		"page":          {strconv.Itoa(req.PageNumber)},
	}

	resp, err := a.http.Get(ctx, "/Ara", query)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(string(resp.Body)))
	if err != nil {
		return nil, toolerr.Wrap(toolerr.UpstreamParse, "parse results page", err)
	}

	entries := parseKararBlocks(doc)

	return &canon.SearchResult{
		Entries:       entries,
		TotalRecords:  nil,
		RequestedPage: req.PageNumber,
	}, nil
}

func parseKararBlocks(doc *html.Node) []canon.SearchResultEntry {
	blocks := findAllByClass(doc, "div", "KararBulteniBirKarar")
	entries := make([]canon.SearchResultEntry, 0, len(blocks))
	for _, block := range blocks {
		href := findHref(block, "/BB/")
		title := textContent(block)

		entry := canon.SearchResultEntry{
			ID:          href,
			Title:       strings.TrimSpace(title),
			DocumentRef: href,
		}

		if details := findByID(block, "KararDetaylari"); details != nil {
			applyDetailsTable(&entry, details)
		} else if sib := nextSiblingByID(block, "KararDetaylari"); sib != nil {
			applyDetailsTable(&entry, sib)
		}

		entries = append(entries, entry)
	}
	return entries
}

// applyDetailsTable fills in fields from the sibling #KararDetaylari table.
func applyDetailsTable(entry *canon.SearchResultEntry, table *html.Node) {
	rows := findAllByTag(table, "tr")
	for _, tr := range rows {
		cells := childCells(tr)
		if len(cells) < 2 {
			continue
		}
		label := strings.TrimSpace(textContent(cells[0]))
		value := strings.TrimSpace(textContent(cells[1]))
		switch {
		case strings.Contains(label, "Başvuru Numarası"):
			entry.CaseNumber = value
		case strings.Contains(label, "Karar Tarihi"):
			entry.DecisionDate = value
		case strings.Contains(label, "Başvuru Türü"), strings.Contains(label, "Karar Türü"):
			entry.DecisionNumber = value
		}
	}
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

// nextSiblingByID walks forward from block's siblings (the id lives outside
// the block element in the upstream markup) looking for id.
func nextSiblingByID(block *html.Node, id string) *html.Node {
	for s := block.NextSibling; s != nil; s = s.NextSibling {
		if found := findByID(s, id); found != nil {
			return found
		}
	}
	return nil
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

// GetDocument fetches the decision page at "/BB/YYYY/NNNN" and normalizes
// the span.kararHtml div.WordSection1 chain.
func (a *Adapter) GetDocument(ctx context.Context, documentPath string, page int) (*canon.Document, error) {
	if page < 1 {
		page = 1
	}
	resp, err := a.http.Get(ctx, documentPath, nil)
	if err != nil {
		return nil, err
	}

	profile := normalize.CleaningProfile{PreferredChain: []string{"div#Karar span.kararHtml div.WordSection1", "body"}}
	full, err := a.html.Normalize(string(resp.Body), profile)
	if err != nil {
		return canon.Failed(documentPath, page, "conversion failed: "+err.Error()), nil
	}

	return normalize.BuildDocument(documentPath, full, page, nil), nil
}
