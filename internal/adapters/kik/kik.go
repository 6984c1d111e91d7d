// Package kik implements the Public Procurement Authority adapter (spec.md
// §4.5.7): an ASP.NET WebForms search form driven through a headless
// browser, paginated via __doPostBack targets, with modal-iframe detail
// pages and base64-composite opaque result ids.
package kik

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/serkanbykl/yargi-mcp/internal/browser"
	"github.com/serkanbykl/yargi-mcp/internal/canon"
	"github.com/serkanbykl/yargi-mcp/internal/normalize"
	"github.com/serkanbykl/yargi-mcp/internal/toolerr"
)

const searchURL = "https://www.kik.gov.tr/KurulKararlari/GelismisKararAra.aspx"

// DecisionType is the closed set of "Karar Türü" radio-button values the
// search form accepts. Friendly name and wire value are the same rb* string
// — the opaque id embeds it directly and GetDocument re-validates against it
// with no separate translation layer (original_source/kik_mcp_module/
// models.py's KikKararTipi).
var DecisionType = canon.NewEnum("", map[string]string{
	"":              "",
	"rbUyusmazlik":  "rbUyusmazlik",
	"rbDuzenleyici": "rbDuzenleyici",
	"rbMahkeme":     "rbMahkeme",
})

const defaultDecisionType = "rbUyusmazlik"

// SearchRequest is the typed input for search_kik_decisions.
type SearchRequest struct {
	DecisionType         string `json:"decisionType"`
	DecisionYear         string `json:"decisionYear"`
	DecisionNumber       string `json:"decisionNumber"`
	CaseYear             string `json:"caseYear"`
	CaseNumber           string `json:"caseNumber"`
	Subject              string `json:"subject"`
	ApplicantName        string `json:"applicantName"`
	ContractingAuthority string `json:"contractingAuthority"`
	PageNumber           int    `json:"pageNumber"`
}

func (r *SearchRequest) normalize() {
	if r.PageNumber < 1 {
		r.PageNumber = 1
	}
	if r.DecisionType == "" {
		r.DecisionType = defaultDecisionType
	}
	// Callers pass "_" in place of "/" when the decision number travels
	// through a context that can't carry a literal slash.
	r.DecisionNumber = strings.ReplaceAll(r.DecisionNumber, "_", "/")
}

// fieldSelectors maps each SearchRequest field to the ASP.NET form control
// id it fills, grounded on the postback grid's naming convention.
var fieldSelectors = map[string]string{
	"subject":              "#ctl00_ContentPlaceHolder1_txtKonu",
	"applicantName":        "#ctl00_ContentPlaceHolder1_txtBasvuranAdi",
	"contractingAuthority": "#ctl00_ContentPlaceHolder1_txtIhaleyiYapanIdare",
	"caseYear":             "#ctl00_ContentPlaceHolder1_txtBasvuruYili",
	"caseNumber":           "#ctl00_ContentPlaceHolder1_txtBasvuruNo",
	"decisionYear":         "#ctl00_ContentPlaceHolder1_txtKararYili",
	"decisionNumber":       "#ctl00_ContentPlaceHolder1_txtKararNo",
}

const searchButtonSelector = "#ctl00_ContentPlaceHolder1_btnAra"
const resultsTableSelector = "#ctl00_ContentPlaceHolder1_grdKurulKararSorguSonuc"
const modalIframeSelector = `iframe[src^="KurulKararGoster.aspx"]`
const modalWaitTimeout = 30 * time.Second

// Adapter drives the procurement-authority search form through a shared
// browser.Driver.
type Adapter struct {
	driver *browser.Driver
}

// New builds an Adapter. remoteURL, when non-empty, points at an external
// Chrome instance; empty launches one locally.
func New(remoteURL string) *Adapter {
	return &Adapter{driver: browser.New(browser.Config{RemoteURL: remoteURL})}
}

// Close shuts down the underlying browser.
func (a *Adapter) Close() error { return a.driver.Close() }

// decisionRow is one scraped result-grid row, carrying the preview button's
// postback event target alongside the fields the canonical entry needs —
// GetDocument needs the former, canon.SearchResultEntry has no place for it.
type decisionRow struct {
	EventTarget     string
	DecisionNumber  string
	DecisionDate    string
	ProcuringEntity string
	Applicant       string
	Subject         string
}

// Search navigates to the search form, fills the fields present in req,
// submits, and scrapes the results grid for the requested page.
func (a *Adapter) Search(ctx context.Context, req SearchRequest) (*canon.SearchResult, error) {
	req.normalize()
	if !DecisionType.Valid(req.DecisionType) {
		return nil, toolerr.New(toolerr.InvalidInput, "decisionType not in the accepted set")
	}

	rows, err := a.performSearch(ctx, req)
	if err != nil {
		return nil, err
	}

	// The decision type searched for is never present in the row's own
	// cells (original_source/kik_mcp_module/client.py): every row in one
	// result set shares the search's own decision type.
	entries := make([]canon.SearchResultEntry, 0, len(rows))
	for _, row := range rows {
		id := encodeID(req.DecisionType, row.DecisionNumber)
		entries = append(entries, canon.SearchResultEntry{
			ID:             id,
			Title:          row.Subject,
			Chamber:        row.ProcuringEntity,
			CaseNumber:     row.Applicant,
			DecisionNumber: row.DecisionNumber,
			DecisionDate:   row.DecisionDate,
			DocumentRef:    id,
		})
	}

	return &canon.SearchResult{
		Entries:       entries,
		TotalRecords:  canon.IntPtr(len(entries)),
		RequestedPage: req.PageNumber,
	}, nil
}

// performSearch drives the live form — navigate, fill, submit, paginate —
// and returns the scraped rows without building canon ids, since GetDocument
// also needs this flow but must additionally access each row's event target.
func (a *Adapter) performSearch(ctx context.Context, req SearchRequest) ([]decisionRow, error) {
	if err := a.driver.Navigate(ctx, searchURL); err != nil {
		return nil, toolerr.Wrap(toolerr.UpstreamNetwork, "navigate to search form", err)
	}

	values := map[string]string{
		"subject":              req.Subject,
		"applicantName":        req.ApplicantName,
		"contractingAuthority": req.ContractingAuthority,
		"caseYear":             req.CaseYear,
		"caseNumber":           req.CaseNumber,
		"decisionYear":         req.DecisionYear,
		"decisionNumber":       req.DecisionNumber,
	}
	for field, value := range values {
		if value == "" {
			continue
		}
		if err := a.driver.Fill(ctx, fieldSelectors[field], value); err != nil {
			return nil, toolerr.Wrap(toolerr.UpstreamNetwork, "fill "+field, err)
		}
	}

	if err := a.driver.Click(ctx, searchButtonSelector); err != nil {
		return nil, toolerr.Wrap(toolerr.UpstreamNetwork, "submit search form", err)
	}

	if req.PageNumber > 1 {
		if err := a.gotoPage(ctx, req.PageNumber); err != nil {
			return nil, err
		}
	}

	return a.scrapeRows(ctx)
}

// gotoPage triggers the grid's __doPostBack pager target for pageNumber.
// The pager control index is pageNumber+2, rendered two digits wide, per
// the grid's generated control naming.
func (a *Adapter) gotoPage(ctx context.Context, pageNumber int) error {
	target := fmt.Sprintf("ctl00$ContentPlaceHolder1$grdKurulKararSorguSonuc$ctl14$ctl%02d", pageNumber+2)
	script := fmt.Sprintf(`() => __doPostBack('%s', '')`, target)
	if err := a.driver.EvalPostback(ctx, script); err != nil {
		return toolerr.Wrap(toolerr.UpstreamNetwork, "paginate results", err)
	}
	return nil
}

// postbackTargetRe extracts the event target from a __doPostBack('target',
// 'argument') href, matching original_source/kik_mcp_module/client.py's
// preview-anchor regex.
var postbackTargetRe = regexp.MustCompile(`__doPostBack\('([^']*)'`)

// scrapeRows parses the live results grid's current page. Each row has six
// cells: a preview-button anchor, then karar no, karar tarihi, idare,
// basvuru sahibi, and ihale konusu, in that order — rows of any other shape
// (header, footer, pager) are skipped.
func (a *Adapter) scrapeRows(ctx context.Context) ([]decisionRow, error) {
	content, err := a.driver.Content(ctx)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.UpstreamNetwork, "read results content", err)
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, toolerr.Wrap(toolerr.UpstreamParse, "parse results grid", err)
	}

	table := findByID(doc, "ctl00_ContentPlaceHolder1_grdKurulKararSorguSonuc")
	if table == nil {
		return nil, nil
	}

	var rows []decisionRow
	for _, tr := range findAllByTag(table, "tr") {
		cells := childCells(tr)
		if len(cells) != 6 {
			continue
		}
		href := findAnchorHref(cells[0])
		m := postbackTargetRe.FindStringSubmatch(href)
		if m == nil {
			continue
		}
		rows = append(rows, decisionRow{
			EventTarget:     m[1],
			DecisionNumber:  textContent(cells[1]),
			DecisionDate:    textContent(cells[2]),
			ProcuringEntity: textContent(cells[3]),
			Applicant:       textContent(cells[4]),
			Subject:         textContent(cells[5]),
		})
	}
	return rows, nil
}

// encodeID builds the opaque composite id "{decisionType}|{decisionNumber}"
// base64-encoded, per spec.md §4.5.7. decisionNumber's "/" is kept as-is;
// callers decoding it translate "_" back to "/" only when the number itself
// was submitted with underscores substituted for slashes by a caller that
// cannot pass literal slashes through a path segment.
func encodeID(decisionType, decisionNumber string) string {
	raw := decisionType + "|" + decisionNumber
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

func decodeID(id string) (decisionType, decisionNumber string, err error) {
	raw, err := base64.StdEncoding.DecodeString(id)
	if err != nil {
		return "", "", toolerr.Wrap(toolerr.InvalidInput, "decode document id", err)
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return "", "", toolerr.New(toolerr.InvalidInput, "malformed document id")
	}
	decisionType = parts[0]
	decisionNumber = strings.ReplaceAll(parts[1], "_", "/")
	return decisionType, decisionNumber, nil
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

// findAnchorHref returns the href of the first <a> found within cell.
func findAnchorHref(cell *html.Node) string {
	var found string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					found = attr.Val
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(cell)
	return found
}

// findModalIframeSrc locates an iframe whose src begins with
// "KurulKararGoster.aspx" — the detail modal the grid opens on row click.
func findModalIframeSrc(doc *html.Node) string {
	var found string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "iframe" {
			for _, attr := range n.Attr {
				if attr.Key == "src" && strings.HasPrefix(attr.Val, "KurulKararGoster.aspx") {
					found = attr.Val
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

// GetDocument decodes the opaque id, re-runs the search to find the matching
// row, triggers that row's own preview postback (not a page-level script),
// waits for the resulting modal iframe, and opens its (possibly relative)
// src on a fresh page to read and normalize the decision text — the one
// operation this adapter exists to perform.
func (a *Adapter) GetDocument(ctx context.Context, id string, page int) (*canon.Document, error) {
	if page < 1 {
		page = 1
	}
	decisionType, decisionNumber, err := decodeID(id)
	if err != nil {
		return nil, err
	}
	if !DecisionType.Valid(decisionType) {
		return nil, toolerr.New(toolerr.InvalidInput, "decoded decisionType not in the accepted set")
	}

	targeted := SearchRequest{DecisionType: decisionType, DecisionNumber: decisionNumber, PageNumber: 1}
	targeted.normalize()

	rows, err := a.performSearch(ctx, targeted)
	if err != nil {
		return nil, err
	}

	var match *decisionRow
	for i := range rows {
		if rows[i].DecisionNumber == decisionNumber {
			match = &rows[i]
			break
		}
	}
	if match == nil {
		return nil, toolerr.New(toolerr.NotFound, "decision not found by targeted search")
	}

	script := fmt.Sprintf(`() => __doPostBack('%s', '')`, match.EventTarget)
	if err := a.driver.EvalPostback(ctx, script); err != nil {
		return nil, toolerr.Wrap(toolerr.UpstreamNetwork, "trigger preview postback", err)
	}
	if err := a.driver.WaitForSelector(ctx, modalIframeSelector, "visible", modalWaitTimeout); err != nil {
		return nil, toolerr.Wrap(toolerr.UpstreamTimeout, "wait for decision modal", err)
	}

	content, err := a.driver.Content(ctx)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.UpstreamNetwork, "read modal content", err)
	}
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, toolerr.Wrap(toolerr.UpstreamParse, "parse modal page", err)
	}

	iframeSrc := findModalIframeSrc(doc)
	if iframeSrc == "" {
		return nil, toolerr.New(toolerr.UpstreamParse, "decision modal iframe not found after postback")
	}

	base, err := url.Parse(searchURL)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.InternalError, "parse search base URL", err)
	}
	ref, err := url.Parse(iframeSrc)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.UpstreamParse, "parse modal iframe src", err)
	}
	absoluteURL := base.ResolveReference(ref).String()

	rawHTML, err := a.driver.OpenChildPage(ctx, absoluteURL)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.UpstreamNetwork, "open decision modal", err)
	}

	normalizer := normalize.NewHTMLNormalizer()
	profile := normalize.CleaningProfile{PreferredChain: []string{"#ctl00_ContentPlaceHolder1_lblKarar", "body"}}
	full, err := normalizer.Normalize(rawHTML, profile)
	if err != nil {
		return canon.Failed(id, page, "conversion failed: "+err.Error()), nil
	}

	return normalize.BuildDocument(id, full, page, map[string]string{
		"decisionType":   decisionType,
		"decisionNumber": decisionNumber,
	}), nil
}
