// Package normalize implements the Document Normalizer (C3): HTML→Markdown
// and PDF→Markdown conversion, per-source HTML pre-cleaning, and the fixed
// pagination scheme from spec.md §4.3.
//
// HTML path grounded on veille/internal/pipeline/pipeline.go's
// htmlToMarkdown (html-to-markdown/v2 with base+commonmark+table plugins)
// composed with extract/css.go's selector matching, generalized into a
// preferred-selector-chain-with-body-fallback walk. microcosm-cc/bluemonday
// (present but unused in the teacher's go.mod) is wired in here as the
// final sanitize pass before conversion.
package normalize

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// ChunkSize is the fixed chunk size for HTML-derived Markdown pagination
// (spec.md §3, §4.3), measured in Unicode code points of the serialized
// Markdown string.
const ChunkSize = 5000

// CleaningProfile is a source-specific set of CSS-like selectors pruned from
// the chosen content node before serialization, plus the preferred selector
// chain used to locate that node (falls back to "body" if none match).
type CleaningProfile struct {
	PreferredChain []string
	Prune          []string
}

// HTMLNormalizer converts raw HTML into full Markdown following spec.md
// §4.3's six-step pipeline.
type HTMLNormalizer struct {
	md     *converter.Converter
	policy *bluemonday.Policy
}

// NewHTMLNormalizer builds an HTMLNormalizer with the standard plugin set.
func NewHTMLNormalizer() *HTMLNormalizer {
	return &HTMLNormalizer{
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		policy: sanitizePolicy(),
	}
}

// sanitizePolicy builds the bluemonday policy used as the defense-in-depth
// pass before conversion: it must keep structural/table/heading markup (the
// html-to-markdown converter depends on it) while stripping scripts, style
// blocks, and event-handler attributes that have no place in a decision
// document and would otherwise leak through the converter as text noise.
func sanitizePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowElements(
		"html", "head", "meta", "body", "div", "span", "section", "article",
		"p", "br", "hr", "b", "strong", "i", "em", "u", "sub", "sup",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "dl", "dt", "dd",
		"table", "thead", "tbody", "tfoot", "tr", "td", "th", "caption",
		"a", "blockquote", "pre", "code",
	)
	p.AllowAttrs("class", "id").OnElements("div", "span", "section", "article", "p", "table", "td", "th", "tr")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return p
}

// Normalize runs the six-step HTML pipeline and returns the full Markdown
// string. On parse, render or conversion failure it returns ("", err) and
// the caller is responsible for building the (null, errorMessage) Document
// pair per spec.md §4.3.
func (n *HTMLNormalizer) Normalize(rawHTML string, profile CleaningProfile) (string, error) {
	// Step 1: HTML-entity unescape.
	unescaped := html.UnescapeString(rawHTML)

	doc, err := html.Parse(strings.NewReader(unescaped))
	if err != nil {
		return "", fmt.Errorf("normalize: parse html: %w", err)
	}

	// Step 2: locate the decision payload via the preferred selector chain,
	// falling back to body.
	target := selectPreferred(doc, profile.PreferredChain)
	if target == nil {
		target = querySelector(doc, "body")
	}
	if target == nil {
		target = doc
	}

	// Step 3: delete pruned nodes from within the chosen subtree.
	for _, sel := range profile.Prune {
		for _, node := range querySelectorAll(target, sel) {
			removeNode(node)
		}
	}

	// Step 4: serialize back to HTML.
	var sb strings.Builder
	if err := html.Render(&sb, target); err != nil {
		return "", fmt.Errorf("normalize: render html: %w", err)
	}
	rendered := sb.String()

	// Sanitize before conversion (bluemonday pass).
	sanitized := n.policy.Sanitize(rendered)

	// Step 5: wrap in a minimal full document if not already one.
	full := sanitized
	if !strings.Contains(strings.ToLower(full), "<html") {
		full = "<html><head><meta charset=\"utf-8\"></head><body>" + full + "</body></html>"
	}

	// Step 6: feed to the HTML-to-Markdown converter.
	md, err := n.md.ConvertString(full)
	if err != nil {
		return "", fmt.Errorf("normalize: convert to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// selectPreferred walks a selector chain in order and returns the first
// match, or nil if none of them match anything.
func selectPreferred(doc *html.Node, chain []string) *html.Node {
	for _, sel := range chain {
		if n := querySelector(doc, sel); n != nil {
			return n
		}
	}
	return nil
}
