// Package canon defines the canonical request/result/document records shared
// by every source adapter, plus the enumeration helpers adapters use to map
// a closed set of friendly names onto an upstream's own "omit" convention.
package canon

// SearchResultEntry is the stable minimum set of fields any adapter's search
// response exposes, regardless of how the upstream shapes its own results.
type SearchResultEntry struct {
	// ID is opaque: a base64 composite key for one source, a URL path for
	// another, an integer-like string for others. Callers must not parse it.
	ID string `json:"id"`

	Title          string `json:"title,omitempty"`
	Chamber        string `json:"chamber,omitempty"`
	CaseNumber     string `json:"caseNumber,omitempty"`
	DecisionNumber string `json:"decisionNumber,omitempty"`
	DecisionDate   string `json:"decisionDate,omitempty"`

	// DocumentRef is whatever GetDocument needs: the ID, a full URL, or a
	// URL-path fragment, depending on the adapter.
	DocumentRef string `json:"documentRef"`
}

// SearchResult is the canonical page of results returned by every adapter's
// Search operation.
type SearchResult struct {
	Entries       []SearchResultEntry `json:"entries"`
	TotalRecords  *int                `json:"totalRecords"`
	RequestedPage int                 `json:"requestedPage"`
	TotalPages    *int                `json:"totalPages,omitempty"`
}

// Document is the canonical normalized-document record returned by every
// adapter's GetDocument operation.
type Document struct {
	SourceRef string            `json:"sourceRef"`
	Metadata  map[string]string `json:"metadata,omitempty"`

	// MarkdownChunk is nil whenever ErrorMessage is set (conversion
	// failure) — the two are never both set. MarkdownChunk is also nil, with
	// no ErrorMessage, when a requested PDF page is out of range.
	MarkdownChunk *string `json:"markdownChunk"`
	CurrentPage   int     `json:"currentPage"`
	TotalPages    int     `json:"totalPages"`
	IsPaginated   bool    `json:"isPaginated"`
	ErrorMessage  *string `json:"errorMessage,omitempty"`
}

// Failed builds a Document carrying only an error, echoing sourceRef and
// page so the caller-facing contract (id + page-number echo even on
// failure) always holds — see the procurement-authority adapter.
func Failed(sourceRef string, page int, msg string) *Document {
	return &Document{
		SourceRef:    sourceRef,
		CurrentPage:  page,
		TotalPages:   0,
		IsPaginated:  false,
		ErrorMessage: &msg,
	}
}

// SearchRequest is a common search shape. No adapter embeds it: each
// adapter defines its own request struct carrying its source-specific
// fields (boolean keyword groups, case/decision ranges, legislation refs...).
type SearchRequest struct {
	Phrase    string `json:"phrase,omitempty"`
	Chamber   string `json:"chamber,omitempty"`
	DateStart string `json:"dateStart,omitempty"`
	DateEnd   string `json:"dateEnd,omitempty"`

	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`

	SortField     string `json:"sortField,omitempty"`
	SortDirection string `json:"sortDirection,omitempty"`
}

// Normalize applies the registry-level defaults and bounds from spec.md §3:
// pageNumber >= 1, pageSize in [1,100].
func (r *SearchRequest) Normalize() {
	if r.PageNumber < 1 {
		r.PageNumber = 1
	}
	if r.PageSize < 1 {
		r.PageSize = 10
	}
	if r.PageSize > 100 {
		r.PageSize = 100
	}
}

// IntPtr is a small convenience constructor used when building SearchResult
// values — mirrors the teacher's preference for explicit pointer fields over
// sentinel zero values so totalRecords can be legitimately nil.
func IntPtr(n int) *int { return &n }
