package normalize

import (
	"github.com/serkanbykl/yargi-mcp/internal/canon"
)

// Paginate implements spec.md §4.3's pagination formula over an
// already-produced full Markdown string: totalPages = ceil(len(M)/5000) (at
// least 1), currentPage = clamp(requested, 1, totalPages), markdownChunk =
// M[(currentPage-1)*5000 : currentPage*5000]. Counts are over Unicode code
// points, not bytes, so multi-byte Turkish characters never split a rune.
func Paginate(full string, requestedPage int) (chunk string, currentPage, totalPages int) {
	runes := []rune(full)
	n := len(runes)

	totalPages = (n + ChunkSize - 1) / ChunkSize
	if totalPages < 1 {
		totalPages = 1
	}

	currentPage = requestedPage
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	start := (currentPage - 1) * ChunkSize
	end := start + ChunkSize
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	return string(runes[start:end]), currentPage, totalPages
}

// BuildDocument assembles a canon.Document from a normalized full Markdown
// string and requested page, enforcing the currentPage ∈ [1,totalPages]
// invariant.
func BuildDocument(sourceRef string, full string, requestedPage int, metadata map[string]string) *canon.Document {
	chunk, currentPage, totalPages := Paginate(full, requestedPage)
	return &canon.Document{
		SourceRef:     sourceRef,
		Metadata:      metadata,
		MarkdownChunk: &chunk,
		CurrentPage:   currentPage,
		TotalPages:    totalPages,
		IsPaginated:   totalPages > 1,
	}
}
