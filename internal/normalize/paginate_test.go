package normalize

import (
	"strings"
	"testing"
)

// WHAT: Paginate on a short string (under one chunk) returns a single page
// containing the whole string.
// WHY: spec.md §4.3's totalPages formula must floor at 1 even for empty or
// tiny documents.
func TestPaginate_ShortString(t *testing.T) {
	chunk, current, total := Paginate("kisa metin", 1)
	if total != 1 {
		t.Fatalf("totalPages = %d, want 1", total)
	}
	if current != 1 {
		t.Fatalf("currentPage = %d, want 1", current)
	}
	if chunk != "kisa metin" {
		t.Fatalf("chunk = %q, want full string", chunk)
	}
}

// WHAT: Paginate splits a string exactly ChunkSize*2 runes long into two
// full pages.
func TestPaginate_ExactMultiple(t *testing.T) {
	full := strings.Repeat("a", ChunkSize*2)

	_, _, total := Paginate(full, 1)
	if total != 2 {
		t.Fatalf("totalPages = %d, want 2", total)
	}

	chunk2, current2, _ := Paginate(full, 2)
	if current2 != 2 {
		t.Fatalf("currentPage = %d, want 2", current2)
	}
	if len(chunk2) != ChunkSize {
		t.Fatalf("len(chunk2) = %d, want %d", len(chunk2), ChunkSize)
	}
}

// WHAT: Paginate clamps a requested page above totalPages down to the last
// page, and a requested page below 1 up to page 1.
func TestPaginate_ClampsOutOfRange(t *testing.T) {
	full := strings.Repeat("b", ChunkSize+10)

	_, current, total := Paginate(full, 99)
	if current != total {
		t.Fatalf("currentPage = %d, want clamped to totalPages %d", current, total)
	}

	_, current, _ = Paginate(full, 0)
	if current != 1 {
		t.Fatalf("currentPage = %d, want clamped to 1", current)
	}

	_, current, _ = Paginate(full, -5)
	if current != 1 {
		t.Fatalf("currentPage = %d, want clamped to 1 for negative request", current)
	}
}

// WHAT: Paginate counts Unicode code points, not bytes, so a multi-byte
// Turkish character never splits across a chunk boundary.
// WHY: spec.md §4.3 explicitly requires rune-based chunking so "ç", "ğ",
// "ı", "ö", "ş", "ü" never get corrupted at a page boundary.
func TestPaginate_CountsRunesNotBytes(t *testing.T) {
	full := strings.Repeat("ç", ChunkSize) + strings.Repeat("ş", ChunkSize)

	chunk1, _, total := Paginate(full, 1)
	if total != 2 {
		t.Fatalf("totalPages = %d, want 2", total)
	}
	if len([]rune(chunk1)) != ChunkSize {
		t.Fatalf("rune count of chunk1 = %d, want %d", len([]rune(chunk1)), ChunkSize)
	}
	if strings.Contains(chunk1, "ş") {
		t.Fatal("chunk1 should contain only ç runes")
	}
}

// WHAT: BuildDocument sets IsPaginated only when there is more than one
// page, and always reports the clamped currentPage.
func TestBuildDocument_IsPaginatedFlag(t *testing.T) {
	doc := BuildDocument("ref-1", "kisa", 1, map[string]string{"chamber": "1"})
	if doc.IsPaginated {
		t.Fatal("expected IsPaginated=false for a single-page document")
	}
	if doc.TotalPages != 1 || doc.CurrentPage != 1 {
		t.Fatalf("got TotalPages=%d CurrentPage=%d, want 1/1", doc.TotalPages, doc.CurrentPage)
	}

	long := strings.Repeat("x", ChunkSize*3)
	doc2 := BuildDocument("ref-2", long, 2, nil)
	if !doc2.IsPaginated {
		t.Fatal("expected IsPaginated=true for a three-page document")
	}
	if doc2.CurrentPage != 2 || doc2.TotalPages != 3 {
		t.Fatalf("got CurrentPage=%d TotalPages=%d, want 2/3", doc2.CurrentPage, doc2.TotalPages)
	}
}
