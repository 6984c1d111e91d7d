package pdfpage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// buildMultiPagePDF assembles a minimal, hand-written multi-page PDF with one
// text run per page, following the same incremental-object/xref-table
// construction as docpipe/pdf_test.go's buildRealTextPDF, generalized from a
// single page to n pages sharing one Pages tree.
func buildMultiPagePDF(texts []string) []byte {
	n := len(texts)

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	// Object numbering: 1=Catalog, 2=Pages, 3=Font, then per page i (0-indexed):
	// page object = 4+2*i, contents object = 5+2*i.
	total := 4 + 2*n
	offsets := make([]int, total+1)

	kids := make([]string, n)
	for i := 0; i < n; i++ {
		kids[i] = itoa(4+2*i) + " 0 R"
	}

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [" + strings.Join(kids, " ") + "] /Count " + itoa(n) + " >>\nendobj\n")

	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	for i, text := range texts {
		pageObj := 4 + 2*i
		contentsObj := 5 + 2*i

		escaped := strings.ReplaceAll(text, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, "(", `\(`)
		escaped = strings.ReplaceAll(escaped, ")", `\)`)
		stream := "BT\n/F1 12 Tf\n72 720 Td\n(" + escaped + ") Tj\nET"

		offsets[pageObj] = b.Len()
		b.WriteString(itoa(pageObj) + " 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents " +
			itoa(contentsObj) + " 0 R /Resources << /Font << /F1 3 0 R >> >> >>\nendobj\n")

		offsets[contentsObj] = b.Len()
		b.WriteString(itoa(contentsObj) + " 0 obj\n<< /Length " + itoa(len(stream)) + " >>\nstream\n" +
			stream + "\nendstream\nendobj\n")
	}

	xrefOffset := b.Len()
	b.WriteString("xref\n0 " + itoa(total+1) + "\n")
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= total; i++ {
		b.WriteString(padOffset(offsets[i]))
		b.WriteString(" 00000 n \n")
	}
	b.WriteString("trailer\n<< /Size " + itoa(total+1) + " /Root 1 0 R >>\nstartxref\n")
	b.WriteString(itoa(xrefOffset))
	b.WriteString("\n%%EOF\n")

	return []byte(b.String())
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	s := ""
	for n > 0 {
		s = string(rune('0'+n%10)) + s
		n /= 10
	}
	return s
}

func padOffset(n int) string {
	s := itoa(n)
	for len(s) < 10 {
		s = "0" + s
	}
	return s
}

// WHAT: Extract on a valid in-range page returns a trimmed single-page PDF
// and the correct total page count.
// WHY: spec.md §4.4 requires the adapter to always learn the document's
// total page count alongside whatever page it asked for.
func TestExtract_InRangePage(t *testing.T) {
	full := buildMultiPagePDF([]string{"Birinci sayfa", "Ikinci sayfa", "Ucuncu sayfa"})

	out, total, err := Extract(full, 2)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty trimmed PDF bytes")
	}

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(out), conf)
	if err != nil {
		t.Fatalf("trimmed output did not parse as a valid PDF: %v", err)
	}
	if ctx.PageCount != 1 {
		t.Fatalf("trimmed PageCount = %d, want 1", ctx.PageCount)
	}
}

// WHAT: Extract on an out-of-range page number returns (nil, total, nil)
// rather than an error.
// WHY: spec.md §4.4 treats an out-of-range page as a valid "no such page"
// result the adapter reports back to the caller, not a tool failure.
func TestExtract_OutOfRangePage(t *testing.T) {
	full := buildMultiPagePDF([]string{"Tek sayfa"})

	out, total, err := Extract(full, 5)
	if err != nil {
		t.Fatalf("Extract returned error for out-of-range page: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil bytes for out-of-range page, got %d bytes", len(out))
	}
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
}

// WHAT: Extract rejects page number 0, the same out-of-range treatment as
// any other page below 1.
func TestExtract_ZeroPage(t *testing.T) {
	full := buildMultiPagePDF([]string{"Sayfa bir", "Sayfa iki"})

	out, total, err := Extract(full, 0)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if out != nil {
		t.Fatal("expected nil bytes for page 0")
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
}
