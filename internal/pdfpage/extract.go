// Package pdfpage implements the PDF Page Extractor (C4): given full PDF
// bytes and a 1-indexed page number, produce a single-page PDF byte blob
// plus the original document's total page count, per spec.md §4.4.
//
// Grounded on docpipe/pdf.go's pdfcpu usage (model.NewDefaultConfiguration,
// api.ReadValidateAndOptimize for page-count discovery), generalized from
// text extraction to structural page trimming via pdfcpu's api.Trim.
package pdfpage

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Extract returns the bytes of a new single-page PDF containing only page
// pageNumber (1-indexed) from the given full PDF, plus the total page count
// of the original document. If pageNumber is outside [1,totalPages], it
// returns (nil, totalPages) per spec.md §4.4 — not an error, since the
// caller (the competition-authority adapter) needs the total to report back
// even when the requested page doesn't exist.
func Extract(pdfBytes []byte, pageNumber int) ([]byte, int, error) {
	conf := model.NewDefaultConfiguration()

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdfBytes), conf)
	if err != nil {
		return nil, 0, fmt.Errorf("pdfpage: read PDF: %w", err)
	}
	total := ctx.PageCount

	if pageNumber < 1 || pageNumber > total {
		return nil, total, nil
	}

	var out bytes.Buffer
	selected := []string{strconv.Itoa(pageNumber)}
	if err := api.Trim(bytes.NewReader(pdfBytes), &out, selected, conf); err != nil {
		return nil, total, fmt.Errorf("pdfpage: trim to page %d: %w", pageNumber, err)
	}

	return out.Bytes(), total, nil
}
