package services

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// CVInspector rejects CVs that would only waste a provider call: files that
// are not readable PDFs, have no pages, or contain no extractable text.
type CVInspector interface {
	Validate(filePath string) error
}

type pdfCVInspector struct{}

func NewCVInspector() CVInspector {
	return &pdfCVInspector{}
}

func (p *pdfCVInspector) Validate(filePath string) error {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	totalPage := r.NumPage()
	if totalPage == 0 {
		return fmt.Errorf("PDF has no pages")
	}

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			return nil
		}
	}

	return fmt.Errorf("no text content found in PDF")
}
