package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

type PDFParserService interface {
	// Inspect opens the document and counts its pages.
	Inspect(data []byte) (*PDFContent, error)
	// ExtractText returns the plain text of the first maxPages pages.
	ExtractText(data []byte, maxPages int) (*PDFContent, error)
}

type PDFContent struct {
	Text      string
	PageCount int
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

func (p *pdfParserService) Inspect(data []byte) (content *PDFContent, err error) {
	defer recoverParse(&err)

	r, err := openReader(data)
	if err != nil {
		return nil, err
	}

	total := r.NumPage()
	if total < 0 {
		return nil, &DocumentParseError{Message: fmt.Sprintf("invalid page count %d", total)}
	}

	return &PDFContent{PageCount: total}, nil
}

func (p *pdfParserService) ExtractText(data []byte, maxPages int) (content *PDFContent, err error) {
	defer recoverParse(&err)

	r, err := openReader(data)
	if err != nil {
		return nil, err
	}

	totalPage := r.NumPage()
	limit := totalPage
	if maxPages > 0 && maxPages < limit {
		limit = maxPages
	}

	var textBuilder strings.Builder
	for pageIndex := 1; pageIndex <= limit; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Scanned pages often carry no text layer
			continue
		}

		textBuilder.WriteString(fmt.Sprintf("--- Page %d ---\n", pageIndex))
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return &PDFContent{
		Text:      CleanText(textBuilder.String()),
		PageCount: totalPage,
	}, nil
}

func openReader(data []byte) (*pdf.Reader, error) {
	if len(data) == 0 {
		return nil, &DocumentParseError{Message: "empty file"}
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &DocumentParseError{Message: "failed to open PDF", Cause: err}
	}

	return r, nil
}

// recoverParse turns a panic from the PDF reader into a DocumentParseError.
func recoverParse(err *error) {
	if rec := recover(); rec != nil {
		*err = &DocumentParseError{Message: "malformed PDF", Cause: fmt.Errorf("%v", rec)}
	}
}

// CleanText drops blank lines and surrounding whitespace.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
