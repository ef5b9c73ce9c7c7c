package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os/exec"

	"golang.org/x/sync/errgroup"

	"alfredoptarigan/ats-resume-expert/internal/models"
)

// DefaultMaxPages bounds how many pages are sent to the model.
const DefaultMaxPages = 3

// PreprocessorService turns an uploaded PDF into model-ready page images.
type PreprocessorService interface {
	Preprocess(ctx context.Context, doc *models.SourceDocument) ([]models.PageImage, error)
}

type preprocessorService struct {
	parser     PDFParserService
	rasterizer PageRasterizer
	maxPages   int
}

func NewPreprocessorService(parser PDFParserService, rasterizer PageRasterizer, maxPages int) PreprocessorService {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &preprocessorService{
		parser:     parser,
		rasterizer: rasterizer,
		maxPages:   maxPages,
	}
}

// Preprocess returns one JPEG per page for the first maxPages pages, in page
// order. A zero-page document yields an empty slice and no error.
func (p *preprocessorService) Preprocess(ctx context.Context, doc *models.SourceDocument) ([]models.PageImage, error) {
	if doc == nil {
		return nil, &DocumentParseError{Message: "no document"}
	}

	content, err := p.parser.Inspect(doc.Data)
	if err != nil {
		return nil, err
	}

	count := min(content.PageCount, p.maxPages)
	if content.PageCount > p.maxPages {
		log.Printf("📄 %s has %d pages, using the first %d\n", doc.Filename, content.PageCount, count)
	}

	// Pages render in parallel; each goroutine owns one slot.
	images := make([]models.PageImage, count)
	g, gCtx := errgroup.WithContext(ctx)
	for i := range count {
		g.Go(func() error {
			jpegBytes, err := p.rasterizer.RenderPage(gCtx, doc.Data, i+1)
			if err != nil {
				return err
			}
			images[i] = models.PageImage{
				MIMEType: models.MIMETypeJPEG,
				Data:     base64.StdEncoding.EncodeToString(jpegBytes),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("page rasterizer unavailable: %w", err)
		}
		return nil, &DocumentParseError{Message: "failed to render page", Cause: err}
	}

	return images, nil
}
