package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// PageRasterizer renders one page (1-based) of a PDF into JPEG bytes.
type PageRasterizer interface {
	RenderPage(ctx context.Context, pdfData []byte, page int) ([]byte, error)
}

type pdftoppmRasterizer struct {
	binary string
	dpi    int
}

// NewPdftoppmRasterizer shells out to poppler's pdftoppm. The document is
// piped through stdin and the image read from stdout.
func NewPdftoppmRasterizer(dpi int) PageRasterizer {
	if dpi <= 0 {
		dpi = 72
	}
	return &pdftoppmRasterizer{
		binary: "pdftoppm",
		dpi:    dpi,
	}
}

func (r *pdftoppmRasterizer) RenderPage(ctx context.Context, pdfData []byte, page int) ([]byte, error) {
	if page < 1 {
		return nil, fmt.Errorf("invalid page number %d", page)
	}

	p := strconv.Itoa(page)
	args := []string{"-jpeg", "-r", strconv.Itoa(r.dpi), "-f", p, "-l", p, "-singlefile", "-"}
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Stdin = bytes.NewReader(pdfData)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("pdftoppm failed on page %d: %w: %s", page, err, msg)
		}
		return nil, fmt.Errorf("pdftoppm failed on page %d: %w", page, err)
	}

	if stdout.Len() == 0 {
		return nil, errors.New("pdftoppm produced no image")
	}

	return stdout.Bytes(), nil
}

// RasterizerAvailable reports whether the pdftoppm binary is on PATH.
func RasterizerAvailable() bool {
	_, err := exec.LookPath("pdftoppm")
	return err == nil
}
