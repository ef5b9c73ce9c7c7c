package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPdftoppmRasterizer_RenderPage(t *testing.T) {
	if !RasterizerAvailable() {
		t.Skip("pdftoppm not installed")
	}

	r := NewPdftoppmRasterizer(72)
	data := buildPDF(t, "Jane Doe", "Experience")

	img, err := r.RenderPage(context.Background(), data, 2)
	require.NoError(t, err)

	// JPEG start-of-image marker
	assert.True(t, bytes.HasPrefix(img, []byte{0xFF, 0xD8}))
}

func TestPdftoppmRasterizer_InvalidPage(t *testing.T) {
	r := NewPdftoppmRasterizer(0)

	_, err := r.RenderPage(context.Background(), []byte("%PDF-1.4"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid page number")
}

func TestPdftoppmRasterizer_GarbageInput(t *testing.T) {
	if !RasterizerAvailable() {
		t.Skip("pdftoppm not installed")
	}

	r := NewPdftoppmRasterizer(72)

	_, err := r.RenderPage(context.Background(), []byte("definitely not a pdf"), 1)
	require.Error(t, err)
}
