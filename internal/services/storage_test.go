package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("resume", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	_, header, err := req.FormFile("resume")
	require.NoError(t, err)
	return header
}

func TestStorage_ReadUpload(t *testing.T) {
	s := NewStorageService(1024)
	data := []byte("%PDF-1.4 fake")

	doc, err := s.ReadUpload(multipartFile(t, "Resume.PDF", data))
	require.NoError(t, err)

	assert.Equal(t, "Resume.PDF", doc.Filename)
	assert.Equal(t, data, doc.Data)
	assert.Equal(t, int64(len(data)), doc.Size())
}

func TestStorage_RejectsWrongExtension(t *testing.T) {
	s := NewStorageService(1024)

	_, err := s.ReadUpload(multipartFile(t, "resume.docx", []byte("x")))

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Contains(t, err.Error(), ".docx")
}

func TestStorage_RejectsLargeFile(t *testing.T) {
	s := NewStorageService(8)

	_, err := s.ReadUpload(multipartFile(t, "resume.pdf", bytes.Repeat([]byte("a"), 9)))

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Contains(t, err.Error(), "too large")
}

func TestStorage_NilUpload(t *testing.T) {
	_, err := NewStorageService(8).ReadUpload(nil)

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
}

func TestStorage_ReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	doc, err := NewStorageService(1024).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", doc.Filename)
	assert.Equal(t, []byte("%PDF-1.4"), doc.Data)

	_, err = NewStorageService(1024).ReadFile(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)

	txt := filepath.Join(dir, "cv.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hi"), 0o600))
	_, err = NewStorageService(1024).ReadFile(txt)
	var uploadErr *UploadError
	assert.ErrorAs(t, err, &uploadErr)
}
