package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/ats-resume-expert/internal/models"
)

// StorageService loads résumé uploads into memory. Nothing is written to disk.
type StorageService interface {
	ReadUpload(file *multipart.FileHeader) (*models.SourceDocument, error)
	ReadFile(path string) (*models.SourceDocument, error)
}

type storageService struct {
	maxFileSize int64
}

func NewStorageService(maxFileSize int64) StorageService {
	return &storageService{
		maxFileSize: maxFileSize,
	}
}

func (s *storageService) ReadUpload(file *multipart.FileHeader) (*models.SourceDocument, error) {
	if file == nil {
		return nil, &UploadError{Message: "no file uploaded"}
	}

	if err := s.check(file.Filename, file.Size); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	return s.read(file.Filename, src)
}

func (s *storageService) ReadFile(path string) (*models.SourceDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := s.check(filepath.Base(path), info.Size()); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return s.read(filepath.Base(path), f)
}

func (s *storageService) check(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" {
		return &UploadError{Message: fmt.Sprintf("invalid file extension: %q, only .pdf is accepted", ext)}
	}

	if size > s.maxFileSize {
		return &UploadError{Message: fmt.Sprintf("file too large. Max size: %d bytes", s.maxFileSize)}
	}

	return nil
}

func (s *storageService) read(filename string, r io.Reader) (*models.SourceDocument, error) {
	// One extra byte detects a body larger than its declared size.
	data, err := io.ReadAll(io.LimitReader(r, s.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if int64(len(data)) > s.maxFileSize {
		return nil, &UploadError{Message: fmt.Sprintf("file too large. Max size: %d bytes", s.maxFileSize)}
	}

	return &models.SourceDocument{
		Filename: filename,
		Data:     data,
	}, nil
}
