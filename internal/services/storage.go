package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"recruitflow/cv-extractor/internal/models"
)

// StorageService keeps CV payloads on disk; the attachments table holds
// only metadata and the path.
type StorageService interface {
	SaveCV(file *multipart.FileHeader) (string, string, error)
	ReadFile(path string) ([]byte, error)
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveCV stores an uploaded CV under a unique name and returns the stored
// filename and full path. Only PDFs are accepted.
func (s *storageService) SaveCV(file *multipart.FileHeader) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return "", "", fmt.Errorf("invalid file extension: %s", ext)
	}

	uniqueFilename := fmt.Sprintf("cv_%s%s", uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

func (s *storageService) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored file: %w", err)
	}
	return data, nil
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := filepath.Join(s.uploadPath, filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// AttachmentSource supplies the raw document bytes and declared MIME type
// for an attachment record.
type AttachmentSource interface {
	Fetch(attachment *models.Attachment) ([]byte, string, error)
}

type storageAttachmentSource struct {
	storage StorageService
}

func NewAttachmentSource(storage StorageService) AttachmentSource {
	return &storageAttachmentSource{storage: storage}
}

func (s *storageAttachmentSource) Fetch(attachment *models.Attachment) ([]byte, string, error) {
	data, err := s.storage.ReadFile(attachment.FilePath)
	if err != nil {
		return nil, "", err
	}

	mimeType := attachment.MimeType
	if mimeType == "" {
		mimeType = "application/pdf"
	}
	return data, mimeType, nil
}
