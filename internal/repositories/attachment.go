package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recruitflow/cv-extractor/internal/models"
)

type AttachmentRepository interface {
	Create(attachment *models.Attachment) error
	FindByID(id uuid.UUID) (*models.Attachment, error)
	AssignToApplicant(attachmentID, applicantID uuid.UUID) error
}

type attachmentRepository struct {
	db *gorm.DB
}

// Create implements AttachmentRepository.
func (r *attachmentRepository) Create(attachment *models.Attachment) error {
	if err := r.db.Create(attachment).Error; err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}
	return nil
}

// FindByID implements AttachmentRepository.
func (r *attachmentRepository) FindByID(id uuid.UUID) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := r.db.Where("id = ?", id).First(&attachment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("attachment not found: %w", err)
		}
		return nil, fmt.Errorf("failed to find attachment: %w", err)
	}
	return &attachment, nil
}

// AssignToApplicant implements AttachmentRepository.
func (r *attachmentRepository) AssignToApplicant(attachmentID, applicantID uuid.UUID) error {
	result := r.db.Model(&models.Attachment{}).
		Where("id = ?", attachmentID).
		Update("applicant_id", applicantID)
	if result.Error != nil {
		return fmt.Errorf("failed to assign attachment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("attachment not found")
	}
	return nil
}

func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}
