package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recruitflow/cv-extractor/internal/models"
)

type ApplicantRepository interface {
	Create(applicant *models.Applicant) error
	FindByID(id uuid.UUID) (*models.Applicant, error)
	FindByIDs(ids []uuid.UUID) ([]models.Applicant, error)
	// FindByNameAndEmail is an exact, case-sensitive match used by the bulk
	// intake duplicate check. Returns (nil, nil) when no applicant matches.
	FindByNameAndEmail(name, email string) (*models.Applicant, error)
	UpdateFields(id uuid.UUID, fields map[string]interface{}) error
	UpdateExtractState(id uuid.UUID, state models.ExtractState, status string) error
}

type applicantRepository struct {
	db *gorm.DB
}

func (r *applicantRepository) Create(applicant *models.Applicant) error {
	if err := r.db.Create(applicant).Error; err != nil {
		return fmt.Errorf("failed to create applicant: %w", err)
	}
	return nil
}

func (r *applicantRepository) FindByID(id uuid.UUID) (*models.Applicant, error) {
	var applicant models.Applicant
	if err := r.db.Preload("Degree").Where("id = ?", id).First(&applicant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("applicant not found")
		}
		return nil, fmt.Errorf("failed to find applicant: %w", err)
	}
	return &applicant, nil
}

func (r *applicantRepository) FindByIDs(ids []uuid.UUID) ([]models.Applicant, error) {
	var applicants []models.Applicant
	if err := r.db.Where("id IN ?", ids).Find(&applicants).Error; err != nil {
		return nil, fmt.Errorf("failed to find applicants: %w", err)
	}
	return applicants, nil
}

func (r *applicantRepository) FindByNameAndEmail(name, email string) (*models.Applicant, error) {
	var applicant models.Applicant
	err := r.db.Where("partner_name = ? AND email = ?", name, email).First(&applicant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up applicant by name and email: %w", err)
	}
	return &applicant, nil
}

func (r *applicantRepository) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	result := r.db.Model(&models.Applicant{}).
		Where("id = ?", id).
		Updates(fields)

	if result.Error != nil {
		return fmt.Errorf("failed to update applicant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("applicant not found")
	}
	return nil
}

func (r *applicantRepository) UpdateExtractState(id uuid.UUID, state models.ExtractState, status string) error {
	result := r.db.Model(&models.Applicant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"extract_state":  state,
			"extract_status": status,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update extract state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("applicant not found")
	}
	return nil
}

func NewApplicantRepository(db *gorm.DB) ApplicantRepository {
	return &applicantRepository{db: db}
}
