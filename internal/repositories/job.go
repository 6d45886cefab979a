package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recruitflow/cv-extractor/internal/models"
)

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(id uuid.UUID) (*models.Job, error)
	AddTag(jobID uuid.UUID, tag *models.JobTag) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(job *models.Job) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *jobRepository) FindByID(id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.Preload("Tags").Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job not found")
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

func (r *jobRepository) AddTag(jobID uuid.UUID, tag *models.JobTag) error {
	// Reuse an existing tag with the same name before minting a new one.
	var existing models.JobTag
	err := r.db.Where("LOWER(name) = LOWER(?)", tag.Name).First(&existing).Error
	if err == nil {
		*tag = existing
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up job tag: %w", err)
	} else if err := r.db.Create(tag).Error; err != nil {
		return fmt.Errorf("failed to create job tag: %w", err)
	}

	job := models.Job{ID: jobID}
	if err := r.db.Model(&job).Association("Tags").Append(tag); err != nil {
		return fmt.Errorf("failed to tag job: %w", err)
	}
	return nil
}
