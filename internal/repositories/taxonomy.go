package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recruitflow/cv-extractor/internal/models"
)

// TaxonomyRepository covers the reference entities the reconciler matches
// extracted labels against. All Find* lookups on a name are case-insensitive
// exact matches and return (nil, nil) on a miss, so find-or-create call
// sites stay flat.
type TaxonomyRepository interface {
	FindDegreeByName(name string) (*models.Degree, error)
	CreateDegree(degree *models.Degree) error

	FindSkillTypeByName(name string) (*models.SkillType, error)
	CreateSkillType(skillType *models.SkillType) error

	FindSkillLevel(name string, progress int) (*models.SkillLevel, error)
	FindSkillLevelByName(name string) (*models.SkillLevel, error)
	FindLowestPositiveSkillLevel() (*models.SkillLevel, error)
	CreateSkillLevel(level *models.SkillLevel) error

	TypeHasLevel(typeID, levelID uuid.UUID) (bool, error)
	AddLevelToType(typeID, levelID uuid.UUID) error

	FindSkillByName(name string) (*models.Skill, error)
	CreateSkill(skill *models.Skill) error
	UpdateSkillType(skillID, typeID uuid.UUID) error

	FindApplicantSkill(applicantID, skillID uuid.UUID) (*models.ApplicantSkill, error)
	CreateApplicantSkill(link *models.ApplicantSkill) error
	ListApplicantSkills(applicantID uuid.UUID) ([]models.ApplicantSkill, error)
}

type taxonomyRepository struct {
	db *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

// first runs a lookup and maps gorm.ErrRecordNotFound to a nil result.
func first[T any](q *gorm.DB, what string) (*T, error) {
	var out T
	if err := q.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find %s: %w", what, err)
	}
	return &out, nil
}

func (r *taxonomyRepository) FindDegreeByName(name string) (*models.Degree, error) {
	return first[models.Degree](r.db.Where("LOWER(name) = LOWER(?)", name), "degree")
}

func (r *taxonomyRepository) CreateDegree(degree *models.Degree) error {
	if err := r.db.Create(degree).Error; err != nil {
		return fmt.Errorf("failed to create degree: %w", err)
	}
	return nil
}

func (r *taxonomyRepository) FindSkillTypeByName(name string) (*models.SkillType, error) {
	return first[models.SkillType](r.db.Where("LOWER(name) = LOWER(?)", name), "skill type")
}

func (r *taxonomyRepository) CreateSkillType(skillType *models.SkillType) error {
	if err := r.db.Create(skillType).Error; err != nil {
		return fmt.Errorf("failed to create skill type: %w", err)
	}
	return nil
}

func (r *taxonomyRepository) FindSkillLevel(name string, progress int) (*models.SkillLevel, error) {
	q := r.db.Where("LOWER(name) = LOWER(?) AND progress = ?", name, progress)
	return first[models.SkillLevel](q, "skill level")
}

func (r *taxonomyRepository) FindSkillLevelByName(name string) (*models.SkillLevel, error) {
	return first[models.SkillLevel](r.db.Where("LOWER(name) = LOWER(?)", name), "skill level")
}

func (r *taxonomyRepository) FindLowestPositiveSkillLevel() (*models.SkillLevel, error) {
	q := r.db.Where("progress > 0").Order("progress ASC")
	return first[models.SkillLevel](q, "skill level")
}

func (r *taxonomyRepository) CreateSkillLevel(level *models.SkillLevel) error {
	if err := r.db.Create(level).Error; err != nil {
		return fmt.Errorf("failed to create skill level: %w", err)
	}
	return nil
}

func (r *taxonomyRepository) TypeHasLevel(typeID, levelID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Table("skill_type_levels").
		Where("skill_type_id = ? AND skill_level_id = ?", typeID, levelID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check type-level association: %w", err)
	}
	return count > 0, nil
}

func (r *taxonomyRepository) AddLevelToType(typeID, levelID uuid.UUID) error {
	skillType := models.SkillType{ID: typeID}
	err := r.db.Model(&skillType).
		Association("Levels").
		Append(&models.SkillLevel{ID: levelID})
	if err != nil {
		return fmt.Errorf("failed to associate level with type: %w", err)
	}
	return nil
}

func (r *taxonomyRepository) FindSkillByName(name string) (*models.Skill, error) {
	return first[models.Skill](r.db.Where("LOWER(name) = LOWER(?)", name), "skill")
}

func (r *taxonomyRepository) CreateSkill(skill *models.Skill) error {
	if err := r.db.Create(skill).Error; err != nil {
		return fmt.Errorf("failed to create skill: %w", err)
	}
	return nil
}

func (r *taxonomyRepository) UpdateSkillType(skillID, typeID uuid.UUID) error {
	result := r.db.Model(&models.Skill{}).
		Where("id = ?", skillID).
		Update("skill_type_id", typeID)
	if result.Error != nil {
		return fmt.Errorf("failed to update skill type: %w", result.Error)
	}
	return nil
}

func (r *taxonomyRepository) FindApplicantSkill(applicantID, skillID uuid.UUID) (*models.ApplicantSkill, error) {
	q := r.db.Where("applicant_id = ? AND skill_id = ?", applicantID, skillID)
	return first[models.ApplicantSkill](q, "applicant skill")
}

func (r *taxonomyRepository) CreateApplicantSkill(link *models.ApplicantSkill) error {
	if err := r.db.Create(link).Error; err != nil {
		return fmt.Errorf("failed to create applicant skill link: %w", err)
	}
	return nil
}

func (r *taxonomyRepository) ListApplicantSkills(applicantID uuid.UUID) ([]models.ApplicantSkill, error) {
	var links []models.ApplicantSkill
	err := r.db.
		Preload("Skill").
		Preload("SkillLevel").
		Preload("SkillType").
		Where("applicant_id = ?", applicantID).
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applicant skills: %w", err)
	}
	return links, nil
}
