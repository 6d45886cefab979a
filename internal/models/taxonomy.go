package models

import (
	"time"

	"github.com/google/uuid"
)

// Reference taxonomy for extracted CV data. All of these are append-mostly:
// the reconciler creates them lazily on first sighting and never deletes.
// Name uniqueness is case-insensitive and enforced by find-before-create
// only, so no unique index is declared on the name columns.

type Degree struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Degree) TableName() string {
	return "degrees"
}

type SkillType struct {
	ID        uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Levels    []SkillLevel `gorm:"many2many:skill_type_levels;" json:"levels,omitempty"`
	CreatedAt time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (SkillType) TableName() string {
	return "skill_types"
}

type SkillLevel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Progress  int       `gorm:"not null;default:0" json:"progress"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (SkillLevel) TableName() string {
	return "skill_levels"
}

type Skill struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	SkillTypeID uuid.UUID `gorm:"type:uuid;not null" json:"skill_type_id"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	SkillType SkillType `gorm:"foreignKey:SkillTypeID" json:"-"`
}

func (Skill) TableName() string {
	return "skills"
}

// ApplicantSkill links one applicant to one skill with its resolved level.
// At most one row exists per (applicant, skill) pair; re-extracting the
// same skill is a no-op.
type ApplicantSkill struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ApplicantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"applicant_id"`
	SkillID      uuid.UUID `gorm:"type:uuid;not null" json:"skill_id"`
	SkillLevelID uuid.UUID `gorm:"type:uuid;not null" json:"skill_level_id"`
	SkillTypeID  uuid.UUID `gorm:"type:uuid;not null" json:"skill_type_id"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	Skill      Skill      `gorm:"foreignKey:SkillID" json:"-"`
	SkillLevel SkillLevel `gorm:"foreignKey:SkillLevelID" json:"-"`
	SkillType  SkillType  `gorm:"foreignKey:SkillTypeID" json:"-"`
}

func (ApplicantSkill) TableName() string {
	return "applicant_skills"
}
