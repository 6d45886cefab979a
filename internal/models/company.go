package models

import (
	"time"

	"github.com/google/uuid"
)

type CVExtractMode string

const (
	ExtractModeManual   CVExtractMode = "manual_send"
	ExtractModeDisabled CVExtractMode = "disabled"
)

// Company carries the per-organization extraction settings. They are read
// fresh on every extraction run rather than cached at startup.
type Company struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name          string        `gorm:"type:text;not null" json:"name"`
	GeminiAPIKey  string        `gorm:"type:text" json:"-"`
	GeminiModel   string        `gorm:"type:text;default:'gemini-1.5-flash-latest'" json:"gemini_model"`
	CVExtractMode CVExtractMode `gorm:"type:text;not null;default:'manual_send'" json:"cv_extract_mode"`
	CreatedAt     time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Company) TableName() string {
	return "companies"
}
