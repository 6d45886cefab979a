package models

import (
	"time"

	"github.com/google/uuid"
)

type Attachment struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ApplicantID      *uuid.UUID `gorm:"type:uuid" json:"applicant_id,omitempty"`
	Filename         string     `gorm:"type:text" json:"filename"`
	OriginalFileName string     `gorm:"type:text" json:"original_filename"`
	MimeType         string     `gorm:"type:text" json:"mime_type"`
	FilePath         string     `gorm:"type:text" json:"file_path"`
	CreatedAt        time.Time  `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (a *Attachment) TableName() string {
	return "attachments"
}
