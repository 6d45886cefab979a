package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ExtractState string

const (
	ExtractStateNone       ExtractState = "no_extract"
	ExtractStatePending    ExtractState = "pending"
	ExtractStateProcessing ExtractState = "processing"
	ExtractStateDone       ExtractState = "done"
	ExtractStateError      ExtractState = "error"
)

// CanResubmit reports whether a record in this state may be (re-)queued
// for extraction. Pending and processing records are mid-flight and
// must not be submitted again.
func (s ExtractState) CanResubmit() bool {
	return s == ExtractStateNone || s == ExtractStateError || s == ExtractStateDone
}

type Applicant struct {
	ID              uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name            string       `gorm:"type:text" json:"name"`
	PartnerName     string       `gorm:"type:text" json:"partner_name"`
	Email           string       `gorm:"type:text" json:"email"`
	Phone           string       `gorm:"type:text" json:"phone"`
	LinkedinProfile string       `gorm:"type:text" json:"linkedin_profile"`
	DegreeID        *uuid.UUID   `gorm:"type:uuid" json:"degree_id,omitempty"`
	JobID           *uuid.UUID   `gorm:"type:uuid" json:"job_id,omitempty"`
	CompanyID       uuid.UUID    `gorm:"type:uuid;not null" json:"company_id"`
	CVAttachmentID  *uuid.UUID   `gorm:"type:uuid" json:"cv_attachment_id,omitempty"`
	ExtractState    ExtractState `gorm:"type:text;not null;default:'no_extract'" json:"extract_state"`
	ExtractStatus   string       `gorm:"type:text" json:"extract_status"`
	CreatedAt       time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Degree     *Degree     `gorm:"foreignKey:DegreeID" json:"-"`
	Attachment *Attachment `gorm:"foreignKey:CVAttachmentID" json:"-"`
}

func (Applicant) TableName() string {
	return "applicants"
}

// HasConventionalName reports whether the display name is empty or follows
// the "<candidate>'s Application" convention, in which case a newly
// extracted candidate name may overwrite it. A user-entered name never
// matches and is left alone.
func (a *Applicant) HasConventionalName() bool {
	return a.Name == "" || strings.HasSuffix(a.Name, "'s Application")
}
