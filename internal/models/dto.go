package models

type CreateApplicantRequest struct {
	Name  string `json:"name"`
	JobID string `json:"job_id,omitempty"`
}

type CreateJobRequest struct {
	Title string `json:"title" validate:"required"`
}

type AddTagRequest struct {
	Name string `json:"name" validate:"required"`
}

type ExtractRequest struct {
	ApplicantIDs []string `json:"applicant_ids" validate:"required"`
}

type ExtractResponse struct {
	Submitted int    `json:"submitted"`
	State     string `json:"state"`
}

type UploadCVResponse struct {
	AttachmentID string `json:"attachment_id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
}

type ApplicantSkillResponse struct {
	Skill    string `json:"skill"`
	Type     string `json:"type"`
	Level    string `json:"level"`
	Progress int    `json:"progress"`
}

type ApplicantResponse struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	PartnerName     string                   `json:"partner_name,omitempty"`
	Email           string                   `json:"email,omitempty"`
	Phone           string                   `json:"phone,omitempty"`
	LinkedinProfile string                   `json:"linkedin_profile,omitempty"`
	Degree          string                   `json:"degree,omitempty"`
	ExtractState    string                   `json:"extract_state"`
	ExtractStatus   string                   `json:"extract_status,omitempty"`
	Skills          []ApplicantSkillResponse `json:"skills,omitempty"`
}

type BulkIntakeResponse struct {
	JobID    string `json:"job_id"`
	Accepted int    `json:"accepted"`
	Message  string `json:"message"`
}
