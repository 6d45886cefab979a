package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"recruitflow/cv-extractor/internal/models"
	"recruitflow/cv-extractor/internal/repositories"
)

const defaultGeminiModel = "gemini-1.5-flash-latest"

// Extractor runs one applicant through the extraction state machine:
// pending -> processing -> done/error. A run has two independent failure
// domains: the core step (provider call, parse, scalar-field writes) and
// the skills step (taxonomy reconciliation). A skills failure never rolls
// back core-step data; the job still finishes done with a partial-success
// status.
type Extractor struct {
	store         repositories.Store
	provider      ExtractionProvider
	attachments   AttachmentSource
	writer        *FieldWriter
	skillsEnabled bool
}

func NewExtractor(
	store repositories.Store,
	provider ExtractionProvider,
	attachments AttachmentSource,
	skillsEnabled bool,
) *Extractor {
	return &Extractor{
		store:         store,
		provider:      provider,
		attachments:   attachments,
		writer:        NewFieldWriter(),
		skillsEnabled: skillsEnabled,
	}
}

// CanExtract is the eligibility predicate: extraction must be in manual
// mode for the company, a CV must be attached, and the record must not be
// mid-flight (pending and processing states cannot be re-submitted).
func (x *Extractor) CanExtract(applicant *models.Applicant, company *models.Company) bool {
	return company != nil &&
		company.CVExtractMode == models.ExtractModeManual &&
		applicant.CVAttachmentID != nil &&
		applicant.ExtractState.CanResubmit()
}

// Run executes one extraction job to its done or error outcome. Every
// failure is persisted as an error state on the applicant; the returned
// error only feeds the batch worker's failure count. There is no automatic
// retry and no mid-flight cancellation.
func (x *Extractor) Run(ctx context.Context, applicantID uuid.UUID) error {
	applicants := x.store.Applicants()

	applicant, err := applicants.FindByID(applicantID)
	if err != nil {
		log.Printf("❌ Extraction skipped, applicant %s could not be loaded: %v", applicantID, err)
		return err
	}

	if applicant.ExtractState != models.ExtractStatePending {
		log.Printf("⚠️  Applicant %s is %s, not pending; skipping", applicantID, applicant.ExtractState)
		return nil
	}

	log.Printf("🔄 Starting extraction for applicant %s", applicantID)

	// Observer-visible before the provider call; committed immediately.
	if err := applicants.UpdateExtractState(applicantID, models.ExtractStateProcessing,
		"Processing: Calling Gemini API..."); err != nil {
		return err
	}

	// Validation, the provider call and parsing all happen outside any
	// transaction, so no write lock is held across the network.
	payload, err := x.extract(ctx, applicant)
	if err != nil {
		x.markError(applicantID, err)
		return err
	}

	// Core step: the scalar-field writes commit or roll back as one unit.
	err = x.store.Transaction(func(st repositories.Store) error {
		_, applyErr := x.writer.Apply(st, applicant, payload)
		return applyErr
	})
	if err != nil {
		x.markError(applicantID, err)
		return err
	}

	statusMessage := "Successfully extracted data."

	// Skills step: its own transactional scope. The core step above is
	// already committed and survives a failure here.
	if len(payload.Skills) > 0 && x.skillsEnabled {
		log.Printf("🧩 Processing %d skills for applicant %s", len(payload.Skills), applicantID)
		err := x.store.Transaction(func(st repositories.Store) error {
			return NewReconciler(st.Taxonomy()).ProcessSkills(applicantID, payload.Skills)
		})
		if err != nil {
			log.Printf("❌ Failed to process skills for applicant %s: %v. Simple data will be kept.",
				applicantID, err)
			statusMessage = fmt.Sprintf(
				"Successfully saved simple data, but failed to process skills: %v", err)
		}
	}

	if err := applicants.UpdateExtractState(applicantID, models.ExtractStateDone, statusMessage); err != nil {
		return err
	}

	log.Printf("✅ Extraction completed for applicant %s", applicantID)
	return nil
}

// extract validates configuration, calls the provider and parses its
// answer. Configuration problems surface before any provider call is made.
func (x *Extractor) extract(ctx context.Context, applicant *models.Applicant) (*ExtractedPayload, error) {
	company, err := x.store.Companies().FindByID(applicant.CompanyID)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("company settings could not be loaded: %v", err)}
	}

	if company.GeminiAPIKey == "" {
		return nil, &ConfigurationError{Reason: "Gemini API Key is not set in HR Settings."}
	}

	model := company.GeminiModel
	if model == "" {
		model = defaultGeminiModel
	}

	if applicant.CVAttachmentID == nil {
		return nil, &ConfigurationError{Reason: "No CV attached."}
	}

	attachment, err := x.store.Attachments().FindByID(*applicant.CVAttachmentID)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("CV attachment could not be loaded: %v", err)}
	}

	document, mimeType, err := x.attachments.Fetch(attachment)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("Attached CV could not be read: %v", err)}
	}
	if len(document) == 0 {
		return nil, &ConfigurationError{Reason: "Attached CV is empty."}
	}

	log.Printf("🤖 Calling Gemini model '%s' for applicant %s", model, applicant.ID)
	raw, err := x.provider.Extract(ctx, ExtractionRequest{
		Document: document,
		MimeType: mimeType,
		Prompt:   CVExtractionPrompt,
		APIKey:   company.GeminiAPIKey,
		Model:    model,
	})
	if err != nil {
		return nil, err
	}

	if err := x.store.Applicants().UpdateExtractState(applicant.ID, models.ExtractStateProcessing,
		"Processing: Parsing response..."); err != nil {
		return nil, err
	}

	return ParseExtraction(raw)
}

// markError persists the error outcome through the base store. This path
// is deliberately outside the failed unit's transaction, so the failure
// that triggered it can never roll the diagnostic back.
func (x *Extractor) markError(applicantID uuid.UUID, cause error) {
	log.Printf("❌ Extraction for applicant %s failed: %v", applicantID, cause)
	err := x.store.Applicants().UpdateExtractState(applicantID, models.ExtractStateError,
		fmt.Sprintf("Error: %v", cause))
	if err != nil {
		log.Printf("❌ Could not write error state for applicant %s: %v", applicantID, err)
	}
}
