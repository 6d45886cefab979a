package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"recruitflow/cv-extractor/internal/models"
	"recruitflow/cv-extractor/internal/repositories"
)

// BulkIntake turns a pile of CVs uploaded onto a job position into
// applicants. Each CV is extracted first, and an applicant is created only
// if none exists with the exact same candidate name and email (exact,
// case-sensitive match). The CV is attached to the new applicant and the
// extracted data is written through the same core/skills two-step as a
// regular extraction run.
type BulkIntake struct {
	store       repositories.Store
	provider    ExtractionProvider
	attachments AttachmentSource
	writer      *FieldWriter
	notifier    Notifier
	wg          sync.WaitGroup
}

func NewBulkIntake(
	store repositories.Store,
	provider ExtractionProvider,
	attachments AttachmentSource,
	notifier Notifier,
) *BulkIntake {
	return &BulkIntake{
		store:       store,
		provider:    provider,
		attachments: attachments,
		writer:      NewFieldWriter(),
		notifier:    notifier,
	}
}

// Submit processes the uploaded CVs in a background worker, one batch per
// call, CVs handled sequentially inside it.
func (b *BulkIntake) Submit(jobID uuid.UUID, attachmentIDs []uuid.UUID) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.Process(context.Background(), jobID, attachmentIDs)
	}()
}

// Wait blocks until every in-flight intake batch has drained.
func (b *BulkIntake) Wait() {
	b.wg.Wait()
}

// Process runs one intake batch to completion and reports how many
// applicants were created, how many CVs matched an existing applicant and
// how many failed. Failures are isolated per CV; one bad document never
// stops the rest of the batch.
func (b *BulkIntake) Process(ctx context.Context, jobID uuid.UUID, attachmentIDs []uuid.UUID) (created, skipped, failed int) {
	job, err := b.store.Jobs().FindByID(jobID)
	if err != nil {
		log.Printf("❌ Bulk intake aborted, job %s could not be loaded: %v", jobID, err)
		return 0, 0, len(attachmentIDs)
	}

	company, err := b.store.Companies().FindByID(job.CompanyID)
	if err != nil {
		log.Printf("❌ Bulk intake aborted, company for job %s could not be loaded: %v", jobID, err)
		return 0, 0, len(attachmentIDs)
	}

	b.notifier.BatchStarted(len(attachmentIDs))

	for _, attachmentID := range attachmentIDs {
		switch err := b.processCV(ctx, job, company, attachmentID); {
		case err == nil:
			created++
		case err == errDuplicateApplicant:
			skipped++
		default:
			log.Printf("❌ Bulk intake failed for attachment %s: %v", attachmentID, err)
			failed++
		}
	}

	b.notifier.BatchCompleted(created+skipped, failed)
	log.Printf("✅ Bulk intake for job '%s' done: %d created, %d duplicates, %d failed",
		job.Title, created, skipped, failed)
	return created, skipped, failed
}

var errDuplicateApplicant = fmt.Errorf("an applicant with the same name and email already exists")

func (b *BulkIntake) processCV(ctx context.Context, job *models.Job, company *models.Company, attachmentID uuid.UUID) error {
	if company.GeminiAPIKey == "" {
		return &ConfigurationError{Reason: "Gemini API Key is not set in HR Settings."}
	}
	model := company.GeminiModel
	if model == "" {
		model = defaultGeminiModel
	}

	attachment, err := b.store.Attachments().FindByID(attachmentID)
	if err != nil {
		return &ConfigurationError{Reason: fmt.Sprintf("CV attachment could not be loaded: %v", err)}
	}

	document, mimeType, err := b.attachments.Fetch(attachment)
	if err != nil {
		return &ConfigurationError{Reason: fmt.Sprintf("Attached CV could not be read: %v", err)}
	}
	if len(document) == 0 {
		return &ConfigurationError{Reason: "Attached CV is empty."}
	}

	raw, err := b.provider.Extract(ctx, ExtractionRequest{
		Document: document,
		MimeType: mimeType,
		Prompt:   CVExtractionPrompt,
		APIKey:   company.GeminiAPIKey,
		Model:    model,
	})
	if err != nil {
		return err
	}

	payload, err := ParseExtraction(raw)
	if err != nil {
		return err
	}

	if payload.Name != "" && payload.Email != "" {
		existing, err := b.store.Applicants().FindByNameAndEmail(payload.Name, payload.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			log.Printf("⚠️  Skipping CV %s: applicant '%s' <%s> already exists",
				attachment.OriginalFileName, payload.Name, payload.Email)
			return errDuplicateApplicant
		}
	}

	applicant := &models.Applicant{
		ID:             uuid.New(),
		JobID:          &job.ID,
		CompanyID:      company.ID,
		CVAttachmentID: &attachment.ID,
		ExtractState:   models.ExtractStateProcessing,
		ExtractStatus:  "Processing: Writing extracted data...",
	}

	// Core step: applicant creation plus scalar fields, one unit.
	err = b.store.Transaction(func(st repositories.Store) error {
		if err := st.Applicants().Create(applicant); err != nil {
			return err
		}
		if err := st.Attachments().AssignToApplicant(attachment.ID, applicant.ID); err != nil {
			return err
		}
		_, applyErr := b.writer.Apply(st, applicant, payload)
		return applyErr
	})
	if err != nil {
		return err
	}

	statusMessage := "Successfully extracted data."

	// Skills step, isolated exactly as in a regular extraction run.
	if len(payload.Skills) > 0 {
		err := b.store.Transaction(func(st repositories.Store) error {
			return NewReconciler(st.Taxonomy()).ProcessSkills(applicant.ID, payload.Skills)
		})
		if err != nil {
			log.Printf("❌ Failed to process skills for applicant %s: %v. Simple data will be kept.",
				applicant.ID, err)
			statusMessage = fmt.Sprintf(
				"Successfully saved simple data, but failed to process skills: %v", err)
		}
	}

	return b.store.Applicants().UpdateExtractState(applicant.ID, models.ExtractStateDone, statusMessage)
}
