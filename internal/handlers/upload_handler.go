package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"recruitflow/cv-extractor/internal/models"
	"recruitflow/cv-extractor/internal/repositories"
	"recruitflow/cv-extractor/internal/services"
)

type UploadHandler struct {
	store          repositories.Store
	storageService services.StorageService
	inspector      services.CVInspector
	maxFileSize    int64
}

func NewUploadHandler(
	store repositories.Store,
	storageService services.StorageService,
	inspector services.CVInspector,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		store:          store,
		storageService: storageService,
		inspector:      inspector,
		maxFileSize:    maxFileSize,
	}
}

// HandleUploadCV handles POST /applicants/:id/cv
func (h *UploadHandler) HandleUploadCV(c *fiber.Ctx) error {
	applicantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid applicant id format",
		})
	}

	if _, err := h.store.Applicants().FindByID(applicantID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Applicant not found",
		})
	}

	cvFile, err := c.FormFile("cv")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No 'cv' file uploaded. Please upload the CV as a PDF file.",
		})
	}

	if cvFile.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("CV file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storageService.SaveCV(cvFile)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save CV file: %v", err),
		})
	}

	// Reject unreadable or empty CVs here rather than letting them waste a
	// provider call later.
	if err := h.inspector.Validate(filePath); err != nil {
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("uploaded CV is not usable: %v", err),
		})
	}

	attachment := models.Attachment{
		ID:               uuid.New(),
		ApplicantID:      &applicantID,
		Filename:         filename,
		OriginalFileName: cvFile.Filename,
		MimeType:         "application/pdf",
		FilePath:         filePath,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.store.Attachments().Create(&attachment); err != nil {
		// Cleanup uploaded file if database insert fails
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save CV attachment record: %v", err),
		})
	}

	err = h.store.Applicants().UpdateFields(applicantID, map[string]interface{}{
		"cv_attachment_id": attachment.ID,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to attach CV to applicant",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadCVResponse{
		AttachmentID: attachment.ID.String(),
		Filename:     attachment.Filename,
		OriginalName: attachment.OriginalFileName,
		MimeType:     attachment.MimeType,
	})
}
