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

type JobHandler struct {
	store          repositories.Store
	storageService services.StorageService
	inspector      services.CVInspector
	bulk           *services.BulkIntake
	maxFileSize    int64
}

func NewJobHandler(
	store repositories.Store,
	storageService services.StorageService,
	inspector services.CVInspector,
	bulk *services.BulkIntake,
	maxFileSize int64,
) *JobHandler {
	return &JobHandler{
		store:          store,
		storageService: storageService,
		inspector:      inspector,
		bulk:           bulk,
		maxFileSize:    maxFileSize,
	}
}

// HandleCreate handles POST /jobs
func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}

	company, err := h.store.Companies().First()
	if err != nil || company == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No company configured",
		})
	}

	job := &models.Job{
		ID:        uuid.New(),
		Title:     req.Title,
		CompanyID: company.ID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := h.store.Jobs().Create(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create job",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    job.ID.String(),
		"title": job.Title,
	})
}

// HandleAddTag handles POST /jobs/:id/tags
func (h *JobHandler) HandleAddTag(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job id format",
		})
	}

	var req models.AddTagRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "tag name is required",
		})
	}

	if _, err := h.store.Jobs().FindByID(jobID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	tag := models.JobTag{ID: uuid.New(), Name: req.Name}
	if err := h.store.Jobs().AddTag(jobID, &tag); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to tag job",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":   tag.ID.String(),
		"name": tag.Name,
	})
}

// HandleBulkCandidates handles POST /jobs/:id/candidates. Every uploaded
// CV is stored and checked synchronously; applicant creation and extraction
// run in a background batch.
func (h *JobHandler) HandleBulkCandidates(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job id format",
		})
	}

	if _, err := h.store.Jobs().FindByID(jobID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	cvFiles := form.File["cvs"]
	if len(cvFiles) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No 'cvs' files uploaded. Please upload one or more PDF files.",
		})
	}

	var attachmentIDs []uuid.UUID
	for _, cvFile := range cvFiles {
		if cvFile.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("CV file '%s' too large. Max size: %d bytes", cvFile.Filename, h.maxFileSize),
			})
		}

		filename, filePath, err := h.storageService.SaveCV(cvFile)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save CV file '%s': %v", cvFile.Filename, err),
			})
		}

		if err := h.inspector.Validate(filePath); err != nil {
			h.storageService.DeleteFile(filename)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("CV '%s' is not usable: %v", cvFile.Filename, err),
			})
		}

		attachment := models.Attachment{
			ID:               uuid.New(),
			Filename:         filename,
			OriginalFileName: cvFile.Filename,
			MimeType:         "application/pdf",
			FilePath:         filePath,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}
		if err := h.store.Attachments().Create(&attachment); err != nil {
			h.storageService.DeleteFile(filename)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save attachment record for '%s'", cvFile.Filename),
			})
		}

		attachmentIDs = append(attachmentIDs, attachment.ID)
	}

	h.bulk.Submit(jobID, attachmentIDs)

	return c.Status(fiber.StatusAccepted).JSON(models.BulkIntakeResponse{
		JobID:    jobID.String(),
		Accepted: len(attachmentIDs),
		Message:  "CVs accepted; applicants will be created in the background",
	})
}
