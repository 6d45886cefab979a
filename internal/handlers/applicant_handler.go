package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"recruitflow/cv-extractor/internal/models"
	"recruitflow/cv-extractor/internal/repositories"
)

type ApplicantHandler struct {
	store repositories.Store
}

func NewApplicantHandler(store repositories.Store) *ApplicantHandler {
	return &ApplicantHandler{store: store}
}

// HandleCreate handles POST /applicants
func (h *ApplicantHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateApplicantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	company, err := h.store.Companies().First()
	if err != nil || company == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No company configured",
		})
	}

	applicant := &models.Applicant{
		ID:           uuid.New(),
		Name:         req.Name,
		CompanyID:    company.ID,
		ExtractState: models.ExtractStateNone,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if req.JobID != "" {
		jobID, err := uuid.Parse(req.JobID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid job_id format",
			})
		}
		if _, err := h.store.Jobs().FindByID(jobID); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job not found",
			})
		}
		applicant.JobID = &jobID
	}

	if err := h.store.Applicants().Create(applicant); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create applicant",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":            applicant.ID.String(),
		"extract_state": string(applicant.ExtractState),
	})
}

// HandleGet handles GET /applicants/:id
func (h *ApplicantHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid applicant id format",
		})
	}

	applicant, err := h.store.Applicants().FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Applicant not found",
		})
	}

	resp := models.ApplicantResponse{
		ID:              applicant.ID.String(),
		Name:            applicant.Name,
		PartnerName:     applicant.PartnerName,
		Email:           applicant.Email,
		Phone:           applicant.Phone,
		LinkedinProfile: applicant.LinkedinProfile,
		ExtractState:    string(applicant.ExtractState),
		ExtractStatus:   applicant.ExtractStatus,
	}

	if applicant.Degree != nil {
		resp.Degree = applicant.Degree.Name
	}

	links, err := h.store.Taxonomy().ListApplicantSkills(applicant.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load applicant skills",
		})
	}
	for _, link := range links {
		resp.Skills = append(resp.Skills, models.ApplicantSkillResponse{
			Skill:    link.Skill.Name,
			Type:     link.SkillType.Name,
			Level:    link.SkillLevel.Name,
			Progress: link.SkillLevel.Progress,
		})
	}

	return c.JSON(resp)
}
