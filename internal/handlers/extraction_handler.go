package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"recruitflow/cv-extractor/internal/models"
	"recruitflow/cv-extractor/internal/services"
)

type ExtractionHandler struct {
	dispatcher *services.Dispatcher
}

func NewExtractionHandler(dispatcher *services.Dispatcher) *ExtractionHandler {
	return &ExtractionHandler{dispatcher: dispatcher}
}

// HandleSubmit handles POST /extractions. It returns as soon as the batch
// is queued; extraction itself runs out-of-band and its outcome lands on
// each applicant's extract_state.
func (h *ExtractionHandler) HandleSubmit(c *fiber.Ctx) error {
	var req models.ExtractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if len(req.ApplicantIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "applicant_ids is required",
		})
	}

	ids := make([]uuid.UUID, 0, len(req.ApplicantIDs))
	for _, raw := range req.ApplicantIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid applicant id format: " + raw,
			})
		}
		ids = append(ids, id)
	}

	submitted, err := h.dispatcher.Submit(ids)
	if err != nil {
		if errors.Is(err, services.ErrNoEligibleApplicants) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to submit extraction batch",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(models.ExtractResponse{
		Submitted: submitted,
		State:     string(models.ExtractStatePending),
	})
}
