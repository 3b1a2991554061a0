package job

import (
	"github.com/gofiber/fiber/v2"

	"restyler/internal/platform/api"
)

type Handler struct {
	service *JobService
}

func NewHandler(service *JobService) *Handler {
	return &Handler{service: service}
}

// HandleGetJob serves GET /v1/jobs/:id.
func (h *Handler) HandleGetJob(c *fiber.Ctx) error {
	j, err := h.service.GetJobStatus(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(api.Fail(err.Error()))
	}
	return c.JSON(j)
}
