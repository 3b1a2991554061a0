package export

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"restyler/internal/core/job"
	"restyler/internal/platform/api"
	"restyler/internal/platform/tasks"
	"restyler/internal/store/sqlite"
)

type Handler struct {
	service    *Service
	jobs       *job.JobService
	tasks      *tasks.Client
	maxRetries int
}

func NewHandler(service *Service, jobs *job.JobService, tasksClient *tasks.Client, maxRetries int) *Handler {
	return &Handler{service: service, jobs: jobs, tasks: tasksClient, maxRetries: maxRetries}
}

// ExportResponse acknowledges an enqueued export job.
type ExportResponse struct {
	Success  bool   `json:"success"`
	JobID    string `json:"job_id"`
	DesignID string `json:"design_id"`
	Format   string `json:"format"`
}

// HandleGetElementor serves GET /v1/designs/:id/export/elementor as a
// downloadable attachment.
func (h *Handler) HandleGetElementor(c *fiber.Ctx) error {
	designID := c.Params("id")
	page, err := h.service.Elementor(c.Context(), designID)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(api.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="design-%s.json"`, designID))
	return c.JSON(page)
}

// HandlePostExportPDF serves POST /v1/designs/:id/export/pdf.
func (h *Handler) HandlePostExportPDF(c *fiber.Ctx) error {
	designID := c.Params("id")

	jobID := uuid.New().String()
	task, err := NewExportPDFTask(jobID, designID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	if err := h.jobs.InitPending(c.Context(), jobID, job.TypeExport); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	if err := h.tasks.Enqueue(task, "default", h.maxRetries); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}

	return c.Status(fiber.StatusAccepted).JSON(ExportResponse{Success: true, JobID: jobID, DesignID: designID, Format: "pdf"})
}
