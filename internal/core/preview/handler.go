package preview

import (
	"errors"

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

// RenderResponse reports a freshly written preview page.
type RenderResponse struct {
	Success    bool   `json:"success"`
	DesignID   string `json:"design_id"`
	PreviewURL string `json:"preview_url"`
}

// ScreenshotResponse acknowledges an enqueued screenshot job.
type ScreenshotResponse struct {
	Success  bool   `json:"success"`
	JobID    string `json:"job_id"`
	DesignID string `json:"design_id"`
}

// HandlePostPreview serves POST /v1/designs/:id/preview. Rendering is cheap,
// so it runs inline.
func (h *Handler) HandlePostPreview(c *fiber.Ctx) error {
	designID := c.Params("id")
	_, publicURL, err := h.service.Render(c.Context(), designID)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(api.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	return c.JSON(RenderResponse{Success: true, DesignID: designID, PreviewURL: publicURL})
}

// HandlePostScreenshot serves POST /v1/designs/:id/screenshot.
func (h *Handler) HandlePostScreenshot(c *fiber.Ctx) error {
	designID := c.Params("id")

	jobID := uuid.New().String()
	task, err := NewScreenshotTask(jobID, designID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	if err := h.jobs.InitPending(c.Context(), jobID, job.TypeScreenshot); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	if err := h.tasks.Enqueue(task, "default", h.maxRetries); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}

	return c.Status(fiber.StatusAccepted).JSON(ScreenshotResponse{Success: true, JobID: jobID, DesignID: designID})
}
