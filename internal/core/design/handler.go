package design

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
	projects   *sqlite.ProjectService
	designs    *sqlite.DesignService
	jobs       *job.JobService
	tasks      *tasks.Client
	maxRetries int
}

func NewHandler(projects *sqlite.ProjectService, designs *sqlite.DesignService,
	jobs *job.JobService, tasksClient *tasks.Client, maxRetries int) *Handler {
	return &Handler{projects: projects, designs: designs, jobs: jobs, tasks: tasksClient, maxRetries: maxRetries}
}

// GenerateResponse acknowledges an enqueued generation job.
type GenerateResponse struct {
	Success   bool   `json:"success"`
	JobID     string `json:"job_id"`
	ProjectID string `json:"project_id"`
}

// HandlePostGenerate serves POST /v1/projects/:id/designs.
func (h *Handler) HandlePostGenerate(c *fiber.Ctx) error {
	projectID := c.Params("id")
	project, err := h.projects.FindProjectByID(c.Context(), projectID)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(api.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	if len(project.Snapshot) == 0 {
		return c.Status(fiber.StatusConflict).JSON(api.Fail("project has no snapshot, scrape it first"))
	}

	jobID := uuid.New().String()
	task, err := NewGenerateTask(jobID, projectID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	if err := h.jobs.InitPending(c.Context(), jobID, job.TypeGenerate); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	if err := h.tasks.Enqueue(task, "default", h.maxRetries); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}

	return c.Status(fiber.StatusAccepted).JSON(GenerateResponse{Success: true, JobID: jobID, ProjectID: projectID})
}

// HandleListDesigns serves GET /v1/projects/:id/designs.
func (h *Handler) HandleListDesigns(c *fiber.Ctx) error {
	projectID := c.Params("id")
	if _, err := h.projects.FindProjectByID(c.Context(), projectID); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(api.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}

	list, err := h.designs.FindDesignsByProject(c.Context(), projectID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	return c.JSON(fiber.Map{"success": true, "designs": list})
}

// HandleGetDesign serves GET /v1/designs/:id.
func (h *Handler) HandleGetDesign(c *fiber.Ctx) error {
	d, err := h.designs.FindDesignByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(api.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	return c.JSON(d)
}

// HandleDeleteDesign serves DELETE /v1/designs/:id.
func (h *Handler) HandleDeleteDesign(c *fiber.Ctx) error {
	if err := h.designs.DeleteDesign(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(api.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	return c.JSON(fiber.Map{"success": true})
}
