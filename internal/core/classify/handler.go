package classify

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"restyler/internal/core/scrape"
	"restyler/internal/platform/api"
	"restyler/internal/store/sqlite"
)

type Handler struct {
	service  *Service
	projects *sqlite.ProjectService
}

func NewHandler(service *Service, projects *sqlite.ProjectService) *Handler {
	return &Handler{service: service, projects: projects}
}

// ClassifyResponse is returned by HandlePostClassify.
type ClassifyResponse struct {
	Success        bool            `json:"success"`
	ProjectID      string          `json:"project_id"`
	Classification *Classification `json:"classification"`
	Signals        Signals         `json:"signals"`
}

// HandlePostClassify serves POST /v1/projects/:id/classify.
func (h *Handler) HandlePostClassify(c *fiber.Ctx) error {
	id := c.Params("id")
	project, err := h.projects.FindProjectByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(api.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	if len(project.Snapshot) == 0 {
		return c.Status(fiber.StatusConflict).JSON(api.Fail("project has no snapshot, scrape it first"))
	}

	var snap scrape.Snapshot
	if err := json.Unmarshal(project.Snapshot, &snap); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail("stored snapshot is unreadable"))
	}

	classification, signals, err := h.service.Classify(c.Context(), &snap)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(api.Fail(err.Error()))
	}

	raw, err := json.Marshal(classification)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	rawMsg := json.RawMessage(raw)
	status := sqlite.ProjectStatusClassified
	if _, err := h.projects.UpdateProject(c.Context(), id, sqlite.ProjectUpdate{
		Classification: &rawMsg,
		Status:         &status,
	}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}

	return c.JSON(ClassifyResponse{
		Success:        true,
		ProjectID:      id,
		Classification: classification,
		Signals:        signals,
	})
}
