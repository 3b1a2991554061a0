// Package project exposes project CRUD plus the scrape step that attaches a
// site snapshot to a project.
package project

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"restyler/internal/core/scrape"
	"restyler/internal/logger"
	"restyler/internal/platform/api"
	"restyler/internal/store/sqlite"
	"restyler/internal/utils/parser"
)

type Handler struct {
	log      *logger.Logger
	projects *sqlite.ProjectService
	scraper  *scrape.Service
}

func NewHandler(projects *sqlite.ProjectService, scraper *scrape.Service) *Handler {
	return &Handler{log: logger.New("ProjectHandler"), projects: projects, scraper: scraper}
}

// CreateRequest is the body of POST /v1/projects.
type CreateRequest struct {
	Name      string `json:"name"`
	SourceURL string `json:"source_url"`
}

// UpdateRequest is the body of PATCH /v1/projects/:id.
type UpdateRequest struct {
	Name *string `json:"name"`
}

type listParams struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// ScrapeResponse is returned by POST /v1/projects/:id/scrape.
type ScrapeResponse struct {
	Success   bool             `json:"success"`
	ProjectID string           `json:"project_id"`
	Status    string           `json:"status"`
	Snapshot  *scrape.Snapshot `json:"snapshot"`
}

// HandleCreateProject serves POST /v1/projects.
func (h *Handler) HandleCreateProject(c *fiber.Ctx) error {
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(api.Fail("invalid request body"))
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(api.Fail("name is required"))
	}
	parsed, err := url.Parse(req.SourceURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return c.Status(fiber.StatusBadRequest).JSON(api.Fail("source_url must be an absolute URL"))
	}

	p := &sqlite.Project{Name: req.Name, SourceURL: req.SourceURL}
	if err := h.projects.CreateProject(c.Context(), p); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// HandleListProjects serves GET /v1/projects.
func (h *Handler) HandleListProjects(c *fiber.Ctx) error {
	var q listParams
	if err := parser.ParseQuery(c, &q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(api.Fail("invalid query"))
	}

	filter := sqlite.ProjectFilter{Limit: q.Limit, Offset: q.Offset}
	if q.Status != "" {
		filter.Status = &q.Status
	}
	list, err := h.projects.FindProjects(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	return c.JSON(fiber.Map{"success": true, "projects": list})
}

// HandleGetProject serves GET /v1/projects/:id.
func (h *Handler) HandleGetProject(c *fiber.Ctx) error {
	p, err := h.projects.FindProjectByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(api.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	return c.JSON(p)
}

// HandleUpdateProject serves PATCH /v1/projects/:id.
func (h *Handler) HandleUpdateProject(c *fiber.Ctx) error {
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(api.Fail("invalid request body"))
	}

	p, err := h.projects.UpdateProject(c.Context(), c.Params("id"), sqlite.ProjectUpdate{Name: req.Name})
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(api.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	return c.JSON(p)
}

// HandleDeleteProject serves DELETE /v1/projects/:id. Designs cascade.
func (h *Handler) HandleDeleteProject(c *fiber.Ctx) error {
	if err := h.projects.DeleteProject(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(api.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandlePostScrape serves POST /v1/projects/:id/scrape. The snapshot keeps
// raw HTML so the classifier can mine signals from it later.
func (h *Handler) HandlePostScrape(c *fiber.Ctx) error {
	p, err := h.projects.FindProjectByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(api.Fail(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}

	fresh := c.QueryBool("fresh", false)
	snap, err := h.scraper.Scrape(c.Context(), scrape.Params{
		URL:         p.SourceURL,
		Fresh:       &fresh,
		IncludeHTML: boolPtr(true),
	})
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline exceeded") {
			return c.Status(fiber.StatusRequestTimeout).JSON(api.Fail(errMsg))
		}
		return c.Status(fiber.StatusBadGateway).JSON(api.Fail(errMsg))
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}
	rawMsg := json.RawMessage(raw)
	status := sqlite.ProjectStatusScraped
	if _, err := h.projects.UpdateProject(c.Context(), p.ID, sqlite.ProjectUpdate{Snapshot: &rawMsg, Status: &status}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(err.Error()))
	}

	h.log.LogInfof("project %s scraped via %s", p.ID, snap.Source)
	return c.JSON(ScrapeResponse{Success: true, ProjectID: p.ID, Status: status, Snapshot: snap})
}

func boolPtr(v bool) *bool { return &v }
