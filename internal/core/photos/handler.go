package photos

import (
	"github.com/gofiber/fiber/v2"

	"restyler/internal/platform/api"
	"restyler/internal/utils/parser"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type searchParams struct {
	Query   string `form:"query"`
	PerPage int    `form:"per_page"`
}

// HandleSearch serves GET /v1/photos/search.
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	var p searchParams
	if err := parser.ParseQuery(c, &p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(api.Fail("invalid query"))
	}
	if p.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(api.Fail("query is required"))
	}
	if !h.service.Enabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(api.Fail("photo search is not configured"))
	}

	res, err := h.service.Search(c.Context(), p.Query, p.PerPage)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(api.Fail(err.Error()))
	}
	return c.JSON(res)
}
