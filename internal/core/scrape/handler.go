package scrape

import (
	"strings"

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

// HandleGetScrape serves GET /v1/scrape.
func (h *Handler) HandleGetScrape(c *fiber.Ctx) error {
	var p Params
	if err := parser.ParseQuery(c, &p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(api.Fail("invalid query"))
	}
	if p.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(api.Fail("url is required"))
	}

	snap, err := h.service.Scrape(c.Context(), p)
	if err != nil {
		errMsg := err.Error()
		switch {
		case strings.Contains(errMsg, "invalid URL") || strings.Contains(errMsg, "malformed"):
			return c.Status(fiber.StatusBadRequest).JSON(api.Fail(errMsg))
		case strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline exceeded"):
			return c.Status(fiber.StatusRequestTimeout).JSON(api.Fail(errMsg))
		case strings.Contains(errMsg, "429") || strings.Contains(errMsg, "rate limit"):
			return c.Status(fiber.StatusTooManyRequests).JSON(api.Fail(errMsg))
		case strings.Contains(errMsg, "404") || strings.Contains(errMsg, "not found"):
			return c.Status(fiber.StatusNotFound).JSON(api.Fail(errMsg))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(api.Fail(errMsg))
	}
	return c.JSON(snap)
}
