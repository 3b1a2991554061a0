package server

import (
	"restyler/internal/core/classify"
	"restyler/internal/core/design"
	"restyler/internal/core/export"
	"restyler/internal/core/job"
	"restyler/internal/core/photos"
	"restyler/internal/core/preview"
	"restyler/internal/core/project"
	"restyler/internal/core/scrape"
	"restyler/internal/health"
	"restyler/internal/platform/redis"
	tasks "restyler/internal/platform/tasks"
	"restyler/internal/store/sqlite"

	"github.com/gofiber/fiber/v2"
)

type Dependencies struct {
	Job      *job.JobService
	Scrape   *scrape.Service
	Classify *classify.Service
	Preview  *preview.Service
	Export   *export.Service
	Photos   *photos.Service
	Projects *sqlite.ProjectService
	Designs  *sqlite.DesignService
	Tasks    *tasks.Client
	Redis    *redis.Service
	DB       *sqlite.DB

	TaskMaxRetries int
}

func RegisterRoutes(app *fiber.App, d Dependencies) *health.HealthHandler {
	// Health endpoints
	healthHandler := health.NewHealthHandler(d.Redis, d.DB)
	app.Get("/v1/health", health.HealthLimiter(), healthHandler.HandleHealth)

	api := app.Group("/v1")

	scrapeHandler := scrape.NewHandler(d.Scrape)
	api.Get("/scrape", scrapeHandler.HandleGetScrape)

	projectHandler := project.NewHandler(d.Projects, d.Scrape)
	api.Post("/projects", projectHandler.HandleCreateProject)
	api.Get("/projects", projectHandler.HandleListProjects)
	api.Get("/projects/:id", projectHandler.HandleGetProject)
	api.Patch("/projects/:id", projectHandler.HandleUpdateProject)
	api.Delete("/projects/:id", projectHandler.HandleDeleteProject)
	api.Post("/projects/:id/scrape", projectHandler.HandlePostScrape)

	classifyHandler := classify.NewHandler(d.Classify, d.Projects)
	api.Post("/projects/:id/classify", classifyHandler.HandlePostClassify)

	designHandler := design.NewHandler(d.Projects, d.Designs, d.Job, d.Tasks, d.TaskMaxRetries)
	api.Post("/projects/:id/designs", designHandler.HandlePostGenerate)
	api.Get("/projects/:id/designs", designHandler.HandleListDesigns)
	api.Get("/designs/:id", designHandler.HandleGetDesign)
	api.Delete("/designs/:id", designHandler.HandleDeleteDesign)

	previewHandler := preview.NewHandler(d.Preview, d.Job, d.Tasks, d.TaskMaxRetries)
	api.Post("/designs/:id/preview", previewHandler.HandlePostPreview)
	api.Post("/designs/:id/screenshot", previewHandler.HandlePostScreenshot)

	exportHandler := export.NewHandler(d.Export, d.Job, d.Tasks, d.TaskMaxRetries)
	api.Get("/designs/:id/export/elementor", exportHandler.HandleGetElementor)
	api.Post("/designs/:id/export/pdf", exportHandler.HandlePostExportPDF)

	photosHandler := photos.NewHandler(d.Photos)
	api.Get("/photos/search", photosHandler.HandleSearch)

	jobHandler := job.NewHandler(d.Job)
	api.Get("/jobs/:id", jobHandler.HandleGetJob)

	return healthHandler
}
