// Package export produces downloadable artifacts from designs: Elementor
// page JSON synchronously, PDF prints of the preview as background jobs.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"
	"github.com/playwright-community/playwright-go"

	"restyler/internal/core/compile"
	"restyler/internal/core/design"
	"restyler/internal/core/job"
	"restyler/internal/core/preview"
	"restyler/internal/logger"
	"restyler/internal/platform/storage"
	"restyler/internal/store/sqlite"
)

// TaskTypeExportPDF is the asynq task type for PDF exports.
const TaskTypeExportPDF = "export:pdf"

// ExportTaskPayload is the asynq payload for a PDF export job.
type ExportTaskPayload struct {
	JobID    string `json:"job_id"`
	DesignID string `json:"design_id"`
}

// NewExportPDFTask builds the asynq task for a PDF export job.
func NewExportPDFTask(jobID, designID string) (*asynq.Task, error) {
	b, err := json.Marshal(ExportTaskPayload{JobID: jobID, DesignID: designID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeExportPDF, b), nil
}

type Service struct {
	log      *logger.Logger
	designs  *sqlite.DesignService
	jobs     *job.JobService
	previews *preview.Service
	storage  *storage.Service
}

func NewService(designs *sqlite.DesignService, jobs *job.JobService, previews *preview.Service, store *storage.Service) *Service {
	return &Service{
		log:      logger.New("ExportService"),
		designs:  designs,
		jobs:     jobs,
		previews: previews,
		storage:  store,
	}
}

// Elementor compiles a design's variation into importable Elementor page JSON.
func (s *Service) Elementor(ctx context.Context, designID string) (*compile.ElementorPage, error) {
	d, err := s.designs.FindDesignByID(ctx, designID)
	if err != nil {
		return nil, err
	}
	var v design.Variation
	if err := json.Unmarshal(d.Variation, &v); err != nil {
		return nil, fmt.Errorf("stored variation is unreadable: %w", err)
	}
	return compile.CompileElementor(&v), nil
}

// HandleExportPDFTask is the asynq worker entry point.
func (s *Service) HandleExportPDFTask(ctx context.Context, t *asynq.Task) error {
	var payload ExportTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("bad export payload: %w", err)
	}
	_ = s.jobs.SetProcessing(ctx, payload.JobID, job.TypeExport)

	result, err := s.ExportPDF(ctx, payload.DesignID)
	if err != nil {
		s.log.LogErrorf("pdf export failed for design %s: %v", payload.DesignID, err)
		_ = s.jobs.Fail(ctx, payload.JobID, job.TypeExport, err)
		return err
	}

	_ = s.jobs.Complete(ctx, payload.JobID, job.TypeExport, result)
	s.log.LogSuccessf("pdf ready for design %s: %s", payload.DesignID, result.PublicURL)
	return nil
}

// ExportPDF prints the rendered preview to an A4 PDF and stores it,
// persisting the URL on the design row.
func (s *Service) ExportPDF(ctx context.Context, designID string) (*job.ExportResult, error) {
	d, err := s.designs.FindDesignByID(ctx, designID)
	if err != nil {
		return nil, err
	}

	previewPath := d.PreviewPath
	if previewPath == "" || !fileExists(previewPath) {
		previewPath, _, err = s.previews.Render(ctx, designID)
		if err != nil {
			return nil, fmt.Errorf("render preview: %w", err)
		}
	}

	buf, err := s.printPDF(previewPath)
	if err != nil {
		return nil, err
	}

	name := d.ID + "_" + time.Now().Format("20060102_150405") + ".pdf"
	path, publicURL, err := s.storage.Save(buf, "exports", name)
	if err != nil {
		return nil, fmt.Errorf("pdf save failed: %w", err)
	}

	if _, err := s.designs.UpdateDesign(ctx, d.ID, sqlite.DesignUpdate{PDFURL: &publicURL}); err != nil {
		return nil, err
	}

	return &job.ExportResult{DesignID: d.ID, Format: "pdf", Path: path, PublicURL: publicURL}, nil
}

// printPDF loads the preview file in headless Chromium and prints it.
// PDF printing only works in Chromium, which is what we launch anyway.
func (s *Service) printPDF(previewPath string) ([]byte, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("playwright initialization failed: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("browser launch failed: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("page creation failed: %w", err)
	}

	abs, err := filepath.Abs(previewPath)
	if err != nil {
		return nil, err
	}
	if _, err := page.Goto("file://"+filepath.ToSlash(abs), playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(15000),
	}); err != nil {
		return nil, fmt.Errorf("failed to load preview page: %w", err)
	}

	page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(5000),
	})

	buf, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("pdf print failed: %w", err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("pdf print resulted in empty document")
	}
	return buf, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
