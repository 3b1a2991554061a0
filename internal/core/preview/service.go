// Package preview renders design variations to standalone HTML pages and
// captures screenshots of them with a headless browser.
package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"
	"github.com/playwright-community/playwright-go"

	"restyler/internal/config"
	"restyler/internal/core/compile"
	"restyler/internal/core/design"
	"restyler/internal/core/job"
	"restyler/internal/logger"
	"restyler/internal/platform/storage"
	"restyler/internal/store/sqlite"
)

// TaskTypeScreenshot is the asynq task type for preview screenshots.
const TaskTypeScreenshot = "preview:screenshot"

// ScreenshotTaskPayload is the asynq payload for a screenshot job.
type ScreenshotTaskPayload struct {
	JobID    string `json:"job_id"`
	DesignID string `json:"design_id"`
}

// NewScreenshotTask builds the asynq task for a screenshot job.
func NewScreenshotTask(jobID, designID string) (*asynq.Task, error) {
	b, err := json.Marshal(ScreenshotTaskPayload{JobID: jobID, DesignID: designID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeScreenshot, b), nil
}

type Service struct {
	log     *logger.Logger
	cfg     config.Config
	designs *sqlite.DesignService
	jobs    *job.JobService
	storage *storage.Service
}

func NewService(cfg config.Config, designs *sqlite.DesignService, jobs *job.JobService, store *storage.Service) *Service {
	return &Service{
		log:     logger.New("PreviewService"),
		cfg:     cfg,
		designs: designs,
		jobs:    jobs,
		storage: store,
	}
}

// Render compiles a design's variation to HTML and writes it under
// DATA_DIR/previews. The file path is persisted on the design row and the
// page is reachable at /files/previews/<design-id>.html.
func (s *Service) Render(ctx context.Context, designID string) (string, string, error) {
	d, err := s.designs.FindDesignByID(ctx, designID)
	if err != nil {
		return "", "", err
	}

	var v design.Variation
	if err := json.Unmarshal(d.Variation, &v); err != nil {
		return "", "", fmt.Errorf("stored variation is unreadable: %w", err)
	}

	dir := filepath.Join(s.cfg.DataDir, "previews")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}

	name := d.ID + ".html"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(compile.CompileHTML(&v)), 0o644); err != nil {
		return "", "", fmt.Errorf("write preview: %w", err)
	}

	if _, err := s.designs.UpdateDesign(ctx, d.ID, sqlite.DesignUpdate{PreviewPath: &path}); err != nil {
		return "", "", err
	}
	s.log.LogDebugf("rendered preview for design %s at %s", d.ID, path)
	return path, "/files/previews/" + name, nil
}

// HandleScreenshotTask is the asynq worker entry point.
func (s *Service) HandleScreenshotTask(ctx context.Context, t *asynq.Task) error {
	var payload ScreenshotTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("bad screenshot payload: %w", err)
	}
	_ = s.jobs.SetProcessing(ctx, payload.JobID, job.TypeScreenshot)

	result, err := s.Screenshot(ctx, payload.DesignID)
	if err != nil {
		s.log.LogErrorf("screenshot failed for design %s: %v", payload.DesignID, err)
		_ = s.jobs.Fail(ctx, payload.JobID, job.TypeScreenshot, err)
		return err
	}

	_ = s.jobs.Complete(ctx, payload.JobID, job.TypeScreenshot, result)
	s.log.LogSuccessf("screenshot ready for design %s: %s", payload.DesignID, result.PublicURL)
	return nil
}

// Screenshot renders the preview if needed, captures a full-page PNG of it
// and stores the image, persisting the URL on the design row.
func (s *Service) Screenshot(ctx context.Context, designID string) (*job.ScreenshotResult, error) {
	d, err := s.designs.FindDesignByID(ctx, designID)
	if err != nil {
		return nil, err
	}

	previewPath := d.PreviewPath
	if previewPath == "" || !fileExists(previewPath) {
		previewPath, _, err = s.Render(ctx, designID)
		if err != nil {
			return nil, fmt.Errorf("render preview: %w", err)
		}
	}

	buf, err := s.capture(previewPath)
	if err != nil {
		return nil, err
	}

	name := d.ID + "_" + time.Now().Format("20060102_150405") + ".png"
	path, publicURL, err := s.storage.Save(buf, "screenshots", name)
	if err != nil {
		return nil, fmt.Errorf("screenshot save failed: %w", err)
	}

	if _, err := s.designs.UpdateDesign(ctx, d.ID, sqlite.DesignUpdate{ScreenshotURL: &publicURL}); err != nil {
		return nil, err
	}

	return &job.ScreenshotResult{DesignID: d.ID, Path: path, PublicURL: publicURL}, nil
}

// capture loads the preview file in headless Chromium and screenshots the
// full page at a desktop viewport.
func (s *Service) capture(previewPath string) ([]byte, error) {
	os.Setenv("PW_TEST_SCREENSHOT_NO_FONTS_READY", "1")
	defer os.Unsetenv("PW_TEST_SCREENSHOT_NO_FONTS_READY")

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

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport:          &playwright.Size{Width: 1280, Height: 800},
		DeviceScaleFactor: playwright.Float(1.0),
	})
	if err != nil {
		return nil, fmt.Errorf("browser context creation failed: %w", err)
	}
	defer bctx.Close()

	page, err := bctx.NewPage()
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

	// let remote images (stock photos) settle before capturing
	page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(5000),
	})

	buf, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Type:     playwright.ScreenshotTypePng,
		Timeout:  playwright.Float(30000),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot capture failed: %w", err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("screenshot capture resulted in empty image")
	}
	return buf, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
