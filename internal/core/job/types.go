package job

// Job represents internal job storage.
type Job struct {
	JobID   string    `json:"job_id"`
	Type    Type      `json:"type"`
	Status  Status    `json:"status"`
	Error   string    `json:"error,omitempty"`
	Results JobResult `json:"results,omitempty"`
}

// Type for internal job classification
type Type string

const (
	TypeGenerate   Type = "generate"
	TypeScreenshot Type = "screenshot"
	TypeExport     Type = "export"
)

// Status for internal job tracking
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// JobResult holds the per-kind payload of a finished job.
type JobResult struct {
	GenerateResult   *GenerateResult   `json:"generate_result,omitempty"`
	ScreenshotResult *ScreenshotResult `json:"screenshot_result,omitempty"`
	ExportResult     *ExportResult     `json:"export_result,omitempty"`
}

// GenerateResult lists the design rows a generation job produced.
type GenerateResult struct {
	ProjectID string   `json:"project_id"`
	DesignIDs []string `json:"design_ids"`
}

// ScreenshotResult locates a rendered preview screenshot.
type ScreenshotResult struct {
	DesignID  string `json:"design_id"`
	Path      string `json:"path"`
	PublicURL string `json:"public_url"`
}

// ExportResult locates an exported artifact.
type ExportResult struct {
	DesignID  string `json:"design_id"`
	Format    string `json:"format"`
	Path      string `json:"path"`
	PublicURL string `json:"public_url"`
}
