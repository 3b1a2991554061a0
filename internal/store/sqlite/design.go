package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Design is one persisted design variation belonging to a project.
type Design struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"project_id"`
	Name          string          `json:"name"`
	Variation     json.RawMessage `json:"variation"`
	PreviewPath   string          `json:"preview_path,omitempty"`
	ScreenshotURL string          `json:"screenshot_url,omitempty"`
	PDFURL        string          `json:"pdf_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Validate checks required fields before persisting.
func (d *Design) Validate() error {
	if strings.TrimSpace(d.ProjectID) == "" {
		return fmt.Errorf("design project_id is required")
	}
	if len(d.Variation) == 0 {
		return fmt.Errorf("design variation is required")
	}
	return nil
}

// DesignUpdate carries optional field updates.
type DesignUpdate struct {
	Name          *string
	Variation     *json.RawMessage
	PreviewPath   *string
	ScreenshotURL *string
	PDFURL        *string
}

// DesignService implements design CRUD over SQLite.
type DesignService struct {
	db *DB
}

func NewDesignService(db *DB) *DesignService {
	return &DesignService{db: db}
}

// CreateDesign creates a new design.
func (s *DesignService) CreateDesign(ctx context.Context, design *Design) error {
	if err := design.Validate(); err != nil {
		return err
	}

	design.ID = uuid.New().String()
	now := time.Now().UTC()
	design.CreatedAt = now
	design.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO designs (id, project_id, name, variation, preview_path, screenshot_url, pdf_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, design.ID, design.ProjectID, design.Name, string(design.Variation),
		design.PreviewPath, design.ScreenshotURL, design.PDFURL,
		design.CreatedAt.Format(time.RFC3339), design.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindDesignByID retrieves a design by ID.
func (s *DesignService) FindDesignByID(ctx context.Context, id string) (*Design, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, name, variation, preview_path, screenshot_url, pdf_url, created_at, updated_at
		FROM designs
		WHERE id = ?
	`, id)

	design, err := scanDesign(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("design %s: %w", id, ErrNotFound)
	}
	return design, err
}

// FindDesignsByProject lists a project's designs, oldest first.
func (s *DesignService) FindDesignsByProject(ctx context.Context, projectID string) ([]*Design, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, name, variation, preview_path, screenshot_url, pdf_url, created_at, updated_at
		FROM designs
		WHERE project_id = ?
		ORDER BY created_at ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var designs []*Design
	for rows.Next() {
		design, err := scanDesign(rows)
		if err != nil {
			return nil, err
		}
		designs = append(designs, design)
	}

	return designs, rows.Err()
}

// UpdateDesign updates an existing design.
func (s *DesignService) UpdateDesign(ctx context.Context, id string, upd DesignUpdate) (*Design, error) {
	design, err := s.FindDesignByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		design.Name = *upd.Name
	}
	if upd.Variation != nil {
		design.Variation = *upd.Variation
	}
	if upd.PreviewPath != nil {
		design.PreviewPath = *upd.PreviewPath
	}
	if upd.ScreenshotURL != nil {
		design.ScreenshotURL = *upd.ScreenshotURL
	}
	if upd.PDFURL != nil {
		design.PDFURL = *upd.PDFURL
	}

	if err := design.Validate(); err != nil {
		return nil, err
	}

	design.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE designs
		SET name = ?, variation = ?, preview_path = ?, screenshot_url = ?, pdf_url = ?, updated_at = ?
		WHERE id = ?
	`, design.Name, string(design.Variation), design.PreviewPath, design.ScreenshotURL, design.PDFURL,
		design.UpdatedAt.Format(time.RFC3339), id)

	if err != nil {
		return nil, err
	}

	return design, nil
}

// DeleteDesign permanently removes a design.
func (s *DesignService) DeleteDesign(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM designs WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("design %s: %w", id, ErrNotFound)
	}

	return nil
}

func scanDesign(row rowScanner) (*Design, error) {
	var design Design
	var variation, createdAt, updatedAt string

	if err := row.Scan(&design.ID, &design.ProjectID, &design.Name, &variation,
		&design.PreviewPath, &design.ScreenshotURL, &design.PDFURL, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	design.Variation = json.RawMessage(variation)

	var parseErr error
	design.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", parseErr)
	}
	design.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", parseErr)
	}

	return &design, nil
}
