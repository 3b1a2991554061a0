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

// Project statuses advance as pipeline stages complete.
const (
	ProjectStatusNew        = "new"
	ProjectStatusScraped    = "scraped"
	ProjectStatusClassified = "classified"
)

// Project is a durable record of one redesign effort against a source site.
type Project struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	SourceURL      string          `json:"source_url"`
	Status         string          `json:"status"`
	Snapshot       json.RawMessage `json:"snapshot,omitempty"`
	Classification json.RawMessage `json:"classification,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Validate checks required fields before persisting.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	if strings.TrimSpace(p.SourceURL) == "" {
		return fmt.Errorf("project source_url is required")
	}
	return nil
}

// ProjectFilter narrows FindProjects results.
type ProjectFilter struct {
	ID     *string
	Status *string
	Limit  int
	Offset int
}

// ProjectUpdate carries optional field updates.
type ProjectUpdate struct {
	Name           *string
	Status         *string
	Snapshot       *json.RawMessage
	Classification *json.RawMessage
}

// ProjectService implements project CRUD over SQLite.
type ProjectService struct {
	db *DB
}

func NewProjectService(db *DB) *ProjectService {
	return &ProjectService{db: db}
}

// CreateProject creates a new project.
func (s *ProjectService) CreateProject(ctx context.Context, project *Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	project.ID = uuid.New().String()
	project.Status = ProjectStatusNew
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, source_url, status, snapshot, classification, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, project.ID, project.Name, project.SourceURL, project.Status,
		string(project.Snapshot), string(project.Classification),
		project.CreatedAt.Format(time.RFC3339), project.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindProjectByID retrieves a project by ID.
func (s *ProjectService) FindProjectByID(ctx context.Context, id string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, source_url, status, snapshot, classification, created_at, updated_at
		FROM projects
		WHERE id = ?
	`, id)

	project, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return project, err
}

// FindProjects retrieves projects matching the filter.
func (s *ProjectService) FindProjects(ctx context.Context, filter ProjectFilter) ([]*Project, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, source_url, status, snapshot, classification, created_at, updated_at FROM projects WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, *filter.Status)
	}

	query.WriteString(" ORDER BY created_at DESC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// UpdateProject updates an existing project.
func (s *ProjectService) UpdateProject(ctx context.Context, id string, upd ProjectUpdate) (*Project, error) {
	project, err := s.FindProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		project.Name = *upd.Name
	}
	if upd.Status != nil {
		project.Status = *upd.Status
	}
	if upd.Snapshot != nil {
		project.Snapshot = *upd.Snapshot
	}
	if upd.Classification != nil {
		project.Classification = *upd.Classification
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	project.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE projects
		SET name = ?, status = ?, snapshot = ?, classification = ?, updated_at = ?
		WHERE id = ?
	`, project.Name, project.Status, string(project.Snapshot), string(project.Classification),
		project.UpdatedAt.Format(time.RFC3339), id)

	if err != nil {
		return nil, err
	}

	return project, nil
}

// DeleteProject permanently removes a project and its designs.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*Project, error) {
	var project Project
	var snapshot, classification, createdAt, updatedAt string

	if err := row.Scan(&project.ID, &project.Name, &project.SourceURL, &project.Status,
		&snapshot, &classification, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if snapshot != "" {
		project.Snapshot = json.RawMessage(snapshot)
	}
	if classification != "" {
		project.Classification = json.RawMessage(classification)
	}

	var parseErr error
	project.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", parseErr)
	}
	project.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", parseErr)
	}

	return &project, nil
}
