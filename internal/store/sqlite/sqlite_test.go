package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db := NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestProjectCRUD(t *testing.T) {
	db := openTestDB(t)
	svc := NewProjectService(db)
	ctx := context.Background()

	p := &Project{Name: "Acme redesign", SourceURL: "https://acme.example"}
	require.NoError(t, svc.CreateProject(ctx, p))
	require.NotEmpty(t, p.ID)
	assert.Equal(t, ProjectStatusNew, p.Status)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := svc.FindProjectByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme redesign", got.Name)
	assert.Equal(t, "https://acme.example", got.SourceURL)

	snapshot := json.RawMessage(`{"url":"https://acme.example","title":"Acme"}`)
	status := ProjectStatusScraped
	updated, err := svc.UpdateProject(ctx, p.ID, ProjectUpdate{Status: &status, Snapshot: &snapshot})
	require.NoError(t, err)
	assert.Equal(t, ProjectStatusScraped, updated.Status)
	assert.JSONEq(t, string(snapshot), string(updated.Snapshot))

	list, err := svc.FindProjects(ctx, ProjectFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	require.NoError(t, svc.DeleteProject(ctx, p.ID))
	_, err = svc.FindProjectByID(ctx, p.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestProjectValidation(t *testing.T) {
	db := openTestDB(t)
	svc := NewProjectService(db)

	err := svc.CreateProject(context.Background(), &Project{SourceURL: "https://x.example"})
	assert.Error(t, err)

	err = svc.CreateProject(context.Background(), &Project{Name: "no url"})
	assert.Error(t, err)
}

func TestDesignCRUDAndCascade(t *testing.T) {
	db := openTestDB(t)
	projects := NewProjectService(db)
	designs := NewDesignService(db)
	ctx := context.Background()

	p := &Project{Name: "Acme", SourceURL: "https://acme.example"}
	require.NoError(t, projects.CreateProject(ctx, p))

	d := &Design{
		ProjectID: p.ID,
		Name:      "Bold & modern",
		Variation: json.RawMessage(`{"name":"Bold & modern","sections":[]}`),
	}
	require.NoError(t, designs.CreateDesign(ctx, d))
	require.NotEmpty(t, d.ID)

	got, err := designs.FindDesignByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ProjectID)

	preview := "previews/abc.html"
	updated, err := designs.UpdateDesign(ctx, d.ID, DesignUpdate{PreviewPath: &preview})
	require.NoError(t, err)
	assert.Equal(t, preview, updated.PreviewPath)

	list, err := designs.FindDesignsByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// deleting the project cascades to designs
	require.NoError(t, projects.DeleteProject(ctx, p.ID))
	_, err = designs.FindDesignByID(ctx, d.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDesignNotFound(t *testing.T) {
	db := openTestDB(t)
	designs := NewDesignService(db)

	_, err := designs.FindDesignByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(designs.DeleteDesign(context.Background(), "missing"), ErrNotFound))
}
