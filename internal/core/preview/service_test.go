package preview

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restyler/internal/config"
	"restyler/internal/core/design"
	"restyler/internal/store/sqlite"
)

func setupDesign(t *testing.T) (*sqlite.DesignService, string) {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { _ = db.Close() })

	projects := sqlite.NewProjectService(db)
	designs := sqlite.NewDesignService(db)

	ctx := context.Background()
	p := &sqlite.Project{Name: "Acme", SourceURL: "https://acme.example"}
	require.NoError(t, projects.CreateProject(ctx, p))

	v := design.Variation{
		Name: "Clean",
		Sections: []design.Section{{
			Layout: 1,
			Columns: []design.Column{{Widgets: []design.Widget{
				{Kind: design.WidgetHeading, Settings: map[string]any{"text": "Acme Plumbing"}},
			}}},
		}},
	}
	_, err := v.Normalize()
	require.NoError(t, err)
	raw, err := json.Marshal(v)
	require.NoError(t, err)

	d := &sqlite.Design{ProjectID: p.ID, Name: v.Name, Variation: raw}
	require.NoError(t, designs.CreateDesign(ctx, d))
	return designs, d.ID
}

func TestRenderWritesPreviewFile(t *testing.T) {
	designs, designID := setupDesign(t)
	cfg := config.Config{DataDir: t.TempDir()}
	svc := NewService(cfg, designs, nil, nil)

	path, publicURL, err := svc.Render(context.Background(), designID)
	require.NoError(t, err)
	assert.Equal(t, "/files/previews/"+designID+".html", publicURL)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "<!DOCTYPE html>"))
	assert.Contains(t, string(content), "Acme Plumbing")

	d, err := designs.FindDesignByID(context.Background(), designID)
	require.NoError(t, err)
	assert.Equal(t, path, d.PreviewPath)
}

func TestRenderUnknownDesign(t *testing.T) {
	designs, _ := setupDesign(t)
	svc := NewService(config.Config{DataDir: t.TempDir()}, designs, nil, nil)

	_, _, err := svc.Render(context.Background(), "missing")
	assert.ErrorIs(t, err, sqlite.ErrNotFound)
}
