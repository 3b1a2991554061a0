package export

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
		Name: "Bold",
		Sections: []design.Section{{
			Layout: 1,
			Columns: []design.Column{{Widgets: []design.Widget{
				{Kind: design.WidgetHero, Settings: map[string]any{"headline": "Pipes done right"}},
				{Kind: design.WidgetButton, Settings: map[string]any{"text": "Call us", "href": "/contact"}},
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

func TestElementorExport(t *testing.T) {
	designs, designID := setupDesign(t)
	svc := NewService(designs, nil, nil, nil)

	page, err := svc.Elementor(context.Background(), designID)
	require.NoError(t, err)
	assert.Equal(t, "Bold", page.Title)
	assert.Equal(t, "page", page.Type)
	require.Len(t, page.Content, 1)

	// the page must survive a JSON round trip for import to work
	raw, err := json.Marshal(page)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"elType":"section"`)
	assert.Contains(t, string(raw), `"widgetType":"call-to-action"`)
}

func TestElementorExportUnknownDesign(t *testing.T) {
	designs, _ := setupDesign(t)
	svc := NewService(designs, nil, nil, nil)

	_, err := svc.Elementor(context.Background(), "missing")
	assert.ErrorIs(t, err, sqlite.ErrNotFound)
}
