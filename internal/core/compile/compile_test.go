package compile

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restyler/internal/core/design"
)

func testVariation() *design.Variation {
	v := &design.Variation{
		Name: "Bold & modern",
		Sections: []design.Section{
			{
				Layout: 1,
				Columns: []design.Column{{Widgets: []design.Widget{
					{Kind: design.WidgetNav, Settings: map[string]any{
						"links": []any{
							map[string]any{"text": "Home", "href": "/"},
							map[string]any{"text": "Services", "href": "/services"},
						},
					}},
					{Kind: design.WidgetHero, Settings: map[string]any{
						"headline":    "Plumbing you can trust",
						"subheadline": "Serving the city since 1990",
					}},
				}}},
			},
			{
				Layout: 2,
				Columns: []design.Column{
					{Widgets: []design.Widget{
						{Kind: design.WidgetHeading, Settings: map[string]any{"text": "Our services", "level": float64(2)}},
						{Kind: design.WidgetText, Settings: map[string]any{"text": "Leaks & heaters <fixed>"}},
					}},
					{Widgets: []design.Widget{
						{Kind: design.WidgetImage, Settings: map[string]any{"url": "https://img.example/a.jpg", "alt": "pipes"}},
						{Kind: design.WidgetButton, Settings: map[string]any{"text": "Get a quote", "href": "/quote"}},
					}},
				},
			},
			{
				Layout: 1,
				Columns: []design.Column{{Widgets: []design.Widget{
					{Kind: design.WidgetForm, Settings: map[string]any{
						"fields":      []any{"name", "email", "message"},
						"submit_text": "Send",
					}},
				}}},
			},
		},
		Style: design.StyleSheet{
			Palette: design.Palette{
				Primary:    "#2563eb",
				Secondary:  "#1e293b",
				Accent:     "#f59e0b",
				Background: "#ffffff",
				Text:       "#0f172a",
			},
			HeadingFont: "Merriweather",
			BodyFont:    "Open Sans",
			Radius:      "m",
			Spacing:     "normal",
		},
	}
	_, err := v.Normalize()
	if err != nil {
		panic(err)
	}
	return v
}

func TestCompileHTMLStructure(t *testing.T) {
	out := CompileHTML(testVariation())

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "--color-primary: #2563eb;")
	assert.Contains(t, out, "--font-heading: 'Merriweather', sans-serif;")
	assert.Contains(t, out, "<h1>Plumbing you can trust</h1>")
	assert.Contains(t, out, "<h2>Our services</h2>")
	assert.Contains(t, out, `<img src="https://img.example/a.jpg" alt="pipes">`)
	assert.Contains(t, out, `<a class="btn" href="/quote">Get a quote</a>`)
	assert.Contains(t, out, `<textarea name="message"`)
	assert.Contains(t, out, "cols-2")
}

func TestCompileHTMLEscapesContent(t *testing.T) {
	out := CompileHTML(testVariation())
	assert.Contains(t, out, "Leaks &amp; heaters &lt;fixed&gt;")
	assert.NotContains(t, out, "<fixed>")
}

func TestCompileHTMLDeterministic(t *testing.T) {
	v := testVariation()
	assert.Equal(t, CompileHTML(v), CompileHTML(v))
}

func TestCompileHTMLImagePlaceholder(t *testing.T) {
	v := &design.Variation{
		Name: "Placeholder",
		Sections: []design.Section{{
			Layout: 1,
			Columns: []design.Column{{Widgets: []design.Widget{
				{Kind: design.WidgetImage, Settings: map[string]any{"query": "modern office"}},
			}}},
		}},
	}
	_, err := v.Normalize()
	require.NoError(t, err)

	out := CompileHTML(v)
	assert.Contains(t, out, `<div class="img-placeholder">modern office</div>`)
}

func TestCompileElementorWrapper(t *testing.T) {
	page := CompileElementor(testVariation())

	assert.Equal(t, "0.4", page.Version)
	assert.Equal(t, "page", page.Type)
	assert.Equal(t, "Bold & modern", page.Title)
	require.Len(t, page.Content, 3)
	assert.NotNil(t, page.PageSettings["custom_colors"])
}

func TestCompileElementorTree(t *testing.T) {
	page := CompileElementor(testVariation())

	idRe := regexp.MustCompile(`^[0-9a-f]{7}$`)
	var walk func(els []Element)
	var widgetTypes []string
	walk = func(els []Element) {
		for _, el := range els {
			assert.Regexp(t, idRe, el.ID)
			if el.ElType == "widget" {
				widgetTypes = append(widgetTypes, el.WidgetType)
			}
			walk(el.Elements)
		}
	}
	walk(page.Content)

	assert.Contains(t, widgetTypes, "nav-menu")
	assert.Contains(t, widgetTypes, "call-to-action")
	assert.Contains(t, widgetTypes, "heading")
	assert.Contains(t, widgetTypes, "button")
	assert.Contains(t, widgetTypes, "form")

	// two-column section splits evenly
	sec := page.Content[1]
	require.Len(t, sec.Elements, 2)
	assert.Equal(t, 50, sec.Elements[0].Settings["_column_size"])
}

func TestCompileElementorSkipsColumnlessSection(t *testing.T) {
	v := &design.Variation{
		Name: "Sparse",
		Sections: []design.Section{
			{Layout: 1, Columns: nil},
			{
				Layout: 1,
				Columns: []design.Column{{Widgets: []design.Widget{
					{Kind: design.WidgetHeading, Settings: map[string]any{"text": "Still here"}},
				}}},
			},
		},
	}

	var page *ElementorPage
	require.NotPanics(t, func() { page = CompileElementor(v) })
	require.Len(t, page.Content, 1)
	assert.Equal(t, "heading", page.Content[0].Elements[0].Elements[0].WidgetType)
}

func TestCompileElementorRoundTrip(t *testing.T) {
	page := CompileElementor(testVariation())

	raw, err := json.Marshal(page)
	require.NoError(t, err)

	var decoded ElementorPage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, page.Title, decoded.Title)
	require.Len(t, decoded.Content, len(page.Content))
	assert.Equal(t, page.Content[0].Elements[0].ID, decoded.Content[0].Elements[0].ID)
}

func TestElementIDFormat(t *testing.T) {
	idRe := regexp.MustCompile(`^[0-9a-f]{7}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := newElementID()
		assert.Regexp(t, idRe, id)
		seen[id] = true
	}
	// collisions across 100 draws would indicate a broken generator
	assert.Greater(t, len(seen), 95)
}
