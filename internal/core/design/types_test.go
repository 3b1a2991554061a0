package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heroSection() Section {
	return Section{
		Layout: 1,
		Columns: []Column{{Widgets: []Widget{
			{Kind: WidgetHero, Settings: map[string]any{"headline": "Welcome"}},
		}}},
	}
}

func TestNormalizeAssignsIDAndDefaults(t *testing.T) {
	v := Variation{Name: "Clean", Sections: []Section{heroSection()}}

	dropped, err := v.Normalize()
	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, defaultPalette.Primary, v.Style.Palette.Primary)
	assert.Equal(t, "Inter", v.Style.HeadingFont)
	assert.Equal(t, "m", v.Style.Radius)
	assert.Equal(t, "normal", v.Style.Spacing)
}

func TestNormalizeDropsUnknownWidgets(t *testing.T) {
	v := Variation{
		Name: "Mixed",
		Sections: []Section{
			heroSection(),
			{Layout: 2, Columns: []Column{
				{Widgets: []Widget{
					{Kind: "carousel"},
					{Kind: WidgetText, Settings: map[string]any{"text": "hi"}},
				}},
				{Widgets: []Widget{{Kind: "countdown"}}},
			}},
		},
	}

	dropped, err := v.Normalize()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"carousel", "countdown"}, dropped)

	// the empty column is removed and the layout clamped to what remains
	require.Len(t, v.Sections, 2)
	assert.Len(t, v.Sections[1].Columns, 1)
	assert.Equal(t, 1, v.Sections[1].Layout)
}

func TestNormalizeRejectsEmptyVariation(t *testing.T) {
	v := Variation{
		Name: "Hollow",
		Sections: []Section{
			{Layout: 1, Columns: []Column{{Widgets: []Widget{{Kind: "slider"}}}}},
		},
	}

	_, err := v.Normalize()
	assert.Error(t, err)
}

func TestNormalizeKeepsValidStyle(t *testing.T) {
	v := Variation{
		Name:     "Styled",
		Sections: []Section{heroSection()},
		Style: StyleSheet{
			Palette: Palette{
				Primary:    "#FF6600",
				Secondary:  "#001122",
				Accent:     "#AbCdEf",
				Background: "#fff",
				Text:       "#000000",
			},
			HeadingFont: "Merriweather",
			BodyFont:    "Open Sans",
			Radius:      "none",
			Spacing:     "airy",
		},
	}

	_, err := v.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "#ff6600", v.Style.Palette.Primary)
	assert.Equal(t, "#fff", v.Style.Palette.Background)
	assert.Equal(t, "Merriweather", v.Style.HeadingFont)
	assert.Equal(t, "none", v.Style.Radius)
}

func TestWidgetSettingHelpers(t *testing.T) {
	w := Widget{Kind: WidgetImage, Settings: map[string]any{
		"url":     "https://img.example/a.jpg",
		"level":   float64(2),
		"queries": []any{"office desk", "team meeting", 42},
	}}

	assert.Equal(t, "https://img.example/a.jpg", w.StringSetting("url"))
	assert.Equal(t, 2, w.IntSetting("level", 1))
	assert.Equal(t, 1, w.IntSetting("missing", 1))
	assert.Equal(t, []string{"office desk", "team meeting"}, w.StringListSetting("queries"))
	assert.Empty(t, Widget{}.StringSetting("url"))
}
