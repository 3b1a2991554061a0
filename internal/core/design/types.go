package design

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// WidgetKind enumerates the widget vocabulary the compiler understands.
type WidgetKind string

const (
	WidgetHeading WidgetKind = "heading"
	WidgetText    WidgetKind = "text"
	WidgetImage   WidgetKind = "image"
	WidgetButton  WidgetKind = "button"
	WidgetNav     WidgetKind = "nav"
	WidgetHero    WidgetKind = "hero"
	WidgetGallery WidgetKind = "gallery"
	WidgetForm    WidgetKind = "form"
	WidgetSpacer  WidgetKind = "spacer"
	WidgetDivider WidgetKind = "divider"
)

// KnownWidgetKinds is the compiler's vocabulary.
var KnownWidgetKinds = map[WidgetKind]bool{
	WidgetHeading: true,
	WidgetText:    true,
	WidgetImage:   true,
	WidgetButton:  true,
	WidgetNav:     true,
	WidgetHero:    true,
	WidgetGallery: true,
	WidgetForm:    true,
	WidgetSpacer:  true,
	WidgetDivider: true,
}

// Widget is one abstract page element. Settings are loosely typed because
// they come straight from the LLM; each compiler backend reads the keys it
// knows for the widget's kind.
type Widget struct {
	Kind     WidgetKind     `json:"type"`
	Settings map[string]any `json:"settings,omitempty"`
}

// Column holds an ordered widget list.
type Column struct {
	Widgets []Widget `json:"widgets"`
}

// Section is one horizontal band of the page.
type Section struct {
	Layout  int      `json:"layout"`
	Columns []Column `json:"columns"`
}

// Palette is the five color roles every variation must fill.
type Palette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// StyleSheet is a variation's visual identity.
type StyleSheet struct {
	Palette     Palette `json:"palette"`
	HeadingFont string  `json:"heading_font"`
	BodyFont    string  `json:"body_font"`
	Radius      string  `json:"radius"`
	Spacing     string  `json:"spacing"`
}

// Variation is one complete design proposal.
type Variation struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Sections    []Section  `json:"sections"`
	Style       StyleSheet `json:"style"`
}

var defaultPalette = Palette{
	Primary:    "#2563eb",
	Secondary:  "#1e293b",
	Accent:     "#f59e0b",
	Background: "#ffffff",
	Text:       "#0f172a",
}

// Normalize makes an LLM-produced variation safe to compile: unknown widget
// kinds are dropped, empty columns and sections removed, missing style
// fields defaulted, and an ID assigned. Returns the names of dropped widget
// kinds. An error means the variation is unusable.
func (v *Variation) Normalize() ([]string, error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if strings.TrimSpace(v.Name) == "" {
		v.Name = "Untitled variation"
	}

	var dropped []string
	var sections []Section
	for _, sec := range v.Sections {
		var columns []Column
		for _, col := range sec.Columns {
			var widgets []Widget
			for _, w := range col.Widgets {
				if !KnownWidgetKinds[w.Kind] {
					dropped = append(dropped, string(w.Kind))
					continue
				}
				widgets = append(widgets, w)
			}
			if len(widgets) > 0 {
				columns = append(columns, Column{Widgets: widgets})
			}
		}
		if len(columns) == 0 {
			continue
		}
		layout := sec.Layout
		if layout < 1 || layout > 4 {
			layout = len(columns)
		}
		if layout > len(columns) {
			layout = len(columns)
		}
		sections = append(sections, Section{Layout: layout, Columns: columns})
	}

	if len(sections) == 0 {
		return dropped, fmt.Errorf("variation %q has no usable sections", v.Name)
	}
	v.Sections = sections
	v.Style.normalize()
	return dropped, nil
}

func (st *StyleSheet) normalize() {
	fillColor(&st.Palette.Primary, defaultPalette.Primary)
	fillColor(&st.Palette.Secondary, defaultPalette.Secondary)
	fillColor(&st.Palette.Accent, defaultPalette.Accent)
	fillColor(&st.Palette.Background, defaultPalette.Background)
	fillColor(&st.Palette.Text, defaultPalette.Text)

	if st.HeadingFont == "" {
		st.HeadingFont = "Inter"
	}
	if st.BodyFont == "" {
		st.BodyFont = st.HeadingFont
	}
	switch st.Radius {
	case "none", "s", "m", "l":
	default:
		st.Radius = "m"
	}
	switch st.Spacing {
	case "compact", "normal", "airy":
	default:
		st.Spacing = "normal"
	}
}

func fillColor(dst *string, fallback string) {
	c := strings.TrimSpace(*dst)
	if len(c) != 7 && len(c) != 4 || !strings.HasPrefix(c, "#") {
		*dst = fallback
		return
	}
	*dst = strings.ToLower(c)
}

// String helpers for reading loose widget settings.

func (w Widget) StringSetting(key string) string {
	if w.Settings == nil {
		return ""
	}
	if v, ok := w.Settings[key].(string); ok {
		return v
	}
	return ""
}

func (w Widget) IntSetting(key string, fallback int) int {
	if w.Settings == nil {
		return fallback
	}
	switch v := w.Settings[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

func (w Widget) ListSetting(key string) []any {
	if w.Settings == nil {
		return nil
	}
	if v, ok := w.Settings[key].([]any); ok {
		return v
	}
	return nil
}

func (w Widget) StringListSetting(key string) []string {
	var out []string
	for _, v := range w.ListSetting(key) {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
