package compile

import (
	"fmt"
	"math/rand"
	"strings"

	"restyler/internal/core/design"
)

// ElementorPage is the importable page wrapper Elementor expects.
type ElementorPage struct {
	Content      []Element      `json:"content"`
	PageSettings map[string]any `json:"page_settings"`
	Version      string         `json:"version"`
	Title        string         `json:"title"`
	Type         string         `json:"type"`
}

// Element is one node of the Elementor tree: section, column or widget.
type Element struct {
	ID         string         `json:"id"`
	ElType     string         `json:"elType"`
	Settings   map[string]any `json:"settings"`
	Elements   []Element      `json:"elements"`
	WidgetType string         `json:"widgetType,omitempty"`
}

const elementorVersion = "0.4"

// CompileElementor serializes a variation into Elementor page JSON. Element
// IDs are random; everything else is deterministic.
func CompileElementor(v *design.Variation) *ElementorPage {
	page := &ElementorPage{
		PageSettings: pageSettings(&v.Style),
		Version:      elementorVersion,
		Title:        v.Name,
		Type:         "page",
	}

	for _, sec := range v.Sections {
		// variation JSON read back from storage may predate normalization
		if len(sec.Columns) == 0 {
			continue
		}
		section := Element{
			ID:     newElementID(),
			ElType: "section",
			Settings: map[string]any{
				"layout":           "boxed",
				"background_color": v.Style.Palette.Background,
			},
			Elements: []Element{},
		}
		columnSize := 100 / len(sec.Columns)
		for _, col := range sec.Columns {
			column := Element{
				ID:       newElementID(),
				ElType:   "column",
				Settings: map[string]any{"_column_size": columnSize},
				Elements: []Element{},
			}
			for _, w := range col.Widgets {
				if el, ok := widgetElement(w, &v.Style); ok {
					column.Elements = append(column.Elements, el)
				}
			}
			section.Elements = append(section.Elements, column)
		}
		page.Content = append(page.Content, section)
	}

	return page
}

func pageSettings(st *design.StyleSheet) map[string]any {
	return map[string]any{
		"background_background": "classic",
		"background_color":      st.Palette.Background,
		"custom_colors": []map[string]any{
			{"_id": "primary", "title": "Primary", "color": st.Palette.Primary},
			{"_id": "secondary", "title": "Secondary", "color": st.Palette.Secondary},
			{"_id": "accent", "title": "Accent", "color": st.Palette.Accent},
			{"_id": "text", "title": "Text", "color": st.Palette.Text},
		},
		"custom_typography": []map[string]any{
			{"_id": "heading", "title": "Heading", "typography_font_family": st.HeadingFont},
			{"_id": "body", "title": "Body", "typography_font_family": st.BodyFont},
		},
	}
}

// widgetElement maps one abstract widget to its Elementor counterpart.
// Unknown kinds report !ok and are skipped.
func widgetElement(w design.Widget, st *design.StyleSheet) (Element, bool) {
	el := Element{
		ID:       newElementID(),
		ElType:   "widget",
		Settings: map[string]any{},
		Elements: []Element{},
	}

	switch w.Kind {
	case design.WidgetHeading:
		level := w.IntSetting("level", 2)
		if level < 1 || level > 3 {
			level = 2
		}
		el.WidgetType = "heading"
		el.Settings["title"] = w.StringSetting("text")
		el.Settings["header_size"] = fmt.Sprintf("h%d", level)

	case design.WidgetText:
		el.WidgetType = "text-editor"
		el.Settings["editor"] = "<p>" + w.StringSetting("text") + "</p>"

	case design.WidgetImage:
		el.WidgetType = "image"
		el.Settings["image"] = map[string]any{
			"url": w.StringSetting("url"),
			"alt": w.StringSetting("alt"),
		}

	case design.WidgetButton:
		el.WidgetType = "button"
		el.Settings["text"] = w.StringSetting("text")
		el.Settings["link"] = map[string]any{"url": w.StringSetting("href"), "is_external": false}
		el.Settings["button_background_color"] = st.Palette.Primary

	case design.WidgetNav:
		el.WidgetType = "nav-menu"
		var items []map[string]any
		for _, item := range w.ListSetting("links") {
			link, ok := item.(map[string]any)
			if !ok {
				continue
			}
			text, _ := link["text"].(string)
			href, _ := link["href"].(string)
			items = append(items, map[string]any{"text": text, "link": href})
		}
		el.Settings["menu_items"] = items

	case design.WidgetHero:
		el.WidgetType = "call-to-action"
		el.Settings["title"] = w.StringSetting("headline")
		el.Settings["description"] = w.StringSetting("subheadline")
		if img := w.StringSetting("image_url"); img != "" {
			el.Settings["bg_image"] = map[string]any{"url": img}
		}

	case design.WidgetGallery:
		el.WidgetType = "image-gallery"
		var gallery []map[string]any
		for _, u := range w.StringListSetting("urls") {
			gallery = append(gallery, map[string]any{"url": u})
		}
		el.Settings["wp_gallery"] = gallery

	case design.WidgetForm:
		el.WidgetType = "form"
		var fields []map[string]any
		for _, f := range w.StringListSetting("fields") {
			fieldType := "text"
			switch f {
			case "email":
				fieldType = "email"
			case "phone":
				fieldType = "tel"
			case "message":
				fieldType = "textarea"
			}
			fields = append(fields, map[string]any{
				"custom_id":   f,
				"field_type":  fieldType,
				"field_label": capitalize(f),
			})
		}
		el.Settings["form_fields"] = fields
		submit := w.StringSetting("submit_text")
		if submit == "" {
			submit = "Submit"
		}
		el.Settings["button_text"] = submit

	case design.WidgetSpacer:
		el.WidgetType = "spacer"
		size := map[string]int{"s": 20, "m": 50, "l": 100}[w.StringSetting("size")]
		if size == 0 {
			size = 50
		}
		el.Settings["space"] = map[string]any{"unit": "px", "size": size}

	case design.WidgetDivider:
		el.WidgetType = "divider"
		el.Settings["color"] = st.Palette.Secondary

	default:
		return Element{}, false
	}

	return el, true
}

const hexDigits = "0123456789abcdef"

// newElementID returns a 7-hex-char ID in Elementor's format.
func newElementID() string {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		b.WriteByte(hexDigits[rand.Intn(len(hexDigits))])
	}
	return b.String()
}
