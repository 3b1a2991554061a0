package design

import (
	"encoding/json"

	einoschema "github.com/cloudwego/eino/schema"
	"github.com/eino-contrib/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func props(pairs ...orderedmap.Pair[string, *jsonschema.Schema]) *orderedmap.OrderedMap[string, *jsonschema.Schema] {
	return orderedmap.New[string, *jsonschema.Schema](
		orderedmap.WithInitialData[string, *jsonschema.Schema](pairs...),
	)
}

func prop(key string, s *jsonschema.Schema) orderedmap.Pair[string, *jsonschema.Schema] {
	return orderedmap.Pair[string, *jsonschema.Schema]{Key: key, Value: s}
}

// variationsSchema forces the LLM to return a valid variations payload.
func variationsSchema() *jsonschema.Schema {
	widget := &jsonschema.Schema{
		Type:     string(einoschema.Object),
		Required: []string{"type"},
		Properties: props(
			prop("type", &jsonschema.Schema{
				Type:        string(einoschema.String),
				Description: "Widget kind",
				Enum: []any{"heading", "text", "image", "button", "nav",
					"hero", "gallery", "form", "spacer", "divider"},
			}),
			prop("settings", &jsonschema.Schema{
				Type:        string(einoschema.Object),
				Description: "Widget settings, keys depend on the widget kind",
			}),
		),
	}

	column := &jsonschema.Schema{
		Type:     string(einoschema.Object),
		Required: []string{"widgets"},
		Properties: props(
			prop("widgets", &jsonschema.Schema{
				Type:  string(einoschema.Array),
				Items: widget,
			}),
		),
	}

	section := &jsonschema.Schema{
		Type:     string(einoschema.Object),
		Required: []string{"layout", "columns"},
		Properties: props(
			prop("layout", &jsonschema.Schema{
				Type:        string(einoschema.Integer),
				Description: "Number of columns in this section",
				Minimum:     json.Number("1"),
				Maximum:     json.Number("4"),
			}),
			prop("columns", &jsonschema.Schema{
				Type:  string(einoschema.Array),
				Items: column,
			}),
		),
	}

	palette := &jsonschema.Schema{
		Type:     string(einoschema.Object),
		Required: []string{"primary", "secondary", "accent", "background", "text"},
		Properties: props(
			prop("primary", &jsonschema.Schema{Type: string(einoschema.String), Description: "Hex color"}),
			prop("secondary", &jsonschema.Schema{Type: string(einoschema.String), Description: "Hex color"}),
			prop("accent", &jsonschema.Schema{Type: string(einoschema.String), Description: "Hex color"}),
			prop("background", &jsonschema.Schema{Type: string(einoschema.String), Description: "Hex color"}),
			prop("text", &jsonschema.Schema{Type: string(einoschema.String), Description: "Hex color"}),
		),
	}

	style := &jsonschema.Schema{
		Type:     string(einoschema.Object),
		Required: []string{"palette", "heading_font", "body_font"},
		Properties: props(
			prop("palette", palette),
			prop("heading_font", &jsonschema.Schema{Type: string(einoschema.String)}),
			prop("body_font", &jsonschema.Schema{Type: string(einoschema.String)}),
			prop("radius", &jsonschema.Schema{
				Type: string(einoschema.String),
				Enum: []any{"none", "s", "m", "l"},
			}),
			prop("spacing", &jsonschema.Schema{
				Type: string(einoschema.String),
				Enum: []any{"compact", "normal", "airy"},
			}),
		),
	}

	variation := &jsonschema.Schema{
		Type:     string(einoschema.Object),
		Required: []string{"name", "sections", "style"},
		Properties: props(
			prop("name", &jsonschema.Schema{Type: string(einoschema.String), Description: "Short variation name"}),
			prop("description", &jsonschema.Schema{Type: string(einoschema.String), Description: "One-sentence design rationale"}),
			prop("sections", &jsonschema.Schema{Type: string(einoschema.Array), Items: section}),
			prop("style", style),
		),
	}

	return &jsonschema.Schema{
		Type:     string(einoschema.Object),
		Required: []string{"variations"},
		Properties: props(
			prop("variations", &jsonschema.Schema{
				Type:        string(einoschema.Array),
				Description: "Exactly three design variations",
				Items:       variation,
			}),
		),
	}
}
