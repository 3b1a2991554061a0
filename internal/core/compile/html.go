// Package compile translates abstract widget structures into concrete
// output: standalone HTML/CSS preview pages and Elementor page JSON.
package compile

import (
	"fmt"
	"html"
	"strings"

	"restyler/internal/core/design"
)

var spacingScale = map[string]string{
	"compact": "0.5rem",
	"normal":  "1rem",
	"airy":    "2rem",
}

var radiusScale = map[string]string{
	"none": "0",
	"s":    "4px",
	"m":    "8px",
	"l":    "16px",
}

var spacerSizes = map[string]string{
	"s": "1rem",
	"m": "2.5rem",
	"l": "5rem",
}

// CompileHTML renders a variation as a complete standalone HTML document.
// Output is deterministic for a given variation.
func CompileHTML(v *design.Variation) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(v.Name))
	b.WriteString("<style>\n")
	writeCSS(&b, &v.Style)
	b.WriteString("</style>\n</head>\n<body>\n")

	for _, sec := range v.Sections {
		fmt.Fprintf(&b, "<section class=\"sec cols-%d\">\n", sec.Layout)
		b.WriteString("<div class=\"row\">\n")
		for _, col := range sec.Columns {
			b.WriteString("<div class=\"col\">\n")
			for _, w := range col.Widgets {
				writeWidget(&b, w)
			}
			b.WriteString("</div>\n")
		}
		b.WriteString("</div>\n</section>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// writeCSS emits the variation style sheet as :root custom properties plus
// the shared layout and widget rules.
func writeCSS(b *strings.Builder, st *design.StyleSheet) {
	b.WriteString(":root {\n")
	fmt.Fprintf(b, "  --color-primary: %s;\n", st.Palette.Primary)
	fmt.Fprintf(b, "  --color-secondary: %s;\n", st.Palette.Secondary)
	fmt.Fprintf(b, "  --color-accent: %s;\n", st.Palette.Accent)
	fmt.Fprintf(b, "  --color-background: %s;\n", st.Palette.Background)
	fmt.Fprintf(b, "  --color-text: %s;\n", st.Palette.Text)
	fmt.Fprintf(b, "  --font-heading: '%s', sans-serif;\n", st.HeadingFont)
	fmt.Fprintf(b, "  --font-body: '%s', sans-serif;\n", st.BodyFont)
	fmt.Fprintf(b, "  --radius: %s;\n", radiusScale[st.Radius])
	fmt.Fprintf(b, "  --space: %s;\n", spacingScale[st.Spacing])
	b.WriteString("}\n")

	b.WriteString(`* { box-sizing: border-box; margin: 0; }
body { background: var(--color-background); color: var(--color-text); font-family: var(--font-body); line-height: 1.6; }
h1, h2, h3, h4 { font-family: var(--font-heading); color: var(--color-secondary); margin-bottom: var(--space); }
p { margin-bottom: var(--space); }
.sec { padding: calc(var(--space) * 2) var(--space); }
.row { display: grid; gap: calc(var(--space) * 2); max-width: 1140px; margin: 0 auto; }
.cols-1 .row { grid-template-columns: 1fr; }
.cols-2 .row { grid-template-columns: repeat(2, 1fr); }
.cols-3 .row { grid-template-columns: repeat(3, 1fr); }
.cols-4 .row { grid-template-columns: repeat(4, 1fr); }
.btn { display: inline-block; background: var(--color-primary); color: var(--color-background); padding: calc(var(--space) / 2) var(--space); border-radius: var(--radius); text-decoration: none; }
.nav { display: flex; gap: var(--space); }
.nav a { color: var(--color-text); text-decoration: none; }
.hero { background: var(--color-secondary); color: var(--color-background); padding: calc(var(--space) * 4) var(--space); border-radius: var(--radius); background-size: cover; background-position: center; }
.hero h1 { color: var(--color-background); }
.hero p { opacity: 0.85; }
.gallery { display: grid; grid-template-columns: repeat(3, 1fr); gap: var(--space); }
.gallery img, .col img { width: 100%; border-radius: var(--radius); display: block; }
.img-placeholder { background: var(--color-secondary); color: var(--color-background); opacity: 0.4; padding: calc(var(--space) * 3) var(--space); text-align: center; border-radius: var(--radius); }
form { display: flex; flex-direction: column; gap: calc(var(--space) / 2); }
input, textarea { padding: calc(var(--space) / 2); border: 1px solid var(--color-secondary); border-radius: var(--radius); font-family: var(--font-body); }
form button { background: var(--color-accent); color: var(--color-text); border: none; padding: calc(var(--space) / 2) var(--space); border-radius: var(--radius); cursor: pointer; }
hr { border: none; border-top: 1px solid var(--color-secondary); opacity: 0.3; margin: var(--space) 0; }
`)
}

func writeWidget(b *strings.Builder, w design.Widget) {
	switch w.Kind {
	case design.WidgetHeading:
		level := w.IntSetting("level", 2)
		if level < 1 || level > 3 {
			level = 2
		}
		fmt.Fprintf(b, "<h%d>%s</h%d>\n", level, html.EscapeString(w.StringSetting("text")), level)

	case design.WidgetText:
		fmt.Fprintf(b, "<p>%s</p>\n", html.EscapeString(w.StringSetting("text")))

	case design.WidgetImage:
		url := w.StringSetting("url")
		alt := w.StringSetting("alt")
		if url == "" {
			label := alt
			if label == "" {
				label = w.StringSetting("query")
			}
			fmt.Fprintf(b, "<div class=\"img-placeholder\">%s</div>\n", html.EscapeString(label))
			return
		}
		fmt.Fprintf(b, "<img src=\"%s\" alt=\"%s\">\n", html.EscapeString(url), html.EscapeString(alt))

	case design.WidgetButton:
		href := w.StringSetting("href")
		if href == "" {
			href = "#"
		}
		fmt.Fprintf(b, "<a class=\"btn\" href=\"%s\">%s</a>\n", html.EscapeString(href), html.EscapeString(w.StringSetting("text")))

	case design.WidgetNav:
		b.WriteString("<nav class=\"nav\">\n")
		for _, item := range w.ListSetting("links") {
			link, ok := item.(map[string]any)
			if !ok {
				continue
			}
			text, _ := link["text"].(string)
			href, _ := link["href"].(string)
			if href == "" {
				href = "#"
			}
			fmt.Fprintf(b, "<a href=\"%s\">%s</a>\n", html.EscapeString(href), html.EscapeString(text))
		}
		b.WriteString("</nav>\n")

	case design.WidgetHero:
		style := ""
		if img := w.StringSetting("image_url"); img != "" {
			style = fmt.Sprintf(" style=\"background-image: url('%s')\"", html.EscapeString(img))
		}
		fmt.Fprintf(b, "<div class=\"hero\"%s>\n", style)
		fmt.Fprintf(b, "<h1>%s</h1>\n", html.EscapeString(w.StringSetting("headline")))
		if sub := w.StringSetting("subheadline"); sub != "" {
			fmt.Fprintf(b, "<p>%s</p>\n", html.EscapeString(sub))
		}
		b.WriteString("</div>\n")

	case design.WidgetGallery:
		b.WriteString("<div class=\"gallery\">\n")
		urls := w.StringListSetting("urls")
		if len(urls) > 0 {
			for _, u := range urls {
				fmt.Fprintf(b, "<img src=\"%s\" alt=\"\">\n", html.EscapeString(u))
			}
		} else {
			for _, q := range w.StringListSetting("queries") {
				fmt.Fprintf(b, "<div class=\"img-placeholder\">%s</div>\n", html.EscapeString(q))
			}
		}
		b.WriteString("</div>\n")

	case design.WidgetForm:
		b.WriteString("<form>\n")
		for _, field := range w.StringListSetting("fields") {
			switch field {
			case "message":
				b.WriteString("<textarea name=\"message\" placeholder=\"Message\" rows=\"4\"></textarea>\n")
			case "email":
				b.WriteString("<input type=\"email\" name=\"email\" placeholder=\"Email\">\n")
			case "phone":
				b.WriteString("<input type=\"tel\" name=\"phone\" placeholder=\"Phone\">\n")
			default:
				fmt.Fprintf(b, "<input type=\"text\" name=\"%s\" placeholder=\"%s\">\n",
					html.EscapeString(field), html.EscapeString(capitalize(field)))
			}
		}
		submit := w.StringSetting("submit_text")
		if submit == "" {
			submit = "Submit"
		}
		fmt.Fprintf(b, "<button type=\"submit\">%s</button>\n", html.EscapeString(submit))
		b.WriteString("</form>\n")

	case design.WidgetSpacer:
		size := w.StringSetting("size")
		if _, ok := spacerSizes[size]; !ok {
			size = "m"
		}
		fmt.Fprintf(b, "<div style=\"height: %s\"></div>\n", spacerSizes[size])

	case design.WidgetDivider:
		b.WriteString("<hr>\n")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
