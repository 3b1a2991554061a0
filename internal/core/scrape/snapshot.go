package scrape

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"restyler/internal/utils/markdown"
)

var (
	reHexColor   = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)
	reFontFamily = regexp.MustCompile(`(?i)font-family\s*:\s*([^;}]+)`)
)

const (
	maxPaletteColors = 8
	maxFonts         = 5
	maxNavLinks      = 20
	maxSections      = 30
)

// BuildSnapshot extracts everything downstream stages need from raw HTML:
// metadata, the visual identity (palette, fonts), the navigation and the
// section outline, plus a markdown rendition of the page content.
func BuildSnapshot(html, pageURL string, source Source, statusCode int, includeHTML bool) *Snapshot {
	snap := &Snapshot{
		URL:        pageURL,
		Source:     source,
		StatusCode: statusCode,
		FetchedAt:  time.Now().UTC(),
	}
	if includeHTML {
		snap.HTML = html
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return snap
	}

	snap.Title = strings.TrimSpace(doc.Find("title").First().Text())
	snap.Metadata = extractMetadata(doc, pageURL)
	snap.Description = snap.Metadata["description"]
	snap.Palette = extractPalette(doc)
	snap.Fonts = extractFonts(doc)
	snap.NavLinks = extractNavLinks(doc, pageURL)
	snap.Sections = extractSections(doc)
	snap.Markdown = markdown.ConvertHTMLToMarkdown(html)

	return snap
}

func extractMetadata(doc *goquery.Document, pageURL string) map[string]string {
	out := map[string]string{"url": pageURL}
	setIf := func(k, v string) {
		v = strings.TrimSpace(v)
		if v != "" {
			out[k] = v
		}
	}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		if name == "" {
			name, _ = s.Attr("property")
		}
		content, _ := s.Attr("content")
		switch name {
		case "og:image", "twitter:image":
			setIf(name, absolutize(content, pageURL))
		case "description", "og:title", "og:description", "og:site_name",
			"twitter:title", "twitter:description", "theme-color":
			setIf(name, content)
		}
	})

	if lang, ok := doc.Find("html").Attr("lang"); ok {
		setIf("language", lang)
	}
	if canon, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		setIf("canonical", absolutize(canon, pageURL))
	}
	if fav, ok := doc.Find(`link[rel="icon"], link[rel="shortcut icon"]`).Attr("href"); ok {
		setIf("favicon", absolutize(fav, pageURL))
	}
	return out
}

// extractPalette collects hex colors from style tags and inline styles,
// ordered by frequency. theme-color comes first when present.
func extractPalette(doc *goquery.Document) []string {
	counts := map[string]int{}
	collect := func(css string) {
		for _, m := range reHexColor.FindAllString(css, -1) {
			counts[normalizeHex(m)]++
		}
	}

	doc.Find("style").Each(func(_ int, s *goquery.Selection) { collect(s.Text()) })
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		collect(style)
	})
	doc.Find("[color], [bgcolor]").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"color", "bgcolor"} {
			if v, ok := s.Attr(attr); ok {
				collect(v)
			}
		}
	})

	type freq struct {
		color string
		n     int
	}
	var ordered []freq
	for c, n := range counts {
		ordered = append(ordered, freq{c, n})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].n != ordered[j].n {
			return ordered[i].n > ordered[j].n
		}
		return ordered[i].color < ordered[j].color
	})

	var palette []string
	if theme, ok := doc.Find(`meta[name="theme-color"]`).Attr("content"); ok {
		if reHexColor.MatchString(theme) {
			palette = append(palette, normalizeHex(reHexColor.FindString(theme)))
		}
	}
	for _, f := range ordered {
		if len(palette) >= maxPaletteColors {
			break
		}
		if !containsString(palette, f.color) {
			palette = append(palette, f.color)
		}
	}
	return palette
}

func extractFonts(doc *goquery.Document) []string {
	var fonts []string
	seen := map[string]bool{}
	add := func(name string) {
		name = strings.Trim(strings.TrimSpace(name), `"'`)
		if name == "" || len(fonts) >= maxFonts {
			return
		}
		switch strings.ToLower(name) {
		case "inherit", "initial", "unset", "sans-serif", "serif", "monospace", "system-ui":
			return
		}
		if !seen[strings.ToLower(name)] {
			seen[strings.ToLower(name)] = true
			fonts = append(fonts, name)
		}
	}

	collect := func(css string) {
		for _, m := range reFontFamily.FindAllStringSubmatch(css, -1) {
			// first family in the stack is the intended one
			add(strings.SplitN(m[1], ",", 2)[0])
		}
	}
	doc.Find("style").Each(func(_ int, s *goquery.Selection) { collect(s.Text()) })
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		collect(style)
	})

	// Google Fonts links name families in the query string. url.Values
	// rejects the ';' inside weight specs (family=Open+Sans:wght@400;700),
	// so the raw query is walked by hand.
	doc.Find(`link[href*="fonts.googleapis.com"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		for _, pair := range strings.Split(u.RawQuery, "&") {
			if !strings.HasPrefix(pair, "family=") {
				continue
			}
			for _, fam := range strings.Split(strings.TrimPrefix(pair, "family="), "|") {
				fam = strings.SplitN(fam, ":", 2)[0]
				if name, err := url.QueryUnescape(fam); err == nil {
					add(name)
				}
			}
		}
	})
	return fonts
}

func extractNavLinks(doc *goquery.Document, pageURL string) []Link {
	var links []Link
	seen := map[string]bool{}

	scope := doc.Find("nav, header, [role=\"navigation\"]")
	if scope.Length() == 0 {
		scope = doc.Find("body")
	}
	scope.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if len(links) >= maxNavLinks {
			return
		}
		href, _ := s.Attr("href")
		text := strings.TrimSpace(s.Text())
		if text == "" || href == "" || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return
		}
		abs := absolutize(href, pageURL)
		if abs == "" || seen[abs+text] {
			return
		}
		seen[abs+text] = true
		links = append(links, Link{Text: text, Href: abs})
	})
	return links
}

// extractSections builds a coarse outline of the page: one entry per
// top-level block, with its heading and the kinds of content it holds.
func extractSections(doc *goquery.Document) []Section {
	var sections []Section
	doc.Find("body").ChildrenFiltered("header, nav, main, section, article, aside, footer, div").Each(func(_ int, s *goquery.Selection) {
		walkSection(s, &sections)
	})
	return sections
}

func walkSection(s *goquery.Selection, out *[]Section) {
	if len(*out) >= maxSections {
		return
	}
	tag := goquery.NodeName(s)

	// bare wrapper divs get unwrapped rather than reported
	if tag == "div" && strings.TrimSpace(s.Clone().Children().Remove().End().Text()) == "" {
		inner := s.ChildrenFiltered("header, nav, main, section, article, aside, footer, div")
		if inner.Length() > 0 {
			inner.Each(func(_ int, c *goquery.Selection) { walkSection(c, out) })
			return
		}
	}

	sec := Section{Tag: tag}
	sec.Heading = strings.TrimSpace(s.Find("h1, h2, h3").First().Text())
	sec.Widgets = widgetHints(s)
	if sec.Heading == "" && len(sec.Widgets) == 0 {
		return
	}
	*out = append(*out, sec)
}

func widgetHints(s *goquery.Selection) []string {
	var hints []string
	add := func(kind string, present bool) {
		if present {
			hints = append(hints, kind)
		}
	}
	add("heading", s.Find("h1, h2, h3, h4").Length() > 0)
	add("text", s.Find("p").Length() > 0)
	add("image", s.Find("img, picture").Length() > 0)
	add("button", s.Find("button, a.button, a.btn, [class*=\"button\"], [class*=\"btn\"]").Length() > 0)
	add("nav", s.Find("nav, ul.menu, [role=\"navigation\"]").Length() > 0)
	add("gallery", s.Find("img").Length() >= 3)
	add("form", s.Find("form").Length() > 0)
	return hints
}

func normalizeHex(hex string) string {
	hex = strings.ToLower(hex)
	if len(hex) == 4 {
		// #abc -> #aabbcc
		return "#" + strings.Repeat(string(hex[1]), 2) + strings.Repeat(string(hex[2]), 2) + strings.Repeat(string(hex[3]), 2)
	}
	return hex
}

func absolutize(href, base string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	u, err := baseURL.Parse(href)
	if err != nil {
		return href
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
