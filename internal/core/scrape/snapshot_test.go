package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <title>Acme Plumbing</title>
  <meta name="description" content="Reliable plumbing services since 1990">
  <meta property="og:image" content="/img/og.png">
  <meta name="twitter:image" content="https://cdn.acme.example/tw.png">
  <meta name="theme-color" content="#1a2b3c">
  <link rel="canonical" href="https://acme.example/">
  <link href="https://fonts.googleapis.com/css2?family=Open+Sans:wght@400;700&family=Merriweather" rel="stylesheet">
  <style>
    body { color: #333333; font-family: "Open Sans", sans-serif; }
    h1 { color: #1a2b3c; }
    .cta { background: #ff6600; }
  </style>
</head>
<body>
  <header>
    <nav>
      <a href="/services">Services</a>
      <a href="/about">About Us</a>
      <a href="/contact">Contact</a>
    </nav>
  </header>
  <section>
    <h1>Plumbing you can trust</h1>
    <p>We fix leaks, install heaters and unclog drains across the city.</p>
    <a class="btn" href="/quote">Get a quote</a>
  </section>
  <section>
    <h2>Our work</h2>
    <img src="/1.jpg"><img src="/2.jpg"><img src="/3.jpg">
  </section>
  <footer>
    <form action="/subscribe"><input type="email"></form>
    <p>Call us any time.</p>
  </footer>
</body>
</html>`

func TestBuildSnapshotMetadata(t *testing.T) {
	snap := BuildSnapshot(sampleHTML, "https://acme.example/", SourceHTTP, 200, false)

	assert.Equal(t, "Acme Plumbing", snap.Title)
	assert.Equal(t, "Reliable plumbing services since 1990", snap.Description)
	assert.Equal(t, "https://acme.example/img/og.png", snap.Metadata["og:image"])
	assert.Equal(t, "https://cdn.acme.example/tw.png", snap.Metadata["twitter:image"])
	assert.Equal(t, "https://acme.example/", snap.Metadata["canonical"])
	assert.Equal(t, "en", snap.Metadata["language"])
	assert.Equal(t, SourceHTTP, snap.Source)
	assert.Equal(t, 200, snap.StatusCode)
	assert.Empty(t, snap.HTML)
}

func TestBuildSnapshotIncludeHTML(t *testing.T) {
	snap := BuildSnapshot(sampleHTML, "https://acme.example/", SourceBrowser, 200, true)
	assert.Contains(t, snap.HTML, "<title>Acme Plumbing</title>")
}

func TestBuildSnapshotPalette(t *testing.T) {
	snap := BuildSnapshot(sampleHTML, "https://acme.example/", SourceHTTP, 200, false)

	require.NotEmpty(t, snap.Palette)
	// theme-color leads the palette
	assert.Equal(t, "#1a2b3c", snap.Palette[0])
	assert.Contains(t, snap.Palette, "#333333")
	assert.Contains(t, snap.Palette, "#ff6600")
}

func TestBuildSnapshotFonts(t *testing.T) {
	snap := BuildSnapshot(sampleHTML, "https://acme.example/", SourceHTTP, 200, false)

	assert.Contains(t, snap.Fonts, "Open Sans")
	assert.Contains(t, snap.Fonts, "Merriweather")
	assert.NotContains(t, snap.Fonts, "sans-serif")
}

func TestExtractFontsQuotedFamilies(t *testing.T) {
	html := `<html><head><style>
		body { font-family: "Open Sans", sans-serif; }
		h1 { font-family: 'Playfair Display', serif; }
		code { font-family: monospace; }
	</style></head><body></body></html>`

	snap := BuildSnapshot(html, "https://acme.example/", SourceHTTP, 200, false)
	assert.Contains(t, snap.Fonts, "Open Sans")
	assert.Contains(t, snap.Fonts, "Playfair Display")
	assert.NotContains(t, snap.Fonts, "monospace")
}

func TestExtractFontsGoogleWeightSpecs(t *testing.T) {
	html := `<html><head>
	<link href="https://fonts.googleapis.com/css2?family=Open+Sans:wght@400;700&family=Lato:ital,wght@0,400;1,700&display=swap" rel="stylesheet">
	<link href="https://fonts.googleapis.com/css?family=Roboto:300|Oswald" rel="stylesheet">
	</head><body></body></html>`

	snap := BuildSnapshot(html, "https://acme.example/", SourceHTTP, 200, false)
	assert.Contains(t, snap.Fonts, "Open Sans")
	assert.Contains(t, snap.Fonts, "Lato")
	assert.Contains(t, snap.Fonts, "Roboto")
	assert.Contains(t, snap.Fonts, "Oswald")
}

func TestBuildSnapshotNavLinks(t *testing.T) {
	snap := BuildSnapshot(sampleHTML, "https://acme.example/", SourceHTTP, 200, false)

	require.Len(t, snap.NavLinks, 3)
	assert.Equal(t, "Services", snap.NavLinks[0].Text)
	assert.Equal(t, "https://acme.example/services", snap.NavLinks[0].Href)
}

func TestBuildSnapshotSections(t *testing.T) {
	snap := BuildSnapshot(sampleHTML, "https://acme.example/", SourceHTTP, 200, false)

	require.NotEmpty(t, snap.Sections)

	var hero *Section
	for i := range snap.Sections {
		if snap.Sections[i].Heading == "Plumbing you can trust" {
			hero = &snap.Sections[i]
		}
	}
	require.NotNil(t, hero)
	assert.Equal(t, "section", hero.Tag)
	assert.Contains(t, hero.Widgets, "heading")
	assert.Contains(t, hero.Widgets, "text")
	assert.Contains(t, hero.Widgets, "button")

	var gallery *Section
	for i := range snap.Sections {
		if snap.Sections[i].Heading == "Our work" {
			gallery = &snap.Sections[i]
		}
	}
	require.NotNil(t, gallery)
	assert.Contains(t, gallery.Widgets, "gallery")
}

func TestBuildSnapshotMarkdown(t *testing.T) {
	snap := BuildSnapshot(sampleHTML, "https://acme.example/", SourceHTTP, 200, false)

	assert.Contains(t, snap.Markdown, "Plumbing you can trust")
	assert.True(t, snap.HasContent())
}

func TestHasContent(t *testing.T) {
	var nilSnap *Snapshot
	assert.False(t, nilSnap.HasContent())
	assert.False(t, (&Snapshot{Markdown: "hi"}).HasContent())
	assert.True(t, (&Snapshot{Markdown: "a longer body of text"}).HasContent())
	assert.True(t, (&Snapshot{Sections: []Section{{Tag: "section"}}}).HasContent())
}

func TestNormalizeHex(t *testing.T) {
	assert.Equal(t, "#aabbcc", normalizeHex("#abc"))
	assert.Equal(t, "#ff6600", normalizeHex("#FF6600"))
}

func TestAbsolutize(t *testing.T) {
	assert.Equal(t, "https://acme.example/a", absolutize("/a", "https://acme.example/"))
	assert.Equal(t, "https://other.example/x", absolutize("https://other.example/x", "https://acme.example/"))
	assert.Equal(t, "", absolutize("#frag", "https://acme.example/"))
	assert.Equal(t, "", absolutize("javascript:void(0)", "https://acme.example/"))
}
