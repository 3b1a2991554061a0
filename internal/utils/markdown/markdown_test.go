package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertPrefersMainContent(t *testing.T) {
	html := `<html><body>
		<nav><a href="/">Home</a></nav>
		<main><h1>Welcome</h1><p>We fix pipes.</p></main>
		<footer>© 2024</footer>
	</body></html>`

	out := ConvertHTMLToMarkdown(html)
	assert.Contains(t, out, "# Welcome")
	assert.Contains(t, out, "We fix pipes.")
	assert.NotContains(t, out, "© 2024")
}

func TestConvertStripsBoilerplate(t *testing.T) {
	html := `<html><body><main>
		<div class="cookie-banner">We use cookies</div>
		<div id="promo-box">50% off!</div>
		<script>alert(1)</script>
		<p>Real content here.</p>
	</main></body></html>`

	out := ConvertHTMLToMarkdown(html)
	assert.Contains(t, out, "Real content here.")
	assert.NotContains(t, out, "We use cookies")
	assert.NotContains(t, out, "50% off!")
	assert.NotContains(t, out, "alert")
}

func TestConvertFallsBackToBody(t *testing.T) {
	out := ConvertHTMLToMarkdown("<html><body><p>No main tag.</p></body></html>")
	assert.Contains(t, out, "No main tag.")
}

func TestConvertCollapsesBlankRuns(t *testing.T) {
	html := "<main><p>a</p><br><br><br><br><p>b</p></main>"
	out := ConvertHTMLToMarkdown(html)
	assert.NotContains(t, out, "\n\n\n")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestConvertEmptyInput(t *testing.T) {
	assert.Equal(t, "", ConvertHTMLToMarkdown(""))
}
