package markdown

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var reBlankRuns = regexp.MustCompile(`\n{3,}`)

// ConvertHTMLToMarkdown converts HTML to markdown with boilerplate stripped.
// The result is what gets fed to the LLM, so navigation chrome, cookie
// banners and ad slots are removed before conversion.
func ConvertHTMLToMarkdown(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var contentSelection *goquery.Selection
	mainTags := []string{"main", "[role=\"main\"]", "#content", "#main"}
	for _, tag := range mainTags {
		if doc.Find(tag).Length() > 0 {
			contentSelection = doc.Find(tag).First()
			break
		}
	}
	if contentSelection == nil {
		contentSelection = doc.Find("body")
	}

	contentSelection.Find("script, style, noscript, form, iframe, svg, input").Each(func(_ int, s *goquery.Selection) { s.Remove() })
	contentSelection.Find("[aria-label*=\"cookie\" i], [aria-modal]").Each(func(_ int, s *goquery.Selection) { s.Remove() })

	keywords := []string{
		"cookie", "consent", "ad-", "advert", "promo", "modal", "popup", "dialog",
	}
	contentSelection.Find("[class], [id]").Each(func(_ int, sel *goquery.Selection) {
		classVal, _ := sel.Attr("class")
		idVal, _ := sel.Attr("id")
		lower := strings.ToLower(classVal + " " + idVal)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				sel.Remove()
				break
			}
		}
	})

	body, err := contentSelection.Html()
	if err != nil {
		return ""
	}

	conv := md.NewConverter("", true, nil)
	out, err := conv.ConvertString(body)
	if err != nil {
		return ""
	}

	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = reBlankRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
