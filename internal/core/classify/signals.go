package classify

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// linkKeywordCategories maps URL path keywords to category votes.
var linkKeywordCategories = map[string]string{
	"product":     "ecommerce",
	"shop":        "ecommerce",
	"cart":        "ecommerce",
	"store":       "ecommerce",
	"collection":  "ecommerce",
	"blog":        "blog",
	"post":        "blog",
	"article":     "blog",
	"news":        "blog",
	"menu":        "restaurant",
	"reservation": "restaurant",
	"portfolio":   "portfolio",
	"work":        "portfolio",
	"project":     "portfolio",
	"pricing":     "saas",
	"docs":        "saas",
	"features":    "saas",
	"donate":      "nonprofit",
}

// ExtractSignals runs the rule pass over raw HTML plus discovered links.
func ExtractSignals(html string, links []string) Signals {
	var sig Signals

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		sig.HasProductGrid = detectProductGrid(doc)
		sig.HasArticles = doc.Find("article").Length() >= 2 || doc.Find("[class*=\"post-list\"], [class*=\"blog\"]").Length() > 0
		sig.HasBookingForm = detectBookingForm(doc)
		sig.HasPortfolioGallery = doc.Find("[class*=\"portfolio\"], [class*=\"gallery\"]").Length() > 0
		sig.HasPricingTable = doc.Find("[class*=\"pricing\"], [class*=\"plan\"]").Length() >= 2
		sig.FormCount = doc.Find("form").Length()
		sig.ImageCount = doc.Find("img").Length()
	}

	sig.LinkKeywords = linkKeywords(links)
	sig.DetectedCategory = detectCategory(sig)
	return sig
}

func detectProductGrid(doc *goquery.Document) bool {
	if doc.Find("[class*=\"product\"]").Length() >= 3 {
		return true
	}
	text := strings.ToLower(doc.Find("body").Text())
	return strings.Contains(text, "add to cart") || strings.Contains(text, "add to basket")
}

func detectBookingForm(doc *goquery.Document) bool {
	text := strings.ToLower(doc.Find("body").Text())
	for _, phrase := range []string{"book a table", "make a reservation", "book now", "reserve"} {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return doc.Find("[class*=\"booking\"], [class*=\"reservation\"]").Length() > 0
}

// linkKeywords returns the path keywords seen in the site's links, sorted.
func linkKeywords(links []string) []string {
	seen := map[string]bool{}
	for _, link := range links {
		u, err := url.Parse(link)
		if err != nil {
			continue
		}
		path := strings.ToLower(u.Path)
		for kw := range linkKeywordCategories {
			if strings.Contains(path, kw) {
				seen[kw] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for kw := range seen {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

// detectCategory turns signals into a deterministic category vote, or "" when
// the rules are not confident enough to override the LLM.
func detectCategory(sig Signals) string {
	votes := map[string]int{}

	if sig.HasProductGrid {
		votes["ecommerce"] += 2
	}
	if sig.HasArticles {
		votes["blog"] += 2
	}
	if sig.HasBookingForm {
		votes["restaurant"] += 2
	}
	if sig.HasPortfolioGallery && sig.ImageCount >= 6 {
		votes["portfolio"] += 2
	}
	if sig.HasPricingTable {
		votes["saas"] += 2
	}
	for _, kw := range sig.LinkKeywords {
		votes[linkKeywordCategories[kw]]++
	}

	best, bestScore, secondScore := "", 0, 0
	for cat, score := range votes {
		switch {
		case score > bestScore:
			best, secondScore, bestScore = cat, bestScore, score
		case score > secondScore:
			secondScore = score
		}
	}
	// require a clear winner
	if bestScore >= 2 && bestScore > secondScore {
		return best
	}
	return ""
}
