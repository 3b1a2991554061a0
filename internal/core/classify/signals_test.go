package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const shopHTML = `<html><body>
<div class="product-card">Widget A <button>Add to cart</button></div>
<div class="product-card">Widget B</div>
<div class="product-card">Widget C</div>
<form action="/search"></form>
</body></html>`

const blogHTML = `<html><body>
<article><h2>First post</h2></article>
<article><h2>Second post</h2></article>
<article><h2>Third post</h2></article>
</body></html>`

const restaurantHTML = `<html><body>
<section><h2>Our menu</h2><p>Pasta, pizza and more.</p></section>
<section><p>Book a table today.</p><form class="booking"></form></section>
</body></html>`

func TestExtractSignalsEcommerce(t *testing.T) {
	sig := ExtractSignals(shopHTML, []string{
		"https://x.example/shop",
		"https://x.example/product/widget-a",
		"https://x.example/cart",
	})

	assert.True(t, sig.HasProductGrid)
	assert.Equal(t, "ecommerce", sig.DetectedCategory)
	assert.Contains(t, sig.LinkKeywords, "product")
	assert.Contains(t, sig.LinkKeywords, "cart")
}

func TestExtractSignalsBlog(t *testing.T) {
	sig := ExtractSignals(blogHTML, []string{
		"https://x.example/blog/2026/a-post",
		"https://x.example/blog/2026/another-post",
	})

	assert.True(t, sig.HasArticles)
	assert.Equal(t, "blog", sig.DetectedCategory)
}

func TestExtractSignalsRestaurant(t *testing.T) {
	sig := ExtractSignals(restaurantHTML, []string{"https://x.example/menu"})

	assert.True(t, sig.HasBookingForm)
	assert.Equal(t, "restaurant", sig.DetectedCategory)
}

func TestExtractSignalsNoConfidentCategory(t *testing.T) {
	sig := ExtractSignals(`<html><body><p>Welcome</p></body></html>`, nil)
	assert.Empty(t, sig.DetectedCategory)
}

func TestDetectCategoryRequiresClearWinner(t *testing.T) {
	// one ecommerce vote and one blog vote from links alone is a tie
	sig := Signals{LinkKeywords: []string{"blog", "shop"}}
	assert.Empty(t, detectCategory(sig))
}
