package classify

// Classification describes a site for the design generator.
type Classification struct {
	Category    string `json:"category"`
	Audience    string `json:"audience"`
	Tone        string `json:"tone"`
	PaletteMood string `json:"palette_mood"`
}

// Signals are the deterministic facts the rule pass extracts from the page.
// They feed the LLM prompt and override its category on conflict.
type Signals struct {
	HasProductGrid      bool     `json:"has_product_grid"`
	HasArticles         bool     `json:"has_articles"`
	HasBookingForm      bool     `json:"has_booking_form"`
	HasPortfolioGallery bool     `json:"has_portfolio_gallery"`
	HasPricingTable     bool     `json:"has_pricing_table"`
	FormCount           int      `json:"form_count"`
	ImageCount          int      `json:"image_count"`
	LinkKeywords        []string `json:"link_keywords,omitempty"`
	DetectedCategory    string   `json:"detected_category,omitempty"`
}
