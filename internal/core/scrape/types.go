package scrape

import "time"

// Source identifies which fetch tier produced a snapshot.
type Source string

const (
	SourceHTTP    Source = "http"
	SourceBrowser Source = "browser"
	SourceManual  Source = "manual"
)

// Params controls a single scrape. Bound from query parameters by the
// handler via the form tags.
type Params struct {
	URL              string    `form:"url" json:"url"`
	Fresh            *bool     `form:"fresh" json:"fresh,omitempty"`
	IncludeHTML      *bool     `form:"include_html" json:"include_html,omitempty"`
	UserAgent        *string   `form:"user_agent" json:"user_agent,omitempty"`
	WaitForSelectors *[]string `json:"wait_for_selectors,omitempty"`
}

// Link is a navigation anchor found on the scraped page.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Section is one top-level block of the page outline, used by the
// classifier and as scaffolding context for design generation.
type Section struct {
	Tag     string   `json:"tag"`
	Heading string   `json:"heading,omitempty"`
	Widgets []string `json:"widgets,omitempty"`
}

// Snapshot is the full result of scraping a site: the raw page plus
// everything the downstream classifier and design generator need.
type Snapshot struct {
	URL         string            `json:"url"`
	Source      Source            `json:"source"`
	StatusCode  int               `json:"status_code"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	HTML        string            `json:"html,omitempty"`
	Markdown    string            `json:"markdown,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Palette     []string          `json:"palette,omitempty"`
	Fonts       []string          `json:"fonts,omitempty"`
	NavLinks    []Link            `json:"nav_links,omitempty"`
	Sections    []Section         `json:"sections,omitempty"`
	FetchedAt   time.Time         `json:"fetched_at"`
}

// HasContent reports whether the snapshot carries enough material for
// classification beyond bare metadata.
func (s *Snapshot) HasContent() bool {
	if s == nil {
		return false
	}
	return len(s.Markdown) >= 10 || len(s.Sections) > 0
}
