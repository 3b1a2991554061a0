package mapper

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly"

	"restyler/internal/logger"
)

// Service discovers same-domain links with a shallow crawl. The classifier
// uses path keywords (/product, /blog, /menu...) as category signals.
type Service struct {
	log *logger.Logger
}

func NewMapService() *Service { return &Service{log: logger.New("MapService")} }

type Request struct {
	URL               string
	Depth             int
	LinkLimit         int
	IncludeSubdomains bool
}

type Result struct {
	Links []string `json:"links"`
}

func (s *Service) MapURL(req Request) (*Result, error) {
	s.log.LogDebugf("Map start url=%s depth=%d limit=%d", req.URL, req.Depth, req.LinkLimit)
	links := make(map[string]struct{})
	var mu sync.Mutex
	c := colly.NewCollector(colly.MaxDepth(max(1, req.Depth)), colly.Async(true))
	cleaned := cleanURL(req.URL)
	dom := extractDomain(cleaned)

	c.OnRequest(func(r *colly.Request) {
		mu.Lock()
		reached := req.LinkLimit > 0 && len(links) >= max(1, req.LinkLimit)
		mu.Unlock()
		if reached {
			r.Abort()
		}
	})

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link := normalize(e.Request.AbsoluteURL(e.Attr("href")))
		if link == "" {
			return
		}
		if !domainsMatch(extractDomain(link), dom, req.IncludeSubdomains) {
			return
		}
		mu.Lock()
		_, exists := links[link]
		if !exists {
			links[link] = struct{}{}
		}
		reached := req.LinkLimit > 0 && len(links) >= max(1, req.LinkLimit)
		mu.Unlock()
		if reached {
			return
		}
		if !exists && e.Request.Depth < max(1, req.Depth) {
			_ = e.Request.Visit(link)
		}
	})

	c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 10, RandomDelay: 500 * time.Millisecond})

	if err := c.Visit(cleaned); err != nil {
		return nil, fmt.Errorf("visit: %w", err)
	}
	c.Wait()
	out := make([]string, 0, len(links))
	for l := range links {
		out = append(out, l)
	}
	s.log.LogSuccessf("Map ok url=%s discovered=%d", req.URL, len(out))
	return &Result{Links: out}, nil
}

func cleanURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	return strings.TrimSuffix(raw, "/")
}

func normalize(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.Fragment = ""
	return strings.TrimSuffix(u.String(), "/")
}

func extractDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func domainsMatch(a, b string, includeSubdomains bool) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	return includeSubdomains && (strings.HasSuffix(a, "."+b) || strings.HasSuffix(b, "."+a))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
