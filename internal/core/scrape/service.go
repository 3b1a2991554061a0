package scrape

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"restyler/internal/logger"
	rds "restyler/internal/platform/redis"
)

const cacheTTLSeconds = 900

type Service struct {
	log     *logger.Logger
	redis   *rds.Service
	fetcher *Fetcher
	browser *Browser
}

func NewService(redis *rds.Service) (*Service, error) {
	fetcher, err := NewFetcher(FetcherOptions{Timeout: 30 * time.Second, MaxRetries: 2})
	if err != nil {
		return nil, err
	}
	return &Service{
		log:     logger.New("ScrapeService"),
		redis:   redis,
		fetcher: fetcher,
		browser: NewBrowser(),
	}, nil
}

// Scrape runs the tiered fetch chain: plain HTTP first, headless browser on
// failure or thin content, and a degraded manual snapshot as the last resort.
// A manual snapshot still succeeds so the caller can proceed with metadata
// the user supplies by hand.
func (s *Service) Scrape(ctx context.Context, params Params) (*Snapshot, error) {
	if strings.TrimSpace(params.URL) == "" {
		return nil, fmt.Errorf("url is required")
	}
	// unparseable input fails fast; the manual tier is for hostile sites,
	// not malformed URLs
	if parsed, err := url.Parse(params.URL); err != nil || parsed.Host == "" ||
		(parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("invalid URL: %s", params.URL)
	}
	s.log.Info().Str("url", params.URL).Msg("scrape start")

	fresh := boolVal(params.Fresh)
	includeHTML := boolVal(params.IncludeHTML)

	if !fresh {
		if cached := s.getCached(ctx, params); cached != nil {
			s.log.Info().Str("url", params.URL).Msg("cache hit")
			return cached, nil
		}
	}

	snap := s.scrapeHTTP(ctx, params, includeHTML)
	if snap == nil || !snap.HasContent() {
		snap = s.scrapeBrowser(params, includeHTML)
	}
	if snap == nil {
		snap = s.manualSnapshot(params)
		s.log.Info().Str("url", params.URL).Msg("all fetch tiers failed, returning manual snapshot")
	}

	s.cache(ctx, params, snap)
	s.log.Info().Str("url", params.URL).Int("status", snap.StatusCode).Str("source", string(snap.Source)).Msg("scrape complete")
	return snap, nil
}

func (s *Service) scrapeHTTP(ctx context.Context, params Params, includeHTML bool) *Snapshot {
	res, err := s.fetcher.Fetch(ctx, params.URL, strVal(params.UserAgent))
	if err != nil {
		s.log.Info().Str("url", params.URL).Str("error", err.Error()).Msg("http fetch failed")
		return nil
	}
	snap := BuildSnapshot(string(res.Body), params.URL, SourceHTTP, res.StatusCode, includeHTML)
	if IsCloudflareBlocked(res.StatusCode, snap.Title, string(res.Body)) {
		s.log.Info().Str("url", params.URL).Msg("cloudflare detected on http tier")
		return nil
	}
	if !snap.HasContent() {
		s.log.Info().Str("url", params.URL).Msg("http tier returned thin content, escalating to browser")
		return nil
	}
	return snap
}

// scrapeBrowser rotates header strategies across attempts the way a
// polite-but-persistent crawler would.
func (s *Service) scrapeBrowser(params Params, includeHTML bool) *Snapshot {
	strategies := GetAllStrategies()
	waitSelectors := []string{}
	if params.WaitForSelectors != nil {
		waitSelectors = *params.WaitForSelectors
	}

	for i, strategy := range strategies {
		s.log.Info().Str("url", params.URL).Int("attempt", i+1).Str("strategy", string(strategy)).Msg("attempt browser scrape")

		res, err := s.browser.Render(params.URL, strategy, strVal(params.UserAgent), waitSelectors)
		if err != nil {
			s.log.Info().Str("url", params.URL).Str("strategy", string(strategy)).Str("error", err.Error()).Msg("browser scrape attempt failed")
		} else if IsCloudflareBlocked(res.StatusCode, res.Title, res.HTML) {
			s.log.Info().Str("url", params.URL).Str("strategy", string(strategy)).Int("status", res.StatusCode).Msg("cloudflare detected")
		} else {
			snap := BuildSnapshot(res.HTML, params.URL, SourceBrowser, res.StatusCode, includeHTML)
			if snap.HasContent() {
				s.log.Info().Str("url", params.URL).Str("strategy", string(strategy)).Msg("browser scrape succeeded")
				return snap
			}
			s.log.Info().Str("url", params.URL).Str("strategy", string(strategy)).Msg("browser returned thin content")
		}

		if i < len(strategies)-1 {
			time.Sleep(time.Duration(2000+rand.Intn(2000)) * time.Millisecond)
		}
	}
	return nil
}

// manualSnapshot is the degraded last tier: an empty snapshot the caller can
// fill in with hand-entered details and a manually uploaded screenshot.
func (s *Service) manualSnapshot(params Params) *Snapshot {
	return &Snapshot{
		URL:       params.URL,
		Source:    SourceManual,
		Metadata:  map[string]string{"url": params.URL},
		FetchedAt: time.Now().UTC(),
	}
}

// Cache helpers

func (s *Service) getCached(ctx context.Context, params Params) *Snapshot {
	var snap Snapshot
	if err := s.redis.CacheGet(ctx, s.cacheKey(params), &snap); err != nil {
		return nil
	}
	return &snap
}

func (s *Service) cache(ctx context.Context, params Params, snap *Snapshot) {
	_ = s.redis.CacheSet(ctx, s.cacheKey(params), snap, cacheTTLSeconds)
}

func (s *Service) cacheKey(params Params) string {
	safeURL := strings.NewReplacer(":", "_", "/", "_", "?", "_", "&", "_").Replace(params.URL)
	includeHTML := "false"
	if boolVal(params.IncludeHTML) {
		includeHTML = "true"
	}
	return fmt.Sprintf("scrape:%s:%s", safeURL, includeHTML)
}

func boolVal(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
