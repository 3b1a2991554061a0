package photos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"restyler/internal/logger"
	rds "restyler/internal/platform/redis"
)

const (
	pexelsSearchURL = "https://api.pexels.com/v1/search"
	cacheTTLSeconds = 3600
)

// Photo is one stock photo result.
type Photo struct {
	ID           int64  `json:"id"`
	URL          string `json:"url"`
	Photographer string `json:"photographer"`
	Alt          string `json:"alt"`
	Src          Src    `json:"src"`
}

// Src holds the size variants Pexels serves.
type Src struct {
	Original  string `json:"original"`
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Landscape string `json:"landscape"`
}

// SearchResult is a page of photo results.
type SearchResult struct {
	Query  string  `json:"query"`
	Total  int     `json:"total"`
	Photos []Photo `json:"photos"`
}

type pexelsResponse struct {
	TotalResults int     `json:"total_results"`
	Photos       []Photo `json:"photos"`
}

// Service is a thin Pexels REST client with Redis-cached searches. Image
// widgets carrying a "query" placeholder are resolved through it.
type Service struct {
	log    *logger.Logger
	redis  *rds.Service
	apiKey string
	client *http.Client
}

func NewService(redis *rds.Service, apiKey string) *Service {
	return &Service{
		log:    logger.New("PhotosService"),
		redis:  redis,
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether an API key is configured.
func (s *Service) Enabled() bool { return s.apiKey != "" }

// Search queries Pexels, serving repeat queries from cache for an hour.
func (s *Service) Search(ctx context.Context, query string, perPage int) (*SearchResult, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("photo search is not configured")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if perPage <= 0 || perPage > 30 {
		perPage = 10
	}

	cacheKey := fmt.Sprintf("photos:%s:%d", strings.ToLower(query), perPage)
	var cached SearchResult
	if err := s.redis.CacheGet(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	endpoint := fmt.Sprintf("%s?query=%s&per_page=%d", pexelsSearchURL, url.QueryEscape(query), perPage)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("pexels returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed pexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("pexels response decode failed: %w", err)
	}

	result := &SearchResult{Query: query, Total: parsed.TotalResults, Photos: parsed.Photos}
	_ = s.redis.CacheSet(ctx, cacheKey, result, cacheTTLSeconds)
	s.log.LogDebugf("pexels search %q returned %d photos", query, len(result.Photos))
	return result, nil
}

// ResolveQuery returns a usable image URL for a stock-photo phrase, or ""
// when nothing matches.
func (s *Service) ResolveQuery(ctx context.Context, query string) string {
	if !s.Enabled() {
		return ""
	}
	res, err := s.Search(ctx, query, 3)
	if err != nil || len(res.Photos) == 0 {
		return ""
	}
	if res.Photos[0].Src.Large != "" {
		return res.Photos[0].Src.Large
	}
	return res.Photos[0].Src.Original
}
