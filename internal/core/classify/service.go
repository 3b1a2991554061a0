package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gemini "github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/eino-contrib/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"restyler/internal/core/mapper"
	"restyler/internal/core/scrape"
	"restyler/internal/logger"
	"restyler/internal/platform/llm"
	"restyler/prompts"
)

const maxContentChars = 12000

type Service struct {
	log           *logger.Logger
	llm           *llm.Service
	mapper        *mapper.Service
	systemPrompts *prompts.SystemPrompts
}

func NewService(llmService *llm.Service, mapService *mapper.Service) *Service {
	return &Service{
		log:           logger.New("ClassifyService"),
		llm:           llmService,
		mapper:        mapService,
		systemPrompts: prompts.NewSystemPrompts(),
	}
}

// classificationSchema forces the LLM to return valid Classification JSON.
func classificationSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:     string(schema.Object),
		Required: []string{"category", "audience", "tone", "palette_mood"},
		Properties: orderedmap.New[string, *jsonschema.Schema](
			orderedmap.WithInitialData[string, *jsonschema.Schema](
				orderedmap.Pair[string, *jsonschema.Schema]{
					Key: "category",
					Value: &jsonschema.Schema{
						Type:        string(schema.String),
						Description: "The site's business type",
						Enum: []any{"ecommerce", "blog", "portfolio", "restaurant",
							"saas", "local_service", "corporate", "nonprofit", "other"},
					},
				},
				orderedmap.Pair[string, *jsonschema.Schema]{
					Key: "audience",
					Value: &jsonschema.Schema{
						Type:        string(schema.String),
						Description: "Who the site serves, one short phrase",
					},
				},
				orderedmap.Pair[string, *jsonschema.Schema]{
					Key: "tone",
					Value: &jsonschema.Schema{
						Type:        string(schema.String),
						Description: "The voice of the site's copy",
					},
				},
				orderedmap.Pair[string, *jsonschema.Schema]{
					Key: "palette_mood",
					Value: &jsonschema.Schema{
						Type:        string(schema.String),
						Description: "The feel of the current colors",
					},
				},
			),
		),
	}
}

// Classify combines the deterministic rule pass with an LLM pass. The rules
// win on category conflicts since they are grounded in page structure.
func (s *Service) Classify(ctx context.Context, snap *scrape.Snapshot) (*Classification, Signals, error) {
	links := s.discoverLinks(snap)
	signals := ExtractSignals(snap.HTML, links)
	if snap.HTML == "" {
		// snapshot stored without HTML (manual tier or include_html=false):
		// fall back to the section outline for structural hints
		signals = signalsFromSections(snap, links)
	}

	result, err := s.classifyLLM(ctx, snap, signals)
	if err != nil {
		s.log.LogWarnf("LLM classification failed for %s: %v", snap.URL, err)
		if signals.DetectedCategory == "" {
			return nil, signals, fmt.Errorf("classification failed: %w", err)
		}
		result = &Classification{Category: signals.DetectedCategory}
	}

	if signals.DetectedCategory != "" && result.Category != signals.DetectedCategory {
		s.log.LogInfof("overriding LLM category %q with detected %q for %s", result.Category, signals.DetectedCategory, snap.URL)
		result.Category = signals.DetectedCategory
	}
	return result, signals, nil
}

func (s *Service) classifyLLM(ctx context.Context, snap *scrape.Snapshot, signals Signals) (*Classification, error) {
	signalsJSON, _ := json.Marshal(signals)
	content := llm.TruncateUTF8(snap.Markdown, maxContentChars)

	messages, err := s.systemPrompts.Classify.Format(ctx, map[string]any{
		"url":     snap.URL,
		"title":   snap.Title,
		"signals": string(signalsJSON),
		"content": content,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format classify template: %w", err)
	}

	response, usage, err := s.llm.Generate(ctx, messages,
		model.WithTemperature(0.1),
		model.WithMaxTokens(300),
		gemini.WithResponseJSONSchema(classificationSchema()),
	)
	if err != nil {
		return nil, err
	}
	s.log.LogDebugf("classify tokens in=%d out=%d", usage.InputTokens, usage.OutputTokens)

	var result Classification
	if err := llm.DecodeJSON(response.Content, &result); err != nil {
		return nil, err
	}
	if result.Category == "" {
		return nil, fmt.Errorf("llm returned empty category")
	}
	return &result, nil
}

// discoverLinks runs a shallow same-domain map; nav links from the snapshot
// are folded in so a failed crawl still leaves something to vote with.
func (s *Service) discoverLinks(snap *scrape.Snapshot) []string {
	var links []string
	if res, err := s.mapper.MapURL(mapper.Request{URL: snap.URL, Depth: 1, LinkLimit: 50}); err == nil {
		links = res.Links
	} else {
		s.log.LogDebugf("link map failed for %s: %v", snap.URL, err)
	}
	for _, l := range snap.NavLinks {
		links = append(links, l.Href)
	}
	return links
}

func signalsFromSections(snap *scrape.Snapshot, links []string) Signals {
	var sig Signals
	for _, sec := range snap.Sections {
		for _, w := range sec.Widgets {
			switch w {
			case "form":
				sig.FormCount++
			case "gallery":
				sig.HasPortfolioGallery = true
			case "image":
				sig.ImageCount++
			}
		}
		heading := strings.ToLower(sec.Heading)
		if strings.Contains(heading, "menu") || strings.Contains(heading, "reservation") {
			sig.HasBookingForm = true
		}
	}
	sig.LinkKeywords = linkKeywords(links)
	sig.DetectedCategory = detectCategory(sig)
	return sig
}
