package design

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gemini "github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/hibiken/asynq"

	"restyler/internal/core/classify"
	"restyler/internal/core/job"
	"restyler/internal/core/photos"
	"restyler/internal/core/scrape"
	"restyler/internal/logger"
	"restyler/internal/platform/llm"
	"restyler/internal/store/sqlite"
	"restyler/prompts"
)

const (
	// TaskTypeGenerate is the asynq task type for design generation.
	TaskTypeGenerate = "design:generate"

	variationCount  = 3
	maxContentChars = 10000
)

// GenerateTaskPayload is the asynq payload for a generation job.
type GenerateTaskPayload struct {
	JobID     string `json:"job_id"`
	ProjectID string `json:"project_id"`
}

// NewGenerateTask builds the asynq task for a generation job.
func NewGenerateTask(jobID, projectID string) (*asynq.Task, error) {
	b, err := json.Marshal(GenerateTaskPayload{JobID: jobID, ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeGenerate, b), nil
}

// LLM is the narrow model surface the service needs, satisfied by
// llm.Service and by test fakes.
type LLM interface {
	Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, *llm.TokenUsage, error)
}

type llmPair struct {
	primary  LLM
	fallback LLM
}

// Service asks the LLM for design variations and persists them.
type Service struct {
	log           *logger.Logger
	llm           *llmPair
	photos        *photos.Service
	projects      *sqlite.ProjectService
	designs       *sqlite.DesignService
	jobs          *job.JobService
	systemPrompts *prompts.SystemPrompts
}

func NewService(primary, fallback LLM, photosService *photos.Service,
	projects *sqlite.ProjectService, designs *sqlite.DesignService, jobs *job.JobService) *Service {
	return &Service{
		log:           logger.New("DesignService"),
		llm:           &llmPair{primary: primary, fallback: fallback},
		photos:        photosService,
		projects:      projects,
		designs:       designs,
		jobs:          jobs,
		systemPrompts: prompts.NewSystemPrompts(),
	}
}

// HandleGenerateTask is the asynq worker entry point.
func (s *Service) HandleGenerateTask(ctx context.Context, t *asynq.Task) error {
	var payload GenerateTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("bad generate payload: %w", err)
	}
	_ = s.jobs.SetProcessing(ctx, payload.JobID, job.TypeGenerate)

	result, err := s.Generate(ctx, payload.ProjectID)
	if err != nil {
		s.log.LogErrorf("generation failed for project %s: %v", payload.ProjectID, err)
		_ = s.jobs.Fail(ctx, payload.JobID, job.TypeGenerate, err)
		return err
	}

	_ = s.jobs.Complete(ctx, payload.JobID, job.TypeGenerate, result)
	s.log.LogSuccessf("generated %d designs for project %s", len(result.DesignIDs), payload.ProjectID)
	return nil
}

// Generate produces exactly three variations for a classified project and
// persists each as a design row.
func (s *Service) Generate(ctx context.Context, projectID string) (*job.GenerateResult, error) {
	project, err := s.projects.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(project.Snapshot) == 0 {
		return nil, fmt.Errorf("project %s has no snapshot", projectID)
	}

	var snap scrape.Snapshot
	if err := json.Unmarshal(project.Snapshot, &snap); err != nil {
		return nil, fmt.Errorf("stored snapshot is unreadable: %w", err)
	}
	var classification classify.Classification
	if len(project.Classification) > 0 {
		_ = json.Unmarshal(project.Classification, &classification)
	}

	variations, err := s.generateVariations(ctx, &snap, &classification)
	if err != nil {
		return nil, err
	}

	for i := range variations {
		s.resolvePhotos(ctx, &variations[i])
	}

	result := &job.GenerateResult{ProjectID: projectID}
	for _, v := range variations {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		d := &sqlite.Design{ProjectID: projectID, Name: v.Name, Variation: raw}
		if err := s.designs.CreateDesign(ctx, d); err != nil {
			return nil, fmt.Errorf("persist design: %w", err)
		}
		result.DesignIDs = append(result.DesignIDs, d.ID)
	}
	return result, nil
}

// generateVariations tries the primary model, then the fallback when the
// output cannot be repaired into three valid variations.
func (s *Service) generateVariations(ctx context.Context, snap *scrape.Snapshot, classification *classify.Classification) ([]Variation, error) {
	variations, primaryErr := s.callModel(ctx, s.llm.primary, snap, classification)
	if primaryErr == nil {
		return variations, nil
	}
	s.log.LogWarnf("primary model failed (%v), retrying with fallback", primaryErr)

	variations, fallbackErr := s.callModel(ctx, s.llm.fallback, snap, classification)
	if fallbackErr != nil {
		return nil, fmt.Errorf("design generation failed: %v (fallback: %w)", primaryErr, fallbackErr)
	}
	return variations, nil
}

func (s *Service) callModel(ctx context.Context, llmService LLM, snap *scrape.Snapshot, classification *classify.Classification) ([]Variation, error) {
	messages, err := s.systemPrompts.Design.Format(ctx, s.templateVars(snap, classification))
	if err != nil {
		return nil, fmt.Errorf("failed to format design template: %w", err)
	}

	response, usage, err := llmService.Generate(ctx, messages,
		model.WithTemperature(0.7),
		model.WithMaxTokens(8000),
		gemini.WithResponseJSONSchema(variationsSchema()),
	)
	if err != nil {
		return nil, err
	}
	s.log.LogDebugf("design tokens in=%d out=%d", usage.InputTokens, usage.OutputTokens)

	var payload struct {
		Variations []Variation `json:"variations"`
	}
	if err := llm.DecodeJSON(response.Content, &payload); err != nil {
		return nil, err
	}

	var valid []Variation
	for i := range payload.Variations {
		dropped, err := payload.Variations[i].Normalize()
		if len(dropped) > 0 {
			s.log.LogWarnf("variation %q: dropped unknown widgets %s", payload.Variations[i].Name, strings.Join(dropped, ", "))
		}
		if err != nil {
			s.log.LogWarnf("discarding variation: %v", err)
			continue
		}
		valid = append(valid, payload.Variations[i])
	}
	if len(valid) != variationCount {
		return nil, fmt.Errorf("expected %d valid variations, got %d", variationCount, len(valid))
	}
	return valid, nil
}

func (s *Service) templateVars(snap *scrape.Snapshot, classification *classify.Classification) map[string]any {
	classJSON, _ := json.Marshal(classification)
	navJSON, _ := json.Marshal(snap.NavLinks)
	sectionsJSON, _ := json.Marshal(snap.Sections)
	content := llm.TruncateUTF8(snap.Markdown, maxContentChars)
	return map[string]any{
		"url":             snap.URL,
		"classification":  string(classJSON),
		"palette":         strings.Join(snap.Palette, ", "),
		"fonts":           strings.Join(snap.Fonts, ", "),
		"nav_links":       string(navJSON),
		"sections":        string(sectionsJSON),
		"content":         content,
		"variation_count": variationCount,
	}
}

// resolvePhotos swaps stock-photo query placeholders for real Pexels URLs.
// Unresolved queries are left in place; the compiler renders a placeholder.
func (s *Service) resolvePhotos(ctx context.Context, v *Variation) {
	if s.photos == nil || !s.photos.Enabled() {
		return
	}
	for si := range v.Sections {
		for ci := range v.Sections[si].Columns {
			for wi := range v.Sections[si].Columns[ci].Widgets {
				w := &v.Sections[si].Columns[ci].Widgets[wi]
				switch w.Kind {
				case WidgetImage:
					if w.StringSetting("url") == "" {
						if q := w.StringSetting("query"); q != "" {
							if url := s.photos.ResolveQuery(ctx, q); url != "" {
								w.Settings["url"] = url
							}
						}
					}
				case WidgetHero:
					if w.StringSetting("image_url") == "" {
						if q := w.StringSetting("image_query"); q != "" {
							if url := s.photos.ResolveQuery(ctx, q); url != "" {
								w.Settings["image_url"] = url
							}
						}
					}
				case WidgetGallery:
					queries := w.StringListSetting("queries")
					if len(queries) == 0 {
						continue
					}
					var urls []any
					for _, q := range queries {
						if url := s.photos.ResolveQuery(ctx, q); url != "" {
							urls = append(urls, url)
						}
					}
					if len(urls) > 0 {
						w.Settings["urls"] = urls
					}
				}
			}
		}
	}
}
