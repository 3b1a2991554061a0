package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	gemini "github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"
)

// Config selects and authenticates the chat model provider.
type Config struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
}

// Service wraps an Eino chat model plus the raw Gemini client for token APIs.
type Service struct {
	config       Config
	chatModel    model.BaseChatModel
	geminiClient *genai.Client
}

// TokenUsage reports token consumption for a single generation.
type TokenUsage struct {
	InputTokens  int32 `json:"input_tokens"`
	OutputTokens int32 `json:"output_tokens"`
	TotalTokens  int32 `json:"total_tokens"`
}

func NewService(config Config) (*Service, error) {
	s := &Service{config: config}
	switch strings.ToLower(config.Provider) {
	case "gemini":
		if err := s.initializeGeminiModel(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported provider: %s. Supported: gemini", config.Provider)
	}
	return s, nil
}

// NewServiceWithModel injects a pre-built chat model, used by tests.
func NewServiceWithModel(config Config, chatModel model.BaseChatModel) *Service {
	return &Service{config: config, chatModel: chatModel}
}

func (s *Service) initializeGeminiModel() error {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: s.config.APIKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	s.geminiClient = client

	geminiModel, err := gemini.NewChatModel(context.Background(), &gemini.Config{
		Client: client,
		Model:  s.config.Model,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini chat model: %w", err)
	}
	s.chatModel = geminiModel
	return nil
}

// Generate runs the chat model and returns the response with token usage.
// Usage falls back to character estimation when the provider reports nothing.
func (s *Service) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, *TokenUsage, error) {
	if s.chatModel == nil {
		return nil, nil, fmt.Errorf("chat model not initialized")
	}

	response, err := s.chatModel.Generate(ctx, messages, options...)
	if err != nil {
		return nil, nil, fmt.Errorf("llm generation failed: %w", err)
	}

	usage := &TokenUsage{}
	if response.ResponseMeta != nil && response.ResponseMeta.Usage != nil {
		usage.InputTokens = int32(response.ResponseMeta.Usage.PromptTokens)
		usage.OutputTokens = int32(response.ResponseMeta.Usage.CompletionTokens)
		usage.TotalTokens = int32(response.ResponseMeta.Usage.TotalTokens)
	}
	if usage.TotalTokens == 0 {
		usage.InputTokens = CountTokensInText(messagesToText(messages))
		usage.OutputTokens = CountTokensInText(response.Content)
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}

	return response, usage, nil
}

// CountPromptTokens counts input tokens using Gemini's CountTokens API.
func (s *Service) CountPromptTokens(ctx context.Context, messages []*schema.Message) (int32, error) {
	if s.geminiClient == nil {
		return 0, fmt.Errorf("gemini client not initialized")
	}

	var contents []*genai.Content
	for _, msg := range messages {
		contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
	}

	countResp, err := s.geminiClient.Models.CountTokens(ctx, s.config.Model, contents, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count tokens with Gemini API: %w", err)
	}
	return countResp.TotalTokens, nil
}

// CountTokensInText estimates tokens at the Gemini documented ~4 chars/token.
func CountTokensInText(text string) int32 {
	return int32(len(text) / 4)
}

func messagesToText(messages []*schema.Message) string {
	var text strings.Builder
	for _, msg := range messages {
		text.WriteString(msg.Content)
		text.WriteString("\n")
	}
	return text.String()
}
