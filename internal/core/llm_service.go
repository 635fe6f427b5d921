package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"layerlabs.io/support-chat/internal/metrics"
)

const (
	DefaultModelName = "gemini-1.5-flash-latest"

	// DefaultGenerationTimeout mirrors the catalog call budget.
	DefaultGenerationTimeout = 20 * time.Second
)

type LLMService struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewLLMService connects to Gemini. Extra opts are passed to the client after
// the API key, e.g. option.WithEndpoint for a local stand-in.
func NewLLMService(ctx context.Context, apiKey, modelName string, logger *zap.Logger, opts ...option.ClientOption) (*LLMService, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if modelName == "" {
		modelName = DefaultModelName
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &LLMService{
		client:    client,
		modelName: modelName,
		timeout:   DefaultGenerationTimeout,
		logger:    logger.Named("llm"),
	}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.logger.Warn("error closing GenAI client", zap.Error(err))
		} else {
			s.logger.Debug("GenAI client closed")
		}
	}
}

// Generate returns the model's free-form text for prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	model := s.client.GenerativeModel(s.modelName)
	return s.generate(ctx, "generate", model, prompt)
}

// GenerateJSON asks the model for an application/json response. The text is
// returned as-is; callers must validate it.
func (s *LLMService) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	model := s.client.GenerativeModel(s.modelName)
	temp := float32(0)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
	return s.generate(ctx, "generate_json", model, prompt)
}

func (s *LLMService) generate(ctx context.Context, op string, model *genai.GenerativeModel, prompt string) (text string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("gemini", op, start, err) }()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &GenerationError{Op: op, Err: err}
	}

	text, err = responseText(resp)
	if err != nil {
		return "", &GenerationError{Op: op, Err: err}
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("gemini response contained no text")
	}
	return b.String(), nil
}
