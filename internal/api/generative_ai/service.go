package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/yuqiannemo/WanderMind/config"
)

// ErrNotConfigured is returned by Disabled for every call.
var ErrNotConfigured = errors.New("generative model API key is not configured")

// AIClient wraps the Gemini models API.
type AIClient struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      *slog.Logger
}

func NewAIClient(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*AIClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &AIClient{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      logger,
	}, nil
}

// GenerateContent sends one prompt and returns the model's text. A nil config
// gets the configured temperature. The call is bounded by the configured
// timeout on top of ctx.
func (ai *AIClient) GenerateContent(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	ctx, span := otel.Tracer("AIClient").Start(ctx, "GenerateContent", trace.WithAttributes(
		attribute.String("model", ai.model),
		attribute.Int("prompt.length", len(prompt)),
	))
	defer span.End()

	if cfg == nil {
		cfg = &genai.GenerateContentConfig{}
	}
	if cfg.Temperature == nil {
		cfg.Temperature = genai.Ptr(ai.temperature)
	}
	if ai.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ai.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), cfg)
	if err != nil {
		ai.logger.ErrorContext(ctx, "Model call failed", slog.String("model", ai.model), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Model call failed")
		return "", fmt.Errorf("generating content: %w", err)
	}

	text := result.Text()
	ai.logger.DebugContext(ctx, "Model call completed",
		slog.String("model", ai.model),
		slog.Duration("latency", time.Since(start)),
		slog.Int("response.length", len(text)))
	span.SetStatus(codes.Ok, "Model call completed")
	return text, nil
}

// Disabled stands in for AIClient when no API key is configured so the rest
// of the API keeps working.
type Disabled struct{}

func (Disabled) GenerateContent(context.Context, string, *genai.GenerateContentConfig) (string, error) {
	return "", ErrNotConfigured
}
