package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/gradaid/gradaid-api/internal/config"
	"github.com/gradaid/gradaid-api/internal/generation"
	"google.golang.org/genai"
)

// temperature matches the sampling the drafts were tuned against.
const temperature float32 = 0.7

// contentGenerator is the subset of the genai Models service used here.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API to draft application documents.
type GeminiGenerator struct {
	logger     *slog.Logger
	models     contentGenerator
	model      string
	maxRetries int
	baseDelay  time.Duration
	rng        *rand.Rand
}

var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a GeminiGenerator backed by a genai client.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(client.Models, cfg, logger), nil
}

func newGenerator(models contentGenerator, cfg config.LLMConfig, logger *slog.Logger) *GeminiGenerator {
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		logger.Warn("invalid max retries value, using default", slog.Int("max_retries", 3))
		maxRetries = 3
	}
	delaySeconds := cfg.RetryDelaySeconds
	if delaySeconds < 1 {
		logger.Warn("invalid retry delay value, using default", slog.Int("base_delay_seconds", 2))
		delaySeconds = 2
	}

	return &GeminiGenerator{
		logger:     logger.With(slog.String("component", "gemini_generator")),
		models:     models,
		model:      cfg.ModelName,
		maxRetries: maxRetries,
		baseDelay:  time.Duration(delaySeconds) * time.Second,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate drafts the document described by req.
func (g *GeminiGenerator) Generate(ctx context.Context, req generation.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	prompt, err := renderPrompt(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	g.logger.DebugContext(ctx, "generating document",
		slog.String("document_type", string(req.DocumentType)),
		slog.Int("prompt_length", len(prompt)))

	return g.callWithRetry(ctx, prompt)
}

// callWithRetry calls the model, retrying transient failures with exponential
// backoff and jitter. Blocked content and malformed responses are not retried.
func (g *GeminiGenerator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		Temperature:       genai.Ptr(temperature),
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.InfoContext(ctx, "making Gemini API call",
			slog.Int("attempt", attemptNum),
			slog.Int("max_attempts", g.maxRetries+1))

		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), genConfig)
		if err == nil {
			text, parseErr := extractText(resp)
			if parseErr != nil {
				g.logger.WarnContext(ctx, "permanent error occurred, not retrying",
					slog.String("error", parseErr.Error()))
				return "", parseErr
			}
			g.logger.InfoContext(ctx, "Gemini API call successful",
				slog.Int("attempt", attemptNum),
				slog.Int("content_length", len(text)))
			return text, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctxErr)
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attemptNum),
			slog.String("error", err.Error()))

		if attempt >= g.maxRetries {
			g.logger.WarnContext(ctx, "maximum retry attempts reached", slog.Int("max_retries", g.maxRetries))
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, g.maxRetries, err)
		}

		delay := g.backoff(attempt)
		g.logger.InfoContext(ctx, "retrying after delay",
			slog.Int("attempt", attemptNum),
			slog.Duration("delay", delay))

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			g.logger.WarnContext(ctx, "API call cancelled during retry delay",
				slog.Int("attempt", attemptNum),
				slog.String("ctx_err", ctx.Err().Error()))
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// backoff returns baseDelay * 2^attempt scaled by a jitter factor in [0.5, 1.0).
func (g *GeminiGenerator) backoff(attempt int) time.Duration {
	jitter := 0.5 + g.rng.Float64()*0.5
	return time.Duration(float64(g.baseDelay) * math.Pow(2, float64(attempt)) * jitter)
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	switch {
	case resp == nil:
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	case len(resp.Candidates) == 0:
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	case resp.Candidates[0].Content == nil:
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%w: response contained no text", generation.ErrInvalidResponse)
	}
	return text, nil
}
