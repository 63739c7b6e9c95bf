package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/gradaid/gradaid-api/internal/config"
	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	calls     int
	prompts   []string
	configs   []*genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(
	_ context.Context,
	_ string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	i := f.calls
	f.calls++
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompts = append(f.prompts, contents[0].Parts[0].Text)
	}
	f.configs = append(f.configs, cfg)

	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var resp *genai.GenerateContentResponse
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	return resp, err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content, FinishReason: genai.FinishReasonStop}},
	}
}

func newTestGenerator(models contentGenerator, maxRetries int) *GeminiGenerator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := newGenerator(models, config.LLMConfig{
		ModelName:         "gemini-test",
		MaxRetries:        maxRetries,
		RetryDelaySeconds: 1,
	}, logger)
	g.baseDelay = time.Millisecond
	g.rng = rand.New(rand.NewSource(1))
	return g
}

func sopRequest() generation.Request {
	return generation.Request{
		DocumentType: domain.DocumentTypeSOP,
		UniversityID: "stanford",
		ProgramID:    "cs-phd",
		Instructions: "Three years of NLP research.",
	}
}

func TestNewGeminiGenerator_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewGeminiGenerator(ctx, nil, config.LLMConfig{GeminiAPIKey: "k", ModelName: "m"})
	assert.EqualError(t, err, "logger cannot be nil")

	_, err = NewGeminiGenerator(ctx, slog.Default(), config.LLMConfig{ModelName: "m"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewGeminiGenerator(ctx, slog.Default(), config.LLMConfig{GeminiAPIKey: "k"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestGenerate_Success(t *testing.T) {
	models := &fakeModels{responses: []*genai.GenerateContentResponse{textResponse("Dear committee, ", "I am applying.")}}
	g := newTestGenerator(models, 2)

	text, err := g.Generate(context.Background(), sopRequest())
	require.NoError(t, err)
	assert.Equal(t, "Dear committee, I am applying.", text)
	assert.Equal(t, 1, models.calls)

	require.Len(t, models.prompts, 1)
	assert.Contains(t, models.prompts[0], "Statement of Purpose")
	assert.Contains(t, models.prompts[0], "cs-phd")
	assert.Contains(t, models.prompts[0], "Three years of NLP research.")

	require.NotNil(t, models.configs[0].Temperature)
	assert.Equal(t, temperature, *models.configs[0].Temperature)
	assert.Equal(t, systemInstruction, models.configs[0].SystemInstruction.Parts[0].Text)
}

func TestGenerate_LORPrompt(t *testing.T) {
	models := &fakeModels{responses: []*genai.GenerateContentResponse{textResponse("To whom it may concern")}}
	g := newTestGenerator(models, 0)

	_, err := g.Generate(context.Background(), generation.Request{
		DocumentType:   domain.DocumentTypeLOR,
		UniversityID:   "mit",
		ProgramID:      "eecs-ms",
		Recommender:    &domain.Recommender{Name: "Dr. Grace Hopper", Email: "grace@example.edu"},
		CurrentContent: "An earlier draft.",
	})
	require.NoError(t, err)
	assert.Contains(t, models.prompts[0], "Letter of Recommendation")
	assert.Contains(t, models.prompts[0], "Dr. Grace Hopper (grace@example.edu)")
	assert.Contains(t, models.prompts[0], "An earlier draft.")
}

func TestGenerate_InvalidRequest(t *testing.T) {
	models := &fakeModels{}
	g := newTestGenerator(models, 2)

	_, err := g.Generate(context.Background(), generation.Request{DocumentType: domain.DocumentTypeLOR, UniversityID: "a", ProgramID: "b"})
	assert.ErrorIs(t, err, generation.ErrInvalidRequest)
	assert.Zero(t, models.calls)
}

func TestGenerate_RetriesTransientErrors(t *testing.T) {
	models := &fakeModels{
		errs:      []error{errors.New("503 unavailable"), errors.New("503 unavailable")},
		responses: []*genai.GenerateContentResponse{nil, nil, textResponse("draft")},
	}
	g := newTestGenerator(models, 3)

	text, err := g.Generate(context.Background(), sopRequest())
	require.NoError(t, err)
	assert.Equal(t, "draft", text)
	assert.Equal(t, 3, models.calls)
}

func TestGenerate_GivesUpAfterMaxRetries(t *testing.T) {
	boom := errors.New("503 unavailable")
	models := &fakeModels{errs: []error{boom, boom, boom}}
	g := newTestGenerator(models, 2)

	_, err := g.Generate(context.Background(), sopRequest())
	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.Equal(t, 3, models.calls)
}

func TestGenerate_PermanentErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want error
	}{
		{"nil response", nil, generation.ErrInvalidResponse},
		{"no candidates", &genai.GenerateContentResponse{}, generation.ErrInvalidResponse},
		{"blank text", textResponse("   "), generation.ErrInvalidResponse},
		{
			"safety block",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}},
			generation.ErrContentBlocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			models := &fakeModels{responses: []*genai.GenerateContentResponse{tt.resp}}
			g := newTestGenerator(models, 3)

			_, err := g.Generate(context.Background(), sopRequest())
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 1, models.calls)
		})
	}
}

func TestGenerate_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	models := &fakeModels{errs: []error{context.Canceled}}
	g := newTestGenerator(models, 3)

	_, err := g.Generate(ctx, sopRequest())
	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.Equal(t, 1, models.calls)
}

func TestBackoff(t *testing.T) {
	g := newTestGenerator(&fakeModels{}, 3)
	g.baseDelay = time.Second

	for attempt := 0; attempt < 4; attempt++ {
		d := g.backoff(attempt)
		full := time.Second * time.Duration(1<<attempt)
		assert.GreaterOrEqual(t, d, full/2)
		assert.Less(t, d, full)
	}
}

func TestNewGenerator_Defaults(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := newGenerator(&fakeModels{}, config.LLMConfig{ModelName: "m", MaxRetries: -1}, logger)
	assert.Equal(t, 3, g.maxRetries)
	assert.Equal(t, 2*time.Second, g.baseDelay)
}
