package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skillgate",
		Subsystem: "ai",
		Name:      "request_duration_seconds",
		Help:      "Duration of generative evaluation requests",
	}, []string{"provider", "call"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skillgate",
		Subsystem: "ai",
		Name:      "request_failures_total",
		Help:      "Number of generative evaluation failures",
	}, []string{"provider", "call"})
)

// Supported generative providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config defines configuration options for the generative client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// completionBackend is the narrow contract a provider has to satisfy: one
// prompt in, one JSON document out.
type completionBackend interface {
	name() string
	complete(ctx context.Context, prompt string) (string, error)
}

// Client is the generative evaluation service used for per-answer judging,
// overall aggregation and question generation. It is safe for concurrent
// use and should be constructed once per process.
type Client struct {
	backend completionBackend
	tracer  trace.Tracer
	logger  zerolog.Logger
}

// NewClient builds a client for the configured provider.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ai api key is required")
	}

	var (
		backend completionBackend
		err     error
	)

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderGemini:
		backend, err = newGeminiBackend(cfg)
	case ProviderOpenAI, "":
		backend, err = newOpenAIBackend(cfg)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return &Client{
		backend: backend,
		tracer:  otel.Tracer("github.com/skillgate/skillgate-api/pkg/ai"),
		logger:  cfg.Logger.With().Str("component", "ai_client").Logger(),
	}, nil
}

// Provider returns the active backend name.
func (c *Client) Provider() string {
	return c.backend.name()
}

// EvaluateAnswer judges a single transcript against its question and course
// context.
func (c *Client) EvaluateAnswer(ctx context.Context, input AnswerInput) (AnswerEvaluation, error) {
	var result AnswerEvaluation
	if err := c.generate(ctx, "evaluate_answer", answerPrompt(input), answerSchema, &result); err != nil {
		return AnswerEvaluation{}, err
	}

	result.TechnicalScore = clampScore(result.TechnicalScore)
	result.ConceptCoverageScore = clampScore(result.ConceptCoverageScore)
	result.ClarityScore = clampScore(result.ClarityScore)
	result.OverallScore = clampScore(result.OverallScore)

	return result, nil
}

// EvaluateOverall aggregates judged answers into an eligibility verdict.
func (c *Client) EvaluateOverall(ctx context.Context, input OverallInput) (OverallEvaluation, error) {
	var result OverallEvaluation
	if err := c.generate(ctx, "evaluate_overall", overallPrompt(input), overallSchema, &result); err != nil {
		return OverallEvaluation{}, err
	}

	return result, nil
}

// GenerateVideoQuestions produces spoken-answer eligibility questions for a
// course.
func (c *Client) GenerateVideoQuestions(ctx context.Context, course CourseContext) ([]GeneratedQuestion, error) {
	var result []GeneratedQuestion
	if err := c.generate(ctx, "generate_video_questions", videoQuestionsPrompt(course), questionListSchema, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// GenerateMCQs produces multiple-choice screening questions for a course.
func (c *Client) GenerateMCQs(ctx context.Context, course CourseContext) ([]GeneratedMCQ, error) {
	var result []GeneratedMCQ
	if err := c.generate(ctx, "generate_mcqs", mcqListPrompt(course), mcqListSchema, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Client) generate(ctx context.Context, call, prompt string, schema schemaValidator, out interface{}) error {
	provider := c.backend.name()
	ctx, span := c.tracer.Start(ctx, "ai."+call, trace.WithAttributes(
		attribute.String("ai.provider", provider),
	))
	defer span.End()

	start := time.Now()
	content, err := c.backend.complete(ctx, prompt)
	aiDuration.WithLabelValues(provider, call).Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues(provider, call).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := decodePayload(content, schema, out); err != nil {
		aiFailures.WithLabelValues(provider, call).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
