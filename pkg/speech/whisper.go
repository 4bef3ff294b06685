package speech

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

var (
	transcriptionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skillgate",
		Subsystem: "speech",
		Name:      "transcription_duration_seconds",
		Help:      "Duration of speech-to-text requests",
	}, []string{"model"})

	transcriptionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skillgate",
		Subsystem: "speech",
		Name:      "transcription_failures_total",
		Help:      "Number of speech-to-text failures",
	}, []string{"model"})
)

// WhisperConfig defines configuration options for the Whisper transcriber.
type WhisperConfig struct {
	APIKey   string
	Model    string
	Language string
	Logger   zerolog.Logger
}

// WhisperTranscriber implements Transcriber against the OpenAI audio
// transcription API. The underlying model is loaded service-side, so a
// single client instance is safe to share across pipeline runs.
type WhisperTranscriber struct {
	client *openai.Client
	cfg    WhisperConfig
	logger zerolog.Logger
}

// NewWhisperTranscriber builds a transcriber using the provided configuration.
func NewWhisperTranscriber(cfg WhisperConfig) (*WhisperTranscriber, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("speech api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}

	return &WhisperTranscriber{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
		logger: cfg.Logger.With().Str("component", "whisper").Logger(),
	}, nil
}

// Transcribe converts the audio file at audioPath into text.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	start := time.Now()
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.cfg.Model,
		FilePath: audioPath,
		Language: t.cfg.Language,
	})
	transcriptionDuration.WithLabelValues(t.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		transcriptionFailures.WithLabelValues(t.cfg.Model).Inc()
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}
