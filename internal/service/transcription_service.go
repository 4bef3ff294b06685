package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/skillgate/skillgate-api/internal/models"
	"github.com/skillgate/skillgate-api/internal/observability"
	"github.com/skillgate/skillgate-api/pkg/media"
	"github.com/skillgate/skillgate-api/pkg/speech"
)

// NoAudioTranscript marks answers whose video carries no audio stream. It is
// stored in place of a transcript and judged like any other answer text.
const NoAudioTranscript = "[No audio detected in video]"

// TranscriptionService turns a submission's answer videos into transcripts.
type TranscriptionService interface {
	// TranscribeBatch fills in the Transcript field of every answer. The
	// returned slice always has the same length and order as the input;
	// failures become diagnostic transcripts, never missing entries.
	TranscribeBatch(ctx context.Context, answers []models.VideoAnswer) []models.VideoAnswer
}

type transcriptionService struct {
	fetcher     media.Fetcher
	extractor   speech.AudioExtractor
	transcriber speech.Transcriber
	workers     int
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewTranscriptionService constructs a transcription service running at most
// workers concurrent transcriptions.
func NewTranscriptionService(fetcher media.Fetcher, extractor speech.AudioExtractor, transcriber speech.Transcriber, workers int, logger zerolog.Logger) TranscriptionService {
	if workers <= 0 {
		workers = 2
	}

	return &transcriptionService{
		fetcher:     fetcher,
		extractor:   extractor,
		transcriber: transcriber,
		workers:     workers,
		logger:      logger.With().Str("component", "transcription_service").Logger(),
		tracer:      otel.Tracer("github.com/skillgate/skillgate-api/internal/service"),
	}
}

func (s *transcriptionService) TranscribeBatch(ctx context.Context, answers []models.VideoAnswer) []models.VideoAnswer {
	ctx, span := s.tracer.Start(ctx, "transcription.batch", trace.WithAttributes(
		attribute.Int("transcription.answers", len(answers)),
	))
	defer span.End()

	results := make([]models.VideoAnswer, len(answers))
	copy(results, answers)

	if len(answers) == 0 {
		return results
	}

	workers := s.workers
	if workers > len(answers) {
		workers = len(answers)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				results[idx].Transcript = s.transcribeOne(ctx, answers[idx])
			}
		}()
	}

	for idx := range answers {
		indexes <- idx
	}
	close(indexes)
	wg.Wait()

	return results
}

// transcribeOne is total: every failure collapses into a diagnostic
// transcript so one broken video cannot sink the whole submission.
func (s *transcriptionService) transcribeOne(ctx context.Context, answer models.VideoAnswer) string {
	start := time.Now()

	transcript, err := s.run(ctx, answer.VideoURL)
	observability.TranscriptionStageLatency().Observe(time.Since(start).Seconds())
	if err != nil {
		observability.TranscriptionFailures().Inc()
		s.logger.Warn().Err(err).
			Str("question_id", answer.QuestionID).
			Msg("transcription failed, storing diagnostic transcript")
		return fmt.Sprintf("Transcription failed: %v", err)
	}

	return transcript
}

func (s *transcriptionService) run(ctx context.Context, videoURL string) (string, error) {
	videoPath, cleanup, err := s.fetcher.Fetch(ctx, videoURL)
	if err != nil {
		return "", err
	}
	defer cleanup()

	hasAudio, err := s.extractor.HasAudioTrack(ctx, videoPath)
	if err != nil {
		return "", err
	}
	if !hasAudio {
		return NoAudioTranscript, nil
	}

	audioPath := audioDestination(videoPath)
	defer os.Remove(audioPath)

	if err := s.extractor.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		return "", err
	}

	transcript, err := s.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(transcript), nil
}

func audioDestination(videoPath string) string {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	return base + ".wav"
}
