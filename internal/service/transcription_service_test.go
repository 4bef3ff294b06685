package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/skillgate/skillgate-api/internal/models"
)

type stubFetcher struct {
	err error
}

func (s stubFetcher) Fetch(ctx context.Context, videoURL string) (string, func(), error) {
	if s.err != nil {
		return "", func() {}, s.err
	}
	tmp, err := os.CreateTemp(os.TempDir(), "answer-*.mp4")
	if err != nil {
		return "", func() {}, err
	}
	tmp.Close()
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}

type stubExtractor struct {
	hasAudio   bool
	probeErr   error
	extractErr error
}

func (s stubExtractor) HasAudioTrack(ctx context.Context, videoPath string) (bool, error) {
	return s.hasAudio, s.probeErr
}

func (s stubExtractor) ExtractAudio(ctx context.Context, videoPath, dest string) error {
	return s.extractErr
}

type stubTranscriber struct {
	mu          sync.Mutex
	calls       int
	transcripts map[string]string
	text        string
	err         error
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if s.transcripts != nil {
		return s.transcripts[filepath.Base(audioPath)], nil
	}
	return s.text, nil
}

func TestTranscribeBatchPreservesLengthAndOrder(t *testing.T) {
	transcriber := &stubTranscriber{text: "hello world"}
	svc := NewTranscriptionService(stubFetcher{}, stubExtractor{hasAudio: true}, transcriber, 3, zerolog.Nop())

	answers := []models.VideoAnswer{
		{QuestionID: "Q1", VideoURL: "https://cdn.example.com/a.mp4"},
		{QuestionID: "Q2", VideoURL: "https://cdn.example.com/b.mp4"},
		{QuestionID: "Q3", VideoURL: "https://cdn.example.com/c.mp4"},
	}

	results := svc.TranscribeBatch(context.Background(), answers)

	require.Len(t, results, len(answers))
	for i, result := range results {
		require.Equal(t, answers[i].QuestionID, result.QuestionID)
		require.Equal(t, answers[i].VideoURL, result.VideoURL)
		require.Equal(t, "hello world", result.Transcript)
	}
	require.Equal(t, 3, transcriber.calls)
}

func TestTranscribeBatchSilentVideoGetsSentinel(t *testing.T) {
	transcriber := &stubTranscriber{}
	svc := NewTranscriptionService(stubFetcher{}, stubExtractor{hasAudio: false}, transcriber, 1, zerolog.Nop())

	results := svc.TranscribeBatch(context.Background(), []models.VideoAnswer{
		{QuestionID: "Q1", VideoURL: "https://cdn.example.com/silent.mp4"},
	})

	require.Len(t, results, 1)
	require.Equal(t, NoAudioTranscript, results[0].Transcript)
	require.Zero(t, transcriber.calls)
}

func TestTranscribeBatchFailureBecomesDiagnosticTranscript(t *testing.T) {
	cause := errors.New("connection reset")
	svc := NewTranscriptionService(stubFetcher{err: cause}, stubExtractor{}, &stubTranscriber{}, 1, zerolog.Nop())

	results := svc.TranscribeBatch(context.Background(), []models.VideoAnswer{
		{QuestionID: "Q1", VideoURL: "https://cdn.example.com/broken.mp4"},
	})

	require.Len(t, results, 1)
	require.Equal(t, fmt.Sprintf("Transcription failed: %v", cause), results[0].Transcript)
}

func TestTranscribeBatchEmptyInput(t *testing.T) {
	svc := NewTranscriptionService(stubFetcher{}, stubExtractor{}, &stubTranscriber{}, 2, zerolog.Nop())

	results := svc.TranscribeBatch(context.Background(), nil)
	require.Empty(t, results)
}
