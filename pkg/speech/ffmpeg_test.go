package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasAudioTrackParsesProbeOutput(t *testing.T) {
	extractor := NewFFmpegExtractor("", "").WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		require.Equal(t, "ffprobe", name)
		return []byte(`{"streams":[{"codec_type":"video"},{"codec_type":"audio"}]}`), nil
	})

	hasAudio, err := extractor.HasAudioTrack(context.Background(), "/tmp/in.mp4")
	require.NoError(t, err)
	require.True(t, hasAudio)
}

func TestHasAudioTrackNoAudioStream(t *testing.T) {
	extractor := NewFFmpegExtractor("", "").WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte(`{"streams":[{"codec_type":"video"}]}`), nil
	})

	hasAudio, err := extractor.HasAudioTrack(context.Background(), "/tmp/in.mp4")
	require.NoError(t, err)
	require.False(t, hasAudio)
}

func TestHasAudioTrackProbeFailure(t *testing.T) {
	extractor := NewFFmpegExtractor("", "").WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	})

	_, err := extractor.HasAudioTrack(context.Background(), "/tmp/in.mp4")
	require.Error(t, err)
}

func TestExtractAudioBuildsExpectedArgs(t *testing.T) {
	var captured []string
	extractor := NewFFmpegExtractor("ffmpeg", "ffprobe").WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		require.Equal(t, "ffmpeg", name)
		captured = args
		return nil, nil
	})

	require.NoError(t, extractor.ExtractAudio(context.Background(), "/tmp/in.mp4", "/tmp/out.wav"))
	require.Equal(t, []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", "/tmp/in.mp4",
		"-map", "0:a:0",
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		"/tmp/out.wav",
	}, captured)
}
