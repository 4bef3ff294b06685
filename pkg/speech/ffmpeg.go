package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes an external binary. It exists so tests can observe
// the constructed arguments without spawning processes.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return output, nil
}

// FFmpegExtractor implements AudioExtractor by shelling out to ffmpeg and
// ffprobe.
type FFmpegExtractor struct {
	ffmpegBinary  string
	ffprobeBinary string
	runner        CommandRunner
}

// NewFFmpegExtractor builds an extractor; empty binary names fall back to
// the commands on PATH.
func NewFFmpegExtractor(ffmpegBinary, ffprobeBinary string) *FFmpegExtractor {
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	if ffprobeBinary == "" {
		ffprobeBinary = "ffprobe"
	}

	return &FFmpegExtractor{
		ffmpegBinary:  ffmpegBinary,
		ffprobeBinary: ffprobeBinary,
		runner:        defaultRunner,
	}
}

// WithRunner sets a custom command runner (for testing).
func (e *FFmpegExtractor) WithRunner(runner CommandRunner) *FFmpegExtractor {
	e.runner = runner
	return e
}

type probeStream struct {
	CodecType string `json:"codec_type"`
}

type probePayload struct {
	Streams []probeStream `json:"streams"`
}

// HasAudioTrack inspects the container with ffprobe and reports whether any
// audio stream exists.
func (e *FFmpegExtractor) HasAudioTrack(ctx context.Context, videoPath string) (bool, error) {
	output, err := e.runner(ctx, e.ffprobeBinary,
		"-v", "error",
		"-hide_banner",
		"-show_streams",
		"-of", "json",
		"--", videoPath,
	)
	if err != nil {
		return false, fmt.Errorf("ffprobe inspect: %w", err)
	}

	var payload probePayload
	if err := json.Unmarshal(output, &payload); err != nil {
		return false, fmt.Errorf("ffprobe parse: %w", err)
	}

	for _, stream := range payload.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			return true, nil
		}
	}

	return false, nil
}

// ExtractAudio writes the first audio stream of videoPath to dest as a mono
// 16kHz PCM WAV, the format the speech-to-text service expects.
func (e *FFmpegExtractor) ExtractAudio(ctx context.Context, videoPath, dest string) error {
	args := buildExtractArgs(videoPath, dest)
	if _, err := e.runner(ctx, e.ffmpegBinary, args...); err != nil {
		return fmt.Errorf("ffmpeg extract: %w", err)
	}
	return nil
}

func buildExtractArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", "0:a:0",
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}
