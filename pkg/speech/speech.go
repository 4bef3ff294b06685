package speech

import "context"

// AudioExtractor pulls the audio track out of a downloaded video file.
type AudioExtractor interface {
	// HasAudioTrack reports whether the container holds at least one audio
	// stream.
	HasAudioTrack(ctx context.Context, videoPath string) (bool, error)
	// ExtractAudio writes the first audio stream to dest as mono 16kHz WAV.
	ExtractAudio(ctx context.Context, videoPath, dest string) error
}

// Transcriber converts an extracted audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
