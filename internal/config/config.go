package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	UploadMaxSizeMB        int
	AIProvider             string
	OpenAIAPIKey           string
	GeminiAPIKey           string
	AIModel                string
	WhisperModel           string
	WhisperLanguage        string
	FFmpegBinary           string
	FFprobeBinary          string
	TranscriptionWorkers   int
	PipelineRunTimeout     time.Duration
	PipelineLockTTL        time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// AIAPIKey returns the key for the configured generative provider.
func (c Config) AIAPIKey() string {
	if c.AIProvider == "gemini" {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SKILLGATE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SkillGate API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cloudinary.folder", "skillgate/answers")
	v.SetDefault("upload.max_size_mb", 100)
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("whisper.language", "en")
	v.SetDefault("ffmpeg.binary", "ffmpeg")
	v.SetDefault("ffprobe.binary", "ffprobe")
	v.SetDefault("transcription.workers", 2)
	v.SetDefault("pipeline.run_timeout", "10m")
	v.SetDefault("pipeline.lock_ttl", "15m")

	runTimeout, err := time.ParseDuration(v.GetString("pipeline.run_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid pipeline run timeout: %w", err)
	}

	lockTTL, err := time.ParseDuration(v.GetString("pipeline.lock_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid pipeline lock ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		UploadMaxSizeMB:        v.GetInt("upload.max_size_mb"),
		AIProvider:             strings.ToLower(v.GetString("ai.provider")),
		OpenAIAPIKey:           v.GetString("openai_api_key"),
		GeminiAPIKey:           v.GetString("gemini_api_key"),
		AIModel:                v.GetString("ai.model"),
		WhisperModel:           v.GetString("whisper.model"),
		WhisperLanguage:        v.GetString("whisper.language"),
		FFmpegBinary:           v.GetString("ffmpeg.binary"),
		FFprobeBinary:          v.GetString("ffprobe.binary"),
		TranscriptionWorkers:   v.GetInt("transcription.workers"),
		PipelineRunTimeout:     runTimeout,
		PipelineLockTTL:        lockTTL,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.TranscriptionWorkers <= 0 {
		cfg.TranscriptionWorkers = 2
	}

	return cfg, nil
}
