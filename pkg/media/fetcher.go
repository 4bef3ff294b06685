package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrRetrieval indicates the remote video could not be downloaded.
var ErrRetrieval = errors.New("media retrieval failed")

// Fetcher downloads a remote video into a scoped temporary file. The
// returned cleanup must be called on every exit path; it removes the file.
type Fetcher interface {
	Fetch(ctx context.Context, videoURL string) (string, func(), error)
}

// HTTPFetcher implements Fetcher over plain HTTP GET.
type HTTPFetcher struct {
	client *http.Client
	logger zerolog.Logger
}

// NewHTTPFetcher builds a fetcher with the given request timeout.
func NewHTTPFetcher(timeout time.Duration, logger zerolog.Logger) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "media_fetcher").Logger(),
	}
}

// Fetch downloads videoURL into a temporary file and returns its path.
func (f *HTTPFetcher) Fetch(ctx context.Context, videoURL string) (string, func(), error) {
	noop := func() {}

	if strings.TrimSpace(videoURL) == "" {
		return "", noop, fmt.Errorf("%w: empty url", ErrRetrieval)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return "", noop, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", noop, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", noop, fmt.Errorf("%w: status %d from %s", ErrRetrieval, resp.StatusCode, videoURL)
	}

	tmp, err := os.CreateTemp("", "skillgate-video-*"+extensionFor(videoURL))
	if err != nil {
		return "", noop, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	cleanup := func() {
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			f.logger.Warn().Err(err).Str("path", tmp.Name()).Msg("failed to remove temp video")
		}
	}

	written, err := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err != nil {
		cleanup()
		return "", noop, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	if closeErr != nil {
		cleanup()
		return "", noop, fmt.Errorf("%w: %v", ErrRetrieval, closeErr)
	}

	f.logger.Debug().Str("url", videoURL).Int64("bytes", written).Msg("video downloaded")

	return tmp.Name(), cleanup, nil
}

func extensionFor(videoURL string) string {
	parsed, err := url.Parse(videoURL)
	if err != nil {
		return ".mp4"
	}

	ext := strings.ToLower(path.Ext(parsed.Path))
	switch ext {
	case ".mp4", ".webm", ".mov", ".mkv":
		return ext
	default:
		return ".mp4"
	}
}
