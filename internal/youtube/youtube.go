// Package youtube fetches caption transcripts for YouTube videos via the
// public timedtext endpoint.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DefaultLanguages is the caption language preference order tried when the
// caller does not configure one.
var DefaultLanguages = []string{"en", "id", "en-US", "en-GB"}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`^([a-zA-Z0-9_-]{11})$`),
}

// ExtractVideoID pulls the 11-character video ID out of the usual YouTube
// URL shapes (watch, youtu.be, embed) or a bare ID. It returns an error for
// anything else.
func ExtractVideoID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("invalid YouTube URL: %q", rawURL)
}

// Client fetches transcripts over HTTP.
type Client struct {
	baseURL    string
	languages  []string
	httpClient *http.Client
}

func NewClient(languages []string) *Client {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	return &Client{
		baseURL:   "https://www.youtube.com",
		languages: languages,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// timedtext json3 payload. Events carry caption segments; segs hold the
// actual text runs.
type timedtextResponse struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// Transcript fetches the caption track for videoID, trying each configured
// language in order. The returned text is the caption segments joined with
// spaces.
func (c *Client) Transcript(ctx context.Context, videoID string) (string, error) {
	var lastErr error
	for _, lang := range c.languages {
		text, err := c.fetchTrack(ctx, videoID, lang)
		if err != nil {
			lastErr = err
			continue
		}
		if text != "" {
			return text, nil
		}
	}
	if lastErr != nil {
		return "", fmt.Errorf("fetch transcript for %s: %w", videoID, lastErr)
	}
	return "", fmt.Errorf("no transcript found for video %s; captions may be disabled", videoID)
}

// TranscriptFromURL extracts the video ID from rawURL and fetches its
// transcript.
func (c *Client) TranscriptFromURL(ctx context.Context, rawURL string) (string, error) {
	videoID, err := ExtractVideoID(rawURL)
	if err != nil {
		return "", err
	}
	return c.Transcript(ctx, videoID)
}

func (c *Client) fetchTrack(ctx context.Context, videoID, lang string) (string, error) {
	q := url.Values{}
	q.Set("v", videoID)
	q.Set("lang", lang)
	q.Set("fmt", "json3")
	endpoint := c.baseURL + "/api/timedtext?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("timedtext api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timedtext status %d", resp.StatusCode)
	}
	// YouTube answers an empty body when the requested track does not
	// exist.
	if len(body) == 0 {
		return "", nil
	}

	var tt timedtextResponse
	if err := json.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("decode timedtext: %w", err)
	}

	var segments []string
	for _, ev := range tt.Events {
		var buf strings.Builder
		for _, seg := range ev.Segs {
			buf.WriteString(seg.UTF8)
		}
		if s := strings.TrimSpace(buf.String()); s != "" {
			segments = append(segments, s)
		}
	}
	return strings.Join(segments, " "), nil
}
