package transcript

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Segment is one timed caption line, chronological within a transcript.
type Segment struct {
	Text     string
	Start    time.Duration
	Duration time.Duration
}

const (
	defaultBaseURL = "https://www.youtube.com"

	// Innertube ANDROID client. The Android player endpoint hands out
	// caption tracks without the web client's consent/ciphering hoops.
	androidClientVersion = "19.09.37"
	androidSDKVersion    = 30
	androidUserAgent     = "com.google.android.youtube/19.09.37 (Linux; U; Android 11) gzip"
)

// Fetcher retrieves caption tracks through the Innertube player API and
// downloads the selected track as json3 timedtext.
type Fetcher struct {
	http *resty.Client
}

func NewFetcher() *Fetcher {
	return newFetcher(defaultBaseURL)
}

func newFetcher(baseURL string) *Fetcher {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("User-Agent", androidUserAgent)
	return &Fetcher{http: client}
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions struct {
		Renderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" marks auto-generated tracks
}

type timedTextEvent struct {
	StartMs    int64 `json:"tStartMs"`
	DurationMs int64 `json:"dDurationMs"`
	Segs       []struct {
		UTF8 string `json:"utf8"`
	} `json:"segs"`
}

type timedTextResponse struct {
	Events []timedTextEvent `json:"events"`
}

// Fetch returns the ordered caption segments for a video. Every failure is a
// *FetchError whose Kind distinguishes content-level outcomes (disabled,
// missing, unavailable) from transport trouble.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) ([]Segment, error) {
	if !videoIDPattern.MatchString(videoID) {
		return nil, &FetchError{Kind: KindInvalidLocator, VideoID: videoID, Reason: "malformed video id"}
	}

	var player playerResponse
	resp, err := f.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"context": map[string]any{
				"client": map[string]any{
					"clientName":        "ANDROID",
					"clientVersion":     androidClientVersion,
					"androidSdkVersion": androidSDKVersion,
					"hl":                "en",
				},
			},
			"videoId": videoID,
		}).
		SetResult(&player).
		Post("/youtubei/v1/player")
	if err != nil {
		return nil, &FetchError{Kind: KindUpstream, VideoID: videoID, cause: err}
	}
	if resp.IsError() {
		return nil, &FetchError{Kind: KindUpstream, VideoID: videoID, Reason: resp.Status()}
	}

	switch player.PlayabilityStatus.Status {
	case "", "OK":
		// playable
	default:
		// LOGIN_REQUIRED (private), ERROR (removed), UNPLAYABLE, AGE_CHECK...
		return nil, &FetchError{
			Kind:    KindSourceUnavailable,
			VideoID: videoID,
			Reason:  strings.TrimSpace(player.PlayabilityStatus.Status + " " + player.PlayabilityStatus.Reason),
		}
	}

	tracks := player.Captions.Renderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, &FetchError{Kind: KindTranscriptsDisabled, VideoID: videoID}
	}

	track := selectTrack(tracks)
	slog.DebugContext(ctx, "caption track selected", "video_id", videoID, "language", track.LanguageCode, "auto_generated", track.Kind == "asr")

	segments, err := f.fetchTimedText(ctx, videoID, track.BaseURL)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, &FetchError{Kind: KindNoTranscript, VideoID: videoID, Reason: "track " + track.LanguageCode + " is empty"}
	}
	return segments, nil
}

// selectTrack prefers an English track (manually created over auto-generated),
// then any manually created track, then whatever the provider listed first.
// Translation is never attempted.
func selectTrack(tracks []captionTrack) captionTrack {
	english := -1
	for i, t := range tracks {
		if t.LanguageCode == "en" || strings.HasPrefix(t.LanguageCode, "en-") {
			if t.Kind != "asr" {
				return t
			}
			if english < 0 {
				english = i
			}
		}
	}
	if english >= 0 {
		return tracks[english]
	}
	for _, t := range tracks {
		if t.Kind != "asr" {
			return t
		}
	}
	return tracks[0]
}

func (f *Fetcher) fetchTimedText(ctx context.Context, videoID, baseURL string) ([]Segment, error) {
	var tt timedTextResponse
	resp, err := f.http.R().
		SetContext(ctx).
		SetQueryParam("fmt", "json3").
		SetResult(&tt).
		Get(baseURL)
	if err != nil {
		return nil, &FetchError{Kind: KindUpstream, VideoID: videoID, cause: err}
	}
	if resp.IsError() {
		return nil, &FetchError{Kind: KindUpstream, VideoID: videoID, Reason: resp.Status()}
	}
	return segmentsFromEvents(tt.Events), nil
}

// segmentsFromEvents flattens json3 events into Segments, dropping window
// bookkeeping events that carry no text.
func segmentsFromEvents(events []timedTextEvent) []Segment {
	segments := make([]Segment, 0, len(events))
	for _, ev := range events {
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(strings.ReplaceAll(sb.String(), "\n", " "))
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:     text,
			Start:    time.Duration(ev.StartMs) * time.Millisecond,
			Duration: time.Duration(ev.DurationMs) * time.Millisecond,
		})
	}
	return segments
}
