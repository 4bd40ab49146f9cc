package providers

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"transcript-gateway/errors"
	"transcript-gateway/models"
)

const youtubeBaseURL = "https://www.youtube.com"

// Ordered most-specific-first: a watch URL must not fall through to the
// generic short-URL pattern and capture a substring of another parameter.
var youtubeVideoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?(?:.*&)?v=([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`),
}

const playerResponseMarker = "ytInitialPlayerResponse = "

// YouTube fetches captions by scraping the watch page's embedded player
// response and downloading the selected caption track's timedtext XML.
type YouTube struct {
	client  *http.Client
	baseURL string
	lang    string
	logger  zerolog.Logger
}

func NewYouTube(logger zerolog.Logger) *YouTube {
	return &YouTube{
		client:  defaultHTTPClient(),
		baseURL: youtubeBaseURL,
		lang:    "en",
		logger:  logger.With().Str("provider", "youtube").Logger(),
	}
}

func (y *YouTube) Name() string { return "youtube" }

func (y *YouTube) ExtractVideoID(url string) (string, error) {
	const op = "YouTube.ExtractVideoID"

	for _, pattern := range youtubeVideoPatterns {
		if m := pattern.FindStringSubmatch(url); len(m) >= 2 {
			return m[1], nil
		}
	}
	return "", errors.InvalidInput(op, nil, fmt.Sprintf("Invalid YouTube URL: %s", url))
}

// --- player response types ---

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL        string `json:"baseUrl"`
	LanguageCode   string `json:"languageCode"`
	Kind           string `json:"kind"` // "asr" = auto-generated
	IsTranslatable bool   `json:"isTranslatable"`
}

func (t captionTrack) isManual() bool { return t.Kind != "asr" }

// --- timedtext XML types ---

type timedText struct {
	Lines []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Text  string  `xml:",chardata"`
}

// captionTier is one step of the language fallback policy. Tiers are
// evaluated in order; the first one that yields a track wins. Translated
// tiers request the preferred language from the timedtext endpoint.
type captionTier struct {
	name      string
	translate bool
	pick      func(tracks []captionTrack, lang string) (captionTrack, bool)
}

var captionTiers = []captionTier{
	{
		name: "native-preferred",
		pick: func(tracks []captionTrack, lang string) (captionTrack, bool) {
			// Manual track in the preferred language beats any
			// auto-generated one.
			for _, t := range tracks {
				if t.LanguageCode == lang && t.isManual() {
					return t, true
				}
			}
			for _, t := range tracks {
				if t.LanguageCode == lang {
					return t, true
				}
			}
			return captionTrack{}, false
		},
	},
	{
		name:      "manual-translated",
		translate: true,
		pick: func(tracks []captionTrack, _ string) (captionTrack, bool) {
			for _, t := range tracks {
				if t.isManual() && t.IsTranslatable {
					return t, true
				}
			}
			return captionTrack{}, false
		},
	},
	{
		name:      "generated-translated",
		translate: true,
		pick: func(tracks []captionTrack, _ string) (captionTrack, bool) {
			for _, t := range tracks {
				if t.IsTranslatable {
					return t, true
				}
			}
			return captionTrack{}, false
		},
	},
	{
		name: "any-available",
		pick: func(tracks []captionTrack, _ string) (captionTrack, bool) {
			if len(tracks) == 0 {
				return captionTrack{}, false
			}
			return tracks[0], true
		},
	},
}

// selectCaptionTrack runs the fallback tiers against the track list and
// returns the chosen track plus whether it must be translated.
func selectCaptionTrack(tracks []captionTrack, lang string) (captionTrack, bool, bool) {
	for _, tier := range captionTiers {
		if track, ok := tier.pick(tracks, lang); ok {
			return track, tier.translate, true
		}
	}
	return captionTrack{}, false, false
}

func (y *YouTube) FetchCaptions(ctx context.Context, videoID string) (*models.Captions, error) {
	const op = "YouTube.FetchCaptions"

	tracks, err := y.listCaptionTracks(ctx, videoID)
	if err != nil {
		return nil, errors.Upstream(op, err)
	}
	if len(tracks) == 0 {
		// No caption track at all, or captions disabled for the video.
		return nil, nil
	}

	track, translate, ok := selectCaptionTrack(tracks, y.lang)
	if !ok {
		return nil, nil
	}

	trackURL := track.BaseURL
	if translate {
		trackURL += "&tlang=" + y.lang
	}

	captions, err := y.fetchTimedText(ctx, trackURL)
	if err != nil {
		return nil, errors.Upstream(op, err)
	}
	return captions, nil
}

// listCaptionTracks scrapes the watch page and pulls the caption track
// list out of ytInitialPlayerResponse. An unplayable video or a player
// response without captions yields an empty list, not an error.
func (y *YouTube) listCaptionTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	body, err := fetchBody(ctx, y.client, y.baseURL+"/watch?v="+videoID, maxPageBytes)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}

	idx := strings.Index(string(body), playerResponseMarker)
	if idx < 0 {
		return nil, fmt.Errorf("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(playerResponseMarker):])
	if jsonData == nil {
		return nil, fmt.Errorf("malformed ytInitialPlayerResponse JSON")
	}

	var resp playerResponse
	if err := json.Unmarshal(jsonData, &resp); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}

	if resp.Captions == nil {
		if resp.PlayabilityStatus != nil && resp.PlayabilityStatus.Status != "OK" {
			y.logger.Info().
				Str("video_id", videoID).
				Str("status", resp.PlayabilityStatus.Status).
				Str("reason", resp.PlayabilityStatus.Reason).
				Msg("Video not playable, treating captions as absent")
		}
		return nil, nil
	}
	return resp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, nil
}

// fetchTimedText downloads a caption track and converts it into timed
// segments. A payload that parses but yields no usable lines counts as
// absent captions rather than a failure.
func (y *YouTube) fetchTimedText(ctx context.Context, trackURL string) (*models.Captions, error) {
	body, err := fetchBody(ctx, y.client, trackURL, maxCaptionBytes)
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	segments := make([]models.Segment, 0, len(tt.Lines))
	parts := make([]string, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := cleanCaptionText(line.Text)
		if text == "" {
			continue
		}
		segments = append(segments, models.Segment{
			Start: line.Start,
			End:   line.Start + line.Dur,
			Text:  text,
		})
		parts = append(parts, text)
	}
	if len(segments) == 0 {
		return nil, nil
	}

	return &models.Captions{
		FullText: strings.Join(parts, " "),
		Segments: segments,
	}, nil
}

var captionTagRE = regexp.MustCompile(`<[^>]+>`)

// cleanCaptionText strips markup and entities left in timedtext lines.
func cleanCaptionText(s string) string {
	s = captionTagRE.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
