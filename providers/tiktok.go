package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"transcript-gateway/errors"
	"transcript-gateway/models"
)

const tiktokBaseURL = "https://www.tiktok.com"

var tiktokVideoPattern = regexp.MustCompile(`tiktok\.com/@[\w.-]+/video/(\d+)`)

const universalDataMarker = `id="__UNIVERSAL_DATA_FOR_REHYDRATION__" type="application/json">`

// TikTok reads captions from the subtitle list embedded in the video
// page's rehydration state. The same state carries the audio play URL,
// which backs the fallback transcription path.
type TikTok struct {
	client  *http.Client
	baseURL string
	logger  zerolog.Logger
}

func NewTikTok(logger zerolog.Logger) *TikTok {
	return &TikTok{
		client:  defaultHTTPClient(),
		baseURL: tiktokBaseURL,
		logger:  logger.With().Str("provider", "tiktok").Logger(),
	}
}

func (t *TikTok) Name() string { return "tiktok" }

func (t *TikTok) ExtractVideoID(url string) (string, error) {
	const op = "TikTok.ExtractVideoID"

	if m := tiktokVideoPattern.FindStringSubmatch(url); len(m) >= 2 {
		return m[1], nil
	}
	return "", errors.InvalidInput(op, nil, fmt.Sprintf("Invalid TikTok URL: %s", url))
}

// --- rehydration state types ---

type tiktokPageState struct {
	DefaultScope struct {
		VideoDetail struct {
			ItemInfo struct {
				ItemStruct struct {
					Video struct {
						PlayAddr      string           `json:"playAddr"`
						SubtitleInfos []tiktokSubtitle `json:"subtitleInfos"`
					} `json:"video"`
				} `json:"itemStruct"`
			} `json:"itemInfo"`
		} `json:"webapp.video-detail"`
	} `json:"__DEFAULT_SCOPE__"`
}

type tiktokSubtitle struct {
	URL              string `json:"Url"`
	LanguageCodeName string `json:"LanguageCodeName"`
	Format           string `json:"Format"`
}

func (t *TikTok) FetchCaptions(ctx context.Context, videoID string) (*models.Captions, error) {
	const op = "TikTok.FetchCaptions"

	state, err := t.fetchPageState(ctx, videoID)
	if err != nil {
		return nil, errors.Upstream(op, err)
	}

	subtitle, ok := pickSubtitle(state.DefaultScope.VideoDetail.ItemInfo.ItemStruct.Video.SubtitleInfos)
	if !ok {
		return nil, nil
	}

	body, err := fetchBody(ctx, t.client, subtitle.URL, maxCaptionBytes)
	if err != nil {
		return nil, errors.Upstream(op, fmt.Errorf("fetch subtitle: %w", err))
	}

	captions, err := parseWebVTT(string(body))
	if err != nil {
		// A subtitle entry pointing at an unparsable payload is a
		// known upstream condition, reported as absence.
		t.logger.Info().Err(err).Str("video_id", videoID).Msg("Malformed subtitle payload, treating captions as absent")
		return nil, nil
	}
	return captions, nil
}

// DownloadAudio fetches the raw media stream for fallback transcription.
func (t *TikTok) DownloadAudio(ctx context.Context, videoID string) ([]byte, error) {
	state, err := t.fetchPageState(ctx, videoID)
	if err != nil {
		return nil, err
	}

	playAddr := state.DefaultScope.VideoDetail.ItemInfo.ItemStruct.Video.PlayAddr
	if playAddr == "" {
		return nil, fmt.Errorf("no play address for video %s", videoID)
	}
	return fetchBody(ctx, t.client, playAddr, maxDownloadBytes)
}

func (t *TikTok) fetchPageState(ctx context.Context, videoID string) (*tiktokPageState, error) {
	body, err := fetchBody(ctx, t.client, t.baseURL+"/video/"+videoID, maxPageBytes)
	if err != nil {
		return nil, fmt.Errorf("video page: %w", err)
	}

	idx := strings.Index(string(body), universalDataMarker)
	if idx < 0 {
		return nil, fmt.Errorf("rehydration state not found in video page")
	}
	jsonData := extractJSON(body[idx+len(universalDataMarker):])
	if jsonData == nil {
		return nil, fmt.Errorf("malformed rehydration state JSON")
	}

	var state tiktokPageState
	if err := json.Unmarshal(jsonData, &state); err != nil {
		return nil, fmt.Errorf("decode rehydration state: %w", err)
	}
	return &state, nil
}

// pickSubtitle prefers an English WebVTT track, then any WebVTT track.
func pickSubtitle(infos []tiktokSubtitle) (tiktokSubtitle, bool) {
	for _, info := range infos {
		if info.Format == "webvtt" && strings.HasPrefix(info.LanguageCodeName, "eng") {
			return info, true
		}
	}
	for _, info := range infos {
		if info.Format == "webvtt" {
			return info, true
		}
	}
	return tiktokSubtitle{}, false
}
