package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"transcript-gateway/errors"
	"transcript-gateway/models"
)

// Channel URL shapes, most specific first. The captured group is the
// channel identifier used for cache keys; handles keep their @ prefix.
var youtubeChannelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/channel/(UC[0-9A-Za-z_-]+)`),
	regexp.MustCompile(`youtube\.com/(@[\w.-]+)`),
	regexp.MustCompile(`youtube\.com/c/([\w.-]+)`),
	regexp.MustCompile(`youtube\.com/user/([\w.-]+)`),
}

const initialDataMarker = "var ytInitialData = "

func (y *YouTube) ExtractChannelID(url string) (string, error) {
	const op = "YouTube.ExtractChannelID"

	for _, pattern := range youtubeChannelPatterns {
		if m := pattern.FindStringSubmatch(url); len(m) >= 2 {
			return m[1], nil
		}
	}
	return "", errors.InvalidInput(op, nil, fmt.Sprintf("Invalid YouTube channel URL: %s", url))
}

// --- ytInitialData types (channel /videos tab) ---

type channelInitialData struct {
	Contents struct {
		TwoColumnBrowseResultsRenderer struct {
			Tabs []struct {
				TabRenderer *struct {
					Content struct {
						RichGridRenderer *struct {
							Contents []richGridItem `json:"contents"`
						} `json:"richGridRenderer"`
					} `json:"content"`
				} `json:"tabRenderer"`
			} `json:"tabs"`
		} `json:"twoColumnBrowseResultsRenderer"`
	} `json:"contents"`
}

type richGridItem struct {
	RichItemRenderer *struct {
		Content struct {
			VideoRenderer *videoRenderer `json:"videoRenderer"`
		} `json:"content"`
	} `json:"richItemRenderer"`
}

type videoRenderer struct {
	VideoID string `json:"videoId"`
	Title   struct {
		Runs []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"title"`
	DescriptionSnippet *struct {
		Runs []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"descriptionSnippet"`
	PublishedTimeText *struct {
		SimpleText string `json:"simpleText"`
	} `json:"publishedTimeText"`
	LengthText *struct {
		SimpleText string `json:"simpleText"`
	} `json:"lengthText"`
	ViewCountText *struct {
		SimpleText string `json:"simpleText"`
	} `json:"viewCountText"`
}

// ListChannelVideos scrapes the channel's videos tab, which lists
// uploads newest first, and maps up to limit entries. Fields missing
// from a renderer stay nil in the resulting ContentItem.
func (y *YouTube) ListChannelVideos(ctx context.Context, channelURL string, limit int) ([]models.ContentItem, error) {
	const op = "YouTube.ListChannelVideos"

	videosURL, err := y.channelVideosURL(channelURL)
	if err != nil {
		return nil, err
	}

	body, err := fetchBody(ctx, y.client, videosURL, maxPageBytes)
	if err != nil {
		return nil, errors.Upstream(op, fmt.Errorf("channel page: %w", err))
	}

	idx := strings.Index(string(body), initialDataMarker)
	if idx < 0 {
		return nil, errors.Upstream(op, fmt.Errorf("ytInitialData not found in channel page"))
	}
	jsonData := extractJSON(body[idx+len(initialDataMarker):])
	if jsonData == nil {
		return nil, errors.Upstream(op, fmt.Errorf("malformed ytInitialData JSON"))
	}

	var data channelInitialData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, errors.Upstream(op, fmt.Errorf("decode ytInitialData: %w", err))
	}

	items := make([]models.ContentItem, 0, limit)
	for _, tab := range data.Contents.TwoColumnBrowseResultsRenderer.Tabs {
		if tab.TabRenderer == nil || tab.TabRenderer.Content.RichGridRenderer == nil {
			continue
		}
		for _, entry := range tab.TabRenderer.Content.RichGridRenderer.Contents {
			if entry.RichItemRenderer == nil || entry.RichItemRenderer.Content.VideoRenderer == nil {
				continue
			}
			items = append(items, mapVideoRenderer(entry.RichItemRenderer.Content.VideoRenderer, y.baseURL))
			if len(items) >= limit {
				return items, nil
			}
		}
	}
	return items, nil
}

// channelVideosURL rebuilds the canonical /videos listing URL from any
// supported channel URL shape.
func (y *YouTube) channelVideosURL(channelURL string) (string, error) {
	const op = "YouTube.channelVideosURL"

	prefixes := []struct {
		pattern *regexp.Regexp
		path    string
	}{
		{youtubeChannelPatterns[0], "/channel/"},
		{youtubeChannelPatterns[1], "/"},
		{youtubeChannelPatterns[2], "/c/"},
		{youtubeChannelPatterns[3], "/user/"},
	}
	for _, p := range prefixes {
		if m := p.pattern.FindStringSubmatch(channelURL); len(m) >= 2 {
			return y.baseURL + p.path + m[1] + "/videos", nil
		}
	}
	return "", errors.InvalidInput(op, nil, fmt.Sprintf("Invalid YouTube channel URL: %s", channelURL))
}

func mapVideoRenderer(r *videoRenderer, baseURL string) models.ContentItem {
	item := models.ContentItem{
		ID:    r.VideoID,
		Title: joinRuns(r.Title.Runs),
		URL:   baseURL + "/watch?v=" + r.VideoID,
	}
	if r.DescriptionSnippet != nil {
		if desc := joinRuns(r.DescriptionSnippet.Runs); desc != "" {
			item.Description = &desc
		}
	}
	if r.PublishedTimeText != nil && r.PublishedTimeText.SimpleText != "" {
		published := r.PublishedTimeText.SimpleText
		item.UploadDate = &published
	}
	if r.LengthText != nil {
		if secs, ok := parseDurationText(r.LengthText.SimpleText); ok {
			item.Duration = &secs
		}
	}
	if r.ViewCountText != nil {
		if views, ok := parseViewCountText(r.ViewCountText.SimpleText); ok {
			item.ViewCount = &views
		}
	}
	return item
}

func joinRuns(runs []struct {
	Text string `json:"text"`
}) string {
	var sb strings.Builder
	for _, run := range runs {
		sb.WriteString(run.Text)
	}
	return sb.String()
}

// parseDurationText converts "1:02:03" or "4:20" into seconds.
func parseDurationText(s string) (int64, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	var total int64
	for _, part := range parts {
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}

// parseViewCountText converts "1,234,567 views" into a count.
func parseViewCountText(s string) (int64, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, strings.SplitN(strings.TrimSpace(s), " ", 2)[0])
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
