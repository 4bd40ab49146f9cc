package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestYouTube(baseURL string) *YouTube {
	y := NewYouTube(zerolog.Nop())
	if baseURL != "" {
		y.baseURL = baseURL
	}
	return y
}

func TestYouTubeExtractVideoID(t *testing.T) {
	y := newTestYouTube("")

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch URL with extra params", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ"},
		{"short URL", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short URL with timestamp", "https://youtu.be/dQw4w9WgXcQ?t=10", "dQw4w9WgXcQ"},
		{"embed URL", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"legacy /v/ URL", "https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"shorts URL", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := y.ExtractVideoID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYouTubeExtractVideoIDInvalid(t *testing.T) {
	y := newTestYouTube("")

	for _, url := range []string{
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"https://vimeo.com/123456",
		"not a url",
		"",
	} {
		_, err := y.ExtractVideoID(url)
		assert.Error(t, err, "url %q", url)
	}
}

func TestYouTubeExtractChannelID(t *testing.T) {
	y := newTestYouTube("")

	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/channel/UC_x5XG1OV2P6uZZ5FSM9Ttw", "UC_x5XG1OV2P6uZZ5FSM9Ttw"},
		{"https://www.youtube.com/@username", "@username"},
		{"https://www.youtube.com/c/channelname", "channelname"},
		{"https://www.youtube.com/user/username", "username"},
	}

	for _, tt := range tests {
		got, err := y.ExtractChannelID(tt.url)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := y.ExtractChannelID("https://example.com/invalid")
	assert.Error(t, err)
}

func TestSelectCaptionTrack(t *testing.T) {
	manual := func(lang string, translatable bool) captionTrack {
		return captionTrack{BaseURL: "manual-" + lang, LanguageCode: lang, IsTranslatable: translatable}
	}
	asr := func(lang string, translatable bool) captionTrack {
		return captionTrack{BaseURL: "asr-" + lang, LanguageCode: lang, Kind: "asr", IsTranslatable: translatable}
	}

	tests := []struct {
		name          string
		tracks        []captionTrack
		wantURL       string
		wantTranslate bool
	}{
		{
			name:    "manual preferred language wins over asr",
			tracks:  []captionTrack{asr("en", true), manual("en", true)},
			wantURL: "manual-en",
		},
		{
			name:    "asr in preferred language beats translation",
			tracks:  []captionTrack{manual("fr", true), asr("en", true)},
			wantURL: "asr-en",
		},
		{
			name:          "manual translatable beats generated translatable",
			tracks:        []captionTrack{asr("fr", true), manual("de", true)},
			wantURL:       "manual-de",
			wantTranslate: true,
		},
		{
			name:          "generated translatable when no manual track",
			tracks:        []captionTrack{asr("ja", true)},
			wantURL:       "asr-ja",
			wantTranslate: true,
		},
		{
			name:    "any available as last resort",
			tracks:  []captionTrack{asr("ko", false)},
			wantURL: "asr-ko",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track, translate, ok := selectCaptionTrack(tt.tracks, "en")
			require.True(t, ok)
			assert.Equal(t, tt.wantURL, track.BaseURL)
			assert.Equal(t, tt.wantTranslate, translate)
		})
	}

	_, _, ok := selectCaptionTrack(nil, "en")
	assert.False(t, ok)
}

func watchPageHTML(playerJSON string) string {
	return fmt.Sprintf("<html><script>var ytInitialPlayerResponse = %s;</script></html>", playerJSON)
}

func TestYouTubeFetchCaptions(t *testing.T) {
	const timedtext = `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0" dur="3.2">Never gonna give you up</text>
  <text start="3.2" dur="2.8">Never gonna let you &amp;amp; down</text>
  <text start="6" dur="1.5"> </text>
</transcript>`

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			playerJSON := fmt.Sprintf(`{
				"captions": {"playerCaptionsTracklistRenderer": {"captionTracks": [
					{"baseUrl": %q, "languageCode": "en"}
				]}},
				"playabilityStatus": {"status": "OK"}
			}`, server.URL+"/timedtext?v=abc")
			fmt.Fprint(w, watchPageHTML(playerJSON))
		case "/timedtext":
			fmt.Fprint(w, timedtext)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	y := newTestYouTube(server.URL)
	captions, err := y.FetchCaptions(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	require.NotNil(t, captions)

	require.Len(t, captions.Segments, 2)
	assert.Equal(t, "Never gonna give you up Never gonna let you & down", captions.FullText)
	assert.Equal(t, 0.0, captions.Segments[0].Start)
	assert.Equal(t, 3.2, captions.Segments[0].End)
	assert.Equal(t, 3.2, captions.Segments[1].Start)
	assert.Equal(t, 6.0, captions.Segments[1].End)
}

func TestYouTubeFetchCaptionsAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, watchPageHTML(`{"playabilityStatus": {"status": "ERROR", "reason": "Captions disabled"}}`))
	}))
	defer server.Close()

	y := newTestYouTube(server.URL)
	captions, err := y.FetchCaptions(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Nil(t, captions)
}

func TestYouTubeFetchCaptionsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	y := newTestYouTube(server.URL)
	_, err := y.FetchCaptions(context.Background(), "dQw4w9WgXcQ")
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", `{"a":1};rest`, `{"a":1}`},
		{"nested", `{"a":{"b":[1,2]}}tail`, `{"a":{"b":[1,2]}}`},
		{"braces in strings", `{"a":"}{"}junk`, `{"a":"}{"}`},
		{"escaped quote", `{"a":"\"}"}x`, `{"a":"\"}"}`},
		{"unterminated", `{"a":1`, ""},
		{"not an object", `[1,2]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON([]byte(tt.input))
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestParseDurationText(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"4:20", 260, true},
		{"1:02:03", 3723, true},
		{"0:59", 59, true},
		{"LIVE", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseDurationText(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestParseViewCountText(t *testing.T) {
	got, ok := parseViewCountText("1,234,567 views")
	require.True(t, ok)
	assert.Equal(t, int64(1234567), got)

	_, ok = parseViewCountText("No views")
	assert.False(t, ok)
}
