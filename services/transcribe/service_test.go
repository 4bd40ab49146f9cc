package transcribe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcript-gateway/config"
)

func newTestService(baseURL string) Service {
	return NewService(config.TranscribeConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "whisper-1",
		Timeout: 5 * time.Second,
	}, zerolog.Nop())
}

func TestTranscribeAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		file.Close()

		fmt.Fprint(w, `{
			"text": "hello world",
			"segments": [
				{"start": 0, "end": 1.5, "text": " hello "},
				{"start": 1.5, "end": 3.0, "text": "world"},
				{"start": 3.0, "end": 3.5, "text": "   "}
			]
		}`)
	}))
	defer server.Close()

	captions, err := newTestService(server.URL).TranscribeAudio(context.Background(), []byte("audio-bytes"))
	require.NoError(t, err)
	require.NotNil(t, captions)

	assert.Equal(t, "hello world", captions.FullText)
	require.Len(t, captions.Segments, 2)
	assert.Equal(t, "hello", captions.Segments[0].Text)
	assert.Equal(t, 1.5, captions.Segments[0].End)
}

func TestTranscribeAudioEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"text": "", "segments": []}`)
	}))
	defer server.Close()

	captions, err := newTestService(server.URL).TranscribeAudio(context.Background(), []byte("audio-bytes"))
	require.NoError(t, err)
	assert.Nil(t, captions)
}

func TestTranscribeAudioAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "invalid key"}}`)
	}))
	defer server.Close()

	_, err := newTestService(server.URL).TranscribeAudio(context.Background(), []byte("audio-bytes"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
}
