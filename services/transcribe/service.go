package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"transcript-gateway/config"
	"transcript-gateway/models"
)

// Service converts raw audio into captions via a Whisper-compatible
// transcription API. Best-effort fallback only; the pipeline uses it
// when a provider reports no native captions.
type Service interface {
	TranscribeAudio(ctx context.Context, audio []byte) (*models.Captions, error)
}

type service struct {
	client *http.Client
	config config.TranscribeConfig
	logger zerolog.Logger
}

func NewService(cfg config.TranscribeConfig, logger zerolog.Logger) Service {
	return &service{
		client: &http.Client{Timeout: cfg.Timeout},
		config: cfg,
		logger: logger.With().Str("component", "transcribe").Logger(),
	}
}

type verboseTranscription struct {
	Text     string `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (s *service) TranscribeAudio(ctx context.Context, audio []byte) (*models.Captions, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.mp4")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, err
	}
	_ = writer.WriteField("model", s.config.Model)
	_ = writer.WriteField("response_format", "verbose_json")
	_ = writer.WriteField("timestamp_granularities[]", "segment")
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.config.BaseURL+"/audio/transcriptions",
		&body,
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("transcription API HTTP %d: %s", resp.StatusCode, snippet)
	}

	var result verboseTranscription
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode transcription: %w", err)
	}

	segments := make([]models.Segment, 0, len(result.Segments))
	for _, seg := range result.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, models.Segment{Start: seg.Start, End: seg.End, Text: text})
	}
	if len(segments) == 0 {
		return nil, nil
	}

	return &models.Captions{FullText: strings.TrimSpace(result.Text), Segments: segments}, nil
}
