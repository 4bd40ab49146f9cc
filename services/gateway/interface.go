package gateway

import (
	"context"
	"time"

	"transcript-gateway/models"
)

type Service interface {
	// Transcript fetches the transcript for a single video.
	Transcript(ctx context.Context, req models.TranscriptRequest) (*models.TranscriptResponse, error)

	// ChannelVideos lists a channel's most recent videos, newest first.
	ChannelVideos(ctx context.Context, req models.ChannelVideosRequest) (*models.ChannelVideosResponse, error)
}

type Config struct {
	// CacheTTL applies to both transcript and listing responses.
	CacheTTL time.Duration `json:"cache_ttl"`

	// DefaultListingLimit is used when a listing request omits limit.
	DefaultListingLimit int `json:"default_listing_limit"`

	// FallbackTranscription enables the audio transcription fallback
	// for providers that expose an audio source.
	FallbackTranscription bool `json:"fallback_transcription"`
}
