package providers

import (
	"context"
	"fmt"

	"transcript-gateway/errors"
	"transcript-gateway/models"
)

// Provider is the capability a video platform adapter must offer: turn a
// URL into a stable identifier and fetch captions for that identifier.
//
// FetchCaptions returns (nil, nil) when the video has no caption track
// at all or when a known "expected" upstream condition occurs (captions
// disabled, malformed subtitle payload). Any other upstream failure is
// returned as an error with the original cause attached.
type Provider interface {
	Name() string
	ExtractVideoID(url string) (string, error)
	FetchCaptions(ctx context.Context, videoID string) (*models.Captions, error)
}

// ChannelLister is the optional capability of listing a channel's most
// recent videos, newest first. Missing upstream fields become absent
// optionals, never placeholder errors.
type ChannelLister interface {
	ExtractChannelID(url string) (string, error)
	ListChannelVideos(ctx context.Context, channelURL string, limit int) ([]models.ContentItem, error)
}

// AudioSource is the optional capability of downloading a video's audio
// track, used by the fallback transcription path.
type AudioSource interface {
	DownloadAudio(ctx context.Context, videoID string) ([]byte, error)
}

// Registry maps provider names to adapters. It is constructed once at
// startup and passed by reference into the pipeline; there is no global
// provider map.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Resolve returns the adapter for name or UnsupportedProvider.
func (r *Registry) Resolve(name string) (Provider, error) {
	const op = "Registry.Resolve"

	p, ok := r.providers[name]
	if !ok {
		return nil, errors.InvalidInput(op, nil, fmt.Sprintf("Unsupported provider: %s", name))
	}
	return p, nil
}
