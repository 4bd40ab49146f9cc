package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"transcript-gateway/cache"
	"transcript-gateway/errors"
	"transcript-gateway/models"
	"transcript-gateway/providers"
	"transcript-gateway/ratelimit"
	"transcript-gateway/services/transcribe"
)

// channelProvider backs the channel-listing operation. Only YouTube
// exposes a channel videos view.
const channelProvider = "youtube"

type service struct {
	registry    *providers.Registry
	store       cache.Store
	limiter     *ratelimit.Limiter
	transcriber transcribe.Service // nil when no transcription API is configured
	config      Config
	logger      zerolog.Logger
}

func NewService(
	registry *providers.Registry,
	store cache.Store,
	limiter *ratelimit.Limiter,
	transcriber transcribe.Service,
	cfg Config,
	logger zerolog.Logger,
) Service {
	return &service{
		registry:    registry,
		store:       store,
		limiter:     limiter,
		transcriber: transcriber,
		config:      cfg,
		logger:      logger.With().Str("component", "gateway").Logger(),
	}
}

func (s *service) Transcript(ctx context.Context, req models.TranscriptRequest) (*models.TranscriptResponse, error) {
	const op = "Gateway.Transcript"
	logger := s.logger.With().
		Str("operation", op).
		Str("provider", req.Provider).
		Str("url", req.VideoURL).
		Logger()

	provider, err := s.registry.Resolve(req.Provider)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Allow(ctx, req.Provider, req.ClientIP); err != nil {
		return nil, err
	}

	videoID, err := provider.ExtractVideoID(req.VideoURL)
	if err != nil {
		return nil, err
	}
	logger = logger.With().Str("video_id", videoID).Logger()

	cacheKey := fmt.Sprintf("transcript:%s:%s", req.Provider, videoID)

	var cached models.TranscriptResponse
	if s.cacheLookup(ctx, cacheKey, &cached) {
		logger.Info().Msg("Serving transcript from cache")
		return &cached, nil
	}

	captions, err := provider.FetchCaptions(ctx, videoID)
	if err != nil {
		return nil, s.normalize(op, err, logger)
	}

	if captions == nil {
		captions = s.fallbackTranscribe(ctx, provider, videoID, logger)
	}
	if captions == nil {
		logger.Info().Msg("No captions found")
		return nil, errors.NotFound(op, nil, "No captions available for this video")
	}

	response := &models.TranscriptResponse{
		VideoID:    videoID,
		Provider:   req.Provider,
		Transcript: captions.FullText,
		Segments:   captions.Segments,
	}

	s.cacheWrite(ctx, cacheKey, response, logger)
	return response, nil
}

func (s *service) ChannelVideos(ctx context.Context, req models.ChannelVideosRequest) (*models.ChannelVideosResponse, error) {
	const op = "Gateway.ChannelVideos"
	logger := s.logger.With().
		Str("operation", op).
		Str("channel_url", req.ChannelURL).
		Logger()

	provider, err := s.registry.Resolve(channelProvider)
	if err != nil {
		return nil, err
	}
	lister, ok := provider.(providers.ChannelLister)
	if !ok {
		return nil, errors.Internal(op, nil, "Internal server error")
	}

	if err := s.limiter.Allow(ctx, channelProvider, req.ClientIP); err != nil {
		return nil, err
	}

	channelID, err := lister.ExtractChannelID(req.ChannelURL)
	if err != nil {
		return nil, err
	}
	logger = logger.With().Str("channel_id", channelID).Logger()

	limit := req.Limit
	if limit <= 0 {
		limit = s.config.DefaultListingLimit
	}

	cacheKey := fmt.Sprintf("channel_videos:%s:%d", channelID, limit)

	var cached models.ChannelVideosResponse
	if s.cacheLookup(ctx, cacheKey, &cached) {
		logger.Info().Msg("Serving channel videos from cache")
		return &cached, nil
	}

	videos, err := lister.ListChannelVideos(ctx, req.ChannelURL, limit)
	if err != nil {
		return nil, s.normalize(op, err, logger)
	}
	if videos == nil {
		// An empty listing is a valid success.
		videos = []models.ContentItem{}
	}

	response := &models.ChannelVideosResponse{
		ChannelID:  channelID,
		Videos:     videos,
		TotalCount: len(videos),
	}

	logger.Info().Int("count", len(videos)).Msg("Fetched channel videos")
	s.cacheWrite(ctx, cacheKey, response, logger)
	return response, nil
}

// fallbackTranscribe runs audio transcription when enabled and the
// provider can supply audio. Every failure is logged and swallowed: the
// fallback must never turn a captions-absent result into an error.
func (s *service) fallbackTranscribe(
	ctx context.Context,
	provider providers.Provider,
	videoID string,
	logger zerolog.Logger,
) *models.Captions {
	if !s.config.FallbackTranscription || s.transcriber == nil {
		return nil
	}
	source, ok := provider.(providers.AudioSource)
	if !ok {
		return nil
	}

	logger.Info().Msg("No native captions, attempting audio transcription fallback")

	audio, err := source.DownloadAudio(ctx, videoID)
	if err != nil {
		logger.Warn().Err(err).Msg("Audio download failed")
		return nil
	}

	captions, err := s.transcriber.TranscribeAudio(ctx, audio)
	if err != nil {
		logger.Warn().Err(err).Msg("Audio transcription failed")
		return nil
	}
	return captions
}

// cacheLookup deserializes a cached response into out. Store errors and
// corrupt entries count as misses.
func (s *service) cacheLookup(ctx context.Context, key string, out any) bool {
	val, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, treating as miss")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Corrupt cache entry, treating as miss")
		return false
	}
	return true
}

// cacheWrite stores a response best-effort: a write failure never fails
// a request that already holds a valid result.
func (s *service) cacheWrite(ctx context.Context, key string, value any, logger zerolog.Logger) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to serialize response for cache")
		return
	}
	if err := s.store.Set(ctx, key, string(data), s.config.CacheTTL); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// normalize passes through typed taxonomy errors and converts anything
// unexpected into a generic internal error, logged with full context and
// never echoed to the caller.
func (s *service) normalize(op string, err error, logger zerolog.Logger) error {
	if appErr, ok := errors.AsAppError(err); ok {
		if appErr.Code >= 500 {
			logger.Error().Err(err).Str("op", appErr.Op).Msg("Upstream failure")
		}
		return appErr
	}
	logger.Error().Err(err).Msg("Unexpected error")
	return errors.Internal(op, err, "Internal server error")
}
