package models

// TranscriptRequest is the body of POST /api/v1/transcript.
type TranscriptRequest struct {
	Provider string `json:"provider"`
	VideoURL string `json:"video_url"`

	// ClientIP is filled in by the handler, not the client.
	ClientIP string `json:"-"`
}

// TranscriptResponse is the uniform transcript output shape.
type TranscriptResponse struct {
	VideoID    string    `json:"video_id"`
	Provider   string    `json:"provider"`
	Transcript string    `json:"transcript"`
	Segments   []Segment `json:"segments"`
}

// ChannelVideosRequest is the body of POST /api/v1/channel/videos.
type ChannelVideosRequest struct {
	ChannelURL string `json:"channel_url"`
	Limit      int    `json:"limit"`

	ClientIP string `json:"-"`
}

// ChannelVideosResponse lists a channel's most recent videos, newest first.
type ChannelVideosResponse struct {
	ChannelID  string        `json:"channel_id"`
	Videos     []ContentItem `json:"videos"`
	TotalCount int           `json:"total_count"`
}
