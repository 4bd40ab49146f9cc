package models

// Segment is one timed caption unit.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Captions holds the full transcript text and its timed segments.
// Absence of captions is represented by a nil *Captions, never by an
// empty Segments slice.
type Captions struct {
	FullText string    `json:"full_text"`
	Segments []Segment `json:"segments"`
}

// ContentItem is one video in a channel listing. Optional fields are
// pointers so that upstream omissions stay absent in the JSON output
// instead of collapsing to zero values.
type ContentItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	UploadDate  *string `json:"upload_date,omitempty"`
	Duration    *int64  `json:"duration,omitempty"`
	ViewCount   *int64  `json:"view_count,omitempty"`
	URL         string  `json:"url"`
}
