package providers

import (
	"fmt"
	"strconv"
	"strings"

	"transcript-gateway/models"
)

const vttTimingSeparator = " --> "

// parseWebVTT converts a WebVTT payload into timed segments. Cue text
// lines are joined with spaces; cues without text are dropped. A payload
// with no parsable cues is an error so callers can distinguish malformed
// subtitles from genuinely empty ones.
func parseWebVTT(payload string) (*models.Captions, error) {
	lines := strings.Split(strings.ReplaceAll(payload, "\r\n", "\n"), "\n")

	var segments []models.Segment
	var parts []string

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.Contains(line, vttTimingSeparator) {
			continue
		}

		timing := strings.SplitN(line, vttTimingSeparator, 2)
		start, err := parseVTTTimestamp(timing[0])
		if err != nil {
			continue
		}
		// Cue settings may trail the end timestamp.
		endField := strings.Fields(timing[1])
		if len(endField) == 0 {
			continue
		}
		end, err := parseVTTTimestamp(endField[0])
		if err != nil {
			continue
		}

		var textLines []string
		for i++; i < len(lines); i++ {
			text := strings.TrimSpace(lines[i])
			if text == "" {
				break
			}
			textLines = append(textLines, text)
		}
		text := cleanCaptionText(strings.Join(textLines, " "))
		if text == "" {
			continue
		}

		segments = append(segments, models.Segment{Start: start, End: end, Text: text})
		parts = append(parts, text)
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("no cues in WebVTT payload")
	}
	return &models.Captions{
		FullText: strings.Join(parts, " "),
		Segments: segments,
	}, nil
}

// parseVTTTimestamp accepts "HH:MM:SS.mmm" and "MM:SS.mmm".
func parseVTTTimestamp(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("bad timestamp %q", s)
	}

	var total float64
	for _, part := range parts {
		n, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, fmt.Errorf("bad timestamp %q", s)
		}
		total = total*60 + n
	}
	return total, nil
}
