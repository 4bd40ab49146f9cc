package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	maxPageBytes     = 6 * 1024 * 1024
	maxCaptionBytes  = 512 * 1024
	maxDownloadBytes = 64 * 1024 * 1024
)

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// fetchBody GETs url with browser headers and returns up to limit bytes
// of the response body. Non-2xx statuses are errors.
func fetchBody(ctx context.Context, client *http.Client, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet)
	}

	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

// extractJSON returns the first balanced JSON object starting at data[0],
// which must be '{'. Used to cut embedded player/page state out of HTML.
func extractJSON(data []byte) []byte {
	if len(data) == 0 || data[0] != '{' {
		return nil
	}

	depth := 0
	inString := false
	escaped := false

	for i, c := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return data[:i+1]
			}
		}
	}
	return nil
}
