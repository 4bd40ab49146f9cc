package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcript-gateway/errors"
)

func TestValidateURL(t *testing.T) {
	v := NewValidator()

	for _, url := range []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"http://www.tiktok.com/@user/video/123",
		"https://youtu.be/dQw4w9WgXcQ",
	} {
		assert.NoError(t, v.ValidateURL(url), "url %q", url)
	}
}

func TestValidateURLRejects(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"no scheme", "www.youtube.com/watch?v=x"},
		{"ftp scheme", "ftp://example.com/file"},
		{"scheme only", "https://"},
		{"control character", "https://example.com/\x7f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateURL(tt.url)
			require.Error(t, err)
			appErr, ok := errors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, 400, appErr.Code)
		})
	}
}
