package validation

import (
	"net/url"
	"strings"

	"transcript-gateway/errors"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateURL performs basic URL validation before provider dispatch.
// Provider-specific shape checks happen in identifier extraction.
func (v *Validator) ValidateURL(urlStr string) error {
	const op = "Validator.ValidateURL"

	if urlStr == "" {
		return errors.InvalidInput(op, nil, "URL is required")
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return errors.InvalidInput(op, err, "Invalid URL format")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.InvalidInput(op, nil, "URL must use http or https")
	}

	if strings.TrimSpace(parsed.Host) == "" {
		return errors.InvalidInput(op, nil, "URL must include a host")
	}

	return nil
}
