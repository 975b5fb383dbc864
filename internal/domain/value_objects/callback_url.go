package valueobjects

import (
	"net"
	"net/url"
	"strings"

	apperrors "cocoscan/internal/shared_kernel/errors"
)

// NormalizeCallbackURL validates an absolute http(s) URL and returns it with
// a lowercase scheme and host and without fragment.
func NormalizeCallbackURL(raw string) (string, *apperrors.AppError) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", apperrors.NewValidation(
			"invalid_request",
			"callback_url is required",
			map[string]any{"field": "callback_url"},
		)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || !parsed.IsAbs() || parsed.Hostname() == "" {
		return "", apperrors.NewValidation(
			"invalid_request",
			"callback_url must be a valid absolute URL",
			map[string]any{"field": "callback_url"},
		)
	}
	if parsed.User != nil {
		return "", apperrors.NewValidation(
			"invalid_request",
			"callback_url must not contain user info",
			map[string]any{"field": "callback_url"},
		)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", apperrors.NewValidation(
			"invalid_request",
			"callback_url must use http or https",
			map[string]any{"field": "callback_url"},
		)
	}

	host := strings.TrimSuffix(strings.ToLower(parsed.Hostname()), ".")
	if port := parsed.Port(); port != "" {
		host = net.JoinHostPort(host, port)
	}

	parsed.Scheme = scheme
	parsed.Host = host
	parsed.Fragment = ""

	return parsed.String(), nil
}
