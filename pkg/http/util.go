package http

import (
	"fmt"
	"net/url"
	"strings"
)

// SessionURL appends the ;jsessionid=<id> path parameter to baseURL, ahead of
// any query string or fragment. An empty sessionID returns baseURL unchanged.
func SessionURL(baseURL, sessionID string) (string, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return "", fmt.Errorf("error parsing base URL: %w", err)
	}
	if sessionID == "" {
		return baseURL, nil
	}

	base, rest := baseURL, ""
	if i := strings.IndexAny(baseURL, "?#"); i >= 0 {
		base, rest = baseURL[:i], baseURL[i:]
	}

	return base + ";jsessionid=" + url.PathEscape(sessionID) + rest, nil
}

// RedactSession masks the jsessionid path parameter of rawURL for logging.
func RedactSession(rawURL string) string {
	i := strings.Index(rawURL, ";jsessionid=")
	if i < 0 {
		return rawURL
	}
	start := i + len(";jsessionid=")
	end := len(rawURL)
	if j := strings.IndexAny(rawURL[start:], "?#;/"); j >= 0 {
		end = start + j
	}
	return rawURL[:start] + "****" + rawURL[end:]
}
