package http

import (
	"net/url"
	"strings"
)

// BuildPath joins path segments, escaping each one, and appends the
// encoded query parameters. The result is relative to the client base URL.
func BuildPath(segments []string, queryParams map[string]string) string {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	path := strings.Join(escaped, "/")

	if len(queryParams) == 0 {
		return path
	}

	q := url.Values{}
	for key, value := range queryParams {
		q.Set(key, value)
	}

	return path + "?" + q.Encode()
}
