package utils

import (
	"net/url"
	"regexp"
	"strings"
)

// MaxURLLength is the longest endpoint URL accepted by ValidateURL.
const MaxURLLength = 2048

// urlPattern accepts http(s) URLs whose host is localhost, a dotted-quad
// IPv4 address, or a DNS name with a TLD of at least two letters, with an
// optional port and path.
var urlPattern = regexp.MustCompile(
	`^https?://(localhost|127\.0\.0\.1|[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}|[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3})(:[0-9]+)?(/.*)?$`)

// ValidateURL validates that a URL is a well-formed HTTP/HTTPS endpoint URL
func ValidateURL(rawURL string) bool {
	if rawURL == "" || len(rawURL) > MaxURLLength {
		return false
	}
	return urlPattern.MatchString(rawURL)
}

// NormalizeURL ensures URL has a trailing slash
func NormalizeURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	if !strings.HasSuffix(rawURL, "/") {
		return rawURL + "/"
	}
	return rawURL
}

// ExtractHost extracts the host from a URL
func ExtractHost(rawURL string) string {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}
