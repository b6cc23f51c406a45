package utils

import (
	"strings"
	"testing"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "Empty key",
			key:      "",
			expected: "****",
		},
		{
			name:     "Short key (4 chars)",
			key:      "1234",
			expected: "****",
		},
		{
			name:     "Short key (8 chars)",
			key:      "12345678",
			expected: "****",
		},
		{
			name:     "Normal key (12 chars)",
			key:      "123456789012",
			expected: "1234****9012",
		},
		{
			name:     "Long API key",
			key:      "test-key-abcdefghijklmnopqrstuvwxyz",
			expected: "test****wxyz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaskAPIKey(tt.key)
			if got != tt.expected {
				t.Errorf("MaskAPIKey(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestMaskAPIKeySecure(t *testing.T) {
	t.Run("Masked key should not contain middle characters", func(t *testing.T) {
		key := "test-key-supersecretkey123"
		masked := MaskAPIKey(key)

		if strings.Contains(masked, "supersecret") {
			t.Errorf("Masked key contains sensitive middle part: %q", masked)
		}
		if !strings.HasPrefix(masked, "test") {
			t.Errorf("Masked key should start with first 4 chars: %q", masked)
		}
		if !strings.HasSuffix(masked, "y123") {
			t.Errorf("Masked key should end with last 4 chars: %q", masked)
		}
	})

	t.Run("Short keys should be completely masked", func(t *testing.T) {
		shortKeys := []string{"", "1", "1234", "12345678"}
		for _, key := range shortKeys {
			masked := MaskAPIKey(key)
			if masked != "****" {
				t.Errorf("Short key %q should be completely masked as ****, got %q", key, masked)
			}
		}
	})
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{
			name:     "Valid HTTPS URL",
			url:      "https://api.example.com",
			expected: true,
		},
		{
			name:     "Valid HTTP URL",
			url:      "http://api.example.com",
			expected: true,
		},
		{
			name:     "Localhost with port",
			url:      "http://localhost:4000",
			expected: true,
		},
		{
			name:     "Loopback IP with port and path",
			url:      "http://127.0.0.1:8080/v1",
			expected: true,
		},
		{
			name:     "IPv4 host",
			url:      "https://10.189.8.10:4142",
			expected: true,
		},
		{
			name:     "Host with subdomain and path",
			url:      "https://api.example.com/v1/chat",
			expected: true,
		},
		{
			name:     "Empty URL",
			url:      "",
			expected: false,
		},
		{
			name:     "Missing scheme",
			url:      "api.example.com",
			expected: false,
		},
		{
			name:     "Unsupported scheme",
			url:      "ftp://api.example.com",
			expected: false,
		},
		{
			name:     "Bare hostname without TLD",
			url:      "https://apiserver",
			expected: false,
		},
		{
			name:     "Single-letter TLD",
			url:      "https://example.x",
			expected: false,
		},
		{
			name:     "Whitespace inside URL",
			url:      "https://api.exa mple.com",
			expected: false,
		},
		{
			name:     "Overlong URL",
			url:      "https://api.example.com/" + strings.Repeat("a", MaxURLLength),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateURL(tt.url)
			if got != tt.expected {
				t.Errorf("ValidateURL(%q) = %v, want %v", tt.url, got, tt.expected)
			}
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{name: "Adds trailing slash", url: "https://api.example.com", expected: "https://api.example.com/"},
		{name: "Keeps existing slash", url: "https://api.example.com/", expected: "https://api.example.com/"},
		{name: "Empty stays empty", url: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.url); got != tt.expected {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestExtractHost(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{name: "Host with port", url: "https://api.example.com:8443/v1", expected: "api.example.com:8443"},
		{name: "Plain host", url: "http://localhost/v1", expected: "localhost"},
		{name: "Invalid URL", url: "not a url", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractHost(tt.url); got != tt.expected {
				t.Errorf("ExtractHost(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}
