package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"camgr/internal/utils"
)

// apiKeyCharset rejects any character outside the accepted API key alphabet.
var apiKeyCharset = regexp.MustCompile(`[^a-zA-Z0-9._=-]`)

// ValidateAPIKey checks that a resolved credential has a plausible shape:
// at least ten characters, alphanumeric plus dots, hyphens, underscores and
// equals signs.
func ValidateAPIKey(key string) bool {
	if len(key) < 10 {
		return false
	}
	return !apiKeyCharset.MatchString(key)
}

// ValidateBoolean checks that a coerced config value is a recognizable
// boolean representation.
func ValidateBoolean(value string) bool {
	switch strings.ToLower(value) {
	case "true", "false", "1", "0", "yes", "no":
		return true
	}
	return false
}

// ValidateNonEmpty checks that a value is a non-blank string.
func ValidateNonEmpty(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Validator validates decoded configuration sections. Field values are the
// coerced string forms produced by the config store.
type Validator struct{}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateEndpoint checks one endpoint section and returns a description of
// every problem found.
func (v *Validator) ValidateEndpoint(name string, fields map[string]string) []string {
	var errs []string

	endpointURL := fields["endpoint"]
	if endpointURL == "" {
		errs = append(errs, fmt.Sprintf("missing endpoint URL for %s", name))
	} else if !utils.ValidateURL(endpointURL) {
		errs = append(errs, fmt.Sprintf("invalid endpoint URL for %s: %s", name, endpointURL))
	}

	if apiKeyEnv, ok := fields["api_key_env"]; ok && !ValidateNonEmpty(apiKeyEnv) {
		errs = append(errs, fmt.Sprintf("invalid api_key_env for %s: %s", name, apiKeyEnv))
	}

	if cmd := fields["list_models_cmd"]; cmd != "" && !ValidateCommand(cmd) {
		errs = append(errs, fmt.Sprintf("invalid list_models_cmd for %s: %s", name, cmd))
	}

	for _, field := range []string{"use_proxy", "keep_proxy_config"} {
		if value := fields[field]; value != "" && !ValidateBoolean(value) {
			errs = append(errs, fmt.Sprintf("invalid %s for %s: %s", field, name, value))
		}
	}

	if supported, ok := fields["supported_client"]; ok && !ValidateNonEmpty(supported) {
		errs = append(errs, fmt.Sprintf("invalid supported_client for %s: %s", name, supported))
	}

	return errs
}

// ValidateCommon checks the common section.
func (v *Validator) ValidateCommon(fields map[string]string) []string {
	var errs []string

	if httpProxy := fields["http_proxy"]; httpProxy != "" && !utils.ValidateURL(httpProxy) {
		errs = append(errs, fmt.Sprintf("invalid HTTP proxy URL: %s", httpProxy))
	}
	if httpsProxy := fields["https_proxy"]; httpsProxy != "" && !utils.ValidateURL(httpsProxy) {
		errs = append(errs, fmt.Sprintf("invalid HTTPS proxy URL: %s", httpsProxy))
	}

	if ttl := fields["cache_ttl_seconds"]; ttl != "" {
		if _, err := strconv.Atoi(ttl); err != nil {
			errs = append(errs, fmt.Sprintf("invalid cache_ttl_seconds value: %s", ttl))
		}
	}

	return errs
}
