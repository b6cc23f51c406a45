package models

import "strings"

// DefaultCacheTTLSeconds is the model cache lifetime used when the common
// section does not configure cache_ttl_seconds.
const DefaultCacheTTLSeconds = 86400

// EndpointConfig represents a single named endpoint from the settings file.
// All values have already been coerced to their string form at the decode
// boundary; booleans are parsed here once so downstream code never
// re-inspects dynamic types.
type EndpointConfig struct {
	Name             string
	URL              string
	APIKeyEnv        string
	APIKeyLiteral    string
	ListModelsCmd    string
	SupportedClients []string
	UseProxy         bool
	KeepProxyConfig  bool
	Description      string
}

// SupportsClient reports whether the endpoint may be used with the given
// client. An endpoint with no supported_client restriction allows all
// clients, as does an empty client name.
func (c EndpointConfig) SupportsClient(client string) bool {
	if len(c.SupportedClients) == 0 || client == "" {
		return true
	}
	for _, s := range c.SupportedClients {
		if s == client {
			return true
		}
	}
	return false
}

// CommonConfig holds the settings shared by all endpoints.
type CommonConfig struct {
	Proxy           ProxySettings
	CacheTTLSeconds int
}

// ProxySettings carries the proxy env overlay applied when an endpoint has
// use_proxy enabled.
type ProxySettings struct {
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// IsZero reports whether no proxy value is configured.
func (p ProxySettings) IsZero() bool {
	return p.HTTPProxy == "" && p.HTTPSProxy == "" && p.NoProxy == ""
}

// Environ returns the proxy settings as environment variable assignments,
// covering both lower- and upper-case conventions. Empty values are omitted.
func (p ProxySettings) Environ() map[string]string {
	env := make(map[string]string)
	if p.HTTPProxy != "" {
		env["http_proxy"] = p.HTTPProxy
		env["HTTP_PROXY"] = p.HTTPProxy
	}
	if p.HTTPSProxy != "" {
		env["https_proxy"] = p.HTTPSProxy
		env["HTTPS_PROXY"] = p.HTTPSProxy
	}
	if p.NoProxy != "" {
		env["no_proxy"] = p.NoProxy
		env["NO_PROXY"] = p.NoProxy
	}
	return env
}

// SplitClients parses a comma-separated supported_client value.
func SplitClients(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	var clients []string
	for _, c := range strings.Split(csv, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			clients = append(clients, c)
		}
	}
	return clients
}

// ParseBool interprets the coerced string form of a boolean config value.
// Unrecognized values are false.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
