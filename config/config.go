package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"camgr/config/models"
	"camgr/config/validation"
)

//go:embed settings.json.example
var bundledSettings []byte

// validationCacheTTL bounds how long a Validate() result is reused before
// the document is re-checked.
const validationCacheTTL = 60 * time.Second

// ResolveConfigPath returns the first existing path from the candidate
// list. The candidate list is injectable so tests can override the search
// order without touching the real filesystem layout.
func ResolveConfigPath(candidates []string) (string, bool) {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			logrus.Debugf("config: resolved settings path %s", candidate)
			return candidate, true
		}
	}
	return "", false
}

// DefaultCandidates is the standard settings.json lookup order: the user
// config directory, the current working directory, then the home directory
// root.
func DefaultCandidates() []string {
	var candidates []string

	home, homeErr := os.UserHomeDir()
	if homeErr == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "camgr", "settings.json"))
	}

	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, "settings.json"))
	}

	if homeErr == nil {
		candidates = append(candidates, filepath.Join(home, "settings.json"))
	}

	return candidates
}

type validationResult struct {
	ok     bool
	errors []string
	at     time.Time
}

// Store loads and serves the settings document. It is read-mostly: the
// document is decoded once per Load/Reload and queried in memory afterwards.
type Store struct {
	mu   sync.Mutex
	path string

	names     []string
	endpoints map[string]map[string]string
	common    map[string]string

	valCache *validationResult
	now      func() time.Time
}

// NewStore resolves the settings path through the default candidates and
// loads it. When no candidate exists the bundled example document is used
// so that a fresh installation still starts.
func NewStore() (*Store, error) {
	if path, ok := ResolveConfigPath(DefaultCandidates()); ok {
		return LoadStore(path)
	}

	logrus.Debug("config: no settings.json found, falling back to bundled example")
	s := &Store{path: "settings.json.example (bundled)", now: time.Now}
	if err := s.parse(bundledSettings); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadStore loads the settings document at an explicit path. A missing file
// is a hard error, not silently defaulted.
func LoadStore(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the settings document location in use.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the settings document and invalidates the cached
// validation result.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logrus.Debugf("config: reloading %s", s.path)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("configuration file not found: %s", s.path)
		}
		return fmt.Errorf("failed to read configuration file %s: %w", s.path, err)
	}

	return s.parse(data)
}

// parse decodes the document and rebuilds the coerced field maps. The
// caller holds the lock (or owns the store exclusively during construction).
func (s *Store) parse(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid JSON in configuration file %s: check the syntax and fix any formatting issues", s.path)
	}

	doc := gjson.ParseBytes(data)

	names := []string{}
	endpoints := make(map[string]map[string]string)
	doc.Get("endpoints").ForEach(func(key, section gjson.Result) bool {
		name := key.String()
		names = append(names, name)
		endpoints[name] = coerceSection(section)
		return true
	})

	s.names = names
	s.endpoints = endpoints
	s.common = coerceSection(doc.Get("common"))
	s.valCache = nil

	logrus.Debugf("config: loaded %d endpoints from %s", len(names), s.path)
	return nil
}

// coerceSection flattens a JSON object into string fields. Booleans become
// "true"/"false", numbers their decimal form; strings are trimmed. This is
// the single place where dynamic JSON types are inspected.
func coerceSection(section gjson.Result) map[string]string {
	fields := make(map[string]string)
	if !section.Exists() {
		return fields
	}
	section.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.String:
			fields[key.String()] = strings.TrimSpace(value.String())
		default:
			// gjson renders true/false and bare decimal numbers here.
			fields[key.String()] = value.String()
		}
		return true
	})
	return fields
}

// EndpointNames returns all configured endpoint names in document order.
func (s *Store) EndpointNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// RawEndpoint returns the coerced string fields of an endpoint section.
func (s *Store) RawEndpoint(name string) (map[string]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.endpoints[name]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out, true
}

// GetEndpoint returns the typed configuration for a named endpoint.
func (s *Store) GetEndpoint(name string) (models.EndpointConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.endpoints[name]
	if !ok {
		return models.EndpointConfig{}, false
	}

	return models.EndpointConfig{
		Name:             name,
		URL:              fields["endpoint"],
		APIKeyEnv:        fields["api_key_env"],
		APIKeyLiteral:    fields["api_key"],
		ListModelsCmd:    fields["list_models_cmd"],
		SupportedClients: models.SplitClients(fields["supported_client"]),
		UseProxy:         models.ParseBool(fields["use_proxy"]),
		KeepProxyConfig:  models.ParseBool(fields["keep_proxy_config"]),
		Description:      fields["description"],
	}, true
}

// GetCommon returns the typed common section.
func (s *Store) GetCommon() models.CommonConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	ttl := models.DefaultCacheTTLSeconds
	if raw := s.common["cache_ttl_seconds"]; raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			ttl = parsed
		}
	}

	return models.CommonConfig{
		Proxy: models.ProxySettings{
			HTTPProxy:  s.common["http_proxy"],
			HTTPSProxy: s.common["https_proxy"],
			NoProxy:    s.common["no_proxy"],
		},
		CacheTTLSeconds: ttl,
	}
}

// CacheTTL returns the configured model cache lifetime.
func (s *Store) CacheTTL() time.Duration {
	return time.Duration(s.GetCommon().CacheTTLSeconds) * time.Second
}

// Validate checks the whole document: every endpoint URL, api_key_env,
// list_models_cmd and boolean field, plus the common proxy URLs and cache
// TTL. The result is cached for a short window and invalidated by Reload.
func (s *Store) Validate() (bool, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valCache != nil && s.now().Sub(s.valCache.at) < validationCacheTTL {
		logrus.Debug("config: using cached validation result")
		return s.valCache.ok, s.valCache.errors
	}

	validator := validation.NewValidator()

	var errs []string
	errs = append(errs, validator.ValidateCommon(s.common)...)
	for _, name := range s.names {
		errs = append(errs, validator.ValidateEndpoint(name, s.endpoints[name])...)
	}

	result := &validationResult{ok: len(errs) == 0, errors: errs, at: s.now()}
	s.valCache = result

	if result.ok {
		logrus.Debug("config: validation passed")
	} else {
		logrus.Warnf("config: validation failed with %d errors", len(errs))
	}

	return result.ok, result.errors
}
