package endpoint

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"camgr/config"
	"camgr/config/models"
	"camgr/config/validation"
	"camgr/internal/modelapi"
	"camgr/internal/utils"
)

// ResolvedConfig is a validated, ready-to-use endpoint configuration: the
// typed endpoint section plus the resolved credential and the proxy overlay
// to apply.
type ResolvedConfig struct {
	models.EndpointConfig
	APIKey    string
	KeySource CredentialSource
	Proxy     models.ProxySettings
}

// HasKey reports credential presence without exposing the value.
func (rc *ResolvedConfig) HasKey() bool {
	return rc.APIKey != ""
}

// Manager composes the config store, credential resolver, model cache and
// fetcher behind the two questions callers ask: "give me a usable config
// for endpoint X" and "give me the current model list for endpoint X".
type Manager struct {
	store   *config.Store
	creds   *CredentialResolver
	cache   *ModelCache
	fetcher *Fetcher
	now     func() time.Time
}

// NewManager wires a Manager with the production cache directory and the
// built-in listing helpers registered.
func NewManager(store *config.Store) (*Manager, error) {
	cache, err := NewModelCache()
	if err != nil {
		return nil, err
	}

	fetcher := NewFetcher()
	fetcher.RegisterBuiltin("copilot-models", func(ctx context.Context, _ Environment) ([]string, error) {
		return modelapi.ListCopilotModels(ctx)
	})
	fetcher.RegisterBuiltin("litellm-models", func(ctx context.Context, env Environment) ([]string, error) {
		return modelapi.ListLitellmModels(ctx, env.EndpointURL, env.APIKey)
	})

	return &Manager{
		store:   store,
		creds:   NewCredentialResolver(),
		cache:   cache,
		fetcher: fetcher,
		now:     time.Now,
	}, nil
}

// EndpointNames returns the configured endpoint names, optionally filtered
// to those supporting a client.
func (m *Manager) EndpointNames(client string) []string {
	var names []string
	for _, name := range m.store.EndpointNames() {
		cfg, ok := m.store.GetEndpoint(name)
		if !ok {
			continue
		}
		if cfg.SupportsClient(client) {
			names = append(names, name)
		}
	}
	return names
}

// GetEndpointConfig looks up an endpoint, validates its URL, resolves and
// shape-checks its credential, and computes the proxy overlay. Failures are
// scoped to the endpoint and never panic.
func (m *Manager) GetEndpointConfig(name string) (*ResolvedConfig, error) {
	cfg, ok := m.store.GetEndpoint(name)
	if !ok {
		return nil, &Error{
			Kind:     KindConfig,
			Severity: SeverityHigh,
			Message:  "endpoint not found in configuration",
			Endpoint: name,
			Suggestions: []string{
				"Check the endpoint name for typos",
				"Run 'camgr list' to see configured endpoints",
			},
		}
	}

	if !utils.ValidateURL(cfg.URL) {
		return nil, &Error{
			Kind:     KindValidation,
			Severity: SeverityHigh,
			Message:  "endpoint URL failed validation: " + cfg.URL,
			Endpoint: name,
			Suggestions: []string{
				"Check that the endpoint URL is properly formatted",
				"Ensure the URL starts with http:// or https://",
				"Verify the endpoint is accessible",
			},
		}
	}

	apiKey, source := m.creds.Resolve(name, cfg)
	if apiKey != "" && !validation.ValidateAPIKey(apiKey) {
		return nil, &Error{
			Kind:     KindValidation,
			Severity: SeverityHigh,
			Message:  "API key failed validation",
			Endpoint: name,
			Suggestions: []string{
				"Check that the API key is properly formatted",
				"Verify the API key is valid and not expired",
			},
		}
	}

	resolved := &ResolvedConfig{
		EndpointConfig: cfg,
		APIKey:         apiKey,
		KeySource:      source,
	}
	if cfg.UseProxy {
		resolved.Proxy = m.store.GetCommon().Proxy
	}

	logrus.Debugf("endpoint: using %s -> %s (key present: %v, source: %s)",
		name, cfg.URL, resolved.HasKey(), source)

	return resolved, nil
}

// FetchModels returns the model list for an endpoint. The second result
// reports whether the list came from the on-disk cache.
//
// A fresh cache entry is reused without executing anything when preferCache
// is true. On a miss or expiry the discovery command is validated and run;
// a hard fetch failure falls back to any readable cache entry — fresh or,
// as a last resort, stale — rather than failing the operation. A command
// that fails validation is never executed under any path.
func (m *Manager) FetchModels(ctx context.Context, name string, rc *ResolvedConfig, preferCache bool) ([]string, bool, error) {
	ttl := m.store.CacheTTL()

	entry, err := m.cache.Read(name)
	if err != nil {
		// Corrupt cache is a miss, not a failure.
		logrus.Warnf("endpoint: %v", err)
		entry = nil
	}

	if preferCache && entry != nil && entry.Fresh(ttl, m.now()) {
		logrus.Debugf("endpoint: %s model list served from cache", name)
		return entry.Models, true, nil
	}

	if rc.ListModelsCmd == "" {
		logrus.Warnf("endpoint: %s has no list_models_cmd, using empty model list", name)
		return []string{}, false, nil
	}

	if !validation.ValidateCommand(rc.ListModelsCmd) {
		return nil, false, &Error{
			Kind:     KindSecurity,
			Severity: SeverityCritical,
			Message:  "list_models_cmd failed command validation",
			Endpoint: name,
			Command:  rc.ListModelsCmd,
			Suggestions: []string{
				"Remove shell metacharacters and privileged operations from the command",
				"Use a simple curl/jq pipeline or a static model list",
			},
		}
	}

	env := Environment{
		EndpointURL: rc.URL,
		APIKey:      rc.APIKey,
		Proxy:       rc.Proxy,
		KeepProxy:   rc.KeepProxyConfig,
	}

	logrus.Debugf("endpoint: %s fetching model list", name)
	output, err := m.fetcher.Fetch(ctx, rc.ListModelsCmd, env)
	if err != nil {
		if entry != nil {
			logrus.Warnf("endpoint: %s fetch failed (%v), using cached model list", name, err)
			return entry.Models, true, nil
		}
		return nil, false, err
	}

	if output == "" {
		// Command ran but produced nothing usable.
		return []string{}, false, nil
	}

	modelIDs := ParseModels(output)
	if err := m.cache.Write(name, modelIDs); err != nil {
		logrus.Warnf("endpoint: %v", err)
	}
	return modelIDs, false, nil
}
