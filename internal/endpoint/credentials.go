package endpoint

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"camgr/config/models"
)

// CredentialSource identifies which link of the resolution chain supplied a
// credential. Used for diagnostics only; the value itself is never logged.
type CredentialSource int

const (
	SourceNone CredentialSource = iota
	SourceEnvRef
	SourceDynamicEnv
	SourceLegacyEnv
	SourceGenericEnv
	SourceConfigFile
)

func (s CredentialSource) String() string {
	switch s {
	case SourceEnvRef:
		return "api_key_env reference"
	case SourceDynamicEnv:
		return "per-endpoint environment variable"
	case SourceLegacyEnv:
		return "legacy environment variable"
	case SourceGenericEnv:
		return "API_KEY environment variable"
	case SourceConfigFile:
		return "config file"
	}
	return "unresolved"
}

// genericKeyVar is the lowest-priority environment fallback.
const genericKeyVar = "API_KEY"

// legacyKeyVars keeps two fixed names working for well-known endpoints that
// predate the dynamic naming scheme.
var legacyKeyVars = map[string]string{
	"copilot-api": "API_KEY_COPILOT",
	"litellm":     "API_KEY_LITELLM",
}

// CredentialResolver resolves endpoint credentials through the environment
// and config priority chain. It never stores secrets.
type CredentialResolver struct {
	lookup func(string) (string, bool)
}

// NewCredentialResolver creates a resolver backed by the process
// environment.
func NewCredentialResolver() *CredentialResolver {
	return &CredentialResolver{lookup: os.LookupEnv}
}

// DynamicKeyVar builds the per-endpoint variable name API_KEY_<NAME> with
// the endpoint name upper-cased and every non-alphanumeric character
// replaced by an underscore.
func DynamicKeyVar(endpointName string) string {
	var b strings.Builder
	b.WriteString("API_KEY_")
	for _, r := range strings.ToUpper(endpointName) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Resolve returns the credential for an endpoint and the source that
// supplied it. An empty result is a valid state: endpoints that need no
// credential resolve to ("", SourceNone).
//
// Priority, first non-empty wins:
//  1. the variable named by api_key_env
//  2. API_KEY_<ENDPOINT_NAME>
//  3. a legacy fixed name for well-known endpoints
//  4. the generic API_KEY variable
//  5. the api_key literal from the config file
func (r *CredentialResolver) Resolve(endpointName string, cfg models.EndpointConfig) (string, CredentialSource) {
	if cfg.APIKeyEnv != "" {
		if value, ok := r.lookup(cfg.APIKeyEnv); ok && value != "" {
			logrus.Debugf("credentials: %s resolved via api_key_env %s", endpointName, cfg.APIKeyEnv)
			return value, SourceEnvRef
		}
	}

	if value, ok := r.lookup(DynamicKeyVar(endpointName)); ok && value != "" {
		logrus.Debugf("credentials: %s resolved via %s", endpointName, DynamicKeyVar(endpointName))
		return value, SourceDynamicEnv
	}

	if legacy, ok := legacyKeyVars[endpointName]; ok {
		if value, found := r.lookup(legacy); found && value != "" {
			logrus.Debugf("credentials: %s resolved via legacy %s", endpointName, legacy)
			return value, SourceLegacyEnv
		}
	}

	if value, ok := r.lookup(genericKeyVar); ok && value != "" {
		logrus.Debugf("credentials: %s resolved via %s", endpointName, genericKeyVar)
		return value, SourceGenericEnv
	}

	if cfg.APIKeyLiteral != "" {
		logrus.Debugf("credentials: %s resolved via config file", endpointName)
		return cfg.APIKeyLiteral, SourceConfigFile
	}

	return "", SourceNone
}
