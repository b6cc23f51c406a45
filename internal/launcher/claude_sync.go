package launcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"camgr/internal/endpoint"
)

// ClaudeSettingsPath returns the Claude CLI settings file location.
func ClaudeSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

// SyncClaudeSettings writes the resolved endpoint into the env block of the
// Claude CLI settings file so non-interactive claude invocations pick up the
// same endpoint. Non-ANTHROPIC env keys are preserved. A missing settings
// file means the user has not set Claude up; the sync is skipped.
func SyncClaudeSettings(rc *endpoint.ResolvedConfig, model string) error {
	path, err := ClaudeSettingsPath()
	if err != nil {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Debugf("launcher: %s not present, skipping settings sync", path)
			return nil
		}
		return fmt.Errorf("failed to read Claude settings: %w", err)
	}

	updated, err := UpdateClaudeEnv(string(data), rc, model)
	if err != nil {
		return fmt.Errorf("failed to update Claude settings: %w", err)
	}

	// Atomic replace keeps a concurrently reading claude process from ever
	// seeing a half-written file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(updated), 0600); err != nil {
		return fmt.Errorf("failed to write Claude settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace Claude settings: %w", err)
	}

	logrus.Debugf("launcher: synced Claude settings at %s", path)
	return nil
}

// UpdateClaudeEnv rewrites the env object of a Claude settings document.
// ANTHROPIC_ keys are replaced with the resolved endpoint values, every
// other env key and every field outside env stays untouched.
func UpdateClaudeEnv(content string, rc *endpoint.ResolvedConfig, model string) (string, error) {
	if !gjson.Valid(content) {
		return "", fmt.Errorf("settings file is not valid JSON")
	}

	env := make(map[string]string)
	gjson.Get(content, "env").ForEach(func(key, value gjson.Result) bool {
		if !strings.HasPrefix(strings.ToUpper(key.Str), "ANTHROPIC_") {
			env[key.Str] = value.String()
		}
		return true
	})

	env["ANTHROPIC_BASE_URL"] = rc.URL
	if rc.APIKey != "" {
		env["ANTHROPIC_AUTH_TOKEN"] = rc.APIKey
	}
	if model != "" {
		env["ANTHROPIC_MODEL"] = model
	}

	envJSON, err := json.Marshal(env)
	if err != nil {
		return "", err
	}

	updated, err := sjson.SetRaw(content, "env", string(envJSON))
	if err != nil {
		return "", err
	}

	if err := checkEnvUpdate(content, updated); err != nil {
		return "", err
	}
	return updated, nil
}

// checkEnvUpdate verifies an env rewrite produced valid JSON and kept every
// non-ANTHROPIC env key intact.
func checkEnvUpdate(original, updated string) error {
	if !json.Valid([]byte(updated)) {
		return fmt.Errorf("updated settings are not valid JSON")
	}

	before := gjson.Get(original, "env")
	after := gjson.Get(updated, "env")

	var missing []string
	before.ForEach(func(key, value gjson.Result) bool {
		if strings.HasPrefix(strings.ToUpper(key.Str), "ANTHROPIC_") {
			return true
		}
		if after.Get(key.Str).String() != value.String() {
			missing = append(missing, key.Str)
		}
		return true
	})

	if len(missing) > 0 {
		return fmt.Errorf("env keys changed unexpectedly: %s", strings.Join(missing, ", "))
	}
	return nil
}
