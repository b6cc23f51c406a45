// Package launcher starts coding-assistant CLIs with the environment a
// resolved endpoint prescribes.
package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"camgr/internal/endpoint"
	"camgr/internal/utils"
)

// secretVars lists environment keys whose values are masked when the launch
// command is echoed.
var secretVars = map[string]bool{
	"ANTHROPIC_AUTH_TOKEN": true,
	"OPENAI_API_KEY":       true,
	"GEMINI_API_KEY":       true,
}

// Launcher builds per-client environments and executes the client binary
// with stdio passed through.
type Launcher struct {
	run      func(ctx context.Context, argv []string, env []string) error
	lookPath func(string) (string, error)
	environ  func() []string
}

// New creates a Launcher that executes real processes.
func New() *Launcher {
	return &Launcher{
		run:      runInteractive,
		lookPath: exec.LookPath,
		environ:  os.Environ,
	}
}

// Invocation is a fully prepared client launch: the argv to execute and the
// environment overlay to apply on top of the process environment.
type Invocation struct {
	Argv []string
	Env  map[string]string
}

// BuildInvocation maps a client name to its launch recipe. The model is the
// one the user selected for this session.
func BuildInvocation(client string, rc *endpoint.ResolvedConfig, model string, extraArgs []string) (*Invocation, error) {
	switch client {
	case "claude":
		return claudeInvocation(rc, model, extraArgs), nil
	case "codex":
		return codexInvocation(rc, model, extraArgs), nil
	case "gemini":
		return geminiInvocation(rc, model, extraArgs), nil
	}
	return nil, &endpoint.Error{
		Kind:     endpoint.KindValidation,
		Severity: endpoint.SeverityHigh,
		Message:  "unsupported client: " + client,
		Suggestions: []string{
			"Supported clients: claude, codex, gemini",
		},
	}
}

func claudeInvocation(rc *endpoint.ResolvedConfig, model string, extraArgs []string) *Invocation {
	env := map[string]string{
		"ANTHROPIC_BASE_URL":                       rc.URL,
		"ANTHROPIC_AUTH_TOKEN":                     rc.APIKey,
		"ANTHROPIC_MODEL":                          model,
		"ANTHROPIC_SMALL_FAST_MODEL":               model,
		"ANTHROPIC_DEFAULT_SONNET_MODEL":           model,
		"ANTHROPIC_DEFAULT_HAIKU_MODEL":            model,
		"DISABLE_NON_ESSENTIAL_MODEL_CALLS":        "1",
		"CLAUDE_CODE_DISABLE_NONESSENTIAL_TRAFFIC": "1",
	}
	return &Invocation{
		Argv: append([]string{"claude"}, extraArgs...),
		Env:  env,
	}
}

func codexInvocation(rc *endpoint.ResolvedConfig, model string, extraArgs []string) *Invocation {
	argv := []string{
		"codex",
		"-c", "model_providers.custom.name=custom",
		"-c", "model_providers.custom.base_url=" + rc.URL,
		"-c", "profiles.custom.model=" + model,
		"-c", "profiles.custom.model_provider=custom",
		"-c", "model_providers.custom.env_key=OPENAI_API_KEY",
		"-p", "custom",
	}
	return &Invocation{
		Argv: append(argv, extraArgs...),
		Env: map[string]string{
			"BASE_URL":       rc.URL,
			"OPENAI_API_KEY": rc.APIKey,
		},
	}
}

func geminiInvocation(rc *endpoint.ResolvedConfig, model string, extraArgs []string) *Invocation {
	argv := []string{"gemini"}
	if model != "" {
		argv = append(argv, "-m", model)
	}
	return &Invocation{
		Argv: append(argv, extraArgs...),
		Env: map[string]string{
			"GEMINI_BASE_URL": rc.URL,
			"GEMINI_API_KEY":  rc.APIKey,
		},
	}
}

// Launch builds the invocation for a client, applies the proxy overlay, and
// runs the client with the caller's stdio. The echoed command masks secret
// values.
func (l *Launcher) Launch(ctx context.Context, client string, rc *endpoint.ResolvedConfig, model string, extraArgs []string) error {
	inv, err := BuildInvocation(client, rc, model, extraArgs)
	if err != nil {
		return err
	}

	if _, err := l.lookPath(inv.Argv[0]); err != nil {
		return &endpoint.Error{
			Kind:     endpoint.KindExec,
			Severity: endpoint.SeverityMedium,
			Message:  inv.Argv[0] + " not found on PATH",
			Err:      err,
			Suggestions: []string{
				"Install the " + client + " CLI and ensure it is on PATH",
			},
		}
	}

	overlay := make(map[string]string, len(inv.Env)+6)
	for key, value := range inv.Env {
		overlay[key] = value
	}
	if rc.UseProxy {
		for key, value := range rc.Proxy.Environ() {
			overlay[key] = value
		}
	}

	fmt.Println()
	fmt.Println("Launching:")
	fmt.Println("  " + echoCommand(inv.Argv, overlay))
	fmt.Println()

	env := mergeEnviron(l.environ(), overlay)
	logrus.Debugf("launcher: starting %s against %s", client, rc.URL)
	return l.run(ctx, inv.Argv, env)
}

// echoCommand renders the launch command with secrets masked.
func echoCommand(argv []string, overlay map[string]string) string {
	keys := make([]string, 0, len(overlay))
	for key := range overlay {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		value := overlay[key]
		if secretVars[key] {
			value = utils.MaskAPIKey(value)
		}
		b.WriteString(key + "=" + value + " ")
	}
	b.WriteString(strings.Join(argv, " "))
	return b.String()
}

// mergeEnviron overlays key=value pairs onto a base environment, replacing
// existing keys.
func mergeEnviron(base []string, overlay map[string]string) []string {
	env := make([]string, 0, len(base)+len(overlay))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, replaced := overlay[key]; replaced {
			continue
		}
		env = append(env, kv)
	}

	keys := make([]string, 0, len(overlay))
	for key := range overlay {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		env = append(env, key+"="+overlay[key])
	}
	return env
}

// runInteractive executes argv with the caller's terminal attached.
func runInteractive(ctx context.Context, argv []string, env []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
