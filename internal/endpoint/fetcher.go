package endpoint

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"camgr/config/models"
	"camgr/config/validation"
)

// DefaultFetchTimeout bounds how long a discovery command may run.
const DefaultFetchTimeout = 60 * time.Second

// selfCommand is the binary name recognized for in-process builtin
// invocations.
const selfCommand = "camgr"

// Environment is the explicit env overlay handed to a discovery command.
// The endpoint URL and credential are exported as `endpoint` and `api_key`;
// proxy variables are kept (plus overlaid) or stripped per KeepProxy.
type Environment struct {
	EndpointURL string
	APIKey      string
	Proxy       models.ProxySettings
	KeepProxy   bool
}

func isProxyVar(key string) bool {
	switch key {
	case "http_proxy", "https_proxy", "no_proxy",
		"HTTP_PROXY", "HTTPS_PROXY", "NO_PROXY":
		return true
	}
	return false
}

// environ builds the subprocess environment from a base environment.
func (e Environment) environ(base []string) []string {
	env := make([]string, 0, len(base)+8)
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if !e.KeepProxy && isProxyVar(key) {
			continue
		}
		if key == "endpoint" || key == "api_key" {
			continue
		}
		env = append(env, kv)
	}

	env = append(env, "endpoint="+e.EndpointURL, "api_key="+e.APIKey)

	if e.KeepProxy {
		for key, value := range e.Proxy.Environ() {
			env = append(env, key+"="+value)
		}
	}
	return env
}

// BuiltinFunc is a model-listing helper executed in-process instead of as a
// subprocess. This is a compatibility/optimization path, not a security
// boundary.
type BuiltinFunc func(ctx context.Context, env Environment) ([]string, error)

// runFunc executes argv with the given environment and reports stdout,
// stderr and the exit code. Spawn failures and deadline hits come back as
// the error.
type runFunc func(ctx context.Context, argv []string, env []string) (stdout, stderr string, exitCode int, err error)

// Fetcher executes discovery commands. Commands must already have passed
// ValidateCommand; Fetcher does not re-validate.
type Fetcher struct {
	Timeout  time.Duration
	run      runFunc
	lookPath func(string) (string, error)
	environ  func() []string
	builtins map[string]BuiltinFunc
}

// NewFetcher creates a Fetcher with the default timeout and no builtins
// registered.
func NewFetcher() *Fetcher {
	return &Fetcher{
		Timeout:  DefaultFetchTimeout,
		run:      runCommand,
		lookPath: exec.LookPath,
		environ:  os.Environ,
		builtins: make(map[string]BuiltinFunc),
	}
}

// RegisterBuiltin installs an in-process helper invoked when a discovery
// command reads `camgr <name> ...`.
func (f *Fetcher) RegisterBuiltin(name string, fn BuiltinFunc) {
	f.builtins[name] = fn
}

// Fetch runs a validated discovery command and returns its raw stdout.
//
// Soft failures (command ran but exited non-zero or printed nothing) return
// ("", nil) so callers can proceed with an empty model list. Hard failures
// (timeout, spawn error) return a KindTimeout/KindExec error so callers can
// fall back to cached data.
func (f *Fetcher) Fetch(ctx context.Context, command string, env Environment) (string, error) {
	tokens, err := shellwords.Parse(command)
	if err != nil || len(tokens) == 0 {
		return "", &Error{
			Kind:     KindExec,
			Severity: SeverityHigh,
			Message:  "failed to tokenize discovery command",
			Command:  command,
			Err:      err,
		}
	}

	// In-process shortcut for the built-in listing helpers.
	if len(tokens) >= 2 && tokens[0] == selfCommand {
		if builtin, ok := f.builtins[tokens[1]]; ok {
			bctx, cancel := context.WithTimeout(ctx, f.Timeout)
			defer cancel()

			ids, err := builtin(bctx, env)
			if err != nil {
				logrus.Warnf("fetcher: builtin %s failed: %v", tokens[1], err)
				return "", nil
			}
			return strings.Join(ids, "\n"), nil
		}
	}

	// A first token that is not on PATH means the configured value is a
	// literal space-separated model list, not a command.
	if _, err := f.lookPath(tokens[0]); err != nil {
		logrus.Debugf("fetcher: %q not found on PATH, treating command as a literal model list", tokens[0])
		return strings.Join(tokens, " "), nil
	}

	rctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	stdout, stderr, exitCode, runErr := f.run(rctx, tokens, env.environ(f.environ()))
	if runErr != nil {
		if errors.Is(runErr, context.DeadlineExceeded) {
			return "", &Error{
				Kind:     KindTimeout,
				Severity: SeverityHigh,
				Message:  "model fetch command timed out",
				Command:  command,
				Err:      runErr,
				Suggestions: []string{
					"Check network connectivity",
					"Verify the endpoint is responsive",
					"Check if the endpoint requires authentication",
				},
			}
		}
		return "", &Error{
			Kind:     KindExec,
			Severity: SeverityHigh,
			Message:  "failed to execute model fetch command",
			Command:  command,
			Err:      runErr,
			Suggestions: []string{
				"Check that the configured command exists and is executable",
			},
		}
	}

	if exitCode != 0 {
		logrus.Warnf("fetcher: command failed with exit code %d", exitCode)
		if stderr != "" {
			logrus.Warnf("fetcher: command stderr: %s", strings.TrimSpace(stderr))
		}
		return "", nil
	}

	output := strings.TrimSpace(stdout)
	if output == "" {
		logrus.Warn("fetcher: command returned no output")
		return "", nil
	}
	return output, nil
}

// runCommand is the production runFunc: argv execution, no shell.
func runCommand(ctx context.Context, argv []string, env []string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return stdout.String(), stderr.String(), -1, ctx.Err()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), stderr.String(), exitErr.ExitCode(), nil
		}
		return stdout.String(), stderr.String(), -1, err
	}
	return stdout.String(), stderr.String(), 0, nil
}

// ParseModels extracts model IDs from raw discovery command output. JSON in
// the OpenAI list shape ({"data":[{"id":...}]}) or a bare array of
// {"id":...} objects is tried first; anything else falls back to
// whitespace/newline token parsing. Invalid IDs are dropped, order and
// duplicates are preserved.
func ParseModels(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if gjson.Valid(raw) {
		doc := gjson.Parse(raw)

		var items gjson.Result
		switch {
		case doc.IsObject() && doc.Get("data").IsArray():
			items = doc.Get("data")
		case doc.IsArray():
			items = doc
		}

		if items.IsArray() {
			var ids []string
			items.ForEach(func(_, item gjson.Result) bool {
				if id := item.Get("id"); id.Exists() {
					if s := id.String(); validation.ValidateModelID(s) {
						ids = append(ids, s)
					}
				}
				return true
			})
			if len(ids) > 0 {
				return ids
			}
		}
	}

	return parseTextModels(raw)
}

// parseTextModels splits output on newlines then whitespace, keeping tokens
// that satisfy the model-ID grammar. Output that looks like an error
// message yields nothing.
func parseTextModels(raw string) []string {
	lowered := strings.ToLower(raw)
	if strings.Contains(lowered, "error") || strings.Contains(lowered, "expected") {
		return nil
	}

	var ids []string
	for _, line := range strings.Split(raw, "\n") {
		for _, token := range strings.Fields(line) {
			if validation.ValidateModelID(token) {
				ids = append(ids, token)
			}
		}
	}
	return ids
}
