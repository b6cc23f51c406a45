package endpoint

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camgr/config/models"
)

func newTestFetcher(run runFunc) *Fetcher {
	return &Fetcher{
		Timeout:  time.Second,
		run:      run,
		lookPath: func(name string) (string, error) { return "/usr/bin/" + name, nil },
		environ:  func() []string { return nil },
		builtins: make(map[string]BuiltinFunc),
	}
}

func TestFetchReturnsStdout(t *testing.T) {
	var gotArgv []string
	f := newTestFetcher(func(ctx context.Context, argv []string, env []string) (string, string, int, error) {
		gotArgv = argv
		return "model1\nmodel2\n", "", 0, nil
	})

	output, err := f.Fetch(context.Background(), "curl https://api.example.com/v1/models", Environment{})
	require.NoError(t, err)
	assert.Equal(t, "model1\nmodel2", output)
	assert.Equal(t, []string{"curl", "https://api.example.com/v1/models"}, gotArgv)
}

func TestFetchTokenizeFailure(t *testing.T) {
	f := newTestFetcher(nil)

	_, err := f.Fetch(context.Background(), `curl "unterminated`, Environment{})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindExec))
}

func TestFetchTimeoutIsHardFailure(t *testing.T) {
	f := newTestFetcher(func(ctx context.Context, argv []string, env []string) (string, string, int, error) {
		return "", "", -1, context.DeadlineExceeded
	})

	_, err := f.Fetch(context.Background(), "curl https://slow.example.com/v1/models", Environment{})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTimeout))
}

func TestFetchSpawnErrorIsHardFailure(t *testing.T) {
	f := newTestFetcher(func(ctx context.Context, argv []string, env []string) (string, string, int, error) {
		return "", "", -1, errors.New("fork failed")
	})

	_, err := f.Fetch(context.Background(), "curl https://api.example.com/v1/models", Environment{})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindExec))
}

func TestFetchNonZeroExitIsSoftFailure(t *testing.T) {
	f := newTestFetcher(func(ctx context.Context, argv []string, env []string) (string, string, int, error) {
		return "", "connection refused", 7, nil
	})

	output, err := f.Fetch(context.Background(), "curl https://api.example.com/v1/models", Environment{})
	assert.NoError(t, err)
	assert.Equal(t, "", output)
}

func TestFetchEmptyOutputIsSoftFailure(t *testing.T) {
	f := newTestFetcher(func(ctx context.Context, argv []string, env []string) (string, string, int, error) {
		return "   \n", "", 0, nil
	})

	output, err := f.Fetch(context.Background(), "curl https://api.example.com/v1/models", Environment{})
	assert.NoError(t, err)
	assert.Equal(t, "", output)
}

func TestFetchLiteralModelList(t *testing.T) {
	f := newTestFetcher(func(ctx context.Context, argv []string, env []string) (string, string, int, error) {
		t.Fatal("nothing should be executed for a literal model list")
		return "", "", 0, nil
	})
	f.lookPath = func(name string) (string, error) { return "", errors.New("not found") }

	output, err := f.Fetch(context.Background(), "model-a model-b", Environment{})
	require.NoError(t, err)
	assert.Equal(t, "model-a model-b", output)
}

func TestFetchBuiltinRunsInProcess(t *testing.T) {
	executed := false
	f := newTestFetcher(func(ctx context.Context, argv []string, env []string) (string, string, int, error) {
		t.Fatal("builtin commands must not spawn a subprocess")
		return "", "", 0, nil
	})

	var gotEnv Environment
	f.RegisterBuiltin("litellm-models", func(ctx context.Context, env Environment) ([]string, error) {
		executed = true
		gotEnv = env
		return []string{"model1", "model2"}, nil
	})

	env := Environment{EndpointURL: "http://localhost:4000", APIKey: "secret-key-123"}
	output, err := f.Fetch(context.Background(), "camgr litellm-models", env)
	require.NoError(t, err)
	assert.True(t, executed)
	assert.Equal(t, "model1\nmodel2", output)
	assert.Equal(t, env, gotEnv)
}

func TestFetchBuiltinFailureIsSoft(t *testing.T) {
	f := newTestFetcher(nil)
	f.RegisterBuiltin("copilot-models", func(ctx context.Context, env Environment) ([]string, error) {
		return nil, errors.New("token exchange failed")
	})

	output, err := f.Fetch(context.Background(), "camgr copilot-models", Environment{})
	assert.NoError(t, err)
	assert.Equal(t, "", output)
}

func TestEnvironOverlay(t *testing.T) {
	base := []string{
		"PATH=/usr/bin",
		"http_proxy=http://old-proxy:3128",
		"HTTPS_PROXY=http://old-proxy:3128",
		"endpoint=http://stale.example.com",
		"api_key=stale-key",
	}

	t.Run("proxy stripped by default", func(t *testing.T) {
		env := Environment{EndpointURL: "http://localhost:4000", APIKey: "fresh-key"}
		result := env.environ(base)

		assert.Contains(t, result, "PATH=/usr/bin")
		assert.Contains(t, result, "endpoint=http://localhost:4000")
		assert.Contains(t, result, "api_key=fresh-key")
		assert.NotContains(t, result, "http_proxy=http://old-proxy:3128")
		assert.NotContains(t, result, "HTTPS_PROXY=http://old-proxy:3128")
		assert.NotContains(t, result, "endpoint=http://stale.example.com")
		assert.NotContains(t, result, "api_key=stale-key")
	})

	t.Run("proxy kept and overlaid with KeepProxy", func(t *testing.T) {
		env := Environment{
			EndpointURL: "http://localhost:4000",
			KeepProxy:   true,
			Proxy:       models.ProxySettings{HTTPProxy: "http://new-proxy:3128"},
		}
		result := env.environ(base)

		assert.Contains(t, result, "HTTPS_PROXY=http://old-proxy:3128")
		assert.Contains(t, result, "http_proxy=http://new-proxy:3128")
		assert.Contains(t, result, "HTTP_PROXY=http://new-proxy:3128")
	})
}

func TestParseModels(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "openai data shape",
			raw:      `{"data":[{"id":"gpt-4"},{"id":"gpt-3.5-turbo"}]}`,
			expected: []string{"gpt-4", "gpt-3.5-turbo"},
		},
		{
			name:     "invalid ids dropped from json",
			raw:      `{"data":[{"id":"gpt-4"},{"id":"bad id"}]}`,
			expected: []string{"gpt-4"},
		},
		{
			name:     "bare array of objects",
			raw:      `[{"id":"model-a"},{"id":"model-b"}]`,
			expected: []string{"model-a", "model-b"},
		},
		{
			name:     "newline separated text",
			raw:      "model1\nmodel2\nmodel3",
			expected: []string{"model1", "model2", "model3"},
		},
		{
			name:     "space separated text",
			raw:      "model1 model2",
			expected: []string{"model1", "model2"},
		},
		{
			name:     "duplicates and order preserved",
			raw:      "model-b\nmodel-a\nmodel-b",
			expected: []string{"model-b", "model-a", "model-b"},
		},
		{
			name:     "error output yields nothing",
			raw:      "Error: connection refused",
			expected: nil,
		},
		{
			name:     "empty input",
			raw:      "",
			expected: nil,
		},
		{
			name:     "invalid tokens dropped from text",
			raw:      "model1 not|a|model model2",
			expected: []string{"model1", "model2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseModels(tt.raw))
		})
	}
}
