package modelapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopilotBaseURL(t *testing.T) {
	assert.Equal(t, "https://api.githubcopilot.com", CopilotBaseURL(""))
	assert.Equal(t, "https://api.githubcopilot.com", CopilotBaseURL("individual"))
	assert.Equal(t, "https://api.business.githubcopilot.com", CopilotBaseURL("business"))
	assert.Equal(t, "https://api.enterprise.githubcopilot.com", CopilotBaseURL("enterprise"))
}

func TestCopilotToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token github-token-123", r.Header.Get("authorization"))
		w.Write([]byte(`{"token": "copilot-bearer-456", "expires_at": 1700000000}`))
	}))
	defer server.Close()

	client := NewCopilotClient("github-token-123")
	client.tokenURL = server.URL

	token, err := client.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "copilot-bearer-456", token)
}

func TestCopilotTokenMissingFromResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewCopilotClient("github-token-123")
	client.tokenURL = server.URL

	_, err := client.Token(context.Background())
	require.Error(t, err)
}

func TestCopilotTokenBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewCopilotClient("bad-token")
	client.tokenURL = server.URL

	_, err := client.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestCopilotModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "Bearer copilot-bearer-456", r.Header.Get("Authorization"))
		assert.Equal(t, "vscode-chat", r.Header.Get("copilot-integration-id"))
		assert.NotEmpty(t, r.Header.Get("x-request-id"))
		w.Write([]byte(`{"data": [{"id": "gpt-4"}, {"id": "claude-3.5-sonnet"}, {"name": "no-id"}]}`))
	}))
	defer server.Close()

	client := NewCopilotClient("github-token-123")
	client.apiBase = server.URL

	ids, err := client.Models(context.Background(), "copilot-bearer-456")
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4", "claude-3.5-sonnet"}, ids)
}
