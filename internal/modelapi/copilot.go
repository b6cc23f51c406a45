// Package modelapi implements the built-in model listing helpers for the
// GitHub Copilot and LiteLLM provider APIs. They back the `camgr
// copilot-models` / `camgr litellm-models` subcommands and are also called
// in-process by the model fetcher.
package modelapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"camgr/internal/envfile"
)

const (
	copilotPluginVersion = "copilot-chat/0.26.7"
	copilotUserAgent     = "GitHubCopilotChat/0.26.7"
	copilotAPIVersion    = "2025-04-01"

	copilotTokenURL = "https://api.github.com/copilot_internal/v2/token"
)

// CopilotBaseURL returns the Copilot API base for an account type.
// Individual accounts use the plain host, business/enterprise accounts a
// type-specific subdomain.
func CopilotBaseURL(accountType string) string {
	if accountType == "" || accountType == "individual" {
		return "https://api.githubcopilot.com"
	}
	return fmt.Sprintf("https://api.%s.githubcopilot.com", accountType)
}

// CopilotClient exchanges a GitHub token for a Copilot bearer token and
// lists the models available to it.
type CopilotClient struct {
	httpClient  *http.Client
	githubToken string
	tokenURL    string
	apiBase     string
}

// NewCopilotClient creates a client for an individual Copilot account.
func NewCopilotClient(githubToken string) *CopilotClient {
	return &CopilotClient{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		githubToken: githubToken,
		tokenURL:    copilotTokenURL,
		apiBase:     CopilotBaseURL("individual"),
	}
}

// Token calls the GitHub API to mint a short-lived Copilot bearer token.
func (c *CopilotClient) Token(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tokenURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", "token "+c.githubToken)
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("user-agent", "camgr-models-fetcher/1.0")

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("failed to obtain Copilot token: %w", err)
	}

	token := gjson.GetBytes(body, "token").String()
	if token == "" {
		return "", errors.New("Copilot token response contained no token")
	}
	return token, nil
}

// Models lists the model IDs available to a Copilot bearer token.
func (c *CopilotClient) Models(ctx context.Context, copilotToken string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/models", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+copilotToken)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("copilot-integration-id", "vscode-chat")
	req.Header.Set("editor-version", "vscode/1.0.1")
	req.Header.Set("editor-plugin-version", copilotPluginVersion)
	req.Header.Set("user-agent", copilotUserAgent)
	req.Header.Set("openai-intent", "conversation-panel")
	req.Header.Set("x-github-api-version", copilotAPIVersion)
	req.Header.Set("x-request-id", uuid.NewString())

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Copilot models: %w", err)
	}

	var ids []string
	gjson.GetBytes(body, "data").ForEach(func(_, item gjson.Result) bool {
		if id := item.Get("id").String(); id != "" {
			ids = append(ids, id)
		}
		return true
	})
	return ids, nil
}

func (c *CopilotClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}
	return body, nil
}

// ListCopilotModels lists the GitHub Copilot models available to the
// GITHUB_TOKEN in the environment, loading .env files first.
func ListCopilotModels(ctx context.Context) ([]string, error) {
	envfile.Load("", false)

	githubToken := os.Getenv("GITHUB_TOKEN")
	if githubToken == "" {
		return nil, errors.New("GITHUB_TOKEN environment variable is required")
	}

	client := NewCopilotClient(githubToken)

	copilotToken, err := client.Token(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := client.Models(ctx, copilotToken)
	if err != nil {
		return nil, err
	}

	logrus.Debugf("modelapi: found %d Copilot models", len(ids))
	return ids, nil
}
