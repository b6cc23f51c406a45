package modelapi

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"camgr/internal/envfile"
)

// defaultLitellmBaseURL is used when no endpoint URL reaches the helper.
const defaultLitellmBaseURL = "https://10.189.8.10:4142"

// LitellmClient lists the models a LiteLLM proxy exposes to an API key.
type LitellmClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewLitellmClient creates a client for a LiteLLM proxy. LiteLLM
// deployments commonly sit behind self-signed certificates, so
// verification is skipped.
func NewLitellmClient(baseURL, apiKey string) *LitellmClient {
	return &LitellmClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Models lists the model IDs the proxy routes for this key.
func (c *LitellmClient) Models(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models", nil)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("return_wildcard_routes", "false")
	query.Set("include_model_access_groups", "false")
	query.Set("only_model_access_groups", "false")
	req.URL.RawQuery = query.Encode()

	req.Header.Set("accept", "application/json")
	req.Header.Set("x-litellm-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch LiteLLM models: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from LiteLLM", resp.StatusCode)
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

// ListLitellmModels lists the models a LiteLLM proxy exposes. The base URL
// and key fall back to the environment, then to the built-in default base.
func ListLitellmModels(ctx context.Context, baseURL, apiKey string) ([]string, error) {
	envfile.Load("", false)

	if baseURL == "" {
		baseURL = os.Getenv("endpoint")
	}
	if baseURL == "" {
		baseURL = defaultLitellmBaseURL
	}
	if apiKey == "" {
		apiKey = os.Getenv("API_KEY_LITELLM")
	}
	if apiKey == "" {
		return nil, errors.New("API_KEY_LITELLM environment variable is required")
	}

	ids, err := NewLitellmClient(baseURL, apiKey).Models(ctx)
	if err != nil {
		return nil, err
	}

	logrus.Debugf("modelapi: found %d LiteLLM models", len(ids))
	return ids, nil
}
