// Package client implements the REST and Graph dispatchers behind the
// azapi.Client interface.
package client

import (
	"context"
	"fmt"

	"github.com/azw-io/azapi/internal/auth"
	"github.com/azw-io/azapi/internal/cachestore"
	"github.com/azw-io/azapi/internal/constants"
	"github.com/azw-io/azapi/internal/http"
	"github.com/azw-io/azapi/pkg/azapi"
)

// Client implements the azapi.Client interface.
type Client struct {
	rest   *RESTClient
	graph  *GraphClient
	tokens map[azapi.APIType]auth.TokenManager
	logger azapi.Logger
}

// New creates a client from a fully resolved config (see azclient.New for
// defaulting and credential loading). Building the client performs no
// network I/O; tokens are acquired lazily on the first call per API type.
func New(config *azapi.Config) (*Client, error) {
	creds := auth.Credentials{
		ClientID:      config.ClientID,
		ClientSecret:  config.ClientSecret,
		TenantID:      config.TenantID,
		AuthorityHost: config.Authority,
	}

	client := &Client{
		tokens: make(map[azapi.APIType]auth.TokenManager),
		logger: config.Logger,
	}

	for _, apiType := range []azapi.APIType{azapi.APITypeREST, azapi.APITypeGraph} {
		store, err := cachestore.New(config.Cache, apiType)
		if err != nil {
			return nil, fmt.Errorf("building %s token cache store: %w", apiType, err)
		}

		manager, err := auth.NewClientCredentialsManager(creds, apiType, store)
		if err != nil {
			return nil, fmt.Errorf("building %s token manager: %w", apiType, err)
		}

		client.tokens[apiType] = manager
	}

	httpOpts := buildHTTPOptions(config)

	client.rest = &RESTClient{
		httpClient: http.NewClient(config.ManagementEndpoint, client.tokens[azapi.APITypeREST], httpOpts...),
		baseURL:    config.ManagementEndpoint,
		logger:     config.Logger,
	}
	client.graph = &GraphClient{
		httpClient: http.NewClient(config.GraphEndpoint, client.tokens[azapi.APITypeGraph], httpOpts...),
		baseURL:    config.GraphEndpoint,
		logger:     config.Logger,
	}

	return client, nil
}

// buildHTTPOptions translates config into HTTP layer options.
func buildHTTPOptions(config *azapi.Config) []http.Option {
	var opts []http.Option

	if config.Logger != nil {
		opts = append(opts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		opts = append(opts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		waitMin := constants.DefaultRetryWaitMin
		waitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			waitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			waitMax = config.RetryWaitMax
		}

		opts = append(opts, http.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	}

	return opts
}

// REST implements azapi.Client.REST.
func (c *Client) REST() azapi.RESTClient {
	return c.rest
}

// Graph implements azapi.Client.Graph.
func (c *Client) Graph() azapi.GraphClient {
	return c.graph
}

// Token implements azapi.Client.Token.
func (c *Client) Token(ctx context.Context, apiType azapi.APIType) (string, error) {
	manager, ok := c.tokens[apiType]
	if !ok || manager == nil {
		return "", azapi.ErrNoTokenManager
	}

	token, err := manager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// loggerAdapter adapts azapi.Logger to http.Logger.
type loggerAdapter struct {
	logger azapi.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
