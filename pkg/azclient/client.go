// Package azclient provides the main entry point for creating Azure
// management and Graph API clients.
package azclient

import (
	"fmt"
	"strings"

	"github.com/azw-io/azapi/internal/auth"
	"github.com/azw-io/azapi/internal/client"
	"github.com/azw-io/azapi/internal/constants"
	"github.com/azw-io/azapi/pkg/azapi"
)

// New creates a client, filling credentials from the environment when the
// config leaves them unset and defaulting endpoints and the authority. No
// token is acquired here; acquisition is lazy, once per API type.
func New(config *azapi.Config) (azapi.Client, error) {
	if config == nil {
		return nil, azapi.ErrConfigRequired
	}

	if config.ClientID == "" || config.ClientSecret == "" || config.TenantID == "" {
		creds, err := auth.CredentialsFromEnv()
		if err != nil {
			return nil, err
		}

		if config.ClientID == "" {
			config.ClientID = creds.ClientID
		}

		if config.ClientSecret == "" {
			config.ClientSecret = creds.ClientSecret
		}

		if config.TenantID == "" {
			config.TenantID = creds.TenantID
		}
	}

	if config.ManagementEndpoint == "" {
		config.ManagementEndpoint = constants.ManagementEndpoint
	}

	if config.GraphEndpoint == "" {
		config.GraphEndpoint = constants.GraphEndpoint
	}

	config.ManagementEndpoint = normalizeEndpoint(config.ManagementEndpoint)
	config.GraphEndpoint = normalizeEndpoint(config.GraphEndpoint)

	apiClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

// NewFromEnv creates a client configured entirely from the ARM_* environment
// variables.
func NewFromEnv() (azapi.Client, error) {
	return New(&azapi.Config{})
}

// normalizeEndpoint trims a trailing slash and adds https:// when no scheme
// is present.
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}
