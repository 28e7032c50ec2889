package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/azw-io/azapi/internal/constants"
	azhttp "github.com/azw-io/azapi/internal/http"
	"github.com/azw-io/azapi/pkg/azapi"
)

// GraphClient implements azapi.GraphClient against the Microsoft Graph API.
type GraphClient struct {
	httpClient *azhttp.Client
	baseURL    string
	logger     azapi.Logger
}

// Do implements azapi.GraphClient.Do.
func (c *GraphClient) Do(ctx context.Context, request *azapi.GraphRequest) (*azapi.Result, error) {
	if request.Resource == "" {
		return nil, azapi.ErrResourceRequired
	}

	requestURL := c.buildURL(request)

	if c.logger != nil {
		c.logger.Debug("request URL", map[string]interface{}{
			"verb": verbOrGet(request.Verb),
			"url":  requestURL,
		})
	}

	resp, err := c.httpClient.Do(ctx, &azhttp.Request{
		Method: verbOrGet(request.Verb),
		Path:   requestURL,
		Body:   request.Body,
	})
	if resp == nil {
		return nil, err
	}

	result := newResult(resp)

	if apiErr := classify(result, err); apiErr != nil {
		return result, apiErr
	}

	err = paginate(ctx, c.httpClient, result, graphNextLink)
	if err != nil {
		return result, fmt.Errorf("fetching continuation pages: %w", err)
	}

	return result, nil
}

// Get implements azapi.GraphClient.Get.
func (c *GraphClient) Get(ctx context.Context, resource, filter string) (*azapi.Result, error) {
	return c.Do(ctx, &azapi.GraphRequest{
		Resource: resource,
		Filter:   filter,
	})
}

// buildURL assembles the Graph request URL. A resource carrying a skiptoken
// is the full next-page URL already and is used verbatim.
func (c *GraphClient) buildURL(request *azapi.GraphRequest) string {
	if strings.Contains(request.Resource, constants.SkipTokenMarker) {
		return request.Resource
	}

	apiVersion := request.APIVersion
	if apiVersion == "" {
		apiVersion = constants.DefaultGraphVersion
	}

	requestURL := fmt.Sprintf("%s/%s/%s", c.baseURL, apiVersion, request.Resource)

	if request.Filter != "" {
		requestURL += "?$filter=" + url.QueryEscape(request.Filter)
	}

	return requestURL
}
