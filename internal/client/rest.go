package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/azw-io/azapi/internal/constants"
	azhttp "github.com/azw-io/azapi/internal/http"
	"github.com/azw-io/azapi/pkg/azapi"
)

// RESTClient implements azapi.RESTClient against the Resource Manager API.
type RESTClient struct {
	httpClient *azhttp.Client
	baseURL    string
	logger     azapi.Logger
}

// Do implements azapi.RESTClient.Do.
func (c *RESTClient) Do(ctx context.Context, request *azapi.RESTRequest) (*azapi.Result, error) {
	if request.URL == "" && request.Resource == "" {
		return nil, azapi.ErrResourceRequired
	}

	if request.URL == "" && !strings.Contains(request.Resource, constants.SkipTokenMarker) && request.APIVersion == "" {
		return nil, azapi.ErrAPIVersionRequired
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
		// Network failure: no response to classify, even for callers that
		// suppress API errors.
		return nil, err
	}

	result := newResult(resp)

	if apiErr := classify(result, err); apiErr != nil {
		return result, apiErr
	}

	err = paginate(ctx, c.httpClient, result, restNextLink)
	if err != nil {
		return result, fmt.Errorf("fetching continuation pages: %w", err)
	}

	return result, nil
}

// Get implements azapi.RESTClient.Get.
func (c *RESTClient) Get(ctx context.Context, apiVersion, resource, scope string) (*azapi.Result, error) {
	return c.Do(ctx, &azapi.RESTRequest{
		APIVersion: apiVersion,
		Resource:   resource,
		Scope:      scope,
	})
}

// Delete implements azapi.RESTClient.Delete.
func (c *RESTClient) Delete(ctx context.Context, apiVersion, resource, scope string) (*azapi.Result, error) {
	return c.Do(ctx, &azapi.RESTRequest{
		APIVersion: apiVersion,
		Resource:   resource,
		Scope:      scope,
		Verb:       http.MethodDelete,
	})
}

// buildURL applies the URL construction rules, in priority order: explicit
// URL, continuation passthrough, then assembly from scope and resource.
func (c *RESTClient) buildURL(request *azapi.RESTRequest) string {
	if request.URL != "" {
		if strings.Contains(request.URL, c.baseURL) {
			return request.URL
		}

		target := request.URL
		if !strings.HasPrefix(target, "/") {
			target = "/" + target
		}

		return c.baseURL + target
	}

	// A resource carrying a skiptoken is the full next-page URL already.
	if strings.Contains(request.Resource, constants.SkipTokenMarker) {
		return request.Resource
	}

	if request.Scope != "" {
		scope := request.Scope
		if !strings.HasPrefix(scope, "/") {
			scope = "/" + scope
		}

		return fmt.Sprintf("%s%s/providers/%s?api-version=%s", c.baseURL, scope, request.Resource, request.APIVersion)
	}

	return fmt.Sprintf("%s/%s?api-version=%s", c.baseURL, request.Resource, request.APIVersion)
}

func verbOrGet(verb string) string {
	if verb == "" {
		return http.MethodGet
	}

	return verb
}
