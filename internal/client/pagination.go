package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	azhttp "github.com/azw-io/azapi/internal/http"
	"github.com/azw-io/azapi/pkg/azapi"
)

// collectionPage is the shape of one page of a paged collection.
type collectionPage struct {
	Value         []json.RawMessage `json:"value"`
	NextLink      string            `json:"nextLink"`
	ODataNextLink string            `json:"@odata.nextLink"`
}

// restNextLink picks the Resource Manager continuation link.
func restNextLink(page *collectionPage) string {
	return page.NextLink
}

// graphNextLink picks the OData continuation link.
func graphNextLink(page *collectionPage) string {
	return page.ODataNextLink
}

// paginate detects a paged collection in the result and accumulates every
// remaining page into result.Values with an iterative loop, so arbitrarily
// deep paging costs no call-stack depth. Non-collection results are left
// untouched. Depth is bounded only by how many pages the server reports.
func paginate(ctx context.Context, httpClient *azhttp.Client, result *azapi.Result, nextLink func(*collectionPage) string) error {
	if result.JSON == nil {
		return nil
	}

	var page collectionPage

	if err := json.Unmarshal(result.JSON, &page); err != nil {
		// Valid JSON that is not an object (e.g. a bare array) is a
		// non-collection response.
		return nil
	}

	if page.Value == nil {
		return nil
	}

	result.Values = page.Value

	for link := nextLink(&page); link != ""; {
		resp, err := httpClient.Do(ctx, &azhttp.Request{
			Method: http.MethodGet,
			Path:   link,
		})
		if err != nil {
			return err
		}

		page = collectionPage{}
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return errors.New("continuation page is not a collection")
		}

		result.Values = append(result.Values, page.Value...)
		link = nextLink(&page)
	}

	return nil
}

// newResult classifies the response body shape.
func newResult(resp *azhttp.Response) *azapi.Result {
	result := &azapi.Result{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Raw:        resp.Body,
	}

	if len(resp.Body) > 0 && json.Valid(resp.Body) {
		result.JSON = resp.Body
	}

	return result
}

// classify surfaces the structured API error for a result, whether the HTTP
// layer already parsed it from a failure status or the body carries an error
// envelope despite a success status.
func classify(result *azapi.Result, httpErr error) error {
	apiErr := &azapi.APIError{}
	if errors.As(httpErr, &apiErr) {
		return apiErr
	}

	if httpErr != nil {
		return httpErr
	}

	if result.JSON != nil {
		if apiErr := azapi.ParseResponseError(result.JSON); apiErr != nil {
			return apiErr
		}
	}

	return nil
}
