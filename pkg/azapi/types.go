package azapi

import (
	"encoding/json"
	"net/http"
)

// RESTRequest describes one call against the Resource Manager API.
//
// URL construction, in priority order:
//  1. URL set: used as-is when it already carries the management host
//     prefix, otherwise the prefix is prepended.
//  2. Resource containing a "skiptoken" continuation marker: Resource is
//     the full next-page URL and is used verbatim.
//  3. Otherwise the URL is assembled from Scope (normalized to a leading
//     slash), Resource, and APIVersion:
//     <prefix><scope>/providers/<resource>?api-version=<version>, or
//     <prefix>/<resource>?api-version=<version> without a scope.
type RESTRequest struct {
	// APIVersion is the management API version, e.g. "2022-07-01".
	APIVersion string
	// Resource is the provider path, e.g.
	// "Microsoft.Network/virtualNetworks/myVnet".
	Resource string
	// Scope is the management hierarchy path the resource lives under, e.g.
	// "/subscriptions/{id}" or
	// "/subscriptions/{id}/resourceGroups/{name}".
	Scope string
	// Verb is the HTTP method. Empty means GET.
	Verb string
	// URL is a full request URL used instead of Scope and Resource.
	URL string
	// Body is marshaled to JSON and sent as the request body when non-nil.
	Body interface{}
}

// GraphRequest describes one call against the Graph API.
type GraphRequest struct {
	// Resource is the directory path, e.g. "users" or "groups/{id}/members".
	Resource string
	// Verb is the HTTP method. Empty means GET.
	Verb string
	// APIVersion is the Graph API version. Empty means "v1.0".
	APIVersion string
	// Filter is an OData $filter expression, e.g.
	// "startswith(displayName,'s')". Percent-encoding is automatic.
	Filter string
	// Body is marshaled to JSON and sent as the request body when non-nil.
	Body interface{}
}

// Result is the classified outcome of a dispatched request.
//
// Exactly one of three shapes applies:
//   - a paged collection: Values holds the concatenated "value" entries of
//     every page, JSON holds the first page's body;
//   - a plain JSON body: JSON holds the decoded-verbatim body, Values is nil;
//   - a non-JSON body (for example an empty DELETE response): JSON and
//     Values are nil and only Raw is populated. This is a recognized
//     alternate success, not an error.
type Result struct {
	// StatusCode is the HTTP status of the (first) response.
	StatusCode int
	// Headers are the response headers of the (first) response.
	Headers http.Header
	// Raw is the unmodified response body.
	Raw []byte
	// JSON is the body when it is valid JSON, nil otherwise.
	JSON json.RawMessage
	// Values is the aggregated collection across all pages, nil for
	// non-collection responses.
	Values []json.RawMessage
}

// IsJSON reports whether the response body decoded as JSON.
func (r *Result) IsJSON() bool {
	return r.JSON != nil
}

// IsCollection reports whether the response was a paged collection.
func (r *Result) IsCollection() bool {
	return r.Values != nil
}

// Decode unmarshals the result into v: the aggregated collection when the
// response was paged, the plain body otherwise. It returns ErrNotJSON for
// non-JSON bodies.
func (r *Result) Decode(v interface{}) error {
	if r.Values != nil {
		data, err := json.Marshal(r.Values)
		if err != nil {
			return err
		}

		return json.Unmarshal(data, v)
	}

	if r.JSON == nil {
		return ErrNotJSON
	}

	return json.Unmarshal(r.JSON, v)
}
