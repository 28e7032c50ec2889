package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	azhttp "github.com/azw-io/azapi/internal/http"
	"github.com/azw-io/azapi/pkg/azapi"
)

func newTestRESTClient(baseURL string) *RESTClient {
	return &RESTClient{
		httpClient: azhttp.NewClient(baseURL, nil,
			azhttp.WithRetryConfig(0, time.Millisecond, time.Millisecond)),
		baseURL: baseURL,
	}
}

func TestRESTClient_BuildURL(t *testing.T) {
	client := &RESTClient{baseURL: "https://management.azure.com"}

	tests := []struct {
		name     string
		request  *azapi.RESTRequest
		expected string
	}{
		{
			name: "explicit URL with prefix",
			request: &azapi.RESTRequest{
				URL: "https://management.azure.com/subscriptions?api-version=2022-12-01",
			},
			expected: "https://management.azure.com/subscriptions?api-version=2022-12-01",
		},
		{
			name: "explicit URL without prefix",
			request: &azapi.RESTRequest{
				URL: "/subscriptions?api-version=2022-12-01",
			},
			expected: "https://management.azure.com/subscriptions?api-version=2022-12-01",
		},
		{
			name: "explicit URL without leading slash",
			request: &azapi.RESTRequest{
				URL: "subscriptions?api-version=2022-12-01",
			},
			expected: "https://management.azure.com/subscriptions?api-version=2022-12-01",
		},
		{
			name: "skiptoken resource used verbatim",
			request: &azapi.RESTRequest{
				Resource: "https://management.azure.com/subscriptions/sub1/resources?api-version=2022-12-01&$skiptoken=abc123",
			},
			expected: "https://management.azure.com/subscriptions/sub1/resources?api-version=2022-12-01&$skiptoken=abc123",
		},
		{
			name: "scope with leading slash",
			request: &azapi.RESTRequest{
				APIVersion: "2022-07-01",
				Resource:   "Microsoft.Network/virtualNetworks",
				Scope:      "/subscriptions/sub1/resourceGroups/rg1",
			},
			expected: "https://management.azure.com/subscriptions/sub1/resourceGroups/rg1/providers/Microsoft.Network/virtualNetworks?api-version=2022-07-01",
		},
		{
			name: "scope without leading slash is normalized",
			request: &azapi.RESTRequest{
				APIVersion: "2022-07-01",
				Resource:   "Microsoft.Network/virtualNetworks",
				Scope:      "subscriptions/sub1/resourceGroups/rg1",
			},
			expected: "https://management.azure.com/subscriptions/sub1/resourceGroups/rg1/providers/Microsoft.Network/virtualNetworks?api-version=2022-07-01",
		},
		{
			name: "no scope",
			request: &azapi.RESTRequest{
				APIVersion: "2022-12-01",
				Resource:   "subscriptions",
			},
			expected: "https://management.azure.com/subscriptions?api-version=2022-12-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, client.buildURL(tt.request))
		})
	}
}

func TestRESTClient_Do_Validation(t *testing.T) {
	client := newTestRESTClient("https://management.azure.com")

	t.Run("missing resource", func(t *testing.T) {
		result, err := client.Do(context.Background(), &azapi.RESTRequest{
			APIVersion: "2022-12-01",
		})
		require.ErrorIs(t, err, azapi.ErrResourceRequired)
		assert.Nil(t, result)
	})

	t.Run("missing api-version", func(t *testing.T) {
		result, err := client.Do(context.Background(), &azapi.RESTRequest{
			Resource: "subscriptions",
		})
		require.ErrorIs(t, err, azapi.ErrAPIVersionRequired)
		assert.Nil(t, result)
	})
}

func TestRESTClient_Do_PlainObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/subscriptions/sub1", r.URL.Path)
		assert.Equal(t, "2022-12-01", r.URL.Query().Get("api-version"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "/subscriptions/sub1", "displayName": "prod"}`))
	}))
	defer server.Close()

	client := newTestRESTClient(server.URL)

	result, err := client.Get(context.Background(), "2022-12-01", "subscriptions/sub1", "")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.True(t, result.IsJSON())
	assert.False(t, result.IsCollection())

	var decoded struct {
		DisplayName string `json:"displayName"`
	}
	require.NoError(t, result.Decode(&decoded))
	assert.Equal(t, "prod", decoded.DisplayName)
}

func TestRESTClient_Do_Pagination(t *testing.T) {
	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/resources":
			fmt.Fprintf(w, `{"value": [{"name": "a"}, {"name": "b"}], "nextLink": "%s/resources-page2"}`, server.URL)
		case "/resources-page2":
			fmt.Fprintf(w, `{"value": [{"name": "c"}], "nextLink": "%s/resources-page3"}`, server.URL)
		case "/resources-page3":
			fmt.Fprint(w, `{"value": [{"name": "d"}, {"name": "e"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestRESTClient(server.URL)

	result, err := client.Get(context.Background(), "2022-12-01", "resources", "")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.IsCollection())
	require.Len(t, result.Values, 5)

	var items []struct {
		Name string `json:"name"`
	}
	require.NoError(t, result.Decode(&items))
	assert.Equal(t, "a", items[0].Name)
	assert.Equal(t, "e", items[4].Name)
}

func TestRESTClient_Do_SinglePageCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value": []}`))
	}))
	defer server.Close()

	client := newTestRESTClient(server.URL)

	result, err := client.Get(context.Background(), "2022-12-01", "resources", "")
	require.NoError(t, err)

	assert.True(t, result.IsCollection())
	assert.Empty(t, result.Values)
}

func TestRESTClient_Do_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"code": "ResourceNotFound", "message": "The resource was not found"}}`))
	}))
	defer server.Close()

	client := newTestRESTClient(server.URL)

	result, err := client.Get(context.Background(), "2022-12-01", "missing", "")
	require.Error(t, err)
	require.NotNil(t, result)

	apiErr := &azapi.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "ResourceNotFound", apiErr.Code)
	assert.Equal(t, "The resource was not found", apiErr.Message)
	assert.True(t, azapi.IsNotFound(err))
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestRESTClient_Do_ErrorEnvelopeInSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error": {"code": "InvalidQuery", "message": "bad filter"}}`))
	}))
	defer server.Close()

	client := newTestRESTClient(server.URL)

	result, err := client.Get(context.Background(), "2022-12-01", "resources", "")
	require.Error(t, err)
	require.NotNil(t, result)

	apiErr := &azapi.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "InvalidQuery", apiErr.Code)
}

func TestRESTClient_Do_NonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}))
	defer server.Close()

	client := newTestRESTClient(server.URL)

	result, err := client.Do(context.Background(), &azapi.RESTRequest{
		APIVersion: "2022-12-01",
		Resource:   "operation",
		Verb:       http.MethodPost,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.False(t, result.IsJSON())
	assert.False(t, result.IsCollection())
	assert.Equal(t, []byte("OK"), result.Raw)
	assert.ErrorIs(t, result.Decode(&struct{}{}), azapi.ErrNotJSON)
}

func TestRESTClient_Do_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestRESTClient(server.URL)

	result, err := client.Get(context.Background(), "2022-12-01", "resources", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, azapi.ErrConnectionFailed)
	assert.Nil(t, result)
}

func TestRESTClient_Do_RequestBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "westeurope", body["location"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"name": "rg1", "location": "westeurope"}`))
	}))
	defer server.Close()

	client := newTestRESTClient(server.URL)

	result, err := client.Do(context.Background(), &azapi.RESTRequest{
		APIVersion: "2022-12-01",
		Resource:   "subscriptions/sub1/resourceGroups/rg1",
		Verb:       http.MethodPut,
		Body:       map[string]string{"location": "westeurope"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, result.StatusCode)
}

func TestRESTClient_Delete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestRESTClient(server.URL)

	result, err := client.Delete(context.Background(), "2022-12-01", "subscriptions/sub1/resourceGroups/rg1", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, result.StatusCode)
	assert.False(t, result.IsJSON())
}
