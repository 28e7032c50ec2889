package azapi

import (
	"context"
	"time"
)

// APIType selects which of the two cloud management APIs a token or cache
// file belongs to.
type APIType string

const (
	// APITypeREST is the Azure Resource Manager API (management.azure.com).
	APITypeREST APIType = "rest"

	// APITypeGraph is the Microsoft Graph API (graph.microsoft.com).
	APITypeGraph APIType = "graph"
)

// RESTClient dispatches requests against the Azure Resource Manager API.
type RESTClient interface {
	// Do issues the request and returns the classified result. Paged
	// collections are accumulated across all pages.
	Do(ctx context.Context, request *RESTRequest) (*Result, error)

	// Get issues a GET for a resource under the given management scope.
	Get(ctx context.Context, apiVersion, resource, scope string) (*Result, error)

	// Delete issues a DELETE for a resource under the given management scope.
	Delete(ctx context.Context, apiVersion, resource, scope string) (*Result, error)
}

// GraphClient dispatches requests against the Microsoft Graph API.
type GraphClient interface {
	// Do issues the request and returns the classified result. Paged
	// collections are accumulated across all pages.
	Do(ctx context.Context, request *GraphRequest) (*Result, error)

	// Get issues a GET for a directory resource, optionally filtered with an
	// OData $filter expression.
	Get(ctx context.Context, resource, filter string) (*Result, error)
}

// Client provides authenticated access to the management and Graph APIs.
// Tokens are acquired lazily on first use, once per API type, and reused for
// the lifetime of the client.
type Client interface {
	REST() RESTClient
	Graph() GraphClient

	// Token returns the current bearer token for the given API type,
	// acquiring one if necessary.
	Token(ctx context.Context, apiType APIType) (string, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// CacheType represents the token cache store backend.
type CacheType string

const (
	// CacheTypeFile persists the token cache to a file next to the invoking
	// entry point (the default).
	CacheTypeFile CacheType = "file"

	// CacheTypeMemory keeps the token cache in process memory only.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNATS persists the token cache in a NATS JetStream key-value
	// bucket, for hosts where local files are not durable.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeNone disables token cache persistence.
	CacheTypeNone CacheType = "none"
)

// CacheConfig configures the token cache store backend.
type CacheConfig struct {
	// Type is the cache backend type. Empty means CacheTypeFile.
	Type CacheType

	// FilePath overrides the cache file path for CacheTypeFile. If empty,
	// the path is derived from the invoking entry point and the API type:
	// "<entry point>.http_cache_<api type>".
	FilePath string

	// NATSURL is the server URL for CacheTypeNATS.
	NATSURL string

	// NATSBucket is the key-value bucket name for CacheTypeNATS.
	NATSBucket string
}

// Config represents client configuration for building an azapi.Client.
//
// # Authentication
//
// The client authenticates with the OAuth2 client_credentials grant against
// Azure Active Directory. ClientID, ClientSecret, and TenantID are required;
// azclient.New fills them from the ARM_CLIENT_ID, ARM_CLIENT_SECRET, and
// ARM_TENANT_ID environment variables when unset, and fails with
// ErrMissingCredentials when any of the three is absent from both sources.
//
// Tokens are requested per API type, scoped to
// "https://management.azure.com/.default" for REST calls and
// "https://graph.microsoft.com/.default" for Graph calls, and memoized for
// the lifetime of the client. An expired memoized token is re-acquired
// before the next request rather than sent stale.
//
// # Retries and redirects
//
// Each dispatch retries up to RetryMax times on connection errors, 429, and
// 5xx responses, and follows at most two redirects. Per-request timeouts are
// controlled via the context passed to client methods.
type Config struct {
	// ClientID: the application (client) ID of the service principal.
	ClientID string
	// ClientSecret: the client secret of the service principal.
	ClientSecret string
	// TenantID: the directory (tenant) ID to authenticate against.
	TenantID string

	// Authority: the AAD authority host, for sovereign clouds. Defaults to
	// "https://login.microsoftonline.com"; the tenant is appended.
	Authority string

	// ManagementEndpoint: base URL of the Resource Manager API. Defaults to
	// "https://management.azure.com".
	ManagementEndpoint string
	// GraphEndpoint: base URL of the Graph API. Defaults to
	// "https://graph.microsoft.com".
	GraphEndpoint string

	// Cache configures token cache persistence. Nil means the file backend
	// with the default path per API type.
	Cache *CacheConfig

	// RetryMax: maximum number of attempts for transient failures. If 0,
	// the default of 3 is used.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// HTTPTimeout: connection-level timeout for each attempt. If 0, a
	// default of 30 seconds is used.
	HTTPTimeout time.Duration

	// Debug: enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
}
