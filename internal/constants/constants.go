package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// CacheFilePerm is the permission for token cache files.
	CacheFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry and redirect limits.
const (
	// DefaultRetryMax is the default maximum number of attempts.
	DefaultRetryMax = 3

	// MaxRedirects is how many redirects a dispatch follows before giving up.
	MaxRedirects = 2

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Token handling.
const (
	// TokenExpirationBuffer is the buffer time before token expiration. A
	// memoized token within this buffer of expiry is re-acquired.
	TokenExpirationBuffer = 30 * time.Second

	// CacheFileInfix joins the entry point path and the API type in the
	// token cache file name.
	CacheFileInfix = ".http_cache_"
)

// API endpoints and auth scopes.
const (
	// ManagementEndpoint is the Azure Resource Manager base URL.
	ManagementEndpoint = "https://management.azure.com"

	// GraphEndpoint is the Microsoft Graph base URL.
	GraphEndpoint = "https://graph.microsoft.com"

	// AuthorityHost is the AAD login base URL.
	AuthorityHost = "https://login.microsoftonline.com"

	// ManagementScope is the token audience for Resource Manager calls.
	ManagementScope = "https://management.azure.com/.default"

	// GraphScope is the token audience for Graph calls.
	GraphScope = "https://graph.microsoft.com/.default"

	// DefaultGraphVersion is the Graph API version used when none is given.
	DefaultGraphVersion = "v1.0"

	// SkipTokenMarker marks a resource argument as a full continuation URL.
	SkipTokenMarker = "skiptoken"
)

// Credential environment variables.
const (
	// EnvClientID holds the service principal's application ID.
	EnvClientID = "ARM_CLIENT_ID"

	// EnvClientSecret holds the service principal's secret.
	EnvClientSecret = "ARM_CLIENT_SECRET"

	// EnvTenantID holds the directory ID.
	EnvTenantID = "ARM_TENANT_ID"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)
