package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/confidential"
	"github.com/azw-io/azapi/internal/cachestore"
	"github.com/azw-io/azapi/internal/constants"
	"github.com/azw-io/azapi/pkg/azapi"
)

// TokenManager supplies a bearer token for outgoing requests.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
}

// Credentials identifies the service principal. Immutable for the lifetime
// of the process.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TenantID     string

	// AuthorityHost overrides the AAD login host, for sovereign clouds.
	AuthorityHost string
}

// CredentialsFromEnv loads the service principal from the ARM_* environment
// variables. Any absent variable is an ErrMissingCredentials; there is no
// way to proceed without them.
func CredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		ClientID:     os.Getenv(constants.EnvClientID),
		ClientSecret: os.Getenv(constants.EnvClientSecret),
		TenantID:     os.Getenv(constants.EnvTenantID),
	}

	var missing []string

	if creds.ClientID == "" {
		missing = append(missing, constants.EnvClientID)
	}

	if creds.ClientSecret == "" {
		missing = append(missing, constants.EnvClientSecret)
	}

	if creds.TenantID == "" {
		missing = append(missing, constants.EnvTenantID)
	}

	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("%w: %s", azapi.ErrMissingCredentials, strings.Join(missing, ", "))
	}

	return creds, nil
}

// Authority returns the AAD authority URL for the tenant.
func (c Credentials) Authority() string {
	host := c.AuthorityHost
	if host == "" {
		host = constants.AuthorityHost
	}

	return host + "/" + c.TenantID
}

// ScopesFor returns the token audience requested for an API type.
func ScopesFor(apiType azapi.APIType) []string {
	if apiType == azapi.APITypeGraph {
		return []string{constants.GraphScope}
	}

	return []string{constants.ManagementScope}
}

// acquirer is the slice of confidential.Client the manager uses. Narrowed
// for testability.
type acquirer interface {
	AcquireTokenSilent(ctx context.Context, scopes []string, opts ...confidential.AcquireSilentOption) (confidential.AuthResult, error)
	AcquireTokenByCredential(ctx context.Context, scopes []string, opts ...confidential.AcquireByCredentialOption) (confidential.AuthResult, error)
}

// ClientCredentialsManager acquires app-only tokens for one API type via the
// OAuth2 client_credentials grant and memoizes the result for the process's
// lifetime. The first caller pays the acquisition cost; later calls reuse
// the memoized token until it nears expiry.
type ClientCredentialsManager struct {
	client acquirer
	scopes []string
	store  *TokenStore
	mu     sync.Mutex
}

// NewClientCredentialsManager builds a manager for the given API type. The
// persisted token cache behind the accessor is consulted before any network
// exchange, so a still-valid token from a previous process is reused.
func NewClientCredentialsManager(creds Credentials, apiType azapi.APIType, store cachestore.Store) (*ClientCredentialsManager, error) {
	cred, err := confidential.NewCredFromSecret(creds.ClientSecret)
	if err != nil {
		return nil, fmt.Errorf("building client credential: %w", err)
	}

	client, err := confidential.New(creds.Authority(), creds.ClientID, cred,
		confidential.WithCache(NewCacheAccessor(store)))
	if err != nil {
		return nil, fmt.Errorf("building confidential client: %w", err)
	}

	return &ClientCredentialsManager{
		client: client,
		scopes: ScopesFor(apiType),
		store:  NewTokenStore(),
	}, nil
}

// GetToken returns the memoized token, acquiring one on first use or when
// the memoized token is about to expire.
func (m *ClientCredentialsManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check under the lock; another caller may have acquired meanwhile.
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	result, err := m.client.AcquireTokenSilent(ctx, m.scopes)
	if err != nil {
		result, err = m.client.AcquireTokenByCredential(ctx, m.scopes)
		if err != nil {
			return "", newAuthError(err, m.scopes)
		}
	}

	m.store.Set(&Token{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   result.ExpiresOn,
	})

	return result.AccessToken, nil
}

// Expiry returns when the memoized token expires, or the zero time when no
// token is held.
func (m *ClientCredentialsManager) Expiry() time.Time {
	token := m.store.Get()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

// newAuthError wraps an identity provider failure, pulling the error
// description and correlation ID out of the AAD error body when present.
func newAuthError(err error, scopes []string) *azapi.AuthError {
	authErr := &azapi.AuthError{
		Description: err.Error(),
		Scope:       strings.Join(scopes, " "),
		Err:         err,
	}

	// AAD failures surface the JSON error body in the message. Recover the
	// structured fields so callers can report them to support.
	msg := err.Error()
	if start := strings.Index(msg, "{"); start >= 0 {
		var body struct {
			ErrorDescription string `json:"error_description"`
			CorrelationID    string `json:"correlation_id"`
		}

		if json.Unmarshal([]byte(msg[start:]), &body) == nil {
			if body.ErrorDescription != "" {
				authErr.Description = body.ErrorDescription
			}

			authErr.CorrelationID = body.CorrelationID
		}
	}

	return authErr
}
