// Package credentials supplies Microsoft Entra ID bearer tokens for Azure AI endpoints.
package credentials

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// Token scopes.
const (
	CognitiveServicesScope = "https://cognitiveservices.azure.com/.default"
	AIProjectScope         = "https://ai.azure.com/.default"
)

// refreshBuffer is how long before expiry a cached token is replaced.
const refreshBuffer = 5 * time.Minute

// TokenSource caches tokens for a single scope.
type TokenSource struct {
	cred  azcore.TokenCredential
	scope string
	now   func() time.Time

	mu     sync.RWMutex
	cached *azcore.AccessToken
}

// NewDefault uses the Azure default credential chain: environment, workload identity,
// managed identity, Azure CLI and Azure Developer CLI.
func NewDefault(scope string) (*TokenSource, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}
	return New(cred, scope), nil
}

func New(cred azcore.TokenCredential, scope string) *TokenSource {
	return &TokenSource{cred: cred, scope: scope, now: time.Now}
}

func (s *TokenSource) Scope() string { return s.scope }

// Token returns a bearer token, refreshing it when close to expiry.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.valid() {
		token := s.cached.Token
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.valid() {
		return s.cached.Token, nil
	}

	token, err := s.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{s.scope}})
	if err != nil {
		return "", fmt.Errorf("failed to get Azure token for %s: %w", s.scope, err)
	}
	s.cached = &token
	return token.Token, nil
}

func (s *TokenSource) valid() bool {
	return s.cached != nil && s.cached.ExpiresOn.After(s.now().Add(refreshBuffer))
}

// Apply sets the Authorization header on req.
func (s *TokenSource) Apply(req *http.Request) error {
	token, err := s.Token(req.Context())
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// Transport returns a RoundTripper that authorizes every request. A nil base uses
// http.DefaultTransport.
func (s *TokenSource) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &bearerTransport{source: s, base: base}
}

// Client returns an http.Client using Transport.
func (s *TokenSource) Client(timeout time.Duration) *http.Client {
	return &http.Client{Transport: s.Transport(nil), Timeout: timeout}
}

type bearerTransport struct {
	source *TokenSource
	base   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if err := t.source.Apply(clone); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(clone)
}
