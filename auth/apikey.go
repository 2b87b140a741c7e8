package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

// DefaultAPIKeyHeader is the header read by APIKeyAuthenticator.
const DefaultAPIKeyHeader = "X-API-Key"

// APIKey describes one accepted key. Only the SHA-256 hash of the key is
// kept.
type APIKey struct {
	Hash      string
	Principal string
	Scopes    []string
}

// APIKeyStore looks up keys by hash.
type APIKeyStore interface {
	// Lookup returns nil, nil when no key has the given hash.
	Lookup(ctx context.Context, hash string) (*APIKey, error)
}

// APIKeyAuthenticator validates API keys.
type APIKeyAuthenticator struct {
	header string
	store  APIKeyStore
}

// NewAPIKeyAuthenticator creates an authenticator reading header. An empty
// header means DefaultAPIKeyHeader.
func NewAPIKeyAuthenticator(header string, store APIKeyStore) *APIKeyAuthenticator {
	if header == "" {
		header = DefaultAPIKeyHeader
	}
	return &APIKeyAuthenticator{header: header, store: store}
}

// Name returns "api_key".
func (a *APIKeyAuthenticator) Name() string {
	return string(AuthMethodAPIKey)
}

// Supports reports whether the key header is present.
func (a *APIKeyAuthenticator) Supports(req *Request) bool {
	return req.Get(a.header) != ""
}

// Authenticate validates the API key.
func (a *APIKeyAuthenticator) Authenticate(ctx context.Context, req *Request) (*Result, error) {
	key := strings.TrimSpace(req.Get(a.header))
	if key == "" {
		return Failure(ErrMissingCredentials, AuthMethodAPIKey), nil
	}

	info, err := a.store.Lookup(ctx, HashAPIKey(key))
	if err != nil {
		return nil, err
	}
	if info == nil {
		return Failure(ErrInvalidCredentials, AuthMethodAPIKey), nil
	}

	return Success(&Identity{
		Principal: info.Principal,
		Method:    AuthMethodAPIKey,
		Scopes:    info.Scopes,
	}), nil
}

// HashAPIKey returns the hex SHA-256 of key.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// MemoryAPIKeyStore is an in-memory APIKeyStore.
type MemoryAPIKeyStore struct {
	mu   sync.RWMutex
	keys map[string]*APIKey
}

// NewMemoryAPIKeyStore creates an empty store.
func NewMemoryAPIKeyStore() *MemoryAPIKeyStore {
	return &MemoryAPIKeyStore{keys: make(map[string]*APIKey)}
}

// Add stores the plain key for principal. The plain key is not retained.
func (s *MemoryAPIKeyStore) Add(key, principal string, scopes ...string) {
	hash := HashAPIKey(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[hash] = &APIKey{Hash: hash, Principal: principal, Scopes: scopes}
}

// Len returns the number of stored keys.
func (s *MemoryAPIKeyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// Lookup returns the key with the given hash.
func (s *MemoryAPIKeyStore) Lookup(_ context.Context, hash string) (*APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys[hash], nil
}

var (
	_ Authenticator = (*APIKeyAuthenticator)(nil)
	_ APIKeyStore   = (*MemoryAPIKeyStore)(nil)
)
