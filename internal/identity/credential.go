// Package identity resolves blob-store credentials from the hosting
// environment without explicit secret material in code.
package identity

import (
	"context"
	"errors"
	"os"
	"strings"
)

// ErrNoCredential indicates no source in the chain could supply a token.
var ErrNoCredential = errors.New("identity: no credential available")

// Credential supplies a bearer token for blob-store calls.
type Credential interface {
	// Token returns a bearer token, or ErrNoCredential when the source
	// cannot resolve one.
	Token(ctx context.Context) (string, error)
}

// EnvCredential reads the token from an environment variable.
type EnvCredential struct {
	// Var is the environment variable name. Defaults to DROPGATE_STORAGE_TOKEN.
	Var string
}

func (c EnvCredential) Token(ctx context.Context) (string, error) {
	_ = ctx
	name := c.Var
	if name == "" {
		name = "DROPGATE_STORAGE_TOKEN"
	}
	token := strings.TrimSpace(os.Getenv(name))
	if token == "" {
		return "", ErrNoCredential
	}
	return token, nil
}

// FileCredential reads the token from a mounted file, the shape used by
// workload-identity volumes.
type FileCredential struct {
	Path string
}

func (c FileCredential) Token(ctx context.Context) (string, error) {
	_ = ctx
	if c.Path == "" {
		return "", ErrNoCredential
	}
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return "", ErrNoCredential
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoCredential
	}
	return token, nil
}

// Chain tries each credential in order and returns the first token found.
type Chain struct {
	sources []Credential
}

// NewChain constructs a credential chain.
func NewChain(sources ...Credential) *Chain {
	return &Chain{sources: sources}
}

// Default returns the ambient credential chain: environment variable first,
// then the conventional token-file mount.
func Default() *Chain {
	return NewChain(
		EnvCredential{},
		FileCredential{Path: os.Getenv("DROPGATE_STORAGE_TOKEN_FILE")},
	)
}

func (c *Chain) Token(ctx context.Context) (string, error) {
	for _, src := range c.sources {
		token, err := src.Token(ctx)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, ErrNoCredential) {
			return "", err
		}
	}
	return "", ErrNoCredential
}
