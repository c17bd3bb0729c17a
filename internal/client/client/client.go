package client

import (
	"context"
)

// Transport is the subset of HTTPClient used by the services.
type Transport interface {
	// Do sends a JSON request and returns the decoded payload.
	Do(ctx context.Context, method, path string, body any, headers map[string]string) (any, error)

	// Upload sends data as a multipart form with a single file field.
	Upload(ctx context.Context, path, field, fileName, mimeType string, data []byte) (any, error)
}

// TokenStore holds the bearer token attached to requests.
type TokenStore interface {
	Token() string
	SetToken(ctx context.Context, token string)
}
