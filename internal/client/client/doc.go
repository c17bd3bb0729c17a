// Package client is the remote transport of the warehouse client.
//
// # Overview
//
// HTTPClient sends JSON requests to the backend rooted at a base URL that
// always ends in /api. It attaches the bearer token held by a TokenStore,
// decodes JSON responses into plain Go values (map[string]any, []any, ...)
// and turns non-2xx responses into *APIError values.
//
// # Error Handling
//
// Network failures are wrapped with ErrUnavailable. A 401 response clears
// the stored token before the error is returned, and the resulting
// *APIError matches ErrUnauthorized with errors.Is. ErrLocalDataNotAvailable
// is used by callers that fall back to local data and find none.
//
// The Transport interface is what the entity and upload services depend
// on, so tests can replace the network with a fake.
package client
