// Package common contains shared constants and sentinel errors used across
// DevConnector components.
package common

const (
	// AuthorizationHeaderName carries the bearer token on API requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token in the Authorization header and in the
	// token returned by login.
	BearerPrefix = "Bearer "
)
