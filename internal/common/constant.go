// Package common holds protocol constants shared by the request layer and
// the tests that play the API side.
package common

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderRequestID     = "X-Request-ID"

	// BearerPrefix precedes the credential in the Authorization header.
	BearerPrefix = "Bearer "

	ContentTypeJSON = "application/json"
)
