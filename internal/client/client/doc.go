// Package client is the outbound request layer of the medportal client.
//
// A Dispatcher joins a Request to the configured API base URL, attaches the
// current credential as a Bearer token, sends it, and passes the outcome to
// an Interceptor. Callers receive either the response body of a 2xx answer
// or an *apierr.Error; transport objects never leak out.
//
// A 401 empties the credential store and publishes events.SessionExpired,
// once per credential even when several requests fail together. What the
// application does about it (prompting for login again) is left to
// subscribers.
//
// HTTPClient wraps a Dispatcher with the typed endpoints of the clinic API.
// InitDatabase opens the local state database used to persist the session.
package client
