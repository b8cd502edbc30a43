// Package apierr is the error vocabulary of the client. Every failure that
// reaches a caller, whether raised locally (validation, credential parsing) or
// produced by the remote API, is an *Error tagged with one Kind.
//
// # Matching
//
// Each Kind has a sentinel so callers use errors.Is:
//
//	if errors.Is(err, apierr.ErrAuthenticationExpired) {
//	    // go back to the login prompt
//	}
//
// or switch on apierr.KindOf(err).
//
// # Classification
//
// FromResponse maps an HTTP status and body to a Kind, Network wraps transport
// failures, ClientFault wraps failures that happen before a request is sent.
// These functions are pure; side effects on 401 belong to the client
// interceptor.
package apierr
