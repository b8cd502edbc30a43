package client

import (
	"net/http"
	"net/url"
)

// Request describes one API call. Path is relative to the dispatcher's base
// URL. Body, when set, is encoded as JSON. Public marks endpoints that do
// not need a credential (login, registration, liveness).
//
// The dispatcher never modifies a Request; Header and Query are copied.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Query  url.Values
	Body   any
	Public bool
}

func Get(path string) Request {
	return Request{Method: http.MethodGet, Path: path}
}

func Post(path string, body any) Request {
	return Request{Method: http.MethodPost, Path: path, Body: body}
}

func Put(path string, body any) Request {
	return Request{Method: http.MethodPut, Path: path, Body: body}
}

// AsPublic returns a copy of r that may be sent without a credential.
func (r Request) AsPublic() Request {
	r.Public = true
	return r
}
