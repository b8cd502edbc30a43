package apitest

import (
	"bytes"
	"io"
	"net/http"
)

// readBody returns the request body and puts an identical reader back so
// the next handler can consume it.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	b, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(b))
	return b, err
}
