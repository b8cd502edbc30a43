package apierr

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// body shapes seen from the API: {"detail": "..."}, {"detail": [{loc, msg}]},
// and {"error": {"message": "..."}}.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type rawFieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// FromResponse classifies a non-2xx HTTP response.
func FromResponse(status int, body []byte) *Error {
	msg, fields := parseBody(body)
	if msg == "" {
		msg = http.StatusText(status)
	}

	e := &Error{Status: status, Message: msg}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindAuthenticationExpired
	case status == http.StatusUnprocessableEntity && len(fields) > 0:
		e.Kind = KindValidationFailed
		e.Fields = fields
	case status >= 500:
		e.Kind = KindServiceUnavailable
	default:
		e.Kind = KindRequestRejected
	}
	return e
}

// Network classifies a failure where no response was received.
func Network(cause error) *Error {
	return &Error{Kind: KindNetworkUnavailable, Message: "no response from server", Cause: cause}
}

// ClientFault classifies a failure to build a request.
func ClientFault(cause error) *Error {
	return &Error{Kind: KindClientFault, Message: "could not build request", Cause: cause}
}

func parseBody(body []byte) (string, []FieldError) {
	if len(body) == 0 {
		return "", nil
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return "", nil
	}

	if len(eb.Detail) > 0 {
		var s string
		if err := json.Unmarshal(eb.Detail, &s); err == nil {
			return s, nil
		}
		var raw []rawFieldError
		if err := json.Unmarshal(eb.Detail, &raw); err == nil && len(raw) > 0 {
			fields := make([]FieldError, 0, len(raw))
			for _, r := range raw {
				fields = append(fields, FieldError{Loc: joinLoc(r.Loc), Msg: r.Msg})
			}
			return "request validation failed", fields
		}
	}
	if eb.Error != nil {
		return eb.Error.Message, nil
	}
	return "", nil
}

func joinLoc(loc []any) string {
	parts := make([]string, 0, len(loc))
	for _, p := range loc {
		switch v := p.(type) {
		case string:
			parts = append(parts, v)
		case float64:
			parts = append(parts, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	return strings.Join(parts, ".")
}
