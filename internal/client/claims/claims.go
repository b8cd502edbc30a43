// Package claims reads identity data out of a bearer credential.
//
// Decoding does NOT verify the signature. The result is good for choosing
// where to navigate after login and for building profile URLs; it must never
// be used as an authorization check. The API re-verifies every token.
package claims

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/medportal/internal/client/apierr"
	"github.com/dmitrijs2005/medportal/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded identity carried by a credential.
type Claims struct {
	SubjectID string
	Role      models.Role
	Username  string
	// ExpiresAt is zero when the token has no exp claim.
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID   json.RawMessage `json:"user_id"`
	Role     string          `json:"role"`
	Username string          `json:"username"`
}

var parser = jwt.NewParser()

// Decode parses token and returns its claims. Any structural problem yields
// an apierr.Error of kind MalformedCredential.
func Decode(token string) (Claims, error) {
	var tc tokenClaims
	if _, _, err := parser.ParseUnverified(token, &tc); err != nil {
		return Claims{}, malformed("unreadable token", err)
	}

	id, err := subjectID(tc.UserID)
	if err != nil {
		return Claims{}, malformed("bad user_id claim", err)
	}

	role, err := models.ParseRole(tc.Role)
	if err != nil {
		return Claims{}, malformed("bad role claim", err)
	}

	c := Claims{SubjectID: id, Role: role, Username: tc.Username}
	if tc.ExpiresAt != nil {
		c.ExpiresAt = tc.ExpiresAt.Time
	}
	return c, nil
}

// subjectID accepts the user_id claim as a JSON number or string.
func subjectID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("missing")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", fmt.Errorf("empty")
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return "", fmt.Errorf("not an integer: %s", n)
}

func malformed(msg string, cause error) error {
	return &apierr.Error{Kind: apierr.KindMalformedCredential, Message: msg, Cause: cause}
}
