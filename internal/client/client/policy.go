package client

import "fmt"

// AuthPolicy decides what happens to a request that needs authentication
// while the credential store is empty.
type AuthPolicy int

const (
	// AuthPolicyFailFast returns an Unauthenticated error without touching
	// the network.
	AuthPolicyFailFast AuthPolicy = iota
	// AuthPolicySendAnonymous sends the request with no Authorization header
	// and lets the server answer.
	AuthPolicySendAnonymous
)

func (p AuthPolicy) String() string {
	switch p {
	case AuthPolicyFailFast:
		return "fail-fast"
	case AuthPolicySendAnonymous:
		return "send-anonymous"
	}
	return fmt.Sprintf("AuthPolicy(%d)", int(p))
}

// ParseAuthPolicy accepts the names produced by String.
func ParseAuthPolicy(s string) (AuthPolicy, error) {
	switch s {
	case "fail-fast", "":
		return AuthPolicyFailFast, nil
	case "send-anonymous":
		return AuthPolicySendAnonymous, nil
	}
	return 0, fmt.Errorf("unknown auth policy %q", s)
}
