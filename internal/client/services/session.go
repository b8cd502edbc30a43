package services

import (
	"github.com/dmitrijs2005/medportal/internal/client/claims"
	"github.com/dmitrijs2005/medportal/internal/client/models"
)

// State is the lifecycle position of the client session.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
	// StatePartial holds a valid credential whose profile could not be
	// fetched. Requests work; profile screens must refresh first.
	StatePartial
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StatePartial:
		return "partial"
	}
	return "unknown"
}

// Navigation targets chosen after login and registration.
const (
	DestinationLogin     = "/login"
	DestinationHome      = "/"
	DestinationAdminHome = "/dashboard/home"
)

// Destination is where a user of role lands after logging in. It is the
// only place the role decides control flow.
func Destination(role models.Role) string {
	if role == models.RoleAdmin {
		return DestinationAdminHome
	}
	return DestinationHome
}

// Session is a snapshot of the logged-in user.
type Session struct {
	State   State
	Claims  claims.Claims
	Profile *models.Profile
}

// LoginResult reports a completed login. ProfileErr is set when the
// credential was accepted but the profile fetch failed; the session is then
// in StatePartial.
type LoginResult struct {
	Claims      claims.Claims
	Profile     *models.Profile
	Destination string
	ProfileErr  error
}

// RegisterResult reports a completed registration. UploadErr is set when
// the picture could not be stored; the account was created without it.
type RegisterResult struct {
	User        models.UserSummary
	PictureURL  string
	UploadErr   error
	Destination string
}
