package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/medportal/internal/client/apierr"
	"github.com/dmitrijs2005/medportal/internal/client/media"
	"github.com/dmitrijs2005/medportal/internal/client/models"
	"github.com/dmitrijs2005/medportal/internal/client/services"
)

// Input indirections used to facilitate testing.
var (
	getSimpleText  = GetSimpleText
	getPassword    = GetPassword
	getWithDefault = GetWithDefault
	openPicture    = media.Open
)

func rolePrompt() string {
	names := make([]string, len(models.Roles))
	for i, r := range models.Roles {
		names[i] = string(r)
	}
	return "Enter role (" + strings.Join(names, ", ") + ")"
}

// readRole accepts a role name in any letter case. Unknown names are passed
// through so that validation can report them.
func (a *App) readRole() (models.Role, error) {
	s, err := getSimpleText(a.reader, rolePrompt(), a.out)
	if err != nil {
		return "", err
	}
	for _, r := range models.Roles {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return models.Role(s), nil
}

// report prints err for the user, listing field errors one per line.
func (a *App) report(action string, err error) {
	e, ok := apierr.As(err)
	if !ok {
		a.printf("%s failed: %v\n", action, err)
		return
	}

	switch e.Kind {
	case apierr.KindNetworkUnavailable, apierr.KindServiceUnavailable:
		a.setMode(ModeOffline)
		a.printf("%s failed: the server is not reachable, try again later\n", action)
	case apierr.KindAuthenticationExpired, apierr.KindUnauthenticated:
		a.printf("%s failed: please log in\n", action)
	default:
		a.printf("%s failed: %s\n", action, e.Message)
	}
	for _, f := range e.Fields {
		a.printf("  %s\n", f)
	}
}

// Login prompts for email, password and role and starts a session. On
// success the app moves to the destination chosen for the role.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	role, err := a.readRole()
	if err != nil {
		return err
	}

	res, err := a.auth.Login(ctx, models.LoginRequest{Email: email, Password: password, Role: role})
	if err != nil {
		if e, ok := apierr.As(err); ok && e.Kind == apierr.KindAuthenticationExpired {
			// the server refused these credentials
			a.printf("Login failed: %s\n", e.Message)
			return err
		}
		a.report("Login", err)
		return err
	}

	a.navigate(res.Destination)
	if res.ProfileErr != nil {
		a.printf("Logged in as %s, but the profile could not be loaded (%v). Use 'profile' to retry.\n",
			res.Claims.Username, res.ProfileErr)
		return nil
	}
	a.printf("Welcome, %s!\n", res.Profile.DisplayName())
	return nil
}

// Register prompts for the account fields and an optional picture path and
// creates the account. The user is sent to the login screen afterwards.
func (a *App) Register(ctx context.Context) error {
	var req models.RegistrationRequest
	var err error

	if req.FirstName, err = getSimpleText(a.reader, "Enter first name", a.out); err != nil {
		return err
	}
	if req.LastName, err = getSimpleText(a.reader, "Enter last name", a.out); err != nil {
		return err
	}
	if req.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if req.Password, err = getPassword(a.reader, "Enter password", a.out); err != nil {
		return err
	}
	if req.ConfPassword, err = getPassword(a.reader, "Confirm password", a.out); err != nil {
		return err
	}
	if req.Role, err = a.readRole(); err != nil {
		return err
	}
	path, err := getSimpleText(a.reader, "Profile picture path (JPEG or PNG, empty to skip)", a.out)
	if err != nil {
		return err
	}

	var picture *media.File
	if path != "" {
		if picture, err = openPicture(path); err != nil {
			a.printf("Registration failed: %v\n", err)
			return err
		}
	}

	res, err := a.auth.Register(ctx, req, picture)
	if err != nil {
		a.report("Registration", err)
		return err
	}

	if res.UploadErr != nil {
		if errors.Is(res.UploadErr, services.ErrNoUploader) {
			a.printf("Note: %v; the account was created without a picture.\n", res.UploadErr)
		} else {
			a.printf("Note: the picture could not be uploaded (%v); the account was created without it.\n", res.UploadErr)
		}
	}
	a.printf("Account created for %s. Please log in.\n", res.User.Email)
	a.navigate(res.Destination)
	return nil
}

// Logout ends the session locally.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	a.navigate(services.DestinationLogin)
	a.printf("Logged out\n")
	return nil
}

func (a *App) requireLogin() error {
	if a.isLoggedIn() {
		return nil
	}
	a.printf("Please log in first\n")
	return apierr.New(apierr.KindUnauthenticated, "not logged in")
}
