package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/medportal/internal/client/apierr"
	"github.com/dmitrijs2005/medportal/internal/client/media"
	"github.com/dmitrijs2005/medportal/internal/client/models"
)

const (
	minPasswordLen = 6
	minNameLen     = 2
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type fieldErrors []apierr.FieldError

func (f *fieldErrors) add(loc, msg string) {
	*f = append(*f, apierr.FieldError{Loc: loc, Msg: msg})
}

func (f fieldErrors) err(message string) error {
	if len(f) == 0 {
		return nil
	}
	return apierr.Validation(message, f...)
}

// ValidateLogin checks a login form locally. A non-nil result is an
// apierr.Error of kind ValidationFailed.
func ValidateLogin(req models.LoginRequest) error {
	var fe fieldErrors
	if strings.TrimSpace(req.Email) == "" {
		fe.add("email", "Email is required")
	}
	switch {
	case req.Password == "":
		fe.add("password", "Password is required")
	case utf8.RuneCountInString(req.Password) < minPasswordLen:
		fe.add("password", "Password must be at least 6 characters")
	}
	if !req.Role.Valid() {
		fe.add("role", "Select a role: Admin, Doctor or Patient")
	}
	return fe.err("Please fill in all fields correctly")
}

// ValidateRegistration checks a registration form and the optional
// picture locally.
func ValidateRegistration(req models.RegistrationRequest, picture *media.File) error {
	var fe fieldErrors

	required := []struct{ loc, v string }{
		{"firstname", req.FirstName},
		{"lastname", req.LastName},
		{"email", req.Email},
		{"password", req.Password},
		{"confpassword", req.ConfPassword},
	}
	missing := make(map[string]bool)
	for _, r := range required {
		if strings.TrimSpace(r.v) == "" {
			fe.add(r.loc, "This field is required")
			missing[r.loc] = true
		}
	}
	if !req.Role.Valid() {
		fe.add("role", "Select a role: Admin, Doctor or Patient")
	}

	if !missing["firstname"] && utf8.RuneCountInString(strings.TrimSpace(req.FirstName)) < minNameLen {
		fe.add("firstname", "First name must be at least 2 characters")
	}
	if !missing["lastname"] && utf8.RuneCountInString(strings.TrimSpace(req.LastName)) < minNameLen {
		fe.add("lastname", "Last name must be at least 2 characters")
	}
	if !missing["email"] && !emailPattern.MatchString(req.Email) {
		fe.add("email", "Enter a valid email address")
	}
	if !missing["password"] && utf8.RuneCountInString(req.Password) < minPasswordLen {
		fe.add("password", "Password must be at least 6 characters")
	}
	if !missing["password"] && !missing["confpassword"] && req.Password != req.ConfPassword {
		fe.add("confpassword", "Passwords do not match")
	}

	if picture != nil {
		if err := picture.Validate(); err != nil {
			fe.add("profile_picture", err.Error())
		}
	}

	return fe.err("Please correct the highlighted fields")
}

// ValidateProfileUpdate checks the editable profile fields.
func ValidateProfileUpdate(upd models.ProfileUpdate) error {
	var fe fieldErrors
	if strings.TrimSpace(upd.Name) == "" {
		fe.add("name", "Name is required")
	}
	if upd.Email != "" && !emailPattern.MatchString(upd.Email) {
		fe.add("email", "Enter a valid email address")
	}
	return fe.err("Please correct the highlighted fields")
}
