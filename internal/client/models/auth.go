package models

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// TokenResponse is returned by POST /login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// RegistrationRequest is the body of POST /auth/register. ProfilePicture is
// sent as null when no image was uploaded.
type RegistrationRequest struct {
	FirstName      string  `json:"firstname"`
	LastName       string  `json:"lastname"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	ConfPassword   string  `json:"confpassword"`
	Role           Role    `json:"role"`
	ProfilePicture *string `json:"profile_picture"`
}

// UserSummary is the created-user record returned by registration.
type UserSummary struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	FirstName      string  `json:"firstname"`
	LastName       string  `json:"lastname"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	ProfilePicture *string `json:"profile_picture"`
}
