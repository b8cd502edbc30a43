package models

// Profile is the user record returned by GET /user/getuser/{id}. The API
// serves two shapes (auth user and patient record), so display fields from
// both are kept.
type Profile struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username,omitempty"`
	FirstName      string  `json:"firstname,omitempty"`
	LastName       string  `json:"lastname,omitempty"`
	Name           string  `json:"name,omitempty"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	InsuranceInfo  string  `json:"insurance_info,omitempty"`
	Role           string  `json:"role,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	Pic            string  `json:"pic,omitempty"`
	Disabled       bool    `json:"disabled,omitempty"`
}

// DisplayName prefers the explicit name, then first+last, then username.
func (p Profile) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.FirstName != "" || p.LastName != "":
		if p.LastName == "" {
			return p.FirstName
		}
		if p.FirstName == "" {
			return p.LastName
		}
		return p.FirstName + " " + p.LastName
	default:
		return p.Username
	}
}

// PictureURL returns the profile picture reference, if any.
func (p Profile) PictureURL() string {
	if p.ProfilePicture != nil && *p.ProfilePicture != "" {
		return *p.ProfilePicture
	}
	return p.Pic
}

// ProfileUpdate is the body of PUT /patients/{id}.
type ProfileUpdate struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	InsuranceInfo string `json:"insurance_info"`
}

// Doctor is one element of GET /doctors/.
type Doctor struct {
	ID             int64   `json:"id"`
	UserID         int64   `json:"user_id"`
	Specialization string  `json:"specialization"`
	Contact        string  `json:"contact"`
	Experience     int     `json:"experience"`
	Fees           float64 `json:"fees"`
}
