package models

type Role string

const (
	RoleUser       Role = "user"
	RoleSalonOwner Role = "salon_owner"
	RoleArtist     Role = "artist"
	RoleDoctor     Role = "doctor"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleSalonOwner, RoleArtist, RoleDoctor:
		return true
	}
	return false
}

// IsProvider reports whether r fulfils bookings (a salon or an independent artist).
func (r Role) IsProvider() bool {
	return r == RoleSalonOwner || r == RoleArtist
}

type User struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone"`
	Password         string       `json:"password"`
	Role             Role         `json:"role,omitempty"`
	Address          string       `json:"address,omitempty"`
	Location         *Location    `json:"location,omitempty"`
	ProfileCompleted bool         `json:"profileCompleted"`
	Profile          *UserProfile `json:"profile,omitempty"`
}

type UserProfile struct {
	Photo     string `json:"photo,omitempty"`
	Height    string `json:"height,omitempty"`
	Weight    string `json:"weight,omitempty"`
	Allergies string `json:"allergies,omitempty"`
	FaceType  string `json:"faceType,omitempty"`
	SkinType  string `json:"skinType,omitempty"`
	FaceTone  string `json:"faceTone,omitempty"`
	SkinTone  string `json:"skinTone,omitempty"`
}

// ProfileUpdate carries the fields present in a partial profile edit.
// A nil field is left untouched.
type ProfileUpdate struct {
	Photo     *string `json:"photo"`
	Height    *string `json:"height"`
	Weight    *string `json:"weight"`
	Allergies *string `json:"allergies"`
	FaceType  *string `json:"faceType"`
	SkinType  *string `json:"skinType"`
	FaceTone  *string `json:"faceTone"`
	SkinTone  *string `json:"skinTone"`
}

// Apply merges the present fields of u over p and returns the result.
func (u ProfileUpdate) Apply(p *UserProfile) *UserProfile {
	merged := UserProfile{}
	if p != nil {
		merged = *p
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&merged.Photo, u.Photo)
	set(&merged.Height, u.Height)
	set(&merged.Weight, u.Weight)
	set(&merged.Allergies, u.Allergies)
	set(&merged.FaceType, u.FaceType)
	set(&merged.SkinType, u.SkinType)
	set(&merged.FaceTone, u.FaceTone)
	set(&merged.SkinTone, u.SkinTone)
	return &merged
}

// Public returns a copy of the user that is safe to hand to clients.
func (u User) Public() User {
	u.Password = ""
	if u.Profile != nil {
		p := *u.Profile
		u.Profile = &p
	}
	if u.Location != nil {
		l := *u.Location
		u.Location = &l
	}
	return u
}

type SignupRequest struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	Password string    `json:"password"`
	Address  string    `json:"address,omitempty"`
	Location *Location `json:"location,omitempty"`
}

type Location struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Road        string  `json:"road,omitempty"`
	Suburb      string  `json:"suburb,omitempty"`
	City        string  `json:"city,omitempty"`
	State       string  `json:"state,omitempty"`
	Postcode    string  `json:"postcode,omitempty"`
	Country     string  `json:"country,omitempty"`
	DisplayName string  `json:"displayName,omitempty"`
}

// HasAddress reports whether reverse geocoding filled in anything beyond the coordinates.
func (l Location) HasAddress() bool {
	return l.DisplayName != "" || l.City != "" || l.Road != "" || l.Country != ""
}
