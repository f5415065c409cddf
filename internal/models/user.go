package models

import "time"

const (
	RoleUser     = "user"
	RoleGymOwner = "gymOwner"
	RoleAdmin    = "admin"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleGymOwner, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Role             string    `json:"role"`
	IsEmailVerified  bool      `json:"is_email_verified"`
	EmailVerifyToken *string   `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PublicUser is the participant shape embedded in match and ticket
// responses. It never carries credentials.
type PublicUser struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
