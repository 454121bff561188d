package domain

import (
	"errors"
	"time"
)

const (
	RoleJobSeeker    = "job_seeker"
	RoleOrganization = "organization"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountClosed = errors.New("account is closed")

// Profile is the role-specific display blob attached to a user.
// Job seekers fill FullName, organizations fill CompanyName/LogoURL.
type Profile struct {
	FullName    string `json:"full_name,omitempty" bson:"full_name,omitempty"`
	CompanyName string `json:"company_name,omitempty" bson:"company_name,omitempty"`
	LogoURL     string `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
}

// User models an authenticated actor: a job seeker or an organization.
// Accounts are soft-deactivated via IsActive, never hard-deleted.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	Profile      Profile   `json:"profile" bson:"profile"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// DisplayName returns the name shown to other users: the company name for
// organizations, the full name for job seekers, falling back to the email.
func (u *User) DisplayName() string {
	switch {
	case u.Role == RoleOrganization && u.Profile.CompanyName != "":
		return u.Profile.CompanyName
	case u.Profile.FullName != "":
		return u.Profile.FullName
	}
	return u.Email
}
