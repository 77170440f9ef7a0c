package models

import (
	"time"
)

// AuthProvider identifies how a user account authenticates
type AuthProvider string

const (
	AuthProviderPassword AuthProvider = "password"
	AuthProviderGoogle   AuthProvider = "google"
)

// User defines the user profile model based on the 'users' table
type User struct {
	ID                 string       `json:"id" db:"id" example:"8f14e45f-ceea-4670-8f5a-6f3b1c1c74d1"` // Unique identifier for the user
	Email              string       `json:"email" db:"email" example:"user@school.edu"`                // User's email address
	Password           string       `json:"-" db:"password"`                                           // Hashed password (excluded from JSON)
	AuthProvider       AuthProvider `json:"authProvider" db:"auth_provider" example:"password"`        // Authentication provider tag
	FirstName          string       `json:"firstName" db:"first_name" example:"Ada"`
	LastName           string       `json:"lastName" db:"last_name" example:"Lovelace"`
	School             string       `json:"school" db:"school" example:"Kean University"`
	GraduationYear     *int         `json:"graduationYear,omitempty" db:"graduation_year" example:"2027"` // Nullable until onboarding
	Majors             []string     `json:"majors" db:"majors"`
	Minors             []string     `json:"minors" db:"minors"`
	Bio                string       `json:"bio" db:"bio"`
	AvatarURL          *string      `json:"avatarUrl,omitempty" db:"avatar_url"`
	OnboardingComplete bool         `json:"onboardingComplete" db:"onboarding_complete"`
	CreatedAt          time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time    `json:"updatedAt" db:"updated_at"`

	// Groups holds the IDs of groups the user belongs to. It is a read view of
	// the group_members relation, never written directly.
	Groups []string `json:"groups,omitempty"`
}

// FullName returns the display name used for message denormalization
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	return u.FirstName + " " + u.LastName
}
