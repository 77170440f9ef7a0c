package dto

import (
	"time"

	"github.com/Nnadozi/kram-backend/internal/app/models"
)

// UserResponse represents a user profile
type UserResponse struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	School             string    `json:"school"`
	GraduationYear     *int      `json:"graduationYear,omitempty"`
	Majors             []string  `json:"majors"`
	Minors             []string  `json:"minors"`
	Bio                string    `json:"bio"`
	AvatarURL          *string   `json:"avatarUrl,omitempty"`
	OnboardingComplete bool      `json:"onboardingComplete"`
	Groups             []string  `json:"groups"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// UserBasicResponse represents minimal user information for embedding
type UserBasicResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// UpdateProfileRequest represents onboarding or profile update data.
// All fields are optional; absent fields keep their current value.
type UpdateProfileRequest struct {
	FirstName      *string   `json:"firstName,omitempty"`
	LastName       *string   `json:"lastName,omitempty"`
	School         *string   `json:"school,omitempty"`
	GraduationYear *int      `json:"graduationYear,omitempty"`
	Majors         *[]string `json:"majors,omitempty"`
	Minors         *[]string `json:"minors,omitempty"`
	Bio            *string   `json:"bio,omitempty"`
	AvatarURL      *string   `json:"avatarUrl,omitempty"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(user *models.User) UserResponse {
	groups := user.Groups
	if groups == nil {
		groups = []string{}
	}
	majors := user.Majors
	if majors == nil {
		majors = []string{}
	}
	minors := user.Minors
	if minors == nil {
		minors = []string{}
	}

	return UserResponse{
		ID:                 user.ID,
		Email:              user.Email,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		School:             user.School,
		GraduationYear:     user.GraduationYear,
		Majors:             majors,
		Minors:             minors,
		Bio:                user.Bio,
		AvatarURL:          user.AvatarURL,
		OnboardingComplete: user.OnboardingComplete,
		Groups:             groups,
		CreatedAt:          user.CreatedAt,
		UpdatedAt:          user.UpdatedAt,
	}
}

// FromUserBasic converts a models.User to a UserBasicResponse
func FromUserBasic(user *models.User) UserBasicResponse {
	return UserBasicResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
	}
}
