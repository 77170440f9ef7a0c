package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/pkg/apperrors"
	"github.com/Nnadozi/kram-backend/internal/pkg/validation"
)

// UserService defines the interface for profile operations
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type userServiceImpl struct {
	userRepo       UserRepository
	membershipRepo MembershipRepository
	cache          ProfileCache
	logger         zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo UserRepository,
	membershipRepo MembershipRepository,
	cache ProfileCache,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		cache:          cache,
		logger:         logger,
	}
}

// GetProfile returns a user's profile including the groups they belong to
func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	groupIDs, err := s.membershipRepo.GetGroupIDsByUser(ctx, userID)
	if err != nil {
		// Membership lookup failing should not hide the profile
		s.logger.Error().Err(err).Str("userId", userID).Msg("Failed to load group memberships")
		groupIDs = []string{}
	}
	user.Groups = groupIDs

	resp := dto.FromUser(user)
	return &resp, nil
}

// UpdateProfile validates and saves the fields present in the request,
// leaving the rest untouched. Onboarding is considered complete once first
// name, last name, school and graduation year are all set.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		firstName := strings.TrimSpace(*req.FirstName)
		if !validation.Name(firstName) {
			return nil, apperrors.NewValidationError(fmt.Sprintf(
				"First name must be between %d and %d characters", validation.NameMinLength, validation.NameMaxLength))
		}
		user.FirstName = firstName
	}
	if req.LastName != nil {
		lastName := strings.TrimSpace(*req.LastName)
		if !validation.Name(lastName) {
			return nil, apperrors.NewValidationError(fmt.Sprintf(
				"Last name must be between %d and %d characters", validation.NameMinLength, validation.NameMaxLength))
		}
		user.LastName = lastName
	}
	if req.School != nil {
		school := strings.TrimSpace(*req.School)
		if school == "" {
			return nil, apperrors.NewValidationError("School is required")
		}
		user.School = school
	}
	if req.GraduationYear != nil {
		if !validation.GraduationYear(*req.GraduationYear) {
			return nil, apperrors.NewValidationError("Graduation year is out of range")
		}
		user.GraduationYear = req.GraduationYear
	}
	if req.Majors != nil {
		user.Majors = *req.Majors
	}
	if req.Minors != nil {
		user.Minors = *req.Minors
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	user.OnboardingComplete = user.FirstName != "" && user.LastName != "" &&
		user.School != "" && user.GraduationYear != nil
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// Write through so chat and member lists pick up the new name immediately
	s.cache.Put(user)

	groupIDs, err := s.membershipRepo.GetGroupIDsByUser(ctx, userID)
	if err == nil {
		user.Groups = groupIDs
	}

	resp := dto.FromUser(user)
	return &resp, nil
}

// DeleteAccount removes the account and everything tied to it in one
// transaction. Chat history and groups the user created survive.
func (s *userServiceImpl) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.DeleteAccount(ctx, userID); err != nil {
		return err
	}

	s.cache.Invalidate(userID)
	s.logger.Info().Str("userId", userID).Msg("Account deleted")

	return nil
}
