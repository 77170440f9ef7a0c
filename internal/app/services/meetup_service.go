package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Nnadozi/kram-backend/internal/app/models"
	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/pkg/apperrors"
	"github.com/Nnadozi/kram-backend/internal/pkg/helpers"
	"github.com/Nnadozi/kram-backend/internal/pkg/validation"
)

// MeetupService defines the interface for meetup operations
type MeetupService interface {
	CreateMeetup(ctx context.Context, groupID, userID string, req *dto.CreateMeetupRequest) (*dto.MeetupResponse, error)
	GetMeetup(ctx context.Context, meetupID string) (*dto.MeetupResponse, error)
	GetGroupMeetups(ctx context.Context, groupID string, direction helpers.SortDirection) (*dto.MeetupListResponse, error)
	GetUserMeetups(ctx context.Context, userID string, direction helpers.SortDirection) (*dto.MeetupListResponse, error)
	UpdateMeetup(ctx context.Context, meetupID, userID string, req *dto.UpdateMeetupRequest) (*dto.MeetupResponse, error)
	CancelMeetup(ctx context.Context, meetupID, userID string) error
	DeleteMeetup(ctx context.Context, meetupID, userID string) error
	Attend(ctx context.Context, meetupID, userID string) error
	Unattend(ctx context.Context, meetupID, userID string) error
}

type meetupServiceImpl struct {
	meetupRepo     MeetupRepository
	membershipRepo MembershipRepository
	logger         zerolog.Logger

	// now is swappable in tests
	now func() time.Time
}

// NewMeetupService creates a new MeetupService
func NewMeetupService(
	meetupRepo MeetupRepository,
	membershipRepo MembershipRepository,
	logger zerolog.Logger,
) MeetupService {
	return &meetupServiceImpl{
		meetupRepo:     meetupRepo,
		membershipRepo: membershipRepo,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *meetupServiceImpl) validateMeetupFields(name, description string, durationMins int, startsAt *time.Time) error {
	if !validation.MeetupName(name) {
		return apperrors.NewValidationError(fmt.Sprintf(
			"Meetup name must be between %d and %d characters",
			validation.MeetupNameMinLength, validation.MeetupNameMaxLength))
	}
	if !validation.MeetupDescription(description) {
		return apperrors.NewValidationError(fmt.Sprintf(
			"Meetup description must be between %d and %d characters",
			validation.MeetupDescriptionMinLength, validation.MeetupDescriptionMaxLength))
	}
	if !validation.MeetupLength(durationMins) {
		return apperrors.NewValidationError(fmt.Sprintf(
			"Meetup length must be between 1 and %d minutes", validation.MeetupLengthMaxMinutes))
	}
	if startsAt == nil || startsAt.IsZero() {
		return apperrors.NewValidationError("Meetup date is required")
	}
	return nil
}

// CreateMeetup schedules a meetup in a group. The creator must be a member
// and is enrolled as the first attendee.
func (s *meetupServiceImpl) CreateMeetup(ctx context.Context, groupID, userID string, req *dto.CreateMeetupRequest) (*dto.MeetupResponse, error) {
	isMember, err := s.membershipRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperrors.ErrNotMember
	}

	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if err := s.validateMeetupFields(name, description, req.DurationMins, req.StartsAt); err != nil {
		return nil, err
	}
	if req.StartsAt.Before(s.now()) {
		return nil, apperrors.ErrMeetupInPast
	}

	now := s.now()
	meetup := &models.Meetup{
		ID:           uuid.New().String(),
		GroupID:      groupID,
		Name:         name,
		Description:  description,
		Type:         models.MeetupType(req.Type),
		Location:     strings.TrimSpace(req.Location),
		StartsAt:     req.StartsAt,
		DurationMins: req.DurationMins,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.meetupRepo.Create(ctx, meetup); err != nil {
		return nil, err
	}

	s.logger.Info().Str("meetupId", meetup.ID).Str("groupId", groupID).Msg("Meetup created")

	meetup.Attendees = []string{userID}
	resp := s.toResponse(meetup)
	return &resp, nil
}

// GetMeetup retrieves a meetup with attendees and display fields
func (s *meetupServiceImpl) GetMeetup(ctx context.Context, meetupID string) (*dto.MeetupResponse, error) {
	meetup, err := s.meetupRepo.GetByID(ctx, meetupID)
	if err != nil {
		return nil, err
	}

	attendees, err := s.meetupRepo.GetAttendeeIDs(ctx, meetupID)
	if err != nil {
		s.logger.Error().Err(err).Str("meetupId", meetupID).Msg("Failed to load attendees")
		attendees = []string{}
	}
	meetup.Attendees = attendees

	resp := s.toResponse(meetup)
	return &resp, nil
}

// GetGroupMeetups lists a group's meetups sorted by date
func (s *meetupServiceImpl) GetGroupMeetups(ctx context.Context, groupID string, direction helpers.SortDirection) (*dto.MeetupListResponse, error) {
	meetups, err := s.meetupRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.toListResponse(ctx, meetups, direction), nil
}

// GetUserMeetups lists every meetup across the user's groups sorted by date
func (s *meetupServiceImpl) GetUserMeetups(ctx context.Context, userID string, direction helpers.SortDirection) (*dto.MeetupListResponse, error) {
	meetups, err := s.meetupRepo.GetByUserMembership(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toListResponse(ctx, meetups, direction), nil
}

// UpdateMeetup updates meetup fields. Only the creator may edit.
func (s *meetupServiceImpl) UpdateMeetup(ctx context.Context, meetupID, userID string, req *dto.UpdateMeetupRequest) (*dto.MeetupResponse, error) {
	meetup, err := s.meetupRepo.GetByID(ctx, meetupID)
	if err != nil {
		return nil, err
	}
	if meetup.CreatedBy != userID {
		return nil, apperrors.ErrNotMeetupCreator
	}

	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if err := s.validateMeetupFields(name, description, req.DurationMins, req.StartsAt); err != nil {
		return nil, err
	}

	// Editing a meetup that already started stays possible as long as the
	// date itself is not moved. A changed date still has to be in the future.
	dateChanged := meetup.StartsAt == nil || !req.StartsAt.Equal(*meetup.StartsAt)
	if dateChanged && req.StartsAt.Before(s.now()) {
		return nil, apperrors.ErrMeetupInPast
	}

	meetup.Name = name
	meetup.Description = description
	meetup.Type = models.MeetupType(req.Type)
	meetup.Location = strings.TrimSpace(req.Location)
	meetup.StartsAt = req.StartsAt
	meetup.DurationMins = req.DurationMins
	meetup.UpdatedAt = s.now()

	if err := s.meetupRepo.Update(ctx, meetup); err != nil {
		return nil, err
	}

	attendees, err := s.meetupRepo.GetAttendeeIDs(ctx, meetupID)
	if err == nil {
		meetup.Attendees = attendees
	}

	resp := s.toResponse(meetup)
	return &resp, nil
}

// CancelMeetup marks a meetup cancelled without removing it. Only the
// creator may cancel.
func (s *meetupServiceImpl) CancelMeetup(ctx context.Context, meetupID, userID string) error {
	meetup, err := s.meetupRepo.GetByID(ctx, meetupID)
	if err != nil {
		return err
	}
	if meetup.CreatedBy != userID {
		return apperrors.ErrNotMeetupCreator
	}

	meetup.Cancelled = true
	meetup.UpdatedAt = s.now()

	return s.meetupRepo.Update(ctx, meetup)
}

// DeleteMeetup removes a meetup. Only the creator may delete.
func (s *meetupServiceImpl) DeleteMeetup(ctx context.Context, meetupID, userID string) error {
	meetup, err := s.meetupRepo.GetByID(ctx, meetupID)
	if err != nil {
		return err
	}
	if meetup.CreatedBy != userID {
		return apperrors.ErrNotMeetupCreator
	}

	return s.meetupRepo.Delete(ctx, meetupID)
}

// Attend marks the user as attending. The meetup must not be cancelled or
// already over, and the user must belong to the group.
func (s *meetupServiceImpl) Attend(ctx context.Context, meetupID, userID string) error {
	meetup, err := s.meetupRepo.GetByID(ctx, meetupID)
	if err != nil {
		return err
	}

	isMember, err := s.membershipRepo.IsMember(ctx, meetup.GroupID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperrors.ErrNotMember
	}

	status := helpers.MeetupStatus(meetup, s.now())
	if status == models.MeetupStatusCancelled {
		return apperrors.NewBadRequestError("Meetup has been cancelled")
	}
	if status == models.MeetupStatusPast {
		return apperrors.ErrMeetupInPast
	}

	return s.meetupRepo.AddAttendee(ctx, meetupID, userID)
}

// Unattend removes the user's attendance
func (s *meetupServiceImpl) Unattend(ctx context.Context, meetupID, userID string) error {
	if _, err := s.meetupRepo.GetByID(ctx, meetupID); err != nil {
		return err
	}

	return s.meetupRepo.RemoveAttendee(ctx, meetupID, userID)
}

func (s *meetupServiceImpl) toResponse(meetup *models.Meetup) dto.MeetupResponse {
	resp := dto.FromMeetup(meetup)
	resp.DateDisplay = helpers.FormatMeetupDate(meetup.StartsAt)
	resp.TimeDisplay = helpers.FormatMeetupTime(meetup.StartsAt)
	resp.DurationLabel = helpers.FormatDuration(meetup.DurationMins)
	resp.Status = string(helpers.MeetupStatus(meetup, s.now()))
	return resp
}

func (s *meetupServiceImpl) toListResponse(ctx context.Context, meetups []*models.Meetup, direction helpers.SortDirection) *dto.MeetupListResponse {
	helpers.SortMeetupsByDate(meetups, direction)

	resp := &dto.MeetupListResponse{Meetups: make([]dto.MeetupResponse, 0, len(meetups))}
	for _, meetup := range meetups {
		attendees, err := s.meetupRepo.GetAttendeeIDs(ctx, meetup.ID)
		if err != nil {
			// Skip attendee detail rather than failing the whole list
			s.logger.Error().Err(err).Str("meetupId", meetup.ID).Msg("Failed to load attendees")
			attendees = []string{}
		}
		meetup.Attendees = attendees
		resp.Meetups = append(resp.Meetups, s.toResponse(meetup))
	}
	return resp
}
