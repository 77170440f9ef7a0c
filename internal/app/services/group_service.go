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
	"github.com/Nnadozi/kram-backend/internal/pkg/validation"
)

// GroupService defines the interface for study group operations
type GroupService interface {
	CreateGroup(ctx context.Context, userID string, req *dto.CreateGroupRequest) (*dto.GroupResponse, error)
	GetGroup(ctx context.Context, groupID string) (*dto.GroupDetailResponse, error)
	GetUserGroups(ctx context.Context, userID string) (*dto.GroupListResponse, error)
	UpdateGroup(ctx context.Context, groupID, userID string, req *dto.UpdateGroupRequest) (*dto.GroupResponse, error)
	DeleteGroup(ctx context.Context, groupID, userID string) error
	JoinGroup(ctx context.Context, groupID, userID string) error
	LeaveGroup(ctx context.Context, groupID, userID string) error
	TransferOwnership(ctx context.Context, groupID, userID, newOwnerID string) error
	GetMembers(ctx context.Context, groupID string) ([]dto.GroupMemberResponse, error)
}

type groupServiceImpl struct {
	groupRepo      GroupRepository
	membershipRepo MembershipRepository
	userRepo       UserRepository
	cache          ProfileCache
	logger         zerolog.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(
	groupRepo GroupRepository,
	membershipRepo MembershipRepository,
	userRepo UserRepository,
	cache ProfileCache,
	logger zerolog.Logger,
) GroupService {
	return &groupServiceImpl{
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		cache:          cache,
		logger:         logger,
	}
}

func (s *groupServiceImpl) validateGroupName(name string) error {
	if !validation.GroupName(name) {
		return apperrors.NewValidationError(fmt.Sprintf(
			"Group name must be between %d and %d characters",
			validation.GroupNameMinLength, validation.GroupNameMaxLength))
	}
	return nil
}

func (s *groupServiceImpl) validateGroupDescription(description string) error {
	if !validation.GroupDescription(description) {
		return apperrors.NewValidationError(fmt.Sprintf(
			"Group description must be between %d and %d characters",
			validation.GroupDescriptionMinLength, validation.GroupDescriptionMaxLength))
	}
	return nil
}

// CreateGroup creates a group and enrolls the creator as its first member
func (s *groupServiceImpl) CreateGroup(ctx context.Context, userID string, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.OnboardingComplete {
		return nil, apperrors.NewForbiddenError("Complete your profile before creating a group")
	}

	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if err := s.validateGroupName(name); err != nil {
		return nil, err
	}
	if err := s.validateGroupDescription(description); err != nil {
		return nil, err
	}

	now := time.Now()
	group := &models.Group{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Subjects:    req.Subjects,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}

	s.logger.Info().Str("groupId", group.ID).Str("userId", userID).Msg("Group created")

	group.Owner = user
	resp := dto.FromGroup(group, 1)
	return &resp, nil
}

// GetGroup retrieves a group with its member list
func (s *groupServiceImpl) GetGroup(ctx context.Context, groupID string) (*dto.GroupDetailResponse, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	members, err := s.membershipRepo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if owner, err := s.cache.Get(ctx, group.CreatedBy); err == nil {
		group.Owner = owner
	}

	detail := &dto.GroupDetailResponse{
		GroupResponse: dto.FromGroup(group, len(members)),
		Members:       make([]dto.GroupMemberResponse, 0, len(members)),
	}
	for _, member := range members {
		detail.Members = append(detail.Members, dto.FromGroupMember(member, group.CreatedBy))
	}

	return detail, nil
}

// GetUserGroups lists the groups a user belongs to
func (s *groupServiceImpl) GetUserGroups(ctx context.Context, userID string) (*dto.GroupListResponse, error) {
	groupIDs, err := s.membershipRepo.GetGroupIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	groups, err := s.groupRepo.GetByIDs(ctx, groupIDs)
	if err != nil {
		return nil, err
	}

	counts, err := s.membershipRepo.CountByGroupIDs(ctx, groupIDs)
	if err != nil {
		s.logger.Error().Err(err).Str("userId", userID).Msg("Failed to count group members")
		counts = map[string]int{}
	}

	resp := &dto.GroupListResponse{Groups: make([]dto.GroupResponse, 0, len(groups))}
	for _, group := range groups {
		resp.Groups = append(resp.Groups, dto.FromGroup(group, counts[group.ID]))
	}

	return resp, nil
}

// UpdateGroup updates the group fields present in the request. Only the
// creator may edit; absent fields keep their current value.
func (s *groupServiceImpl) UpdateGroup(ctx context.Context, groupID, userID string, req *dto.UpdateGroupRequest) (*dto.GroupResponse, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy != userID {
		return nil, apperrors.ErrNotGroupCreator
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := s.validateGroupName(name); err != nil {
			return nil, err
		}
		group.Name = name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if err := s.validateGroupDescription(description); err != nil {
			return nil, err
		}
		group.Description = description
	}
	if req.Subjects != nil {
		group.Subjects = *req.Subjects
	}
	group.UpdatedAt = time.Now()

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}

	counts, _ := s.membershipRepo.CountByGroupIDs(ctx, []string{groupID})
	resp := dto.FromGroup(group, counts[groupID])
	return &resp, nil
}

// DeleteGroup removes a group entirely. Only the creator may delete.
func (s *groupServiceImpl) DeleteGroup(ctx context.Context, groupID, userID string) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatedBy != userID {
		return apperrors.ErrNotGroupCreator
	}

	if err := s.groupRepo.Delete(ctx, groupID); err != nil {
		return err
	}

	s.logger.Info().Str("groupId", groupID).Str("userId", userID).Msg("Group deleted")
	return nil
}

// JoinGroup enrolls a user in a group
func (s *groupServiceImpl) JoinGroup(ctx context.Context, groupID, userID string) error {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return err
	}

	return s.membershipRepo.AddMember(ctx, groupID, userID)
}

// LeaveGroup removes a user from a group. The creator cannot leave without
// transferring ownership first.
func (s *groupServiceImpl) LeaveGroup(ctx context.Context, groupID, userID string) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}

	if group.CreatedBy == userID {
		return apperrors.ErrCreatorLocked
	}

	return s.membershipRepo.RemoveMember(ctx, groupID, userID)
}

// TransferOwnership hands the group to another member. Only the current
// creator may transfer, and the new owner must already be a member.
func (s *groupServiceImpl) TransferOwnership(ctx context.Context, groupID, userID, newOwnerID string) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatedBy != userID {
		return apperrors.ErrNotGroupCreator
	}
	if newOwnerID == userID {
		return apperrors.NewBadRequestError("Group is already owned by this user")
	}

	isMember, err := s.membershipRepo.IsMember(ctx, groupID, newOwnerID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperrors.ErrNotMember
	}

	if err := s.groupRepo.TransferOwnership(ctx, groupID, newOwnerID); err != nil {
		return err
	}

	s.logger.Info().
		Str("groupId", groupID).
		Str("from", userID).
		Str("to", newOwnerID).
		Msg("Group ownership transferred")

	return nil
}

// GetMembers lists the members of a group
func (s *groupServiceImpl) GetMembers(ctx context.Context, groupID string) ([]dto.GroupMemberResponse, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	members, err := s.membershipRepo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GroupMemberResponse, 0, len(members))
	for _, member := range members {
		responses = append(responses, dto.FromGroupMember(member, group.CreatedBy))
	}

	return responses, nil
}
