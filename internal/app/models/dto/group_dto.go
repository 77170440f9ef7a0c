package dto

import (
	"time"

	"github.com/Nnadozi/kram-backend/internal/app/models"
)

// CreateGroupRequest represents a new study group
type CreateGroupRequest struct {
	Name        string   `json:"name" binding:"required,min=3,max=50"`
	Description string   `json:"description" binding:"required,min=10,max=500"`
	Subjects    []string `json:"subjects,omitempty"`
}

// UpdateGroupRequest represents editable group fields. Absent fields keep
// their current value.
type UpdateGroupRequest struct {
	Name        *string   `json:"name,omitempty" binding:"omitempty,min=3,max=50"`
	Description *string   `json:"description,omitempty" binding:"omitempty,min=10,max=500"`
	Subjects    *[]string `json:"subjects,omitempty"`
}

// TransferOwnershipRequest names the member taking over a group
type TransferOwnershipRequest struct {
	NewOwnerID string `json:"newOwnerId" binding:"required"`
}

// GroupResponse represents a study group
type GroupResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Subjects    []string           `json:"subjects"`
	CreatedBy   string             `json:"createdBy"`
	Owner       *UserBasicResponse `json:"owner,omitempty"`
	MemberCount int                `json:"memberCount"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// GroupDetailResponse represents a group with its full member list
type GroupDetailResponse struct {
	GroupResponse
	Members []GroupMemberResponse `json:"members"`
}

// GroupMemberResponse represents one member of a group
type GroupMemberResponse struct {
	UserID    string    `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	JoinedAt  time.Time `json:"joinedAt"`
	IsOwner   bool      `json:"isOwner"`
}

// GroupListResponse represents a page of groups
type GroupListResponse struct {
	Groups []GroupResponse `json:"groups"`
}

// FromGroup converts a models.Group to a GroupResponse
func FromGroup(group *models.Group, memberCount int) GroupResponse {
	subjects := group.Subjects
	if subjects == nil {
		subjects = []string{}
	}

	resp := GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		Subjects:    subjects,
		CreatedBy:   group.CreatedBy,
		MemberCount: memberCount,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
	if group.Owner != nil {
		owner := FromUserBasic(group.Owner)
		resp.Owner = &owner
	}
	return resp
}

// FromGroupMember converts a models.GroupMember to a GroupMemberResponse
func FromGroupMember(member *models.GroupMember, ownerID string) GroupMemberResponse {
	resp := GroupMemberResponse{
		UserID:   member.UserID,
		JoinedAt: member.JoinedAt,
		IsOwner:  member.UserID == ownerID,
	}
	if member.User != nil {
		resp.FirstName = member.User.FirstName
		resp.LastName = member.User.LastName
		resp.Email = member.User.Email
		resp.AvatarURL = member.User.AvatarURL
	}
	return resp
}
