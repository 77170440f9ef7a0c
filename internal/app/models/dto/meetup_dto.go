package dto

import (
	"time"

	"github.com/Nnadozi/kram-backend/internal/app/models"
)

// CreateMeetupRequest represents a new meetup
type CreateMeetupRequest struct {
	Name         string     `json:"name" binding:"required,min=3,max=100"`
	Description  string     `json:"description" binding:"required,min=10,max=1000"`
	Type         string     `json:"type" binding:"required,oneof=virtual in-person"`
	Location     string     `json:"location,omitempty"`
	StartsAt     *time.Time `json:"startsAt" binding:"required"`
	DurationMins int        `json:"durationMins" binding:"required,gt=0,lte=480"`
}

// UpdateMeetupRequest represents editable meetup fields
type UpdateMeetupRequest struct {
	Name         string     `json:"name" binding:"required,min=3,max=100"`
	Description  string     `json:"description" binding:"required,min=10,max=1000"`
	Type         string     `json:"type" binding:"required,oneof=virtual in-person"`
	Location     string     `json:"location,omitempty"`
	StartsAt     *time.Time `json:"startsAt" binding:"required"`
	DurationMins int        `json:"durationMins" binding:"required,gt=0,lte=480"`
}

// MeetupResponse represents a meetup with display-ready date fields
type MeetupResponse struct {
	ID            string     `json:"id"`
	GroupID       string     `json:"groupId"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Type          string     `json:"type"`
	Location      string     `json:"location"`
	StartsAt      *time.Time `json:"startsAt,omitempty"`
	DateDisplay   string     `json:"dateDisplay"`
	TimeDisplay   string     `json:"timeDisplay"`
	DurationMins  int        `json:"durationMins"`
	DurationLabel string     `json:"durationLabel"`
	Status        string     `json:"status"`
	Cancelled     bool       `json:"cancelled"`
	CreatedBy     string     `json:"createdBy"`
	Attendees     []string   `json:"attendees"`
	AttendeeCount int        `json:"attendeeCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// MeetupListResponse represents a list of meetups
type MeetupListResponse struct {
	Meetups []MeetupResponse `json:"meetups"`
}

// FromMeetup converts a models.Meetup to a MeetupResponse. Display fields
// (date, time, duration, status) are filled in by the service layer.
func FromMeetup(meetup *models.Meetup) MeetupResponse {
	attendees := meetup.Attendees
	if attendees == nil {
		attendees = []string{}
	}

	return MeetupResponse{
		ID:            meetup.ID,
		GroupID:       meetup.GroupID,
		Name:          meetup.Name,
		Description:   meetup.Description,
		Type:          string(meetup.Type),
		Location:      meetup.Location,
		StartsAt:      meetup.StartsAt,
		DurationMins:  meetup.DurationMins,
		Cancelled:     meetup.Cancelled,
		CreatedBy:     meetup.CreatedBy,
		Attendees:     attendees,
		AttendeeCount: len(attendees),
		CreatedAt:     meetup.CreatedAt,
		UpdatedAt:     meetup.UpdatedAt,
	}
}
