package models

import "time"

// MeetupType represents how a meetup is held
type MeetupType string

const (
	MeetupTypeVirtual  MeetupType = "virtual"
	MeetupTypeInPerson MeetupType = "in-person"
)

// MeetupStatus classifies a meetup relative to wall-clock time
type MeetupStatus string

const (
	MeetupStatusUpcoming  MeetupStatus = "upcoming"
	MeetupStatusPast      MeetupStatus = "past"
	MeetupStatusNow       MeetupStatus = "now"
	MeetupStatusCancelled MeetupStatus = "cancelled"
)

// Meetup represents a scheduled study session under a group
type Meetup struct {
	ID           string     `json:"id" db:"id"`
	GroupID      string     `json:"groupId" db:"group_id"`
	Name         string     `json:"name" db:"name"`
	Description  string     `json:"description" db:"description"`
	Type         MeetupType `json:"type" db:"meetup_type"`
	Location     string     `json:"location" db:"location"`
	StartsAt     *time.Time `json:"startsAt" db:"starts_at"`
	DurationMins int        `json:"durationMins" db:"duration_mins"` // Minutes, (0, 480]
	Cancelled    bool       `json:"cancelled" db:"cancelled"`
	CreatedBy    string     `json:"createdBy" db:"created_by"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`

	// Attendees holds user IDs, read view of meetup_attendees
	Attendees []string `json:"attendees,omitempty"`
}

// MeetupAttendee represents a row in the meetup_attendees relation
type MeetupAttendee struct {
	ID       int64     `json:"id" db:"id"`
	MeetupID string    `json:"meetupId" db:"meetup_id"`
	UserID   string    `json:"userId" db:"user_id"`
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`
}

// HasAttendee reports whether the given user ID is in the loaded attendee view
func (m *Meetup) HasAttendee(userID string) bool {
	for _, id := range m.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}
