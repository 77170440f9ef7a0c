package models

import "time"

// Group represents a study group
type Group struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Subjects    []string  `json:"subjects" db:"subjects"`
	CreatedBy   string    `json:"createdBy" db:"created_by"` // Owner; always present in Members
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Read views populated from relations
	Members []string `json:"members,omitempty"` // Member user IDs
	Meetups []string `json:"meetups,omitempty"` // Meetup IDs created under this group
	Owner   *User    `json:"owner,omitempty"`
}

// GroupMember represents a row in the group_members relation. Membership is a
// single relation; user.Groups and group.Members are both derived from it.
type GroupMember struct {
	ID       int64     `json:"id" db:"id"`
	GroupID  string    `json:"groupId" db:"group_id"`
	UserID   string    `json:"userId" db:"user_id"`
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`

	User *User `json:"user,omitempty"`
}

// HasMember reports whether the given user ID is in the loaded member view
func (g *Group) HasMember(userID string) bool {
	for _, id := range g.Members {
		if id == userID {
			return true
		}
	}
	return false
}
