package helpers

import (
	"fmt"
	"sort"
	"time"

	"github.com/Nnadozi/kram-backend/internal/app/models"
)

// Fallback strings returned when a timestamp cannot be resolved. Formatting
// never returns an error; screens render these literals instead.
const (
	FallbackNoDate      = "No date"
	FallbackUnknown     = "Unknown"
	FallbackInvalidDate = "Invalid date"
)

// NowWindow is the half-width of the window in which a meetup counts as
// happening "now". The window takes priority over both upcoming and past.
const NowWindow = time.Hour

// FormatMeetupDate renders a meetup start time as a display date
func FormatMeetupDate(t *time.Time) string {
	if t == nil {
		return FallbackNoDate
	}
	if t.IsZero() {
		return FallbackInvalidDate
	}
	return t.Format("Mon, Jan 2, 2006")
}

// FormatMeetupTime renders a meetup start time as a display clock time
func FormatMeetupTime(t *time.Time) string {
	if t == nil {
		return FallbackNoDate
	}
	if t.IsZero() {
		return FallbackInvalidDate
	}
	return t.Format("3:04 PM")
}

// FormatCreatedAt renders an entity creation timestamp for display
func FormatCreatedAt(t *time.Time) string {
	if t == nil || t.IsZero() {
		return FallbackUnknown
	}
	return t.Format("Jan 2, 2006")
}

// FormatDuration renders a duration in minutes as "1h 5m" style text
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}

	hours := minutes / 60
	mins := minutes % 60

	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", mins)
	case mins == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
}

// MeetupStatus classifies a meetup relative to the given wall-clock time.
// A cancelled meetup is always "cancelled", even when its date is in the
// future.
func MeetupStatus(meetup *models.Meetup, now time.Time) models.MeetupStatus {
	if meetup.Cancelled {
		return models.MeetupStatusCancelled
	}

	if meetup.StartsAt == nil || meetup.StartsAt.IsZero() {
		return models.MeetupStatusUpcoming
	}

	diff := meetup.StartsAt.Sub(now)
	if diff < 0 {
		diff = -diff
	}
	if diff <= NowWindow {
		return models.MeetupStatusNow
	}

	if meetup.StartsAt.After(now) {
		return models.MeetupStatusUpcoming
	}
	return models.MeetupStatusPast
}

// SortDirection controls meetup ordering
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// SortMeetupsByDate sorts meetups by start time, stably, most recent first by
// default. Meetups whose date cannot be resolved compare equal, preserving
// their relative order.
func SortMeetupsByDate(meetups []*models.Meetup, direction SortDirection) {
	sort.SliceStable(meetups, func(i, j int) bool {
		a, b := meetups[i].StartsAt, meetups[j].StartsAt
		if a == nil || b == nil || a.IsZero() || b.IsZero() {
			return false
		}
		if direction == SortAscending {
			return a.Before(*b)
		}
		return a.After(*b)
	})
}

// ParseDuration parses a duration string, returns default duration on error
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		return defaultDuration
	}
	return duration
}
