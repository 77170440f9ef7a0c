package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Nnadozi/kram-backend/internal/app/models"
)

func meetupAt(t time.Time, cancelled bool) *models.Meetup {
	return &models.Meetup{StartsAt: &t, Cancelled: cancelled}
}

func TestMeetupStatus(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		meetup *models.Meetup
		want   models.MeetupStatus
	}{
		{"exactly now", meetupAt(now, false), models.MeetupStatusNow},
		{"within window before start", meetupAt(now.Add(30*time.Minute), false), models.MeetupStatusNow},
		{"within window after start", meetupAt(now.Add(-45*time.Minute), false), models.MeetupStatusNow},
		{"two hours ahead", meetupAt(now.Add(2*time.Hour), false), models.MeetupStatusUpcoming},
		{"two hours ago", meetupAt(now.Add(-2*time.Hour), false), models.MeetupStatusPast},
		{"cancelled overrides future date", meetupAt(now.Add(2*time.Hour), true), models.MeetupStatusCancelled},
		{"cancelled overrides now window", meetupAt(now, true), models.MeetupStatusCancelled},
		{"no date", &models.Meetup{}, models.MeetupStatusUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MeetupStatus(tt.meetup, now))
		})
	}
}

func TestSortMeetupsByDate(t *testing.T) {
	jan1 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	jan2 := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	jan5 := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

	newList := func() []*models.Meetup {
		return []*models.Meetup{meetupAt(jan2, false), meetupAt(jan5, false), meetupAt(jan1, false)}
	}

	desc := newList()
	SortMeetupsByDate(desc, SortDescending)
	assert.Equal(t, jan5, *desc[0].StartsAt)
	assert.Equal(t, jan2, *desc[1].StartsAt)
	assert.Equal(t, jan1, *desc[2].StartsAt)

	asc := newList()
	SortMeetupsByDate(asc, SortAscending)
	assert.Equal(t, jan1, *asc[0].StartsAt)
	assert.Equal(t, jan2, *asc[1].StartsAt)
	assert.Equal(t, jan5, *asc[2].StartsAt)
}

func TestSortMeetupsByDateMalformed(t *testing.T) {
	jan1 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	noDate := &models.Meetup{ID: "no-date"}
	dated := meetupAt(jan1, false)
	dated.ID = "dated"

	// Unresolvable dates compare equal, so the stable sort keeps order.
	list := []*models.Meetup{noDate, dated}
	SortMeetupsByDate(list, SortDescending)
	assert.Equal(t, "no-date", list[0].ID)
	assert.Equal(t, "dated", list[1].ID)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h"},
		{65, "1h 5m"},
		{120, "2h"},
		{125, "2h 5m"},
		{-10, "0m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.minutes), "FormatDuration(%d)", tt.minutes)
	}
}

func TestFormatFallbacks(t *testing.T) {
	var zero time.Time

	assert.Equal(t, FallbackNoDate, FormatMeetupDate(nil))
	assert.Equal(t, FallbackInvalidDate, FormatMeetupDate(&zero))
	assert.Equal(t, FallbackNoDate, FormatMeetupTime(nil))
	assert.Equal(t, FallbackUnknown, FormatCreatedAt(nil))
	assert.Equal(t, FallbackUnknown, FormatCreatedAt(&zero))

	jan2 := time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, "Fri, Jan 2, 2026", FormatMeetupDate(&jan2))
	assert.Equal(t, "3:04 PM", FormatMeetupTime(&jan2))
	assert.Equal(t, "Jan 2, 2026", FormatCreatedAt(&jan2))
}
