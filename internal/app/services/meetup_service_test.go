package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/pkg/apperrors"
	"github.com/Nnadozi/kram-backend/internal/pkg/helpers"
)

type meetupFixture struct {
	svc     *meetupServiceImpl
	meetups *fakeMeetupRepo
	members *fakeMembershipRepo
	now     time.Time
}

func newMeetupFixture() *meetupFixture {
	meetups := newFakeMeetupRepo()
	members := newFakeMembershipRepo()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	svc := NewMeetupService(meetups, members, zerolog.Nop()).(*meetupServiceImpl)
	svc.now = func() time.Time { return now }

	return &meetupFixture{svc: svc, meetups: meetups, members: members, now: now}
}

func (f *meetupFixture) join(t *testing.T, groupID, userID string) {
	t.Helper()
	require.NoError(t, f.members.AddMember(context.Background(), groupID, userID))
}

func (f *meetupFixture) validRequest(startsAt time.Time) *dto.CreateMeetupRequest {
	return &dto.CreateMeetupRequest{
		Name:         "Midterm Review",
		Description:  "Going through past papers together",
		Type:         "in-person",
		Location:     "Library room 2",
		StartsAt:     &startsAt,
		DurationMins: 90,
	}
}

func TestCreateMeetupEnrollsCreatorAsAttendee(t *testing.T) {
	f := newMeetupFixture()
	f.join(t, "g1", "u1")

	resp, err := f.svc.CreateMeetup(context.Background(), "g1", "u1", f.validRequest(f.now.Add(24*time.Hour)))
	require.NoError(t, err)

	assert.Equal(t, []string{"u1"}, resp.Attendees)
	assert.Equal(t, "upcoming", resp.Status)
	assert.Equal(t, "1h 30m", resp.DurationLabel)
}

func TestCreateMeetupRequiresMembership(t *testing.T) {
	f := newMeetupFixture()

	_, err := f.svc.CreateMeetup(context.Background(), "g1", "outsider", f.validRequest(f.now.Add(time.Hour)))
	assert.ErrorIs(t, err, apperrors.ErrNotMember)
}

func TestCreateMeetupRejectsPastDate(t *testing.T) {
	f := newMeetupFixture()
	f.join(t, "g1", "u1")

	_, err := f.svc.CreateMeetup(context.Background(), "g1", "u1", f.validRequest(f.now.Add(-time.Hour)))
	assert.ErrorIs(t, err, apperrors.ErrMeetupInPast)
}

func TestCreateMeetupValidatesDuration(t *testing.T) {
	f := newMeetupFixture()
	f.join(t, "g1", "u1")

	req := f.validRequest(f.now.Add(time.Hour))
	req.DurationMins = 481
	_, err := f.svc.CreateMeetup(context.Background(), "g1", "u1", req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	req.DurationMins = 0
	_, err = f.svc.CreateMeetup(context.Background(), "g1", "u1", req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	req.DurationMins = 480
	_, err = f.svc.CreateMeetup(context.Background(), "g1", "u1", req)
	assert.NoError(t, err)
}

func TestUpdateAndCancelMeetupCreatorOnly(t *testing.T) {
	f := newMeetupFixture()
	f.join(t, "g1", "u1")
	f.join(t, "g1", "u2")

	created, err := f.svc.CreateMeetup(context.Background(), "g1", "u1", f.validRequest(f.now.Add(time.Hour)))
	require.NoError(t, err)

	update := &dto.UpdateMeetupRequest{
		Name:         "Rescheduled Review",
		Description:  "Moved to the following evening",
		Type:         "virtual",
		StartsAt:     timePtr(f.now.Add(48 * time.Hour)),
		DurationMins: 60,
	}

	_, err = f.svc.UpdateMeetup(context.Background(), created.ID, "u2", update)
	assert.ErrorIs(t, err, apperrors.ErrNotMeetupCreator)

	updated, err := f.svc.UpdateMeetup(context.Background(), created.ID, "u1", update)
	require.NoError(t, err)
	assert.Equal(t, "Rescheduled Review", updated.Name)
	assert.Equal(t, "virtual", updated.Type)

	assert.ErrorIs(t, f.svc.CancelMeetup(context.Background(), created.ID, "u2"), apperrors.ErrNotMeetupCreator)
	require.NoError(t, f.svc.CancelMeetup(context.Background(), created.ID, "u1"))

	got, err := f.svc.GetMeetup(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, got.Cancelled)
	assert.Equal(t, "cancelled", got.Status)
}

func TestUpdateMeetupAfterStartKeepsDate(t *testing.T) {
	f := newMeetupFixture()
	f.join(t, "g1", "u1")

	start := f.now.Add(time.Hour)
	created, err := f.svc.CreateMeetup(context.Background(), "g1", "u1", f.validRequest(start))
	require.NoError(t, err)

	// Two hours later the meetup has already started
	f.svc.now = func() time.Time { return f.now.Add(2 * time.Hour) }

	update := &dto.UpdateMeetupRequest{
		Name:         "Post-session Notes",
		Description:  "Wrap-up and shared notes for the review",
		Type:         "in-person",
		StartsAt:     &start,
		DurationMins: 90,
	}

	// Editing with the date unchanged still works
	updated, err := f.svc.UpdateMeetup(context.Background(), created.ID, "u1", update)
	require.NoError(t, err)
	assert.Equal(t, "Post-session Notes", updated.Name)

	// Moving the date has to land in the future
	update.StartsAt = timePtr(f.now.Add(90 * time.Minute))
	_, err = f.svc.UpdateMeetup(context.Background(), created.ID, "u1", update)
	assert.ErrorIs(t, err, apperrors.ErrMeetupInPast)
}

func TestAttendRules(t *testing.T) {
	f := newMeetupFixture()
	f.join(t, "g1", "u1")
	f.join(t, "g1", "u2")

	created, err := f.svc.CreateMeetup(context.Background(), "g1", "u1", f.validRequest(f.now.Add(time.Hour)))
	require.NoError(t, err)

	// Non-members cannot attend
	assert.ErrorIs(t, f.svc.Attend(context.Background(), created.ID, "outsider"), apperrors.ErrNotMember)

	require.NoError(t, f.svc.Attend(context.Background(), created.ID, "u2"))
	assert.ErrorIs(t, f.svc.Attend(context.Background(), created.ID, "u2"), apperrors.ErrAlreadyAttending)

	require.NoError(t, f.svc.Unattend(context.Background(), created.ID, "u2"))
	assert.ErrorIs(t, f.svc.Unattend(context.Background(), created.ID, "u2"), apperrors.ErrNotAttending)
}

func TestAttendCancelledMeetupFails(t *testing.T) {
	f := newMeetupFixture()
	f.join(t, "g1", "u1")
	f.join(t, "g1", "u2")

	created, err := f.svc.CreateMeetup(context.Background(), "g1", "u1", f.validRequest(f.now.Add(time.Hour)))
	require.NoError(t, err)
	require.NoError(t, f.svc.CancelMeetup(context.Background(), created.ID, "u1"))

	assert.ErrorIs(t, f.svc.Attend(context.Background(), created.ID, "u2"), apperrors.ErrBadRequest)
}

func TestGetGroupMeetupsSortedByDate(t *testing.T) {
	f := newMeetupFixture()
	f.join(t, "g1", "u1")

	early, err := f.svc.CreateMeetup(context.Background(), "g1", "u1", f.validRequest(f.now.Add(time.Hour)))
	require.NoError(t, err)
	late, err := f.svc.CreateMeetup(context.Background(), "g1", "u1", f.validRequest(f.now.Add(72*time.Hour)))
	require.NoError(t, err)

	// Default listing is newest first
	list, err := f.svc.GetGroupMeetups(context.Background(), "g1", helpers.SortDescending)
	require.NoError(t, err)
	require.Len(t, list.Meetups, 2)
	assert.Equal(t, late.ID, list.Meetups[0].ID)
	assert.Equal(t, early.ID, list.Meetups[1].ID)

	asc, err := f.svc.GetGroupMeetups(context.Background(), "g1", helpers.SortAscending)
	require.NoError(t, err)
	assert.Equal(t, early.ID, asc.Meetups[0].ID)
}

func TestMeetupStatusNowWindow(t *testing.T) {
	f := newMeetupFixture()
	f.join(t, "g1", "u1")

	created, err := f.svc.CreateMeetup(context.Background(), "g1", "u1", f.validRequest(f.now.Add(30*time.Minute)))
	require.NoError(t, err)

	got, err := f.svc.GetMeetup(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "now", got.Status)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
