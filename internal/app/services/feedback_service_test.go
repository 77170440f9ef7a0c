package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nnadozi/kram-backend/internal/app/models"
	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/pkg/apperrors"
)

type fakeEmailService struct {
	sent    []*models.Feedback
	refIDs  []string
	failure error
}

func (f *fakeEmailService) SendFeedbackEmail(feedback *models.Feedback, referenceID string) error {
	if f.failure != nil {
		return f.failure
	}
	f.sent = append(f.sent, feedback)
	f.refIDs = append(f.refIDs, referenceID)
	return nil
}

type feedbackFixture struct {
	svc   FeedbackService
	users *fakeUserRepo
	email *fakeEmailService
}

func newFeedbackFixture(t *testing.T) *feedbackFixture {
	t.Helper()
	users := newFakeUserRepo()
	require.NoError(t, users.Create(context.Background(), &models.User{
		ID:    "u1",
		Email: "ada@example.com",
	}))
	emailService := &fakeEmailService{}

	return &feedbackFixture{
		svc:   NewFeedbackService(users, emailService, zerolog.Nop()),
		users: users,
		email: emailService,
	}
}

func TestSubmitFeedbackSendsEmail(t *testing.T) {
	f := newFeedbackFixture(t)

	resp, err := f.svc.SubmitFeedback(context.Background(), "u1", &dto.SubmitFeedbackRequest{
		Message:  "The meetup screen is great.",
		Category: "feature",
	})
	require.NoError(t, err)

	assert.Equal(t, "feature", resp.Category)
	assert.NotEmpty(t, resp.ReferenceID)

	require.Len(t, f.email.sent, 1)
	assert.Equal(t, "ada@example.com", f.email.sent[0].UserEmail)
	assert.Equal(t, "u1", f.email.sent[0].UserID)
	assert.Equal(t, resp.ReferenceID, f.email.refIDs[0])
}

func TestSubmitFeedbackUnknownCategoryFallsBack(t *testing.T) {
	f := newFeedbackFixture(t)

	tests := []struct {
		category string
		want     string
	}{
		{"Bug", "bug"},
		{"  ui  ", "ui"},
		{"complaint", "other"},
		{"", "other"},
	}

	for _, tt := range tests {
		resp, err := f.svc.SubmitFeedback(context.Background(), "u1", &dto.SubmitFeedbackRequest{
			Message:  "Something worth saying.",
			Category: tt.category,
		})
		require.NoError(t, err)
		assert.Equal(t, tt.want, resp.Category)
	}
}

func TestSubmitFeedbackValidatesMessage(t *testing.T) {
	f := newFeedbackFixture(t)

	_, err := f.svc.SubmitFeedback(context.Background(), "u1", &dto.SubmitFeedbackRequest{Message: "   "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, f.email.sent)
}

func TestSubmitFeedbackEmailFailure(t *testing.T) {
	f := newFeedbackFixture(t)
	f.email.failure = errors.New("smtp unreachable")

	_, err := f.svc.SubmitFeedback(context.Background(), "u1", &dto.SubmitFeedbackRequest{Message: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to submit feedback")
}

func TestSubmitFeedbackUnknownUser(t *testing.T) {
	f := newFeedbackFixture(t)

	_, err := f.svc.SubmitFeedback(context.Background(), "missing", &dto.SubmitFeedbackRequest{Message: "hello"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
