package services

import (
	"context"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/Nnadozi/kram-backend/internal/app/models"
	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/pkg/apperrors"
	"github.com/Nnadozi/kram-backend/internal/pkg/email"
	"github.com/Nnadozi/kram-backend/internal/pkg/validation"
)

// FeedbackService defines the interface for feedback submissions
type FeedbackService interface {
	SubmitFeedback(ctx context.Context, userID string, req *dto.SubmitFeedbackRequest) (*dto.FeedbackResponse, error)
}

type feedbackServiceImpl struct {
	userRepo     UserRepository
	emailService email.EmailService
	logger       zerolog.Logger
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(
	userRepo UserRepository,
	emailService email.EmailService,
	logger zerolog.Logger,
) FeedbackService {
	return &feedbackServiceImpl{
		userRepo:     userRepo,
		emailService: emailService,
		logger:       logger,
	}
}

// SubmitFeedback validates a feedback submission and forwards it to the
// feedback inbox. Unknown categories fall back to "other".
func (s *feedbackServiceImpl) SubmitFeedback(ctx context.Context, userID string, req *dto.SubmitFeedbackRequest) (*dto.FeedbackResponse, error) {
	message := strings.TrimSpace(req.Message)
	if !validation.FeedbackMessage(message) {
		return nil, apperrors.NewValidationError("Feedback message must be between 1 and 2000 characters")
	}

	category := models.FeedbackCategory(strings.ToLower(strings.TrimSpace(req.Category)))
	if !models.ValidFeedbackCategory(category) {
		category = models.FeedbackCategoryOther
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	referenceID, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	feedback := &models.Feedback{
		Message:   message,
		Category:  category,
		UserEmail: user.Email,
		UserID:    userID,
	}

	if err := s.emailService.SendFeedbackEmail(feedback, referenceID); err != nil {
		s.logger.Error().Err(err).Str("referenceId", referenceID).Msg("Failed to send feedback email")
		return nil, apperrors.NewCustomError(err, "Failed to submit feedback")
	}

	s.logger.Info().
		Str("referenceId", referenceID).
		Str("category", string(category)).
		Msg("Feedback submitted")

	return &dto.FeedbackResponse{
		ReferenceID: referenceID,
		Category:    string(category),
	}, nil
}
