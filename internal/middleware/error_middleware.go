package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto HTTP responses. CustomError
// messages pass through so the client sees the precise reason.
func HandleAPIError(c *gin.Context, err error) {
	message := func(fallback string) string {
		var customErr *apperrors.CustomError
		if errors.As(err, &customErr) && customErr.Message != "" {
			return customErr.Message
		}
		return fallback
	}

	switch {
	case apperrors.Is(err, apperrors.ErrUserNotFound,
		apperrors.ErrGroupNotFound,
		apperrors.ErrMeetupNotFound,
		apperrors.ErrMessageNotFound,
		apperrors.ErrResourceNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message(err.Error())),
		})
	case apperrors.Is(err, apperrors.ErrNotGroupCreator,
		apperrors.ErrNotMeetupCreator,
		apperrors.ErrNotMessageSender,
		apperrors.ErrNotMember,
		apperrors.ErrPermissionDenied):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, message(err.Error())),
		})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid email or password"),
		})
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		})
	case apperrors.Is(err, apperrors.ErrTokenInvalid,
		apperrors.ErrTokenNotFound,
		apperrors.ErrTokenRevoked):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})
	case apperrors.Is(err, apperrors.ErrEmailAlreadyExists,
		apperrors.ErrAlreadyMember,
		apperrors.ErrAlreadyAttending,
		apperrors.ErrCreatorLocked,
		apperrors.ErrNotAttending,
		apperrors.ErrConflict):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, message(err.Error())),
		})
	case apperrors.Is(err, apperrors.ErrValidationFailed,
		apperrors.ErrMeetupInPast,
		apperrors.ErrBadRequest):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message(err.Error())),
		})
	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
