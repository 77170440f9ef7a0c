package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/app/services"
	"github.com/Nnadozi/kram-backend/internal/middleware"
)

// FeedbackController handles feedback submissions
type FeedbackController struct {
	feedbackService services.FeedbackService
}

// NewFeedbackController creates a new FeedbackController
func NewFeedbackController(feedbackService services.FeedbackService) *FeedbackController {
	return &FeedbackController{feedbackService: feedbackService}
}

// SubmitFeedback handles a feedback submission
// @Summary Submit feedback
// @Description Sends feedback to the team inbox and returns a reference ID. Unknown categories become "other".
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitFeedbackRequest true "Feedback"
// @Success 201 {object} dto.StructuredResponse{data=dto.FeedbackResponse} "Feedback submitted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /feedback [post]
func (c *FeedbackController) SubmitFeedback(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.SubmitFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	response, err := c.feedbackService.SubmitFeedback(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(response, "Feedback submitted successfully"))
}
