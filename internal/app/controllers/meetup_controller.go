package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/app/services"
	"github.com/Nnadozi/kram-backend/internal/middleware"
	"github.com/Nnadozi/kram-backend/internal/pkg/helpers"
)

// MeetupController handles meetup related operations
type MeetupController struct {
	meetupService services.MeetupService
}

// NewMeetupController creates a new MeetupController
func NewMeetupController(meetupService services.MeetupService) *MeetupController {
	return &MeetupController{meetupService: meetupService}
}

// parseSortDirection reads the sort query param. Newest first is the default.
func parseSortDirection(ctx *gin.Context) helpers.SortDirection {
	if ctx.Query("sort") == "asc" {
		return helpers.SortAscending
	}
	return helpers.SortDescending
}

// CreateMeetup handles scheduling a meetup for a group
// @Summary Create a meetup
// @Description Schedules a meetup in a group. The creator automatically attends. Members only.
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param request body dto.CreateMeetupRequest true "Create meetup request"
// @Success 201 {object} dto.APIResponse{data=dto.MeetupResponse} "Meetup created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters or date in the past"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the group"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id}/meetups [post]
func (c *MeetupController) CreateMeetup(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateMeetupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	meetup, err := c.meetupService.CreateMeetup(ctx, ctx.Param("id"), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(meetup))
}

// GetGroupMeetups handles listing a group's meetups
// @Summary Get group meetups
// @Description Lists all meetups of a group ordered by date
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param sort query string false "Sort direction by date" Enums(asc, desc) default(desc)
// @Success 200 {object} dto.APIResponse{data=dto.MeetupListResponse} "Meetups retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id}/meetups [get]
func (c *MeetupController) GetGroupMeetups(ctx *gin.Context) {
	meetups, err := c.meetupService.GetGroupMeetups(ctx, ctx.Param("id"), parseSortDirection(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(meetups))
}

// GetMyMeetups handles listing meetups across the user's groups
// @Summary Get my meetups
// @Description Lists meetups from every group the authenticated user belongs to
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sort query string false "Sort direction by date" Enums(asc, desc) default(desc)
// @Success 200 {object} dto.APIResponse{data=dto.MeetupListResponse} "Meetups retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me/meetups [get]
func (c *MeetupController) GetMyMeetups(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	meetups, err := c.meetupService.GetUserMeetups(ctx, userID, parseSortDirection(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(meetups))
}

// GetMeetup handles retrieving a single meetup
// @Summary Get meetup by ID
// @Description Retrieves a meetup with its computed status and attendee list
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meetup ID"
// @Success 200 {object} dto.APIResponse{data=dto.MeetupResponse} "Meetup retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Meetup not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /meetups/{id} [get]
func (c *MeetupController) GetMeetup(ctx *gin.Context) {
	meetup, err := c.meetupService.GetMeetup(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(meetup))
}

// UpdateMeetup handles editing a meetup
// @Summary Update a meetup
// @Description Updates meetup fields. Only the meetup creator may update it.
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meetup ID"
// @Param request body dto.UpdateMeetupRequest true "Update meetup request"
// @Success 200 {object} dto.APIResponse{data=dto.MeetupResponse} "Meetup updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters or date in the past"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Only the creator can update the meetup"
// @Failure 404 {object} dto.ErrorResponse "Meetup not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /meetups/{id} [put]
func (c *MeetupController) UpdateMeetup(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.UpdateMeetupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	meetup, err := c.meetupService.UpdateMeetup(ctx, ctx.Param("id"), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(meetup))
}

// CancelMeetup handles cancelling a meetup without deleting it
// @Summary Cancel a meetup
// @Description Marks the meetup as cancelled so it can no longer be attended. Only the creator may cancel.
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meetup ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Meetup cancelled successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Only the creator can cancel the meetup"
// @Failure 404 {object} dto.ErrorResponse "Meetup not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /meetups/{id}/cancel [post]
func (c *MeetupController) CancelMeetup(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	if err := c.meetupService.CancelMeetup(ctx, ctx.Param("id"), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(
		dto.SuccessResponse{Message: "Meetup cancelled successfully"}))
}

// DeleteMeetup handles removing a meetup entirely
// @Summary Delete a meetup
// @Description Deletes a meetup and its attendee list. Only the creator may delete it.
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meetup ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Meetup deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Only the creator can delete the meetup"
// @Failure 404 {object} dto.ErrorResponse "Meetup not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /meetups/{id} [delete]
func (c *MeetupController) DeleteMeetup(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	if err := c.meetupService.DeleteMeetup(ctx, ctx.Param("id"), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(
		dto.SuccessResponse{Message: "Meetup deleted successfully"}))
}

// Attend handles joining a meetup's attendee list
// @Summary Attend a meetup
// @Description Adds the authenticated user to the meetup's attendee list. Group members only.
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meetup ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Attending meetup"
// @Failure 400 {object} dto.ErrorResponse "Meetup is cancelled or already over"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the group"
// @Failure 404 {object} dto.ErrorResponse "Meetup not found"
// @Failure 409 {object} dto.ErrorResponse "Already attending"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /meetups/{id}/attendees [post]
func (c *MeetupController) Attend(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	if err := c.meetupService.Attend(ctx, ctx.Param("id"), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(
		dto.SuccessResponse{Message: "Attending meetup"}))
}

// Unattend handles leaving a meetup's attendee list
// @Summary Unattend a meetup
// @Description Removes the authenticated user from the meetup's attendee list
// @Tags meetups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Meetup ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "No longer attending meetup"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Meetup not found"
// @Failure 409 {object} dto.ErrorResponse "Not attending"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /meetups/{id}/attendees [delete]
func (c *MeetupController) Unattend(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	if err := c.meetupService.Unattend(ctx, ctx.Param("id"), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(
		dto.SuccessResponse{Message: "No longer attending meetup"}))
}
