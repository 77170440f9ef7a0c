package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/app/services"
	"github.com/Nnadozi/kram-backend/internal/middleware"
	"github.com/Nnadozi/kram-backend/internal/pkg/helpers"
)

// GroupController handles study group related operations
type GroupController struct {
	groupService services.GroupService
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService services.GroupService) *GroupController {
	return &GroupController{groupService: groupService}
}

// requireUser pulls the authenticated user's ID or writes a 401
func requireUser(ctx *gin.Context) (string, bool) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "User not authenticated")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
	}
	return userID, ok
}

// CreateGroup handles creating a new study group
// @Summary Create a study group
// @Description Creates a study group. The authenticated user becomes its creator and first member. Requires a completed profile.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGroupRequest true "Create group request"
// @Success 201 {object} dto.APIResponse{data=dto.GroupResponse} "Group created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Profile onboarding not complete"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	group, err := c.groupService.CreateGroup(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(group))
}

// GetGroup handles retrieving a single group with its members
// @Summary Get group by ID
// @Description Retrieves a group including its member list
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} dto.APIResponse{data=dto.GroupDetailResponse} "Group retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id} [get]
func (c *GroupController) GetGroup(ctx *gin.Context) {
	group, err := c.groupService.GetGroup(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(group))
}

// GetMyGroups handles listing the groups the user belongs to
// @Summary Get my groups
// @Description Lists every group the authenticated user is a member of
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.GroupListResponse} "Groups retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups [get]
func (c *GroupController) GetMyGroups(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	groups, err := c.groupService.GetUserGroups(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(groups))
}

// UpdateGroup handles updating a group's details
// @Summary Update a group
// @Description Updates group fields. Only the creator may update the group.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param request body dto.UpdateGroupRequest true "Update group request"
// @Success 200 {object} dto.APIResponse{data=dto.GroupResponse} "Group updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Only the creator can update the group"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id} [put]
func (c *GroupController) UpdateGroup(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.UpdateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	group, err := c.groupService.UpdateGroup(ctx, ctx.Param("id"), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(group))
}

// DeleteGroup handles deleting a group
// @Summary Delete a group
// @Description Deletes a group along with its meetups and chat history. Only the creator may delete the group.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Group deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Only the creator can delete the group"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	if err := c.groupService.DeleteGroup(ctx, ctx.Param("id"), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(
		dto.SuccessResponse{Message: "Group deleted successfully"}))
}

// JoinGroup handles the authenticated user joining a group
// @Summary Join a group
// @Description The authenticated user joins the specified group
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Joined group successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 409 {object} dto.ErrorResponse "Already a member"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id}/members [post]
func (c *GroupController) JoinGroup(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	if err := c.groupService.JoinGroup(ctx, ctx.Param("id"), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(
		dto.SuccessResponse{Message: "Joined group successfully"}))
}

// LeaveGroup handles the authenticated user leaving a group
// @Summary Leave a group
// @Description The authenticated user leaves the group. The creator must transfer ownership first.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Left group successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 409 {object} dto.ErrorResponse "Creator cannot leave without transferring ownership"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id}/members [delete]
func (c *GroupController) LeaveGroup(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	if err := c.groupService.LeaveGroup(ctx, ctx.Param("id"), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(
		dto.SuccessResponse{Message: "Left group successfully"}))
}

// TransferOwnership handles handing the group to another member
// @Summary Transfer group ownership
// @Description Transfers ownership to another member. Only the current creator may transfer.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param request body dto.TransferOwnershipRequest true "New owner"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Ownership transferred successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Only the creator can transfer ownership"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id}/owner [put]
func (c *GroupController) TransferOwnership(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.TransferOwnershipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	if err := c.groupService.TransferOwnership(ctx, ctx.Param("id"), userID, req.NewOwnerID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(
		dto.SuccessResponse{Message: "Ownership transferred successfully"}))
}

// GetMembers handles listing a group's members
// @Summary Get group members
// @Description Lists members of a group, paginated
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Members retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id}/members [get]
func (c *GroupController) GetMembers(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	members, err := c.groupService.GetMembers(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	start := int(offset)
	if start > len(members) {
		start = len(members)
	}
	end := start + limit
	if end > len(members) {
		end = len(members)
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      members[start:end],
		Pagination: helpers.NewPaginationInfo(int64(len(members)), page, size),
	}))
}
