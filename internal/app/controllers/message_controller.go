package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/app/services"
	"github.com/Nnadozi/kram-backend/internal/middleware"
)

// MessageController handles group chat operations over HTTP. Live delivery
// happens over the websocket; these endpoints cover history and moderation.
type MessageController struct {
	messageService services.MessageService
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService services.MessageService) *MessageController {
	return &MessageController{messageService: messageService}
}

// SendMessage handles posting a chat message
// @Summary Send a chat message
// @Description Posts a message to the group chat. It is persisted and fanned out to connected clients.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse} "Message sent successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the group"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id}/messages [post]
func (c *MessageController) SendMessage(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	message, err := c.messageService.SendMessage(ctx, ctx.Param("id"), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(message))
}

// GetMessages handles retrieving chat history
// @Summary Get chat messages
// @Description Returns the latest messages in chronological order. Pass all=true for the full history.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param all query bool false "Return the full history instead of the recent window"
// @Success 200 {object} dto.APIResponse{data=dto.MessageListResponse} "Messages retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the group"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id}/messages [get]
func (c *MessageController) GetMessages(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var messages *dto.MessageListResponse
	var err error
	if ctx.Query("all") == "true" {
		messages, err = c.messageService.GetAllMessages(ctx, ctx.Param("id"), userID)
	} else {
		messages, err = c.messageService.GetRecentMessages(ctx, ctx.Param("id"), userID)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(messages))
}

// DeleteMessage handles removing a message
// @Summary Delete a chat message
// @Description Deletes a message. Users may only delete their own messages.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param messageId path string true "Message ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Message deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Can only delete own messages"
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /messages/{messageId} [delete]
func (c *MessageController) DeleteMessage(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	if err := c.messageService.DeleteMessage(ctx, ctx.Param("messageId"), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(
		dto.SuccessResponse{Message: "Message deleted successfully"}))
}

// StreamMessages streams chat snapshots over server-sent events
// @Summary Stream chat snapshots
// @Description Opens a server-sent events stream. The full ordered history is sent immediately and again after every change.
// @Tags messages
// @Produce text/event-stream
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {array} dto.MessageResponse "Snapshot stream"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Not a member of the group"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{id}/messages/stream [get]
func (c *MessageController) StreamMessages(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	snapshots, err := c.messageService.Subscribe(ctx.Request.Context(), ctx.Param("id"), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	for {
		select {
		case <-ctx.Request.Context().Done():
			return
		case snapshot, open := <-snapshots:
			if !open {
				return
			}
			ctx.SSEvent("snapshot", snapshot)
			ctx.Writer.Flush()
		}
	}
}
