package websocket

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nnadozi/kram-backend/internal/app/models"
	"github.com/Nnadozi/kram-backend/internal/middleware"
)

// MembershipChecker reports whether a user belongs to a group.
type MembershipChecker interface {
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

// ProfileReader resolves user profiles for display names.
type ProfileReader interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

// Handler for WebSocket connections
type Handler struct {
	hub         *Hub
	memberships MembershipChecker
	profiles    ProfileReader
	logger      zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, memberships MembershipChecker, profiles ProfileReader, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:         hub,
		memberships: memberships,
		profiles:    profiles,
		logger:      logger,
	}
}

// HandleConnection godoc
// @Summary Establish a WebSocket connection for real-time group chat
// @Description Upgrades HTTP connection to a WebSocket connection for real-time chat messaging
// @Tags chat, websocket
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} gin.H "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} gin.H "Forbidden: User is not a member of the group"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /groups/{id}/chat/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	groupID := c.Param("id")
	if groupID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid group ID",
		})
		return
	}

	// Get user ID from context (set by auth middleware)
	userIDInterface, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in context",
		})
		return
	}

	userID, ok := userIDInterface.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid user ID format",
		})
		return
	}

	isMember, err := h.memberships.IsMember(c, groupID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("groupID", groupID).
			Str("userID", userID).
			Msg("Failed to check group membership")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to check membership status",
		})
		return
	}

	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "User is not a member of this group",
		})
		return
	}

	senderName := ""
	if user, err := h.profiles.Get(c, userID); err == nil {
		senderName = user.FullName()
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("groupID", groupID).
			Str("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:        h.hub,
		conn:       conn,
		send:       make(chan []byte, 256),
		userID:     userID,
		senderName: senderName,
		groupID:    groupID,
		logger:     h.logger,
	}
	client.hub.register <- client
	middleware.WebsocketOpened()

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("groupID", groupID).
		Str("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
