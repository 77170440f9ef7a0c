package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/middleware"
	"github.com/Nnadozi/kram-backend/internal/pkg/apperrors"
	"github.com/Nnadozi/kram-backend/internal/pkg/auth"
)

type stubMessageService struct {
	sendResp     *dto.MessageResponse
	sendErr      error
	snapshots    chan []dto.MessageResponse
	subscribeErr error
	deleteErr    error
}

func (s *stubMessageService) SendMessage(_ context.Context, _, _ string, _ *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	return s.sendResp, s.sendErr
}

func (s *stubMessageService) GetRecentMessages(_ context.Context, _, _ string) (*dto.MessageListResponse, error) {
	return &dto.MessageListResponse{Messages: []dto.MessageResponse{}}, nil
}

func (s *stubMessageService) GetAllMessages(_ context.Context, _, _ string) (*dto.MessageListResponse, error) {
	return &dto.MessageListResponse{Messages: []dto.MessageResponse{}}, nil
}

func (s *stubMessageService) Subscribe(_ context.Context, _, _ string) (<-chan []dto.MessageResponse, error) {
	if s.subscribeErr != nil {
		return nil, s.subscribeErr
	}
	return s.snapshots, nil
}

func (s *stubMessageService) DeleteMessage(_ context.Context, _, _ string) error {
	return s.deleteErr
}

func setupMessageRouter(svc *stubMessageService, jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	controller := NewMessageController(svc)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	groups := router.Group("/api/v1/groups")
	groups.Use(authMiddleware.JWTAuth())
	{
		groups.POST("/:id/messages", controller.SendMessage)
		groups.GET("/:id/messages", controller.GetMessages)
		groups.GET("/:id/messages/stream", controller.StreamMessages)
	}

	return router
}

func TestStreamMessagesEndpointSendsSnapshots(t *testing.T) {
	snapshots := make(chan []dto.MessageResponse, 1)
	snapshots <- []dto.MessageResponse{{
		ID:        "m1",
		GroupID:   "g1",
		SenderID:  "u1",
		Text:      "hello from history",
		CreatedAt: time.Now(),
	}}
	close(snapshots)

	svc := &stubMessageService{snapshots: snapshots}
	jwtService := testJWTService()
	router := setupMessageRouter(svc, jwtService)

	resp := doJSON(router, http.MethodGet, "/api/v1/groups/g1/messages/stream", nil,
		map[string]string{"Authorization": bearerToken(t, jwtService, "u1")})

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "event:snapshot")
	assert.Contains(t, resp.Body.String(), "hello from history")
}

func TestStreamMessagesEndpointRequiresMembership(t *testing.T) {
	svc := &stubMessageService{subscribeErr: apperrors.ErrNotMember}
	jwtService := testJWTService()
	router := setupMessageRouter(svc, jwtService)

	resp := doJSON(router, http.MethodGet, "/api/v1/groups/g1/messages/stream", nil,
		map[string]string{"Authorization": bearerToken(t, jwtService, "u1")})

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestSendMessageEndpointValidatesBody(t *testing.T) {
	svc := &stubMessageService{}
	jwtService := testJWTService()
	router := setupMessageRouter(svc, jwtService)

	resp := doJSON(router, http.MethodPost, "/api/v1/groups/g1/messages",
		map[string]string{"text": ""},
		map[string]string{"Authorization": bearerToken(t, jwtService, "u1")})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
