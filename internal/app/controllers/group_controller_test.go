package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/middleware"
	"github.com/Nnadozi/kram-backend/internal/pkg/apperrors"
	"github.com/Nnadozi/kram-backend/internal/pkg/auth"
)

type stubGroupService struct {
	createResp *dto.GroupResponse
	createErr  error
	getResp    *dto.GroupDetailResponse
	getErr     error
	leaveErr   error
	joinErr    error

	leftGroupID string
	leftUserID  string
}

func (s *stubGroupService) CreateGroup(_ context.Context, _ string, _ *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	return s.createResp, s.createErr
}

func (s *stubGroupService) GetGroup(_ context.Context, _ string) (*dto.GroupDetailResponse, error) {
	return s.getResp, s.getErr
}

func (s *stubGroupService) GetUserGroups(_ context.Context, _ string) (*dto.GroupListResponse, error) {
	return &dto.GroupListResponse{Groups: []dto.GroupResponse{}}, nil
}

func (s *stubGroupService) UpdateGroup(_ context.Context, _, _ string, _ *dto.UpdateGroupRequest) (*dto.GroupResponse, error) {
	return nil, apperrors.ErrNotGroupCreator
}

func (s *stubGroupService) DeleteGroup(_ context.Context, _, _ string) error {
	return apperrors.ErrNotGroupCreator
}

func (s *stubGroupService) JoinGroup(_ context.Context, _, _ string) error {
	return s.joinErr
}

func (s *stubGroupService) LeaveGroup(_ context.Context, groupID, userID string) error {
	s.leftGroupID = groupID
	s.leftUserID = userID
	return s.leaveErr
}

func (s *stubGroupService) TransferOwnership(_ context.Context, _, _, _ string) error {
	return nil
}

func (s *stubGroupService) GetMembers(_ context.Context, _ string) ([]dto.GroupMemberResponse, error) {
	return []dto.GroupMemberResponse{}, nil
}

func setupGroupRouter(svc *stubGroupService, jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	controller := NewGroupController(svc)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	groups := router.Group("/api/v1/groups")
	groups.Use(authMiddleware.JWTAuth())
	{
		groups.POST("", controller.CreateGroup)
		groups.GET("/:id", controller.GetGroup)
		groups.PUT("/:id", controller.UpdateGroup)
		groups.POST("/:id/members", controller.JoinGroup)
		groups.DELETE("/:id/members", controller.LeaveGroup)
	}

	return router
}

func TestCreateGroupEndpointRequiresOnboarding(t *testing.T) {
	svc := &stubGroupService{
		createErr: apperrors.NewForbiddenError("Complete your profile before creating a group"),
	}
	jwtService := testJWTService()
	router := setupGroupRouter(svc, jwtService)

	resp := doJSON(router, http.MethodPost, "/api/v1/groups",
		dto.CreateGroupRequest{Name: "Calc Crew", Description: "Weekly calculus study sessions"},
		map[string]string{"Authorization": bearerToken(t, jwtService, "u1")})

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "Complete your profile")
}

func TestGetGroupEndpointNotFound(t *testing.T) {
	svc := &stubGroupService{getErr: apperrors.ErrGroupNotFound}
	jwtService := testJWTService()
	router := setupGroupRouter(svc, jwtService)

	resp := doJSON(router, http.MethodGet, "/api/v1/groups/missing", nil,
		map[string]string{"Authorization": bearerToken(t, jwtService, "u1")})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestLeaveGroupEndpointCreatorLocked(t *testing.T) {
	svc := &stubGroupService{leaveErr: apperrors.ErrCreatorLocked}
	jwtService := testJWTService()
	router := setupGroupRouter(svc, jwtService)

	resp := doJSON(router, http.MethodDelete, "/api/v1/groups/g1/members", nil,
		map[string]string{"Authorization": bearerToken(t, jwtService, "u1")})

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "g1", svc.leftGroupID)
	assert.Equal(t, "u1", svc.leftUserID)
}

func TestJoinGroupEndpointAlreadyMember(t *testing.T) {
	svc := &stubGroupService{joinErr: apperrors.ErrAlreadyMember}
	jwtService := testJWTService()
	router := setupGroupRouter(svc, jwtService)

	resp := doJSON(router, http.MethodPost, "/api/v1/groups/g1/members", nil,
		map[string]string{"Authorization": bearerToken(t, jwtService, "u1")})

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestUpdateGroupEndpointCreatorOnly(t *testing.T) {
	svc := &stubGroupService{}
	jwtService := testJWTService()
	router := setupGroupRouter(svc, jwtService)

	resp := doJSON(router, http.MethodPut, "/api/v1/groups/g1",
		map[string]string{"name": "New Name", "description": "A longer group description"},
		map[string]string{"Authorization": bearerToken(t, jwtService, "u2")})

	assert.Equal(t, http.StatusForbidden, resp.Code)
}
