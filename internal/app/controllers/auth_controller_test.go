package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nnadozi/kram-backend/internal/app/models"
	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/middleware"
	"github.com/Nnadozi/kram-backend/internal/pkg/apperrors"
	"github.com/Nnadozi/kram-backend/internal/pkg/auth"
)

type stubAuthService struct {
	registerResp *dto.AuthResponse
	registerErr  error
	loginResp    *dto.AuthResponse
	loginErr     error
	refreshResp  *dto.TokenResponse
	refreshErr   error
	logoutErr    error
	changeErr    error

	changePasswordUser string
}

func (s *stubAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.AuthResponse, error) {
	return s.registerResp, s.registerErr
}

func (s *stubAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.AuthResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) RefreshToken(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return s.refreshResp, s.refreshErr
}

func (s *stubAuthService) Logout(_ context.Context, _ string) error {
	return s.logoutErr
}

func (s *stubAuthService) ChangePassword(_ context.Context, userID string, _ *dto.ChangePasswordRequest) error {
	s.changePasswordUser = userID
	return s.changeErr
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 7 * 24 * time.Hour,
		TokenIssuer:     "kram.test",
	})
}

func setupAuthRouter(svc *stubAuthService, jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	controller := NewAuthController(svc)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	v1 := router.Group("/api/v1")
	v1.POST("/auth/register", controller.Register)
	v1.POST("/auth/login", controller.Login)
	v1.POST("/auth/refresh", controller.RefreshToken)

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	authenticated.PUT("/auth/password", controller.ChangePassword)

	return router
}

func bearerToken(t *testing.T, jwtService *auth.JWTService, userID string) string {
	t.Helper()
	accessToken, _, _, _, err := jwtService.GenerateTokenPair(&models.User{ID: userID, Email: "ada@example.com"})
	require.NoError(t, err)
	return "Bearer " + accessToken
}

func doJSON(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRegisterEndpoint(t *testing.T) {
	svc := &stubAuthService{
		registerResp: &dto.AuthResponse{
			User: dto.UserResponse{ID: "u1", Email: "ada@example.com"},
		},
	}
	router := setupAuthRouter(svc, testJWTService())

	resp := doJSON(router, http.MethodPost, "/api/v1/auth/register",
		dto.RegisterRequest{Email: "ada@example.com", Password: "password123"}, nil)

	assert.Equal(t, http.StatusCreated, resp.Code)

	var envelope dto.APIResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.NotNil(t, envelope.Data)
}

func TestRegisterEndpointRejectsBadBody(t *testing.T) {
	router := setupAuthRouter(&stubAuthService{}, testJWTService())

	resp := doJSON(router, http.MethodPost, "/api/v1/auth/register",
		dto.RegisterRequest{Email: "not-an-email", Password: "password123"}, nil)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRegisterEndpointDuplicateEmail(t *testing.T) {
	svc := &stubAuthService{registerErr: apperrors.ErrEmailAlreadyExists}
	router := setupAuthRouter(svc, testJWTService())

	resp := doJSON(router, http.MethodPost, "/api/v1/auth/register",
		dto.RegisterRequest{Email: "ada@example.com", Password: "password123"}, nil)

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestLoginEndpointInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: apperrors.ErrInvalidCredentials}
	router := setupAuthRouter(svc, testJWTService())

	resp := doJSON(router, http.MethodPost, "/api/v1/auth/login",
		dto.LoginRequest{Email: "ada@example.com", Password: "wrong-password"}, nil)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRefreshEndpointInvalidToken(t *testing.T) {
	svc := &stubAuthService{refreshErr: apperrors.ErrTokenInvalid}
	router := setupAuthRouter(svc, testJWTService())

	resp := doJSON(router, http.MethodPost, "/api/v1/auth/refresh",
		dto.RefreshTokenRequest{RefreshToken: "stale"}, nil)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestChangePasswordRequiresToken(t *testing.T) {
	router := setupAuthRouter(&stubAuthService{}, testJWTService())

	resp := doJSON(router, http.MethodPut, "/api/v1/auth/password",
		dto.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}, nil)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestChangePasswordUsesAuthenticatedUser(t *testing.T) {
	svc := &stubAuthService{}
	jwtService := testJWTService()
	router := setupAuthRouter(svc, jwtService)

	resp := doJSON(router, http.MethodPut, "/api/v1/auth/password",
		dto.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"},
		map[string]string{"Authorization": bearerToken(t, jwtService, "u1")})

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "u1", svc.changePasswordUser)
}
