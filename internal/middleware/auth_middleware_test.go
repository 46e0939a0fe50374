package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (b *fakeBlacklist) IsTokenBlacklisted(_ context.Context, tokenID string) (bool, error) {
	return b.revoked[tokenID], b.err
}

func setupMiddlewareTest(blacklist TokenBlacklist) (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	return router, NewAuthMiddleware(testJWTSecret, blacklist)
}

func generateTestToken(t *testing.T, userID uint, role model.UserRole, expiry time.Duration) (string, *util.Claims) {
	token, err := util.GenerateToken(userID, "test@example.com", string(role), testJWTSecret, expiry)
	require.NoError(t, err)
	claims, err := util.ValidateToken(token, testJWTSecret)
	if err != nil {
		return token, nil
	}
	return token, claims
}

func serve(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	code, _ := body["error"].(string)
	return code
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	valid, _ := generateTestToken(t, 1, model.RoleUser, 15*time.Minute)
	expired, _ := generateTestToken(t, 1, model.RoleUser, -time.Minute)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{name: "Bearer scheme", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "Token scheme", header: "Token " + valid, wantStatus: http.StatusOK},
		{name: "Missing header", header: "", wantStatus: http.StatusUnauthorized, wantCode: "AUTH_UNAUTHORIZED"},
		{name: "Unknown scheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized, wantCode: "AUTH_TOKEN_INVALID"},
		{name: "No token", header: "Bearer", wantStatus: http.StatusUnauthorized, wantCode: "AUTH_TOKEN_INVALID"},
		{name: "Garbage token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized, wantCode: "AUTH_TOKEN_INVALID"},
		{name: "Expired token", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantCode: "AUTH_TOKEN_EXPIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, auth := setupMiddlewareTest(nil)
			router.GET("/test", auth.Authenticate(), func(c *gin.Context) {
				userID, _ := GetUserID(c)
				claims, ok := GetClaims(c)
				require.True(t, ok)
				assert.Equal(t, userID, claims.UserID)
				c.JSON(http.StatusOK, gin.H{"user_id": userID})
			})

			w := serve(router, tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, w))
			}
		})
	}
}

func TestAuthMiddleware_Blacklist(t *testing.T) {
	token, claims := generateTestToken(t, 3, model.RoleUser, 15*time.Minute)
	require.NotNil(t, claims)

	t.Run("Revoked token is rejected", func(t *testing.T) {
		router, auth := setupMiddlewareTest(&fakeBlacklist{revoked: map[string]bool{claims.ID: true}})
		router.GET("/test", auth.Authenticate(), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := serve(router, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "AUTH_TOKEN_REVOKED", errorCode(t, w))
	})

	t.Run("Lookup failure", func(t *testing.T) {
		router, auth := setupMiddlewareTest(&fakeBlacklist{err: errors.New("connection refused")})
		router.GET("/test", auth.Authenticate(), func(c *gin.Context) { c.Status(http.StatusOK) })

		assert.Equal(t, http.StatusInternalServerError, serve(router, "Bearer "+token).Code)
	})

	t.Run("Other tokens pass", func(t *testing.T) {
		router, auth := setupMiddlewareTest(&fakeBlacklist{revoked: map[string]bool{"other": true}})
		router.GET("/test", auth.Authenticate(), func(c *gin.Context) { c.Status(http.StatusOK) })

		assert.Equal(t, http.StatusOK, serve(router, "Bearer "+token).Code)
	})
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	token, claims := generateTestToken(t, 5, model.RoleUser, 15*time.Minute)
	require.NotNil(t, claims)

	tests := []struct {
		name      string
		header    string
		blacklist TokenBlacklist
		wantID    uint
	}{
		{name: "Guest", header: "", wantID: 0},
		{name: "Valid token", header: "Token " + token, wantID: 5},
		{name: "Invalid token", header: "Bearer nope", wantID: 0},
		{name: "Revoked token", header: "Bearer " + token, blacklist: &fakeBlacklist{revoked: map[string]bool{claims.ID: true}}, wantID: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, auth := setupMiddlewareTest(tt.blacklist)
			router.GET("/test", auth.OptionalAuthenticate(), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"viewer": ViewerID(c)})
			})

			w := serve(router, tt.header)
			require.Equal(t, http.StatusOK, w.Code)

			var body struct {
				Viewer uint `json:"viewer"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantID, body.Viewer)
		})
	}
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	admin, _ := generateTestToken(t, 1, model.RoleAdmin, 15*time.Minute)
	user, _ := generateTestToken(t, 2, model.RoleUser, 15*time.Minute)

	router, auth := setupMiddlewareTest(nil)
	router.GET("/test", auth.Authenticate(), auth.RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(router, "Bearer "+admin).Code)

	w := serve(router, "Bearer "+user)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "AUTHZ_FORBIDDEN", errorCode(t, w))
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	router, _ := setupMiddlewareTest(nil)
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := serve(router, "")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Body.String())
}
