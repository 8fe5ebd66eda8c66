package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natural-surplus/backend/internal/integration/adapters"
	"github.com/natural-surplus/backend/internal/integration/entrypoint/dto"
	"github.com/natural-surplus/backend/internal/integration/entrypoint/middleware"
	"github.com/natural-surplus/backend/internal/integration/persistence"
	"github.com/natural-surplus/backend/internal/integration/persistence/persistencetest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, handlers []gin.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	engine := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := middleware.GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID.String()})
	})
	engine.POST("/target", handlers...)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func request(remoteIP string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/target", nil)
	req.RemoteAddr = remoteIP + ":40000"
	return req
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func TestIPAllowlist(t *testing.T) {
	allowlist, err := middleware.NewIPAllowlist([]string{"196.201.214.0/24", " 196.201.212.127 ", ""})
	require.NoError(t, err)

	assert.True(t, allowlist.Allows("196.201.214.200"))
	assert.True(t, allowlist.Allows("196.201.212.127"))
	assert.False(t, allowlist.Allows("196.201.212.128"))
	assert.False(t, allowlist.Allows("not-an-ip"))

	w := serve(t, []gin.HandlerFunc{allowlist.Middleware()}, request("196.201.214.10"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(t, []gin.HandlerFunc{allowlist.Middleware()}, request("10.0.0.7"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "DEP-030004", errorCode(t, w))
}

func TestIPAllowlist_EmptyAdmitsEveryone(t *testing.T) {
	allowlist, err := middleware.NewIPAllowlist(nil)
	require.NoError(t, err)

	assert.True(t, allowlist.Allows("203.0.113.9"))
}

func TestIPAllowlist_RejectsMalformedEntries(t *testing.T) {
	_, err := middleware.NewIPAllowlist([]string{"196.201.214.0/33"})
	assert.Error(t, err)
}

func TestRequireAdminKey(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		provided   string
		expected   int
	}{
		{"matching key", "s3cret", "s3cret", http.StatusOK},
		{"wrong key", "s3cret", "guess", http.StatusUnauthorized},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"unconfigured key rejects all", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request("127.0.0.1")
			if tt.provided != "" {
				req.Header.Set(middleware.AdminKeyHeader, tt.provided)
			}

			w := serve(t, []gin.HandlerFunc{middleware.RequireAdminKey(tt.configured)}, req)

			assert.Equal(t, tt.expected, w.Code)
			if tt.expected != http.StatusOK {
				assert.Equal(t, "AUTH-040001", errorCode(t, w))
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	limiter := middleware.NewRateLimiterWithConfig(client, "login", 2, time.Minute)
	handlers := []gin.HandlerFunc{limiter.Middleware()}

	assert.Equal(t, http.StatusOK, serve(t, handlers, request("198.51.100.1")).Code)
	assert.Equal(t, http.StatusOK, serve(t, handlers, request("198.51.100.1")).Code)

	w := serve(t, handlers, request("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "AUTH-020003", errorCode(t, w))

	assert.Equal(t, http.StatusOK, serve(t, handlers, request("198.51.100.2")).Code, "other clients have their own window")

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, serve(t, handlers, request("198.51.100.1")).Code)
}

func TestRateLimiter_FailsOpenWithoutRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	limiter := middleware.NewRateLimiterWithConfig(client, "login", 1, time.Minute)
	handlers := []gin.HandlerFunc{limiter.Middleware()}

	assert.Equal(t, http.StatusOK, serve(t, handlers, request("198.51.100.1")).Code)
	assert.Equal(t, http.StatusOK, serve(t, handlers, request("198.51.100.1")).Code)
}

func TestAuthenticate(t *testing.T) {
	db := persistencetest.NewDB(t)
	tokens := adapters.NewTokenService("test-secret", 15*time.Minute, time.Hour, persistence.NewTokenRepository(db))
	auth := middleware.NewAuthMiddleware(tokens)
	userID := uuid.New()

	pair, err := tokens.GenerateTokenPair(context.Background(), userID, "jane@example.com")
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		expected int
		code     string
	}{
		{"valid access token", "Bearer " + pair.AccessToken, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "AUTH-030003"},
		{"wrong scheme", "Basic " + pair.AccessToken, http.StatusUnauthorized, "AUTH-030001"},
		{"refresh token used as access token", "Bearer " + pair.RefreshToken, http.StatusUnauthorized, "AUTH-030001"},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, "AUTH-030001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request("127.0.0.1")
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := serve(t, []gin.HandlerFunc{auth.Authenticate()}, req)

			assert.Equal(t, tt.expected, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, errorCode(t, w))
				return
			}
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, userID.String(), body["user_id"])
		})
	}
}
