package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairchat/internal/app/chat"
	"pairchat/internal/configs"
	"pairchat/internal/pkg/auth/jwt"
)

func testDeps() *AppDeps {
	return &AppDeps{
		Registry: chat.NewRegistry(),
		Config: &configs.AppConfig{
			Environment:    "development",
			Port:           8080,
			AllowedOrigins: []string{},
			JWTSecret:      "test_secret",
		},
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := Router(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestProtectedEndpointsRequireIdentity(t *testing.T) {
	router := Router(testDeps())

	for _, path := range []string{"/api/users", "/api/chat/history?peer=bob"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equalf(t, http.StatusUnauthorized, rec.Code, "GET %s must refuse anonymous callers", path)
	}
}

func TestWebSocketUpgradeRequiresIdentity(t *testing.T) {
	router := Router(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResolveIdentity(t *testing.T) {
	const secret = "test_secret"

	token, err := jwt.GenerateToken(&jwt.Payload{Username: "alice"}, secret, jwt.UserIdentityExpiration)
	require.NoError(t, err)

	t.Run("from query parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
		assert.Equal(t, "alice", resolveIdentity(req, secret))
	})

	t.Run("from bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		assert.Equal(t, "alice", resolveIdentity(req, secret))
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		assert.Empty(t, resolveIdentity(req, secret))
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws?token=garbage", nil)
		assert.Empty(t, resolveIdentity(req, secret))
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
		assert.Empty(t, resolveIdentity(req, "other_secret"))
	})
}
