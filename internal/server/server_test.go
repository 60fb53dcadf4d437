package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"cinetheque/internal/config"
	"cinetheque/internal/models"
	"cinetheque/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-that-is-at-least-32-chars"

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		JWTSecret:            testJWTSecret,
		FeatureFlags:         "forum_post_downvotes=on,forum_realtime=on",
		ImageUploadDir:       t.TempDir(),
		ImageMaxUploadSizeMB: 5,
	}
}

func newTestServerWithConfig(t *testing.T, cfg *config.Config) (*Server, *fiber.App) {
	t.Helper()
	s, err := NewServerWithDeps(cfg, testutil.NewTestDB(t), nil)
	require.NoError(t, err)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	return newTestServerWithConfig(t, testConfig(t))
}

func tokenFor(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func idPath(format string, id uint) string {
	return fmt.Sprintf(format, strconv.FormatUint(uint64(id), 10))
}

func TestHealthEndpoints(t *testing.T) {
	_, app := newTestServer(t)

	resp := doRequest(t, app, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody[struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}](t, resp)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Checks["database"])
	assert.Equal(t, "unavailable", body.Checks["redis"])
}

func TestSignupLoginAndProfile(t *testing.T) {
	_, app := newTestServer(t)

	signup := map[string]string{
		"username": "cinephile",
		"email":    "Cinephile@Example.com",
		"password": testutil.TestPassword,
	}
	resp := doRequest(t, app, http.MethodPost, "/api/auth/signup", signup, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decodeBody[struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}](t, resp)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "cinephile@example.com", created.User.Email)

	resp = doRequest(t, app, http.MethodPost, "/api/auth/signup", signup, "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, models.CodeConflict, decodeBody[models.ErrorResponse](t, resp).Code)

	weak := map[string]string{"username": "weakling", "email": "weak@example.com", "password": "short"}
	resp = doRequest(t, app, http.MethodPost, "/api/auth/signup", weak, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "cinephile@example.com", "password": "wrong-password-1!"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "cinephile@example.com", "password": testutil.TestPassword}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token := decodeBody[struct {
		Token string `json:"token"`
	}](t, resp).Token

	resp = doRequest(t, app, http.MethodGet, "/api/users/me", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "cinephile", decodeBody[models.User](t, resp).Username)

	bio := map[string]string{"bio": "Kurosawa completist"}
	resp = doRequest(t, app, http.MethodPut, "/api/users/me", bio, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Kurosawa completist", decodeBody[models.User](t, resp).Bio)
}

func TestAuthRequired_RejectsBadTokens(t *testing.T) {
	s, app := newTestServer(t)
	user := testutil.CreateUser(t, s.db, "viewer")

	sign := func(claims jwt.MapClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
		require.NoError(t, err)
		return token
	}
	now := time.Now()
	sub := strconv.FormatUint(uint64(user.ID), 10)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not.a.token"},
		{"wrong issuer", sign(jwt.MapClaims{"sub": sub, "iss": "someone-else", "aud": tokenAudience, "exp": now.Add(time.Hour).Unix()})},
		{"wrong audience", sign(jwt.MapClaims{"sub": sub, "iss": tokenIssuer, "aud": "other-client", "exp": now.Add(time.Hour).Unix()})},
		{"expired", sign(jwt.MapClaims{"sub": sub, "iss": tokenIssuer, "aud": tokenAudience, "exp": now.Add(-time.Hour).Unix()})},
		{"non-numeric subject", sign(jwt.MapClaims{"sub": "abc", "iss": tokenIssuer, "aud": tokenAudience, "exp": now.Add(time.Hour).Unix()})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodGet, "/api/users/me", nil, tt.token)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}

	resp := doRequest(t, app, http.MethodGet, "/api/users/me", nil, tokenFor(t, s, user))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPublicProfileRoute(t *testing.T) {
	s, app := newTestServer(t)
	user := testutil.CreateUser(t, s.db, "director")

	// "me" never reaches the public profile handler.
	resp := doRequest(t, app, http.MethodGet, "/api/users/me", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, idPath("/api/users/%s", user.ID), nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	profile := decodeBody[struct {
		User  models.User           `json:"user"`
		Stats models.ForumUserStats `json:"stats"`
	}](t, resp)
	assert.Equal(t, "director", profile.User.Username)
	assert.Zero(t, profile.Stats.Reputation)

	resp = doRequest(t, app, http.MethodGet, "/api/users/999999", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminRoutes(t *testing.T) {
	s, app := newTestServer(t)
	member := testutil.CreateUser(t, s.db, "member")
	admin := testutil.CreateUser(t, s.db, "moderator")
	require.NoError(t, s.db.Model(admin).Update("is_admin", true).Error)

	resp := doRequest(t, app, http.MethodPost, "/api/admin/stats/recompute", nil, tokenFor(t, s, member))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	adminToken := tokenFor(t, s, admin)
	resp = doRequest(t, app, http.MethodPost, "/api/admin/stats/recompute", nil, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeBody[struct {
		Processed int `json:"processed"`
		Failed    int `json:"failed"`
	}](t, resp)
	assert.Equal(t, 2, result.Processed)
	assert.Zero(t, result.Failed)

	resp = doRequest(t, app, http.MethodPost, idPath("/api/admin/users/%s/promote-admin", member.ID), nil, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, decodeBody[models.User](t, resp).IsAdmin)

	resp = doRequest(t, app, http.MethodPost, idPath("/api/admin/users/%s/demote-admin", admin.ID), nil, adminToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/admin/feature-flags", nil, adminToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	flags := decodeBody[struct {
		Raw       map[string]string `json:"raw"`
		Evaluated map[string]bool   `json:"evaluated"`
	}](t, resp)
	assert.Equal(t, "on", flags.Raw["forum_realtime"])
	assert.True(t, flags.Evaluated["forum_post_downvotes"])
}

func TestParseIDRejectsNonNumericIDs(t *testing.T) {
	_, app := newTestServer(t)

	resp := doRequest(t, app, http.MethodGet, "/api/forum/topics/abc", nil, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid ID", decodeBody[models.ErrorResponse](t, resp).Error)
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "item ID", humanizeParam("itemId"))
	assert.Equal(t, "playlist item ID", humanizeParam("playlistItemId"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}
