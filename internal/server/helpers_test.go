package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"dashstack/internal/config"
	"dashstack/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-key-for-server-tests-0123456789"

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: testSecret,
		Port:      "0",
		AppURL:    "http://localhost:3000",
		Env:       "test",
	}
}

// newTestServer builds a Server over an in-memory store with routes set up.
// Redis is optional; pass true for flows that need tokens or deny-listing.
func newTestServer(t *testing.T, withRedis bool) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.Credential{}, &models.UserSettings{}))

	var rdb *redis.Client
	if withRedis {
		mr := miniredis.RunT(t)
		rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	}

	srv, err := NewServerWithDeps(testConfig(), db, rdb)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, headers map[string]string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) models.Response {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	var envelope models.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

// signUpUser registers an account through the API and returns its session token.
func signUpUser(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", fiber.Map{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	require.True(t, envelope.Success)

	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func mustGetByEmail(t *testing.T, srv *Server, email string) *models.Profile {
	t.Helper()
	profile, err := srv.profileRepo.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotNil(t, profile)
	return profile
}
