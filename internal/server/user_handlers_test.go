package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMyProfile(t *testing.T) {
	_, app := newTestServer(t, false)
	token := signUpUser(t, app, "me@example.com", "hunter22")

	resp := doJSON(t, app, http.MethodGet, "/api/users/me", nil, bearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	require.True(t, envelope.Success)
	data := envelope.Data.(map[string]any)
	assert.Equal(t, "me@example.com", data["email"])
	assert.Equal(t, "user", data["role"])
	// The credential hash is never part of the profile payload.
	_, leaked := data["password_hash"]
	assert.False(t, leaked)
}

func TestUpdateMyProfile(t *testing.T) {
	_, app := newTestServer(t, false)
	token := signUpUser(t, app, "rename@example.com", "hunter22")

	resp := doJSON(t, app, http.MethodPut, "/api/users/me", fiber.Map{
		"full_name": "Renamed User",
	}, bearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeEnvelope(t, resp).Data.(map[string]any)
	assert.Equal(t, "Renamed User", data["full_name"])
	assert.Equal(t, "rename@example.com", data["email"], "email is not writable here")
}

func TestUpdateMyProfile_CannotChangeRole(t *testing.T) {
	srv, app := newTestServer(t, false)
	token := signUpUser(t, app, "sneaky@example.com", "hunter22")

	resp := doJSON(t, app, http.MethodPut, "/api/users/me", fiber.Map{
		"full_name": "Sneaky",
		"role":      "admin",
	}, bearer(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	profile := mustGetByEmail(t, srv, "sneaky@example.com")
	assert.Equal(t, "user", string(profile.Role), "role field in the body is ignored")
}
