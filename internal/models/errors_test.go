package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NewValidationError("bad"), fiber.StatusBadRequest},
		{NewUnauthorizedError("who"), fiber.StatusUnauthorized},
		{NewForbiddenError("no"), fiber.StatusForbidden},
		{NewNotFoundError("Topic", 3), fiber.StatusNotFound},
		{NewConflictError("dup"), fiber.StatusConflict},
		{NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NewNotFoundError("Post", 1)), fiber.StatusNotFound},
		{errors.New("plain"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusFor(tt.err), tt.err.Error())
	}
}

func TestRespondWithAppError_Body(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return RespondWithAppError(c, NewNotFoundError("Playlist", 9))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Playlist with ID 9 not found", out.Error)
	assert.Equal(t, CodeNotFound, out.Code)
}

func TestVoteDirection_Opposite(t *testing.T) {
	assert.Equal(t, VoteDown, VoteUp.Opposite())
	assert.Equal(t, VoteUp, VoteDown.Opposite())
	assert.Equal(t, VoteNone, VoteNone.Opposite())

	_, err := ParseVoteDirection("sideways")
	assert.Error(t, err)
	_, err = ParseVoteTarget("reply")
	assert.Error(t, err)
}
