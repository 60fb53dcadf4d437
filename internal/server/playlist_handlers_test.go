package server

import (
	"fmt"
	"net/http"
	"testing"

	"cinetheque/internal/models"
	"cinetheque/internal/pagination"
	"cinetheque/internal/service"
	"cinetheque/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type playlistItemsBody struct {
	Tab        models.PlaylistTab           `json:"tab"`
	TabCounts  map[models.PlaylistTab]int64 `json:"tab_counts"`
	Items      []models.PlaylistItem        `json:"items"`
	Total      int64                        `json:"total"`
	Pagination pagination.Page              `json:"pagination"`
}

func TestPlaylistTabSwitchResetsPage(t *testing.T) {
	s, app := newTestServer(t)
	owner := testutil.CreateUser(t, s.db, "owner")
	token := tokenFor(t, s, owner)

	resp := doRequest(t, app, http.MethodPost, "/api/playlists", map[string]any{"name": "Weekend marathon"}, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	playlist := decodeBody[models.Playlist](t, resp)

	for i := 1; i <= 3; i++ {
		movie := &models.Movie{Title: fmt.Sprintf("Feature %d", i), Slug: fmt.Sprintf("feature-%d", i)}
		testutil.MustCreate(t, s.db, movie)
		resp = doRequest(t, app, http.MethodPost, idPath("/api/playlists/%s/items", playlist.ID),
			map[string]any{"content_type": "movie", "item_id": movie.ID}, token)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	episode := testutil.CreateEpisode(t, s.db, "Pilot")
	resp = doRequest(t, app, http.MethodPost, idPath("/api/playlists/%s/items", playlist.ID),
		map[string]any{"content_type": "episode", "item_id": episode.ID}, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 4, decodeBody[models.Playlist](t, resp).ItemCount)

	itemsPath := idPath("/api/playlists/%s/items", playlist.ID)

	resp = doRequest(t, app, http.MethodGet, itemsPath+"?tab=movies&prevTab=movies&page=3&per_page=1", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody[playlistItemsBody](t, resp)
	assert.Equal(t, models.TabMovies, body.Tab)
	assert.Equal(t, 3, body.Pagination.Page)
	require.Len(t, body.Items, 1)
	assert.Equal(t, models.ContentTypeMovie, body.Items[0].ContentType)
	assert.EqualValues(t, 3, body.TabCounts[models.TabMovies])
	assert.EqualValues(t, 1, body.TabCounts[models.TabEpisodes])

	resp = doRequest(t, app, http.MethodGet, itemsPath+"?tab=movies&prevTab=episodes&page=3&per_page=1", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody[playlistItemsBody](t, resp)
	assert.Equal(t, 1, body.Pagination.Page)
	assert.Len(t, body.Items, 1)

	resp = doRequest(t, app, http.MethodGet, itemsPath+"?tab=episodes", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = decodeBody[playlistItemsBody](t, resp)
	require.Len(t, body.Items, 1)
	require.NotNil(t, body.Items[0].Episode)
	assert.Equal(t, "Pilot", body.Items[0].Episode.Title)

	resp = doRequest(t, app, http.MethodGet, itemsPath+"?tab=documentaries", nil, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPlaylistPrivacyAndOwnership(t *testing.T) {
	s, app := newTestServer(t)
	owner := testutil.CreateUser(t, s.db, "keeper")
	other := testutil.CreateUser(t, s.db, "visitor")
	ownerToken := tokenFor(t, s, owner)
	otherToken := tokenFor(t, s, other)

	resp := doRequest(t, app, http.MethodPost, "/api/playlists",
		map[string]any{"name": "Noir essentials", "content_type": "movie"}, ownerToken)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	playlist := decodeBody[models.Playlist](t, resp)
	path := idPath("/api/playlists/%s", playlist.ID)

	resp = doRequest(t, app, http.MethodPut, path, map[string]any{"name": "Stolen"}, otherToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	episode := testutil.CreateEpisode(t, s.db, "Wrong type")
	resp = doRequest(t, app, http.MethodPost, path+"/items",
		map[string]any{"content_type": "episode", "item_id": episode.ID}, ownerToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, path+"/items",
		map[string]any{"content_type": "movie", "item_id": 424242}, ownerToken)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	private := true
	resp = doRequest(t, app, http.MethodPut, path, map[string]any{"is_private": &private}, ownerToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, path, nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp = doRequest(t, app, http.MethodGet, path, nil, otherToken)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp = doRequest(t, app, http.MethodGet, path, nil, ownerToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, idPath("/api/users/%s/playlists", owner.ID), nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[service.Listing[models.Playlist]](t, resp).Items)

	resp = doRequest(t, app, http.MethodDelete, path, nil, ownerToken)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
