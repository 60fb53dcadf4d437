package server

import (
	"cinetheque/internal/models"
	"cinetheque/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePlaylist handles POST /api/playlists
// @Summary Create a playlist
// @Description An empty content_type makes a mixed playlist; otherwise only that type may be added.
// @Tags playlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string,description=string,is_private=bool,content_type=string} true "Playlist"
// @Success 201 {object} models.Playlist
// @Failure 400 {object} models.ErrorResponse
// @Router /playlists [post]
func (s *Server) CreatePlaylist(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IsPrivate   bool   `json:"is_private"`
		ContentType string `json:"content_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	playlist, err := s.playlistService.Create(c.UserContext(), service.CreatePlaylistInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
		ContentType: req.ContentType,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(playlist)
}

// GetPlaylist handles GET /api/playlists/:id
func (s *Server) GetPlaylist(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	playlist, err := s.playlistService.Get(c.UserContext(), id, viewerID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(playlist)
}

// GetPlaylistItems handles GET /api/playlists/:id/items?tab=movies&prevTab=series&page=2
// @Summary List one tab of a playlist
// @Description A tab different from prevTab is a tab switch and always starts at page 1.
// @Tags playlists
// @Produce json
// @Param id path int true "Playlist ID"
// @Param tab query string false "movies, series, seasons, episodes, actors or crew"
// @Param prevTab query string false "Tab the client was showing"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} service.PlaylistItems
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /playlists/{id}/items [get]
func (s *Server) GetPlaylistItems(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c)
	viewerID, _ := s.optionalUserID(c)

	items, err := s.playlistService.Items(c.UserContext(), service.PlaylistItemsInput{
		PlaylistID: id,
		ViewerID:   viewerID,
		Tab:        c.Query("tab"),
		PrevTab:    c.Query("prevTab"),
		Page:       page.Page,
		PerPage:    page.PerPage,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(items)
}

// GetUserPlaylists handles GET /api/users/:id/playlists
func (s *Server) GetUserPlaylists(c *fiber.Ctx) error {
	ownerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c)
	viewerID, _ := s.optionalUserID(c)

	playlists, err := s.playlistService.ListByUser(c.UserContext(), ownerID, viewerID, page.Page, page.PerPage)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(playlists)
}

// UpdatePlaylist handles PUT /api/playlists/:id; is_archived archives or restores.
func (s *Server) UpdatePlaylist(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Name           *string `json:"name"`
		Description    *string `json:"description"`
		IsPrivate      *bool   `json:"is_private"`
		IsArchived     *bool   `json:"is_archived"`
		CoverImageHash *string `json:"cover_image_hash"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	playlist, err := s.playlistService.Update(c.UserContext(), service.UpdatePlaylistInput{
		UserID:         userID,
		PlaylistID:     id,
		Name:           req.Name,
		Description:    req.Description,
		IsPrivate:      req.IsPrivate,
		IsArchived:     req.IsArchived,
		CoverImageHash: req.CoverImageHash,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(playlist)
}

// DeletePlaylist handles DELETE /api/playlists/:id
func (s *Server) DeletePlaylist(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.playlistService.Delete(c.UserContext(), userID, id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddPlaylistItem handles POST /api/playlists/:id/items
func (s *Server) AddPlaylistItem(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		ContentType string `json:"content_type"`
		ItemID      uint   `json:"item_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ItemID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("item_id is required"))
	}

	playlist, err := s.playlistService.AddItem(c.UserContext(), service.PlaylistItemInput{
		UserID:      userID,
		PlaylistID:  id,
		ContentType: req.ContentType,
		ItemID:      req.ItemID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(playlist)
}

// RemovePlaylistItem handles DELETE /api/playlists/:id/items/:contentType/:itemId
func (s *Server) RemovePlaylistItem(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	itemID, err := s.parseID(c, "itemId")
	if err != nil {
		return nil
	}

	playlist, err := s.playlistService.RemoveItem(c.UserContext(), service.PlaylistItemInput{
		UserID:      userID,
		PlaylistID:  id,
		ContentType: c.Params("contentType"),
		ItemID:      itemID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(playlist)
}
