package server

import (
	"context"

	"cinetheque/internal/models"
	"cinetheque/internal/service"

	"github.com/gofiber/fiber/v2"
)

type bookmarkAction func(ctx context.Context, user *models.User, episode *models.Episode) *service.Notice

// BookmarkEpisode handles POST /api/episodes/:id/bookmark
// @Summary Bookmark an episode
// @Description Always answers with a notice; a failed write is an error notice, not a 5xx.
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Episode ID"
// @Success 200 {object} service.Notice
// @Failure 404 {object} models.ErrorResponse
// @Router /episodes/{id}/bookmark [post]
func (s *Server) BookmarkEpisode(c *fiber.Ctx) error {
	return s.bookmarkNotice(c, s.bookmarkService.BookmarkEpisode)
}

// RemoveEpisodeBookmark handles DELETE /api/episodes/:id/bookmark
func (s *Server) RemoveEpisodeBookmark(c *fiber.Ctx) error {
	return s.bookmarkNotice(c, s.bookmarkService.RemoveEpisodeBookmark)
}

func (s *Server) bookmarkNotice(c *fiber.Ctx, action bookmarkAction) error {
	userID := c.Locals("userID").(uint)
	episodeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	ctx := c.UserContext()

	user, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	episode, err := s.catalogService.GetEpisode(ctx, episodeID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	notice := action(ctx, user, episode)
	if notice == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(notice)
}

// GetEpisodeBookmark handles GET /api/episodes/:id/bookmark
func (s *Server) GetEpisodeBookmark(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	episodeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	bookmarked, err := s.bookmarkService.IsBookmarked(c.UserContext(), userID, episodeID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"bookmarked": bookmarked})
}

// GetMyBookmarks handles GET /api/users/me/bookmarks
func (s *Server) GetMyBookmarks(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePagination(c)

	bookmarks, err := s.bookmarkService.ListBookmarks(c.UserContext(), userID, page.Page, page.PerPage)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(bookmarks)
}
