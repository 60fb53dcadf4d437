package server

import (
	"cinetheque/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RecomputeAllStats handles POST /api/admin/stats/recompute
// @Summary Run the forum statistics roll-up
// @Description Recounts every user's activity. Failing users are logged and skipped.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.RollupResult
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/stats/recompute [post]
func (s *Server) RecomputeAllStats(c *fiber.Ctx) error {
	result, err := s.statsService.RecomputeAll(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(result)
}

// RecomputeUserStats handles POST /api/admin/stats/recompute/:id
func (s *Server) RecomputeUserStats(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := s.userService.GetUserByID(c.UserContext(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}

	stats, err := s.statsService.RecomputeUser(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(stats)
}

// PromoteToAdmin handles POST /api/admin/users/:id/promote-admin
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	return s.setAdmin(c, true)
}

// DemoteFromAdmin handles POST /api/admin/users/:id/demote-admin
func (s *Server) DemoteFromAdmin(c *fiber.Ctx) error {
	return s.setAdmin(c, false)
}

func (s *Server) setAdmin(c *fiber.Ctx, isAdmin bool) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if !isAdmin && targetID == c.Locals("userID").(uint) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You cannot remove your own admin role"))
	}

	user, err := s.userService.SetAdmin(c.UserContext(), targetID, isAdmin)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}
