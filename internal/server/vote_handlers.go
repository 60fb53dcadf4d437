package server

import (
	"cinetheque/internal/models"
	"cinetheque/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RecordVote handles POST /api/forum/votes
// @Summary Vote on a topic or post
// @Description Repeating a vote removes it; voting the other way replaces it.
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{target_type=string,target_id=int,direction=string} true "Vote"
// @Success 200 {object} models.VoteState
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /forum/votes [post]
func (s *Server) RecordVote(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	var req struct {
		TargetType string `json:"target_type"`
		TargetID   uint   `json:"target_id"`
		Direction  string `json:"direction"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.TargetID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("target_id is required"))
	}

	state, err := s.voteService.RecordVote(c.UserContext(), service.RecordVoteInput{
		UserID:     userID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Direction:  req.Direction,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(state)
}

// GetVoteState handles GET /api/forum/votes/:targetType/:id
func (s *Server) GetVoteState(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	state, err := s.voteService.VoteState(c.UserContext(), userID, c.Params("targetType"), targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(state)
}
