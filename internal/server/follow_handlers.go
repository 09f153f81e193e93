package server

import (
	"warbler/internal/middleware"
	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FollowUser makes the authenticated user follow the target user.
// Re-following is an idempotent no-op
func (s *Server) FollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if targetID == userID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You cannot follow yourself"))
	}

	// 404 for an unknown target before touching the edge.
	if _, err := s.userRepo.GetByID(c.UserContext(), targetID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if err := s.followRepo.Follow(c.UserContext(), userID, targetID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "user followed",
		"user_id", userID, "target_id", targetID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"following": true,
		"user_id":   targetID,
	})
}

// UnfollowUser removes the follow edge. Unfollowing a user who is not
// followed is a no-op
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.userRepo.GetByID(c.UserContext(), targetID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if err := s.followRepo.Unfollow(c.UserContext(), userID, targetID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetFollowers returns the users following the target user, newest edge first
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.userRepo.GetByID(c.UserContext(), id); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	p := parsePagination(c, 50)

	users, serviceErr := s.followRepo.Followers(c.UserContext(), id, p.Limit, p.Offset)
	if serviceErr != nil {
		return models.RespondWithError(c, mapServiceError(serviceErr), serviceErr)
	}

	return c.JSON(fiber.Map{
		"users":  users,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// GetFollowing returns the users the target user follows, newest edge first
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.userRepo.GetByID(c.UserContext(), id); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	p := parsePagination(c, 50)

	users, serviceErr := s.followRepo.Following(c.UserContext(), id, p.Limit, p.Offset)
	if serviceErr != nil {
		return models.RespondWithError(c, mapServiceError(serviceErr), serviceErr)
	}

	return c.JSON(fiber.Map{
		"users":  users,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}
