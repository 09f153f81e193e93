package server

import (
	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest represents the profile-edit payload. Password is the
// account password re-entered for confirmation.
type UpdateProfileRequest struct {
	Password       string `json:"password"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Bio            string `json:"bio"`
	Location       string `json:"location"`
	ImageURL       string `json:"image_url"`
	HeaderImageURL string `json:"header_image_url"`
}

// GetAllUsers returns a page of users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	users, err := s.userService.ListUsers(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"users":  users,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

// GetMyProfile returns the authenticated user's own account
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(user)
}

// UpdateMyProfile applies profile edits after re-confirming the account password
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), userID, service.UpdateProfileInput{
		Password:       req.Password,
		Username:       req.Username,
		Email:          req.Email,
		Bio:            req.Bio,
		Location:       req.Location,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "profile updated", "user_id", userID)

	return c.JSON(user)
}

// DeleteMyAccount removes the authenticated user's account and everything it owns
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.userService.DeleteAccount(c.UserContext(), userID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "account deleted", "user_id", userID)

	return c.SendStatus(fiber.StatusNoContent)
}

// GetUserProfile returns a user's public profile
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(user)
}

// GetUserMessages returns a user's messages, newest first
func (s *Server) GetUserMessages(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// 404 for an unknown user rather than an empty page.
	if _, err := s.userService.GetUserByID(c.UserContext(), id); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	p := parsePagination(c, 20)

	messages, serviceErr := s.messageRepo.GetByUserID(c.UserContext(), id, p.Limit, p.Offset)
	if serviceErr != nil {
		return models.RespondWithError(c, mapServiceError(serviceErr), serviceErr)
	}

	if annotateErr := s.annotateLiked(c, messages); annotateErr != nil {
		return models.RespondWithError(c, mapServiceError(annotateErr), annotateErr)
	}

	return c.JSON(fiber.Map{
		"messages": messages,
		"limit":    p.Limit,
		"offset":   p.Offset,
	})
}

// GetUserLikes returns the messages a user has liked, most recent like first
func (s *Server) GetUserLikes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.userService.GetUserByID(c.UserContext(), id); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	p := parsePagination(c, 20)

	messages, serviceErr := s.messageService.LikedMessages(c.UserContext(), id, p.Limit, p.Offset)
	if serviceErr != nil {
		return models.RespondWithError(c, mapServiceError(serviceErr), serviceErr)
	}

	if annotateErr := s.annotateLiked(c, messages); annotateErr != nil {
		return models.RespondWithError(c, mapServiceError(annotateErr), annotateErr)
	}

	return c.JSON(fiber.Map{
		"messages": messages,
		"limit":    p.Limit,
		"offset":   p.Offset,
	})
}
