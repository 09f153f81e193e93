package server

import (
	"warbler/internal/middleware"
	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateMessageRequest represents the payload for posting a warble.
type CreateMessageRequest struct {
	Text string `json:"text"`
}

// annotateLiked sets the computed Liked flag on each message for the
// requesting user. Anonymous requests leave every flag false.
func (s *Server) annotateLiked(c *fiber.Ctx, messages []*models.Message) error {
	userID, ok := s.optionalUserID(c)
	if !ok || len(messages) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}

	likedIDs, err := s.messageRepo.GetLikedMessageIDs(c.UserContext(), userID, ids)
	if err != nil {
		return err
	}

	liked := make(map[uint]struct{}, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = struct{}{}
	}
	for _, m := range messages {
		_, m.Liked = liked[m.ID]
	}
	return nil
}

// GetMessages returns the global message feed, newest first
func (s *Server) GetMessages(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	messages, err := s.messageRepo.List(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if err := s.annotateLiked(c, messages); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"messages": messages,
		"limit":    p.Limit,
		"offset":   p.Offset,
	})
}

// CreateMessage posts a new warble owned by the authenticated user
func (s *Server) CreateMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.Post(c.UserContext(), userID, req.Text)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "message posted",
		"user_id", userID, "message_id", message.ID)

	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetMessage returns a single message
func (s *Server) GetMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	currentUserID, _ := s.optionalUserID(c)

	message, serviceErr := s.messageService.Get(c.UserContext(), id, currentUserID)
	if serviceErr != nil {
		return models.RespondWithError(c, mapServiceError(serviceErr), serviceErr)
	}

	return c.JSON(message)
}

// DeleteMessage removes a message. Only its owner may delete it
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if serviceErr := s.messageService.Delete(c.UserContext(), userID, id); serviceErr != nil {
		return models.RespondWithError(c, mapServiceError(serviceErr), serviceErr)
	}

	middleware.Logger.InfoContext(c.UserContext(), "message deleted",
		"user_id", userID, "message_id", id)

	return c.SendStatus(fiber.StatusNoContent)
}

// LikeMessage asserts a like on a message. Re-liking is a no-op
func (s *Server) LikeMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if serviceErr := s.messageService.Like(c.UserContext(), userID, id); serviceErr != nil {
		return models.RespondWithError(c, mapServiceError(serviceErr), serviceErr)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message_id": id,
		"liked":      true,
	})
}

// UnlikeMessage removes a like. Unliking an unliked message is a no-op
func (s *Server) UnlikeMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if serviceErr := s.messageService.Unlike(c.UserContext(), userID, id); serviceErr != nil {
		return models.RespondWithError(c, mapServiceError(serviceErr), serviceErr)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
