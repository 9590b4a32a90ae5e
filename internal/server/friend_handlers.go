package server

import (
	"glimpse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFriends returns the requester's accepted friends as users.
func (s *Server) GetFriends(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	friends, err := s.friendService.ListFriends(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	return c.JSON(friends)
}

// GetPendingRequests returns friend requests waiting on the requester.
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	requests, err := s.friendService.ListPendingRequests(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	return c.JSON(requests)
}

// SendFriendRequest handles POST /api/friends/requests/:userId (protected)
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	receiverID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	friendship, err := s.friendService.SendRequest(ctx, userID, receiverID)
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	s.publishUserEvent(receiverID, EventFriendRequestReceived, map[string]interface{}{
		"request": friendship,
	})

	return c.Status(fiber.StatusCreated).JSON(friendship)
}

// AcceptFriendRequest handles POST /api/friends/requests/:requestId/accept (receiver only)
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	friendship, err := s.friendService.AcceptRequest(ctx, userID, requestID)
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	s.publishUserEvent(friendship.SenderID, EventFriendRequestAccepted, map[string]interface{}{
		"friendship": friendship,
	})

	return c.JSON(friendship)
}

// RemoveFriend handles DELETE /api/friends/:friendshipId (either participant)
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	friendshipID, err := s.parseID(c, "friendshipId")
	if err != nil {
		return nil
	}

	if removeErr := s.friendService.RemoveFriend(ctx, userID, friendshipID); removeErr != nil {
		return models.RespondWithError(c, serviceErrorStatus(removeErr), removeErr)
	}

	return c.SendStatus(fiber.StatusOK)
}

// SearchUsers handles GET /api/users/search?q=&limit= (protected)
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	ctx := c.UserContext()

	query := c.Query("q")
	limit := c.QueryInt("limit", 20)

	users, err := s.friendService.SearchUsers(ctx, query, limit)
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	return c.JSON(users)
}
