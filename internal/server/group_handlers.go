package server

import (
	"glimpse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetGroups returns all groups (protected)
func (s *Server) GetGroups(c *fiber.Ctx) error {
	ctx := c.UserContext()

	groups, err := s.groupService.ListGroups(ctx)
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	return c.JSON(groups)
}

// GetJoinedGroups returns the groups the requester belongs to.
func (s *Server) GetJoinedGroups(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	groups, err := s.groupService.ListJoinedGroups(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	return c.JSON(groups)
}

// CreateGroup creates a group with the requester as creator and first member.
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Name string `json:"name"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.CreateGroup(ctx, userID, req.Name)
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

// JoinGroup handles POST /api/groups/:id/join (protected, idempotent)
func (s *Server) JoinGroup(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if joinErr := s.groupService.JoinGroup(ctx, groupID, userID); joinErr != nil {
		return models.RespondWithError(c, serviceErrorStatus(joinErr), joinErr)
	}

	return c.JSON(fiber.Map{"message": "Joined group"})
}

// LeaveGroup handles POST /api/groups/:id/leave (protected)
func (s *Server) LeaveGroup(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if leaveErr := s.groupService.LeaveGroup(ctx, groupID, userID); leaveErr != nil {
		return models.RespondWithError(c, serviceErrorStatus(leaveErr), leaveErr)
	}

	return c.JSON(fiber.Map{"message": "Left group"})
}

// DeleteGroup handles DELETE /api/groups/:id (creator only)
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if delErr := s.groupService.DeleteGroup(ctx, groupID, userID); delErr != nil {
		return models.RespondWithError(c, serviceErrorStatus(delErr), delErr)
	}

	return c.SendStatus(fiber.StatusOK)
}
