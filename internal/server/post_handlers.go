package server

import (
	"time"

	"glimpse/internal/models"
	"glimpse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost creates a new post, optionally scoped to a group (protected)
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Caption   string `json:"caption"`
		ImgURL    string `json:"img_url"`
		MediaType string `json:"media_type"`
		GroupID   *uint  `json:"group_id"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:    userID,
		Caption:   req.Caption,
		ImgURL:    req.ImgURL,
		MediaType: req.MediaType,
		GroupID:   req.GroupID,
	})
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	s.publishBroadcastEvent(EventPostCreated, map[string]interface{}{
		"post":       post,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost returns a single post with author and like state for the requester.
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(ctx, postID, userID)
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	return c.JSON(post)
}

// GetUserPosts returns a user's posts, newest first, with limit/offset paging.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	currentUserID := c.Locals("userID").(uint)

	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)

	posts, err := s.postService.GetUserPosts(ctx, userID, page.Limit, page.Offset, currentUserID)
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	return c.JSON(posts)
}

// LikePost handles POST /api/posts/:id/like (protected, idempotent)
func (s *Server) LikePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.LikePost(ctx, userID, postID)
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	s.publishLikeUpdate(post)

	return c.JSON(post)
}

// UnlikePost handles DELETE /api/posts/:id/like (protected, idempotent)
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.UnlikePost(ctx, userID, postID)
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	s.publishLikeUpdate(post)

	return c.JSON(post)
}

func (s *Server) publishLikeUpdate(post *models.Post) {
	s.publishBroadcastEvent(EventPostLikeUpdated, map[string]interface{}{
		"post_id":     post.ID,
		"likes_count": post.NoOfLikes,
		"updated_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})
}
