package server

import (
	"strconv"
	"strings"
	"time"

	"glimpse/internal/models"
	"glimpse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed returns the next randomized batch of unseen posts for the requester.
//
// Query parameters:
//
//	seen_ids  post IDs already delivered in this session, either one
//	          comma-separated value or repeated seen_ids[] params
//	group_id  optional group scope; non-members silently fall back to public
//
// An unauthorized group scope is still HTTP 200: the response carries
// authorized=false and public posts, so a client cannot distinguish a missing
// group from one it may not see.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	seenIDs, err := s.parseSeenIDs(c)
	if err != nil {
		return nil
	}

	var groupID *uint
	if raw := strings.TrimSpace(c.Query("group_id")); raw != "" {
		id, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil || id == 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid group ID"))
		}
		g := uint(id)
		groupID = &g
	}

	batch, err := s.feedService.FetchBatch(ctx, service.FetchBatchInput{
		RequesterID: userID,
		GroupID:     groupID,
		SeenIDs:     seenIDs,
	})
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	return c.JSON(batch)
}

// GetFeedComments returns a post's comments, newest first.
func (s *Server) GetFeedComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseQueryID(c, "post_id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(ctx, postID)
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	return c.JSON(fiber.Map{"comments": comments})
}

// GetFeedLikes returns a post's likes, newest first.
func (s *Server) GetFeedLikes(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseQueryID(c, "post_id")
	if err != nil {
		return nil
	}

	likes, err := s.postService.GetPostLikes(ctx, postID)
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	return c.JSON(fiber.Map{"likes": likes})
}

// CreateFeedComment creates a comment on a post (protected)
func (s *Server) CreateFeedComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		PostID uint   `json:"post_id"`
		Text   string `json:"text"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	if req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid post ID"))
	}

	created, err := s.commentService.StoreComment(ctx, service.StoreCommentInput{
		UserID: userID,
		PostID: req.PostID,
		Text:   req.Text,
	})
	if err != nil {
		return models.RespondWithError(c, serviceErrorStatus(err), err)
	}

	commentsCount := 0
	if post, postErr := s.postRepo.GetByID(ctx, req.PostID, userID); postErr == nil {
		commentsCount = post.NoOfComments
	}
	s.publishBroadcastEvent(EventCommentCreated, map[string]interface{}{
		"post_id":        req.PostID,
		"comment":        created,
		"comments_count": commentsCount,
		"updated_at":     time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(fiber.Map{"comment": created})
}

// DeleteFeedComment deletes a comment (owner only)
func (s *Server) DeleteFeedComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// The post ID is needed for the event payload, so grab it before the row
	// is gone. Publish only once the delete has actually happened.
	var postID uint
	if comment, getErr := s.commentRepo.GetByID(ctx, commentID); getErr == nil && comment != nil {
		postID = comment.PostID
	}

	if delErr := s.commentService.DeleteComment(ctx, userID, commentID); delErr != nil {
		return models.RespondWithError(c, serviceErrorStatus(delErr), delErr)
	}

	s.publishBroadcastEvent(EventCommentDeleted, map[string]interface{}{
		"post_id":    postID,
		"comment_id": commentID,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(fiber.Map{"success": true})
}
