package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"glimpse/internal/models"
	"glimpse/internal/repository"

	"gorm.io/gorm"
)

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
}

type CreatePostInput struct {
	UserID    uint
	Caption   string
	ImgURL    string
	MediaType string
	GroupID   *uint
}

func NewPostService(postRepo repository.PostRepository, groupRepo repository.GroupRepository) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	const maxCaptionLen = 500

	mediaType := models.MediaType(in.MediaType)
	if mediaType == "" {
		mediaType = models.MediaTypeImage
	}
	switch mediaType {
	case models.MediaTypeImage, models.MediaTypeVideo:
		// valid
	default:
		return nil, models.NewValidationError("Invalid media_type")
	}

	if strings.TrimSpace(in.ImgURL) == "" {
		return nil, models.NewValidationError("img_url is required")
	}
	if _, err := url.ParseRequestURI(in.ImgURL); err != nil {
		return nil, models.NewValidationError("img_url must be a valid URL")
	}
	if len(in.Caption) > maxCaptionLen {
		return nil, models.NewValidationError("Caption too long (max 500 characters)")
	}

	// Posting into a group requires membership.
	if in.GroupID != nil {
		member, err := s.groupRepo.IsMember(ctx, *in.GroupID, in.UserID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, models.NewUnauthorizedError("You must be a member of the group to post in it")
		}
	}

	post := &models.Post{
		UserID:    in.UserID,
		Caption:   in.Caption,
		ImgURL:    in.ImgURL,
		MediaType: mediaType,
		GroupID:   in.GroupID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.GetPost(ctx, post.ID, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

// LikePost records a like and returns the post with fresh counters. Liking a
// post twice is a no-op, not an error.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.GetPost(ctx, postID, userID); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.Like(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, postID, userID)
}

// UnlikePost removes a like and returns the post with fresh counters.
// Unliking a post that was never liked is a no-op.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if _, err := s.GetPost(ctx, postID, userID); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, postID, userID)
}

// GetPostLikes returns who liked the post, newest first.
func (s *PostService) GetPostLikes(ctx context.Context, postID uint) ([]*models.Like, error) {
	if _, err := s.GetPost(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.postRepo.ListLikes(ctx, postID)
}
