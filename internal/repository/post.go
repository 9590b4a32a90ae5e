package repository

import (
	"context"
	"time"

	"glimpse/internal/cache"
	"glimpse/internal/models"
	"glimpse/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	// SampleFeed returns a uniformly random sample (without replacement) of at
	// most limit posts that are eligible for the requester: not authored by
	// them, not in seenIDs, and matching the scope (nil groupID means the
	// public feed, otherwise the given group).
	SampleFeed(ctx context.Context, requesterID uint, groupID *uint, seenIDs []uint, limit int) ([]*models.Post, error)
	Like(ctx context.Context, userID, postID uint) (bool, error)
	Unlike(ctx context.Context, userID, postID uint) (bool, error)
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	ListLikes(ctx context.Context, postID uint) ([]*models.Like, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post

	// The requester-neutral variant carries no per-user fields, so it is the
	// only one safe to share in the cache.
	if currentUserID == 0 {
		err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			return r.applyRequesterDetails(r.db.WithContext(ctx), 0).
				Preload("User").
				First(&post, id).Error
		})
		if err != nil {
			return nil, err
		}
		return &post, nil
	}

	err := r.applyRequesterDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyRequesterDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) SampleFeed(ctx context.Context, requesterID uint, groupID *uint, seenIDs []uint, limit int) ([]*models.Post, error) {
	defer observability.TrackQuery("sample_feed", "posts")()

	q := r.applyRequesterDetails(r.db.WithContext(ctx), requesterID).
		Preload("User").
		Where("posts.user_id <> ?", requesterID)

	if len(seenIDs) > 0 {
		q = q.Where("posts.id NOT IN ?", seenIDs)
	}
	if groupID != nil {
		q = q.Where("posts.group_id = ?", *groupID)
	} else {
		q = q.Where("posts.group_id IS NULL")
	}

	// RANDOM() is understood by both PostgreSQL and SQLite; a fresh ordering is
	// drawn on every call, so sampling stays uniform over whatever remains.
	var posts []*models.Post
	err := q.Order("RANDOM()").Limit(limit).Find(&posts).Error
	return posts, err
}

// applyRequesterDetails adds a subquery computing likedByRequester in a single query.
func (r *postRepository) applyRequesterDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select(
			"posts.*, EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS liked_by_requester",
			currentUserID,
		)
	}
	return db.Select("posts.*, FALSE AS liked_by_requester")
}

// Like inserts a like and bumps the denormalized counter in one transaction.
// Returns true when a new like row was created; a duplicate like is a no-op.
func (r *postRepository) Like(ctx context.Context, userID, postID uint) (bool, error) {
	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// ON CONFLICT DO NOTHING keeps the unique (user_id, post_id) pair
		// race-free under concurrent likers.
		res := tx.Exec(
			`INSERT INTO likes (user_id, post_id, created_at)
			 VALUES (?, ?, ?)
			 ON CONFLICT (user_id, post_id) DO NOTHING`,
			userID, postID, time.Now().UTC(),
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("no_of_likes", gorm.Expr("no_of_likes + 1")).Error
	})
	if err == nil && created {
		cache.InvalidatePost(ctx, postID)
	}
	return created, err
}

// Unlike removes a like and decrements the counter in one transaction.
// Returns true when a like row was actually removed.
func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("no_of_likes", gorm.Expr("no_of_likes - 1")).Error
	})
	if err == nil && removed {
		cache.InvalidatePost(ctx, postID)
	}
	return removed, err
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *postRepository) ListLikes(ctx context.Context, postID uint) ([]*models.Like, error) {
	var likes []*models.Like
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&likes).Error
	return likes, err
}
