package repository

import (
	"context"
	"errors"

	"glimpse/internal/models"

	"gorm.io/gorm"
)

// FriendRepository defines the interface for friendship data operations
type FriendRepository interface {
	Create(ctx context.Context, friendship *models.Friendship) error
	GetByID(ctx context.Context, id uint) (*models.Friendship, error)
	GetBetween(ctx context.Context, userA, userB uint) (*models.Friendship, error)
	Accept(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	ListFriends(ctx context.Context, userID uint) ([]*models.Friendship, error)
	ListPending(ctx context.Context, userID uint) ([]*models.Friendship, error)
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	return r.db.WithContext(ctx).Create(friendship).Error
}

func (r *friendRepository) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		First(&friendship, id).Error
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

// GetBetween returns (nil, nil) when no friendship exists in either direction.
func (r *friendRepository) GetBetween(ctx context.Context, userA, userB uint) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA,
		).
		First(&friendship).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

func (r *friendRepository) Accept(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ?", id).
		Update("is_accepted", true).Error
}

func (r *friendRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Friendship{}, id).Error
}

func (r *friendRepository) ListFriends(ctx context.Context, userID uint) ([]*models.Friendship, error) {
	var friendships []*models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		Where("(sender_id = ? OR receiver_id = ?) AND is_accepted = ?", userID, userID, true).
		Order("updated_at DESC").
		Find(&friendships).Error
	return friendships, err
}

func (r *friendRepository) ListPending(ctx context.Context, userID uint) ([]*models.Friendship, error) {
	var friendships []*models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("receiver_id = ? AND is_accepted = ?", userID, false).
		Order("created_at DESC").
		Find(&friendships).Error
	return friendships, err
}
