package repository

import (
	"context"
	"errors"

	"glimpse/internal/cache"
	"glimpse/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupRepository defines the interface for group data operations
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	List(ctx context.Context) ([]*models.Group, error)
	ListJoined(ctx context.Context, userID uint) ([]*models.Group, error)
	Join(ctx context.Context, groupID, userID uint) error
	Leave(ctx context.Context, groupID, userID uint) error
	Delete(ctx context.Context, id uint) error
	IsMember(ctx context.Context, groupID, userID uint) (bool, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// Create persists the group and enrolls the creator as its first member.
func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		membership := models.GroupMembership{GroupID: group.ID, UserID: group.CreatorID}
		return tx.Create(&membership).Error
	})
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	err := cache.Aside(ctx, cache.GroupKey(id), &group, cache.GroupTTL, func() error {
		return r.db.WithContext(ctx).
			Preload("Creator").
			First(&group, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context) ([]*models.Group, error) {
	var groups []*models.Group
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Order("created_at DESC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepository) ListJoined(ctx context.Context, userID uint) ([]*models.Group, error) {
	var groups []*models.Group
	err := r.db.WithContext(ctx).
		Joins("JOIN group_members gm ON groups.id = gm.group_id").
		Where("gm.user_id = ?", userID).
		Preload("Creator").
		Preload("Users").
		Order("groups.created_at DESC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepository) Join(ctx context.Context, groupID, userID uint) error {
	membership := models.GroupMembership{GroupID: groupID, UserID: userID}
	// Use OnConflict to silently ignore duplicate key errors
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&membership).Error
	if err == nil {
		cache.InvalidateMembership(ctx, groupID, userID)
	}
	return err
}

func (r *groupRepository) Leave(ctx context.Context, groupID, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMembership{}).Error
	if err == nil {
		cache.InvalidateMembership(ctx, groupID, userID)
	}
	return err
}

func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.GroupMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, id).Error
	})
	if err == nil {
		cache.Invalidate(ctx, cache.GroupKey(id))
	}
	return err
}

// IsMember reports whether the user belongs to the group. A missing group is
// reported the same as a non-membership, not an error. Lookups are cached
// briefly since the feed path checks membership on every batch.
func (r *groupRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	var result struct {
		Member bool `json:"member"`
	}
	err := cache.Aside(ctx, cache.MembershipKey(groupID, userID), &result, cache.MembershipTTL, func() error {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.GroupMembership{}).
			Where("group_id = ? AND user_id = ?", groupID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		result.Member = count > 0
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return result.Member, nil
}
