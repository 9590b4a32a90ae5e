package service

import (
	"context"
	"errors"
	"strings"

	"glimpse/internal/models"
	"glimpse/internal/repository"

	"gorm.io/gorm"
)

type GroupService struct {
	groupRepo repository.GroupRepository
}

func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

func (s *GroupService) CreateGroup(ctx context.Context, creatorID uint, name string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, models.NewValidationError("Group name must be at least 2 characters")
	}
	if len(name) > 100 {
		return nil, models.NewValidationError("Group name too long (max 100 characters)")
	}

	group := &models.Group{Name: name, CreatorID: creatorID}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return s.groupRepo.GetByID(ctx, group.ID)
}

func (s *GroupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.groupRepo.List(ctx)
}

func (s *GroupService) ListJoinedGroups(ctx context.Context, userID uint) ([]*models.Group, error) {
	return s.groupRepo.ListJoined(ctx, userID)
}

func (s *GroupService) GetGroup(ctx context.Context, id uint) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Group", id)
		}
		return nil, err
	}
	return group, nil
}

func (s *GroupService) JoinGroup(ctx context.Context, groupID, userID uint) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}
	return s.groupRepo.Join(ctx, groupID, userID)
}

func (s *GroupService) LeaveGroup(ctx context.Context, groupID, userID uint) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}
	return s.groupRepo.Leave(ctx, groupID, userID)
}

// DeleteGroup removes a group. Only the creator may delete it.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, userID uint) error {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != userID {
		return models.NewUnauthorizedError("Only the group creator can delete the group")
	}
	return s.groupRepo.Delete(ctx, groupID)
}

func (s *GroupService) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	return s.groupRepo.IsMember(ctx, groupID, userID)
}
