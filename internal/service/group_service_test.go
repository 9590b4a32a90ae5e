package service

import (
	"context"
	"strings"
	"testing"

	"glimpse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGroupService_CreateGroup_Validation(t *testing.T) {
	t.Parallel()

	svc := NewGroupService(noopGroupRepo())
	ctx := context.Background()

	t.Run("name too short", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateGroup(ctx, 1, " a ")
		assertValidationError(t, err)
	})

	t.Run("name too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateGroup(ctx, 1, strings.Repeat("x", 101))
		assertValidationError(t, err)
	})

	t.Run("name is trimmed", func(t *testing.T) {
		t.Parallel()
		var created *models.Group
		groupRepo := noopGroupRepo()
		groupRepo.createFn = func(_ context.Context, g *models.Group) error {
			g.ID = 1
			created = g
			return nil
		}
		svc2 := NewGroupService(groupRepo)
		_, err := svc2.CreateGroup(ctx, 1, "  hikers  ")
		require.NoError(t, err)
		assert.Equal(t, "hikers", created.Name)
	})
}

func TestGroupService_DeleteGroup(t *testing.T) {
	t.Parallel()

	t.Run("only creator can delete", func(t *testing.T) {
		t.Parallel()
		groupRepo := noopGroupRepo()
		groupRepo.getByIDFn = func(_ context.Context, id uint) (*models.Group, error) {
			return &models.Group{ID: id, CreatorID: 10}, nil
		}
		svc := NewGroupService(groupRepo)
		err := svc.DeleteGroup(context.Background(), 1, 1)
		assertUnauthorizedError(t, err)
	})

	t.Run("creator deletes", func(t *testing.T) {
		t.Parallel()
		deleted := false
		groupRepo := noopGroupRepo()
		groupRepo.getByIDFn = func(_ context.Context, id uint) (*models.Group, error) {
			return &models.Group{ID: id, CreatorID: 1}, nil
		}
		groupRepo.deleteFn = func(_ context.Context, _ uint) error {
			deleted = true
			return nil
		}
		svc := NewGroupService(groupRepo)
		err := svc.DeleteGroup(context.Background(), 1, 1)
		require.NoError(t, err)
		assert.True(t, deleted)
	})
}

func TestGroupService_JoinGroup_MissingGroup(t *testing.T) {
	t.Parallel()

	groupRepo := noopGroupRepo()
	groupRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Group, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewGroupService(groupRepo)
	err := svc.JoinGroup(context.Background(), 99, 1)
	assertNotFoundError(t, err)
}
