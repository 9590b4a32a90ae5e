package seed

import (
	"testing"

	"glimpse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Group{},
		&models.GroupMembership{},
		&models.Friendship{},
	))
	return db
}

func TestSeed(t *testing.T) {
	db := setupTestDB(t)

	// sqlite has no TRUNCATE, so skip cleaning.
	err := Seed(db, Options{
		NumUsers:   10,
		NumPosts:   30,
		NumGroups:  3,
		SkipBcrypt: true,
	})
	require.NoError(t, err)

	var userCount, postCount, groupCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	require.NoError(t, db.Model(&models.Group{}).Count(&groupCount).Error)
	assert.Equal(t, int64(10), userCount)
	assert.Equal(t, int64(30), postCount)
	assert.Equal(t, int64(3), groupCount)

	t.Run("CountersMatchRows", func(t *testing.T) {
		var posts []models.Post
		require.NoError(t, db.Find(&posts).Error)

		for _, p := range posts {
			var likes, comments int64
			require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", p.ID).Count(&likes).Error)
			require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", p.ID).Count(&comments).Error)
			assert.Equal(t, likes, int64(p.NoOfLikes), "post %d like counter", p.ID)
			assert.Equal(t, comments, int64(p.NoOfComments), "post %d comment counter", p.ID)
		}
	})

	t.Run("GroupPostsComeFromMembers", func(t *testing.T) {
		var posts []models.Post
		require.NoError(t, db.Where("group_id IS NOT NULL").Find(&posts).Error)

		for _, p := range posts {
			var count int64
			require.NoError(t, db.Model(&models.GroupMembership{}).
				Where("group_id = ? AND user_id = ?", *p.GroupID, p.UserID).
				Count(&count).Error)
			assert.Equal(t, int64(1), count, "post %d author not in group %d", p.ID, *p.GroupID)
		}
	})

	t.Run("CreatorsAreMembers", func(t *testing.T) {
		var groups []models.Group
		require.NoError(t, db.Find(&groups).Error)

		for _, g := range groups {
			var count int64
			require.NoError(t, db.Model(&models.GroupMembership{}).
				Where("group_id = ? AND user_id = ?", g.ID, g.CreatorID).
				Count(&count).Error)
			assert.Equal(t, int64(1), count)
		}
	})

	t.Run("NoSelfFriendships", func(t *testing.T) {
		var count int64
		require.NoError(t, db.Model(&models.Friendship{}).
			Where("sender_id = receiver_id").Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})
}
