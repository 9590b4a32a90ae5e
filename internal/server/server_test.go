package server

import (
	"net/http"
	"testing"

	"glimpse/internal/config"
	"glimpse/internal/models"
	"glimpse/internal/repository"
	"glimpse/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer builds a Server over an in-memory sqlite DB with no Redis.
// Metrics middleware is skipped so repeated test runs don't fight over the
// Prometheus default registry.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

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

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	friendRepo := repository.NewFriendRepository(db)

	s := &Server{
		config:      &config.Config{JWTSecret: "test-secret", Env: "test", FeedPageSize: 2},
		db:          db,
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		groupRepo:   groupRepo,
		friendRepo:  friendRepo,
	}
	s.feedService = service.NewFeedService(postRepo, groupRepo, s.config.FeedPageSize)
	s.postService = service.NewPostService(postRepo, groupRepo)
	s.commentService = service.NewCommentService(commentRepo, postRepo)
	s.groupService = service.NewGroupService(groupRepo)
	s.friendService = service.NewFriendService(friendRepo, userRepo)

	return s, db
}

// newTestApp registers the protected routes with a stub auth middleware that
// injects the given user ID.
func newTestApp(s *Server, userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	})

	app.Get("/api/feed", s.GetFeed)
	app.Get("/api/feed/comments", s.GetFeedComments)
	app.Get("/api/feed/likes", s.GetFeedLikes)
	app.Post("/api/feed/comments", s.CreateFeedComment)
	app.Delete("/api/feed/comments/:id", s.DeleteFeedComment)

	app.Post("/api/posts", s.CreatePost)
	app.Post("/api/posts/:id/like", s.LikePost)
	app.Delete("/api/posts/:id/like", s.UnlikePost)
	app.Get("/api/posts/:id", s.GetPost)

	app.Get("/api/users/search", s.SearchUsers)
	app.Get("/api/users/:id/posts", s.GetUserPosts)

	app.Get("/api/groups", s.GetGroups)
	app.Get("/api/groups/joined", s.GetJoinedGroups)
	app.Post("/api/groups", s.CreateGroup)
	app.Post("/api/groups/:id/join", s.JoinGroup)
	app.Post("/api/groups/:id/leave", s.LeaveGroup)
	app.Delete("/api/groups/:id", s.DeleteGroup)

	app.Get("/api/friends", s.GetFriends)
	app.Get("/api/friends/requests", s.GetPendingRequests)
	app.Post("/api/friends/requests/:userId", s.SendFriendRequest)
	app.Post("/api/friends/requests/:requestId/accept", s.AcceptFriendRequest)
	app.Delete("/api/friends/:friendshipId", s.RemoveFriend)

	return app
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, Password: "hashed"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedPost(t *testing.T, db *gorm.DB, userID uint, caption string, groupID *uint) *models.Post {
	t.Helper()
	p := &models.Post{
		UserID:    userID,
		Caption:   caption,
		ImgURL:    "https://picsum.photos/800",
		MediaType: models.MediaTypeImage,
		GroupID:   groupID,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
