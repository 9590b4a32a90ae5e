// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"glimpse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	NumGroups   int
	ShouldClean bool
	// SkipBcrypt stores a plaintext marker password instead of hashing.
	// Dev fast mode only; logins will not work.
	SkipBcrypt bool
}

var groupNames = []string{
	"Hikers", "Film Club", "Night Owls", "Runners", "Home Cooks",
	"Photography", "Retro Gaming", "Book Circle", "Gardeners", "Makers",
	"Vinyl Heads", "Coffee Snobs", "Climbers", "Birdwatchers", "Synthwave",
}

// Seed populates the database with a connected social mesh: users, groups
// with memberships, public and group posts, likes, comments and friendships.
// Denormalized post counters are written to match the actual row counts.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 25
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 100
	}
	if opts.NumGroups <= 0 {
		opts.NumGroups = 5
	}
	if opts.NumGroups > len(groupNames) {
		opts.NumGroups = len(groupNames)
	}

	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	log.Printf("Starting database seeding with %d users, %d posts, %d groups...",
		opts.NumUsers, opts.NumPosts, opts.NumGroups)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := createUsers(db, opts)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	groups, err := createGroups(db, r, users, opts.NumGroups)
	if err != nil {
		return fmt.Errorf("failed to create groups: %w", err)
	}
	log.Printf("%d groups created", len(groups))

	posts, err := createPosts(db, r, users, groups, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	if err := createEngagement(db, r, users, posts); err != nil {
		return fmt.Errorf("failed to create likes and comments: %w", err)
	}
	log.Println("likes and comments created")

	if err := createFriendships(db, r, users); err != nil {
		return fmt.Errorf("failed to create friendships: %w", err)
	}
	log.Println("friendships created")

	log.Println("Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, posts, group_members, groups, friendships, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(db *gorm.DB, opts Options) ([]*models.User, error) {
	password := "password123"
	hashed := password
	if !opts.SkipBcrypt {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashed = string(h)
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u := &models.User{
			Name:     gofakeit.Name(),
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password: hashed,
			Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		}
		users = append(users, u)
	}
	if err := db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func createGroups(db *gorm.DB, r *rand.Rand, users []*models.User, n int) ([]*models.Group, error) {
	groups := make([]*models.Group, 0, n)
	for i := 0; i < n; i++ {
		creator := users[r.Intn(len(users))]
		group := &models.Group{Name: groupNames[i], CreatorID: creator.ID}
		if err := db.Create(group).Error; err != nil {
			return nil, err
		}

		memberIDs := map[uint]bool{creator.ID: true}
		// Each group gets roughly a third of the user base.
		for _, u := range users {
			if !memberIDs[u.ID] && r.Intn(3) == 0 {
				memberIDs[u.ID] = true
			}
		}
		memberships := make([]*models.GroupMembership, 0, len(memberIDs))
		for uid := range memberIDs {
			memberships = append(memberships, &models.GroupMembership{GroupID: group.ID, UserID: uid})
		}
		if err := db.Create(&memberships).Error; err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func createPosts(db *gorm.DB, r *rand.Rand, users []*models.User, groups []*models.Group, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[r.Intn(len(users))]

		post := &models.Post{
			UserID:    author.ID,
			Caption:   gofakeit.Sentence(8),
			MediaType: models.MediaTypeImage,
			ImgURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		}
		if r.Intn(5) == 0 {
			post.MediaType = models.MediaTypeVideo
			post.ImgURL = fmt.Sprintf("https://videos.example.com/%s.mp4", gofakeit.UUID())
		}

		// About a quarter of posts land in a group the author belongs to.
		if len(groups) > 0 && r.Intn(4) == 0 {
			g := groups[r.Intn(len(groups))]
			var count int64
			if err := db.Model(&models.GroupMembership{}).
				Where("group_id = ? AND user_id = ?", g.ID, author.ID).
				Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				post.GroupID = &g.ID
			}
		}

		// Spread created_at over the last 90 days so feeds look lived-in.
		daysBack := r.Intn(90)
		post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
			time.Duration(r.Intn(24))*time.Hour)

		posts = append(posts, post)
	}
	if err := db.Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// createEngagement adds likes and comments and sets the denormalized counters
// from the rows actually written, so counts never drift from reality.
func createEngagement(db *gorm.DB, r *rand.Rand, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		numLikes := r.Intn(6)
		liked := map[uint]bool{}
		for i := 0; i < numLikes; i++ {
			u := users[r.Intn(len(users))]
			if u.ID == post.UserID || liked[u.ID] {
				continue
			}
			liked[u.ID] = true
			if err := db.Create(&models.Like{UserID: u.ID, PostID: post.ID}).Error; err != nil {
				return err
			}
		}

		numComments := r.Intn(4)
		for i := 0; i < numComments; i++ {
			u := users[r.Intn(len(users))]
			comment := &models.Comment{
				Text:   gofakeit.Sentence(6 + r.Intn(10)),
				UserID: u.ID,
				PostID: post.ID,
			}
			if err := db.Create(comment).Error; err != nil {
				return err
			}
		}

		if err := db.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumns(map[string]interface{}{
				"no_of_likes":    len(liked),
				"no_of_comments": numComments,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

func createFriendships(db *gorm.DB, r *rand.Rand, users []*models.User) error {
	seen := map[[2]uint]bool{}
	target := len(users) * 2
	for i := 0; i < target; i++ {
		a := users[r.Intn(len(users))]
		b := users[r.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}
		key := [2]uint{a.ID, b.ID}
		rev := [2]uint{b.ID, a.ID}
		if seen[key] || seen[rev] {
			continue
		}
		seen[key] = true

		f := &models.Friendship{
			SenderID:   a.ID,
			ReceiverID: b.ID,
			IsAccepted: r.Intn(3) != 0,
		}
		if err := db.Create(f).Error; err != nil {
			return err
		}
	}
	return nil
}
