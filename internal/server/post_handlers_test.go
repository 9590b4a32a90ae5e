package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"glimpse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	s, db := newTestServer(t)
	user := seedUser(t, db, "poster", "poster@example.com")
	app := newTestApp(s, user.ID)

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]interface{}{
				"caption": "sunset",
				"img_url": "https://picsum.photos/800",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "MissingImgURL",
			body: map[string]interface{}{
				"caption": "no media",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "BadMediaType",
			body: map[string]interface{}{
				"img_url":    "https://picsum.photos/800",
				"media_type": "audio",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/posts", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp := doRequest(t, app, req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusCreated {
				var post models.Post
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
				assert.Equal(t, user.ID, post.UserID)
				assert.Equal(t, models.MediaTypeImage, post.MediaType)
				assert.Equal(t, user.Name, post.User.Name)
			}
		})
	}
}

func TestCreatePost_GroupMembershipRequired(t *testing.T) {
	s, db := newTestServer(t)
	outsider := seedUser(t, db, "outsider", "outsider@example.com")
	creator := seedUser(t, db, "creator", "creator@example.com")
	app := newTestApp(s, outsider.ID)

	group := &models.Group{Name: "members only", CreatorID: creator.ID}
	require.NoError(t, db.Create(group).Error)
	require.NoError(t, db.Create(&models.GroupMembership{GroupID: group.ID, UserID: creator.ID}).Error)

	body, _ := json.Marshal(map[string]interface{}{
		"img_url":  "https://picsum.photos/800",
		"group_id": group.ID,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/posts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp := doRequest(t, app, req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestLikeUnlikePost(t *testing.T) {
	s, db := newTestServer(t)
	viewer := seedUser(t, db, "viewer", "viewer@example.com")
	author := seedUser(t, db, "author", "author@example.com")
	app := newTestApp(s, viewer.ID)

	post := seedPost(t, db, author.ID, "likeable", nil)

	likeURL := fmt.Sprintf("/api/posts/%d/like", post.ID)

	t.Run("LikeIncrementsCounter", func(t *testing.T) {
		resp := doRequest(t, app, httptest.NewRequest(http.MethodPost, likeURL, nil))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var liked models.Post
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&liked))
		assert.Equal(t, 1, liked.NoOfLikes)
		assert.True(t, liked.LikedByRequester)
	})

	t.Run("DuplicateLikeIsNoOp", func(t *testing.T) {
		resp := doRequest(t, app, httptest.NewRequest(http.MethodPost, likeURL, nil))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var liked models.Post
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&liked))
		assert.Equal(t, 1, liked.NoOfLikes)
	})

	t.Run("Unlike", func(t *testing.T) {
		resp := doRequest(t, app, httptest.NewRequest(http.MethodDelete, likeURL, nil))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var unliked models.Post
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&unliked))
		assert.Equal(t, 0, unliked.NoOfLikes)
		assert.False(t, unliked.LikedByRequester)
	})

	t.Run("LikeMissingPost", func(t *testing.T) {
		resp := doRequest(t, app, httptest.NewRequest(http.MethodPost, "/api/posts/9999/like", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestGetFeedLikes(t *testing.T) {
	s, db := newTestServer(t)
	viewer := seedUser(t, db, "viewer", "viewer@example.com")
	author := seedUser(t, db, "author", "author@example.com")
	app := newTestApp(s, viewer.ID)

	post := seedPost(t, db, author.ID, "popular", nil)
	require.NoError(t, db.Create(&models.Like{UserID: viewer.ID, PostID: post.ID}).Error)

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/feed/likes?post_id=%d", post.ID), nil)
	resp := doRequest(t, app, req)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var wrapper struct {
		Likes []models.Like `json:"likes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&wrapper))
	require.Len(t, wrapper.Likes, 1)
	assert.Equal(t, viewer.ID, wrapper.Likes[0].UserID)
}

func TestGetUserPosts(t *testing.T) {
	s, db := newTestServer(t)
	viewer := seedUser(t, db, "viewer", "viewer@example.com")
	author := seedUser(t, db, "author", "author@example.com")
	app := newTestApp(s, viewer.ID)

	for i := 0; i < 3; i++ {
		seedPost(t, db, author.ID, fmt.Sprintf("post %d", i), nil)
	}

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/users/%d/posts?limit=2", author.ID), nil)
	resp := doRequest(t, app, req)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var posts []models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	assert.Len(t, posts, 2)
}
