package models

import (
	"time"

	"gorm.io/gorm"
)

// MediaType distinguishes image posts from video posts.
type MediaType string

const (
	// MediaTypeImage is a still-image post.
	MediaTypeImage MediaType = "image"
	// MediaTypeVideo is a video post.
	MediaTypeVideo MediaType = "video"
)

// Post represents a media post in the Glimpse application.
//
// NoOfLikes and NoOfComments are denormalized counters. They must always equal
// the live count of Like/Comment rows for the post, so every like/comment
// insert or delete adjusts them inside the same transaction with an atomic
// `no_of_likes = no_of_likes + 1` style update.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"user"`
	Caption      string    `gorm:"type:text" json:"caption,omitempty"`
	NoOfLikes    int       `gorm:"not null;default:0" json:"no_of_likes"`
	NoOfComments int       `gorm:"not null;default:0" json:"no_of_comments"`
	ImgURL       string    `gorm:"not null" json:"img_url"`
	MediaType    MediaType `gorm:"type:varchar(10);not null;default:'image'" json:"media_type"`
	GroupID      *uint     `gorm:"index" json:"group_id,omitempty"`
	Group        *Group    `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	// LikedByRequester is not persisted; computed per request via an EXISTS subquery
	LikedByRequester bool           `gorm:"->" json:"likedByRequester"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
