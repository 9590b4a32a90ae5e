package models

import "time"

// Friendship represents a friend request between two users. Direction is
// preserved to distinguish sent from received pending requests.
type Friendship struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"receiver_id"`
	IsAccepted bool      `gorm:"not null;default:false;index" json:"is_accepted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Sender   User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

// TableName specifies the table name for GORM.
func (Friendship) TableName() string {
	return "friendships"
}
