package models

import "time"

// Group represents a private posting group. Posts with a nil GroupID belong to
// the public feed; posts scoped to a group are visible to members only.
type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	CreatorID uint      `gorm:"not null;index" json:"creator_id"`
	Creator   *User     `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Users     []User    `gorm:"many2many:group_members;" json:"users,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Group) TableName() string {
	return "groups"
}
