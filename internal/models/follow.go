package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is the directed edge "Follower follows Followed".
type Follow struct {
	FollowedID uuid.UUID `gorm:"column:user_being_followed_id;type:uuid;primaryKey" json:"user_being_followed_id"`
	FollowerID uuid.UUID `gorm:"column:user_following_id;type:uuid;primaryKey;index" json:"user_following_id"`
	CreatedAt  time.Time `json:"created_at"`

	Followed User `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"-"`
	Follower User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}
