package models

// Follow is a directed edge: FollowerID follows FollowedID.
type Follow struct {
	FollowerID uint `gorm:"primaryKey;autoIncrement:false" json:"follower_id"`
	FollowedID uint `gorm:"primaryKey;autoIncrement:false;index" json:"followed_id"`
	Follower   User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Followed   User `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"-"`
}
